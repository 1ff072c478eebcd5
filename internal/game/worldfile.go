package game

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dekarrin/tunacmd/internal/command"
	"go.uber.org/zap"
)

type tcwWorldData struct {
	Format  string      `toml:"format"`
	Type    string      `toml:"type"`
	World   tcwWorld    `toml:"world"`
	Players []tcwPlayer `toml:"player"`
}

type tcwWorld struct {
	Name string `toml:"name"`
	MOTD string `toml:"motd"`
}

type tcwPlayer struct {
	Name     string    `toml:"name"`
	OpLevel  int       `toml:"op_level"`
	Gamemode string    `toml:"gamemode"`
	Position []float64 `toml:"position"`
}

// WorldDef is the starting state of a world as read from a world file.
type WorldDef struct {
	Name    string
	MOTD    string
	Players []PlayerDef
}

// PlayerDef is a player that exists in a world before anyone joins.
type PlayerDef struct {
	Name     string
	OpLevel  int
	Gamemode Gamemode
	Position Position
}

// LoadWorldDefFile reads and checks the world definition in the TOML file at
// path.
func LoadWorldDefFile(path string) (WorldDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return WorldDef{}, fmt.Errorf("reading world file: %w", err)
	}

	def, err := ParseWorldDefFromTOML(data)
	if err != nil {
		return WorldDef{}, fmt.Errorf("loading world file: %w", err)
	}
	return def, nil
}

// ParseWorldDefFromTOML takes in raw TOML bytes and reads a world definition
// from them.
func ParseWorldDefFromTOML(tomlData []byte) (WorldDef, error) {
	var tcw tcwWorldData
	if err := toml.Unmarshal(tomlData, &tcw); err != nil {
		return WorldDef{}, err
	}

	if strings.ToUpper(tcw.Format) != "TUNA" {
		return WorldDef{}, fmt.Errorf("in header: 'format' key must exist and be set to 'TUNA'")
	}
	if strings.ToUpper(tcw.Type) != "WORLD" {
		return WorldDef{}, fmt.Errorf("in header: 'type' must exist and be set to 'WORLD'")
	}

	def := WorldDef{
		Name: tcw.World.Name,
		MOTD: tcw.World.MOTD,
	}
	if def.Name == "" {
		def.Name = "world"
	}

	seen := map[string]bool{}
	for i, tp := range tcw.Players {
		pd, err := tp.toPlayerDef()
		if err != nil {
			return WorldDef{}, fmt.Errorf("player[%d]: %w", i, err)
		}

		key := playerKey(pd.Name)
		if seen[key] {
			return WorldDef{}, fmt.Errorf("player[%d]: duplicate player name %q", i, pd.Name)
		}
		seen[key] = true

		def.Players = append(def.Players, pd)
	}

	return def, nil
}

func (tp tcwPlayer) toPlayerDef() (PlayerDef, error) {
	pd := PlayerDef{
		Name:    tp.Name,
		OpLevel: tp.OpLevel,
	}

	toks := command.Tokenize(tp.Name)
	if len(toks) != 1 || toks[0] != tp.Name {
		return pd, fmt.Errorf("name: must be a single word with no spaces")
	}
	if tp.OpLevel < 0 || tp.OpLevel > command.MaxPermissionLevel {
		return pd, fmt.Errorf("op_level: must be between 0 and %d", command.MaxPermissionLevel)
	}

	if tp.Gamemode != "" {
		gm, err := ParseGamemode(tp.Gamemode)
		if err != nil {
			return pd, fmt.Errorf("gamemode: %w", err)
		}
		pd.Gamemode = gm
	}

	switch len(tp.Position) {
	case 0:
	case 3:
		pd.Position = Position{X: tp.Position[0], Y: tp.Position[1], Z: tp.Position[2]}
	default:
		return pd, fmt.Errorf("position: must have exactly 3 coordinates")
	}

	return pd, nil
}

// NewWorldFromDef creates a world in the starting state described by def. All
// of its players start offline.
func NewWorldFromDef(def WorldDef, log *zap.Logger) (*World, error) {
	w := NewWorld(def.Name, log)
	w.motd = def.MOTD

	for _, pd := range def.Players {
		p, err := w.AddPlayer(pd.Name, pd.OpLevel, pd.Gamemode)
		if err != nil {
			return nil, err
		}
		p.Teleport(pd.Position)
	}

	return w, nil
}
