package game

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dekarrin/rezi"
)

// playerState is everything about a player that survives a save and restore.
// Messages waiting in the inbox do not.
type playerState struct {
	Name    string
	OpLevel int
	Mode    Gamemode
	Online  bool
	Pos     Position
}

func (ps playerState) MarshalBinary() ([]byte, error) {
	var data []byte

	data = append(data, rezi.EncString(ps.Name)...)
	data = append(data, rezi.EncInt(ps.OpLevel)...)
	data = append(data, rezi.EncInt(int(ps.Mode))...)
	data = append(data, rezi.EncBool(ps.Online)...)
	data = append(data, rezi.EncString(fmtCoord(ps.Pos.X))...)
	data = append(data, rezi.EncString(fmtCoord(ps.Pos.Y))...)
	data = append(data, rezi.EncString(fmtCoord(ps.Pos.Z))...)

	return data, nil
}

func (ps *playerState) UnmarshalBinary(data []byte) error {
	var err error
	var n int

	ps.Name, n, err = rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("name: %w", err)
	}
	data = data[n:]

	ps.OpLevel, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("op level: %w", err)
	}
	data = data[n:]

	var mode int
	mode, n, err = rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("game mode: %w", err)
	}
	ps.Mode = Gamemode(mode)
	data = data[n:]

	ps.Online, n, err = rezi.DecBool(data)
	if err != nil {
		return fmt.Errorf("online: %w", err)
	}
	data = data[n:]

	coords := make([]float64, 3)
	for i := range coords {
		var s string
		s, n, err = rezi.DecString(data)
		if err != nil {
			return fmt.Errorf("position: %w", err)
		}
		data = data[n:]

		coords[i], err = strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("position: %w", err)
		}
	}
	ps.Pos = Position{X: coords[0], Y: coords[1], Z: coords[2]}

	return nil
}

// MarshalBinary encodes the name, MOTD, and players of the world. Whether it
// has been stopped and who is listening to broadcasts are not included.
func (w *World) MarshalBinary() ([]byte, error) {
	players := w.Players()

	var data []byte
	data = append(data, rezi.EncString(w.Name())...)
	data = append(data, rezi.EncString(w.MOTD())...)
	data = append(data, rezi.EncInt(len(players))...)
	for _, p := range players {
		data = append(data, rezi.EncBinary(p.state())...)
	}

	return data, nil
}

// UnmarshalBinary replaces the name, MOTD, and players of the world with the
// ones in data, which must have come from MarshalBinary. Nothing is changed if
// data cannot be decoded.
func (w *World) UnmarshalBinary(data []byte) error {
	name, n, err := rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("world name: %w", err)
	}
	data = data[n:]

	motd, n, err := rezi.DecString(data)
	if err != nil {
		return fmt.Errorf("world motd: %w", err)
	}
	data = data[n:]

	count, n, err := rezi.DecInt(data)
	if err != nil {
		return fmt.Errorf("player count: %w", err)
	}
	data = data[n:]

	players := make(map[string]*Player, count)
	for i := 0; i < count; i++ {
		var ps playerState
		n, err = rezi.DecBinary(data, &ps)
		if err != nil {
			return fmt.Errorf("player[%d]: %w", i, err)
		}
		data = data[n:]

		players[playerKey(ps.Name)] = &Player{
			name:    ps.Name,
			opLevel: ps.OpLevel,
			mode:    ps.Mode,
			online:  ps.Online,
			pos:     ps.Pos,
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.name = name
	w.motd = motd
	w.players = players
	return nil
}

// SaveSnapshot writes the current state of the world to the file at path.
func (w *World) SaveSnapshot(path string) error {
	data, err := w.MarshalBinary()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot restores the state of the world from a file written by
// SaveSnapshot.
func (w *World) LoadSnapshot(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}
	if err := w.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("decode snapshot: %w", err)
	}
	return nil
}
