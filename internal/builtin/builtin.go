// Package builtin registers the commands that every server has: help, chat,
// player management, and server control.
package builtin

import (
	"fmt"

	"github.com/dekarrin/tunacmd/internal/command"
	"github.com/dekarrin/tunacmd/internal/command/arg"
	"github.com/dekarrin/tunacmd/internal/game"
)

// Permission levels needed for groups of commands.
const (
	LevelModerate   = 2
	LevelAdminister = 3
	LevelOwner      = command.MaxPermissionLevel
)

// Register adds every built-in command to reg. Commands act on w. The help
// command lists whatever is in reg at the time it runs, so commands registered
// after this are included in it.
func Register(reg *command.Registry, w *game.World) {
	reg.MustRegister(helpTree(reg), "help", "?")
	reg.MustRegister(sayTree(w), "say")
	reg.MustRegister(tellTree(w), "tell", "msg", "w")
	reg.MustRegister(listTree(w), "list")
	reg.MustRegister(gamemodeTree(w), "gamemode")
	reg.MustRegister(tpTree(w), "tp", "teleport")
	reg.MustRegister(kickTree(w), "kick")
	reg.MustRegister(opTree(w), "op")
	reg.MustRegister(deopTree(w), "deop")
	reg.MustRegister(versionTree(), "version")
	reg.MustRegister(stopTree(w), "stop")
}

// Standard is a Registry holding only the built-in commands for w.
func Standard(w *game.World) *command.Registry {
	reg := command.NewRegistry()
	Register(reg, w)
	return reg
}

func anyPlayer(w *game.World) command.Consumer {
	return arg.Player(w.Player)
}

func onlinePlayer(w *game.World) command.Consumer {
	return arg.Player(w.OnlinePlayer)
}

// senderPlayer gets the player who sent a command on a path that requires the
// sender to be a player.
func senderPlayer(src command.Sender) (*game.Player, error) {
	p, ok := src.(*game.Player)
	if !ok {
		return nil, fmt.Errorf("%w: sender %q is a %s, not a player", command.ErrInvalidRequirement, src.Name(), src.Kind())
	}
	return p, nil
}

func tell(src command.Sender, format string, a ...interface{}) {
	src.SendMessage(fmt.Sprintf(format, a...))
}
