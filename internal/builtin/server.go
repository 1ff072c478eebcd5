package builtin

import (
	"github.com/dekarrin/tunacmd/internal/command"
	"github.com/dekarrin/tunacmd/internal/command/require"
	"github.com/dekarrin/tunacmd/internal/game"
	"github.com/dekarrin/tunacmd/internal/version"
)

func versionTree() *command.Tree {
	return command.NewTree("Shows the version of the server",
		command.Execute(command.HandlerFunc(func(src command.Sender, _ command.ConsumedArgs) error {
			tell(src, "This server is running tunacmd %s", version.Current)
			return nil
		})),
	)
}

func stopTree(w *game.World) *command.Tree {
	return command.NewTree("Stops the server",
		command.Require(require.PermissionLevel(LevelOwner)).Execute(command.HandlerFunc(func(src command.Sender, _ command.ConsumedArgs) error {
			w.Broadcast("Server is stopping (requested by " + src.Name() + ")")
			w.Stop()
			return nil
		})),
	)
}
