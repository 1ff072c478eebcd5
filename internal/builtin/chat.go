package builtin

import (
	"strings"

	"github.com/dekarrin/tunacmd/internal/command"
	"github.com/dekarrin/tunacmd/internal/command/arg"
	"github.com/dekarrin/tunacmd/internal/game"
)

func sayTree(w *game.World) *command.Tree {
	return command.NewTree("Sends a message to everyone on the server",
		command.Argument("message", arg.Greedy()).Execute(command.HandlerFunc(func(src command.Sender, args command.ConsumedArgs) error {
			msg, err := command.Arg[string](args, "message")
			if err != nil {
				return err
			}
			w.Broadcast("[" + src.Name() + "] " + msg)
			return nil
		})),
	)
}

func tellTree(w *game.World) *command.Tree {
	return command.NewTree("Sends a private message to one player",
		command.Argument("player", onlinePlayer(w)).With(
			command.Argument("message", arg.Greedy()).Execute(command.HandlerFunc(func(src command.Sender, args command.ConsumedArgs) error {
				target, err := command.Arg[*game.Player](args, "player")
				if err != nil {
					return err
				}
				msg, err := command.Arg[string](args, "message")
				if err != nil {
					return err
				}

				tell(target, "%s whispers to you: %s", src.Name(), msg)
				tell(src, "You whisper to %s: %s", target.Name(), msg)
				return nil
			})),
		),
	)
}

func listTree(w *game.World) *command.Tree {
	return command.NewTree("Shows who is online",
		command.Execute(command.HandlerFunc(func(src command.Sender, _ command.ConsumedArgs) error {
			online := w.Online()
			names := make([]string, len(online))
			for i := range online {
				names[i] = online[i].Name()
			}

			switch len(names) {
			case 0:
				src.SendMessage("There are no players online")
			case 1:
				tell(src, "There is 1 player online: %s", names[0])
			default:
				tell(src, "There are %d players online: %s", len(names), strings.Join(names, ", "))
			}
			return nil
		})),
	)
}
