package builtin

import (
	"errors"

	"github.com/dekarrin/tunacmd/internal/command"
	"github.com/dekarrin/tunacmd/internal/command/arg"
	"github.com/dekarrin/tunacmd/internal/command/require"
	"github.com/dekarrin/tunacmd/internal/game"
)

func gamemodeTree(w *game.World) *command.Tree {
	setOwn := command.HandlerFunc(func(src command.Sender, args command.ConsumedArgs) error {
		p, err := senderPlayer(src)
		if err != nil {
			return err
		}
		gm, err := command.Arg[game.Gamemode](args, "mode")
		if err != nil {
			return err
		}

		p.SetGamemode(gm)
		tell(p, "Set own game mode to %s", gm)
		return nil
	})

	setOther := command.HandlerFunc(func(src command.Sender, args command.ConsumedArgs) error {
		gm, err := command.Arg[game.Gamemode](args, "mode")
		if err != nil {
			return err
		}
		target, err := command.Arg[*game.Player](args, "player")
		if err != nil {
			return err
		}

		target.SetGamemode(gm)
		tell(target, "Your game mode has been set to %s", gm)
		if target != src {
			tell(src, "Set %s's game mode to %s", target.Name(), gm)
		}
		return nil
	})

	return command.NewTree("Changes the game mode of a player",
		command.Require(require.PermissionLevel(LevelModerate)).With(
			command.Argument("mode", arg.Gamemode()).With(
				command.Require(require.Player()).Execute(setOwn),
				command.Argument("player", anyPlayer(w)).Execute(setOther),
			),
		),
	)
}

func tpTree(w *game.World) *command.Tree {
	moveTo := func(src command.Sender, p *game.Player, pos game.Position) {
		p.Teleport(pos)
		tell(p, "Teleported to %s", pos)
		if p != src {
			tell(src, "Teleported %s to %s", p.Name(), pos)
		}
	}

	selfToPos := command.HandlerFunc(func(src command.Sender, args command.ConsumedArgs) error {
		p, err := senderPlayer(src)
		if err != nil {
			return err
		}
		pos, err := command.Arg[game.Position](args, "destination")
		if err != nil {
			return err
		}
		moveTo(src, p, pos)
		return nil
	})

	selfToPlayer := command.HandlerFunc(func(src command.Sender, args command.ConsumedArgs) error {
		p, err := senderPlayer(src)
		if err != nil {
			return err
		}
		target, err := command.Arg[*game.Player](args, "target")
		if err != nil {
			return err
		}
		moveTo(src, p, target.Position())
		return nil
	})

	playerToPos := command.HandlerFunc(func(src command.Sender, args command.ConsumedArgs) error {
		p, err := command.Arg[*game.Player](args, "player")
		if err != nil {
			return err
		}
		pos, err := command.Arg[game.Position](args, "destination")
		if err != nil {
			return err
		}
		moveTo(src, p, pos)
		return nil
	})

	playerToPlayer := command.HandlerFunc(func(src command.Sender, args command.ConsumedArgs) error {
		p, err := command.Arg[*game.Player](args, "player")
		if err != nil {
			return err
		}
		target, err := command.Arg[*game.Player](args, "target")
		if err != nil {
			return err
		}
		moveTo(src, p, target.Position())
		return nil
	})

	return command.NewTree("Moves a player to a location or to another player",
		command.Require(require.PermissionLevel(LevelModerate)).With(
			command.Require(require.Player()).With(
				command.Argument("destination", arg.Position()).Execute(selfToPos),
				command.Argument("target", onlinePlayer(w)).Execute(selfToPlayer),
			),
			command.Argument("player", onlinePlayer(w)).With(
				command.Argument("destination", arg.Position()).Execute(playerToPos),
				command.Argument("target", onlinePlayer(w)).Execute(playerToPlayer),
			),
		),
	)
}

func kickTree(w *game.World) *command.Tree {
	kick := command.HandlerFunc(func(src command.Sender, args command.ConsumedArgs) error {
		target, err := command.Arg[*game.Player](args, "player")
		if err != nil {
			return err
		}
		reason, _, err := command.OptionalArg[string](args, "reason")
		if err != nil {
			return err
		}

		if err := w.Kick(target.Name(), reason); err != nil {
			if errors.Is(err, game.ErrOffline) {
				tell(src, "%s is not online", target.Name())
				return nil
			}
			return err
		}
		tell(src, "Kicked %s", target.Name())
		return nil
	})

	return command.NewTree("Disconnects a player from the server",
		command.Require(require.PermissionLevel(LevelAdminister)).With(
			command.Argument("player", anyPlayer(w)).With(
				command.Execute(kick),
				command.Argument("reason", arg.Greedy()).Execute(kick),
			),
		),
	)
}

func opTree(w *game.World) *command.Tree {
	op := command.HandlerFunc(func(src command.Sender, args command.ConsumedArgs) error {
		target, err := command.Arg[*game.Player](args, "player")
		if err != nil {
			return err
		}
		level, present, err := command.OptionalArg[int](args, "level")
		if err != nil {
			return err
		}
		if !present {
			level = src.PermissionLevel()
		}

		if level > src.PermissionLevel() {
			tell(src, "You cannot grant a permission level higher than your own (%d)", src.PermissionLevel())
			return nil
		}
		if err := w.SetOpLevel(target.Name(), level); err != nil {
			return err
		}

		tell(src, "Made %s a level %d operator", target.Name(), level)
		tell(target, "You are now a level %d operator", level)
		return nil
	})

	return command.NewTree("Gives a player operator permissions",
		command.Require(require.PermissionLevel(LevelAdminister)).With(
			command.Argument("player", anyPlayer(w)).With(
				command.Execute(op),
				command.Argument("level", arg.Int(0, command.MaxPermissionLevel)).Execute(op),
			),
		),
	)
}

func deopTree(w *game.World) *command.Tree {
	return command.NewTree("Removes operator permissions from a player",
		command.Require(require.PermissionLevel(LevelAdminister)).With(
			command.Argument("player", anyPlayer(w)).Execute(command.HandlerFunc(func(src command.Sender, args command.ConsumedArgs) error {
				target, err := command.Arg[*game.Player](args, "player")
				if err != nil {
					return err
				}
				if target.PermissionLevel() > src.PermissionLevel() {
					tell(src, "You cannot remove the permissions of a higher-level operator")
					return nil
				}
				if err := w.SetOpLevel(target.Name(), 0); err != nil {
					return err
				}

				tell(src, "Made %s no longer an operator", target.Name())
				tell(target, "You are no longer an operator")
				return nil
			})),
		),
	)
}
