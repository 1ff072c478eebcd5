package service

import (
	"errors"

	"github.com/dekarrin/tunacmd/internal/game"
	"github.com/dekarrin/tunacmd/server/dao"
	"github.com/dekarrin/tunacmd/server/serr"
)

// JoinWorld brings the account's player online in the world, creating it if
// the account has never played. A new player starts with the permission level
// of the account's role; after that its level is only changed with the op and
// deop commands.
//
// The returned error, if non-nil, will match serr.ErrBadArgument if the
// account's username cannot be used as a player name.
func (svc Service) JoinWorld(acct dao.Account) (*game.Player, error) {
	if _, ok := svc.World.Player(acct.Username); !ok {
		_, err := svc.World.AddPlayer(acct.Username, acct.Role.PermissionLevel(), game.Survival)
		if err != nil && !errors.Is(err, game.ErrPlayerExists) {
			return nil, serr.New("account cannot join as a player", err, serr.ErrBadArgument)
		}
	}

	p, err := svc.World.Join(acct.Username)
	if err != nil {
		return nil, serr.New("account cannot join as a player", err, serr.ErrBadArgument)
	}
	return p, nil
}

// LeaveWorld takes the account's player offline.
//
// The returned error, if non-nil, will match serr.ErrNotFound if the account
// has no player that is online.
func (svc Service) LeaveWorld(acct dao.Account) (*game.Player, error) {
	err := svc.World.Leave(acct.Username)
	if err != nil {
		if errors.Is(err, game.ErrNoPlayer) || errors.Is(err, game.ErrOffline) {
			return nil, serr.New("player is not online", err, serr.ErrNotFound)
		}
		return nil, err
	}
	p, _ := svc.World.Player(acct.Username)
	return p, nil
}

// RunPlayerCommand dispatches line as the account's player, joining the world
// first if it is not online. The output is every message the player had been
// sent and not yet given back, which includes messages from before the
// command, such as chat from other players.
//
// The returned error is only for a failure to join; a command that failed is
// reported in the CommandResult.
func (svc Service) RunPlayerCommand(acct dao.Account, line string) (CommandResult, error) {
	p, err := svc.JoinWorld(acct)
	if err != nil {
		return CommandResult{}, err
	}

	dispErr := svc.Dispatcher.Dispatch(p, line)
	return CommandResult{Output: p.TakeMessages(), Err: dispErr}, nil
}
