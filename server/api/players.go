package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/tunacmd/internal/game"
	"github.com/dekarrin/tunacmd/server/result"
	"github.com/dekarrin/tunacmd/server/serr"
)

func playerModel(p *game.Player) PlayerModel {
	pos := p.Position()
	return PlayerModel{
		Name:            p.Name(),
		Online:          p.Online(),
		Gamemode:        p.Gamemode().String(),
		PermissionLevel: p.PermissionLevel(),
		Position:        [3]float64{pos.X, pos.Y, pos.Z},
	}
}

// HTTPJoinWorld returns a HandlerFunc that brings the logged-in account's
// player online.
func (api API) HTTPJoinWorld() http.HandlerFunc {
	return api.httpEndpoint(api.epJoinWorld)
}

func (api API) epJoinWorld(req *http.Request) result.Result {
	acct := requestAccount(req)

	p, err := api.Backend.JoinWorld(acct)
	if err != nil {
		if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), "account '%s' could not join as a player: %s", acct.Username, err.Error())
		}
		return result.InternalServerError("could not join account '%s' as a player: %s", acct.Username, err.Error())
	}

	return result.OK(playerModel(p), "account '%s' joined the world", acct.Username)
}

// HTTPLeaveWorld returns a HandlerFunc that takes the logged-in account's
// player offline.
func (api API) HTTPLeaveWorld() http.HandlerFunc {
	return api.httpEndpoint(api.epLeaveWorld)
}

func (api API) epLeaveWorld(req *http.Request) result.Result {
	acct := requestAccount(req)

	p, err := api.Backend.LeaveWorld(acct)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.Conflict("player is not online", "account '%s' left the world while not online", acct.Username)
		}
		return result.InternalServerError("could not take account '%s' out of the world: %s", acct.Username, err.Error())
	}

	return result.OK(playerModel(p), "account '%s' left the world", acct.Username)
}
