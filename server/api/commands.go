package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dekarrin/tunacmd/internal/tqerrors"
	"github.com/dekarrin/tunacmd/server/result"
	"github.com/dekarrin/tunacmd/server/serr"
	"github.com/dekarrin/tunacmd/server/service"
)

// HTTPRunCommand returns a HandlerFunc that dispatches a command line as the
// logged-in account, or as the account's player in the world if as_player is
// set. Every dispatch outcome, including the ones where the command was
// rejected, is an HTTP-200; the body says whether it ran.
func (api API) HTTPRunCommand() http.HandlerFunc {
	return api.httpEndpoint(api.epRunCommand)
}

func (api API) epRunCommand(req *http.Request) result.Result {
	acct := requestAccount(req)

	var cmdReq CommandRequest
	err := parseJSON(req, &cmdReq)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	var res service.CommandResult
	if cmdReq.AsPlayer {
		res, err = api.Backend.RunPlayerCommand(acct, cmdReq.Command)
		if err != nil {
			if errors.Is(err, serr.ErrBadArgument) {
				return result.BadRequest(err.Error(), "account '%s' could not join as a player: %s", acct.Username, err.Error())
			}
			return result.InternalServerError("could not join account '%s' as a player: %s", acct.Username, err.Error())
		}
	} else {
		res = api.Backend.RunCommand(acct, cmdReq.Command)
	}

	resp := CommandResponse{
		OK:     res.OK(),
		Output: res.Output,
	}
	if resp.Output == nil {
		resp.Output = []string{}
	}
	if !res.OK() {
		resp.Error = tqerrors.GameMessage(res.Err)
	}

	if res.Internal() {
		return result.OK(resp, "account '%s' ran %q: %s", acct.Username, cmdReq.Command, res.Err.Error())
	}
	return result.OK(resp, "account '%s' ran %q", acct.Username, cmdReq.Command)
}

// HTTPGetCommands returns a HandlerFunc that lists every command that can be
// sent along with its usage.
func (api API) HTTPGetCommands() http.HandlerFunc {
	return api.httpEndpoint(api.epGetCommands)
}

func (api API) epGetCommands(req *http.Request) result.Result {
	entries := api.Backend.Commands()

	resp := make([]CommandModel, len(entries))
	for i, e := range entries {
		aliases := e.Aliases
		if aliases == nil {
			aliases = []string{}
		}
		resp[i] = CommandModel{
			Name:        e.Name,
			Aliases:     aliases,
			Description: e.Tree.Description(),
			Usage:       strings.Split(e.Usage(), "\n"),
		}
	}

	return result.OK(resp, "%s listed commands", clientName(req))
}
