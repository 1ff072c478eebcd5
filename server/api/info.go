package api

import (
	"net/http"

	"github.com/dekarrin/tunacmd/internal/version"
	"github.com/dekarrin/tunacmd/server/middle"
	"github.com/dekarrin/tunacmd/server/result"
)

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API and
// server.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return api.httpEndpoint(api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.Tunacmd = version.Current
	resp.World = api.WorldName

	return result.OK(resp, "%s got API info", clientName(req))
}

// clientName describes who sent req for logging. The request must have passed
// through auth middleware.
func clientName(req *http.Request) string {
	loggedIn, _ := req.Context().Value(middle.AuthLoggedIn).(bool)
	if !loggedIn {
		return "unauthed client"
	}
	return "account '" + requestAccount(req).Username + "'"
}
