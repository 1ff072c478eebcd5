package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/tunacmd/server/api"
	"github.com/dekarrin/tunacmd/server/middle"
	"github.com/dekarrin/tunacmd/server/result"
	"github.com/go-chi/chi/v5"
)

var (
	paramTypePats = map[string]string{
		"uuid": "[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}",
	}
)

// p is a quick parameter in a URI, made very small to ease readability in route
// listings.
func p(nameType string) string {
	var name string
	var pat string

	parts := strings.SplitN(nameType, ":", 2)
	name = parts[0]
	if len(parts) == 2 {
		// we have a type, if it's a name in the paramTypePats map use that else
		// treat it as a normal pattern
		pat = parts[1]

		if translatedPat, ok := paramTypePats[parts[1]]; ok {
			pat = translatedPat
		}
	}

	if pat == "" {
		return "{" + name + "}"
	}
	return "{" + name + ":" + pat + "}"
}

func newRouter(a api.API, metrics http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Mount(api.PathPrefix, newAPIRouter(a))
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}

	return r
}

func newAPIRouter(a api.API) chi.Router {
	accounts := a.Backend.DB.Accounts()
	reqAuth := middle.RequireAuth(accounts, a.Secret, a.UnauthDelay)
	optAuth := middle.OptionalAuth(accounts, a.Secret, a.UnauthDelay)

	r := chi.NewRouter()

	r.Route("/login", func(r chi.Router) {
		r.Post("/", a.HTTPCreateLogin())
		r.With(reqAuth).Delete("/"+p("id:uuid"), a.HTTPDeleteLogin())
	})

	r.With(reqAuth).Post("/tokens", a.HTTPCreateToken())

	r.Route("/commands", func(r chi.Router) {
		r.With(reqAuth).Post("/", a.HTTPRunCommand())
		r.With(optAuth).Get("/", a.HTTPGetCommands())
	})

	r.Route("/players", func(r chi.Router) {
		r.Use(reqAuth)
		r.Post("/join", a.HTTPJoinWorld())
		r.Post("/leave", a.HTTPLeaveWorld())
	})

	r.Route("/accounts", func(r chi.Router) {
		r.Use(reqAuth)
		r.Get("/", a.HTTPGetAllAccounts())
		r.Post("/", a.HTTPCreateAccount())
		r.Get("/"+p("id:uuid"), a.HTTPGetAccount())
		r.Delete("/"+p("id:uuid"), a.HTTPDeleteAccount())
	})

	r.With(optAuth).Get("/info", a.HTTPGetInfo())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		result.NotFound().WriteResponse(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(a.UnauthDelay)
		result.MethodNotAllowed(r).WriteResponse(w)
	})

	return r
}
