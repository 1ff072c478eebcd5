// Package middle contains middleware for use with the tunacmd server.
package middle

import (
	"context"
	"net/http"
	"time"

	"github.com/dekarrin/tunacmd/server/dao"
	"github.com/dekarrin/tunacmd/server/result"
	"github.com/dekarrin/tunacmd/server/token"
)

// Middleware is a function that takes a handler and returns a new handler which
// wraps the given one and provides some additional functionality.
type Middleware func(next http.Handler) http.Handler

// AuthKey is a key in the context of a request populated by an AuthHandler.
type AuthKey int64

const (
	AuthLoggedIn AuthKey = iota
	AuthAccount
)

// AuthHandler is middleware that will accept a request, extract the token used
// for authentication, and look up the Account the token was issued to.
//
// Keys are added to the request context before the request is passed to the
// next step in the chain. AuthAccount will contain the logged-in account, and
// AuthLoggedIn will say whether the client is logged in (only applies for
// optional logins; for required ones, not being logged in results in an
// HTTP-401 before the request reaches the next handler).
type AuthHandler struct {
	db            dao.AccountRepository
	secret        []byte
	required      bool
	unauthedDelay time.Duration
	next          http.Handler
}

func (ah *AuthHandler) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	var loggedIn bool
	var acct dao.Account

	tok, err := token.Get(req)
	if err == nil {
		acct, err = token.Validate(req.Context(), tok, ah.secret, ah.db)
		loggedIn = err == nil
	}

	if !loggedIn && ah.required {
		r := result.Unauthorized("", err.Error())
		time.Sleep(ah.unauthedDelay)
		r.WriteResponse(w)
		return
	}

	ctx := req.Context()
	ctx = context.WithValue(ctx, AuthLoggedIn, loggedIn)
	ctx = context.WithValue(ctx, AuthAccount, acct)
	req = req.WithContext(ctx)
	ah.next.ServeHTTP(w, req)
}

// RequireAuth rejects requests without a valid token.
func RequireAuth(db dao.AccountRepository, secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			db:            db,
			secret:        secret,
			unauthedDelay: unauthDelay,
			required:      true,
			next:          next,
		}
	}
}

// OptionalAuth lets requests without a valid token through as logged out.
func OptionalAuth(db dao.AccountRepository, secret []byte, unauthDelay time.Duration) Middleware {
	return func(next http.Handler) http.Handler {
		return &AuthHandler{
			db:            db,
			secret:        secret,
			unauthedDelay: unauthDelay,
			required:      false,
			next:          next,
		}
	}
}
