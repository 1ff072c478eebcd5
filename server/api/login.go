package api

import (
	"errors"
	"net/http"

	"github.com/dekarrin/tunacmd/server/dao"
	"github.com/dekarrin/tunacmd/server/result"
	"github.com/dekarrin/tunacmd/server/serr"
	"github.com/dekarrin/tunacmd/server/token"
)

// HTTPCreateLogin returns a HandlerFunc that uses the API to log in an account
// with a username and password and return the auth token for it.
func (api API) HTTPCreateLogin() http.HandlerFunc {
	return api.httpEndpoint(api.epCreateLogin)
}

func (api API) epCreateLogin(req *http.Request) result.Result {
	loginData := LoginRequest{}
	err := parseJSON(req, &loginData)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	if loginData.Username == "" {
		return result.BadRequest("username: property is empty or missing from request", "empty username")
	}
	if loginData.Password == "" {
		return result.BadRequest("password: property is empty or missing from request", "empty password")
	}

	acct, err := api.Backend.Login(req.Context(), loginData.Username, loginData.Password)
	if err != nil {
		if errors.Is(err, serr.ErrBadCredentials) {
			return result.Unauthorized(serr.ErrBadCredentials.Error(), "account '%s': %s", loginData.Username, err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	tok, err := token.Generate(api.Secret, acct)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{
		Token:     tok,
		AccountID: acct.ID.String(),
	}
	return result.Created(resp, "account '%s' successfully logged in", acct.Username)
}

// HTTPDeleteLogin returns a HandlerFunc that ends the active login of an
// account. Only admins can log out accounts other than their own.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in account of the client making the request.
func (api API) HTTPDeleteLogin() http.HandlerFunc {
	return api.httpEndpoint(api.epDeleteLogin)
}

func (api API) epDeleteLogin(req *http.Request) result.Result {
	acct := requestAccount(req)
	id, ok := getIDParam(req)
	if !ok {
		return result.NotFound("malformed account ID")
	}

	if id != acct.ID && acct.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s) logout of account %s: forbidden", acct.Username, acct.Role, id)
	}

	loggedOut, err := api.Backend.Logout(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not log out account: " + err.Error())
	}

	otherStr := "self"
	if id != acct.ID {
		otherStr = "account '" + loggedOut.Username + "'"
	}

	return result.NoContent("account '%s' successfully logged out %s", acct.Username, otherStr)
}

// HTTPCreateToken returns a HandlerFunc that creates a new token for the
// account the client is logged in as.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return api.httpEndpoint(api.epCreateToken)
}

func (api API) epCreateToken(req *http.Request) result.Result {
	acct := requestAccount(req)

	tok, err := token.Generate(api.Secret, acct)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{
		Token:     tok,
		AccountID: acct.ID.String(),
	}
	return result.Created(resp, "account '%s' successfully created new token", acct.Username)
}
