package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dekarrin/tunacmd/server/dao"
	"github.com/dekarrin/tunacmd/server/result"
	"github.com/dekarrin/tunacmd/server/serr"
)

func accountModel(acct dao.Account) AccountModel {
	m := AccountModel{
		URI:             PathPrefix + "/accounts/" + acct.ID.String(),
		ID:              acct.ID.String(),
		Username:        acct.Username,
		Role:            acct.Role.String(),
		PermissionLevel: acct.Role.PermissionLevel(),
		Created:         acct.Created.Format(time.RFC3339),
		Modified:        acct.Modified.Format(time.RFC3339),
		LastLogoutTime:  acct.LastLogoutTime.Format(time.RFC3339),
	}
	if !acct.LastLoginTime.IsZero() {
		m.LastLoginTime = acct.LastLoginTime.Format(time.RFC3339)
	}
	return m
}

// HTTPGetAllAccounts returns a HandlerFunc that retrieves all existing
// accounts. Only an admin can call this endpoint.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in account of the client making the request.
func (api API) HTTPGetAllAccounts() http.HandlerFunc {
	return api.httpEndpoint(api.epGetAllAccounts)
}

func (api API) epGetAllAccounts(req *http.Request) result.Result {
	acct := requestAccount(req)

	if acct.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s) list accounts: forbidden", acct.Username, acct.Role)
	}

	accts, err := api.Backend.GetAllAccounts(req.Context())
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]AccountModel, len(accts))
	for i := range accts {
		resp[i] = accountModel(accts[i])
	}

	return result.OK(resp, "account '%s' got all accounts", acct.Username)
}

// HTTPCreateAccount returns a HandlerFunc that creates a new account. Only an
// admin can create accounts.
func (api API) HTTPCreateAccount() http.HandlerFunc {
	return api.httpEndpoint(api.epCreateAccount)
}

func (api API) epCreateAccount(req *http.Request) result.Result {
	acct := requestAccount(req)

	if acct.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s) creation of new account: forbidden", acct.Username, acct.Role)
	}

	var create AccountModel
	err := parseJSON(req, &create)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if create.Username == "" {
		return result.BadRequest("username: property is empty or missing from request", "empty username")
	}
	if create.Password == "" {
		return result.BadRequest("password: property is empty or missing from request", "empty password")
	}

	role := dao.Normal
	if create.Role != "" {
		role, err = dao.ParseRole(create.Role)
		if err != nil {
			return result.BadRequest("role: "+err.Error(), "role: %s", err.Error())
		}
	}

	newAcct, err := api.Backend.CreateAccount(req.Context(), create.Username, create.Password, role)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return result.Conflict("Account with that username already exists", "account '%s' already exists", create.Username)
		} else if errors.Is(err, serr.ErrBadArgument) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	return result.Created(accountModel(newAcct), "account '%s' created account '%s'", acct.Username, newAcct.Username)
}

// HTTPGetAccount returns a HandlerFunc that gets an existing account. Accounts
// can get themselves; only an admin can get other accounts.
func (api API) HTTPGetAccount() http.HandlerFunc {
	return api.httpEndpoint(api.epGetAccount)
}

func (api API) epGetAccount(req *http.Request) result.Result {
	acct := requestAccount(req)
	id, ok := getIDParam(req)
	if !ok {
		return result.NotFound("malformed account ID")
	}

	if id != acct.ID && acct.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s) get account %s: forbidden", acct.Username, acct.Role, id)
	}

	target, err := api.Backend.GetAccount(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not get account: " + err.Error())
	}

	return result.OK(accountModel(target), "account '%s' got account '%s'", acct.Username, target.Username)
}

// HTTPDeleteAccount returns a HandlerFunc that deletes an account. Accounts
// may delete themselves, but only an admin may delete other accounts.
func (api API) HTTPDeleteAccount() http.HandlerFunc {
	return api.httpEndpoint(api.epDeleteAccount)
}

func (api API) epDeleteAccount(req *http.Request) result.Result {
	acct := requestAccount(req)
	id, ok := getIDParam(req)
	if !ok {
		return result.NotFound("malformed account ID")
	}

	if id != acct.ID && acct.Role != dao.Admin {
		return result.Forbidden("account '%s' (role %s) delete account %s: forbidden", acct.Username, acct.Role, id)
	}

	deleted, err := api.Backend.DeleteAccount(req.Context(), id.String())
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError("could not delete account: " + err.Error())
	}

	otherStr := "self"
	if id != acct.ID {
		otherStr = "account '" + deleted.Username + "'"
	}

	return result.NoContent("account '%s' successfully deleted %s", acct.Username, otherStr)
}
