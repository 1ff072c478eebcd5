package service

import (
	"context"
	"encoding/base64"
	"errors"
	"time"

	"github.com/dekarrin/tunacmd/server/dao"
	"github.com/dekarrin/tunacmd/server/serr"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Login verifies the provided username and password against the existing
// account in persistence and returns that account if they match.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the credentials do not match
// an account or if the password is incorrect, it will match
// serr.ErrBadCredentials. If the error occured due to an unexpected problem
// with the DB, it will match serr.ErrDB.
func (svc Service) Login(ctx context.Context, username string, password string) (dao.Account, error) {
	acct, err := svc.DB.Accounts().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Account{}, serr.ErrBadCredentials
		}
		return dao.Account{}, serr.WrapDB("", err)
	}

	// verify password
	bcryptHash, err := base64.StdEncoding.DecodeString(acct.Password)
	if err != nil {
		return dao.Account{}, err
	}

	err = bcrypt.CompareHashAndPassword(bcryptHash, []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return dao.Account{}, serr.ErrBadCredentials
		}
		return dao.Account{}, serr.WrapDB("", err)
	}

	// successful login; update the DB
	acct.LastLoginTime = time.Now()
	acct, err = svc.DB.Accounts().Update(ctx, acct.ID, acct)
	if err != nil {
		return dao.Account{}, serr.WrapDB("cannot update account login time", err)
	}

	return acct, nil
}

// Logout marks the account with the given ID as having logged out,
// invalidating every token issued to it, and takes its player offline if it
// joined the world. Returns the account that was logged out.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If the account doesn't exist,
// it will match serr.ErrNotFound. If the error occured due to an unexpected
// problem with the DB, it will match serr.ErrDB.
func (svc Service) Logout(ctx context.Context, who uuid.UUID) (dao.Account, error) {
	existing, err := svc.DB.Accounts().GetByID(ctx, who)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Account{}, serr.ErrNotFound
		}
		return dao.Account{}, serr.WrapDB("could not retrieve account", err)
	}

	existing.LastLogoutTime = time.Now()

	updated, err := svc.DB.Accounts().Update(ctx, existing.ID, existing)
	if err != nil {
		return dao.Account{}, serr.WrapDB("could not update account", err)
	}

	if p, ok := svc.World.OnlinePlayer(updated.Username); ok {
		svc.World.Leave(p.Name())
	}

	return updated, nil
}
