package service

import (
	"context"
	"encoding/base64"
	"errors"

	"github.com/dekarrin/tunacmd/server/dao"
	"github.com/dekarrin/tunacmd/server/serr"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// GetAllAccounts returns all accounts currently in persistence.
func (svc Service) GetAllAccounts(ctx context.Context) ([]dao.Account, error) {
	accts, err := svc.DB.Accounts().GetAll(ctx)
	if err != nil {
		return nil, serr.WrapDB("", err)
	}

	return accts, nil
}

// GetAccount returns the account with the given ID.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no account with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if there
// is an issue with one of the arguments, it will match serr.ErrBadArgument.
func (svc Service) GetAccount(ctx context.Context, id string) (dao.Account, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Account{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	acct, err := svc.DB.Accounts().GetByID(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Account{}, serr.ErrNotFound
		}
		return dao.Account{}, serr.WrapDB("could not get account", err)
	}

	return acct, nil
}

// CreateAccount creates a new account with the given username, password, and
// role. Returns the newly-created account as it exists after creation.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If an account with that
// username is already present, it will match serr.ErrAlreadyExists. If the
// error occured due to an unexpected problem with the DB, it will match
// serr.ErrDB. Finally, if one of the arguments is invalid, it will match
// serr.ErrBadArgument.
func (svc Service) CreateAccount(ctx context.Context, username, password string, role dao.Role) (dao.Account, error) {
	if username == "" {
		return dao.Account{}, serr.New("username cannot be blank", serr.ErrBadArgument)
	}
	if password == "" {
		return dao.Account{}, serr.New("password cannot be blank", serr.ErrBadArgument)
	}

	_, err := svc.DB.Accounts().GetByUsername(ctx, username)
	if err == nil {
		return dao.Account{}, serr.New("an account with that username already exists", serr.ErrAlreadyExists)
	} else if !errors.Is(err, dao.ErrNotFound) {
		return dao.Account{}, serr.WrapDB("", err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), svc.passwordCost())
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return dao.Account{}, serr.New("password is too long", err, serr.ErrBadArgument)
		}
		return dao.Account{}, serr.New("password could not be encrypted", err)
	}

	newAcct := dao.Account{
		Username: username,
		Password: base64.StdEncoding.EncodeToString(passHash),
		Role:     role,
	}

	acct, err := svc.DB.Accounts().Create(ctx, newAcct)
	if err != nil {
		if errors.Is(err, dao.ErrConstraintViolation) {
			return dao.Account{}, serr.ErrAlreadyExists
		}
		return dao.Account{}, serr.WrapDB("could not create account", err)
	}

	return acct, nil
}

// EnsureAccount creates the account if no account with that username exists
// yet. It returns whether the account was created.
func (svc Service) EnsureAccount(ctx context.Context, username, password string, role dao.Role) (dao.Account, bool, error) {
	acct, err := svc.DB.Accounts().GetByUsername(ctx, username)
	if err == nil {
		return acct, false, nil
	} else if !errors.Is(err, dao.ErrNotFound) {
		return dao.Account{}, false, serr.WrapDB("", err)
	}

	acct, err = svc.CreateAccount(ctx, username, password, role)
	if err != nil {
		return dao.Account{}, false, err
	}
	return acct, true, nil
}

// DeleteAccount deletes the account with the given ID. It returns the deleted
// account just after it was deleted.
//
// The returned error, if non-nil, will return true for various calls to
// errors.Is depending on what caused the error. If no account with that ID
// exists, it will match serr.ErrNotFound. If the error occured due to an
// unexpected problem with the DB, it will match serr.ErrDB. Finally, if there
// is an issue with one of the arguments, it will match serr.ErrBadArgument.
func (svc Service) DeleteAccount(ctx context.Context, id string) (dao.Account, error) {
	uuidID, err := uuid.Parse(id)
	if err != nil {
		return dao.Account{}, serr.New("ID is not valid", serr.ErrBadArgument)
	}

	acct, err := svc.DB.Accounts().Delete(ctx, uuidID)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Account{}, serr.ErrNotFound
		}
		return dao.Account{}, serr.WrapDB("could not delete account", err)
	}

	return acct, nil
}
