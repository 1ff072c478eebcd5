// Package token issues and checks the JWTs that API clients authenticate with.
package token

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dekarrin/tunacmd/server/dao"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	issuer   = "tcs"
	lifetime = time.Hour
)

// Validate parses tok and checks that it was signed for an account that still
// exists. The signing key includes the account's password hash and last logout
// time, so changing either invalidates every token issued before.
func Validate(ctx context.Context, tok string, secret []byte, db dao.AccountRepository) (dao.Account, error) {
	var acct dao.Account

	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		// who is the account? we need this for further verification
		subj, err := t.Claims.GetSubject()
		if err != nil {
			return nil, fmt.Errorf("cannot get subject: %w", err)
		}

		id, err := uuid.Parse(subj)
		if err != nil {
			return nil, fmt.Errorf("cannot parse subject UUID: %w", err)
		}

		acct, err = db.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, dao.ErrNotFound) {
				return nil, fmt.Errorf("subject does not exist")
			}
			return nil, fmt.Errorf("subject could not be validated")
		}

		return signingKey(secret, acct), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(issuer), jwt.WithLeeway(time.Minute))

	if err != nil {
		return dao.Account{}, err
	}

	return acct, nil
}

// Get extracts the bearer token from the Authorization header of req.
func Get(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))

	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	token := strings.TrimSpace(authParts[1])

	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return token, nil
}

// Generate issues a token for acct that expires after an hour.
func Generate(secret []byte, acct dao.Account) (string, error) {
	claims := &jwt.MapClaims{
		"iss":        issuer,
		"exp":        time.Now().Add(lifetime).Unix(),
		"sub":        acct.ID.String(),
		"authorized": true,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)

	tokStr, err := tok.SignedString(signingKey(secret, acct))
	if err != nil {
		return "", err
	}
	return tokStr, nil
}

func signingKey(secret []byte, acct dao.Account) []byte {
	var signKey []byte
	signKey = append(signKey, secret...)
	signKey = append(signKey, []byte(acct.Password)...)
	signKey = append(signKey, []byte(fmt.Sprintf("%d", acct.LastLogoutTime.UnixNano()))...)
	return signKey
}
