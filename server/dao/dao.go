// Package dao provides data access objects for use in the tunacmd server.
package dao

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Store holds all the repositories.
type Store interface {
	Accounts() AccountRepository
	Close() error
}

type AccountRepository interface {

	// Create creates a new Account. All attributes except for auto-generated
	// fields are taken from the provided Account.
	Create(ctx context.Context, acct Account) (Account, error)
	GetAll(ctx context.Context) ([]Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	GetByUsername(ctx context.Context, username string) (Account, error)
	Update(ctx context.Context, id uuid.UUID, acct Account) (Account, error)
	Delete(ctx context.Context, id uuid.UUID) (Account, error)
	Close() error
}

// Role is what an account is allowed to do on the server. Each role sends
// commands at a fixed permission level.
type Role int

const (
	Normal Role = iota
	Moderator
	Operator

	Admin Role = 100
)

func (r Role) String() string {
	switch r {
	case Normal:
		return "normal"
	case Moderator:
		return "moderator"
	case Operator:
		return "operator"
	case Admin:
		return "admin"
	default:
		return fmt.Sprintf("Role(%d)", r)
	}
}

// PermissionLevel is the level that commands sent by an account with the Role
// are checked against.
func (r Role) PermissionLevel() int {
	switch r {
	case Moderator:
		return 2
	case Operator:
		return 3
	case Admin:
		return 4
	default:
		return 0
	}
}

// ParseRole gets the Role named by s, ignoring case.
func ParseRole(s string) (Role, error) {
	check := strings.ToLower(s)
	switch check {
	case "normal":
		return Normal, nil
	case "moderator":
		return Moderator, nil
	case "operator":
		return Operator, nil
	case "admin":
		return Admin, nil
	default:
		return Normal, fmt.Errorf("must be one of 'normal', 'moderator', 'operator', or 'admin'")
	}
}

type Account struct {
	ID             uuid.UUID
	Username       string
	Password       string
	Role           Role
	Created        time.Time
	Modified       time.Time
	LastLogoutTime time.Time
	LastLoginTime  time.Time
}
