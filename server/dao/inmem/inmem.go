// Package inmem provides a dao.Store that keeps everything in memory. It is
// lost when the server stops.
package inmem

import (
	"github.com/dekarrin/tunacmd/server/dao"
)

type store struct {
	accounts *AccountsRepository
}

// NewDatastore creates an empty store that keeps everything in memory.
func NewDatastore() dao.Store {
	return &store{
		accounts: NewAccountsRepository(),
	}
}

func (s *store) Accounts() dao.AccountRepository {
	return s.accounts
}

func (s *store) Close() error {
	return s.accounts.Close()
}
