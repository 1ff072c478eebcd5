package inmem

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dekarrin/tunacmd/server/dao"
	"github.com/google/uuid"
)

func NewAccountsRepository() *AccountsRepository {
	return &AccountsRepository{
		accounts:        make(map[uuid.UUID]dao.Account),
		byUsernameIndex: make(map[string]uuid.UUID),
	}
}

type AccountsRepository struct {
	mu              sync.RWMutex
	accounts        map[uuid.UUID]dao.Account
	byUsernameIndex map[string]uuid.UUID
}

func (repo *AccountsRepository) Close() error {
	return nil
}

func (repo *AccountsRepository) Create(ctx context.Context, acct dao.Account) (dao.Account, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Account{}, fmt.Errorf("could not generate ID: %w", err)
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	acct.ID = newUUID

	// make sure it's not already in the DB
	if _, ok := repo.byUsernameIndex[acct.Username]; ok {
		return dao.Account{}, dao.ErrConstraintViolation
	}

	now := time.Now()
	acct.LastLogoutTime = now
	acct.Created = now
	acct.Modified = now

	repo.accounts[acct.ID] = acct
	repo.byUsernameIndex[acct.Username] = acct.ID

	return acct, nil
}

func (repo *AccountsRepository) GetAll(ctx context.Context) ([]dao.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	all := make([]dao.Account, 0, len(repo.accounts))
	for k := range repo.accounts {
		all = append(all, repo.accounts[k])
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].ID.String() < all[j].ID.String()
	})

	return all, nil
}

func (repo *AccountsRepository) Update(ctx context.Context, id uuid.UUID, acct dao.Account) (dao.Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	existing, ok := repo.accounts[id]
	if !ok {
		return dao.Account{}, dao.ErrNotFound
	}

	// check for conflicts on this table only
	if acct.Username != existing.Username {
		if _, ok := repo.byUsernameIndex[acct.Username]; ok {
			return dao.Account{}, dao.ErrConstraintViolation
		}
	}
	if acct.ID != id {
		if _, ok := repo.accounts[acct.ID]; ok {
			return dao.Account{}, dao.ErrConstraintViolation
		}
	}

	acct.Created = existing.Created
	acct.Modified = time.Now()

	delete(repo.byUsernameIndex, existing.Username)
	delete(repo.accounts, id)
	repo.accounts[acct.ID] = acct
	repo.byUsernameIndex[acct.Username] = acct.ID

	return acct, nil
}

func (repo *AccountsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	acct, ok := repo.accounts[id]
	if !ok {
		return dao.Account{}, dao.ErrNotFound
	}

	return acct, nil
}

func (repo *AccountsRepository) GetByUsername(ctx context.Context, username string) (dao.Account, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	id, ok := repo.byUsernameIndex[username]
	if !ok {
		return dao.Account{}, dao.ErrNotFound
	}

	return repo.accounts[id], nil
}

func (repo *AccountsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Account, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	acct, ok := repo.accounts[id]
	if !ok {
		return dao.Account{}, dao.ErrNotFound
	}

	delete(repo.byUsernameIndex, acct.Username)
	delete(repo.accounts, acct.ID)

	return acct, nil
}
