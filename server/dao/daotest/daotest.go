// Package daotest holds checks that every dao.Store implementation must pass.
package daotest

import (
	"context"
	"testing"

	"github.com/dekarrin/tunacmd/server/dao"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// AccountRepository runs the account repository checks against stores made by
// newStore. Each check gets a fresh store.
func AccountRepository(t *testing.T, newStore func(t *testing.T) dao.Store) {
	ctx := context.Background()

	withRepo := func(t *testing.T, check func(assert *assert.Assertions, repo dao.AccountRepository)) {
		store := newStore(t)
		defer store.Close()
		check(assert.New(t), store.Accounts())
	}

	t.Run("create then get", func(t *testing.T) {
		withRepo(t, func(assert *assert.Assertions, repo dao.AccountRepository) {
			created, err := repo.Create(ctx, dao.Account{Username: "alex", Password: "hash", Role: dao.Operator})
			if !assert.NoError(err) {
				return
			}
			assert.NotEqual(uuid.Nil, created.ID)
			assert.False(created.Created.IsZero())

			byID, err := repo.GetByID(ctx, created.ID)
			if assert.NoError(err) {
				assert.Equal("alex", byID.Username)
				assert.Equal("hash", byID.Password)
				assert.Equal(dao.Operator, byID.Role)
			}

			byName, err := repo.GetByUsername(ctx, "alex")
			if assert.NoError(err) {
				assert.Equal(created.ID, byName.ID)
			}
		})
	})

	t.Run("duplicate username", func(t *testing.T) {
		withRepo(t, func(assert *assert.Assertions, repo dao.AccountRepository) {
			_, err := repo.Create(ctx, dao.Account{Username: "alex", Password: "hash"})
			assert.NoError(err)

			_, err = repo.Create(ctx, dao.Account{Username: "alex", Password: "other"})
			assert.ErrorIs(err, dao.ErrConstraintViolation)
		})
	})

	t.Run("missing", func(t *testing.T) {
		withRepo(t, func(assert *assert.Assertions, repo dao.AccountRepository) {
			_, err := repo.GetByID(ctx, uuid.New())
			assert.ErrorIs(err, dao.ErrNotFound)

			_, err = repo.GetByUsername(ctx, "nobody")
			assert.ErrorIs(err, dao.ErrNotFound)

			_, err = repo.Delete(ctx, uuid.New())
			assert.ErrorIs(err, dao.ErrNotFound)

			_, err = repo.Update(ctx, uuid.New(), dao.Account{Username: "x"})
			assert.ErrorIs(err, dao.ErrNotFound)
		})
	})

	t.Run("update", func(t *testing.T) {
		withRepo(t, func(assert *assert.Assertions, repo dao.AccountRepository) {
			created, err := repo.Create(ctx, dao.Account{Username: "alex", Password: "hash"})
			if !assert.NoError(err) {
				return
			}
			_, err = repo.Create(ctx, dao.Account{Username: "sam", Password: "hash"})
			if !assert.NoError(err) {
				return
			}

			created.Role = dao.Admin
			updated, err := repo.Update(ctx, created.ID, created)
			if assert.NoError(err) {
				assert.Equal(dao.Admin, updated.Role)
			}

			created.Username = "sam"
			_, err = repo.Update(ctx, created.ID, created)
			assert.ErrorIs(err, dao.ErrConstraintViolation)
		})
	})

	t.Run("get all and delete", func(t *testing.T) {
		withRepo(t, func(assert *assert.Assertions, repo dao.AccountRepository) {
			a, err := repo.Create(ctx, dao.Account{Username: "alex", Password: "hash"})
			assert.NoError(err)
			_, err = repo.Create(ctx, dao.Account{Username: "sam", Password: "hash"})
			assert.NoError(err)

			all, err := repo.GetAll(ctx)
			if assert.NoError(err) {
				assert.Len(all, 2)
			}

			deleted, err := repo.Delete(ctx, a.ID)
			if assert.NoError(err) {
				assert.Equal("alex", deleted.Username)
			}

			all, err = repo.GetAll(ctx)
			if assert.NoError(err) {
				assert.Len(all, 1)
				assert.Equal("sam", all[0].Username)
			}
		})
	})
}
