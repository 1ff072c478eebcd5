package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/tunacmd/server/dao"
	"github.com/google/uuid"
)

const accountColumns = `id, username, password, role, created, modified, last_logout_time, last_login_time`

type AccountsDB struct {
	db *sql.DB
}

func (repo *AccountsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS accounts (
		id TEXT NOT NULL PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		password TEXT NOT NULL,
		role TEXT NOT NULL,
		created INTEGER NOT NULL,
		modified INTEGER NOT NULL,
		last_logout_time INTEGER NOT NULL,
		last_login_time INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}

	return nil
}

func (repo *AccountsDB) Create(ctx context.Context, acct dao.Account) (dao.Account, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Account{}, fmt.Errorf("could not generate ID: %w", err)
	}

	now := time.Now()
	_, err = repo.db.ExecContext(ctx, `INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		convertToDB_UUID(newUUID),
		acct.Username,
		acct.Password,
		convertToDB_Role(acct.Role),
		convertToDB_Time(now),
		convertToDB_Time(now),
		convertToDB_Time(now),
		convertToDB_Time(time.Time{}),
	)
	if err != nil {
		return dao.Account{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *AccountsDB) GetAll(ctx context.Context) ([]dao.Account, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY id;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Account

	for rows.Next() {
		acct, err := scanAccount(rows)
		if err != nil {
			return all, err
		}
		all = append(all, acct)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *AccountsDB) Update(ctx context.Context, id uuid.UUID, acct dao.Account) (dao.Account, error) {
	// deliberately not updating created
	res, err := repo.db.ExecContext(ctx, `UPDATE accounts SET id=?, username=?, password=?, role=?, last_logout_time=?, last_login_time=?, modified=? WHERE id=?;`,
		convertToDB_UUID(acct.ID),
		acct.Username,
		acct.Password,
		convertToDB_Role(acct.Role),
		convertToDB_Time(acct.LastLogoutTime),
		convertToDB_Time(acct.LastLoginTime),
		convertToDB_Time(time.Now()),
		convertToDB_UUID(id),
	)
	if err != nil {
		return dao.Account{}, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return dao.Account{}, wrapDBError(err)
	}
	if rowsAff < 1 {
		return dao.Account{}, dao.ErrNotFound
	}

	return repo.GetByID(ctx, acct.ID)
}

func (repo *AccountsDB) GetByUsername(ctx context.Context, username string) (dao.Account, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = ?;`, username)
	return scanAccount(row)
}

func (repo *AccountsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Account, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = ?;`, convertToDB_UUID(id))
	return scanAccount(row)
}

func (repo *AccountsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Account, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

// Close does nothing; the connection is owned by the store.
func (repo *AccountsDB) Close() error {
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAccount(row scanner) (dao.Account, error) {
	var acct dao.Account
	var id string
	var role string
	var created, modified, logout, login int64

	err := row.Scan(
		&id,
		&acct.Username,
		&acct.Password,
		&role,
		&created,
		&modified,
		&logout,
		&login,
	)
	if err != nil {
		return dao.Account{}, wrapDBError(err)
	}

	err = convertFromDB_UUID(id, &acct.ID)
	if err != nil {
		return acct, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	err = convertFromDB_Role(role, &acct.Role)
	if err != nil {
		return acct, fmt.Errorf("stored role %q is invalid: %w", role, err)
	}
	err = convertFromDB_Time(created, &acct.Created)
	if err != nil {
		return acct, fmt.Errorf("stored created time %d is invalid: %w", created, err)
	}
	err = convertFromDB_Time(modified, &acct.Modified)
	if err != nil {
		return acct, fmt.Errorf("stored modified time %d is invalid: %w", modified, err)
	}
	err = convertFromDB_Time(logout, &acct.LastLogoutTime)
	if err != nil {
		return acct, fmt.Errorf("stored last_logout_time %d is invalid: %w", logout, err)
	}
	err = convertFromDB_Time(login, &acct.LastLoginTime)
	if err != nil {
		return acct, fmt.Errorf("stored last_login_time %d is invalid: %w", login, err)
	}

	return acct, nil
}
