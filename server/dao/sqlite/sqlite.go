// Package sqlite provides a dao.Store backed by an SQLite database file.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dekarrin/tunacmd/server/dao"
	"github.com/google/uuid"
	"modernc.org/sqlite"
)

// sqliteConstraint is the primary result code of every constraint failure.
const sqliteConstraint = 19

type store struct {
	dbFilename string
	db         *sql.DB
	accounts   *AccountsDB
}

// NewDatastore opens (creating if needed) the database in storageDir and
// prepares its tables.
func NewDatastore(storageDir string) (dao.Store, error) {
	st := &store{
		dbFilename: "data.db",
	}

	fileName := filepath.Join(storageDir, st.dbFilename)

	var err error
	st.db, err = sql.Open("sqlite", fileName)
	if err != nil {
		return nil, wrapDBError(err)
	}

	st.accounts = &AccountsDB{db: st.db}
	if err := st.accounts.init(); err != nil {
		st.db.Close()
		return nil, fmt.Errorf("init accounts table: %w", err)
	}

	return st, nil
}

func (s *store) Accounts() dao.AccountRepository {
	return s.accounts
}

func (s *store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("%s: %w", s.dbFilename, err)
	}
	return nil
}

func wrapDBError(err error) error {
	sqliteErr := &sqlite.Error{}
	if errors.As(err, &sqliteErr) {
		// extended codes keep the primary code in the low byte
		if sqliteErr.Code()&0xff == sqliteConstraint {
			return dao.ErrConstraintViolation
		}
		return fmt.Errorf("%s", sqlite.ErrorCodeString[sqliteErr.Code()])
	} else if errors.Is(err, sql.ErrNoRows) {
		return dao.ErrNotFound
	}
	return err
}

func convertToDB_UUID(u uuid.UUID) string {
	return u.String()
}

func convertFromDB_UUID(s string, target *uuid.UUID) error {
	u, err := uuid.Parse(s)
	if err != nil {
		return err
	}
	*target = u
	return nil
}

func convertToDB_Role(r dao.Role) string {
	return r.String()
}

func convertFromDB_Role(s string, target *dao.Role) error {
	r, err := dao.ParseRole(s)
	if err != nil {
		return err
	}
	*target = r
	return nil
}

// times are stored as unix nanoseconds so that a logout invalidates tokens
// issued earlier in the same second. The zero time is stored as 0.
func convertToDB_Time(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func convertFromDB_Time(i int64, target *time.Time) error {
	if i < 0 {
		return fmt.Errorf("negative timestamp")
	}
	if i == 0 {
		*target = time.Time{}
		return nil
	}
	*target = time.Unix(0, i)
	return nil
}
