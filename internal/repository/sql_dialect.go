package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/RealZimboGuy/newsflow/internal/config"
)

// placeholder returns the correct bind variable for the given index based on DB type.
// Postgres uses $1, $2... while MySQL and SQLite use ?
func placeholder(i int) string {
	db := config.GetSystemSettingString(config.DATABASE_TYPE)
	if db == config.DATABASE_TYPE_POSTGRES {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

// dateAtOrAfter returns a DB-specific predicate comparing a datetime column against a bound value.
// SQLite stores timestamps as TEXT so both sides are coerced via julianday().
func dateAtOrAfter(column string, i int) string {
	if config.GetSystemSettingString(config.DATABASE_TYPE) == config.DATABASE_TYPE_SQLLITE {
		return fmt.Sprintf("julianday(%s) >= julianday(%s)", column, placeholder(i))
	}
	return fmt.Sprintf("%s >= %s", column, placeholder(i))
}

func supportsReturning() bool {
	return config.GetSystemSettingString(config.DATABASE_TYPE) == config.DATABASE_TYPE_POSTGRES
}

func formatDateInDatabase(t time.Time) string {
	switch config.GetSystemSettingString(config.DATABASE_TYPE) {
	case config.DATABASE_TYPE_SQLLITE:
		return t.UTC().Format("2006-01-02 15:04:05.000")
	case config.DATABASE_TYPE_MYSQL:
		return t.UTC().Format("2006-01-02 15:04:05.000000")
	}
	// PostgreSQL supports RFC3339
	return t.UTC().Format(time.RFC3339Nano)
}

func formatDateInDatabaseNull(t sql.NullTime) interface{} {
	if !t.Valid {
		return nil
	}
	return formatDateInDatabase(t.Time)
}

func formatDateInDatabasePtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return formatDateInDatabase(*t)
}

// insertReturningID runs an INSERT and returns the generated id, using RETURNING where supported.
func insertReturningID(db *sql.DB, query string, args ...interface{}) (int64, error) {
	var id int64
	if supportsReturning() {
		err := db.QueryRow(query+" RETURNING id", args...).Scan(&id)
		return id, err
	}
	res, err := db.Exec(query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// placeholders returns n comma separated bind variables starting at index start.
func placeholders(start, n int) string {
	s := ""
	for i := 0; i < n; i++ {
		if i > 0 {
			s += ", "
		}
		s += placeholder(start + i)
	}
	return s
}
