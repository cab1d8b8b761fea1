package migrations

import (
	"embed"
	"io/fs"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// one directory per dialect; embed does not allow ../ so the SQL lives beside this file
//
//go:embed postgres mysql sqllite3
var FS embed.FS

// Run applies every pending up migration for the dialect directory (postgres, mysql or sqllite3).
func Run(dialect string, dbURL string) error {
	sub, err := fs.Sub(FS, dialect)
	if err != nil {
		return err
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		return err
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return err
	}
	defer m.Close()
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}
