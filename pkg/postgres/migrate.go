package postgres

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // register postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // register file source driver
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Direction selects which way migrations run.
type Direction int

const (
	Up Direction = iota
	Down
)

func (d Direction) String() string {
	if d == Down {
		return "down"
	}
	return "up"
}

// MigrationSource locates migration files: either a source URL such as
// "file://./migrations" or a directory inside an fs.FS, typically embedded.
type MigrationSource struct {
	URL  string
	FS   fs.FS
	Path string
}

// Migrate applies every pending migration in the given direction and returns
// the resulting schema version (0 when no migration is applied). Having
// nothing to do is not an error.
func Migrate(dsn string, src MigrationSource, dir Direction) (uint, error) {
	m, err := newMigrator(dsn, src)
	if err != nil {
		return 0, err
	}
	defer m.Close()

	run := m.Up
	if dir == Down {
		run = m.Down
	}
	if err := run(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("postgres: migrate %s: %w", dir, err)
	}

	version, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("postgres: read schema version: %w", err)
	}
	return version, nil
}

func newMigrator(dsn string, src MigrationSource) (*migrate.Migrate, error) {
	switch {
	case src.URL != "":
		m, err := migrate.New(src.URL, dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres: create migrator: %w", err)
		}
		return m, nil
	case src.FS != nil:
		driver, err := iofs.New(src.FS, src.Path)
		if err != nil {
			return nil, fmt.Errorf("postgres: open migration files: %w", err)
		}
		m, err := migrate.NewWithSourceInstance("iofs", driver, dsn)
		if err != nil {
			return nil, fmt.Errorf("postgres: create migrator: %w", err)
		}
		return m, nil
	default:
		return nil, errors.New("postgres: migration source requires a URL or a filesystem")
	}
}
