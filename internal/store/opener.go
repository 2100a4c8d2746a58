package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"

	"kharchapal/internal/config"
	"kharchapal/internal/database"
)

// Opener opens and destroys the store described by a configuration
type Opener struct {
	Config *config.Config
}

// NewOpener creates an opener for cfg
func NewOpener(cfg *config.Config) *Opener {
	return &Opener{Config: cfg}
}

// Open connects to the configured database and opens the store at the
// current schema version.
func (o *Opener) Open(ctx context.Context) (*Store, error) {
	dialect, _, err := database.DialectFor(o.Config)
	if err != nil {
		return nil, err
	}
	db, err := database.InitializeWithConfig(o.Config)
	if err != nil {
		return nil, openError(dialect, err)
	}

	s, err := Open(ctx, db, SchemaVersion, Migrations)
	if err != nil {
		db.Close()
		return nil, err
	}

	log.Printf("Record store opened (type: %s, version: %d)", s.DialectName(), s.Version())
	return s, nil
}

// Destroy removes all local data. For SQLite the database files are
// deleted; server databases have their tables dropped.
func (o *Opener) Destroy(ctx context.Context) error {
	dialect, dialectConfig, err := database.DialectFor(o.Config)
	if err != nil {
		return err
	}

	if dialect.Name() == "sqlite" {
		for _, suffix := range []string{"", "-wal", "-shm"} {
			err := os.Remove(dialectConfig.Path + suffix)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to remove %s: %w", dialectConfig.Path+suffix, err)
			}
		}
		return nil
	}

	db, err := database.InitializeWithConfig(o.Config)
	if err != nil {
		return fmt.Errorf("failed to connect for reset: %w", err)
	}
	defer db.Close()
	return wipeTables(ctx, db)
}
