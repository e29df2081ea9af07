package store

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/pkg/errors"
)

// The schema lives in store/migration/{driver}/LATEST.sql and is applied
// once, when the database has not been initialized yet. The schedule table
// is append-only and its shape has been stable since the first release, so
// no incremental migration chain is carried.

//go:embed migration
var migrationFS embed.FS

// LatestSchemaFileName is the name of the latest schema file, used to
// initialize fresh installations with the current schema.
const LatestSchemaFileName = "LATEST.sql"

// Migrate initializes the database schema if needed.
func (s *Store) Migrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check if database is initialized")
	}
	if initialized {
		return nil
	}

	filePath := fmt.Sprintf("migration/%s/%s", s.profile.Driver, LatestSchemaFileName)
	buf, err := migrationFS.ReadFile(filePath)
	if err != nil {
		return errors.Wrapf(err, "failed to read latest schema file %q", filePath)
	}

	if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to apply latest schema")
	}
	slog.Info("database initialized", slog.String("driver", s.profile.Driver))
	return nil
}
