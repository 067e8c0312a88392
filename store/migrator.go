package store

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Migration System Overview:
//
// Each driver has a single idempotent schema file, store/migration/{driver}/LATEST.sql,
// applied on every start. In demo mode an empty database is seeded with the built-in
// holiday table.

//go:embed migration
var migrationFS embed.FS

const (
	// LatestSchemaFileName is the name of the latest schema file.
	LatestSchemaFileName = "LATEST.sql"

	modeDemo = "demo"
)

// Migrate applies the schema and seeds demo databases.
func (s *Store) Migrate(ctx context.Context) error {
	path := fmt.Sprintf("migration/%s/%s", s.driver.Name(), LatestSchemaFileName)
	data, err := migrationFS.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "failed to read schema file: %s", path)
	}
	if err := s.execute(ctx, string(data)); err != nil {
		return errors.Wrapf(err, "failed to apply schema %s", path)
	}
	slog.Info("schema applied", slog.String("driver", s.driver.Name()))

	if s.profile != nil && s.profile.Mode == modeDemo {
		if err := s.seed(ctx); err != nil {
			return errors.Wrap(err, "failed to seed")
		}
	}
	return nil
}

func (s *Store) seed(ctx context.Context) error {
	rows, err := s.driver.ListHolidays(ctx, &FindHoliday{})
	if err != nil {
		return err
	}
	if len(rows) > 0 {
		return nil
	}
	var f HolidayFile
	if err := yaml.NewDecoder(bytes.NewReader(defaultHolidays)).Decode(&f); err != nil {
		return errors.Wrap(err, "failed to decode built-in holidays")
	}
	slog.Info("seeding holiday table", slog.Int("years", len(f)))
	return s.ImportHolidays(ctx, f)
}

// execute runs a multi-statement script one statement at a time.
func (s *Store) execute(ctx context.Context, script string) error {
	for _, stmt := range strings.Split(script, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := s.driver.GetDB().ExecContext(ctx, stmt); err != nil {
			return errors.Wrapf(err, "failed to execute statement: %s", strings.TrimSpace(stmt))
		}
	}
	return nil
}
