package main

import (
	"log/slog"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/y00281951/fst-time-nlu-sub002/store"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the holiday schema and optionally import a holiday table",
	Long: `Applies the holiday schema to the sqlite or postgres database named by --dsn.
With --import the rows of a JSON or YAML holiday table replace the stored rows of
every year the file names.`,
	RunE: runMigrate,
}

func init() {
	migrateCmd.Flags().String("import", "", "JSON or YAML holiday table to import")
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	p, err := loadProfile()
	if err != nil {
		return err
	}
	if p.Driver == "" {
		return errors.New("migrate needs --holiday-source sqlite or postgres")
	}
	ctx := cmd.Context()
	s, err := openStore(ctx, p)
	if err != nil {
		return err
	}
	defer s.Close()

	path, _ := cmd.Flags().GetString("import")
	if path == "" {
		return nil
	}
	f, err := store.ReadHolidayFile(path)
	if err != nil {
		return err
	}
	if err := s.ImportHolidays(ctx, f); err != nil {
		return err
	}
	slog.Info("holidays imported", slog.String("file", path), slog.Int("years", len(f)))
	return nil
}
