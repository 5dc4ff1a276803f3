package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/psymap/psymap/internal/contract"
	"github.com/psymap/psymap/internal/ratingstore"
	"github.com/psymap/psymap/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// dataSetup resolves the database rating source targeted by data commands.
func dataSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DataBackend(strings.ToLower(viper.GetString("data-backend")))
	source := strings.TrimSpace(viper.GetString("data-source"))

	switch backend {
	case schema.SQLiteData:
		if source == "" {
			return fmt.Errorf("data-source is required when using %s data backend", backend)
		}
	case schema.MySQLData, schema.PostgreSQLData:
		if err := contract.ValidateDatabaseConnectionString(schema.DatabaseBackend(backend), source); err != nil {
			return fmt.Errorf("invalid data-source: %w", err)
		}
	default:
		return fmt.Errorf("data commands need a database data backend (sqlite, mysql, postgresql), got '%s'", backend)
	}

	cfg.DataBackend = backend
	cfg.DataSource = source
	return nil
}

// dataSetupWrapper wraps dataSetup to provide PreRunE for data commands.
func dataSetupWrapper(_ *cobra.Command, _ []string) error {
	return dataSetup()
}

// withRatingDatabase opens the configured rating database with its tables in place.
func withRatingDatabase(ctx context.Context, fn func(*ratingstore.SQLStore) error) error {
	store, err := ratingstore.OpenSQL(ctx, cfg.DataBackend, cfg.DataSource)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}
	return fn(store)
}

// dataCmd focused on rating database management.
var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Manage rating data stored in a database",
	Long: `Load assessment datasets into a relational rating database.

A dataset file holds templates, participants and their rating records. Once
imported, reports can read from the database with --data-backend and
--data-source instead of the file.

Subcommands:
  import - Import a dataset YAML file
  clear  - Delete every rating row

Examples:
  # Import into SQLite and report from it
  psymap data import dataset.yaml --data-backend sqlite --data-source ratings.db
  psymap report 42 --data-backend sqlite --data-source ratings.db`,
}

// dataImportCmd imports a dataset file into the rating database.
var dataImportCmd = &cobra.Command{
	Use:   "import <dataset.yaml>",
	Short: "Import a dataset file into the rating database",
	Long: `Validate a dataset file and write it to the rating database in one transaction.

The rating tables are created when missing. Importing the same IDs twice fails;
run 'psymap data clear' first to replace the data.

Examples:
  psymap data import dataset.yaml --data-backend sqlite --data-source ratings.db

  # PostgreSQL (set connection string via env variable)
  PSYMAP_DATA_BACKEND=postgresql PSYMAP_DATA_SOURCE="host=... dbname=..." psymap data import dataset.yaml`,
	Args:    cobra.ExactArgs(1),
	PreRunE: dataSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		ds, err := ratingstore.LoadDataset(args[0])
		if err != nil {
			contract.LogFatal("Cannot read dataset", err)
		}
		err = withRatingDatabase(rootCtx, func(store *ratingstore.SQLStore) error {
			return store.Import(rootCtx, ds)
		})
		if err != nil {
			contract.LogFatal("Failed to import dataset", err)
		}
		fmt.Printf("Imported %d templates and %d participants into %s.\n", len(ds.Templates), len(ds.Participants), cfg.DataBackend)
	},
}

// dataClearCmd deletes all rating data.
var dataClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every rating row from the rating database",
	Long: `Delete all templates, participants and rating records from the rating database.

WARNING: This action cannot be undone.

Examples:
  psymap data clear --data-backend sqlite --data-source ratings.db`,
	PreRunE: dataSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		err := withRatingDatabase(rootCtx, func(store *ratingstore.SQLStore) error {
			return store.ClearData(rootCtx)
		})
		if err != nil {
			contract.LogFatal("Failed to clear rating data", err)
		}
		fmt.Println("Rating data cleared successfully.")
	},
}
