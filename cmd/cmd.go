// Package cmd defines the command-line interface for psymap.
package cmd

import (
	"github.com/psymap/psymap/internal/contract"
	"github.com/psymap/psymap/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(finalCmd)
	rootCmd.AddCommand(rankingCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(conclusionsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(dataCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Add the data subcommands to the parent data command
	dataCmd.AddCommand(dataImportCmd)
	dataCmd.AddCommand(dataClearCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().IntP("tolerance", "t", schema.DefaultTolerance, "Tolerance percentage applied to standard ratings (0-100)")
	rootCmd.PersistentFlags().Int64("template", 0, "Assessment template ID (0 = the participant's own template)")
	rootCmd.PersistentFlags().String("percentage", "", "Final achievement basis: rating or score")
	rootCmd.PersistentFlags().String("unit", "", "Gap unit for conclusions: rating or score")
	rootCmd.PersistentFlags().String("custom-standard", "", "Path to a YAML file overriding template weights and standard ratings")
	rootCmd.PersistentFlags().String("standard-version", "", "Version tag of the active custom standard")
	rootCmd.PersistentFlags().String("event", "", "Event code of the cohort for final and ranking")
	rootCmd.PersistentFlags().Int64("position", 0, "Position formation ID of the cohort for final and ranking")
	rootCmd.PersistentFlags().String("category", "", "Category scope: potensi or kompetensi or all")
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display (0 = all)")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns (1 or 2)")
	rootCmd.PersistentFlags().StringP("output", "o", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("data-backend", string(schema.FileData), "Rating data backend: file or sqlite or mysql or postgresql")
	rootCmd.PersistentFlags().String("data-source", contract.DefaultDataSource, "Dataset file path or database connection string")
	rootCmd.PersistentFlags().String("cache-backend", string(schema.SQLiteBackend), "Cache backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("cache-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("history-backend", "", "Report history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for report history (must differ from cache-db-connect)")
	rootCmd.PersistentFlags().String("profile", "", "Enable profiling and write profiles to files with this prefix")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
