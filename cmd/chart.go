package cmd

import (
	"github.com/psymap/psymap/core"
	"github.com/psymap/psymap/internal/contract"
	"github.com/spf13/cobra"
)

// chartCmd flattens a report into spider chart series.
var chartCmd = &cobra.Command{
	Use:   "chart <participant-id>",
	Short: "Print the spider chart series of one participant",
	Long: `Flatten a participant report into chart series: one label per aspect with
its original standard, adjusted standard and individual rating.

Use --category to limit the output to potensi or kompetensi.

Examples:
  # Both categories as JSON for a charting frontend
  psymap chart 42 --output json

  # Kompetensi only
  psymap chart 42 --category kompetensi`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteChart(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute chart", err)
		}
	},
}

// summaryCmd labels each kompetensi aspect with the five-band scheme.
var summaryCmd = &cobra.Command{
	Use:   "summary <participant-id>",
	Short: "Label every kompetensi aspect of one participant",
	Long: `Print the competency summary of a participant: each kompetensi aspect with
its adjusted rating gap and the five-band competency label.

Examples:
  psymap summary 42
  psymap summary 42 --tolerance 0 --output csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummary(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute competency summary", err)
		}
	},
}
