package cmd

import (
	"github.com/psymap/psymap/core"
	"github.com/psymap/psymap/internal/contract"
	"github.com/spf13/cobra"
)

// reportCmd computes the full assessment report of one participant.
var reportCmd = &cobra.Command{
	Use:   "report <participant-id>",
	Short: "Compute the aspect, category and final report of one participant",
	Long: `Compute the complete assessment report of a single participant.

For every aspect of the template, the report shows:
- Standard rating and score, both original and tolerance-adjusted
- Individual rating and score from the rating records
- Gaps against the adjusted standard and their conclusion label
- Sub-aspect coverage for aspects rated per sub-aspect

Category totals and the weighted final assessment follow the aspect table.
Reports are memoized per participant, tolerance and standard version, and
persisted in the result cache unless --cache-backend none is given.

Examples:
  # Report participant 42 with the default 10% tolerance
  psymap report 42

  # Strict standard and JSON output
  psymap report 42 --tolerance 0 --output json

  # Apply a custom standard file
  psymap report 42 --custom-standard standard-2025.yaml`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute report", err)
		}
	},
}

// finalCmd computes final assessments for a participant or a whole cohort.
var finalCmd = &cobra.Command{
	Use:   "final [participant-id]",
	Short: "Compute the weighted final assessment of a participant or a cohort",
	Long: `Compute the final assessment: the weighted combination of the potensi and
kompetensi categories, the achievement percentage and the four-band conclusion.

With a participant ID only that participant is computed. With --event and
--position the whole cohort is computed, ranked and, when a history backend
is configured, recorded as one report run.

Category weights come from the template unless overridden in .psymap.yaml:

  weights:
    potensi: 40
    kompetensi: 60

Examples:
  # Final assessment of participant 42
  psymap final 42

  # Final assessments of a cohort, exported for BI tools
  psymap final --event EV-2025 --position 10 --output parquet --output-file final.parquet

  # Record the cohort run in report history
  psymap final --event EV-2025 --position 10 --history-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteFinal(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute final assessment", err)
		}
	},
}

// conclusionsCmd prints the static conclusion tables.
var conclusionsCmd = &cobra.Command{
	Use:   "conclusions",
	Short: "Display every conclusion scheme with its rules and display styles",
	Long: `Show the conclusion tables used to label gaps and scores:

- Gap: the three-state label derived from original and adjusted gaps
- Potensial: the potensi wording of each gap label
- Competency: the five bands of the competency summary
- Final: the four bands of the achievement percentage

No rating data is read - this is purely informational.

Examples:
  # Show all tables
  psymap conclusions

  # Export the legend for a report template
  psymap conclusions --output csv --output-file legend.csv`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteConclusions(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot display conclusions", err)
		}
	},
}
