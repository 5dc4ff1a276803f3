package cmd

import (
	"github.com/psymap/psymap/core"
	"github.com/psymap/psymap/internal/contract"
	"github.com/spf13/cobra"
)

// rankingCmd ranks the participants of one cohort.
var rankingCmd = &cobra.Command{
	Use:   "ranking [participant-id]",
	Short: "Rank the participants of one event and position formation",
	Long: `Rank every participant sharing an event and position formation.

The cohort is chosen with --event and --position, or by passing the ID of
one of its participants. Participants are ordered by score descending and
then by name; equal scores share a rank.

Scopes:
  all        - final achievement (default)
  potensi    - potensi category individual score
  kompetensi - kompetensi category individual score

Participants assessed under another template or missing a category are
listed as skipped with the reason.

Examples:
  # Rank the cohort of participant 42
  psymap ranking 42

  # Top 10 by kompetensi
  psymap ranking --event EV-2025 --position 10 --category kompetensi --limit 10

  # Compare rankings at two tolerances
  psymap ranking 42 --tolerance 0
  psymap ranking 42 --tolerance 20`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRanking(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot compute ranking", err)
		}
	},
}
