package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/psymap/psymap/internal/contract"
	"github.com/psymap/psymap/internal/parquet"
)

// ExecuteHistoryExport writes every stored run and participant result to two
// Parquet files prefixed by outputFile.
func ExecuteHistoryExport(store contract.HistoryStore, outputFile string, out io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history store is not initialized")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no report history found to export")
	}

	_, _ = fmt.Fprintf(out, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(out, "Total report runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(out, "Total participant records: %d\n", status.TableSizes[participantResultsTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve report runs: %w", err)
	}
	results, err := store.GetAllParticipantResults()
	if err != nil {
		return fmt.Errorf("failed to retrieve participant results: %w", err)
	}

	parquetRuns := parquet.ConvertReportRunRecords(runs)
	runsFile := outputFile + ".report_runs.parquet"
	if err := parquet.WriteReportRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write report runs: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d report runs to: %s\n", len(parquetRuns), runsFile)

	parquetResults := parquet.ConvertParticipantResultRecords(results)
	resultsFile := outputFile + ".participant_results.parquet"
	if err := parquet.WriteParticipantResultsParquet(parquetResults, resultsFile); err != nil {
		return fmt.Errorf("failed to write participant results: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Exported %d participant results to: %s\n", len(parquetResults), resultsFile)

	return nil
}
