package iocache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/psymap/psymap/internal/contract"
	"github.com/psymap/psymap/schema"
)

// Table names for report history.
const (
	reportRunsTable         = "psymap_report_runs"
	participantResultsTable = "psymap_participant_results"
)

var participantResultColumns = []string{
	"run_id", "participant_id", "participant_name", "analysis_time", "tolerance",
	"potensi_standard_score", "potensi_individual_score",
	"kompetensi_standard_score", "kompetensi_individual_score",
	"total_standard_score", "total_individual_score",
	"achievement_percentage", "final_code", "rank_position",
}

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore opens the history database and migrates it to the latest schema.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		// No-op store for disabled tracking
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDatabase(backend, connStr, GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}

	if err := autoMigrate(db, backend, connStr); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to migrate history tables: %w", err)
	}

	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

func (hs *HistoryStoreImpl) disabled() bool {
	return hs.backend == schema.NoneBackend || hs.db == nil
}

// BeginRun creates a new report run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(kind string, startTime time.Time, configParams map[string]any) (int64, error) {
	if hs.disabled() {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteTableName(reportRunsTable, hs.backend)

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (report_kind, start_time, config_params) VALUES ($1, $2, $3) RETURNING run_id`, quotedTableName)
		err = hs.db.QueryRow(query, kind, startTime, string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (report_kind, start_time, config_params) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = hs.db.Exec(query, kind, formatTime(startTime, hs.backend), string(configJSON))
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert report run: %w", err)
	}

	return runID, nil
}

// EndRun updates the report run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, totalParticipants int) error {
	if hs.disabled() {
		return nil
	}

	quotedTableName := quoteTableName(reportRunsTable, hs.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholder(hs.backend, 1))
	startTime, err := hs.scanTime(hs.db.QueryRow(query, runID))
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_participants = %s WHERE run_id = %s`,
		quotedTableName,
		placeholder(hs.backend, 1), placeholder(hs.backend, 2), placeholder(hs.backend, 3), placeholder(hs.backend, 4))
	if _, err := hs.db.Exec(updateQuery, formatTime(endTime, hs.backend), durationMs, totalParticipants, runID); err != nil {
		return fmt.Errorf("failed to update report run: %w", err)
	}

	return nil
}

// RecordParticipantResult stores the final result of one participant in a run.
func (hs *HistoryStoreImpl) RecordParticipantResult(record schema.ParticipantResultRecord) error {
	if hs.disabled() {
		return nil
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`,
		quoteTableName(participantResultsTable, hs.backend),
		strings.Join(participantResultColumns, ", "),
		placeholders(hs.backend, len(participantResultColumns)))

	var rank any
	if record.RankPosition != nil {
		rank = *record.RankPosition
	}

	_, err := hs.db.Exec(query,
		record.RunID, record.ParticipantID, record.ParticipantName,
		formatTime(record.AnalysisTime, hs.backend), record.Tolerance,
		record.PotensiStandardScore, record.PotensiIndividualScore,
		record.KompetensiStandardScore, record.KompetensiIndividualScore,
		record.TotalStandardScore, record.TotalIndividualScore,
		record.AchievementPercentage, record.FinalCode, rank,
	)
	if err != nil {
		return fmt.Errorf("failed to insert participant result: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}

	if hs.disabled() {
		return status, nil
	}

	runsTable := quoteTableName(reportRunsTable, hs.backend)

	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", runsTable)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		lastRunQuery := fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", runsTable)
		lastRunTime, err := hs.scanTime(hs.db.QueryRow(lastRunQuery), &status.LastRunID)
		if err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		status.LastRunTime = lastRunTime

		oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", runsTable)
		oldestRunTime, err := hs.scanTime(hs.db.QueryRow(oldestRunQuery))
		if err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		status.OldestRunTime = oldestRunTime

		totalQuery := fmt.Sprintf("SELECT COALESCE(SUM(total_participants), 0) FROM %s", runsTable)
		if err := hs.db.QueryRow(totalQuery).Scan(&status.TotalParticipants); err != nil {
			return status, fmt.Errorf("failed to get total participants: %w", err)
		}
	}

	for _, table := range []string{reportRunsTable, participantResultsTable} {
		var count int64
		countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend))
		if err := hs.db.QueryRow(countQuery).Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}

	return status, nil
}

// GetAllRuns retrieves every report run from the store.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.ReportRunRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, report_kind, start_time, end_time, run_duration_ms,
		COALESCE(total_participants, 0), config_params FROM %s ORDER BY run_id`,
		quoteTableName(reportRunsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query report runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ReportRunRecord
	for rows.Next() {
		var record schema.ReportRunRecord

		switch hs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &record.ReportKind, &startTimeStr, &endTimeStr,
				&record.RunDurationMs, &record.TotalParticipants, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan report run: %w", err)
			}
			if record.StartTime, err = parseTime(startTimeStr); err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			if endTimeStr != nil {
				endTime, err := parseTime(*endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // MySQL and PostgreSQL
			if err := rows.Scan(&record.RunID, &record.ReportKind, &record.StartTime, &record.EndTime,
				&record.RunDurationMs, &record.TotalParticipants, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan report run: %w", err)
			}
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating report runs: %w", err)
	}
	return results, nil
}

// GetAllParticipantResults retrieves every participant result from the store.
func (hs *HistoryStoreImpl) GetAllParticipantResults() ([]schema.ParticipantResultRecord, error) {
	if hs.disabled() {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY run_id, participant_id`,
		strings.Join(participantResultColumns, ", "),
		quoteTableName(participantResultsTable, hs.backend))

	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query participant results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.ParticipantResultRecord
	for rows.Next() {
		var (
			record  schema.ParticipantResultRecord
			timeStr string
			timeVal time.Time
			rank    sql.NullInt32
		)
		dest := []any{&record.RunID, &record.ParticipantID, &record.ParticipantName, nil, &record.Tolerance,
			&record.PotensiStandardScore, &record.PotensiIndividualScore,
			&record.KompetensiStandardScore, &record.KompetensiIndividualScore,
			&record.TotalStandardScore, &record.TotalIndividualScore,
			&record.AchievementPercentage, &record.FinalCode, &rank}
		if hs.backend == schema.SQLiteBackend {
			dest[3] = &timeStr
		} else {
			dest[3] = &timeVal
		}

		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan participant result: %w", err)
		}
		if hs.backend == schema.SQLiteBackend {
			if timeVal, err = parseTime(timeStr); err != nil {
				return nil, fmt.Errorf("failed to parse analysis_time: %w", err)
			}
		}
		record.AnalysisTime = timeVal
		if rank.Valid {
			r := rank.Int32
			record.RankPosition = &r
		}

		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating participant results: %w", err)
	}
	return results, nil
}

// scanTime scans leading columns into extra and a final timestamp column,
// handling the text encoding SQLite uses.
func (hs *HistoryStoreImpl) scanTime(row *sql.Row, extra ...any) (time.Time, error) {
	if hs.backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(append(extra, &s)...); err != nil {
			return time.Time{}, err
		}
		return parseTime(s)
	}
	var t time.Time
	if err := row.Scan(append(extra, &t)...); err != nil {
		return time.Time{}, err
	}
	return t, nil
}
