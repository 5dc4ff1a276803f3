package schema

import "time"

// CacheStatus represents the status of the cache store.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// HistoryStatus represents the status of the report history store.
type HistoryStatus struct {
	Backend           string           `json:"backend"`
	Connected         bool             `json:"connected"`
	TotalRuns         int              `json:"total_runs"`
	LastRunID         int64            `json:"last_run_id"`
	LastRunTime       time.Time        `json:"last_run_time"`
	OldestRunTime     time.Time        `json:"oldest_run_time"`
	TotalParticipants int              `json:"total_participants"`
	TableSizes        map[string]int64 `json:"table_sizes"`
}

// ReportRunRecord represents a row from the psymap_report_runs table.
type ReportRunRecord struct {
	RunID             int64
	ReportKind        string
	StartTime         time.Time
	EndTime           *time.Time
	RunDurationMs     *int32
	TotalParticipants int32
	ConfigParams      *string
}

// ParticipantResultRecord represents a row from the psymap_participant_results table.
type ParticipantResultRecord struct {
	RunID                     int64
	ParticipantID             int64
	ParticipantName           string
	AnalysisTime              time.Time
	Tolerance                 int32
	PotensiStandardScore      float64
	PotensiIndividualScore    float64
	KompetensiStandardScore   float64
	KompetensiIndividualScore float64
	TotalStandardScore        float64
	TotalIndividualScore      float64
	AchievementPercentage     float64
	FinalCode                 string
	RankPosition              *int32
}
