package parquet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/psymap/psymap/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readAll[T any](t *testing.T, path string) []T {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	reader := parquet.NewGenericReader[T](file)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	return rows[:n]
}

func TestReportRunSchema(t *testing.T) {
	s := parquet.SchemaOf(ReportRun{})
	for _, col := range []string{"run_id", "report_kind", "start_time", "end_time", "run_duration_ms", "total_participants", "config_params"} {
		_, ok := s.Lookup(col)
		assert.True(t, ok, "column %s should exist", col)
	}
}

func TestWriteReportRunsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")

	now := time.Now()
	end := now.Add(2 * time.Second)
	duration := int32(2000)
	params := `{"tolerance":10}`
	data := []ReportRun{
		{RunID: 1, ReportKind: "ranking", StartTime: now, EndTime: &end, RunDurationMs: &duration, TotalParticipants: 12, ConfigParams: &params},
		{RunID: 2, ReportKind: "final", StartTime: now},
	}

	require.NoError(t, WriteReportRunsParquet(data, outputPath))

	got := readAll[ReportRun](t, outputPath)
	require.Len(t, got, 2)
	assert.Equal(t, "ranking", got[0].ReportKind)
	assert.Equal(t, int32(12), got[0].TotalParticipants)
	require.NotNil(t, got[0].EndTime)
	assert.WithinDuration(t, end, *got[0].EndTime, time.Nanosecond)
	assert.Equal(t, params, *got[0].ConfigParams)

	assert.Nil(t, got[1].EndTime)
	assert.Nil(t, got[1].RunDurationMs)
	assert.Nil(t, got[1].ConfigParams)
}

func TestWriteParticipantResultsParquet(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "results.parquet")
	rank := int32(1)
	records := []schema.ParticipantResultRecord{
		{RunID: 1, ParticipantID: 7, ParticipantName: "EKA", AnalysisTime: time.Now(), Tolerance: 10,
			TotalStandardScore: 313.43, TotalIndividualScore: 300.91, AchievementPercentage: 96.01, FinalCode: "MS", RankPosition: &rank},
		{RunID: 2, ParticipantID: 7, ParticipantName: "EKA", AnalysisTime: time.Now(), FinalCode: "MS"},
	}

	require.NoError(t, WriteParticipantResultsParquet(ConvertParticipantResultRecords(records), outputPath))

	got := readAll[ParticipantResult](t, outputPath)
	require.Len(t, got, 2)
	assert.Equal(t, 96.01, got[0].AchievementPercentage)
	require.NotNil(t, got[0].RankPosition)
	assert.Equal(t, int32(1), *got[0].RankPosition)
	assert.Nil(t, got[1].RankPosition)
}

func TestWriteEmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteReportRunsParquet(nil, outputPath))
	assert.Empty(t, readAll[ReportRun](t, outputPath))
}

func TestWriteInvalidPath(t *testing.T) {
	err := WriteReportRunsParquet([]ReportRun{{RunID: 1}}, "/nonexistent/dir/out.parquet")
	assert.Error(t, err)
}

func TestConvertRanking(t *testing.T) {
	ranking := schema.RankingResult{
		EventCode:           "EV-1",
		PositionFormationID: 3,
		Scope:               schema.RankAll,
		Tolerance:           10,
		Entries: []schema.RankEntry{
			{ParticipantID: 2, ParticipantName: "ADI", Score: 310, Rank: 1,
				Conclusion: schema.Conclusion{Code: schema.FinalCompetentCode, Text: schema.FinalCompetentText}},
			{ParticipantID: 1, ParticipantName: "BUDI", Score: 300, Rank: 2},
		},
	}

	rows := ConvertRanking(ranking)
	require.Len(t, rows, 2)
	assert.Equal(t, "EV-1", rows[0].EventCode)
	assert.Equal(t, "all", rows[0].Scope)
	assert.Equal(t, int32(1), rows[0].Rank)
	assert.Equal(t, "K", rows[0].ConclusionCode)
	assert.Equal(t, int32(2), rows[1].Rank)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows))
	assert.Positive(t, buf.Len())
}

func TestConvertFinalRows(t *testing.T) {
	rows := ConvertFinalRows([]schema.FinalRow{{Rank: 1, ParticipantID: 9, ParticipantName: "EKA", AchievementPercentage: 96.01, FinalCode: "MS"}})
	require.Len(t, rows, 1)
	assert.Equal(t, int32(1), rows[0].Rank)
	assert.Equal(t, "MS", rows[0].FinalCode)
}
