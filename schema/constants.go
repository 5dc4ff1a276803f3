package schema

// Custom string types for type safety.
type (
	// CategoryCode identifies a top-level rubric category.
	CategoryCode string

	// ConclusionCode is the short code of a conclusion label.
	ConclusionCode string

	// ConclusionScheme names one of the static conclusion tables.
	ConclusionScheme string

	// StyleTag is a presentation tag attached to a conclusion label.
	StyleTag string

	// StandardSource tells where an adjusted standard came from.
	StandardSource string

	// PercentageMode selects the percentage formula of an aspect.
	PercentageMode string

	// GapUnit selects whether aspect gaps are evaluated on ratings or scores.
	GapUnit string

	// RankScope selects the score a ranking is ordered by.
	RankScope string

	// OutputMode represents the format of the output.
	OutputMode string

	// DataBackend represents where rating data is read from.
	DataBackend string

	// DatabaseBackend represents the database backend for caching and history.
	DatabaseBackend string
)

// Category codes known to the final assessment.
const (
	PotensiCategory    CategoryCode = "potensi"
	KompetensiCategory CategoryCode = "kompetensi"
)

// Gap conclusion labels (three-state scheme).
const (
	AboveStandardText = "Di Atas Standar"
	MeetsStandardText = "Memenuhi Standar"
	BelowStandardText = "Di Bawah Standar"

	AboveStandardCode ConclusionCode = "DAS"
	MeetsStandardCode ConclusionCode = "MS"
	BelowStandardCode ConclusionCode = "DBS"
)

// Potensial labels mapped from gap conclusions.
const (
	VeryPotentialText      = "Sangat Potensial"
	PotentialWithNotesText = "Potensial Dengan Catatan"
	LessPotentialText      = "Kurang Potensial"

	VeryPotentialCode      ConclusionCode = "SP"
	PotentialWithNotesCode ConclusionCode = "PDC"
	LessPotentialCode      ConclusionCode = "KP"
)

// Five-band competency labels.
const (
	VeryCompetentBandText   = "Sangat Kompeten"
	CompetentBandText       = "Kompeten"
	FairlyCompetentBandText = "Cukup Kompeten"
	LessCompetentBandText   = "Kurang Kompeten"
	NotCompetentBandText    = "Belum Kompeten"
)

// Four-band final labels.
const (
	FinalVeryCompetentText = "SANGAT KOMPETEN"
	FinalCompetentText     = "KOMPETEN"
	FinalMeetsText         = "MEMENUHI STANDARD"
	FinalBelowText         = "DI BAWAH STANDARD"

	FinalVeryCompetentCode ConclusionCode = "SK"
	FinalCompetentCode     ConclusionCode = "K"
	FinalMeetsCode         ConclusionCode = "MS"
	FinalBelowCode         ConclusionCode = "DBS"
)

// All conclusion schemes.
const (
	GapScheme        ConclusionScheme = "gap"
	PotensialScheme  ConclusionScheme = "potensial"
	CompetencyScheme ConclusionScheme = "competency"
	FinalScheme      ConclusionScheme = "final"
)

// All style tags.
const (
	SuccessStyle  StyleTag = "success"
	InfoStyle     StyleTag = "info"
	WarningStyle  StyleTag = "warning"
	DangerStyle   StyleTag = "danger"
	CriticalStyle StyleTag = "critical"
)

// All standard sources.
const (
	ToleranceSource StandardSource = "tolerance"
	CustomSource    StandardSource = "custom"
)

// All percentage modes.
const (
	RatingPercentage PercentageMode = "rating" // default
	ScorePercentage  PercentageMode = "score"
)

// All gap units.
const (
	RatingUnit GapUnit = "rating" // default
	ScoreUnit  GapUnit = "score"
)

// All ranking scopes.
const (
	RankPotensi    RankScope = RankScope(PotensiCategory)
	RankKompetensi RankScope = RankScope(KompetensiCategory)
	RankAll        RankScope = "all" // default
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All rating data backends supported.
const (
	FileData       DataBackend = "file" // default
	SQLiteData     DataBackend = "sqlite"
	MySQLData      DataBackend = "mysql"
	PostgreSQLData DataBackend = "postgresql"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Numeric bounds shared by the engine and the host.
const (
	MaxRating        = 5.0
	ScoreEpsilon     = 0.001 // scores closer than this rank as ties
	MinTolerance     = 0
	MaxTolerance     = 100
	DefaultTolerance = 10
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidPercentageModes lists all valid percentage modes.
var ValidPercentageModes = map[PercentageMode]struct{}{
	RatingPercentage: {},
	ScorePercentage:  {},
}

// ValidGapUnits lists all valid gap units.
var ValidGapUnits = map[GapUnit]struct{}{
	RatingUnit: {},
	ScoreUnit:  {},
}

// ValidRankScopes lists all valid ranking scopes.
var ValidRankScopes = map[RankScope]struct{}{
	RankPotensi:    {},
	RankKompetensi: {},
	RankAll:        {},
}

// ValidDataBackends lists all valid rating data backends.
var ValidDataBackends = map[DataBackend]struct{}{
	FileData:       {},
	SQLiteData:     {},
	MySQLData:      {},
	PostgreSQLData: {},
}

// ValidDatabaseBackends lists all valid cache and history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
