package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/psymap/psymap/schema"
)

// Color variables for console output, keyed by style tag.
var (
	SuccessColor  = color.New(color.FgGreen, color.Bold) // above standard, very competent
	InfoColor     = color.New(color.FgCyan)              // competent
	WarningColor  = color.New(color.FgYellow)            // meets standard with tolerance
	DangerColor   = color.New(color.FgRed, color.Bold)   // below standard
	CriticalColor = color.New(color.FgMagenta, color.Bold)
)

// ColorForStyle maps a style tag to its console color.
func ColorForStyle(style schema.StyleTag) *color.Color {
	switch style {
	case schema.SuccessStyle:
		return SuccessColor
	case schema.InfoStyle:
		return InfoColor
	case schema.WarningStyle:
		return WarningColor
	case schema.DangerStyle:
		return DangerColor
	case schema.CriticalStyle:
		return CriticalColor
	default:
		return nil
	}
}

// GetColorLabel returns a colored text label for console output (table).
// Unknown styles are returned uncolored.
func GetColorLabel(text string, style schema.StyleTag) string {
	if c := ColorForStyle(style); c != nil {
		return c.Sprint(text)
	}
	return text
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".psymap_cache.db"
	}
	return filepath.Join(homeDir, ".psymap_cache.db")
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for report history.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".psymap_history.db"
	}
	return filepath.Join(homeDir, ".psymap_history.db")
}

// TruncateName truncates a name to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the "..." and at least one character.
func TruncateName(name string, maxWidth int) string {
	runes := []rune(name)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return name
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
