package outwriter

import (
	"os"

	"github.com/psymap/psymap/internal/contract"
	"golang.org/x/term"
)

// Bounds of the name column in text tables.
const (
	minNameWidth = 12
	maxNameWidth = 48
)

// GetMaxTableNameWidth calculates the maximum width of the name column in
// table output, given the width already taken by the other columns.
func GetMaxTableNameWidth(cfg *contract.Config, fixedWidth int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Borders, separators and padding
	available := termWidth - fixedWidth - 16
	if available < minNameWidth {
		return minNameWidth
	}
	if available > maxNameWidth {
		return maxNameWidth
	}
	return available
}
