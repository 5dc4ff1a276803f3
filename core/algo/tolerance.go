// Package algo holds the pure assessment engine: tolerance adjustment, gap
// evaluation, aspect and category aggregation, the final assessment,
// ranking order and the static conclusion tables.
package algo

import (
	"fmt"

	"github.com/psymap/psymap/schema"
)

// ValidateTolerance rejects tolerance percentages outside [0, 100].
func ValidateTolerance(tolerancePercentage int) error {
	if tolerancePercentage < schema.MinTolerance || tolerancePercentage > schema.MaxTolerance {
		return fmt.Errorf("%w: got %d", schema.ErrInvalidTolerance, tolerancePercentage)
	}
	return nil
}

// ToleranceFactor returns 1 - tolerancePercentage/100.
func ToleranceFactor(tolerancePercentage int) float64 {
	return float64(schema.MaxTolerance-tolerancePercentage) / schema.MaxTolerance
}

// Adjust lowers a standard value by the tolerance percentage.
// The multiplication happens before the division so whole-number inputs stay exact.
// Callers validate the tolerance first with ValidateTolerance.
func Adjust(value float64, tolerancePercentage int) float64 {
	if tolerancePercentage == 0 {
		return value
	}
	return value * float64(schema.MaxTolerance-tolerancePercentage) / schema.MaxTolerance
}

// AdjustChecked validates the tolerance and adjusts value.
func AdjustChecked(value float64, tolerancePercentage int) (float64, error) {
	if err := ValidateTolerance(tolerancePercentage); err != nil {
		return 0, err
	}
	return Adjust(value, tolerancePercentage), nil
}
