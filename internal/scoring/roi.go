package scoring

import "fmt"

// CalculateROI returns ((gained - spent) / spent) * 100.
// A zero spend is rejected as well, since the ratio is undefined.
func CalculateROI(amountGained, amountSpent float64) (float64, error) {
	if amountGained <= 0 {
		return 0, fmt.Errorf("%w: amount gained must be positive, got %v", ErrInvalidInput, amountGained)
	}
	if amountSpent < 0 {
		return 0, fmt.Errorf("%w: amount spent must be non-negative, got %v", ErrInvalidInput, amountSpent)
	}
	if amountSpent == 0 {
		return 0, fmt.Errorf("%w: amount spent must be non-zero", ErrInvalidInput)
	}
	return (amountGained - amountSpent) / amountSpent * 100, nil
}
