package scoring

import "errors"

var (
	// ErrInvalidArgument is returned for an unknown ranking strategy or
	// direction, or a dimension that does not exist.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidInput is returned by CalculateROI for a non-positive gain or
	// a negative spend.
	ErrInvalidInput = errors.New("invalid input")
)
