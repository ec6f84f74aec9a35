package scoring

import (
	"fmt"
	"strconv"
	"strings"
)

// Dimension identifies one of the seven fixed value categories. Its integer
// value is the slot index in a WeightConfig.
type Dimension int

const (
	ROI Dimension = iota
	Compliance
	CostReduction
	RiskReduction
	Productivity
	ProcessImprovement
	NewRevenue
)

// NumDimensions is the number of value dimensions every board weighs.
const NumDimensions = 7

var dimensionKeys = [NumDimensions]string{
	"roi",
	"compliance",
	"cost_reduction",
	"risk_reduction",
	"productivity",
	"process_improvement",
	"new_revenue",
}

// Dimensions returns all dimensions in slot order.
func Dimensions() []Dimension {
	return []Dimension{ROI, Compliance, CostReduction, RiskReduction, Productivity, ProcessImprovement, NewRevenue}
}

// Key returns the wire name of the dimension.
func (d Dimension) Key() string {
	if !d.Valid() {
		return "dimension(" + strconv.Itoa(int(d)) + ")"
	}
	return dimensionKeys[d]
}

func (d Dimension) String() string { return d.Key() }

// Valid reports whether d is one of the seven slots.
func (d Dimension) Valid() bool {
	return d >= 0 && int(d) < NumDimensions
}

// ParseDimension resolves a dimension key ("cost_reduction") or a slot
// index ("2"). Hyphens are accepted in place of underscores.
func ParseDimension(s string) (Dimension, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for i, k := range dimensionKeys {
		if k == key {
			return Dimension(i), nil
		}
	}
	if n, err := strconv.Atoi(key); err == nil {
		if d := Dimension(n); d.Valid() {
			return d, nil
		}
		return 0, fmt.Errorf("%w: dimension index %d out of range [0,%d]", ErrInvalidArgument, n, NumDimensions-1)
	}
	return 0, fmt.Errorf("%w: unknown dimension %q", ErrInvalidArgument, s)
}

// Rating is a qualitative level recorded against one dimension. The zero
// value means unset.
type Rating string

const (
	RatingUnset    Rating = ""
	RatingVeryLow  Rating = "very_low"
	RatingLow      Rating = "low"
	RatingMedium   Rating = "medium"
	RatingHigh     Rating = "high"
	RatingVeryHigh Rating = "very_high"
)

// ParseRating normalises "Very-High", "very_high" and similar spellings.
// An empty string parses as RatingUnset.
func ParseRating(s string) (Rating, error) {
	r := Rating(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_"))
	switch r {
	case RatingUnset, RatingVeryLow, RatingLow, RatingMedium, RatingHigh, RatingVeryHigh:
		return r, nil
	}
	return RatingUnset, fmt.Errorf("%w: unknown rating %q", ErrInvalidArgument, s)
}

// RatingScale maps qualitative ratings onto numbers. Unset always maps to 0.
type RatingScale struct {
	VeryLow  float64 `yaml:"very_low" json:"very_low"`
	Low      float64 `yaml:"low" json:"low"`
	Medium   float64 `yaml:"medium" json:"medium"`
	High     float64 `yaml:"high" json:"high"`
	VeryHigh float64 `yaml:"very_high" json:"very_high"`
}

// DefaultRatingScale is the ordinal 1..5 mapping.
func DefaultRatingScale() RatingScale {
	return RatingScale{VeryLow: 1, Low: 2, Medium: 3, High: 4, VeryHigh: 5}
}

// Value returns the numeric value of r under the scale.
func (s RatingScale) Value(r Rating) float64 {
	switch r {
	case RatingVeryLow:
		return s.VeryLow
	case RatingLow:
		return s.Low
	case RatingMedium:
		return s.Medium
	case RatingHigh:
		return s.High
	case RatingVeryHigh:
		return s.VeryHigh
	default:
		return 0
	}
}

// Validate checks the scale is non-negative and strictly increasing.
func (s RatingScale) Validate() error {
	vals := []float64{s.VeryLow, s.Low, s.Medium, s.High, s.VeryHigh}
	if vals[0] < 0 {
		return fmt.Errorf("rating scale: very_low must be non-negative, got %v", vals[0])
	}
	for i := 1; i < len(vals); i++ {
		if vals[i] <= vals[i-1] {
			return fmt.Errorf("rating scale must be strictly increasing: %v", vals)
		}
	}
	return nil
}

// Ratings holds the per-dimension ratings of one seed, keyed by dimension key.
type Ratings map[string]Rating

// Get returns the rating recorded for d, or RatingUnset.
func (r Ratings) Get(d Dimension) Rating {
	if r == nil || !d.Valid() {
		return RatingUnset
	}
	return r[d.Key()]
}

// Normalize returns a copy with keys and values canonicalised. Unset
// entries are dropped.
func (r Ratings) Normalize() (Ratings, error) {
	out := make(Ratings, len(r))
	for k, v := range r {
		d, err := ParseDimension(k)
		if err != nil {
			return nil, err
		}
		rating, err := ParseRating(string(v))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", d.Key(), err)
		}
		if rating == RatingUnset {
			continue
		}
		out[d.Key()] = rating
	}
	return out, nil
}
