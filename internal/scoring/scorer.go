package scoring

// FactorResult captures one dimension's contribution to the total score.
type FactorResult struct {
	Name      string  `json:"name"`
	Rating    Rating  `json:"rating,omitempty"`
	Score     float64 `json:"score"`
	Weight    int     `json:"weight"`
	Weighted  float64 `json:"weighted"`
	Available bool    `json:"available"`
	Reason    string  `json:"reason"`
}

// ScoringResult is the full breakdown for a single seed under one board's
// weights.
type ScoringResult struct {
	TotalScore float64        `json:"total_score"`
	MaxScore   float64        `json:"max_score"`
	Factors    []FactorResult `json:"factors"`
	ROI        *float64       `json:"roi,omitempty"`
}

// Candidate is anything the engine can score and the rankers can order.
type Candidate interface {
	RankTitle() string
	RankRatings() Ratings
}

// ROIInputs is implemented by candidates that carry raw ROI amounts.
type ROIInputs interface {
	ROIAmounts() (gained, spent *float64)
}

// CalculateMetric is the weighted linear combination of factor values and
// weights over the seven dimensions. A missing factor contributes 0.
func CalculateMetric(factors map[Dimension]float64, weights WeightConfig) float64 {
	var total float64
	for _, d := range Dimensions() {
		total += factors[d] * float64(weights.Get(d))
	}
	return total
}

// Engine turns qualitative ratings into scores using a fixed RatingScale.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	scale RatingScale
}

// NewEngine creates an Engine with the given scale.
func NewEngine(scale RatingScale) *Engine {
	return &Engine{scale: scale}
}

// Scale returns the rating scale the engine was built with.
func (e *Engine) Scale() RatingScale { return e.scale }

// Factors maps each rated dimension to its numeric value. Unset
// dimensions are omitted.
func (e *Engine) Factors(r Ratings) map[Dimension]float64 {
	factors := make(map[Dimension]float64, NumDimensions)
	for _, d := range Dimensions() {
		if rating := r.Get(d); rating != RatingUnset {
			factors[d] = e.scale.Value(rating)
		}
	}
	return factors
}

// Score computes the weighted score of c.
func (e *Engine) Score(c Candidate, weights WeightConfig) float64 {
	return CalculateMetric(e.Factors(c.RankRatings()), weights)
}

// MaxScore is the score of a seed rated very_high on every dimension.
func (e *Engine) MaxScore(weights WeightConfig) float64 {
	return e.scale.VeryHigh * float64(weights.Sum())
}

// Explain returns the per-dimension breakdown behind Score. When the
// candidate carries ROI amounts the ROI percentage is reported alongside,
// never mixed into the total.
func (e *Engine) Explain(c Candidate, weights WeightConfig) ScoringResult {
	ratings := c.RankRatings()
	result := ScoringResult{
		MaxScore: e.MaxScore(weights),
		Factors:  make([]FactorResult, 0, NumDimensions),
	}

	for _, d := range Dimensions() {
		f := FactorResult{
			Name:   d.Key(),
			Weight: weights.Get(d),
			Reason: "unset",
		}
		if rating := ratings.Get(d); rating != RatingUnset {
			f.Rating = rating
			f.Score = e.scale.Value(rating)
			f.Available = true
			f.Reason = "rated " + string(rating)
		}
		f.Weighted = f.Score * float64(f.Weight)
		result.TotalScore += f.Weighted
		result.Factors = append(result.Factors, f)
	}

	if ri, ok := c.(ROIInputs); ok {
		gained, spent := ri.ROIAmounts()
		if gained != nil && spent != nil {
			if roi, err := CalculateROI(*gained, *spent); err == nil {
				result.ROI = &roi
			}
		}
	}

	return result
}
