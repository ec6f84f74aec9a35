package scoring

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Strategy selects how a collection of seeds is ordered.
type Strategy string

const (
	StrategyName   Strategy = "name"
	StrategyMetric Strategy = "metric"
)

// ParseStrategy resolves a strategy key. "score" is accepted as an alias
// of "metric".
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "name", "title":
		return StrategyName, nil
	case "metric", "score":
		return StrategyMetric, nil
	}
	return "", fmt.Errorf("%w: unknown ranking strategy %q", ErrInvalidArgument, s)
}

// Direction is the sort order of a ranking.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// ParseDirection resolves "asc"/"ascending" and "desc"/"descending".
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return "", fmt.Errorf("%w: unknown sort direction %q", ErrInvalidArgument, s)
}

// Scored pairs a seed with its computed score.
type Scored[T Candidate] struct {
	Idea  T       `json:"idea"`
	Score float64 `json:"score"`
}

// RankOptions carries what the strategies need besides the seeds.
type RankOptions struct {
	Engine  *Engine
	Weights WeightConfig
	Locale  language.Tag
}

// ScoreAll scores every seed, preserving input order.
func ScoreAll[T Candidate](ideas []T, e *Engine, weights WeightConfig) []Scored[T] {
	out := make([]Scored[T], len(ideas))
	for i, idea := range ideas {
		out[i] = Scored[T]{Idea: idea, Score: e.Score(idea, weights)}
	}
	return out
}

// SortByName returns a new slice ordered by title using case-insensitive
// collation for the given locale. Equal titles keep their input order.
func SortByName[T Candidate](ideas []T, dir Direction, locale language.Tag) []T {
	out := make([]T, len(ideas))
	copy(out, ideas)

	col := collate.New(locale, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		c := col.CompareString(out[i].RankTitle(), out[j].RankTitle())
		if dir == Descending {
			return c > 0
		}
		return c < 0
	})
	return out
}

// SortByMetric scores a copy of ideas and orders it by score. Ties keep
// their input order.
func SortByMetric[T Candidate](ideas []T, dir Direction, e *Engine, weights WeightConfig) []Scored[T] {
	out := ScoreAll(ideas, e, weights)
	sort.SliceStable(out, func(i, j int) bool {
		if dir == Descending {
			return out[i].Score > out[j].Score
		}
		return out[i].Score < out[j].Score
	})
	return out
}

// Rank orders ideas with the selected strategy. Both strategies return
// scored entries so callers can display scores regardless of order.
func Rank[T Candidate](strategy Strategy, dir Direction, ideas []T, opts RankOptions) ([]Scored[T], error) {
	if dir != Ascending && dir != Descending {
		return nil, fmt.Errorf("%w: unknown sort direction %q", ErrInvalidArgument, dir)
	}
	if opts.Engine == nil {
		opts.Engine = NewEngine(DefaultRatingScale())
	}

	switch strategy {
	case StrategyName:
		sorted := SortByName(ideas, dir, opts.Locale)
		return ScoreAll(sorted, opts.Engine, opts.Weights), nil
	case StrategyMetric:
		return SortByMetric(ideas, dir, opts.Engine, opts.Weights), nil
	default:
		return nil, fmt.Errorf("%w: unknown ranking strategy %q", ErrInvalidArgument, strategy)
	}
}
