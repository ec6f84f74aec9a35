package scoring

import (
	"github.com/montanaflynn/stats"
)

// Summary describes the score distribution of a ranked board.
type Summary struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	P25    float64 `json:"p25"`
	P75    float64 `json:"p75"`
	StdDev float64 `json:"std_dev"`
}

// Summarize computes distribution statistics over the scores. An empty
// input yields a zero Summary. Quartiles use nearest rank so small boards
// still get a value.
func Summarize[T Candidate](scored []Scored[T]) Summary {
	if len(scored) == 0 {
		return Summary{}
	}
	data := make(stats.Float64Data, len(scored))
	for i, s := range scored {
		data[i] = s.Score
	}

	sum := Summary{Count: len(data)}
	sum.Min, _ = data.Min()
	sum.Max, _ = data.Max()
	sum.Mean, _ = data.Mean()
	sum.Median, _ = data.Median()
	sum.P25, _ = data.PercentileNearestRank(25)
	sum.P75, _ = data.PercentileNearestRank(75)
	sum.StdDev, _ = data.StandardDeviation()
	return sum
}
