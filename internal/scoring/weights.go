package scoring

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
)

// MaxTotalWeight is the ceiling on the sum of a board's weights, in percent.
const MaxTotalWeight = 100

// WeightConfig holds one integer percentage per dimension, indexed by
// Dimension. The sum of all slots never exceeds MaxTotalWeight once it has
// passed through SetWeight.
type WeightConfig [NumDimensions]int

// DefaultWeights returns the distribution a new board starts with.
func DefaultWeights() WeightConfig {
	return WeightConfig{15, 15, 14, 14, 14, 14, 14}
}

// Sum returns the total of all weights.
func (w WeightConfig) Sum() int {
	total := 0
	for _, v := range w {
		total += v
	}
	return total
}

// Get returns the weight of dimension d, or 0 for an invalid dimension.
func (w WeightConfig) Get(d Dimension) int {
	if !d.Valid() {
		return 0
	}
	return w[d]
}

// Validate checks that every slot is in [0,100] and the total is at most 100.
func (w WeightConfig) Validate() error {
	for i, v := range w {
		if v < 0 || v > MaxTotalWeight {
			return fmt.Errorf("weight %s=%d out of range [0,%d]", Dimension(i).Key(), v, MaxTotalWeight)
		}
	}
	if w.Sum() > MaxTotalWeight {
		return fmt.Errorf("weights sum to %d, must not exceed %d", w.Sum(), MaxTotalWeight)
	}
	return nil
}

// SetWeight returns a copy of w with slot index set to requested. The
// requested value is rounded and clamped to [0,100] (NaN and infinities
// become 0). When the new total would exceed 100 the excess is taken from
// the other slots, largest first with ties broken by slot order. Only if
// every other slot is already 0 is the target itself reduced.
func (w WeightConfig) SetWeight(index int, requested float64) (WeightConfig, error) {
	if index < 0 || index >= NumDimensions {
		return w, fmt.Errorf("%w: weight index %d out of range [0,%d]", ErrInvalidArgument, index, NumDimensions-1)
	}

	target := clampPercent(requested)

	sumOthers := 0
	others := make([]int, 0, NumDimensions-1)
	for i, v := range w {
		if i == index {
			continue
		}
		sumOthers += v
		others = append(others, i)
	}

	out := w
	if sumOthers+target <= MaxTotalWeight {
		out[index] = target
		return out, nil
	}

	over := sumOthers + target - MaxTotalWeight
	sort.SliceStable(others, func(a, b int) bool {
		return out[others[a]] > out[others[b]]
	})
	for _, i := range others {
		if over == 0 {
			break
		}
		take := min(over, out[i])
		out[i] -= take
		over -= take
	}
	if over > 0 {
		target = max(target-over, 0)
	}

	out[index] = target
	for i := range out {
		out[i] = min(max(out[i], 0), MaxTotalWeight)
	}
	return out, nil
}

// SetWeightByKey resolves a dimension key or index and calls SetWeight.
func (w WeightConfig) SetWeightByKey(key string, requested float64) (WeightConfig, error) {
	d, err := ParseDimension(key)
	if err != nil {
		return w, err
	}
	return w.SetWeight(int(d), requested)
}

// clampPercent rounds v to the nearest integer within [0,100].
func clampPercent(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	r := math.Round(v)
	if r < 0 {
		return 0
	}
	if r > MaxTotalWeight {
		return MaxTotalWeight
	}
	return int(r)
}

// MarshalJSON encodes the weights as an object keyed by dimension.
func (w WeightConfig) MarshalJSON() ([]byte, error) {
	m := make(map[string]int, NumDimensions)
	for i, v := range w {
		m[dimensionKeys[i]] = v
	}
	return json.Marshal(m)
}

// UnmarshalJSON accepts an object keyed by dimension; missing keys are 0.
func (w *WeightConfig) UnmarshalJSON(data []byte) error {
	var m map[string]int
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}
	var out WeightConfig
	for k, v := range m {
		d, err := ParseDimension(k)
		if err != nil {
			return err
		}
		out[d] = v
	}
	*w = out
	return nil
}
