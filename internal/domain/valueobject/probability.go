package valueobject

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Probability is a churn likelihood in the closed interval [0, 1].
type Probability struct {
	value float64
}

// NewProbability validates p and wraps it. NaN, infinities and values outside [0, 1] are rejected.
func NewProbability(p float64) (Probability, error) {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return Probability{}, fmt.Errorf("probability must be finite, got %v", p)
	}
	if p < 0 || p > 1 {
		return Probability{}, fmt.Errorf("probability must be between 0 and 1, got %v", p)
	}
	return Probability{value: p}, nil
}

// Float64 returns the raw probability.
func (p Probability) Float64() float64 {
	return p.value
}

// AtLeast reports whether the probability meets or exceeds threshold.
func (p Probability) AtLeast(threshold float64) bool {
	return p.value >= threshold
}

// Percent renders the probability as a percentage rounded to two decimals, e.g. "92.00%".
func (p Probability) Percent() string {
	return decimal.NewFromFloat(p.value).Shift(2).StringFixed(2) + "%"
}
