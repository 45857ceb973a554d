package service

import (
	"fmt"

	"github.com/Gameto2025/Banco-Alura/internal/domain/valueobject"
)

// ClassificationPolicy holds the tier boundaries and the churn decision threshold.
// The decision threshold is independent of the tier boundaries even though the
// defaults coincide with the MEDIUM boundary.
type ClassificationPolicy struct {
	HighFrom       float64 `yaml:"high_from"`
	MediumFrom     float64 `yaml:"medium_from"`
	LowFrom        float64 `yaml:"low_from"`
	ChurnThreshold float64 `yaml:"churn_threshold"`
}

// DefaultClassificationPolicy returns the production operating point.
func DefaultClassificationPolicy() ClassificationPolicy {
	return ClassificationPolicy{
		HighFrom:       0.75,
		MediumFrom:     0.58,
		LowFrom:        0.30,
		ChurnThreshold: 0.58,
	}
}

// Validate checks that boundaries are ordered and inside [0, 1].
func (p ClassificationPolicy) Validate() error {
	if p.LowFrom < 0 || p.HighFrom > 1 {
		return fmt.Errorf("tier boundaries must lie within [0, 1]")
	}
	if !(p.LowFrom < p.MediumFrom && p.MediumFrom < p.HighFrom) {
		return fmt.Errorf("tier boundaries must be strictly increasing: low=%v medium=%v high=%v",
			p.LowFrom, p.MediumFrom, p.HighFrom)
	}
	if p.ChurnThreshold < 0 || p.ChurnThreshold > 1 {
		return fmt.Errorf("churn threshold must be between 0 and 1, got %v", p.ChurnThreshold)
	}
	return nil
}

// Classification is the outcome of RiskClassifier.Classify.
type Classification struct {
	Tier           valueobject.RiskTier
	Recommendation string
	ColorCode      string
	ChurnDecision  bool
}

// RiskClassifier maps a churn probability to a tier, decision and recommended action.
type RiskClassifier struct {
	policy ClassificationPolicy
}

// NewRiskClassifier creates a classifier. The policy is expected to be validated.
func NewRiskClassifier(policy ClassificationPolicy) *RiskClassifier {
	return &RiskClassifier{policy: policy}
}

// Policy returns the active classification policy.
func (c *RiskClassifier) Policy() ClassificationPolicy {
	return c.policy
}

// Classify applies the step function. All lower bounds are inclusive.
func (c *RiskClassifier) Classify(p valueobject.Probability) Classification {
	var tier valueobject.RiskTier
	switch {
	case p.AtLeast(c.policy.HighFrom):
		tier = valueobject.RiskTierHigh
	case p.AtLeast(c.policy.MediumFrom):
		tier = valueobject.RiskTierMedium
	case p.AtLeast(c.policy.LowFrom):
		tier = valueobject.RiskTierLow
	default:
		tier = valueobject.RiskTierVeryLow
	}

	return Classification{
		Tier:           tier,
		ChurnDecision:  p.AtLeast(c.policy.ChurnThreshold),
		ColorCode:      tier.ColorCode(),
		Recommendation: tier.Recommendation(),
	}
}
