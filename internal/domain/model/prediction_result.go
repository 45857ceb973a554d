package model

import (
	"strings"

	"github.com/Gameto2025/Banco-Alura/internal/domain/valueobject"
)

// FactorSeparator joins key factors for display and persistence.
const FactorSeparator = " | "

// Outcome labels for the churn decision.
const (
	OutcomeChurn   = "Churn"
	OutcomeNoChurn = "No Churn"
)

// PredictionResult is the immutable outcome of scoring one customer.
type PredictionResult struct {
	tier           valueobject.RiskTier
	recommendation string
	colorCode      string
	keyFactors     []string
	probability    valueobject.Probability
	churnDecision  bool
}

// NewPredictionResult assembles a result. The factor slice is copied.
func NewPredictionResult(
	probability valueobject.Probability,
	tier valueobject.RiskTier,
	churnDecision bool,
	keyFactors []string,
	recommendation string,
	colorCode string,
) PredictionResult {
	factors := make([]string, len(keyFactors))
	copy(factors, keyFactors)

	return PredictionResult{
		probability:    probability,
		tier:           tier,
		churnDecision:  churnDecision,
		keyFactors:     factors,
		recommendation: recommendation,
		colorCode:      colorCode,
	}
}

func (r PredictionResult) Probability() valueobject.Probability { return r.probability }
func (r PredictionResult) Tier() valueobject.RiskTier           { return r.tier }
func (r PredictionResult) ChurnDecision() bool                  { return r.churnDecision }
func (r PredictionResult) Recommendation() string               { return r.recommendation }
func (r PredictionResult) ColorCode() string                    { return r.colorCode }

// KeyFactors returns a copy of the ordered factor list.
func (r PredictionResult) KeyFactors() []string {
	factors := make([]string, len(r.keyFactors))
	copy(factors, r.keyFactors)
	return factors
}

// JoinedFactors returns the factors joined with FactorSeparator.
func (r PredictionResult) JoinedFactors() string {
	return strings.Join(r.keyFactors, FactorSeparator)
}

// Outcome returns the human label of the churn decision.
func (r PredictionResult) Outcome() string {
	if r.churnDecision {
		return OutcomeChurn
	}
	return OutcomeNoChurn
}

// SplitFactors reverses JoinedFactors.
func SplitFactors(joined string) []string {
	if joined == "" {
		return []string{}
	}
	return strings.Split(joined, FactorSeparator)
}
