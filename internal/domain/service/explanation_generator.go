package service

import "github.com/Gameto2025/Banco-Alura/internal/domain/model"

// MaxKeyFactors caps the number of factors reported per prediction.
const MaxKeyFactors = 3

// Key factor descriptions, listed in priority order.
const (
	FactorInactiveCriticalAge = "inactive account in critical age band"
	FactorManyProducts        = "many products (3 or more)"
	FactorHighRiskCountry     = "high-risk country"
	FactorLowEngagement       = "low engagement (single product)"
	FactorStableProfile       = "stable profile"
)

// ExplanationGenerator produces the qualitative factors behind a score.
type ExplanationGenerator struct{}

// NewExplanationGenerator creates an ExplanationGenerator.
func NewExplanationGenerator() *ExplanationGenerator {
	return &ExplanationGenerator{}
}

// Explain returns the triggered factors in priority order, truncated to MaxKeyFactors.
// A customer with no triggered factor gets FactorStableProfile.
func (g *ExplanationGenerator) Explain(attrs model.ClientAttributes, f model.DerivedFeatures) []string {
	factors := make([]string, 0, MaxKeyFactors+1)

	if f.InactiveMidAge == 1 {
		factors = append(factors, FactorInactiveCriticalAge)
	}
	if f.ProductsRiskFlag == 1 {
		factors = append(factors, FactorManyProducts)
	}
	if f.CountryRiskFlag == 1 {
		factors = append(factors, FactorHighRiskCountry)
	}
	if attrs.NumProducts() == SingleProductCount {
		factors = append(factors, FactorLowEngagement)
	}

	if len(factors) == 0 {
		return []string{FactorStableProfile}
	}
	if len(factors) > MaxKeyFactors {
		factors = factors[:MaxKeyFactors]
	}
	return factors
}
