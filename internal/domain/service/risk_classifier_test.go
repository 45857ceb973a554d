package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gameto2025/Banco-Alura/internal/domain/service"
	"github.com/Gameto2025/Banco-Alura/internal/domain/valueobject"
)

func prob(t *testing.T, p float64) valueobject.Probability {
	t.Helper()
	v, err := valueobject.NewProbability(p)
	require.NoError(t, err)
	return v
}

func TestRiskClassifier_Boundaries(t *testing.T) {
	classifier := service.NewRiskClassifier(service.DefaultClassificationPolicy())

	tests := []struct {
		p        float64
		tier     valueobject.RiskTier
		decision bool
	}{
		{0.0, valueobject.RiskTierVeryLow, false},
		{0.2999, valueobject.RiskTierVeryLow, false},
		{0.30, valueobject.RiskTierLow, false},
		{0.5799, valueobject.RiskTierLow, false},
		{0.58, valueobject.RiskTierMedium, true},
		{0.7499, valueobject.RiskTierMedium, true},
		{0.75, valueobject.RiskTierHigh, true},
		{1.0, valueobject.RiskTierHigh, true},
	}

	for _, tt := range tests {
		t.Run(tt.tier.String(), func(t *testing.T) {
			c := classifier.Classify(prob(t, tt.p))
			assert.True(t, tt.tier.Equal(c.Tier), "p=%v got %s", tt.p, c.Tier)
			assert.Equal(t, tt.decision, c.ChurnDecision, "p=%v", tt.p)
			assert.Equal(t, tt.tier.ColorCode(), c.ColorCode)
			assert.Equal(t, tt.tier.Recommendation(), c.Recommendation)
		})
	}
}

func TestRiskClassifier_Monotonic(t *testing.T) {
	classifier := service.NewRiskClassifier(service.DefaultClassificationPolicy())

	prev := -1
	for i := 0; i <= 1000; i++ {
		p := float64(i) / 1000
		c := classifier.Classify(prob(t, p))
		require.GreaterOrEqual(t, c.Tier.Rank(), prev, "tier decreased at p=%v", p)
		require.Equal(t, p >= 0.58, c.ChurnDecision, "decision mismatch at p=%v", p)
		prev = c.Tier.Rank()
	}
}

func TestRiskClassifier_ThresholdIndependentOfTiers(t *testing.T) {
	policy := service.DefaultClassificationPolicy()
	policy.ChurnThreshold = 0.5
	classifier := service.NewRiskClassifier(policy)

	c := classifier.Classify(prob(t, 0.55))
	assert.True(t, c.Tier.Equal(valueobject.RiskTierLow))
	assert.True(t, c.ChurnDecision)
}

func TestClassificationPolicy_Validate(t *testing.T) {
	require.NoError(t, service.DefaultClassificationPolicy().Validate())

	tests := []struct {
		name   string
		mutate func(p *service.ClassificationPolicy)
	}{
		{"unordered boundaries", func(p *service.ClassificationPolicy) { p.MediumFrom = 0.8 }},
		{"equal boundaries", func(p *service.ClassificationPolicy) { p.LowFrom = p.MediumFrom }},
		{"negative low", func(p *service.ClassificationPolicy) { p.LowFrom = -0.1 }},
		{"high above one", func(p *service.ClassificationPolicy) { p.HighFrom = 1.2 }},
		{"threshold above one", func(p *service.ClassificationPolicy) { p.ChurnThreshold = 1.5 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := service.DefaultClassificationPolicy()
			tt.mutate(&p)
			assert.Error(t, p.Validate())
		})
	}
}
