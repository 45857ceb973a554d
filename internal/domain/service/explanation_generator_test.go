package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Gameto2025/Banco-Alura/internal/domain/model"
	"github.com/Gameto2025/Banco-Alura/internal/domain/service"
)

func TestExplanationGenerator_Explain(t *testing.T) {
	deriver := service.NewFeatureDeriver(2)
	gen := service.NewExplanationGenerator()

	tests := []struct {
		name     string
		attrs    model.ClientAttributes
		expected []string
	}{
		{
			name:     "stable profile",
			attrs:    model.NewClientAttributes(30, 2, 1, 0),
			expected: []string{service.FactorStableProfile},
		},
		{
			name:  "all conditions truncated to three in priority order",
			attrs: model.NewClientAttributes(45, 4, 0, 2),
			expected: []string{
				service.FactorInactiveCriticalAge,
				service.FactorManyProducts,
				service.FactorHighRiskCountry,
			},
		},
		{
			name:  "single product drops to last",
			attrs: model.NewClientAttributes(50, 1, 0, 2),
			expected: []string{
				service.FactorInactiveCriticalAge,
				service.FactorHighRiskCountry,
				service.FactorLowEngagement,
			},
		},
		{
			name:     "single product only",
			attrs:    model.NewClientAttributes(25, 1, 1, 0),
			expected: []string{service.FactorLowEngagement},
		},
		{
			name:     "empty request defaults to a single product",
			attrs:    model.DefaultClientAttributes(),
			expected: []string{service.FactorLowEngagement},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factors := gen.Explain(tt.attrs, deriver.Derive(tt.attrs))
			assert.Equal(t, tt.expected, factors)
			assert.LessOrEqual(t, len(factors), service.MaxKeyFactors)
		})
	}
}

func TestExplanationGenerator_NeverExceedsLimit(t *testing.T) {
	deriver := service.NewFeatureDeriver(2)
	gen := service.NewExplanationGenerator()

	for age := 0; age <= 100; age += 5 {
		for products := 0; products <= 5; products++ {
			for active := 0; active <= 1; active++ {
				for country := 0; country <= 3; country++ {
					attrs := model.NewClientAttributes(age, products, active, country)
					factors := gen.Explain(attrs, deriver.Derive(attrs))
					require.NotEmpty(t, factors)
					require.LessOrEqual(t, len(factors), service.MaxKeyFactors)
				}
			}
		}
	}
}
