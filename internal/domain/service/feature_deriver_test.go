package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Gameto2025/Banco-Alura/internal/domain/model"
	"github.com/Gameto2025/Banco-Alura/internal/domain/service"
)

func TestFeatureDeriver_Derive(t *testing.T) {
	deriver := service.NewFeatureDeriver(service.DefaultHighRiskCountryCode)

	tests := []struct {
		name     string
		attrs    model.ClientAttributes
		expected model.DerivedFeatures
	}{
		{
			name:     "defaults",
			attrs:    model.DefaultClientAttributes(),
			expected: model.DerivedFeatures{},
		},
		{
			name:     "all indicators",
			attrs:    model.NewClientAttributes(45, 4, 0, 2),
			expected: model.DerivedFeatures{AgeRisk: 1, InactiveMidAge: 1, ProductsRiskFlag: 1, CountryRiskFlag: 1},
		},
		{
			name:     "lower age bound inclusive",
			attrs:    model.NewClientAttributes(40, 1, 1, 0),
			expected: model.DerivedFeatures{AgeRisk: 1},
		},
		{
			name:     "upper age bound inclusive",
			attrs:    model.NewClientAttributes(70, 1, 0, 0),
			expected: model.DerivedFeatures{AgeRisk: 1, InactiveMidAge: 1},
		},
		{
			name:     "just outside the band",
			attrs:    model.NewClientAttributes(39, 1, 0, 0),
			expected: model.DerivedFeatures{},
		},
		{
			name:     "above the band",
			attrs:    model.NewClientAttributes(71, 2, 0, 0),
			expected: model.DerivedFeatures{},
		},
		{
			name:     "active member in band is not inactive mid age",
			attrs:    model.NewClientAttributes(55, 2, 1, 0),
			expected: model.DerivedFeatures{AgeRisk: 1},
		},
		{
			name:     "product threshold inclusive",
			attrs:    model.NewClientAttributes(25, 3, 1, 1),
			expected: model.DerivedFeatures{ProductsRiskFlag: 1},
		},
		{
			name:     "high-risk country",
			attrs:    model.NewClientAttributes(25, 2, 1, 2),
			expected: model.DerivedFeatures{CountryRiskFlag: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, deriver.Derive(tt.attrs))
		})
	}
}

func TestFeatureDeriver_IsPure(t *testing.T) {
	deriver := service.NewFeatureDeriver(2)
	attrs := model.NewClientAttributes(61, 3, 0, 2)

	first := deriver.Derive(attrs)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, deriver.Derive(attrs))
	}
}

func TestFeatureDeriver_ConfigurableCountry(t *testing.T) {
	attrs := model.NewClientAttributes(30, 2, 1, 1)

	assert.Equal(t, 0, service.NewFeatureDeriver(2).Derive(attrs).CountryRiskFlag)
	assert.Equal(t, 1, service.NewFeatureDeriver(1).Derive(attrs).CountryRiskFlag)
	assert.Equal(t, 1, service.NewFeatureDeriver(1).HighRiskCountryCode())
}

func TestBuildInputVector(t *testing.T) {
	attrs := model.NewClientAttributes(45, 4, 0, 2)
	features := service.NewFeatureDeriver(2).Derive(attrs)
	named := service.NamedFeatures(attrs, features)

	required := []string{
		service.FieldAgeRisk,
		service.FieldNumOfProducts,
		service.FieldInactiveMidAge,
		service.FieldProductsRiskFlag,
		service.FieldCountryRiskFlag,
		"CreditScore",
	}

	vec := service.BuildInputVector(required, named)

	assert.Len(t, vec, len(required))
	for _, field := range required {
		_, ok := vec[field]
		assert.True(t, ok, "missing field %s", field)
	}
	assert.Equal(t, 1.0, vec[service.FieldAgeRisk])
	assert.Equal(t, 4.0, vec[service.FieldNumOfProducts])
	assert.Equal(t, 1.0, vec[service.FieldInactiveMidAge])
	assert.Equal(t, 1.0, vec[service.FieldProductsRiskFlag])
	assert.Equal(t, 1.0, vec[service.FieldCountryRiskFlag])
	assert.Equal(t, 0.0, vec["CreditScore"])
	_, extra := vec[service.FieldAge]
	assert.False(t, extra, "fields the model does not declare are not sent")
}
