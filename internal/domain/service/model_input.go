package service

import "github.com/Gameto2025/Banco-Alura/internal/domain/model"

// Model field names the churn artifact is trained on.
const (
	FieldAgeRisk          = "Age_Risk"
	FieldInactiveMidAge   = "Inactivo_40_70"
	FieldProductsRiskFlag = "Products_Risk_Flag"
	FieldCountryRiskFlag  = "Country_Risk_Flag"
	FieldNumOfProducts    = "NumOfProducts"
	FieldAge              = "Age"
	FieldIsActiveMember   = "IsActiveMember"
	FieldGeography        = "Geography"
)

// ModelInputVector maps model-declared field names to numeric values.
type ModelInputVector map[string]float64

// NamedFeatures lists every value the scorer knows how to supply, keyed by model field name.
func NamedFeatures(attrs model.ClientAttributes, f model.DerivedFeatures) map[string]float64 {
	return map[string]float64{
		FieldAgeRisk:          float64(f.AgeRisk),
		FieldInactiveMidAge:   float64(f.InactiveMidAge),
		FieldProductsRiskFlag: float64(f.ProductsRiskFlag),
		FieldCountryRiskFlag:  float64(f.CountryRiskFlag),
		FieldNumOfProducts:    float64(attrs.NumProducts()),
		FieldAge:              float64(attrs.Age()),
		FieldIsActiveMember:   float64(attrs.IsActive()),
		FieldGeography:        float64(attrs.CountryCode()),
	}
}

// BuildInputVector produces an entry for every required field. Fields with no known
// value default to 0.
func BuildInputVector(required []string, named map[string]float64) ModelInputVector {
	vec := make(ModelInputVector, len(required))
	for _, field := range required {
		vec[field] = named[field]
	}
	return vec
}
