package service

import "github.com/Gameto2025/Banco-Alura/internal/domain/model"

// Critical age band and product threshold, both inclusive.
const (
	CriticalAgeMin     = 40
	CriticalAgeMax     = 70
	ManyProductsMin    = 3
	SingleProductCount = 1
)

// DefaultHighRiskCountryCode is the country code treated as high risk unless configured otherwise.
const DefaultHighRiskCountryCode = 2

// FeatureDeriver turns raw customer attributes into the binary indicators the model consumes.
type FeatureDeriver struct {
	highRiskCountryCode int
}

// NewFeatureDeriver creates a deriver flagging highRiskCountryCode as a high-risk country.
func NewFeatureDeriver(highRiskCountryCode int) *FeatureDeriver {
	return &FeatureDeriver{highRiskCountryCode: highRiskCountryCode}
}

// HighRiskCountryCode returns the configured high-risk country code.
func (d *FeatureDeriver) HighRiskCountryCode() int {
	return d.highRiskCountryCode
}

// Derive computes the indicators. It is pure and never fails.
func (d *FeatureDeriver) Derive(attrs model.ClientAttributes) model.DerivedFeatures {
	var f model.DerivedFeatures

	if attrs.Age() >= CriticalAgeMin && attrs.Age() <= CriticalAgeMax {
		f.AgeRisk = 1
	}
	if f.AgeRisk == 1 && attrs.Inactive() {
		f.InactiveMidAge = 1
	}
	if attrs.NumProducts() >= ManyProductsMin {
		f.ProductsRiskFlag = 1
	}
	if attrs.CountryCode() == d.highRiskCountryCode {
		f.CountryRiskFlag = 1
	}

	return f
}
