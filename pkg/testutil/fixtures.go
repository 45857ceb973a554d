package testutil

// Raw scoring requests covering each risk tier of the bundled tree model.
var (
	// InactiveManyProductsClient lands in the HIGH tier.
	InactiveManyProductsClient = map[string]interface{}{
		"age": 45, "numProducts": 3, "isActive": 0, "countryCode": 2,
	}

	// InactiveMidAgeClient lands in the MEDIUM tier.
	InactiveMidAgeClient = map[string]interface{}{
		"age": 52, "numProducts": 2, "isActive": 0, "countryCode": 0,
	}

	// MidAgeRiskCountryClient lands in the LOW tier.
	MidAgeRiskCountryClient = map[string]interface{}{
		"age": 48, "numProducts": 2, "isActive": 1, "countryCode": 2,
	}

	// LoyalClient lands in the VERY_LOW tier.
	LoyalClient = map[string]interface{}{
		"age": 30, "numProducts": 2, "isActive": 1, "countryCode": 0,
	}
)
