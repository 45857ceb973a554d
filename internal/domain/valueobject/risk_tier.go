package valueobject

import "fmt"

// RiskTier is an immutable value object representing the churn risk band of a customer.
type RiskTier struct {
	value string
}

var (
	RiskTierVeryLow = RiskTier{value: "VERY_LOW"}
	RiskTierLow     = RiskTier{value: "LOW"}
	RiskTierMedium  = RiskTier{value: "MEDIUM"}
	RiskTierHigh    = RiskTier{value: "HIGH"}
)

// RiskTierFromString reconstructs a RiskTier from its string representation.
func RiskTierFromString(s string) (RiskTier, error) {
	switch s {
	case "VERY_LOW":
		return RiskTierVeryLow, nil
	case "LOW":
		return RiskTierLow, nil
	case "MEDIUM":
		return RiskTierMedium, nil
	case "HIGH":
		return RiskTierHigh, nil
	default:
		return RiskTier{}, fmt.Errorf("invalid risk tier: %s", s)
	}
}

// String returns the string representation.
func (r RiskTier) String() string {
	return r.value
}

// Rank orders tiers from VERY_LOW (0) to HIGH (3). The zero tier ranks -1.
func (r RiskTier) Rank() int {
	switch r.value {
	case "VERY_LOW":
		return 0
	case "LOW":
		return 1
	case "MEDIUM":
		return 2
	case "HIGH":
		return 3
	default:
		return -1
	}
}

// ColorCode returns the display color associated with the tier.
func (r RiskTier) ColorCode() string {
	switch r.value {
	case "HIGH":
		return "#dc3545"
	case "MEDIUM":
		return "#fd7e14"
	case "LOW":
		return "#20c997"
	case "VERY_LOW":
		return "#0d6efd"
	default:
		return ""
	}
}

// Recommendation returns the retention action suggested for the tier.
func (r RiskTier) Recommendation() string {
	switch r.value {
	case "HIGH":
		return "Contact immediately"
	case "MEDIUM":
		return "Send personalized incentive"
	case "LOW":
		return "Normal follow-up"
	case "VERY_LOW":
		return "Loyal customer"
	default:
		return ""
	}
}

// IsZero returns true if the RiskTier has not been set.
func (r RiskTier) IsZero() bool {
	return r.value == ""
}

// Equal checks equality with another RiskTier.
func (r RiskTier) Equal(other RiskTier) bool {
	return r.value == other.value
}
