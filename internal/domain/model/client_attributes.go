package model

import (
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Defaults applied to attributes that are missing or not numeric.
const (
	DefaultAge         = 0
	DefaultNumProducts = 1
	DefaultIsActive    = 1
	DefaultCountryCode = 0
)

// Attribute keys accepted by ClientAttributesFromMap.
const (
	AttrAge         = "age"
	AttrNumProducts = "numProducts"
	AttrIsActive    = "isActive"
	AttrCountryCode = "countryCode"
)

// ClientAttributes are the raw customer facts a churn score is computed from.
type ClientAttributes struct {
	age         int
	numProducts int
	isActive    int
	countryCode int
}

// NewClientAttributes builds attributes from already-typed values. An isActive value
// other than 0 or 1 is replaced by DefaultIsActive.
func NewClientAttributes(age, numProducts, isActive, countryCode int) ClientAttributes {
	if isActive != 0 && isActive != 1 {
		isActive = DefaultIsActive
	}
	return ClientAttributes{
		age:         age,
		numProducts: numProducts,
		isActive:    isActive,
		countryCode: countryCode,
	}
}

// DefaultClientAttributes returns the attributes used for an empty request.
func DefaultClientAttributes() ClientAttributes {
	return NewClientAttributes(DefaultAge, DefaultNumProducts, DefaultIsActive, DefaultCountryCode)
}

// ClientAttributesFromMap coerces loosely typed input (JSON numbers, numeric strings,
// booleans) into ClientAttributes. Missing, null, non-numeric or out-of-range entries
// fall back to their defaults; coercion never fails.
func ClientAttributesFromMap(raw map[string]interface{}) ClientAttributes {
	return NewClientAttributes(
		intOrDefault(raw, AttrAge, DefaultAge),
		intOrDefault(raw, AttrNumProducts, DefaultNumProducts),
		intOrDefault(raw, AttrIsActive, DefaultIsActive),
		intOrDefault(raw, AttrCountryCode, DefaultCountryCode),
	)
}

// intOrDefault reads one attribute. Strings are parsed as base-10 integers, so
// "045" is 45. Values outside the int32 range fall back like non-numeric input.
func intOrDefault(raw map[string]interface{}, key string, fallback int) int {
	v, ok := raw[key]
	if !ok || v == nil {
		return fallback
	}

	var n int64
	switch x := v.(type) {
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		if err != nil {
			return fallback
		}
		n = parsed
	case float64:
		if !finiteInt32(x) {
			return fallback
		}
		n = int64(x)
	case float32:
		if !finiteInt32(float64(x)) {
			return fallback
		}
		n = int64(x)
	default:
		parsed, err := cast.ToInt64E(v)
		if err != nil {
			return fallback
		}
		n = parsed
	}

	if n < math.MinInt32 || n > math.MaxInt32 {
		return fallback
	}
	return int(n)
}

func finiteInt32(f float64) bool {
	return !math.IsNaN(f) && f >= math.MinInt32 && f <= math.MaxInt32
}

func (a ClientAttributes) Age() int         { return a.age }
func (a ClientAttributes) NumProducts() int { return a.numProducts }
func (a ClientAttributes) IsActive() int    { return a.isActive }
func (a ClientAttributes) CountryCode() int { return a.countryCode }

// Inactive reports whether the customer is flagged as an inactive member.
func (a ClientAttributes) Inactive() bool { return a.isActive == 0 }

// DerivedFeatures are the binary risk indicators computed from ClientAttributes.
type DerivedFeatures struct {
	AgeRisk          int
	InactiveMidAge   int
	ProductsRiskFlag int
	CountryRiskFlag  int
}
