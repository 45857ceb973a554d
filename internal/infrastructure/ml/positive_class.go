package ml

import (
	"fmt"
	"strings"

	"github.com/Gameto2025/Banco-Alura/internal/infrastructure/ml/pmml"
)

// positiveLabels are the target labels recognised as "customer churns", compared case-insensitively.
var positiveLabels = map[string]struct{}{
	"1":     {},
	"1.0":   {},
	"true":  {},
	"churn": {},
}

// positiveClassProbability extracts the churn probability from a model result.
// A distribution yields the probability of the first recognised positive label,
// or of its last category when no label is recognised. A bare number is returned as is.
func positiveClassProbability(v pmml.Value) (float64, string, error) {
	if !v.IsDistribution() {
		return v.Numeric(), "", nil
	}

	cats := v.Categories()
	if len(cats) == 0 {
		return 0, "", fmt.Errorf("model returned an empty distribution")
	}
	for _, c := range cats {
		if _, ok := positiveLabels[strings.ToLower(strings.TrimSpace(c.Label))]; ok {
			return c.Probability, c.Label, nil
		}
	}
	last := cats[len(cats)-1]
	return last.Probability, last.Label, nil
}
