package pmml

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type xmlNumericPredictor struct {
	Name        string `xml:"name,attr"`
	Exponent    string `xml:"exponent,attr"`
	Coefficient string `xml:"coefficient,attr"`
}

type xmlCategoricalPredictor struct {
	Name        string `xml:"name,attr"`
	Value       string `xml:"value,attr"`
	Coefficient string `xml:"coefficient,attr"`
}

type xmlRegressionTable struct {
	Intercept             string                    `xml:"intercept,attr"`
	TargetCategory        string                    `xml:"targetCategory,attr"`
	NumericPredictors     []xmlNumericPredictor     `xml:"NumericPredictor"`
	CategoricalPredictors []xmlCategoricalPredictor `xml:"CategoricalPredictor"`
}

type xmlRegressionModel struct {
	Output              *xmlOutput           `xml:"Output"`
	FunctionName        string               `xml:"functionName,attr"`
	ModelName           string               `xml:"modelName,attr"`
	NormalizationMethod string               `xml:"normalizationMethod,attr"`
	MiningSchema        xmlMiningSchema      `xml:"MiningSchema"`
	Tables              []xmlRegressionTable `xml:"RegressionTable"`
}

type numericTerm struct {
	field       string
	coefficient float64
	exponent    float64
}

type categoricalTerm struct {
	field       string
	value       string
	coefficient float64
}

type regressionTable struct {
	category    string
	numeric     []numericTerm
	categorical []categoricalTerm
	intercept   float64
}

type regressionModel struct {
	function      string
	normalization string
	tables        []regressionTable
}

func parseNumberAttr(name, s string, fallback float64) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return f, nil
}

func compileRegression(raw *xmlRegressionModel) (*regressionModel, error) {
	m := &regressionModel{function: raw.FunctionName, normalization: raw.NormalizationMethod}
	if m.normalization == "" {
		m.normalization = "none"
	}

	switch m.function {
	case functionRegression:
		if len(raw.Tables) != 1 {
			return nil, fmt.Errorf("regression model needs exactly one table, got %d", len(raw.Tables))
		}
		switch m.normalization {
		case "none", "softmax", "logit", "exp":
		default:
			return nil, fmt.Errorf("unsupported regression normalization %q", m.normalization)
		}
	case functionClassification:
		if len(raw.Tables) < 2 {
			return nil, fmt.Errorf("classification regression needs at least two tables, got %d", len(raw.Tables))
		}
		switch m.normalization {
		case "none", "softmax", "logit", "simplemax", "exp":
		default:
			return nil, fmt.Errorf("unsupported classification normalization %q", m.normalization)
		}
	}

	for i, t := range raw.Tables {
		if m.function == functionClassification && t.TargetCategory == "" {
			return nil, fmt.Errorf("regression table %d has no targetCategory", i)
		}
		intercept, err := parseNumberAttr("intercept", t.Intercept, 0)
		if err != nil {
			return nil, err
		}
		table := regressionTable{category: t.TargetCategory, intercept: intercept}

		for _, np := range t.NumericPredictors {
			coef, err := parseNumberAttr("coefficient", np.Coefficient, math.NaN())
			if err != nil || math.IsNaN(coef) {
				return nil, fmt.Errorf("numeric predictor %s: missing or invalid coefficient", np.Name)
			}
			exp, err := parseNumberAttr("exponent", np.Exponent, 1)
			if err != nil {
				return nil, fmt.Errorf("numeric predictor %s: %w", np.Name, err)
			}
			table.numeric = append(table.numeric, numericTerm{field: np.Name, coefficient: coef, exponent: exp})
		}
		for _, cp := range t.CategoricalPredictors {
			coef, err := parseNumberAttr("coefficient", cp.Coefficient, math.NaN())
			if err != nil || math.IsNaN(coef) {
				return nil, fmt.Errorf("categorical predictor %s: missing or invalid coefficient", cp.Name)
			}
			table.categorical = append(table.categorical, categoricalTerm{field: cp.Name, value: cp.Value, coefficient: coef})
		}
		m.tables = append(m.tables, table)
	}
	return m, nil
}

func (t regressionTable) linear(values map[string]float64) (float64, error) {
	y := t.intercept
	for _, term := range t.numeric {
		v, ok := values[term.field]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrMissingInput, term.field)
		}
		if term.exponent == 1 {
			y += term.coefficient * v
		} else {
			y += term.coefficient * math.Pow(v, term.exponent)
		}
	}
	for _, term := range t.categorical {
		v, ok := values[term.field]
		if !ok {
			return 0, fmt.Errorf("%w: %s", ErrMissingInput, term.field)
		}
		if matchesCategory(v, term.value) {
			y += term.coefficient
		}
	}
	return y, nil
}

func matchesCategory(v float64, category string) bool {
	if n, err := strconv.ParseFloat(strings.TrimSpace(category), 64); err == nil {
		return n == v
	}
	return formatNumber(v) == category
}

func sigmoid(y float64) float64 {
	return 1 / (1 + math.Exp(-y))
}

func (m *regressionModel) evaluate(values map[string]float64) (Value, error) {
	ys := make([]float64, len(m.tables))
	for i, t := range m.tables {
		y, err := t.linear(values)
		if err != nil {
			return Value{}, err
		}
		ys[i] = y
	}

	if m.function == functionRegression {
		y := ys[0]
		switch m.normalization {
		case "softmax", "logit":
			y = sigmoid(y)
		case "exp":
			y = math.Exp(y)
		}
		return NumericValue(y), nil
	}

	probs := make([]float64, len(ys))
	last := len(ys) - 1
	switch m.normalization {
	case "softmax":
		maxY := ys[0]
		for _, y := range ys[1:] {
			maxY = math.Max(maxY, y)
		}
		var sum float64
		for i, y := range ys {
			probs[i] = math.Exp(y - maxY)
			sum += probs[i]
		}
		for i := range probs {
			probs[i] /= sum
		}
	case "simplemax", "exp":
		var sum float64
		for i, y := range ys {
			if m.normalization == "exp" {
				y = math.Exp(y)
			}
			probs[i] = y
			sum += y
		}
		if sum == 0 {
			return Value{}, fmt.Errorf("regression outputs sum to zero")
		}
		for i := range probs {
			probs[i] /= sum
		}
	case "logit", "none":
		var sum float64
		for i := 0; i < last; i++ {
			p := ys[i]
			if m.normalization == "logit" {
				p = sigmoid(p)
			}
			probs[i] = p
			sum += p
		}
		probs[last] = 1 - sum
	}

	cats := make([]Category, len(probs))
	for i, t := range m.tables {
		cats[i] = Category{Label: t.category, Probability: probs[i]}
	}
	return DistributionValue(cats), nil
}

func (m *regressionModel) fields() []string {
	var out []string
	for _, t := range m.tables {
		for _, n := range t.numeric {
			out = append(out, n.field)
		}
		for _, c := range t.categorical {
			out = append(out, c.field)
		}
	}
	return out
}
