package pmml

import "strconv"

// Category is one entry of a classification distribution.
type Category struct {
	Label       string
	Probability float64
}

// Value is the result of evaluating a model: either a category distribution
// (classification) or a single number (regression).
type Value struct {
	categories     []Category
	numeric        float64
	isDistribution bool
}

// DistributionValue wraps an ordered category distribution.
func DistributionValue(categories []Category) Value {
	c := make([]Category, len(categories))
	copy(c, categories)
	return Value{categories: c, isDistribution: true}
}

// NumericValue wraps a regression output.
func NumericValue(v float64) Value {
	return Value{numeric: v}
}

// IsDistribution reports whether the value carries categories.
func (v Value) IsDistribution() bool { return v.isDistribution }

// Numeric returns the regression output. It is 0 for distributions.
func (v Value) Numeric() float64 { return v.numeric }

// Categories returns a copy of the distribution in the model's enumeration order.
func (v Value) Categories() []Category {
	c := make([]Category, len(v.categories))
	copy(c, v.categories)
	return c
}

// Winner returns the most probable category. Ties resolve to the earliest one.
func (v Value) Winner() (Category, bool) {
	if len(v.categories) == 0 {
		return Category{}, false
	}
	best := v.categories[0]
	for _, c := range v.categories[1:] {
		if c.Probability > best.Probability {
			best = c
		}
	}
	return best, true
}

// formatNumber renders an input value the way PMML compares it against string constants.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// distribution accumulates labelled weights while keeping first-seen order.
type distribution struct {
	index  map[string]int
	labels []string
	mass   []float64
}

func newDistribution() *distribution {
	return &distribution{index: make(map[string]int)}
}

func (d *distribution) add(label string, w float64) {
	i, ok := d.index[label]
	if !ok {
		i = len(d.labels)
		d.index[label] = i
		d.labels = append(d.labels, label)
		d.mass = append(d.mass, 0)
	}
	d.mass[i] += w
}

func (d *distribution) normalized() Value {
	var total float64
	for _, m := range d.mass {
		total += m
	}
	cats := make([]Category, len(d.labels))
	for i, l := range d.labels {
		p := 0.0
		if total > 0 {
			p = d.mass[i] / total
		}
		cats[i] = Category{Label: l, Probability: p}
	}
	return Value{categories: cats, isDistribution: true}
}
