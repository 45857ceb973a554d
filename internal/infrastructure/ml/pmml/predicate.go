package pmml

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// truth is the three-valued logic PMML predicates evaluate to.
type truth int8

const (
	unknown truth = iota
	isFalse
	isTrue
)

func truthOf(b bool) truth {
	if b {
		return isTrue
	}
	return isFalse
}

type predicate interface {
	eval(values map[string]float64) truth
	fields() []string
}

func isPredicateElement(local string) bool {
	switch local {
	case "True", "False", "SimplePredicate", "SimpleSetPredicate", "CompoundPredicate":
		return true
	}
	return false
}

// decodePredicate decodes the predicate element opened by start, consuming it fully.
func decodePredicate(d *xml.Decoder, start xml.StartElement) (predicate, error) {
	switch start.Name.Local {
	case "True":
		return constPredicate(isTrue), d.Skip()
	case "False":
		return constPredicate(isFalse), d.Skip()
	case "SimplePredicate":
		var raw struct {
			Field    string `xml:"field,attr"`
			Operator string `xml:"operator,attr"`
			Value    string `xml:"value,attr"`
		}
		if err := d.DecodeElement(&raw, &start); err != nil {
			return nil, err
		}
		return newSimplePredicate(raw.Field, raw.Operator, raw.Value)
	case "SimpleSetPredicate":
		var raw struct {
			Field           string `xml:"field,attr"`
			BooleanOperator string `xml:"booleanOperator,attr"`
			Array           struct {
				Type    string `xml:"type,attr"`
				Content string `xml:",chardata"`
			} `xml:"Array"`
		}
		if err := d.DecodeElement(&raw, &start); err != nil {
			return nil, err
		}
		return newSetPredicate(raw.Field, raw.BooleanOperator, raw.Array.Content)
	case "CompoundPredicate":
		return decodeCompound(d, start)
	default:
		return nil, fmt.Errorf("unsupported predicate %s", start.Name.Local)
	}
}

func decodeCompound(d *xml.Decoder, start xml.StartElement) (predicate, error) {
	var op string
	for _, a := range start.Attr {
		if a.Name.Local == "booleanOperator" {
			op = a.Value
		}
	}
	switch op {
	case "and", "or", "xor", "surrogate":
	default:
		return nil, fmt.Errorf("unsupported compound operator %q", op)
	}

	p := &compoundPredicate{op: op}
	for {
		tok, err := d.Token()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if !isPredicateElement(t.Name.Local) {
				if err := d.Skip(); err != nil {
					return nil, err
				}
				continue
			}
			child, err := decodePredicate(d, t)
			if err != nil {
				return nil, err
			}
			p.children = append(p.children, child)
		case xml.EndElement:
			if len(p.children) == 0 {
				return nil, fmt.Errorf("compound predicate %q has no operands", op)
			}
			return p, nil
		}
	}
}

type constPredicate truth

func (c constPredicate) eval(map[string]float64) truth { return truth(c) }
func (c constPredicate) fields() []string              { return nil }

type simplePredicate struct {
	field string
	op    string
	raw   string
	num   float64
	isNum bool
}

func newSimplePredicate(field, op, value string) (predicate, error) {
	if field == "" {
		return nil, fmt.Errorf("simple predicate without field")
	}
	p := simplePredicate{field: field, op: op, raw: value}
	if n, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
		p.num, p.isNum = n, true
	}

	switch op {
	case "isMissing", "isNotMissing":
	case "equal", "notEqual":
		if value == "" {
			return nil, fmt.Errorf("predicate on %s: operator %s requires a value", field, op)
		}
	case "lessThan", "lessOrEqual", "greaterThan", "greaterOrEqual":
		if !p.isNum {
			return nil, fmt.Errorf("predicate on %s: operator %s requires a numeric value, got %q", field, op, value)
		}
	default:
		return nil, fmt.Errorf("predicate on %s: unsupported operator %q", field, op)
	}
	return p, nil
}

func (p simplePredicate) eval(values map[string]float64) truth {
	v, ok := values[p.field]
	switch p.op {
	case "isMissing":
		return truthOf(!ok)
	case "isNotMissing":
		return truthOf(ok)
	}
	if !ok {
		return unknown
	}

	switch p.op {
	case "equal":
		return truthOf(p.matches(v))
	case "notEqual":
		return truthOf(!p.matches(v))
	case "lessThan":
		return truthOf(v < p.num)
	case "lessOrEqual":
		return truthOf(v <= p.num)
	case "greaterThan":
		return truthOf(v > p.num)
	case "greaterOrEqual":
		return truthOf(v >= p.num)
	}
	return unknown
}

func (p simplePredicate) matches(v float64) bool {
	if p.isNum {
		return v == p.num
	}
	return formatNumber(v) == p.raw
}

func (p simplePredicate) fields() []string { return []string{p.field} }

type setPredicate struct {
	members map[string]struct{}
	numbers []float64
	field   string
	in      bool
}

func newSetPredicate(field, op, content string) (predicate, error) {
	if field == "" {
		return nil, fmt.Errorf("set predicate without field")
	}
	p := &setPredicate{field: field, members: make(map[string]struct{})}
	switch op {
	case "isIn":
		p.in = true
	case "isNotIn":
	default:
		return nil, fmt.Errorf("set predicate on %s: unsupported operator %q", field, op)
	}

	items, err := splitArray(content)
	if err != nil {
		return nil, fmt.Errorf("set predicate on %s: %w", field, err)
	}
	for _, item := range items {
		p.members[item] = struct{}{}
		if n, err := strconv.ParseFloat(item, 64); err == nil {
			p.numbers = append(p.numbers, n)
		}
	}
	return p, nil
}

func (p *setPredicate) eval(values map[string]float64) truth {
	v, ok := values[p.field]
	if !ok {
		return unknown
	}
	_, found := p.members[formatNumber(v)]
	for _, n := range p.numbers {
		if n == v {
			found = true
			break
		}
	}
	return truthOf(found == p.in)
}

func (p *setPredicate) fields() []string { return []string{p.field} }

type compoundPredicate struct {
	op       string
	children []predicate
}

func (p *compoundPredicate) eval(values map[string]float64) truth {
	switch p.op {
	case "and":
		result := isTrue
		for _, c := range p.children {
			switch c.eval(values) {
			case isFalse:
				return isFalse
			case unknown:
				result = unknown
			}
		}
		return result
	case "or":
		result := isFalse
		for _, c := range p.children {
			switch c.eval(values) {
			case isTrue:
				return isTrue
			case unknown:
				result = unknown
			}
		}
		return result
	case "xor":
		odd := false
		for _, c := range p.children {
			switch c.eval(values) {
			case unknown:
				return unknown
			case isTrue:
				odd = !odd
			}
		}
		return truthOf(odd)
	case "surrogate":
		for _, c := range p.children {
			if t := c.eval(values); t != unknown {
				return t
			}
		}
		return unknown
	}
	return unknown
}

func (p *compoundPredicate) fields() []string {
	var out []string
	for _, c := range p.children {
		out = append(out, c.fields()...)
	}
	return out
}

// splitArray tokenizes PMML array content: whitespace separated, with optional
// double-quoted entries that may contain escaped quotes.
func splitArray(content string) ([]string, error) {
	var (
		items []string
		cur   strings.Builder
	)
	inQuote, escaped, hasToken := false, false, false

	for _, r := range content {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case inQuote && r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
			hasToken = true
		case !inQuote && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			if hasToken {
				items = append(items, cur.String())
				cur.Reset()
				hasToken = false
			}
		default:
			cur.WriteRune(r)
			hasToken = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote in array")
	}
	if hasToken {
		items = append(items, cur.String())
	}
	return items, nil
}
