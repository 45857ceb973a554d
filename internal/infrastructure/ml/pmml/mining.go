package pmml

import (
	"encoding/xml"
	"fmt"
)

// xmlSegment decodes a Segment, which pairs a predicate with a nested model.
type xmlSegment struct {
	pred        predicate
	id          string
	weight      string
	tree        *xmlTreeModel
	regression  *xmlRegressionModel
	mining      *xmlMiningModel
	modelsCount int
}

func (s *xmlSegment) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "id":
			s.id = a.Value
		case "weight":
			s.weight = a.Value
		}
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "TreeModel":
				s.tree = &xmlTreeModel{}
				s.modelsCount++
				if err := d.DecodeElement(s.tree, &t); err != nil {
					return err
				}
			case "RegressionModel":
				s.regression = &xmlRegressionModel{}
				s.modelsCount++
				if err := d.DecodeElement(s.regression, &t); err != nil {
					return err
				}
			case "MiningModel":
				s.mining = &xmlMiningModel{}
				s.modelsCount++
				if err := d.DecodeElement(s.mining, &t); err != nil {
					return err
				}
			default:
				if isPredicateElement(t.Name.Local) {
					p, err := decodePredicate(d, t)
					if err != nil {
						return fmt.Errorf("segment %q: %w", s.id, err)
					}
					s.pred = p
					continue
				}
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

type xmlSegmentation struct {
	MultipleModelMethod string       `xml:"multipleModelMethod,attr"`
	Segments            []xmlSegment `xml:"Segment"`
}

type xmlMiningModel struct {
	Output       *xmlOutput       `xml:"Output"`
	Segmentation *xmlSegmentation `xml:"Segmentation"`
	FunctionName string           `xml:"functionName,attr"`
	ModelName    string           `xml:"modelName,attr"`
	MiningSchema xmlMiningSchema  `xml:"MiningSchema"`
}

type segment struct {
	pred   predicate
	model  model
	weight float64
}

type miningModel struct {
	function string
	method   string
	segments []segment
}

func compileMining(raw *xmlMiningModel) (*miningModel, error) {
	if raw.Segmentation == nil || len(raw.Segmentation.Segments) == 0 {
		return nil, fmt.Errorf("mining model has no segments")
	}
	m := &miningModel{function: raw.FunctionName, method: raw.Segmentation.MultipleModelMethod}

	switch m.method {
	case "selectFirst":
	case "average", "weightedAverage":
	case "majorityVote", "weightedMajorityVote":
		if m.function != functionClassification {
			return nil, fmt.Errorf("%s requires a classification mining model", m.method)
		}
	case "sum":
		if m.function != functionRegression {
			return nil, fmt.Errorf("sum requires a regression mining model")
		}
	default:
		return nil, fmt.Errorf("unsupported multipleModelMethod %q", m.method)
	}

	for i := range raw.Segmentation.Segments {
		rs := &raw.Segmentation.Segments[i]
		if rs.pred == nil {
			return nil, fmt.Errorf("segment %q has no predicate", rs.id)
		}
		if rs.modelsCount != 1 {
			return nil, fmt.Errorf("segment %q must contain exactly one model, got %d", rs.id, rs.modelsCount)
		}
		weight, err := parseNumberAttr("weight", rs.weight, 1)
		if err != nil {
			return nil, fmt.Errorf("segment %q: %w", rs.id, err)
		}

		var nested model
		var fn string
		switch {
		case rs.tree != nil:
			fn = rs.tree.FunctionName
			nested, err = compileTree(rs.tree)
		case rs.regression != nil:
			fn = rs.regression.FunctionName
			nested, err = compileRegression(rs.regression)
		default:
			fn = rs.mining.FunctionName
			nested, err = compileMining(rs.mining)
		}
		if err != nil {
			return nil, fmt.Errorf("segment %q: %w", rs.id, err)
		}
		if fn != m.function {
			return nil, fmt.Errorf("segment %q: function %q does not match mining model function %q", rs.id, fn, m.function)
		}
		m.segments = append(m.segments, segment{pred: rs.pred, model: nested, weight: weight})
	}
	return m, nil
}

func (m *miningModel) evaluate(values map[string]float64) (Value, error) {
	var (
		dist        = newDistribution()
		sum         float64
		totalWeight float64
		selected    int
	)

	for _, s := range m.segments {
		if s.pred.eval(values) != isTrue {
			continue
		}
		v, err := s.model.evaluate(values)
		if err != nil {
			return Value{}, err
		}
		if m.method == "selectFirst" {
			return v, nil
		}
		selected++

		w := 1.0
		if m.method == "weightedAverage" || m.method == "weightedMajorityVote" {
			w = s.weight
		}
		totalWeight += w

		if m.function == functionRegression {
			if v.IsDistribution() {
				return Value{}, fmt.Errorf("segment produced a distribution in a regression ensemble")
			}
			sum += w * v.Numeric()
			continue
		}

		if !v.IsDistribution() {
			return Value{}, fmt.Errorf("segment produced a number in a classification ensemble")
		}
		switch m.method {
		case "majorityVote", "weightedMajorityVote":
			if winner, ok := v.Winner(); ok {
				dist.add(winner.Label, w)
			}
		default:
			for _, c := range v.Categories() {
				dist.add(c.Label, w*c.Probability)
			}
		}
	}

	if selected == 0 {
		return Value{}, ErrNoPrediction
	}

	if m.function == functionRegression {
		if m.method == "sum" {
			return NumericValue(sum), nil
		}
		if totalWeight == 0 {
			return Value{}, fmt.Errorf("segment weights sum to zero")
		}
		return NumericValue(sum / totalWeight), nil
	}
	return dist.normalized(), nil
}

func (m *miningModel) fields() []string {
	var out []string
	for _, s := range m.segments {
		out = append(out, s.pred.fields()...)
		out = append(out, s.model.fields()...)
	}
	return out
}
