package pmml

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

type xmlScoreDistribution struct {
	Value       string `xml:"value,attr"`
	RecordCount string `xml:"recordCount,attr"`
	Probability string `xml:"probability,attr"`
}

// xmlNode decodes a tree Node. Predicates are polymorphic, so the element is walked by hand.
type xmlNode struct {
	pred          predicate
	id            string
	score         string
	distributions []xmlScoreDistribution
	children      []*xmlNode
}

func (n *xmlNode) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for _, a := range start.Attr {
		switch a.Name.Local {
		case "id":
			n.id = a.Value
		case "score":
			n.score = a.Value
		}
	}

	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "Node":
				child := &xmlNode{}
				if err := d.DecodeElement(child, &t); err != nil {
					return err
				}
				n.children = append(n.children, child)
			case t.Name.Local == "ScoreDistribution":
				var sd xmlScoreDistribution
				if err := d.DecodeElement(&sd, &t); err != nil {
					return err
				}
				n.distributions = append(n.distributions, sd)
			case isPredicateElement(t.Name.Local):
				if n.pred != nil {
					return fmt.Errorf("node %q has more than one predicate", n.id)
				}
				p, err := decodePredicate(d, t)
				if err != nil {
					return fmt.Errorf("node %q: %w", n.id, err)
				}
				n.pred = p
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

type xmlTreeModel struct {
	Output              *xmlOutput      `xml:"Output"`
	Node                *xmlNode        `xml:"Node"`
	FunctionName        string          `xml:"functionName,attr"`
	ModelName           string          `xml:"modelName,attr"`
	NoTrueChildStrategy string          `xml:"noTrueChildStrategy,attr"`
	MiningSchema        xmlMiningSchema `xml:"MiningSchema"`
}

type treeNode struct {
	pred     predicate
	value    Value
	children []*treeNode
	hasValue bool
}

type treeModel struct {
	root                 *treeNode
	returnLastPrediction bool
}

func compileTree(raw *xmlTreeModel) (*treeModel, error) {
	if raw.Node == nil {
		return nil, fmt.Errorf("tree model has no root node")
	}
	switch raw.NoTrueChildStrategy {
	case "", "returnNullPrediction", "returnLastPrediction":
	default:
		return nil, fmt.Errorf("unsupported noTrueChildStrategy %q", raw.NoTrueChildStrategy)
	}

	root, err := compileNode(raw.Node, raw.FunctionName)
	if err != nil {
		return nil, err
	}
	return &treeModel{
		root:                 root,
		returnLastPrediction: raw.NoTrueChildStrategy == "returnLastPrediction",
	}, nil
}

func compileNode(raw *xmlNode, function string) (*treeNode, error) {
	if raw.pred == nil {
		return nil, fmt.Errorf("node %q has no predicate", raw.id)
	}
	n := &treeNode{pred: raw.pred}

	v, ok, err := nodeValue(raw, function)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", raw.id, err)
	}
	n.value, n.hasValue = v, ok

	for _, c := range raw.children {
		child, err := compileNode(c, function)
		if err != nil {
			return nil, err
		}
		n.children = append(n.children, child)
	}
	if len(n.children) == 0 && !n.hasValue {
		return nil, fmt.Errorf("leaf node %q carries no score", raw.id)
	}
	return n, nil
}

func nodeValue(raw *xmlNode, function string) (Value, bool, error) {
	if function == functionRegression {
		if raw.score == "" {
			return Value{}, false, nil
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(raw.score), 64)
		if err != nil {
			return Value{}, false, fmt.Errorf("non-numeric regression score %q", raw.score)
		}
		return NumericValue(f), true, nil
	}

	if len(raw.distributions) == 0 {
		if raw.score == "" {
			return Value{}, false, nil
		}
		return DistributionValue([]Category{{Label: raw.score, Probability: 1}}), true, nil
	}

	useProbability := false
	for _, sd := range raw.distributions {
		if sd.Probability != "" {
			useProbability = true
			break
		}
	}

	dist := newDistribution()
	for _, sd := range raw.distributions {
		attr := sd.RecordCount
		if useProbability {
			attr = sd.Probability
		}
		w, err := strconv.ParseFloat(strings.TrimSpace(attr), 64)
		if err != nil || w < 0 {
			return Value{}, false, fmt.Errorf("invalid score distribution weight %q for %q", attr, sd.Value)
		}
		dist.add(sd.Value, w)
	}

	var total float64
	for _, m := range dist.mass {
		total += m
	}
	if total <= 0 {
		if raw.score == "" {
			return Value{}, false, fmt.Errorf("score distribution has no mass")
		}
		return DistributionValue([]Category{{Label: raw.score, Probability: 1}}), true, nil
	}
	return dist.normalized(), true, nil
}

func (m *treeModel) evaluate(values map[string]float64) (Value, error) {
	if m.root.pred.eval(values) != isTrue {
		return Value{}, ErrNoPrediction
	}

	node := m.root
	for len(node.children) > 0 {
		var next *treeNode
		for _, c := range node.children {
			if c.pred.eval(values) == isTrue {
				next = c
				break
			}
		}
		if next == nil {
			if m.returnLastPrediction && node.hasValue {
				return node.value, nil
			}
			return Value{}, ErrNoPrediction
		}
		node = next
	}
	return node.value, nil
}

func (m *treeModel) fields() []string {
	var out []string
	var walk func(n *treeNode)
	walk = func(n *treeNode) {
		out = append(out, n.pred.fields()...)
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(m.root)
	return out
}
