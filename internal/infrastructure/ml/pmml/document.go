// Package pmml parses and evaluates the subset of PMML 4.x used by the churn model:
// TreeModel, RegressionModel and MiningModel segmentations over numeric inputs.
package pmml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
)

const (
	functionClassification = "classification"
	functionRegression     = "regression"
)

var (
	// ErrNoPrediction is returned when the model yields no result for the given input.
	ErrNoPrediction = errors.New("pmml: model produced no prediction")

	// ErrMissingInput is returned when an input required by a predictor is absent.
	ErrMissingInput = errors.New("pmml: missing input value")
)

type xmlHeader struct {
	Copyright   string `xml:"copyright,attr"`
	Description string `xml:"description,attr"`
	Application struct {
		Name    string `xml:"name,attr"`
		Version string `xml:"version,attr"`
	} `xml:"Application"`
}

type xmlDataField struct {
	Name     string `xml:"name,attr"`
	OpType   string `xml:"optype,attr"`
	DataType string `xml:"dataType,attr"`
	Values   []struct {
		Value string `xml:"value,attr"`
	} `xml:"Value"`
}

type xmlMiningField struct {
	Name      string `xml:"name,attr"`
	UsageType string `xml:"usageType,attr"`
}

type xmlMiningSchema struct {
	Fields []xmlMiningField `xml:"MiningField"`
}

type xmlOutputField struct {
	Name    string `xml:"name,attr"`
	Feature string `xml:"feature,attr"`
	Value   string `xml:"value,attr"`
}

type xmlOutput struct {
	Fields []xmlOutputField `xml:"OutputField"`
}

type xmlPMML struct {
	XMLName          xml.Name             `xml:"PMML"`
	Version          string               `xml:"version,attr"`
	Header           xmlHeader            `xml:"Header"`
	DataFields       []xmlDataField       `xml:"DataDictionary>DataField"`
	TreeModels       []xmlTreeModel       `xml:"TreeModel"`
	RegressionModels []xmlRegressionModel `xml:"RegressionModel"`
	MiningModels     []xmlMiningModel     `xml:"MiningModel"`
}

type model interface {
	evaluate(values map[string]float64) (Value, error)
	fields() []string
}

// OutputField describes a field the model declares in its Output section.
type OutputField struct {
	Name    string
	Feature string
	Value   string
}

// Document is a parsed and verified PMML model. It is immutable and safe for
// concurrent evaluation.
type Document struct {
	model            model
	version          string
	modelType        string
	modelName        string
	functionName     string
	application      string
	targetField      string
	activeFields     []string
	targetCategories []string
	outputFields     []OutputField
}

// Parse reads a PMML document and verifies that it can be evaluated.
func Parse(r io.Reader) (*Document, error) {
	var raw xmlPMML
	if err := xml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("pmml: failed to decode document: %w", err)
	}

	count := len(raw.TreeModels) + len(raw.RegressionModels) + len(raw.MiningModels)
	if count != 1 {
		return nil, fmt.Errorf("pmml: expected exactly one top-level model, found %d", count)
	}

	doc := &Document{
		version:     raw.Version,
		application: raw.Header.Application.Name,
	}

	var (
		schema xmlMiningSchema
		output *xmlOutput
		err    error
	)
	switch {
	case len(raw.TreeModels) == 1:
		m := &raw.TreeModels[0]
		doc.modelType, doc.modelName, doc.functionName = "TreeModel", m.ModelName, m.FunctionName
		schema, output = m.MiningSchema, m.Output
		if err = checkFunction(m.FunctionName); err == nil {
			doc.model, err = compileTree(m)
		}
	case len(raw.RegressionModels) == 1:
		m := &raw.RegressionModels[0]
		doc.modelType, doc.modelName, doc.functionName = "RegressionModel", m.ModelName, m.FunctionName
		schema, output = m.MiningSchema, m.Output
		if err = checkFunction(m.FunctionName); err == nil {
			doc.model, err = compileRegression(m)
		}
	default:
		m := &raw.MiningModels[0]
		doc.modelType, doc.modelName, doc.functionName = "MiningModel", m.ModelName, m.FunctionName
		schema, output = m.MiningSchema, m.Output
		if err = checkFunction(m.FunctionName); err == nil {
			doc.model, err = compileMining(m)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("pmml: invalid %s: %w", doc.modelType, err)
	}

	if err := doc.bindSchema(raw.DataFields, schema, output); err != nil {
		return nil, fmt.Errorf("pmml: invalid %s: %w", doc.modelType, err)
	}
	return doc, nil
}

func checkFunction(fn string) error {
	switch fn {
	case functionClassification, functionRegression:
		return nil
	default:
		return fmt.Errorf("unsupported functionName %q", fn)
	}
}

func (d *Document) bindSchema(dataFields []xmlDataField, schema xmlMiningSchema, output *xmlOutput) error {
	dict := make(map[string]xmlDataField, len(dataFields))
	for _, f := range dataFields {
		dict[f.Name] = f
	}

	active := make(map[string]struct{})
	for _, mf := range schema.Fields {
		df, ok := dict[mf.Name]
		if !ok {
			return fmt.Errorf("mining field %q is not declared in the data dictionary", mf.Name)
		}
		switch mf.UsageType {
		case "", "active":
			d.activeFields = append(d.activeFields, mf.Name)
			active[mf.Name] = struct{}{}
		case "target", "predicted":
			if d.targetField != "" {
				return fmt.Errorf("more than one target field: %q and %q", d.targetField, mf.Name)
			}
			d.targetField = mf.Name
			for _, v := range df.Values {
				d.targetCategories = append(d.targetCategories, v.Value)
			}
		case "supplementary", "group", "order", "frequencyWeight", "analysisWeight":
		default:
			return fmt.Errorf("mining field %q has unsupported usageType %q", mf.Name, mf.UsageType)
		}
	}

	if len(d.activeFields) == 0 {
		return fmt.Errorf("model declares no active input fields")
	}
	if d.functionName == functionClassification && d.targetField == "" {
		return fmt.Errorf("classification model declares no target field")
	}

	for _, f := range d.model.fields() {
		if _, ok := active[f]; !ok {
			return fmt.Errorf("model references field %q which is not an active mining field", f)
		}
	}

	if output != nil {
		for _, of := range output.Fields {
			d.outputFields = append(d.outputFields, OutputField{Name: of.Name, Feature: of.Feature, Value: of.Value})
		}
	}
	return nil
}

// Evaluate runs the model. Classification results are ordered by the target
// field's enumeration in the data dictionary, with undeclared labels appended.
func (d *Document) Evaluate(values map[string]float64) (Value, error) {
	v, err := d.model.evaluate(values)
	if err != nil {
		return Value{}, err
	}
	if !v.IsDistribution() || len(d.targetCategories) == 0 {
		return v, nil
	}

	probs := make(map[string]float64, len(v.categories))
	declared := make(map[string]struct{}, len(d.targetCategories))
	for _, c := range v.categories {
		probs[c.Label] += c.Probability
	}
	ordered := make([]Category, 0, len(d.targetCategories))
	for _, label := range d.targetCategories {
		declared[label] = struct{}{}
		ordered = append(ordered, Category{Label: label, Probability: probs[label]})
	}
	for _, c := range v.categories {
		if _, ok := declared[c.Label]; !ok {
			ordered = append(ordered, c)
		}
	}
	return Value{categories: ordered, isDistribution: true}, nil
}

// ActiveFields returns the model's input fields in declaration order.
func (d *Document) ActiveFields() []string {
	out := make([]string, len(d.activeFields))
	copy(out, d.activeFields)
	return out
}

// OutputFields returns the declared output fields.
func (d *Document) OutputFields() []OutputField {
	out := make([]OutputField, len(d.outputFields))
	copy(out, d.outputFields)
	return out
}

// TargetCategories returns the target field's enumerated values, if any.
func (d *Document) TargetCategories() []string {
	out := make([]string, len(d.targetCategories))
	copy(out, d.targetCategories)
	return out
}

func (d *Document) TargetField() string  { return d.targetField }
func (d *Document) FunctionName() string { return d.functionName }
func (d *Document) ModelType() string    { return d.modelType }
func (d *Document) ModelName() string    { return d.modelName }
func (d *Document) Version() string      { return d.version }
func (d *Document) Application() string  { return d.application }
