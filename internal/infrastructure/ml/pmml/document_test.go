package pmml

import (
	"errors"
	"math"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = `<?xml version="1.0"?>
<PMML xmlns="http://www.dmg.org/PMML-4_4" version="4.4">
	<Header><Application name="test" version="1"/></Header>
	<DataDictionary>
		<DataField name="y" optype="categorical" dataType="string"><Value value="no"/><Value value="yes"/></DataField>
		<DataField name="a" optype="continuous" dataType="double"/>
		<DataField name="b" optype="continuous" dataType="double"/>
	</DataDictionary>`

const schema = `<MiningSchema>
		<MiningField name="y" usageType="target"/>
		<MiningField name="a"/>
		<MiningField name="b"/>
	</MiningSchema>`

func parseString(t *testing.T, body string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(header + body + `</PMML>`))
	require.NoError(t, err)
	return doc
}

func probOf(t *testing.T, v Value, label string) float64 {
	t.Helper()
	for _, c := range v.Categories() {
		if c.Label == label {
			return c.Probability
		}
	}
	t.Fatalf("label %q not in distribution", label)
	return 0
}

func TestParse_ChurnArtifact(t *testing.T) {
	f, err := os.Open("../testdata/churn_model.pmml")
	require.NoError(t, err)
	defer f.Close()

	doc, err := Parse(f)
	require.NoError(t, err)

	assert.Equal(t, "TreeModel", doc.ModelType())
	assert.Equal(t, "classification", doc.FunctionName())
	assert.Equal(t, "Exited", doc.TargetField())
	assert.Equal(t, []string{"Age_Risk", "NumOfProducts", "Inactivo_40_70", "Products_Risk_Flag", "Country_Risk_Flag"}, doc.ActiveFields())
	assert.Equal(t, []string{"0", "1"}, doc.TargetCategories())
	assert.Len(t, doc.OutputFields(), 2)
	assert.Equal(t, "4.4", doc.Version())
	assert.Equal(t, "sklearn2pmml", doc.Application())

	v, err := doc.Evaluate(map[string]float64{
		"Age_Risk": 1, "NumOfProducts": 4, "Inactivo_40_70": 1, "Products_Risk_Flag": 1, "Country_Risk_Flag": 1,
	})
	require.NoError(t, err)
	assert.InDelta(t, 104.0/113.0, probOf(t, v, "1"), 1e-9)
	assert.InDelta(t, 1.0, probOf(t, v, "0")+probOf(t, v, "1"), 1e-9)
}

func TestTreeModel_NoTrueChildStrategy(t *testing.T) {
	tree := func(strategy string) string {
		return `<TreeModel functionName="classification" noTrueChildStrategy="` + strategy + `">` + schema + `
		<Node score="no"><True/>
			<ScoreDistribution value="no" recordCount="3"/>
			<ScoreDistribution value="yes" recordCount="1"/>
			<Node score="yes"><SimplePredicate field="a" operator="greaterOrEqual" value="10"/></Node>
		</Node></TreeModel>`
	}

	t.Run("last prediction", func(t *testing.T) {
		doc := parseString(t, tree("returnLastPrediction"))
		v, err := doc.Evaluate(map[string]float64{"a": 1, "b": 0})
		require.NoError(t, err)
		assert.InDelta(t, 0.25, probOf(t, v, "yes"), 1e-12)
	})

	t.Run("null prediction", func(t *testing.T) {
		doc := parseString(t, tree("returnNullPrediction"))
		_, err := doc.Evaluate(map[string]float64{"a": 1, "b": 0})
		assert.True(t, errors.Is(err, ErrNoPrediction))
	})

	t.Run("leaf score without distribution", func(t *testing.T) {
		doc := parseString(t, tree("returnNullPrediction"))
		v, err := doc.Evaluate(map[string]float64{"a": 12, "b": 0})
		require.NoError(t, err)
		assert.Equal(t, []Category{{Label: "no", Probability: 0}, {Label: "yes", Probability: 1}}, v.Categories())
	})
}

func TestTreeModel_ProbabilityAttributes(t *testing.T) {
	doc := parseString(t, `<TreeModel functionName="classification">`+schema+`
		<Node><True/>
			<ScoreDistribution value="yes" recordCount="10" probability="0.7"/>
			<ScoreDistribution value="no" recordCount="90" probability="0.3"/>
		</Node></TreeModel>`)

	v, err := doc.Evaluate(map[string]float64{"a": 0, "b": 0})
	require.NoError(t, err)

	cats := v.Categories()
	require.Len(t, cats, 2)
	assert.Equal(t, "no", cats[0].Label, "distribution follows data dictionary order")
	assert.InDelta(t, 0.3, cats[0].Probability, 1e-12)
	assert.InDelta(t, 0.7, cats[1].Probability, 1e-12)
}

func TestRegressionModel_Classification(t *testing.T) {
	doc := parseString(t, `<RegressionModel functionName="classification" normalizationMethod="logit">`+schema+`
		<RegressionTable intercept="-1.5" targetCategory="yes">
			<NumericPredictor name="a" coefficient="0.5"/>
			<NumericPredictor name="b" exponent="2" coefficient="0.25"/>
		</RegressionTable>
		<RegressionTable intercept="0" targetCategory="no"/>
	</RegressionModel>`)

	v, err := doc.Evaluate(map[string]float64{"a": 2, "b": 2})
	require.NoError(t, err)

	y := -1.5 + 0.5*2 + 0.25*4
	expected := 1 / (1 + math.Exp(-y))
	assert.InDelta(t, expected, probOf(t, v, "yes"), 1e-12)
	assert.InDelta(t, 1-expected, probOf(t, v, "no"), 1e-12)
}

func TestRegressionModel_Softmax(t *testing.T) {
	doc := parseString(t, `<RegressionModel functionName="classification" normalizationMethod="softmax">`+schema+`
		<RegressionTable intercept="1" targetCategory="yes">
			<CategoricalPredictor name="a" value="3" coefficient="2"/>
		</RegressionTable>
		<RegressionTable intercept="1" targetCategory="no"/>
	</RegressionModel>`)

	v, err := doc.Evaluate(map[string]float64{"a": 3, "b": 0})
	require.NoError(t, err)
	expected := math.Exp(3) / (math.Exp(3) + math.Exp(1))
	assert.InDelta(t, expected, probOf(t, v, "yes"), 1e-12)

	v, err = doc.Evaluate(map[string]float64{"a": 4, "b": 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, probOf(t, v, "yes"), 1e-12)
}

func TestRegressionModel_NumericOutput(t *testing.T) {
	doc := parseString(t, `<RegressionModel functionName="regression">`+schema+`
		<RegressionTable intercept="0.1"><NumericPredictor name="a" coefficient="0.2"/></RegressionTable>
	</RegressionModel>`)

	v, err := doc.Evaluate(map[string]float64{"a": 2, "b": 0})
	require.NoError(t, err)
	assert.False(t, v.IsDistribution())
	assert.InDelta(t, 0.5, v.Numeric(), 1e-12)

	_, err = doc.Evaluate(map[string]float64{"b": 0})
	assert.True(t, errors.Is(err, ErrMissingInput))
}

func TestMiningModel_Segmentation(t *testing.T) {
	segment := func(id, weight, yes, no string) string {
		return `<Segment id="` + id + `" weight="` + weight + `"><True/>
			<TreeModel functionName="classification">` + schema + `
				<Node><True/>
					<ScoreDistribution value="yes" recordCount="` + yes + `"/>
					<ScoreDistribution value="no" recordCount="` + no + `"/>
				</Node>
			</TreeModel></Segment>`
	}
	mining := func(method string) string {
		return `<MiningModel functionName="classification">` + schema + `
			<Segmentation multipleModelMethod="` + method + `">` +
			segment("s1", "1", "8", "2") + segment("s2", "3", "2", "8") +
			`</Segmentation></MiningModel>`
	}
	in := map[string]float64{"a": 0, "b": 0}

	tests := []struct {
		method string
		yes    float64
	}{
		{"average", 0.5},
		{"weightedAverage", (0.8*1 + 0.2*3) / 4},
		{"majorityVote", 0.5},
		{"weightedMajorityVote", 0.25},
		{"selectFirst", 0.8},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			v, err := parseString(t, mining(tt.method)).Evaluate(in)
			require.NoError(t, err)
			assert.InDelta(t, tt.yes, probOf(t, v, "yes"), 1e-12)
		})
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"malformed xml", header + `<TreeModel functionName="classification">`},
		{"no model", header + `</PMML>`},
		{"two models", header +
			`<TreeModel functionName="classification">` + schema + `<Node score="no"><True/></Node></TreeModel>` +
			`<TreeModel functionName="classification">` + schema + `<Node score="no"><True/></Node></TreeModel></PMML>`},
		{"unknown function", header +
			`<TreeModel functionName="clustering">` + schema + `<Node score="no"><True/></Node></TreeModel></PMML>`},
		{"undeclared field", header +
			`<TreeModel functionName="classification">` + schema + `<Node score="no"><True/>
			<Node score="yes"><SimplePredicate field="c" operator="equal" value="1"/></Node></Node></TreeModel></PMML>`},
		{"unknown operator", header +
			`<TreeModel functionName="classification">` + schema + `<Node score="no"><True/>
			<Node score="yes"><SimplePredicate field="a" operator="near" value="1"/></Node></Node></TreeModel></PMML>`},
		{"leaf without score", header +
			`<TreeModel functionName="classification">` + schema + `<Node><True/></Node></TreeModel></PMML>`},
		{"node without predicate", header +
			`<TreeModel functionName="classification">` + schema + `<Node score="no"/></TreeModel></PMML>`},
		{"unsupported normalization", header +
			`<RegressionModel functionName="classification" normalizationMethod="probit">` + schema +
			`<RegressionTable intercept="0" targetCategory="yes"/><RegressionTable intercept="0" targetCategory="no"/></RegressionModel></PMML>`},
		{"classification without target", header +
			`<TreeModel functionName="classification"><MiningSchema><MiningField name="a"/></MiningSchema>` +
			`<Node score="no"><True/></Node></TreeModel></PMML>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}
