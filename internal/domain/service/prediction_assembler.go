package service

import (
	"time"

	"github.com/Gameto2025/Banco-Alura/internal/domain/model"
	"github.com/Gameto2025/Banco-Alura/internal/domain/valueobject"
)

// PredictionAssembler composes classifier and explanation output into a result and
// the record that will be stored for it.
type PredictionAssembler struct {
	classifier *RiskClassifier
	explainer  *ExplanationGenerator
	now        func() time.Time
}

// NewPredictionAssembler creates an assembler. A nil clock defaults to time.Now.
func NewPredictionAssembler(classifier *RiskClassifier, explainer *ExplanationGenerator, now func() time.Time) *PredictionAssembler {
	if now == nil {
		now = time.Now
	}
	return &PredictionAssembler{
		classifier: classifier,
		explainer:  explainer,
		now:        now,
	}
}

// Assemble builds the record for one scored customer. It cannot fail.
func (a *PredictionAssembler) Assemble(
	attrs model.ClientAttributes,
	features model.DerivedFeatures,
	probability valueobject.Probability,
) *model.PredictionRecord {
	c := a.classifier.Classify(probability)
	result := model.NewPredictionResult(
		probability,
		c.Tier,
		c.ChurnDecision,
		a.explainer.Explain(attrs, features),
		c.Recommendation,
		c.ColorCode,
	)
	return model.NewPredictionRecord(attrs, result, a.now())
}
