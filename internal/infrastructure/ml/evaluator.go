package ml

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/Gameto2025/Banco-Alura/internal/domain/model"
	"github.com/Gameto2025/Banco-Alura/internal/infrastructure/ml/pmml"
)

const probabilityTolerance = 1e-9

// Handle is a loaded, verified churn model. It is never mutated after loading.
type Handle struct {
	doc    *pmml.Document
	source string
}

// LoadFile reads and verifies the model artifact at path.
func LoadFile(path string) (*Handle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model artifact: %w", err)
	}
	defer f.Close()

	return Load(f, path)
}

// Load reads and verifies a model artifact. source labels the artifact in logs.
func Load(r io.Reader, source string) (*Handle, error) {
	doc, err := pmml.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to load model %s: %w", source, err)
	}
	return &Handle{doc: doc, source: source}, nil
}

// Source returns where the model was loaded from.
func (h *Handle) Source() string { return h.source }

// RequiredFields returns the model's input fields in declaration order.
func (h *Handle) RequiredFields() []string { return h.doc.ActiveFields() }

// TargetField returns the model's target field.
func (h *Handle) TargetField() string { return h.doc.TargetField() }

// OutputFields returns the names of the declared output fields.
func (h *Handle) OutputFields() []string {
	fields := h.doc.OutputFields()
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	return names
}

// Evaluator implements port.ChurnModel over a PMML handle. An evaluator built
// without a handle is degraded: it stays constructible so the service can start,
// and every evaluation fails with model.ErrModelUnavailable.
type Evaluator struct {
	handle *Handle
	cause  error
	logger *slog.Logger
}

// NewEvaluator creates an evaluator for a loaded handle.
func NewEvaluator(handle *Handle, logger *slog.Logger) *Evaluator {
	return &Evaluator{handle: handle, logger: logger}
}

// NewDegradedEvaluator creates an evaluator that reports cause on every call.
func NewDegradedEvaluator(cause error, logger *slog.Logger) *Evaluator {
	return &Evaluator{cause: cause, logger: logger}
}

// Open loads the artifact at path. A load failure is logged and yields a degraded evaluator.
func Open(path string, logger *slog.Logger) *Evaluator {
	handle, err := LoadFile(path)
	if err != nil {
		logger.Error("churn model failed to load, scoring disabled",
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return NewDegradedEvaluator(err, logger)
	}

	logger.Info("churn model loaded",
		slog.String("path", path),
		slog.String("model_type", handle.doc.ModelType()),
		slog.String("function", handle.doc.FunctionName()),
		slog.Any("inputs", handle.RequiredFields()),
		slog.String("target", handle.TargetField()),
		slog.Any("outputs", handle.OutputFields()),
	)
	return NewEvaluator(handle, logger)
}

// Available reports whether the evaluator has a model.
func (e *Evaluator) Available() bool {
	return e.handle != nil
}

// Cause returns the load error of a degraded evaluator.
func (e *Evaluator) Cause() error {
	return e.cause
}

// RequiredFields returns the model's input fields, or nil when degraded.
func (e *Evaluator) RequiredFields() []string {
	if e.handle == nil {
		return nil
	}
	return e.handle.RequiredFields()
}

// Evaluate computes the churn probability. Required fields absent from features
// are evaluated as 0. Model faults never escape as panics.
func (e *Evaluator) Evaluate(ctx context.Context, features map[string]float64) (p float64, err error) {
	if e.handle == nil {
		return 0, fmt.Errorf("%w: %v", model.ErrModelUnavailable, e.cause)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	args := make(map[string]float64, len(e.handle.RequiredFields()))
	for _, field := range e.handle.RequiredFields() {
		args[field] = features[field]
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.ErrorContext(ctx, "churn model evaluation panicked", slog.Any("panic", r))
			p, err = 0, fmt.Errorf("%w: %v", model.ErrEvaluationFailure, r)
		}
	}()

	v, err := e.handle.doc.Evaluate(args)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrEvaluationFailure, err)
	}

	p, label, err := positiveClassProbability(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", model.ErrEvaluationFailure, err)
	}
	// Absorb rounding noise from normalisation before range checking.
	if p < 0 && p > -probabilityTolerance {
		p = 0
	} else if p > 1 && p < 1+probabilityTolerance {
		p = 1
	}
	if math.IsNaN(p) || p < 0 || p > 1 {
		return 0, fmt.Errorf("%w: probability %v outside [0, 1]", model.ErrEvaluationFailure, p)
	}

	e.logger.DebugContext(ctx, "churn model evaluated",
		slog.Float64("probability", p),
		slog.String("label", label),
	)
	return p, nil
}
