package model

import "errors"

var (
	// ErrModelUnavailable is returned when the churn model failed to load and scoring cannot run.
	ErrModelUnavailable = errors.New("churn model unavailable")

	// ErrEvaluationFailure is returned when the model raised an error or produced no usable probability.
	ErrEvaluationFailure = errors.New("churn model evaluation failed")

	// ErrPersistenceFailure is returned when a scored prediction could not be recorded.
	ErrPersistenceFailure = errors.New("prediction could not be recorded")

	// ErrPredictionNotFound is returned when no prediction exists for the requested id.
	ErrPredictionNotFound = errors.New("prediction not found")
)
