package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Gameto2025/Banco-Alura/internal/domain/model"
	"github.com/Gameto2025/Banco-Alura/internal/domain/valueobject"
	pgutil "github.com/Gameto2025/Banco-Alura/pkg/postgres"
)

const selectColumns = `
	SELECT id, age, country_code, num_products,
		score, churn_decision, risk_tier, color_code,
		factors, recommendation, created_at
	FROM churn_predictions`

// PredictionRepository implements port.PredictionRepository using PostgreSQL.
type PredictionRepository struct {
	db pgutil.Querier
}

// NewPredictionRepository creates a new PostgreSQL-backed prediction repository.
// db is usually a *pgxpool.Pool.
func NewPredictionRepository(db pgutil.Querier) *PredictionRepository {
	return &PredictionRepository{db: db}
}

// Save inserts a prediction. Records are immutable, so a duplicate ID is an error.
func (r *PredictionRepository) Save(ctx context.Context, record *model.PredictionRecord) error {
	result := record.Result()
	query := `
		INSERT INTO churn_predictions (
			id, age, country_code, num_products,
			score, churn_decision, outcome, risk_tier, color_code,
			factors, recommendation, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.Exec(ctx, query,
		record.ID(),
		record.Age(),
		record.CountryCode(),
		record.NumProducts(),
		result.Probability().Float64(),
		result.ChurnDecision(),
		result.Outcome(),
		result.Tier().String(),
		result.ColorCode(),
		result.JoinedFactors(),
		result.Recommendation(),
		record.CreatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to save prediction: %w", err)
	}
	return nil
}

// FindByID retrieves a prediction by its identifier. It returns nil, nil when absent.
func (r *PredictionRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.PredictionRecord, error) {
	record, err := scanPrediction(r.db.QueryRow(ctx, selectColumns+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// ListRecent returns up to limit predictions, newest first.
func (r *PredictionRepository) ListRecent(ctx context.Context, limit int) ([]*model.PredictionRecord, error) {
	return r.list(ctx, selectColumns+` ORDER BY created_at DESC, id LIMIT $1`, limit)
}

// ListTopRisk returns up to limit predictions by descending score.
func (r *PredictionRepository) ListTopRisk(ctx context.Context, limit int) ([]*model.PredictionRecord, error) {
	return r.list(ctx, selectColumns+` ORDER BY score DESC, created_at DESC LIMIT $1`, limit)
}

// DeleteAll removes every prediction.
func (r *PredictionRepository) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM churn_predictions`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete predictions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *PredictionRepository) list(ctx context.Context, query string, limit int) ([]*model.PredictionRecord, error) {
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	records := make([]*model.PredictionRecord, 0, limit)
	for rows.Next() {
		record, err := scanPrediction(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate predictions: %w", err)
	}
	return records, nil
}

// scanPrediction reads one row. pgx.Rows satisfies pgx.Row, so single-row and
// multi-row queries share it. pgx.ErrNoRows is returned unwrapped.
func scanPrediction(row pgx.Row) (*model.PredictionRecord, error) {
	var (
		id             uuid.UUID
		age            int
		countryCode    int
		numProducts    int
		score          float64
		churnDecision  bool
		riskTierStr    string
		colorCode      string
		factors        string
		recommendation string
		createdAt      time.Time
	)

	err := row.Scan(
		&id, &age, &countryCode, &numProducts,
		&score, &churnDecision, &riskTierStr, &colorCode,
		&factors, &recommendation, &createdAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan prediction: %w", err)
	}

	tier, err := valueobject.RiskTierFromString(riskTierStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse risk tier: %w", err)
	}
	probability, err := valueobject.NewProbability(score)
	if err != nil {
		return nil, fmt.Errorf("failed to parse score: %w", err)
	}

	result := model.NewPredictionResult(
		probability, tier, churnDecision,
		model.SplitFactors(factors), recommendation, colorCode,
	)
	return model.ReconstructPredictionRecord(id, age, countryCode, numProducts, result, createdAt.UTC()), nil
}
