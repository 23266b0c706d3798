package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"inference-service/internal/core/domain"
	ports "inference-service/internal/core/ports/output"
)

type predictionLogRepo struct {
	pool *pgxpool.Pool
}

func NewPredictionLogRepository(pool *pgxpool.Pool) ports.PredictionLogRepository {
	return &predictionLogRepo{pool: pool}
}

func (r *predictionLogRepo) Insert(ctx context.Context, rec *domain.PredictionRecord) error {
	body, err := json.Marshal(rec.Body)
	if err != nil {
		return fmt.Errorf("marshal record body: %w", err)
	}

	query := `
		INSERT INTO prediction_log (id, received_at, record)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO NOTHING
	`
	if _, err := r.pool.Exec(ctx, query, rec.ID, rec.ReceivedAt, body); err != nil {
		return fmt.Errorf("insert prediction log: %w", err)
	}
	return nil
}
