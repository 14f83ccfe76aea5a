package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/yourusername/racing-predictor/internal/database"
	"github.com/yourusername/racing-predictor/internal/models"
)

const createHistoryTable = `
	CREATE TABLE IF NOT EXISTS racing_history (
		id UUID PRIMARY KEY,
		position TEXT NOT NULL,
		visible_road TEXT NOT NULL,
		hidden_road_1 TEXT NOT NULL,
		hidden_road_1_position TEXT NOT NULL,
		hidden_road_2 TEXT NOT NULL,
		hidden_road_2_position TEXT NOT NULL,
		long_road_segment TEXT NOT NULL,
		vehicle_1 TEXT NOT NULL,
		vehicle_2 TEXT NOT NULL,
		vehicle_3 TEXT NOT NULL,
		actual_winner TEXT NOT NULL,
		prediction TEXT NOT NULL DEFAULT '',
		prediction_method TEXT NOT NULL DEFAULT '',
		recorded_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		seq BIGSERIAL
	)
`

// PostgresStore persists history in a PostgreSQL table keyed by an internal
// identifier that is never exposed on HistoryRecord.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore creates the store and ensures the table exists
func NewPostgresStore(ctx context.Context, db *database.DB) (*PostgresStore, error) {
	if _, err := db.GetPool().Exec(ctx, createHistoryTable); err != nil {
		return nil, fmt.Errorf("failed to ensure history table: %w", err)
	}
	return &PostgresStore{db: db}, nil
}

// Load retrieves all records in insertion order
func (s *PostgresStore) Load(ctx context.Context) ([]models.HistoryRecord, error) {
	query := `
		SELECT position, visible_road,
		       hidden_road_1, hidden_road_1_position,
		       hidden_road_2, hidden_road_2_position,
		       long_road_segment,
		       vehicle_1, vehicle_2, vehicle_3, actual_winner,
		       prediction, prediction_method, recorded_at
		FROM racing_history
		ORDER BY seq ASC
	`

	rows, err := s.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []models.HistoryRecord
	for rows.Next() {
		var rec models.HistoryRecord
		err := rows.Scan(
			&rec.Position, &rec.VisibleRoad,
			&rec.HiddenRoad1, &rec.Hidden1Pos,
			&rec.HiddenRoad2, &rec.Hidden2Pos,
			&rec.LongSegment,
			&rec.Vehicle1, &rec.Vehicle2, &rec.Vehicle3, &rec.ActualWinner,
			&rec.Prediction, &rec.PredMethod, &rec.RecordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		rec.ApplyLegacyDefaults()
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Save replaces the persisted collection inside one transaction:
// delete-all then insert-all, matching the source system's whole-rewrite
// semantics.
func (s *PostgresStore) Save(ctx context.Context, records []models.HistoryRecord) error {
	tx, err := s.db.GetPool().Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM racing_history"); err != nil {
		return fmt.Errorf("failed to clear history table: %w", err)
	}

	insert := `
		INSERT INTO racing_history (
			id, position, visible_road,
			hidden_road_1, hidden_road_1_position,
			hidden_road_2, hidden_road_2_position,
			long_road_segment,
			vehicle_1, vehicle_2, vehicle_3, actual_winner,
			prediction, prediction_method, recorded_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`
	for _, rec := range records {
		_, err := tx.Exec(ctx, insert,
			uuid.New(), rec.Position, rec.VisibleRoad,
			rec.HiddenRoad1, rec.Hidden1Pos,
			rec.HiddenRoad2, rec.Hidden2Pos,
			rec.LongSegment,
			rec.Vehicle1, rec.Vehicle2, rec.Vehicle3, rec.ActualWinner,
			rec.Prediction, rec.PredMethod, rec.RecordedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert history record: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit history save: %w", err)
	}
	return nil
}
