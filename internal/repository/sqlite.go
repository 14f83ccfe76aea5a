package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/yourusername/racing-predictor/internal/models"
)

const createSQLiteTable = `
	CREATE TABLE IF NOT EXISTS racing_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
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
		recorded_at TIMESTAMP
	)
`

// SQLiteStore persists history in an embedded SQLite database, the default
// durable backend for single-machine deployments.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the database file and ensures the schema
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if _, err := db.Exec(createSQLiteTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure history table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the database handle
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Load retrieves all records in insertion order
func (s *SQLiteStore) Load(ctx context.Context) ([]models.HistoryRecord, error) {
	query := `
		SELECT position, visible_road,
		       hidden_road_1, hidden_road_1_position,
		       hidden_road_2, hidden_road_2_position,
		       long_road_segment,
		       vehicle_1, vehicle_2, vehicle_3, actual_winner,
		       prediction, prediction_method, recorded_at
		FROM racing_history
		ORDER BY id ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var records []models.HistoryRecord
	for rows.Next() {
		var (
			rec        models.HistoryRecord
			position   string
			road       string
			h1, h1pos  string
			h2, h2pos  string
			long       string
			v1, v2, v3 string
			winner     string
			prediction string
			method     string
			recordedAt sql.NullString
		)
		err := rows.Scan(
			&position, &road, &h1, &h1pos, &h2, &h2pos, &long,
			&v1, &v2, &v3, &winner, &prediction, &method, &recordedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}

		rec.Position = models.Position(position)
		rec.VisibleRoad = models.RoadType(road)
		rec.HiddenRoad1 = models.RoadType(h1)
		rec.Hidden1Pos = models.Position(h1pos)
		rec.HiddenRoad2 = models.RoadType(h2)
		rec.Hidden2Pos = models.Position(h2pos)
		rec.LongSegment = models.Segment(long)
		rec.Vehicle1 = models.Vehicle(v1)
		rec.Vehicle2 = models.Vehicle(v2)
		rec.Vehicle3 = models.Vehicle(v3)
		rec.ActualWinner = models.Vehicle(winner)
		rec.Prediction = models.Vehicle(prediction)
		rec.PredMethod = models.Method(method)
		if recordedAt.Valid {
			if ts, err := time.Parse(time.RFC3339, recordedAt.String); err == nil {
				rec.RecordedAt = ts
			}
		}
		rec.ApplyLegacyDefaults()
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Save replaces the persisted collection in one transaction
func (s *SQLiteStore) Save(ctx context.Context, records []models.HistoryRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM racing_history"); err != nil {
		return fmt.Errorf("failed to clear history table: %w", err)
	}

	insert := `
		INSERT INTO racing_history (
			position, visible_road,
			hidden_road_1, hidden_road_1_position,
			hidden_road_2, hidden_road_2_position,
			long_road_segment,
			vehicle_1, vehicle_2, vehicle_3, actual_winner,
			prediction, prediction_method, recorded_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var recordedAt interface{}
		if !rec.RecordedAt.IsZero() {
			recordedAt = rec.RecordedAt.UTC().Format(time.RFC3339)
		}
		_, err := stmt.ExecContext(ctx,
			string(rec.Position), string(rec.VisibleRoad),
			string(rec.HiddenRoad1), string(rec.Hidden1Pos),
			string(rec.HiddenRoad2), string(rec.Hidden2Pos),
			string(rec.LongSegment),
			string(rec.Vehicle1), string(rec.Vehicle2), string(rec.Vehicle3),
			string(rec.ActualWinner),
			string(rec.Prediction), string(rec.PredMethod),
			recordedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert history record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit history save: %w", err)
	}
	return nil
}
