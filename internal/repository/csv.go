// Package repository provides the persistence backends behind the history
// Store interface: a CSV file, an embedded SQLite database, PostgreSQL, and
// a hosted cloud table API. Every backend rewrites the full collection on
// save.
package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/racing-predictor/internal/models"
)

// Tabular column names. Order matches the HistoryRecord field list; the
// trailing Hidden_Details column is derived for display and never the
// source of truth when the explicit columns are present.
const (
	colPosition      = "Position"
	colRoad          = "Road"
	colHiddenRoad1   = "Hidden_Road_1"
	colHidden1Pos    = "Hidden_Road_1_Position"
	colHiddenRoad2   = "Hidden_Road_2"
	colHidden2Pos    = "Hidden_Road_2_Position"
	colLongRoad      = "Long_Road"
	colCar1          = "Car1"
	colCar2          = "Car2"
	colCar3          = "Car3"
	colWinner        = "Winner"
	colPrediction    = "Prediction"
	colPredMethod    = "Prediction_Method"
	colHiddenDetails = "Hidden_Details"
)

var csvHeader = []string{
	colPosition, colRoad,
	colHiddenRoad1, colHidden1Pos, colHiddenRoad2, colHidden2Pos, colLongRoad,
	colCar1, colCar2, colCar3, colWinner,
	colPrediction, colPredMethod,
	colHiddenDetails,
}

// hiddenDetailsPattern matches the combined display column,
// e.g. "dirt (C) + potholes (R)"
var hiddenDetailsPattern = regexp.MustCompile(`^\s*(\w+)\s*\((\w)\)\s*\+\s*(\w+)\s*\((\w)\)\s*$`)

// HiddenDetails renders the combined human-readable hidden segment column
func HiddenDetails(rec models.HistoryRecord) string {
	return fmt.Sprintf("%s (%s) + %s (%s)",
		rec.HiddenRoad1, rec.Hidden1Pos, rec.HiddenRoad2, rec.Hidden2Pos)
}

// EncodeCSV writes the full tabular export: header row plus one row per record
func EncodeCSV(w io.Writer, records []models.HistoryRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, rec := range records {
		row := []string{
			string(rec.Position), string(rec.VisibleRoad),
			string(rec.HiddenRoad1), string(rec.Hidden1Pos),
			string(rec.HiddenRoad2), string(rec.Hidden2Pos),
			string(rec.LongSegment),
			string(rec.Vehicle1), string(rec.Vehicle2), string(rec.Vehicle3),
			string(rec.ActualWinner),
			string(rec.Prediction), string(rec.PredMethod),
			HiddenDetails(rec),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// DecodeCSV parses a tabular export, accepting legacy layouts: files missing
// the hidden-road and long-road columns get documented defaults, and a
// Hidden_Details-only file is parsed via its display pattern. A malformed
// row is repaired field by field where defaults exist; rows whose vehicles
// are unrecognizable are skipped, never the whole import.
func DecodeCSV(r io.Reader, logger *logrus.Logger) ([]models.HistoryRecord, error) {
	if logger == nil {
		logger = logrus.New()
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // legacy files are ragged
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	index := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		index[name] = i
	}

	var records []models.HistoryRecord
	for lineNo, row := range rows[1:] {
		rec, ok := decodeRow(row, index)
		if !ok {
			logger.WithField("line", lineNo+2).Warn("Skipping unparseable history row")
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func decodeRow(row []string, index map[string]int) (models.HistoryRecord, bool) {
	field := func(name string) string {
		i, ok := index[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	// Vehicles and winner have no documented fallback; a row without them
	// carries no usable outcome.
	v1, err1 := models.ParseVehicle(field(colCar1))
	v2, err2 := models.ParseVehicle(field(colCar2))
	v3, err3 := models.ParseVehicle(field(colCar3))
	winner, err4 := models.ParseVehicle(field(colWinner))
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return models.HistoryRecord{}, false
	}

	rec := models.HistoryRecord{
		Vehicle1:     v1,
		Vehicle2:     v2,
		Vehicle3:     v3,
		ActualWinner: winner,
	}

	rec.Position = models.PositionCenter
	if pos, err := models.ParsePosition(field(colPosition)); err == nil {
		rec.Position = pos
	}
	rec.VisibleRoad = models.RoadDirt
	if road, err := models.ParseRoadType(field(colRoad)); err == nil {
		rec.VisibleRoad = road
	}

	decodeHiddenFields(&rec, field)

	rec.LongSegment = models.DefaultLongSegment
	if seg, err := models.ParseSegment(field(colLongRoad)); err == nil {
		rec.LongSegment = seg
	}

	if pred, err := models.ParseVehicle(field(colPrediction)); err == nil {
		rec.Prediction = pred
	}
	if method, err := models.ParseMethod(field(colPredMethod)); err == nil {
		rec.PredMethod = method
	}

	if !rec.HasVehicle(rec.ActualWinner) {
		return models.HistoryRecord{}, false
	}
	return rec, true
}

// decodeHiddenFields resolves the hidden segments: explicit columns win,
// then the combined Hidden_Details string, then documented defaults per
// field.
func decodeHiddenFields(rec *models.HistoryRecord, field func(string) string) {
	rec.HiddenRoad1 = models.DefaultHiddenRoad1
	rec.Hidden1Pos = models.DefaultHidden1Pos
	rec.HiddenRoad2 = models.DefaultHiddenRoad2
	rec.Hidden2Pos = models.DefaultHidden2Pos

	explicit := false
	if road, err := models.ParseRoadType(field(colHiddenRoad1)); err == nil {
		rec.HiddenRoad1 = road
		explicit = true
	}
	if pos, err := models.ParsePosition(field(colHidden1Pos)); err == nil {
		rec.Hidden1Pos = pos
		explicit = true
	}
	if road, err := models.ParseRoadType(field(colHiddenRoad2)); err == nil {
		rec.HiddenRoad2 = road
		explicit = true
	}
	if pos, err := models.ParsePosition(field(colHidden2Pos)); err == nil {
		rec.Hidden2Pos = pos
		explicit = true
	}
	if explicit {
		return
	}

	match := hiddenDetailsPattern.FindStringSubmatch(field(colHiddenDetails))
	if match == nil {
		return
	}
	if road, err := models.ParseRoadType(match[1]); err == nil {
		rec.HiddenRoad1 = road
	}
	if pos, err := models.ParsePosition(match[2]); err == nil {
		rec.Hidden1Pos = pos
	}
	if road, err := models.ParseRoadType(match[3]); err == nil {
		rec.HiddenRoad2 = road
	}
	if pos, err := models.ParsePosition(match[4]); err == nil {
		rec.Hidden2Pos = pos
	}
}

// FileStore persists history as a CSV file on local disk
type FileStore struct {
	path   string
	logger *logrus.Logger
}

// NewFileStore creates a CSV file store
func NewFileStore(path string, logger *logrus.Logger) *FileStore {
	if logger == nil {
		logger = logrus.New()
	}
	return &FileStore{path: path, logger: logger}
}

// Load reads the persisted history. A missing file is an empty history.
func (s *FileStore) Load(_ context.Context) ([]models.HistoryRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	return DecodeCSV(f, s.logger)
}

// Save rewrites the whole file. The write goes to a temp file first so a
// failure partway leaves the previous export intact.
func (s *FileStore) Save(_ context.Context, records []models.HistoryRecord) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".racing_history-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp history file: %w", err)
	}
	tmpName := tmp.Name()

	if err := EncodeCSV(tmp, records); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp history file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace history file: %w", err)
	}
	return nil
}
