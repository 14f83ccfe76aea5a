// Package accuracy scores historical prediction quality per vehicle and
// overall by comparing predictions against the recorded actual winners.
package accuracy

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/racing-predictor/internal/models"
	"github.com/yourusername/racing-predictor/internal/predictor"
)

// DefaultMinHistory is the smallest history an evaluation is produced for.
// Below it a percentage would be degenerate, so the evaluator refuses.
const DefaultMinHistory = 10

// Mode names which evaluation strategy produced a report
type Mode string

// Evaluation modes
const (
	// ModeSaved scores the prediction stored at save time against the
	// actual winner of the same record.
	ModeSaved Mode = "saved"
	// ModeReplay re-runs the predictor for every record against the full
	// history pool. Each row therefore sees records appended after it.
	// The look-ahead is intentional and kept for this mode.
	ModeReplay Mode = "replay"
)

// VehicleAccuracy is one row of the per-vehicle ranking
type VehicleAccuracy struct {
	Vehicle  models.Vehicle `json:"vehicle"`
	Wins     int            `json:"wins"`
	Correct  int            `json:"correct"`
	Accuracy float64        `json:"accuracy"`
}

// Report aggregates an evaluation run
type Report struct {
	Mode         Mode                  `json:"mode"`
	TotalRecords int                   `json:"total_records"`
	CorrectCount int                   `json:"correct_count"`
	Overall      float64               `json:"overall"`
	PerVehicle   []VehicleAccuracy     `json:"per_vehicle"`
	ByMethod     map[models.Method]int `json:"by_method,omitempty"`
}

// OverallPercent returns the overall hit rate as a percentage
func (r Report) OverallPercent() float64 {
	return r.Overall * 100
}

// Evaluator replays or re-scores history
type Evaluator struct {
	predictor  *predictor.Predictor
	minHistory int
	logger     *logrus.Logger
}

// NewEvaluator creates an evaluator. minHistory <= 0 selects the default.
func NewEvaluator(pred *predictor.Predictor, minHistory int, logger *logrus.Logger) *Evaluator {
	if minHistory <= 0 {
		minHistory = DefaultMinHistory
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Evaluator{predictor: pred, minHistory: minHistory, logger: logger}
}

// EvaluateSaved scores the predictions that were stored when each record
// was saved. Records saved without a prediction count as misses.
func (e *Evaluator) EvaluateSaved(history []models.HistoryRecord) (Report, error) {
	if len(history) < e.minHistory {
		return Report{}, fmt.Errorf("%w: have %d records, need %d", models.ErrInsufficientHistory, len(history), e.minHistory)
	}

	report := Report{Mode: ModeSaved, TotalRecords: len(history)}
	predicted := make([]models.Vehicle, len(history))
	for i, rec := range history {
		predicted[i] = rec.Prediction
	}
	e.aggregate(&report, history, predicted)
	return report, nil
}

// EvaluateReplay re-runs the predictor per record, using the full history
// as the candidate pool for every row (see ModeReplay).
func (e *Evaluator) EvaluateReplay(history []models.HistoryRecord) (Report, error) {
	if len(history) < e.minHistory {
		return Report{}, fmt.Errorf("%w: have %d records, need %d", models.ErrInsufficientHistory, len(history), e.minHistory)
	}

	report := Report{
		Mode:         ModeReplay,
		TotalRecords: len(history),
		ByMethod:     make(map[models.Method]int),
	}
	predicted := make([]models.Vehicle, len(history))
	for i, rec := range history {
		setup := models.RaceSetup{
			Position:    rec.Position,
			VisibleRoad: rec.VisibleRoad,
			Vehicles:    rec.Vehicles(),
		}
		result, err := e.predictor.Predict(setup, history)
		if err != nil {
			return Report{}, fmt.Errorf("replaying record %d: %w", i, err)
		}
		predicted[i] = result.PredictedVehicle
		report.ByMethod[result.Method]++
	}
	e.aggregate(&report, history, predicted)
	return report, nil
}

// aggregate fills the overall rate and the ranked per-vehicle table.
// Vehicles that never won are not listed rather than shown at 0%.
func (e *Evaluator) aggregate(report *Report, history []models.HistoryRecord, predicted []models.Vehicle) {
	wins := make(map[models.Vehicle]int)
	correct := make(map[models.Vehicle]int)
	for i, rec := range history {
		wins[rec.ActualWinner]++
		if predicted[i] == rec.ActualWinner {
			report.CorrectCount++
			correct[rec.ActualWinner]++
		}
	}
	report.Overall = float64(report.CorrectCount) / float64(report.TotalRecords)

	for _, vehicle := range models.Vehicles {
		winCount := wins[vehicle]
		if winCount == 0 {
			continue
		}
		report.PerVehicle = append(report.PerVehicle, VehicleAccuracy{
			Vehicle:  vehicle,
			Wins:     winCount,
			Correct:  correct[vehicle],
			Accuracy: float64(correct[vehicle]) / float64(winCount),
		})
	}

	sort.SliceStable(report.PerVehicle, func(i, j int) bool {
		a, b := report.PerVehicle[i], report.PerVehicle[j]
		if a.Accuracy != b.Accuracy {
			return a.Accuracy > b.Accuracy
		}
		return a.Wins > b.Wins
	})

	e.logger.WithFields(logrus.Fields{
		"mode":    report.Mode,
		"records": report.TotalRecords,
		"overall": report.Overall,
	}).Debug("Accuracy evaluation completed")
}
