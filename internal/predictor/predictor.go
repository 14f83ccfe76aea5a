// Package predictor orchestrates winner prediction: exact historical
// lookup first, then order-independent similar lookup, then the estimator
// calibrated by hidden-road inference.
package predictor

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/racing-predictor/internal/estimator"
	"github.com/yourusername/racing-predictor/internal/inference"
	"github.com/yourusername/racing-predictor/internal/models"
)

// DefaultSimilarMatchMinimum is the match-count bar for trusting the
// similar-match group. Observed variants used 1; 5 is the default and 1
// remains the relaxed fallback once the history is large enough.
const DefaultSimilarMatchMinimum = 5

// Config carries the tunables of the decision chain
type Config struct {
	Scoring                estimator.ScoringConfig
	SimilarMatchMinimum    int
	MinHistoryForInference int
}

// DefaultConfig returns the canonical thresholds
func DefaultConfig() Config {
	return Config{
		Scoring:                estimator.DefaultScoringConfig(),
		SimilarMatchMinimum:    DefaultSimilarMatchMinimum,
		MinHistoryForInference: inference.DefaultMinHistory,
	}
}

// Predictor evaluates race setups against accumulated history
type Predictor struct {
	cfg    Config
	cache  *resultCache
	logger *logrus.Logger
}

// NewPredictor creates a predictor. A nil logger falls back to a default one.
func NewPredictor(cfg Config, logger *logrus.Logger) *Predictor {
	if logger == nil {
		logger = logrus.New()
	}
	if cfg.SimilarMatchMinimum <= 0 {
		cfg.SimilarMatchMinimum = DefaultSimilarMatchMinimum
	}
	if cfg.MinHistoryForInference <= 0 {
		cfg.MinHistoryForInference = inference.DefaultMinHistory
	}
	return &Predictor{
		cfg:    cfg,
		cache:  newResultCache(),
		logger: logger,
	}
}

// Predict produces the prediction for one setup. The result is a pure
// function of (setup, history): repeated calls return the same value, which
// is what makes the result cacheable per history generation.
func (p *Predictor) Predict(setup models.RaceSetup, history []models.HistoryRecord) (models.PredictionResult, error) {
	if err := setup.Validate(); err != nil {
		return models.PredictionResult{}, fmt.Errorf("invalid race setup: %w", err)
	}

	if cached, ok := p.cache.get(setup, len(history)); ok {
		return cached, nil
	}

	result, err := p.predict(setup, history)
	if err != nil {
		return models.PredictionResult{}, err
	}

	p.cache.put(setup, len(history), result)
	p.logger.WithFields(logrus.Fields{
		"position":  setup.Position,
		"road":      setup.VisibleRoad,
		"predicted": result.PredictedVehicle,
		"method":    result.Method,
	}).Debug("Prediction computed")
	return result, nil
}

func (p *Predictor) predict(setup models.RaceSetup, history []models.HistoryRecord) (models.PredictionResult, error) {
	inferred := inference.Infer(setup.VisibleRoad, setup.Position, history, p.cfg.MinHistoryForInference)
	base := models.PredictionResult{
		HiddenRoads:     inferred.HiddenRoads,
		HiddenPositions: inferred.HiddenPositions,
		LongSegment:     inferred.LongSegment,
	}

	if exact := filterRecords(history, setup, models.HistoryRecord.MatchesSetupExact); len(exact) > 0 {
		winner, confidence := majorityWinner(exact, setup)
		base.PredictedVehicle = winner
		base.Method = models.MethodHistoricalExact
		base.Confidence = &confidence
		return base, nil
	}

	similar := filterRecords(history, setup, models.HistoryRecord.MatchesSetupSimilar)
	if p.trustSimilarGroup(len(similar), len(history)) {
		winner, confidence := majorityWinner(similar, setup)
		base.PredictedVehicle = winner
		base.Method = models.MethodHistoricalSimilar
		base.Confidence = &confidence
		return base, nil
	}

	winner, _, err := estimator.Predict(p.cfg.Scoring, estimator.Inputs{
		Setup:           setup,
		HiddenRoads:     inferred.HiddenRoads,
		HiddenPositions: inferred.HiddenPositions,
		LongSegment:     inferred.LongSegment,
	})
	if err != nil {
		return models.PredictionResult{}, err
	}
	base.PredictedVehicle = winner
	base.Method = p.cfg.Scoring.Method()
	return base, nil
}

// trustSimilarGroup applies the configurable match-count bar, relaxing it
// to a single match once the overall history is past the inference gate.
func (p *Predictor) trustSimilarGroup(matches, total int) bool {
	if matches >= p.cfg.SimilarMatchMinimum {
		return true
	}
	return matches >= 1 && total >= p.cfg.MinHistoryForInference
}

func filterRecords(history []models.HistoryRecord, setup models.RaceSetup, match func(models.HistoryRecord, models.RaceSetup) bool) []models.HistoryRecord {
	var out []models.HistoryRecord
	for _, rec := range history {
		if match(rec, setup) {
			out = append(out, rec)
		}
	}
	return out
}

// majorityWinner returns the most frequent actual winner among the group,
// restricted to the setup's vehicles, with first-seen order breaking ties.
// The confidence is that winner's share of the whole group.
func majorityWinner(group []models.HistoryRecord, setup models.RaceSetup) (models.Vehicle, float64) {
	counts := make(map[models.Vehicle]int, 3)
	order := make([]models.Vehicle, 0, 3)
	for _, rec := range group {
		if !setup.Contains(rec.ActualWinner) {
			continue
		}
		if _, seen := counts[rec.ActualWinner]; !seen {
			order = append(order, rec.ActualWinner)
		}
		counts[rec.ActualWinner]++
	}
	if len(order) == 0 {
		// Group exists but no winner overlaps the current vehicles; fall
		// back to the first slot so the caller still gets a stable answer.
		return setup.Vehicles[0], 0
	}

	best := order[0]
	for _, v := range order[1:] {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return best, float64(counts[best]) / float64(len(group))
}
