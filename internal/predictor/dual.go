package predictor

import (
	"github.com/yourusername/racing-predictor/internal/estimator"
	"github.com/yourusername/racing-predictor/internal/inference"
	"github.com/yourusername/racing-predictor/internal/models"
)

// DualPrediction holds the estimator answer and the history answer side by
// side, for callers that want to show both rather than the merged chain.
type DualPrediction struct {
	ByModel   models.PredictionResult
	ByHistory *models.PredictionResult
}

// PredictBoth evaluates the estimator unconditionally and the historical
// paths independently. ByHistory is nil when no exact or similar group
// clears the configured thresholds.
func (p *Predictor) PredictBoth(setup models.RaceSetup, history []models.HistoryRecord) (DualPrediction, error) {
	if err := setup.Validate(); err != nil {
		return DualPrediction{}, err
	}

	inferred := inference.Infer(setup.VisibleRoad, setup.Position, history, p.cfg.MinHistoryForInference)
	winner, _, err := estimator.Predict(p.cfg.Scoring, estimator.Inputs{
		Setup:           setup,
		HiddenRoads:     inferred.HiddenRoads,
		HiddenPositions: inferred.HiddenPositions,
		LongSegment:     inferred.LongSegment,
	})
	if err != nil {
		return DualPrediction{}, err
	}

	dual := DualPrediction{
		ByModel: models.PredictionResult{
			PredictedVehicle: winner,
			Method:           p.cfg.Scoring.Method(),
			HiddenRoads:      inferred.HiddenRoads,
			HiddenPositions:  inferred.HiddenPositions,
			LongSegment:      inferred.LongSegment,
		},
	}

	merged, err := p.Predict(setup, history)
	if err == nil && merged.Method.IsHistorical() {
		dual.ByHistory = &merged
	}
	return dual, nil
}
