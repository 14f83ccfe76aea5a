// Package estimator computes per-vehicle scalar scores for a race whose
// hidden segments have been resolved, and picks the winner from them.
package estimator

import (
	"fmt"

	"github.com/yourusername/racing-predictor/internal/models"
	"github.com/yourusername/racing-predictor/internal/refdata"
)

// Inputs is a RaceSetup with the unobserved parameters resolved, either by
// inference over history or by the static priors.
type Inputs struct {
	Setup           models.RaceSetup
	HiddenRoads     [2]models.RoadType
	HiddenPositions [2]models.Position
	LongSegment     models.Segment
}

// segment pairs a surface with the vantage point it is traversed under
type segment struct {
	road models.RoadType
	pos  models.Position
}

// Predict scores the three vehicle slots and returns the winning vehicle.
// Ties resolve to the earliest slot in input order, so repeated calls with
// identical inputs always agree.
func Predict(cfg ScoringConfig, in Inputs) (models.Vehicle, [3]float64, error) {
	scores, err := Scores(cfg, in)
	if err != nil {
		return "", scores, err
	}

	best := 0
	for i := 1; i < 3; i++ {
		if cfg.Mode == ModeTime {
			if scores[i] < scores[best] {
				best = i
			}
		} else if scores[i] > scores[best] {
			best = i
		}
	}
	return in.Setup.Vehicles[best], scores, nil
}

// Scores computes the adjusted score for each vehicle slot. In time mode a
// lower score is better, in speed mode a higher one.
func Scores(cfg ScoringConfig, in Inputs) ([3]float64, error) {
	var scores [3]float64
	if err := cfg.Validate(); err != nil {
		return scores, err
	}
	if err := in.Setup.Validate(); err != nil {
		return scores, err
	}

	shares := cfg.Blend
	if cfg.UseLongSegment {
		shares = refdata.LongSegmentBlend(in.LongSegment)
	}

	segments := [3]segment{
		{road: in.Setup.VisibleRoad, pos: in.Setup.Position},
		{road: in.HiddenRoads[0], pos: in.HiddenPositions[0]},
		{road: in.HiddenRoads[1], pos: in.HiddenPositions[1]},
	}

	for i, vehicle := range in.Setup.Vehicles {
		score, err := scoreVehicle(cfg, vehicle, in.Setup.VisibleRoad, segments, shares)
		if err != nil {
			return scores, err
		}
		scores[i] = score
	}
	return scores, nil
}

func scoreVehicle(cfg ScoringConfig, vehicle models.Vehicle, visible models.RoadType, segments [3]segment, shares refdata.Blend) (float64, error) {
	total := 0.0
	for i, seg := range segments {
		speed, ok := refdata.Speed(vehicle, seg.road)
		if !ok || speed <= 0 {
			return 0, fmt.Errorf("%w: vehicle %s on %s", models.ErrMissingReferenceSpeed, vehicle, seg.road)
		}
		effective := speed * refdata.PositionWeight(seg.pos)
		if cfg.Mode == ModeTime {
			total += shares[i] / effective
		} else {
			total += shares[i] * effective
		}
	}

	factor := adjustmentFactor(vehicle, visible)
	if cfg.Mode == ModeTime {
		return total * factor, nil
	}
	return total / factor, nil
}

// adjustmentFactor models the two-regime vehicle-property rule: on rough
// visible terrain handling shortens the course time, on smooth terrain raw
// power does. The two regimes use different formulas.
func adjustmentFactor(vehicle models.Vehicle, visible models.RoadType) float64 {
	profile, ok := refdata.Profile(vehicle)
	if !ok {
		return 1.0
	}
	if visible.IsRough() {
		return 1.0 - profile.Handling*0.2
	}
	return 1.0 / profile.Power
}
