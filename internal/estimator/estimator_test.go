package estimator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/racing-predictor/internal/models"
	"github.com/yourusername/racing-predictor/internal/refdata"
)

func highwayInputs(vehicles [3]models.Vehicle) Inputs {
	return Inputs{
		Setup: models.RaceSetup{
			Position:    models.PositionCenter,
			VisibleRoad: models.RoadHighway,
			Vehicles:    vehicles,
		},
		HiddenRoads:     refdata.HiddenRoads(models.RoadHighway),
		HiddenPositions: [2]models.Position{models.PositionCenter, models.PositionCenter},
		LongSegment:     models.SegmentVisible,
	}
}

// TestPredictHighwayFavorsSuper tests that on a smooth highway course the
// power-heavy supercar beats a car and a motorcycle in time mode
func TestPredictHighwayFavorsSuper(t *testing.T) {
	in := highwayInputs([3]models.Vehicle{models.VehicleSuper, models.VehicleCar, models.VehicleMoto})

	winner, scores, err := Predict(DefaultScoringConfig(), in)
	require.NoError(t, err)
	assert.Equal(t, models.VehicleSuper, winner)

	// time mode: the winner carries the lowest adjusted course time
	assert.Less(t, scores[0], scores[1])
	assert.Less(t, scores[0], scores[2])
}

// TestPredictDeterministic tests that repeated evaluation of the same
// inputs yields the same winner and scores
func TestPredictDeterministic(t *testing.T) {
	in := highwayInputs([3]models.Vehicle{models.VehicleTruck, models.VehicleSUV, models.VehicleATV})
	cfg := DefaultScoringConfig()

	first, firstScores, err := Predict(cfg, in)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		winner, scores, err := Predict(cfg, in)
		require.NoError(t, err)
		assert.Equal(t, first, winner)
		assert.Equal(t, firstScores, scores)
	}
}

// TestPredictTieBreaksToFirstSlot tests that equal scores resolve to the
// earliest slot in input order
func TestPredictTieBreaksToFirstSlot(t *testing.T) {
	in := highwayInputs([3]models.Vehicle{models.VehicleSport, models.VehicleSport, models.VehicleSport})

	winner, scores, err := Predict(DefaultScoringConfig(), in)
	require.NoError(t, err)
	assert.Equal(t, scores[0], scores[1])
	assert.Equal(t, scores[1], scores[2])
	assert.Equal(t, in.Setup.Vehicles[0], winner)
}

// TestSpeedModePrefersHigherScore tests that in speed mode the winner
// carries the highest score
func TestSpeedModePrefersHigherScore(t *testing.T) {
	in := highwayInputs([3]models.Vehicle{models.VehicleSuper, models.VehicleCar, models.VehicleMoto})
	cfg := DefaultScoringConfig()
	cfg.Mode = ModeSpeed

	winner, scores, err := Predict(cfg, in)
	require.NoError(t, err)
	best := 0
	for i := 1; i < 3; i++ {
		if scores[i] > scores[best] {
			best = i
		}
	}
	assert.Equal(t, in.Setup.Vehicles[best], winner)
}

// TestRoughTerrainRewardsHandling tests the two-regime adjustment: on a
// rough visible surface high handling shortens the time more than high power
func TestRoughTerrainRewardsHandling(t *testing.T) {
	in := Inputs{
		Setup: models.RaceSetup{
			Position:    models.PositionCenter,
			VisibleRoad: models.RoadPotholes,
			Vehicles:    [3]models.Vehicle{models.VehicleSuper, models.VehicleBigbike, models.VehicleATV},
		},
		HiddenRoads:     refdata.HiddenRoads(models.RoadPotholes),
		HiddenPositions: [2]models.Position{models.PositionCenter, models.PositionCenter},
		LongSegment:     models.SegmentVisible,
	}

	winner, _, err := Predict(DefaultScoringConfig(), in)
	require.NoError(t, err)
	// the supercar dominates smooth courses but not a pothole course
	assert.NotEqual(t, models.VehicleSuper, winner)
}

// TestLongSegmentShiftsOutcome tests that moving the long share onto a
// hidden segment changes the share weighting
func TestLongSegmentShiftsOutcome(t *testing.T) {
	base := highwayInputs([3]models.Vehicle{models.VehicleSport, models.VehicleBigbike, models.VehicleCar})
	cfg := DefaultScoringConfig()

	visibleScores, err := Scores(cfg, base)
	require.NoError(t, err)

	shifted := base
	shifted.LongSegment = models.SegmentHidden2
	shiftedScores, err := Scores(cfg, shifted)
	require.NoError(t, err)

	assert.NotEqual(t, visibleScores, shiftedScores)
}

// TestPositionWeightAffectsScores tests that a right vantage point speeds
// up the visible segment relative to a left one
func TestPositionWeightAffectsScores(t *testing.T) {
	left := highwayInputs([3]models.Vehicle{models.VehicleCar, models.VehicleCar, models.VehicleCar})
	left.Setup.Position = models.PositionLeft
	right := left
	right.Setup.Position = models.PositionRight

	cfg := DefaultScoringConfig()
	leftScores, err := Scores(cfg, left)
	require.NoError(t, err)
	rightScores, err := Scores(cfg, right)
	require.NoError(t, err)

	// time mode: a faster visible segment means a lower total time
	assert.Less(t, rightScores[0], leftScores[0])
}

// TestPredictRejectsInvalidSetup tests enum validation on the way in
func TestPredictRejectsInvalidSetup(t *testing.T) {
	in := highwayInputs([3]models.Vehicle{models.VehicleCar, "hovercraft", models.VehicleMoto})

	_, _, err := Predict(DefaultScoringConfig(), in)
	assert.ErrorIs(t, err, models.ErrUnknownVehicle)
}

// TestScoringConfigValidate tests the share-sum check on fixed blends
func TestScoringConfigValidate(t *testing.T) {
	cfg := ScoringConfig{Mode: ModeTime, Blend: refdata.Blend{0.5, 0.2, 0.2}}
	assert.Error(t, cfg.Validate())

	cfg.Blend = refdata.BlendConfident
	assert.NoError(t, cfg.Validate())

	cfg.Mode = Mode("average")
	assert.Error(t, cfg.Validate())
}
