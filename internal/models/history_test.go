package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseRecord() HistoryRecord {
	return HistoryRecord{
		Position:     PositionCenter,
		VisibleRoad:  RoadHighway,
		HiddenRoad1:  RoadExpressway,
		Hidden1Pos:   PositionCenter,
		HiddenRoad2:  RoadDirt,
		Hidden2Pos:   PositionCenter,
		LongSegment:  SegmentVisible,
		Vehicle1:     VehicleSuper,
		Vehicle2:     VehicleCar,
		Vehicle3:     VehicleMoto,
		ActualWinner: VehicleCar,
	}
}

// TestHistoryRecordValidate tests the enum checks and the winner invariant
func TestHistoryRecordValidate(t *testing.T) {
	assert.NoError(t, baseRecord().Validate())

	rec := baseRecord()
	rec.ActualWinner = VehicleTruck
	assert.ErrorIs(t, rec.Validate(), ErrInvalidWinner)

	rec = baseRecord()
	rec.VisibleRoad = "lava"
	assert.ErrorIs(t, rec.Validate(), ErrUnknownRoadType)

	rec = baseRecord()
	rec.Hidden2Pos = "X"
	assert.ErrorIs(t, rec.Validate(), ErrUnknownPosition)

	rec = baseRecord()
	rec.LongSegment = "Middle"
	assert.ErrorIs(t, rec.Validate(), ErrUnknownSegment)
}

// TestMatchesSetupExact tests the slot-order sensitive matcher
func TestMatchesSetupExact(t *testing.T) {
	rec := baseRecord()
	setup := RaceSetup{
		Position:    PositionCenter,
		VisibleRoad: RoadHighway,
		Vehicles:    [3]Vehicle{VehicleSuper, VehicleCar, VehicleMoto},
	}
	assert.True(t, rec.MatchesSetupExact(setup))

	reordered := setup
	reordered.Vehicles = [3]Vehicle{VehicleCar, VehicleSuper, VehicleMoto}
	assert.False(t, rec.MatchesSetupExact(reordered))

	otherRoad := setup
	otherRoad.VisibleRoad = RoadDirt
	assert.False(t, rec.MatchesSetupExact(otherRoad))
}

// TestMatchesSetupSimilar tests the order-independent matcher
func TestMatchesSetupSimilar(t *testing.T) {
	rec := baseRecord()
	setup := RaceSetup{
		Position:    PositionCenter,
		VisibleRoad: RoadHighway,
		Vehicles:    [3]Vehicle{VehicleMoto, VehicleSuper, VehicleCar},
	}
	assert.True(t, rec.MatchesSetupSimilar(setup))

	otherVehicle := setup
	otherVehicle.Vehicles = [3]Vehicle{VehicleMoto, VehicleSuper, VehicleTruck}
	assert.False(t, rec.MatchesSetupSimilar(otherVehicle))

	otherPosition := setup
	otherPosition.Position = PositionLeft
	assert.False(t, rec.MatchesSetupSimilar(otherPosition))
}

// TestApplyLegacyDefaults tests backfilling records from older schemas
func TestApplyLegacyDefaults(t *testing.T) {
	rec := HistoryRecord{
		Position:     PositionCenter,
		VisibleRoad:  RoadHighway,
		Vehicle1:     VehicleSuper,
		Vehicle2:     VehicleCar,
		Vehicle3:     VehicleMoto,
		ActualWinner: VehicleCar,
	}
	rec.ApplyLegacyDefaults()

	assert.Equal(t, RoadDirt, rec.HiddenRoad1)
	assert.Equal(t, PositionCenter, rec.Hidden1Pos)
	assert.Equal(t, RoadPotholes, rec.HiddenRoad2)
	assert.Equal(t, PositionRight, rec.Hidden2Pos)
	assert.Equal(t, SegmentVisible, rec.LongSegment)
	assert.NoError(t, rec.Validate())

	// already-valid fields are untouched
	full := baseRecord()
	full.ApplyLegacyDefaults()
	assert.Equal(t, RoadExpressway, full.HiddenRoad1)
}

// TestParseSegmentEmptyDefaultsToVisible tests the legacy-row convenience
func TestParseSegmentEmptyDefaultsToVisible(t *testing.T) {
	seg, err := ParseSegment("")
	assert.NoError(t, err)
	assert.Equal(t, SegmentVisible, seg)

	_, err = ParseSegment("Middle")
	assert.ErrorIs(t, err, ErrUnknownSegment)
}

// TestMethodIsHistorical tests the historical/estimator method split
func TestMethodIsHistorical(t *testing.T) {
	assert.True(t, MethodHistoricalExact.IsHistorical())
	assert.True(t, MethodHistoricalSimilar.IsHistorical())
	assert.False(t, MethodTimeBased.IsHistorical())
	assert.False(t, MethodSpeedBased.IsHistorical())
}
