package models

import "time"

// Fallback values applied when ingesting records written by older schema
// versions that tracked neither hidden roads nor the long segment.
const (
	DefaultHiddenRoad1 = RoadDirt
	DefaultHidden1Pos  = PositionCenter
	DefaultHiddenRoad2 = RoadPotholes
	DefaultHidden2Pos  = PositionRight
	DefaultLongSegment = SegmentVisible
)

// HistoryRecord is one confirmed race outcome. Records are append-only:
// once a record enters the history they are never mutated, and the whole
// collection is rewritten on save rather than patched in place.
type HistoryRecord struct {
	Position     Position  `json:"position" validate:"required"`
	VisibleRoad  RoadType  `json:"visible_road" validate:"required"`
	HiddenRoad1  RoadType  `json:"hidden_road_1" validate:"required"`
	Hidden1Pos   Position  `json:"hidden_road_1_position" validate:"required"`
	HiddenRoad2  RoadType  `json:"hidden_road_2" validate:"required"`
	Hidden2Pos   Position  `json:"hidden_road_2_position" validate:"required"`
	LongSegment  Segment   `json:"long_road_segment" validate:"required"`
	Vehicle1     Vehicle   `json:"vehicle_1" validate:"required"`
	Vehicle2     Vehicle   `json:"vehicle_2" validate:"required"`
	Vehicle3     Vehicle   `json:"vehicle_3" validate:"required"`
	ActualWinner Vehicle   `json:"actual_winner" validate:"required"`
	Prediction   Vehicle   `json:"prediction_at_save_time"`
	PredMethod   Method    `json:"prediction_method_at_save_time"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// Validate checks the enum fields and the winner invariant
func (r HistoryRecord) Validate() error {
	for _, road := range []RoadType{r.VisibleRoad, r.HiddenRoad1, r.HiddenRoad2} {
		if !road.IsValid() {
			return ErrUnknownRoadType
		}
	}
	for _, pos := range []Position{r.Position, r.Hidden1Pos, r.Hidden2Pos} {
		if !pos.IsValid() {
			return ErrUnknownPosition
		}
	}
	if !r.LongSegment.IsValid() {
		return ErrUnknownSegment
	}
	for _, v := range []Vehicle{r.Vehicle1, r.Vehicle2, r.Vehicle3, r.ActualWinner} {
		if !v.IsValid() {
			return ErrUnknownVehicle
		}
	}
	if !r.HasVehicle(r.ActualWinner) {
		return ErrInvalidWinner
	}
	return nil
}

// Vehicles returns the three competitors in slot order
func (r HistoryRecord) Vehicles() [3]Vehicle {
	return [3]Vehicle{r.Vehicle1, r.Vehicle2, r.Vehicle3}
}

// HasVehicle reports whether the vehicle raced in this record
func (r HistoryRecord) HasVehicle(v Vehicle) bool {
	return r.Vehicle1 == v || r.Vehicle2 == v || r.Vehicle3 == v
}

// MatchesSetupExact reports whether the record matches the setup with the
// same vehicles in the same slot order
func (r HistoryRecord) MatchesSetupExact(s RaceSetup) bool {
	return r.Position == s.Position &&
		r.VisibleRoad == s.VisibleRoad &&
		r.Vehicle1 == s.Vehicles[0] &&
		r.Vehicle2 == s.Vehicles[1] &&
		r.Vehicle3 == s.Vehicles[2]
}

// MatchesSetupSimilar reports whether the record matches the setup with the
// same vehicles as a set, regardless of slot order
func (r HistoryRecord) MatchesSetupSimilar(s RaceSetup) bool {
	if r.Position != s.Position || r.VisibleRoad != s.VisibleRoad {
		return false
	}
	set := s.VehicleSet()
	return set[r.Vehicle1] && set[r.Vehicle2] && set[r.Vehicle3]
}

// ApplyLegacyDefaults backfills the fields older schema versions omitted
func (r *HistoryRecord) ApplyLegacyDefaults() {
	if !r.HiddenRoad1.IsValid() {
		r.HiddenRoad1 = DefaultHiddenRoad1
	}
	if !r.Hidden1Pos.IsValid() {
		r.Hidden1Pos = DefaultHidden1Pos
	}
	if !r.HiddenRoad2.IsValid() {
		r.HiddenRoad2 = DefaultHiddenRoad2
	}
	if !r.Hidden2Pos.IsValid() {
		r.Hidden2Pos = DefaultHidden2Pos
	}
	if !r.LongSegment.IsValid() {
		r.LongSegment = DefaultLongSegment
	}
}
