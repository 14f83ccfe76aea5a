package models

// RaceSetup captures the partially observed state of a race at prediction
// time: the vantage point, the one visible road segment, and the three
// competing vehicles in slot order. Vehicles may repeat.
type RaceSetup struct {
	Position    Position   `json:"position" validate:"required"`
	VisibleRoad RoadType   `json:"visible_road" validate:"required"`
	Vehicles    [3]Vehicle `json:"vehicles" validate:"required"`
}

// Validate checks every field against the closed enums
func (s RaceSetup) Validate() error {
	if !s.Position.IsValid() {
		return ErrUnknownPosition
	}
	if !s.VisibleRoad.IsValid() {
		return ErrUnknownRoadType
	}
	for _, v := range s.Vehicles {
		if !v.IsValid() {
			return ErrUnknownVehicle
		}
	}
	return nil
}

// Contains reports whether the vehicle occupies one of the three slots
func (s RaceSetup) Contains(v Vehicle) bool {
	return s.Vehicles[0] == v || s.Vehicles[1] == v || s.Vehicles[2] == v
}

// VehicleSet returns the distinct vehicles as a membership set
func (s RaceSetup) VehicleSet() map[Vehicle]bool {
	set := make(map[Vehicle]bool, 3)
	for _, v := range s.Vehicles {
		set[v] = true
	}
	return set
}
