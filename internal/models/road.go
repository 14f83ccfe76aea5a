package models

import "fmt"

// RoadType identifies one of the six surface categories a race segment can have.
type RoadType string

// Road surface categories
const (
	RoadExpressway RoadType = "expressway"
	RoadHighway    RoadType = "highway"
	RoadDirt       RoadType = "dirt"
	RoadPotholes   RoadType = "potholes"
	RoadBumpy      RoadType = "bumpy"
	RoadDesert     RoadType = "desert"
)

// RoadTypes lists all surface categories in their canonical order
var RoadTypes = []RoadType{
	RoadExpressway, RoadHighway, RoadDirt, RoadPotholes, RoadBumpy, RoadDesert,
}

// IsValid reports whether the road type is one of the known categories
func (r RoadType) IsValid() bool {
	switch r {
	case RoadExpressway, RoadHighway, RoadDirt, RoadPotholes, RoadBumpy, RoadDesert:
		return true
	default:
		return false
	}
}

// IsRough reports whether the surface falls in the rough-terrain regime
// where handling dominates over engine power
func (r RoadType) IsRough() bool {
	switch r {
	case RoadDirt, RoadPotholes, RoadBumpy, RoadDesert:
		return true
	default:
		return false
	}
}

// ParseRoadType converts a string identifier to a RoadType
func ParseRoadType(s string) (RoadType, error) {
	r := RoadType(s)
	if !r.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRoadType, s)
	}
	return r, nil
}

// Position is the lateral vantage point from which the visible segment is observed
type Position string

// Observation vantage points
const (
	PositionLeft   Position = "L"
	PositionCenter Position = "C"
	PositionRight  Position = "R"
)

// Positions lists all vantage points
var Positions = []Position{PositionLeft, PositionCenter, PositionRight}

// IsValid reports whether the position is one of L, C, R
func (p Position) IsValid() bool {
	switch p {
	case PositionLeft, PositionCenter, PositionRight:
		return true
	default:
		return false
	}
}

// ParsePosition converts a string identifier to a Position
func ParsePosition(s string) (Position, error) {
	p := Position(s)
	if !p.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPosition, s)
	}
	return p, nil
}

// Segment identifies which of the three road stretches of a course a value refers to
type Segment string

// Course segments
const (
	SegmentVisible Segment = "Visible"
	SegmentHidden1 Segment = "Hidden1"
	SegmentHidden2 Segment = "Hidden2"
)

// IsValid reports whether the segment identifier is known
func (s Segment) IsValid() bool {
	switch s {
	case SegmentVisible, SegmentHidden1, SegmentHidden2:
		return true
	default:
		return false
	}
}

// ParseSegment converts a string identifier to a Segment, defaulting to Visible
// for empty input so legacy rows without a long-road column stay loadable
func ParseSegment(s string) (Segment, error) {
	if s == "" {
		return SegmentVisible, nil
	}
	seg := Segment(s)
	if !seg.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSegment, s)
	}
	return seg, nil
}
