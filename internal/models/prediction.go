package models

import "fmt"

// Method describes which decision path produced a prediction
type Method string

// Prediction methods, highest-confidence source first
const (
	MethodHistoricalExact   Method = "historical_exact"
	MethodHistoricalSimilar Method = "historical_similar"
	MethodTimeBased         Method = "time_based"
	MethodSpeedBased        Method = "speed_based"
	MethodBlended           Method = "blended"
)

// IsHistorical reports whether the method was derived from stored outcomes
// rather than the estimator
func (m Method) IsHistorical() bool {
	return m == MethodHistoricalExact || m == MethodHistoricalSimilar
}

// ParseMethod converts the stored string identifier to a Method
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodHistoricalExact, MethodHistoricalSimilar, MethodTimeBased,
		MethodSpeedBased, MethodBlended:
		return Method(s), nil
	}
	return "", fmt.Errorf("unknown prediction method %q", s)
}

// PredictionResult is the immutable outcome of evaluating one RaceSetup.
// Confidence is only present for history-derived predictions; estimator
// predictions carry nil.
type PredictionResult struct {
	PredictedVehicle Vehicle     `json:"predicted_vehicle"`
	Method           Method      `json:"method"`
	Confidence       *float64    `json:"confidence,omitempty"`
	HiddenRoads      [2]RoadType `json:"hidden_roads"`
	HiddenPositions  [2]Position `json:"hidden_positions"`
	LongSegment      Segment     `json:"long_segment"`
}

// MeetsThreshold reports whether the confidence is known and at least threshold
func (p PredictionResult) MeetsThreshold(threshold float64) bool {
	return p.Confidence != nil && *p.Confidence >= threshold
}
