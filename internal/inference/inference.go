// Package inference estimates the unobserved parts of a race course from
// accumulated history: the two hidden surfaces, the vantage points they are
// traversed under, and which segment is the long one.
package inference

import (
	"github.com/yourusername/racing-predictor/internal/models"
	"github.com/yourusername/racing-predictor/internal/refdata"
)

// DefaultMinHistory gates majority-vote inference: below this many total
// records the per-combination frequencies are small-sample noise and the
// static priors are used instead.
const DefaultMinHistory = 20

// Result is the resolved hidden-course estimate plus how it was obtained
type Result struct {
	HiddenRoads     [2]models.RoadType
	HiddenPositions [2]models.Position
	LongSegment     models.Segment
	FromHistory     bool
	SampleSize      int
}

// combination is the 4-tuple the mode is computed over
type combination struct {
	road1 models.RoadType
	pos1  models.Position
	road2 models.RoadType
	pos2  models.Position
}

// Infer resolves the hidden segments for a (visibleRoad, position) pair.
// With fewer than minHistory total records, or no matching records at all,
// it falls back to the static hidden-road map with center positions and the
// visible segment flagged long.
func Infer(visible models.RoadType, position models.Position, history []models.HistoryRecord, minHistory int) Result {
	if minHistory <= 0 {
		minHistory = DefaultMinHistory
	}

	fallback := Result{
		HiddenRoads:     refdata.HiddenRoads(visible),
		HiddenPositions: [2]models.Position{models.PositionCenter, models.PositionCenter},
		LongSegment:     models.SegmentVisible,
	}

	if len(history) < minHistory {
		return fallback
	}

	matched := make([]models.HistoryRecord, 0, len(history))
	for _, rec := range history {
		if rec.VisibleRoad == visible && rec.Position == position {
			matched = append(matched, rec)
		}
	}
	if len(matched) == 0 {
		return fallback
	}

	combo := modeCombination(matched)
	long := modeLongSegment(matched)
	return Result{
		HiddenRoads:     [2]models.RoadType{combo.road1, combo.road2},
		HiddenPositions: [2]models.Position{combo.pos1, combo.pos2},
		LongSegment:     long,
		FromHistory:     true,
		SampleSize:      len(matched),
	}
}

// modeCombination returns the most frequent hidden-segment 4-tuple among the
// matched records. Ties resolve to the combination seen first, keeping the
// result deterministic for a fixed record order.
func modeCombination(matched []models.HistoryRecord) combination {
	counts := make(map[combination]int, len(matched))
	order := make([]combination, 0, len(matched))
	for _, rec := range matched {
		c := combination{
			road1: rec.HiddenRoad1,
			pos1:  rec.Hidden1Pos,
			road2: rec.HiddenRoad2,
			pos2:  rec.Hidden2Pos,
		}
		if _, seen := counts[c]; !seen {
			order = append(order, c)
		}
		counts[c]++
	}

	best := order[0]
	for _, c := range order[1:] {
		if counts[c] > counts[best] {
			best = c
		}
	}
	return best
}

// modeLongSegment returns the most frequent long-segment flag among the
// matched records, first-seen order breaking ties.
func modeLongSegment(matched []models.HistoryRecord) models.Segment {
	counts := make(map[models.Segment]int, 3)
	order := make([]models.Segment, 0, 3)
	for _, rec := range matched {
		seg := rec.LongSegment
		if !seg.IsValid() {
			seg = models.DefaultLongSegment
		}
		if _, seen := counts[seg]; !seen {
			order = append(order, seg)
		}
		counts[seg]++
	}

	best := order[0]
	for _, seg := range order[1:] {
		if counts[seg] > counts[best] {
			best = seg
		}
	}
	return best
}
