package refdata

import "github.com/yourusername/racing-predictor/internal/models"

// positionWeights are the multiplicative factors applied to a segment's
// effective speed when it is traversed under the given vantage point.
var positionWeights = map[models.Position]float64{
	models.PositionLeft:   0.8,
	models.PositionCenter: 1.0,
	models.PositionRight:  1.3,
}

// PositionWeight returns the speed factor for a vantage point. Unknown
// positions fall back to the neutral center weighting.
func PositionWeight(p models.Position) float64 {
	if w, ok := positionWeights[p]; ok {
		return w
	}
	return positionWeights[models.PositionCenter]
}

// Blend assigns a fractional distance share to each of the three segments:
// visible first, then the two hidden slots. Shares sum to 1.0.
type Blend [3]float64

// Fixed blends observed across the formula variants. The confident blend
// leans on the observed segment, the cautious blend spreads the shares when
// the hidden segments are pure guesswork.
var (
	BlendConfident = Blend{0.6, 0.2, 0.2}
	BlendCautious  = Blend{0.4, 0.3, 0.3}
)

// Long-segment allocation: the long segment covers 0.46 of the course, the
// other two 0.27 each.
const (
	LongShare  = 0.46
	ShortShare = 0.27
)

// LongSegmentBlend builds the share triple with the long share on the
// flagged segment
func LongSegmentBlend(long models.Segment) Blend {
	b := Blend{ShortShare, ShortShare, ShortShare}
	switch long {
	case models.SegmentHidden1:
		b[1] = LongShare
	case models.SegmentHidden2:
		b[2] = LongShare
	default:
		b[0] = LongShare
	}
	return b
}

// Sum returns the total of the three shares
func (b Blend) Sum() float64 {
	return b[0] + b[1] + b[2]
}
