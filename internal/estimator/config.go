package estimator

import (
	"fmt"

	"github.com/yourusername/racing-predictor/internal/models"
	"github.com/yourusername/racing-predictor/internal/refdata"
)

// Mode selects whether vehicles are ranked by minimum adjusted course time
// or maximum blended speed. The historical formula variants are all
// expressible as a (mode, blend) pair.
type Mode string

// Scoring modes
const (
	ModeTime  Mode = "time"
	ModeSpeed Mode = "speed"
)

// ScoringConfig parameterizes the estimator. When UseLongSegment is set the
// share triple is derived from the long-segment flag instead of Blend.
type ScoringConfig struct {
	Mode           Mode
	Blend          refdata.Blend
	UseLongSegment bool
}

// DefaultScoringConfig returns the canonical configuration: time-based
// scoring over the long-segment allocation.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Mode:           ModeTime,
		Blend:          refdata.BlendConfident,
		UseLongSegment: true,
	}
}

// Validate checks the mode and the share invariant
func (c ScoringConfig) Validate() error {
	if c.Mode != ModeTime && c.Mode != ModeSpeed {
		return fmt.Errorf("unknown scoring mode %q", c.Mode)
	}
	if !c.UseLongSegment {
		sum := c.Blend.Sum()
		if sum < 1.0-shareTolerance || sum > 1.0+shareTolerance {
			return fmt.Errorf("blend shares sum to %v, want 1.0", sum)
		}
	}
	return nil
}

// Method returns the prediction method tag matching the scoring mode
func (c ScoringConfig) Method() models.Method {
	if c.Mode == ModeSpeed {
		return models.MethodSpeedBased
	}
	return models.MethodTimeBased
}

const shareTolerance = 1e-6
