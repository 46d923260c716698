package analysis

// DefaultSmoothingAlpha is the smoothing parameter applied to reward
// curves before they are persisted or plotted
const DefaultSmoothingAlpha = 0.167

// RewardSmoother applies exponentially weighted smoothing to noisy
// per-episode reward curves. The first observation seeds the average.
type RewardSmoother struct {
	alpha       float64
	current     float64
	initialized bool
	count       int
}

// NewRewardSmoother creates a smoother with the given alpha. Values
// outside (0, 1] fall back to the default.
func NewRewardSmoother(alpha float64) *RewardSmoother {
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultSmoothingAlpha
	}
	return &RewardSmoother{alpha: alpha}
}

// Update folds one observation in and returns the smoothed value
func (s *RewardSmoother) Update(value float64) float64 {
	s.count++
	if !s.initialized {
		s.current = value
		s.initialized = true
	} else {
		s.current = s.alpha*value + (1-s.alpha)*s.current
	}
	return s.current
}

// Current returns the latest smoothed value, zero before the first
// observation
func (s *RewardSmoother) Current() float64 {
	if !s.initialized {
		return 0.0
	}
	return s.current
}

// Count returns how many observations the smoother has absorbed
func (s *RewardSmoother) Count() int {
	return s.count
}

// Smooth smooths a whole curve in order, leaving the smoother primed
// with the curve's tail
func (s *RewardSmoother) Smooth(values []float64) []float64 {
	smoothed := make([]float64, len(values))
	for i, value := range values {
		smoothed[i] = s.Update(value)
	}
	return smoothed
}

// Reset returns the smoother to its uninitialized state
func (s *RewardSmoother) Reset() {
	s.current = 0.0
	s.initialized = false
	s.count = 0
}
