package attention

import (
	"math"

	"github.com/RajSingh-webdev/FocusLens/internal/detector"
)

// SafeNumber returns v if it is a finite number, else fallback. It guards
// every place a division or external coordinate could yield NaN or Inf.
func SafeNumber(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// Clamp restricts v to [0, 100]. Non-finite input collapses to 0.
func Clamp(v float64) float64 {
	v = SafeNumber(v, 0)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// Distance2D returns the Euclidean distance between two landmark points,
// ignoring depth. A missing point yields 0.
func Distance2D(a, b *detector.Point3D) float64 {
	if a == nil || b == nil {
		return 0
	}
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Smooth blends prev and next with an exponential moving average:
// prev*(1-alpha) + next*alpha. This is the single mechanism used wherever
// temporal stability is needed instead of frame-to-frame jitter.
func Smooth(prev, next, alpha float64) float64 {
	return prev*(1-alpha) + next*alpha
}
