// Package attention derives a 0-100 attention index from per-frame face landmarks.
//
// The pipeline has three stages: per-frame signal extraction (eye openness,
// head stability, facial deviation), a short baseline-calibration phase at
// session start, and exponentially smoothed scoring on a fixed cadence with a
// bounded rolling history.
package attention

import "time"

// Default tuning values. These are heuristics, not validated psychological
// measures; see DefaultConfig for how they combine.
const (
	DefaultCalibrationTime = 3000 * time.Millisecond
	DefaultSampleInterval  = 200 * time.Millisecond
	DefaultHistoryPoints   = 150
	DefaultBaseline        = 0.3
)

// Config holds every tunable of the attention pipeline. A Config value is
// fixed at construction; tests shorten the calibration window through it.
type Config struct {
	// CalibrationTime is the wall-clock length of the baseline-calibration
	// phase after a session starts.
	CalibrationTime time.Duration

	// SampleInterval is the fixed scoring cadence. The sampler is strictly
	// fixed-period: the score timer fires at this interval and each firing
	// either scores once or is skipped entirely.
	SampleInterval time.Duration

	// HistoryPoints bounds the rolling score history (oldest evicted).
	HistoryPoints int

	// DefaultBaseline is the mouth-shape ratio used before calibration
	// completes and when calibration collects no usable samples.
	DefaultBaseline float64

	// SignalAlpha is the smoothing factor for the three per-frame signals.
	SignalAlpha float64

	// ScoreAlpha is the smoothing factor for the combined attention score.
	ScoreAlpha float64

	// EyeWeight, HeadWeight and FacialWeight combine the smoothed signals
	// into the raw attention score. They are expected to sum to 1.
	EyeWeight    float64
	HeadWeight   float64
	FacialWeight float64

	// ClosedEyeEAR is the eye-aspect ratio mapped to a raw eye score of 0;
	// ClosedEyeEAR+EyeEARSpan maps to 100.
	ClosedEyeEAR float64
	EyeEARSpan   float64

	// HeadMoveLimit is the normalized per-frame nose displacement at which
	// head stability bottoms out.
	HeadMoveLimit float64

	// DeviationLimit is the relative mouth-shape deviation at which the
	// facial score saturates at 100.
	DeviationLimit float64
}

// DefaultConfig returns the standard pipeline tuning.
func DefaultConfig() Config {
	return Config{
		CalibrationTime: DefaultCalibrationTime,
		SampleInterval:  DefaultSampleInterval,
		HistoryPoints:   DefaultHistoryPoints,
		DefaultBaseline: DefaultBaseline,
		SignalAlpha:     0.2,
		ScoreAlpha:      0.25,
		EyeWeight:       0.4,
		HeadWeight:      0.4,
		FacialWeight:    0.2,
		ClosedEyeEAR:    0.14,
		EyeEARSpan:      0.20,
		HeadMoveLimit:   0.03,
		DeviationLimit:  0.8,
	}
}
