package attention

import (
	"time"
)

// Calibrator establishes the per-session baseline mouth-shape ratio. It
// collects one sample per processed frame for a fixed wall-clock window at
// session start, then reduces the buffer to its arithmetic mean. The
// baseline is mutated exactly once per session, at that reduction, and is
// read-only until the next Start.
type Calibrator struct {
	cfg       Config
	active    bool
	startedAt time.Time
	samples   []float64
	baseline  float64
}

// NewCalibrator creates a Calibrator holding the default baseline.
func NewCalibrator(cfg Config) *Calibrator {
	return &Calibrator{
		cfg:      cfg,
		baseline: cfg.DefaultBaseline,
	}
}

// Start begins a calibration window: the baseline reverts to the default,
// the sample buffer is cleared, and the window clock starts at now.
func (c *Calibrator) Start(now time.Time) {
	c.active = true
	c.startedAt = now
	c.samples = c.samples[:0]
	c.baseline = c.cfg.DefaultBaseline
}

// Stop abandons any in-progress window without touching the baseline.
func (c *Calibrator) Stop() {
	c.active = false
	c.samples = c.samples[:0]
}

// Calibrating reports whether the calibration window is still open.
func (c *Calibrator) Calibrating() bool {
	return c.active
}

// Baseline returns the current baseline mouth-shape ratio.
func (c *Calibrator) Baseline() float64 {
	return c.baseline
}

// Observe records one mouth-shape sample. When the wall-clock window has
// elapsed, the buffer is reduced to its mean (default baseline when empty or
// non-finite), the window closes, and Observe reports true. Subsequent calls
// are no-ops until the next Start.
func (c *Calibrator) Observe(ratio float64, now time.Time) bool {
	if !c.active {
		return false
	}

	c.samples = append(c.samples, ratio)

	if now.Sub(c.startedAt) < c.cfg.CalibrationTime {
		return false
	}

	c.baseline = reduceSamples(c.samples, c.cfg.DefaultBaseline)
	c.active = false
	c.samples = c.samples[:0]
	return true
}

// reduceSamples averages the collected ratios, falling back to def when the
// buffer is empty or the mean is not a finite number.
func reduceSamples(samples []float64, def float64) float64 {
	if len(samples) == 0 {
		return def
	}
	var sum float64
	for _, s := range samples {
		sum += s
	}
	return SafeNumber(sum/float64(len(samples)), def)
}
