package attention

import (
	"time"

	"github.com/RajSingh-webdev/FocusLens/internal/detector"
)

// Engagement labels derived from the attention score.
const (
	LabelHigh     = "High Engagement"
	LabelModerate = "Moderate Engagement"
	LabelLow      = "Low Engagement"
)

// EngagementLabel maps an attention score onto its display label:
// above 70 is high, 40-70 moderate, below 40 low.
func EngagementLabel(score float64) string {
	switch {
	case score > 70:
		return LabelHigh
	case score >= 40:
		return LabelModerate
	default:
		return LabelLow
	}
}

// Snapshot is a read-only view of the tracker state at one instant.
type Snapshot struct {
	Score          float64 `json:"score"`
	EyeActivity    float64 `json:"eye_activity"`
	HeadStability  float64 `json:"head_stability"`
	FacialMovement float64 `json:"facial_movement"`
	Label          string  `json:"label"`
	Baseline       float64 `json:"baseline"`
	Calibrating    bool    `json:"calibrating"`
	FaceDetected   bool    `json:"face_detected"`
}

// Tracker owns all per-session scoring state: the three smoothed signals,
// the calibrator, the combined attention score, and the bounded rolling
// history. It is driven from a single goroutine (the session pipeline) and
// is not safe for concurrent use; the session controller guards access.
type Tracker struct {
	cfg        Config
	extractor  *Extractor
	calibrator *Calibrator

	eyeActivity    float64
	headStability  float64
	facialMovement float64
	score          float64
	history        []float64
	faceDetected   bool
}

// NewTracker creates a Tracker in its reset state.
func NewTracker(cfg Config) *Tracker {
	t := &Tracker{
		cfg:        cfg,
		extractor:  NewExtractor(cfg),
		calibrator: NewCalibrator(cfg),
		history:    make([]float64, 0, cfg.HistoryPoints),
	}
	t.resetState()
	return t
}

func (t *Tracker) resetState() {
	t.eyeActivity = 0
	t.headStability = 100
	t.facialMovement = 0
	t.score = 0
	t.history = t.history[:0]
	t.faceDetected = false
	t.extractor.Reset()
}

// Start resets every per-session value to its default and opens the
// calibration window at now.
func (t *Tracker) Start(now time.Time) {
	t.resetState()
	t.calibrator.Start(now)
}

// Stop abandons calibration. Scored state is left in place so the last
// session's values remain readable until the next Start.
func (t *Tracker) Stop() {
	t.calibrator.Stop()
	t.faceDetected = false
}

// ProcessFrame consumes one frame's detection result. A nil face only drops
// the presence flag; the state machine waits for the face to reappear.
// While calibrating, extraction feeds the sample buffer (and advances the
// nose position) but smoothing is suppressed.
func (t *Tracker) ProcessFrame(face *detector.FaceLandmarks, now time.Time) {
	if face == nil {
		t.faceDetected = false
		return
	}
	t.faceDetected = true

	// The nose reference advances on every frame with a face, calibrating
	// or not, so tracking never starts against a stale position.
	headRaw := t.extractor.HeadScore(face)
	ratio := t.extractor.MouthRatio(face, t.calibrator.Baseline())

	if t.calibrator.Calibrating() {
		t.calibrator.Observe(ratio, now)
		return
	}

	eyeRaw := t.extractor.EyeScore(face)
	facialRaw := t.extractor.FacialScore(ratio, t.calibrator.Baseline())

	t.eyeActivity = Clamp(Smooth(t.eyeActivity, eyeRaw, t.cfg.SignalAlpha))
	t.headStability = Clamp(Smooth(t.headStability, headRaw, t.cfg.SignalAlpha))
	t.facialMovement = Clamp(Smooth(t.facialMovement, facialRaw, t.cfg.SignalAlpha))
}

// Tick performs one fixed-cadence scoring step: weight the smoothed signals,
// smooth the result onto the score, append to history. The tick is skipped
// entirely when no face is detected or calibration is active, leaving the
// score and history untouched. Returns whether the score was updated.
func (t *Tracker) Tick() bool {
	if !t.faceDetected || t.calibrator.Calibrating() {
		return false
	}

	weighted := Clamp(
		t.eyeActivity*t.cfg.EyeWeight +
			t.headStability*t.cfg.HeadWeight +
			t.facialMovement*t.cfg.FacialWeight,
	)
	t.score = Clamp(Smooth(t.score, weighted, t.cfg.ScoreAlpha))

	if len(t.history) >= t.cfg.HistoryPoints {
		copy(t.history, t.history[1:])
		t.history = t.history[:t.cfg.HistoryPoints-1]
	}
	t.history = append(t.history, t.score)

	return true
}

// Calibrating reports whether the calibration window is open.
func (t *Tracker) Calibrating() bool {
	return t.calibrator.Calibrating()
}

// FaceDetected reports the most recent frame's face-presence flag.
func (t *Tracker) FaceDetected() bool {
	return t.faceDetected
}

// Score returns the current smoothed attention score.
func (t *Tracker) Score() float64 {
	return t.score
}

// Baseline returns the current baseline mouth-shape ratio.
func (t *Tracker) Baseline() float64 {
	return t.calibrator.Baseline()
}

// History returns a copy of the rolling score history, oldest first.
func (t *Tracker) History() []float64 {
	out := make([]float64, len(t.history))
	copy(out, t.history)
	return out
}

// Snapshot captures the current tracker state for presentation.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		Score:          t.score,
		EyeActivity:    t.eyeActivity,
		HeadStability:  t.headStability,
		FacialMovement: t.facialMovement,
		Label:          EngagementLabel(t.score),
		Baseline:       t.calibrator.Baseline(),
		Calibrating:    t.calibrator.Calibrating(),
		FaceDetected:   t.faceDetected,
	}
}
