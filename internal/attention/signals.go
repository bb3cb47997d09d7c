package attention

import (
	"math"

	"github.com/RajSingh-webdev/FocusLens/internal/detector"
)

// Extractor computes the three raw behavioral signals from one frame's
// landmark set. Its only state is the previous frame's nose position, which
// carries a one-frame lag for the head-stability signal.
type Extractor struct {
	cfg      Config
	prevNose *detector.Point3D
}

// NewExtractor creates an Extractor with the given tuning.
func NewExtractor(cfg Config) *Extractor {
	return &Extractor{cfg: cfg}
}

// Reset clears the remembered nose position. The next frame after a reset
// scores maximum head stability.
func (e *Extractor) Reset() {
	e.prevNose = nil
}

// EyeAspectRatio returns the mean eye-aspect ratio across both eyes:
// vertical lid distance over horizontal corner distance. An eye with a
// degenerate (zero or negative) width contributes 0.
func (e *Extractor) EyeAspectRatio(face *detector.FaceLandmarks) float64 {
	left := eyeRatio(
		face.Point(detector.LeftEyeOuter), face.Point(detector.LeftEyeInner),
		face.Point(detector.LeftEyeUpper), face.Point(detector.LeftEyeLower),
	)
	right := eyeRatio(
		face.Point(detector.RightEyeInner), face.Point(detector.RightEyeOuter),
		face.Point(detector.RightEyeUpper), face.Point(detector.RightEyeLower),
	)
	return (left + right) / 2
}

func eyeRatio(corner1, corner2, upper, lower *detector.Point3D) float64 {
	width := Distance2D(corner1, corner2)
	if width <= 0 {
		return 0
	}
	return SafeNumber(Distance2D(upper, lower)/width, 0)
}

// EyeScore maps the frame's eye-aspect ratio onto a raw eye-openness score:
// the closed-eye EAR maps near 0 and closed+span maps near 100. The result
// is deliberately unclamped; clamping happens at the smoothing boundary.
func (e *Extractor) EyeScore(face *detector.FaceLandmarks) float64 {
	ear := e.EyeAspectRatio(face)
	return SafeNumber((ear-e.cfg.ClosedEyeEAR)/e.cfg.EyeEARSpan*100, 0)
}

// HeadScore returns the raw head-stability score and advances the remembered
// nose position. The first frame of a session scores 100 (assumed stable
// until proven otherwise). The nose position is updated unconditionally on
// every call, including during calibration.
func (e *Extractor) HeadScore(face *detector.FaceLandmarks) float64 {
	nose := face.Point(detector.NoseTip)

	score := 100.0
	if e.prevNose != nil {
		displacement := Distance2D(e.prevNose, nose)
		score = SafeNumber(100-displacement/e.cfg.HeadMoveLimit*100, 0)
	}

	if nose != nil {
		n := *nose
		e.prevNose = &n
	}

	return score
}

// MouthRatio returns the mouth-shape ratio: vertical opening over horizontal
// width. A degenerate mouth width falls back to the supplied baseline so a
// single bad frame cannot poison calibration or deviation scoring.
func (e *Extractor) MouthRatio(face *detector.FaceLandmarks, baseline float64) float64 {
	width := Distance2D(face.Point(detector.MouthLeft), face.Point(detector.MouthRight))
	if width <= 0 {
		return baseline
	}
	height := Distance2D(face.Point(detector.UpperLipInner), face.Point(detector.LowerLipInner))
	return SafeNumber(height/width, baseline)
}

// FacialScore maps the mouth-shape ratio's relative deviation from the
// baseline onto a raw facial-expression score, saturating at 100 once the
// deviation exceeds the configured limit.
func (e *Extractor) FacialScore(ratio, baseline float64) float64 {
	if baseline <= 0 {
		return 0
	}
	deviation := SafeNumber(math.Abs(ratio-baseline)/baseline, 0)
	score := deviation / e.cfg.DeviationLimit * 100
	if score > 100 {
		score = 100
	}
	return SafeNumber(score, 0)
}
