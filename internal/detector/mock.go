package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	face *FaceLandmarks
	err  error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetFace sets the face that will be returned by Detect.
// Passing nil simulates a frame with no face.
func (m *MockDetector) SetFace(face *FaceLandmarks) {
	m.face = face
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured face or error.
func (m *MockDetector) Detect(frame *gocv.Mat) (*FaceLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.face, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// FaceWithMetrics builds a synthetic face whose eye and mouth geometry
// produce the given eye-aspect ratio and mouth-shape ratio. Eye corners are
// 0.10 apart and mouth corners 0.16 apart, so the lid and lip gaps are scaled
// accordingly. The nose tip sits at (0.5, 0.5).
func FaceWithMetrics(ear, mouthRatio float64) *FaceLandmarks {
	face := &FaceLandmarks{Score: 0.95}

	lidGap := ear * 0.10
	face.Points[LeftEyeOuter] = Point3D{X: 0.30, Y: 0.40}
	face.Points[LeftEyeInner] = Point3D{X: 0.40, Y: 0.40}
	face.Points[LeftEyeUpper] = Point3D{X: 0.35, Y: 0.40 - lidGap/2}
	face.Points[LeftEyeLower] = Point3D{X: 0.35, Y: 0.40 + lidGap/2}

	face.Points[RightEyeInner] = Point3D{X: 0.60, Y: 0.40}
	face.Points[RightEyeOuter] = Point3D{X: 0.70, Y: 0.40}
	face.Points[RightEyeUpper] = Point3D{X: 0.65, Y: 0.40 - lidGap/2}
	face.Points[RightEyeLower] = Point3D{X: 0.65, Y: 0.40 + lidGap/2}

	lipGap := mouthRatio * 0.16
	face.Points[MouthLeft] = Point3D{X: 0.42, Y: 0.62}
	face.Points[MouthRight] = Point3D{X: 0.58, Y: 0.62}
	face.Points[UpperLipInner] = Point3D{X: 0.50, Y: 0.62 - lipGap/2}
	face.Points[LowerLipInner] = Point3D{X: 0.50, Y: 0.62 + lipGap/2}

	face.Points[NoseTip] = Point3D{X: 0.50, Y: 0.50}

	return face
}

// NeutralFaceLandmarks returns a preset face with open eyes and a relaxed
// mouth: EAR 0.30, mouth ratio 0.30.
func NeutralFaceLandmarks() *FaceLandmarks {
	return FaceWithMetrics(0.30, 0.30)
}

// ClosedEyesLandmarks returns a preset face with closed eyes (EAR 0.14) and
// a relaxed mouth.
func ClosedEyesLandmarks() *FaceLandmarks {
	return FaceWithMetrics(0.14, 0.30)
}

// OpenMouthLandmarks returns a preset face with open eyes and a wide-open
// mouth (ratio 0.60), twice the neutral baseline.
func OpenMouthLandmarks() *FaceLandmarks {
	return FaceWithMetrics(0.30, 0.60)
}
