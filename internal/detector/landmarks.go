// Package detector provides face landmark detection interfaces and types for attention tracking.
package detector

// Face landmark indices following the MediaPipe FaceMesh convention.
// See: https://developers.google.com/mediapipe/solutions/vision/face_landmarker
// Only the indices used by the attention pipeline are named; the mesh itself
// carries 478 points when refined (iris) landmarks are enabled.
const (
	NoseTip = 1

	LeftEyeOuter = 33
	LeftEyeInner = 133
	LeftEyeUpper = 159
	LeftEyeLower = 145

	RightEyeInner = 362
	RightEyeOuter = 263
	RightEyeUpper = 386
	RightEyeLower = 374

	UpperLipInner = 13
	LowerLipInner = 14
	MouthLeft     = 61
	MouthRight    = 291

	NumLandmarks = 478
)

// Point3D represents a normalized landmark coordinate. X and Y are relative
// to the frame (0..1); Z is relative depth and unused by the core pipeline.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// FaceLandmarks represents the full FaceMesh landmark set for one face.
type FaceLandmarks struct {
	Points [NumLandmarks]Point3D `json:"points"`
	Score  float64               `json:"score"`
}

// Point returns a pointer to the landmark at the given index, or nil when the
// index is out of range. Callers use this instead of indexing Points directly
// so that a bad index degrades to a missing landmark rather than a panic.
func (f *FaceLandmarks) Point(i int) *Point3D {
	if f == nil || i < 0 || i >= NumLandmarks {
		return nil
	}
	return &f.Points[i]
}
