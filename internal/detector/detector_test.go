package detector

import (
	"errors"
	"math"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MaxFaces != 1 {
		t.Errorf("MaxFaces = %d, want 1", cfg.MaxFaces)
	}
	if !cfg.RefineLandmarks {
		t.Error("RefineLandmarks = false, want true")
	}
	if cfg.MinConfidence != 0.5 {
		t.Errorf("MinConfidence = %f, want 0.5", cfg.MinConfidence)
	}
	if cfg.MinTrackingConf != 0.5 {
		t.Errorf("MinTrackingConf = %f, want 0.5", cfg.MinTrackingConf)
	}
}

func TestFaceLandmarks_Point(t *testing.T) {
	face := NeutralFaceLandmarks()

	p := face.Point(NoseTip)
	if p == nil {
		t.Fatal("Point(NoseTip) = nil, want point")
	}
	if p.X != 0.50 || p.Y != 0.50 {
		t.Errorf("nose tip = (%f, %f), want (0.50, 0.50)", p.X, p.Y)
	}

	if face.Point(-1) != nil {
		t.Error("Point(-1) should be nil")
	}
	if face.Point(NumLandmarks) != nil {
		t.Errorf("Point(%d) should be nil", NumLandmarks)
	}

	var nilFace *FaceLandmarks
	if nilFace.Point(0) != nil {
		t.Error("Point on nil face should be nil")
	}
}

func TestFaceWithMetrics_Geometry(t *testing.T) {
	face := FaceWithMetrics(0.34, 0.45)

	// Check the left eye reproduces the requested aspect ratio
	width := face.Points[LeftEyeInner].X - face.Points[LeftEyeOuter].X
	height := face.Points[LeftEyeLower].Y - face.Points[LeftEyeUpper].Y
	if math.Abs(height/width-0.34) > 1e-9 {
		t.Errorf("left eye ratio = %f, want 0.34", height/width)
	}

	// Check the mouth reproduces the requested shape ratio
	mouthWidth := face.Points[MouthRight].X - face.Points[MouthLeft].X
	mouthHeight := face.Points[LowerLipInner].Y - face.Points[UpperLipInner].Y
	if math.Abs(mouthHeight/mouthWidth-0.45) > 1e-9 {
		t.Errorf("mouth ratio = %f, want 0.45", mouthHeight/mouthWidth)
	}
}

func TestMockDetector(t *testing.T) {
	mock := NewMockDetector()

	// Default: no face, no error
	face, err := mock.Detect(nil)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if face != nil {
		t.Error("expected no face from fresh mock")
	}

	// With a face configured
	mock.SetFace(NeutralFaceLandmarks())
	face, err = mock.Detect(nil)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if face == nil {
		t.Fatal("expected a face after SetFace")
	}

	// With an error configured
	wantErr := errors.New("detector offline")
	mock.SetError(wantErr)
	if _, err := mock.Detect(nil); !errors.Is(err, wantErr) {
		t.Errorf("Detect() error = %v, want %v", err, wantErr)
	}

	if err := mock.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}
