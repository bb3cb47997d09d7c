package capture

import (
	"errors"
	"testing"
)

func TestNewCamera(t *testing.T) {
	tests := []struct {
		name     string
		deviceID int
	}{
		{name: "default device", deviceID: 0},
		{name: "device 1", deviceID: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.deviceID)

			if cam == nil {
				t.Fatal("NewCamera returned nil")
			}

			if got := cam.FPS(); got != ActiveFPS {
				t.Errorf("FPS() = %d, want %d (default)", got, ActiveFPS)
			}

			if cam.IsOpen() {
				t.Error("camera should not be running initially")
			}
		})
	}
}

func TestCamera_ReadFrameWhenClosed(t *testing.T) {
	cam := NewCamera(0)

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() error = %v, want ErrCameraNotOpen", err)
	}
}

func TestCamera_CloseWhenNotOpen(t *testing.T) {
	cam := NewCamera(0)

	// Closing an unopened camera must be a safe no-op, called twice.
	if err := cam.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := cam.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(0)

	cam.SetFPS(5)
	if got := cam.FPS(); got != 5 {
		t.Errorf("FPS() = %d, want 5", got)
	}

	// Non-positive values are ignored
	cam.SetFPS(0)
	cam.SetFPS(-1)
	if got := cam.FPS(); got != 5 {
		t.Errorf("FPS() after invalid SetFPS = %d, want 5", got)
	}
}
