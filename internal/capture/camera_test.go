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
		{name: "secondary device", deviceID: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewCamera(tt.deviceID)
			if cam == nil {
				t.Fatal("NewCamera returned nil")
			}

			if got := cam.FPS(); got != DefaultFPS {
				t.Errorf("FPS() = %d, want default %d", got, DefaultFPS)
			}

			if cam.IsOpen() {
				t.Error("camera should not be open initially")
			}
		})
	}
}

func TestCamera_ReadFrameBeforeOpen(t *testing.T) {
	cam := NewCamera(0)

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() before Open error = %v, want ErrCameraNotOpen", err)
	}
}

func TestCamera_SetFPS(t *testing.T) {
	cam := NewCamera(0)

	cam.SetFPS(15)
	if got := cam.FPS(); got != 15 {
		t.Errorf("FPS() = %d, want 15", got)
	}

	// Non-positive values are ignored.
	cam.SetFPS(0)
	cam.SetFPS(-3)
	if got := cam.FPS(); got != 15 {
		t.Errorf("FPS() = %d after invalid SetFPS, want 15", got)
	}
}

func TestCamera_CloseWithoutOpen(t *testing.T) {
	cam := NewCamera(0)

	if err := cam.Close(); err != nil {
		t.Errorf("Close() on an unopened camera error = %v", err)
	}
}
