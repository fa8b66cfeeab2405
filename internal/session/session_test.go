package session

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/minsukim/jikimi/internal/capture"
	"github.com/minsukim/jikimi/internal/decision"
	"github.com/minsukim/jikimi/internal/haptic"
	"github.com/minsukim/jikimi/internal/inference"
	"github.com/minsukim/jikimi/internal/store"
)

// newTestSession builds a session on a fresh store with mock collaborators.
// The caller still owns camera/provider setup.
func newTestSession(t *testing.T) (*Session, *store.Store) {
	t.Helper()

	tmpDir := t.TempDir()
	s, err := store.New(filepath.Join(tmpDir, "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })

	sess := New(Config{
		Store:        s,
		PluginDir:    filepath.Join(tmpDir, "plugins"),
		MotionThresh: 0.05,
	})
	t.Cleanup(sess.Stop)

	return sess, s
}

func TestSession_StopIsIdempotent(t *testing.T) {
	sess, _ := newTestSession(t)
	sess.SetProvider(inference.NewMockProvider())

	sess.Stop()
	sess.Stop()

	status := sess.Status()
	if status.Running {
		t.Error("session should not be running after Stop")
	}
	if sess.Controller().Active() {
		t.Error("vibration must be inactive after Stop")
	}
	if status.ConfirmedLabel != "" {
		t.Errorf("ConfirmedLabel = %q after Stop, want empty", status.ConfirmedLabel)
	}
}

func TestSession_FrameCycleTriggersPulseAndEvent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	sess, st := newTestSession(t)

	frame := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer frame.Close()
	sess.SetCamera(capture.NewMockCamera([]*gocv.Mat{&frame}, true))

	provider := inference.NewMockProvider()
	provider.SetPredictions(inference.DangerPredictions())
	sess.SetProvider(provider)

	actuator := haptic.NewMockActuator()
	sess.SetActuator(actuator)

	if err := sess.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	// At the idle rate (5 FPS) a few frames land within a second.
	time.Sleep(700 * time.Millisecond)

	status := sess.Status()
	if !status.Running {
		t.Fatal("session should be running")
	}
	if status.FramesTotal == 0 {
		t.Fatal("no frames processed")
	}
	if !status.Danger {
		t.Error("danger predictions should set the danger flag")
	}
	if status.Pattern != "pulse" {
		t.Errorf("pattern = %q, want pulse (instant rule at 0.95)", status.Pattern)
	}
	if actuator.Last() < 0 {
		t.Error("actuator never received a command")
	}

	sess.Stop()

	if sess.Controller().Active() {
		t.Error("vibration must stop with the session")
	}

	events, err := st.Events().ListRecent(10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1 (one rising edge)", len(events))
	}
	if events[0].Label != "stairs" || events[0].Trigger != store.EventTriggerInstant {
		t.Errorf("event = %+v, want stairs/instant", events[0])
	}
}

func TestSession_InferenceFailureSkipsFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	sess, _ := newTestSession(t)

	frame := gocv.NewMatWithSize(240, 320, gocv.MatTypeCV8UC3)
	defer frame.Close()
	sess.SetCamera(capture.NewMockCamera([]*gocv.Mat{&frame}, true))

	provider := inference.NewMockProvider()
	provider.SetError(errors.New("model crashed"))
	sess.SetProvider(provider)
	sess.SetActuator(haptic.NewMockActuator())

	if err := sess.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	time.Sleep(500 * time.Millisecond)
	sess.Stop()

	status := sess.Status()
	if status.FramesSkipped == 0 {
		t.Error("failed inferences should count as skipped frames")
	}
	if status.FramesSkipped != status.FramesTotal {
		t.Errorf("skipped = %d, total = %d; every frame should have been skipped",
			status.FramesSkipped, status.FramesTotal)
	}
	if status.LastError == "" {
		t.Error("inference failure should surface in status")
	}
	if sess.Controller().Active() {
		t.Error("a skipped frame must not change vibration state")
	}
}

func TestSession_SetParamsClampsAndPersists(t *testing.T) {
	sess, st := newTestSession(t)

	if err := sess.SetParams(decision.Params{Threshold: 2.0, Hold: 3 * time.Second}); err != nil {
		t.Fatalf("SetParams() error = %v", err)
	}

	got := sess.Params()
	if got.Threshold != 1 {
		t.Errorf("Threshold = %f, want clamped to 1", got.Threshold)
	}

	persisted, err := st.Settings().Params()
	if err != nil {
		t.Fatalf("Params() error = %v", err)
	}
	if persisted != got {
		t.Errorf("persisted params %+v differ from applied %+v", persisted, got)
	}
}

func TestSession_ReloadCatalog(t *testing.T) {
	sess, st := newTestSession(t)

	if !sess.Engine().Catalog().IsGround("평지") {
		t.Fatal("seeded catalog should classify 평지 as ground")
	}

	// Drop every ground label and reload.
	labels, err := st.Labels().List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	for _, l := range labels {
		if err := st.Labels().Delete(l.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
	}

	if err := sess.ReloadCatalog(); err != nil {
		t.Fatalf("ReloadCatalog() error = %v", err)
	}
	if sess.Engine().Catalog().IsGround("평지") {
		t.Error("catalog should be empty after reload")
	}
}
