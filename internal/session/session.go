// Package session owns the lifecycle of a detection session for the Jikimi
// hazard watcher. All state that the original design kept in ambient globals
// (running flag, hysteresis, vibration timer, model handle) lives on an
// explicit Session created on start and torn down on stop.
package session

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/minsukim/jikimi/internal/alert"
	"github.com/minsukim/jikimi/internal/capture"
	"github.com/minsukim/jikimi/internal/decision"
	"github.com/minsukim/jikimi/internal/haptic"
	"github.com/minsukim/jikimi/internal/inference"
	"github.com/minsukim/jikimi/internal/store"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate when no motion is detected.
	IdleFPS = 5
	// ActiveFPS is the frame rate during motion.
	ActiveFPS = 15
	// IdleTimeoutMs is how long after the last motion the loop drops back
	// to the idle rate.
	IdleTimeoutMs = 2000
)

// VibratePluginName is the alert plugin that implements the vibration
// actuator.
const VibratePluginName = "vibrate"

// pluginTimeout bounds one plugin invocation.
const pluginTimeout = 5 * time.Second

// Config holds configuration options for a session.
type Config struct {
	Store        *store.Store
	PluginDir    string
	CameraID     int
	MotionThresh float64
}

// Status is a point-in-time snapshot of the session for the UI.
type Status struct {
	Running        bool            `json:"running"`
	Enabled        bool            `json:"enabled"`
	Danger         bool            `json:"danger"`
	ConfirmedLabel string          `json:"confirmedLabel"`
	Pattern        string          `json:"pattern"`
	Params         decision.Params `json:"-"`
	Threshold      float64         `json:"threshold"`
	HoldSeconds    float64         `json:"holdSeconds"`
	FramesTotal    uint64          `json:"framesTotal"`
	FramesSkipped  uint64          `json:"framesSkipped"`
	LastError      string          `json:"lastError,omitempty"`
}

// Session orchestrates one detection run: camera, inference, decision engine,
// haptic controller, and alert plugins.
type Session struct {
	config     Config
	camera     capture.Camera
	motion     *capture.MotionDetector
	provider   inference.Provider
	engine     *decision.Engine
	controller *haptic.Controller
	pluginMgr  *alert.Manager
	pluginExec *alert.Executor
	dispatcher *alert.Dispatcher

	mu          sync.RWMutex
	enabled     bool
	stopCh      chan struct{}
	wasDanger   bool
	lastOutcome decision.Outcome
	lastError   string
	frames      uint64
	skipped     uint64
	onOutcome   func(decision.Outcome)
	onAlert     func(label string)
}

// New creates a Session from the given configuration. The engine catalog and
// parameters come from the store when one is configured; the vibration
// actuator is resolved from the plugin directory, falling back to a no-op
// actuator when no vibrate plugin is installed.
func New(config Config) *Session {
	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	s := &Session{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		motion:     capture.NewMotionDetector(motionThreshold),
		pluginMgr:  alert.NewManager(config.PluginDir),
		pluginExec: alert.NewExecutor(pluginTimeout),
		enabled:    true,
	}
	s.dispatcher = alert.NewDispatcher(s.pluginMgr, s.pluginExec)

	params := decision.DefaultParams()
	catalog := decision.DefaultCatalog()
	if config.Store != nil {
		if p, err := config.Store.Settings().Params(); err == nil {
			params = p
		} else {
			log.Printf("session: loading params failed, using defaults: %v", err)
		}
		if tokens, err := config.Store.Labels().GroundTokens(); err == nil {
			catalog = decision.NewCatalog(tokens)
		} else {
			log.Printf("session: loading label catalog failed, using defaults: %v", err)
		}
	}
	s.engine = decision.NewEngine(catalog, params)

	if err := s.pluginMgr.Discover(); err != nil {
		log.Printf("session: plugin discovery failed: %v", err)
	}

	var actuator haptic.Actuator
	if a, err := haptic.NewPluginActuator(s.pluginMgr, s.pluginExec, VibratePluginName); err == nil {
		actuator = a
		log.Println("Using vibrate plugin actuator")
	} else {
		log.Printf("Vibrate plugin not available (%v), vibration disabled", err)
		actuator = haptic.NoopActuator{}
	}
	s.controller = haptic.NewController(actuator)

	// Try the TFLite classifier service, fall back to the mock provider
	if sp, err := inference.NewScriptProvider(inference.DefaultConfig()); err == nil {
		s.provider = sp
		log.Println("Using TFLite classifier service")
	} else {
		log.Printf("Classifier service not available (%v), using mock provider", err)
		s.provider = inference.NewMockProvider()
	}

	return s
}

// SetEnabled enables or disables frame processing while the loop keeps
// running. Disabling also silences the actuator.
func (s *Session) SetEnabled(enabled bool) {
	s.mu.Lock()
	s.enabled = enabled
	s.mu.Unlock()

	if !enabled {
		s.controller.Stop()
	}
}

// IsEnabled returns whether frame processing is currently enabled.
func (s *Session) IsEnabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.enabled
}

// SetProvider sets the inference provider implementation to use.
func (s *Session) SetProvider(p inference.Provider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.provider = p
}

// SetCamera sets the camera implementation to use.
func (s *Session) SetCamera(c capture.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.camera = c
}

// SetActuator replaces the haptic controller's actuator. Only valid before
// Start.
func (s *Session) SetActuator(a haptic.Actuator) {
	s.controller.Stop()
	s.controller = haptic.NewController(a)
}

// SetOnOutcome registers a per-frame callback, used by the WebSocket layer
// to broadcast decisions. The callback runs on the frame loop goroutine and
// must not block.
func (s *Session) SetOnOutcome(fn func(decision.Outcome)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onOutcome = fn
}

// SetOnAlert registers a callback fired on each rising danger edge, used by
// the tray to show the last alert.
func (s *Session) SetOnAlert(fn func(label string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAlert = fn
}

// Engine returns the session's decision engine.
func (s *Session) Engine() *decision.Engine {
	return s.engine
}

// Controller returns the haptic pattern controller.
func (s *Session) Controller() *haptic.Controller {
	return s.controller
}

// PluginManager returns the alert plugin manager.
func (s *Session) PluginManager() *alert.Manager {
	return s.pluginMgr
}

// Camera returns the camera instance.
func (s *Session) Camera() capture.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.camera
}

// SetParams clamps, applies, and persists new decision parameters. Takes
// effect between frames.
func (s *Session) SetParams(params decision.Params) error {
	params = params.Clamp()
	s.engine.SetParams(params)

	if s.config.Store == nil {
		return nil
	}
	return s.config.Store.Settings().SaveParams(params)
}

// Params returns the current decision parameters.
func (s *Session) Params() decision.Params {
	return s.engine.Params()
}

// ReloadCatalog rebuilds the engine's ground token set from the label store.
// Called after label CRUD through the API.
func (s *Session) ReloadCatalog() error {
	if s.config.Store == nil {
		return nil
	}
	tokens, err := s.config.Store.Labels().GroundTokens()
	if err != nil {
		return err
	}
	s.engine.Catalog().SetTokens(tokens)
	return nil
}

// Start begins the detection loop. Starting a running session is a no-op.
func (s *Session) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopCh != nil {
		return nil
	}

	if err := s.camera.Open(); err != nil {
		return err
	}
	s.camera.SetFPS(IdleFPS)

	s.stopCh = make(chan struct{})
	go s.run(s.stopCh)

	log.Println("Detection session started")
	return nil
}

// Stop halts the loop, synchronously forces the actuator off, resets the
// hysteresis tracker, and releases camera and provider resources. Safe to
// call repeatedly.
func (s *Session) Stop() {
	s.mu.Lock()

	if s.stopCh != nil {
		close(s.stopCh)
		s.stopCh = nil
	}

	if err := s.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	s.motion.Close()

	if s.provider != nil {
		if err := s.provider.Close(); err != nil {
			log.Printf("Error closing provider: %v", err)
		}
	}

	s.wasDanger = false
	s.lastOutcome = decision.Outcome{}
	s.mu.Unlock()

	// No orphaned timers may survive a stop: the controller cancels its
	// ticker and forces the actuator off before Stop returns.
	s.controller.Stop()
	s.engine.Reset()

	log.Println("Detection session stopped")
}

// Running reports whether the detection loop is active.
func (s *Session) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stopCh != nil
}

// Status returns a snapshot for the UI.
func (s *Session) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	params := s.engine.Params()
	return Status{
		Running:        s.stopCh != nil,
		Enabled:        s.enabled,
		Danger:         s.lastOutcome.Danger,
		ConfirmedLabel: s.lastOutcome.ConfirmedLabel,
		Pattern:        s.lastOutcome.Pattern.String(),
		Params:         params,
		Threshold:      params.Threshold,
		HoldSeconds:    params.Hold.Seconds(),
		FramesTotal:    s.frames,
		FramesSkipped:  s.skipped,
		LastError:      s.lastError,
	}
}

// recordEvent logs a danger edge to the store and fans it out to alert
// plugins. Best effort; failures are logged.
func (s *Session) recordEvent(label string, probability float64, instant bool) {
	trigger := store.EventTriggerSustained
	if instant {
		trigger = store.EventTriggerInstant
	}

	s.mu.RLock()
	onAlert := s.onAlert
	s.mu.RUnlock()
	if onAlert != nil {
		onAlert(label)
	}

	if s.config.Store != nil {
		event := &store.Event{
			ID:          uuid.NewString(),
			Label:       label,
			Probability: probability,
			Trigger:     trigger,
		}
		if err := s.config.Store.Events().Create(event); err != nil {
			log.Printf("session: recording event failed: %v", err)
		}
	}

	// Alert plugins run off the frame loop; a slow notifier must not
	// stall decision cycles.
	go s.dispatcher.Dispatch(context.Background(), label, probability, string(trigger))
}
