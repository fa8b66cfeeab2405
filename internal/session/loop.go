package session

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/minsukim/jikimi/internal/decision"
)

// run is the frame-driven detection loop. One decision cycle executes per
// tick, synchronously: the cycle finishes (including the inference call)
// before the next is scheduled, so cycles never overlap.
//
// Loop behavior:
// 1. Start at the idle frame rate
// 2. On motion, switch to the active rate
// 3. Classify the frame and evaluate the decision engine
// 4. Drive the haptic controller with the frame's pattern
// 5. On a rising danger edge, record an event and fire alert plugins
// 6. After 2s without motion, drop back to the idle rate
func (s *Session) run(stopCh chan struct{}) {
	activeMode := false
	lastMotionTime := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			// Skip processing while detection is disabled
			if !s.IsEnabled() {
				continue
			}

			camera := s.Camera()
			frame, err := camera.ReadFrame()
			if err != nil {
				log.Printf("Error reading frame: %v", err)
				continue
			}

			// Motion only adjusts the frame rate; every frame is
			// still classified so a static hazard keeps its streak.
			motionDetected, _ := s.motion.Detect(frame)
			if motionDetected {
				lastMotionTime = time.Now()
				if !activeMode {
					activeMode = true
					camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to active mode")
				}
			} else if activeMode {
				if time.Since(lastMotionTime) > time.Duration(IdleTimeoutMs)*time.Millisecond {
					activeMode = false
					camera.SetFPS(IdleFPS)
					frameInterval = time.Second / time.Duration(IdleFPS)
					ticker.Reset(frameInterval)
					log.Println("Switched to idle mode")
				}
			}

			s.step(frame)
		}
	}
}

// step runs one decision cycle over a captured frame and applies its side
// effects. The frame is closed here.
func (s *Session) step(frame *gocv.Mat) {
	s.mu.RLock()
	provider := s.provider
	s.mu.RUnlock()

	preds, err := provider.Classify(frame)
	frame.Close()

	s.mu.Lock()
	s.frames++
	if err != nil {
		// An inference failure skips the frame: no hysteresis
		// mutation, no vibration change. The next frame resumes
		// normally.
		s.skipped++
		s.lastError = err.Error()
		s.mu.Unlock()
		log.Printf("Error classifying frame: %v", err)
		return
	}
	s.lastError = ""
	s.mu.Unlock()

	out := s.engine.Evaluate(preds, time.Now())
	s.controller.Apply(out.Pattern)

	s.mu.Lock()
	s.lastOutcome = out
	rising := out.Danger && !s.wasDanger
	s.wasDanger = out.Danger
	onOutcome := s.onOutcome
	s.mu.Unlock()

	if onOutcome != nil {
		onOutcome(out)
	}

	if rising {
		label, probability := eventLabel(out, preds)
		log.Printf("Danger detected: %s (p=%.3f, instant=%v)", label, probability, out.Instant)
		s.recordEvent(label, probability, out.Instant)
	}
}

// eventLabel picks the label to log for a danger edge: the confirmed label
// when hysteresis fired, otherwise the frame's top prediction regardless of
// threshold (the instant rule can fire while the best candidate is below a
// strict threshold).
func eventLabel(out decision.Outcome, preds []decision.Prediction) (string, float64) {
	if out.ConfirmedLabel != "" {
		return out.ConfirmedLabel, out.Best.Probability
	}
	if top, ok := decision.BestCandidate(preds, 0); ok {
		return top.Label, top.Probability
	}
	return "unknown", 0
}
