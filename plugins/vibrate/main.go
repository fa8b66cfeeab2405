// Package main provides the vibrate plugin. It drives the haptic channel for
// danger feedback; on desktop hosts without a vibration motor it falls back
// to the system beep so the pattern timing is still audible.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Request represents the input from the plugin executor.
type Request struct {
	Action      string          `json:"action"`
	Label       string          `json:"label"`
	Probability float64         `json:"probability"`
	Trigger     string          `json:"trigger"`
	Config      json.RawMessage `json:"config"`
	Params      json.RawMessage `json:"params"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// VibrateParams defines parameters for the vibrate action.
type VibrateParams struct {
	DurationMs int64 `json:"durationMs"`
}

func main() {
	// Read request from stdin
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	switch req.Action {
	case "vibrate":
		if err := handleVibrate(req.Params); err != nil {
			writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
			return
		}
	default:
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	writeSuccessResponse()
}

// handleVibrate processes one vibrate command. A zero duration cancels any
// ongoing vibration and is always a success.
func handleVibrate(params json.RawMessage) error {
	var p VibrateParams
	if err := json.Unmarshal(params, &p); err != nil {
		return fmt.Errorf("failed to parse params: %w", err)
	}

	if p.DurationMs < 0 {
		return fmt.Errorf("durationMs must not be negative")
	}
	if p.DurationMs == 0 {
		return nil
	}

	return beep()
}

// beep plays the platform alert sound.
func beep() error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("osascript", "-e", "beep")
	default:
		cmd = exec.Command("paplay", "/usr/share/sounds/freedesktop/stereo/bell.oga")
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// writeErrorResponse writes an error response to stdout.
func writeErrorResponse(errMsg string) {
	resp := Response{
		Success: false,
		Error:   errMsg,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}

// writeSuccessResponse writes a success response to stdout.
func writeSuccessResponse() {
	resp := Response{
		Success: true,
	}
	json.NewEncoder(os.Stdout).Encode(resp)
}
