// Package main provides the notify plugin. It surfaces danger alerts as
// desktop notifications.
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

func main() {
	// Read request from stdin
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	switch req.Action {
	case "alert":
		if err := handleAlert(req); err != nil {
			writeErrorResponse(fmt.Sprintf("action %s failed: %v", req.Action, err))
			return
		}
	default:
		writeErrorResponse(fmt.Sprintf("unknown action: %s", req.Action))
		return
	}

	writeSuccessResponse()
}

// handleAlert shows a notification for one danger event.
func handleAlert(req Request) error {
	label := req.Label
	if label == "" {
		label = "unknown hazard"
	}
	body := fmt.Sprintf("%s (%.0f%%)", label, req.Probability*100)

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title "Jikimi" subtitle "Danger detected"`, body)
		cmd = exec.Command("osascript", "-e", script)
	default:
		cmd = exec.Command("notify-send", "-u", "critical", "Jikimi: danger detected", body)
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
