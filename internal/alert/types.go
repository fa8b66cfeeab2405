// Package alert provides discovery and execution of out-of-process alert
// plugins for the Jikimi hazard watcher. Plugins receive a JSON request on
// stdin and answer with a JSON response on stdout; the vibration actuator and
// desktop notifications are both delivered this way.
package alert

import "encoding/json"

// Manifest describes a plugin's metadata and capabilities.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Actions      []string        `json:"actions"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Request represents a request sent to a plugin for execution.
type Request struct {
	Action      string          `json:"action"`
	Label       string          `json:"label"`
	Probability float64         `json:"probability"`
	Trigger     string          `json:"trigger"`
	Config      json.RawMessage `json:"config"`
	Params      json.RawMessage `json:"params"`
}

// Response represents the response from a plugin execution.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin represents a discovered plugin with its manifest and location.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}
