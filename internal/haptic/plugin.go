package haptic

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/minsukim/jikimi/internal/alert"
)

// VibrateAction is the plugin action that drives the vibration motor.
const VibrateAction = "vibrate"

// vibrateParams is the payload sent to the vibration plugin. A zero duration
// cancels any vibration in progress.
type vibrateParams struct {
	DurationMs int64 `json:"durationMs"`
}

// PluginActuator delivers vibration commands through an out-of-process alert
// plugin, keeping the platform motor interface out of the core.
type PluginActuator struct {
	plugin   *alert.Plugin
	executor *alert.Executor
}

// NewPluginActuator resolves the named plugin and wraps it as an Actuator.
func NewPluginActuator(manager *alert.Manager, executor *alert.Executor, name string) (*PluginActuator, error) {
	plugin, err := manager.Get(name)
	if err != nil {
		return nil, fmt.Errorf("resolve vibration plugin %q: %w", name, err)
	}
	return &PluginActuator{plugin: plugin, executor: executor}, nil
}

// Vibrate implements Actuator by invoking the plugin's vibrate action.
func (a *PluginActuator) Vibrate(d time.Duration) error {
	params, err := json.Marshal(vibrateParams{DurationMs: d.Milliseconds()})
	if err != nil {
		return fmt.Errorf("marshal vibrate params: %w", err)
	}

	req := &alert.Request{
		Action: VibrateAction,
		Params: params,
	}

	resp, err := a.executor.Execute(context.Background(), a.plugin, req)
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("vibration plugin rejected command: %s", resp.Error)
	}
	return nil
}
