package alert

import (
	"context"
	"log"
)

// AlertAction is the plugin action invoked when a danger state begins.
const AlertAction = "alert"

// Dispatcher fans a danger event out to every plugin that advertises the
// alert action.
type Dispatcher struct {
	manager  *Manager
	executor *Executor
}

// NewDispatcher creates a dispatcher over the given manager and executor.
func NewDispatcher(manager *Manager, executor *Executor) *Dispatcher {
	return &Dispatcher{manager: manager, executor: executor}
}

// Dispatch invokes the alert action on all capable plugins. Failures are
// logged and do not stop the remaining plugins; an alert is best effort.
func (d *Dispatcher) Dispatch(ctx context.Context, label string, probability float64, trigger string) {
	for _, plugin := range d.manager.List() {
		if !hasAction(plugin, AlertAction) {
			continue
		}

		req := &Request{
			Action:      AlertAction,
			Label:       label,
			Probability: probability,
			Trigger:     trigger,
		}

		resp, err := d.executor.Execute(ctx, plugin, req)
		if err != nil {
			log.Printf("alert: plugin %s failed: %v", plugin.Manifest.Name, err)
			continue
		}
		if !resp.Success {
			log.Printf("alert: plugin %s rejected alert: %s", plugin.Manifest.Name, resp.Error)
		}
	}
}

func hasAction(plugin *Plugin, action string) bool {
	for _, a := range plugin.Manifest.Actions {
		if a == action {
			return true
		}
	}
	return false
}
