// Package plugin provides discovery and execution of external alert plugins for FocusLens.
//
// A plugin is a directory containing a plugin.json manifest and an
// executable. When an attention event fires (for example the score staying
// below the low-engagement threshold), the executable receives a JSON
// Request on stdin and answers with a JSON Response on stdout.
package plugin

import "encoding/json"

// Manifest describes a plugin's metadata and the events it handles.
type Manifest struct {
	Name         string          `json:"name"`
	Version      string          `json:"version"`
	Description  string          `json:"description"`
	Executable   string          `json:"executable"`
	Events       []string        `json:"events"`
	ConfigSchema json.RawMessage `json:"configSchema,omitempty"`
}

// Event names delivered to plugins.
const (
	EventLowAttention = "low_attention"
	EventSessionStart = "session_start"
	EventSessionStop  = "session_stop"
)

// Request represents an attention event sent to a plugin for handling.
type Request struct {
	Event     string          `json:"event"`
	SessionID string          `json:"session_id"`
	Score     float64         `json:"score"`
	Label     string          `json:"label"`
	Config    json.RawMessage `json:"config,omitempty"`
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

// Handles reports whether the plugin declares the given event.
func (p *Plugin) Handles(event string) bool {
	for _, e := range p.Manifest.Events {
		if e == event {
			return true
		}
	}
	return false
}
