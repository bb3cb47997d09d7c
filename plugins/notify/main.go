// Package main provides a desktop notification plugin for FocusLens.
// It posts a notification when the attention score stays low.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Request represents the input from the plugin executor.
type Request struct {
	Event     string          `json:"event"`
	SessionID string          `json:"session_id"`
	Score     float64         `json:"score"`
	Label     string          `json:"label"`
	Config    json.RawMessage `json:"config"`
}

// Response represents the output to the plugin executor.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// NotifyConfig defines optional per-plugin configuration.
type NotifyConfig struct {
	Title string `json:"title"`
	Sound bool   `json:"sound"`
}

func main() {
	// Read request from stdin
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	cfg := NotifyConfig{Title: "FocusLens"}
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("failed to parse config: %v", err))
			return
		}
	}

	message, ok := messageFor(req)
	if !ok {
		writeErrorResponse(fmt.Sprintf("unknown event: %s", req.Event))
		return
	}

	if err := notify(cfg, message); err != nil {
		writeErrorResponse(fmt.Sprintf("notification failed: %v", err))
		return
	}

	writeSuccessResponse()
}

// messageFor builds the notification text for a given event.
func messageFor(req Request) (string, bool) {
	switch req.Event {
	case "low_attention":
		return fmt.Sprintf("Attention has been low for a while (score %.0f). Time for a break?", req.Score), true
	case "session_start":
		return "Tracking started. Keep a neutral expression while calibrating.", true
	case "session_stop":
		return "Tracking stopped.", true
	default:
		return "", false
	}
}

// notify posts a desktop notification using the platform's native mechanism.
func notify(cfg NotifyConfig, message string) error {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, message, cfg.Title)
		if cfg.Sound {
			script += ` sound name "default"`
		}
		return runCommand("osascript", "-e", script)
	case "linux":
		return runCommand("notify-send", cfg.Title, message)
	default:
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
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

// runCommand executes a command and returns any error with its output.
func runCommand(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
