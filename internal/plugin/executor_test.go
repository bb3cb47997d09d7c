package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

// writeScript writes an executable shell script plugin into dir and returns
// a Plugin pointing at it.
func writeScript(t *testing.T, dir, name, content string, events []string) *Plugin {
	t.Helper()

	scriptPath := filepath.Join(dir, name)
	if err := os.WriteFile(scriptPath, []byte(content), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}

	return &Plugin{
		Manifest: Manifest{
			Name:       strings.TrimSuffix(name, ".sh"),
			Version:    "1.0.0",
			Executable: name,
			Events:     events,
		},
		Path:       dir,
		Executable: scriptPath,
	}
}

func TestExecutor_Execute(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tmpDir := t.TempDir()

	script := `#!/bin/sh
cat <<'EOF'
{"success":true,"data":{"message":"notified"}}
EOF
`
	plugin := writeScript(t, tmpDir, "notify.sh", script, []string{EventLowAttention})

	request := &Request{
		Event:     EventLowAttention,
		SessionID: "sess-1",
		Score:     32.5,
		Label:     "Low Engagement",
		Config:    json.RawMessage(`{"sound":true}`),
	}

	executor := NewExecutor(5 * time.Second)
	response, err := executor.Execute(plugin, request)
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	if !response.Success {
		t.Error("expected success=true, got false")
	}
	if response.Error != "" {
		t.Errorf("expected empty error, got %q", response.Error)
	}

	var data map[string]interface{}
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data["message"] != "notified" {
		t.Errorf("expected message 'notified', got %v", data["message"])
	}
}

func TestExecutor_Execute_ReadsEventFromStdin(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tmpDir := t.TempDir()

	// Echo the received event name back in the response data
	script := `#!/bin/sh
input=$(cat)
event=$(echo "$input" | sed 's/.*"event":"\([^"]*\)".*/\1/')
echo "{\"success\":true,\"data\":{\"event\":\"$event\"}}"
`
	plugin := writeScript(t, tmpDir, "echo.sh", script, []string{EventSessionStop})

	executor := NewExecutor(5 * time.Second)
	response, err := executor.Execute(plugin, &Request{Event: EventSessionStop})
	if err != nil {
		t.Fatalf("Execute() failed: %v", err)
	}

	var data map[string]string
	if err := json.Unmarshal(response.Data, &data); err != nil {
		t.Fatalf("failed to unmarshal response data: %v", err)
	}
	if data["event"] != EventSessionStop {
		t.Errorf("plugin saw event %q, want %q", data["event"], EventSessionStop)
	}
}

func TestExecutor_Execute_Timeout(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tmpDir := t.TempDir()

	script := `#!/bin/sh
sleep 5
echo '{"success":true}'
`
	plugin := writeScript(t, tmpDir, "slow.sh", script, nil)

	executor := NewExecutor(100 * time.Millisecond)
	if _, err := executor.Execute(plugin, &Request{Event: EventLowAttention}); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestExecutor_Execute_BadOutput(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping test on Windows")
	}

	tmpDir := t.TempDir()

	script := `#!/bin/sh
echo "not json"
`
	plugin := writeScript(t, tmpDir, "bad.sh", script, nil)

	executor := NewExecutor(5 * time.Second)
	if _, err := executor.Execute(plugin, &Request{Event: EventLowAttention}); err == nil {
		t.Fatal("expected parse error for non-JSON output")
	}
}
