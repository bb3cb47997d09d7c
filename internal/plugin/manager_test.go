package plugin

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// writeManifest creates a plugin directory with a plugin.json under root.
func writeManifest(t *testing.T, root string, manifest Manifest) {
	t.Helper()

	pluginDir := filepath.Join(root, manifest.Name)
	if err := os.MkdirAll(pluginDir, 0755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	data, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}

	if err := os.WriteFile(filepath.Join(pluginDir, "plugin.json"), data, 0644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
}

func TestManager_Discover(t *testing.T) {
	tmpDir := t.TempDir()

	writeManifest(t, tmpDir, Manifest{
		Name:        "notify",
		Version:     "1.0.0",
		Description: "Desktop notifications on attention drops",
		Executable:  "notify",
		Events:      []string{EventLowAttention, EventSessionStop},
	})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	plugins := manager.List()
	if len(plugins) != 1 {
		t.Fatalf("expected 1 plugin, got %d", len(plugins))
	}

	p := plugins[0]
	if p.Manifest.Name != "notify" {
		t.Errorf("name = %q, want %q", p.Manifest.Name, "notify")
	}
	if p.Executable != filepath.Join(tmpDir, "notify", "notify") {
		t.Errorf("executable = %q, want path under plugin dir", p.Executable)
	}
	if !p.Handles(EventLowAttention) {
		t.Error("plugin should handle low_attention")
	}
	if p.Handles(EventSessionStart) {
		t.Error("plugin should not handle session_start")
	}
}

func TestManager_Discover_MissingDir(t *testing.T) {
	manager := NewManager(filepath.Join(t.TempDir(), "does-not-exist"))

	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() on missing dir failed: %v", err)
	}
	if len(manager.List()) != 0 {
		t.Error("expected no plugins from missing directory")
	}
}

func TestManager_Discover_SkipsInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	// Valid plugin
	writeManifest(t, tmpDir, Manifest{Name: "good", Executable: "good", Events: []string{EventLowAttention}})

	// Directory without a manifest
	if err := os.MkdirAll(filepath.Join(tmpDir, "no-manifest"), 0755); err != nil {
		t.Fatal(err)
	}

	// Directory with invalid JSON
	badDir := filepath.Join(tmpDir, "bad-json")
	if err := os.MkdirAll(badDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(badDir, "plugin.json"), []byte("{nope"), 0644); err != nil {
		t.Fatal(err)
	}

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	if len(manager.List()) != 1 {
		t.Errorf("expected only the valid plugin, got %d", len(manager.List()))
	}
}

func TestManager_Get(t *testing.T) {
	tmpDir := t.TempDir()
	writeManifest(t, tmpDir, Manifest{Name: "notify", Executable: "notify"})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	if _, err := manager.Get("notify"); err != nil {
		t.Errorf("Get(notify) error = %v", err)
	}

	if _, err := manager.Get("missing"); !errors.Is(err, ErrPluginNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrPluginNotFound", err)
	}
}

func TestManager_ForEvent(t *testing.T) {
	tmpDir := t.TempDir()

	writeManifest(t, tmpDir, Manifest{Name: "a", Executable: "a", Events: []string{EventLowAttention}})
	writeManifest(t, tmpDir, Manifest{Name: "b", Executable: "b", Events: []string{EventSessionStop}})
	writeManifest(t, tmpDir, Manifest{Name: "c", Executable: "c", Events: []string{EventLowAttention, EventSessionStop}})

	manager := NewManager(tmpDir)
	if err := manager.Discover(); err != nil {
		t.Fatalf("Discover() failed: %v", err)
	}

	low := manager.ForEvent(EventLowAttention)
	if len(low) != 2 {
		t.Errorf("ForEvent(low_attention) = %d plugins, want 2", len(low))
	}

	if got := manager.ForEvent("unknown"); len(got) != 0 {
		t.Errorf("ForEvent(unknown) = %d plugins, want 0", len(got))
	}
}
