package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/RajSingh-webdev/FocusLens/internal/app"
	"github.com/RajSingh-webdev/FocusLens/internal/capture"
)

func newTestServer(t *testing.T) (*Server, *app.App) {
	t.Helper()

	a := app.New(app.Config{PluginDir: t.TempDir()})
	t.Cleanup(a.Stop)

	return New(Config{App: a}), a
}

func TestServer_Health(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %v, want ok", body["status"])
	}
}

func TestServer_HealthMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestServer_AttentionWhileStopped(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/attention", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body attentionResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if body.State != string(app.StateStopped) {
		t.Errorf("state = %q, want stopped", body.State)
	}
	if body.Score != 0 {
		t.Errorf("score = %v, want 0", body.Score)
	}
	if body.HeadStability != 100 {
		t.Errorf("head_stability = %v, want 100", body.HeadStability)
	}
	if body.Label == "" {
		t.Error("label is empty")
	}
}

func TestServer_HistoryEmpty(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/attention/history", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body struct {
		History []float64 `json:"history"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.History == nil {
		t.Error("history should be an empty array, not null")
	}
	if len(body.History) != 0 {
		t.Errorf("history length = %d, want 0", len(body.History))
	}
}

func TestServer_SessionStartCameraFailure(t *testing.T) {
	srv, a := newTestServer(t)

	cam := capture.NewMockCamera(nil, false)
	cam.SetOpenError(errors.New("permission denied"))
	a.SetCamera(cam)

	req := httptest.NewRequest(http.MethodPost, "/api/session/start", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["error"] == "" {
		t.Error("expected an error message")
	}

	// The controller stays stopped after a failed start
	if a.State() != app.StateStopped {
		t.Errorf("state = %q, want stopped", a.State())
	}
}

func TestServer_SessionStopWhileStopped(t *testing.T) {
	srv, _ := newTestServer(t)

	// Stopping an already-stopped session is a safe no-op
	req := httptest.NewRequest(http.MethodPost, "/api/session/stop", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body map[string]interface{}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["state"] != string(app.StateStopped) {
		t.Errorf("state = %v, want stopped", body["state"])
	}
}

func TestServer_SessionEndpointsRequirePost(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, path := range []string{"/api/session/start", "/api/session/stop"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("GET %s status = %d, want %d", path, rec.Code, http.StatusMethodNotAllowed)
		}
	}
}
