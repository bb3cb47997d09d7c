// Package app provides the session controller for the FocusLens attention tracker.
package app

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/RajSingh-webdev/FocusLens/internal/attention"
	"github.com/RajSingh-webdev/FocusLens/internal/capture"
	"github.com/RajSingh-webdev/FocusLens/internal/detector"
	"github.com/RajSingh-webdev/FocusLens/internal/plugin"
	"github.com/RajSingh-webdev/FocusLens/internal/store"
)

// State is the session controller's lifecycle state.
type State string

const (
	StateStopped     State = "stopped"
	StateCalibrating State = "calibrating"
	StateTracking    State = "tracking"
)

// Alert and pipeline timing constants.
const (
	// LowAttentionThreshold is the score below which the session counts as
	// disengaged for alerting purposes.
	LowAttentionThreshold = 40.0
	// LowAttentionAlertAfter is how long the score must stay below the
	// threshold before alert plugins fire.
	LowAttentionAlertAfter = 10 * time.Second
	// FaceLostIdleTimeout is how long the face must be absent, with no
	// scene motion, before detection drops to the idle frame rate.
	FaceLostIdleTimeout = 2 * time.Second
	// PluginTimeout bounds each alert-plugin invocation.
	PluginTimeout = 5 * time.Second
)

// Config holds configuration options for the session controller.
type Config struct {
	Store        *store.Store
	PluginDir    string
	CameraID     int
	MotionThresh float64
	Attention    attention.Config
}

// App is the session controller. It owns the camera, detector and tracker,
// drives the frame and scoring loops, and is the only component that
// mutates per-session state.
type App struct {
	config     Config
	camera     capture.Camera
	scene      *capture.SceneMonitor
	detector   detector.Detector
	tracker    *attention.Tracker
	pluginMgr  *plugin.Manager
	pluginExec *plugin.Executor

	mu        sync.RWMutex
	stopCh    chan struct{}
	sessionID string
	lastErr   string

	// Low-attention alert state, reset each session
	lowSince   time.Time
	alertFired bool

	// Session summary accumulators for the store record
	scoreSum   float64
	scorePeak  float64
	scoreCount int
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	if config.Attention.HistoryPoints == 0 {
		config.Attention = attention.DefaultConfig()
	}

	motionThreshold := config.MotionThresh
	if motionThreshold <= 0 {
		motionThreshold = 1.0 // Default threshold: 1% pixel change
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.CameraID),
		scene:      capture.NewSceneMonitor(motionThreshold),
		tracker:    attention.NewTracker(config.Attention),
		pluginMgr:  plugin.NewManager(config.PluginDir),
		pluginExec: plugin.NewExecutor(PluginTimeout),
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(detector.DefaultConfig()); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe face landmark detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetCamera sets the camera implementation to use. Only valid while stopped.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// SetDetector sets the face detector implementation to use.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the face detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// PluginManager returns the plugin manager.
func (a *App) PluginManager() *plugin.Manager {
	return a.pluginMgr
}

// DiscoverPlugins scans the plugin directory and loads available plugins.
func (a *App) DiscoverPlugins() error {
	return a.pluginMgr.Discover()
}

// Start acquires the camera, resets all per-session state, and begins the
// calibration phase. A camera failure (no device, permission denied) leaves
// the controller stopped with no partial session state.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Don't start if already running
	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		a.lastErr = fmt.Sprintf("camera unavailable: %v", err)
		return fmt.Errorf("open camera: %w", err)
	}

	a.camera.SetFPS(capture.ActiveFPS)
	a.scene.Reset()

	a.sessionID = uuid.NewString()
	a.lastErr = ""
	a.lowSince = time.Time{}
	a.alertFired = false
	a.scoreSum = 0
	a.scorePeak = 0
	a.scoreCount = 0

	a.tracker.Start(time.Now())

	if a.config.Store != nil {
		err := a.config.Store.Sessions().Create(&store.Session{
			ID:        a.sessionID,
			StartedAt: time.Now(),
		})
		if err != nil {
			log.Printf("Failed to record session start: %v", err)
		}
	}

	a.stopCh = make(chan struct{})
	go a.runPipeline(a.stopCh)

	a.fireEvent(plugin.EventSessionStart)

	log.Println("Tracking session started (calibrating)")
	return nil
}

// Stop halts the pipeline, releases the camera and detector, and records the
// session summary. It is always safe to call and has no effect when already
// stopped.
func (a *App) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh == nil {
		return
	}

	close(a.stopCh)
	a.stopCh = nil

	if err := a.camera.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}

	a.scene.Close()

	if a.detector != nil {
		if err := a.detector.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	if a.config.Store != nil && a.sessionID != "" {
		avg := 0.0
		if a.scoreCount > 0 {
			avg = a.scoreSum / float64(a.scoreCount)
		}
		err := a.config.Store.Sessions().Finish(
			a.sessionID, time.Now(), a.tracker.Baseline(), avg, a.scorePeak, a.scoreCount,
		)
		if err != nil {
			log.Printf("Failed to record session end: %v", err)
		}
	}

	a.tracker.Stop()
	a.fireEvent(plugin.EventSessionStop)

	log.Println("Tracking session stopped")
}

// Running reports whether a session is active.
func (a *App) Running() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stopCh != nil
}

// State returns the session lifecycle state.
func (a *App) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.stateLocked()
}

func (a *App) stateLocked() State {
	if a.stopCh == nil {
		return StateStopped
	}
	if a.tracker.Calibrating() {
		return StateCalibrating
	}
	return StateTracking
}

// Status returns a free-text status string for presentation.
func (a *App) Status() string {
	a.mu.RLock()
	defer a.mu.RUnlock()

	switch a.stateLocked() {
	case StateStopped:
		if a.lastErr != "" {
			return a.lastErr
		}
		return "idle"
	case StateCalibrating:
		return "calibrating - keep a neutral expression"
	default:
		if !a.tracker.FaceDetected() {
			return "face lost - waiting for you to come back"
		}
		return "tracking"
	}
}

// SessionID returns the ID of the current (or most recent) session.
func (a *App) SessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sessionID
}

// Snapshot returns the current tracker state.
func (a *App) Snapshot() attention.Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tracker.Snapshot()
}

// History returns a copy of the rolling attention score history.
func (a *App) History() []float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tracker.History()
}

// fireEvent dispatches an attention event to every plugin that handles it.
// Plugins run asynchronously so a slow plugin never stalls the pipeline.
// Caller must hold at least a read lock for the snapshot.
func (a *App) fireEvent(event string) {
	plugins := a.pluginMgr.ForEvent(event)
	if len(plugins) == 0 {
		return
	}

	req := &plugin.Request{
		Event:     event,
		SessionID: a.sessionID,
		Score:     a.tracker.Score(),
		Label:     attention.EngagementLabel(a.tracker.Score()),
	}

	for _, p := range plugins {
		go func(p *plugin.Plugin) {
			if _, err := a.pluginExec.Execute(p, req); err != nil {
				log.Printf("Plugin %s failed on %s: %v", p.Manifest.Name, event, err)
			}
		}(p)
	}
}
