package app

import (
	"log"
	"time"

	"github.com/RajSingh-webdev/FocusLens/internal/capture"
	"github.com/RajSingh-webdev/FocusLens/internal/plugin"
)

// runPipeline is the per-session loop. One goroutine drives both timers, so
// frame processing and scoring ticks never run concurrently:
//
//  1. Frame ticker (camera FPS): read a frame, detect the face, feed the
//     tracker. While the face is lost and the scene is motionless, capture
//     drops to the idle frame rate until motion suggests someone returned.
//  2. Score ticker (fixed 200ms cadence): one scoring step per firing,
//     skipped entirely while calibrating or while no face is detected.
func (a *App) runPipeline(stopCh chan struct{}) {
	frameInterval := time.Second / time.Duration(capture.ActiveFPS)
	frameTicker := time.NewTicker(frameInterval)
	defer frameTicker.Stop()

	scoreTicker := time.NewTicker(a.config.Attention.SampleInterval)
	defer scoreTicker.Stop()

	idleMode := false
	lastFaceTime := time.Now()

	for {
		select {
		case <-stopCh:
			return

		case <-frameTicker.C:
			faceSeen, motion := a.processFrame()

			if faceSeen {
				lastFaceTime = time.Now()
				if idleMode {
					idleMode = false
					a.camera.SetFPS(capture.ActiveFPS)
					frameTicker.Reset(time.Second / time.Duration(capture.ActiveFPS))
					log.Println("Face re-acquired, switching to active capture")
				}
				continue
			}

			if idleMode {
				if motion {
					// Someone may be back; speed up to re-acquire the face
					idleMode = false
					a.camera.SetFPS(capture.ActiveFPS)
					frameTicker.Reset(time.Second / time.Duration(capture.ActiveFPS))
					log.Println("Motion detected, switching to active capture")
				}
			} else if time.Since(lastFaceTime) > FaceLostIdleTimeout && !motion {
				idleMode = true
				a.camera.SetFPS(capture.IdleFPS)
				frameTicker.Reset(time.Second / time.Duration(capture.IdleFPS))
				log.Println("Face lost and scene still, switching to idle capture")
			}

		case <-scoreTicker.C:
			a.tick()
		}
	}
}

// processFrame reads one frame, runs detection, and feeds the tracker.
// Returns whether a face was seen and whether the scene showed motion
// (motion is only evaluated on faceless frames, where it matters).
func (a *App) processFrame() (faceSeen, motion bool) {
	frame, err := a.camera.ReadFrame()
	if err != nil {
		log.Printf("Error reading frame: %v", err)
		return false, false
	}
	defer frame.Close()

	face, err := a.Detector().Detect(frame)
	if err != nil {
		// A failed detection is treated as a faceless frame; the state
		// machine waits rather than regressing.
		log.Printf("Error detecting face: %v", err)
		face = nil
	}

	if face == nil {
		motion, _ = a.scene.Detect(frame)
	}

	a.mu.Lock()
	a.tracker.ProcessFrame(face, time.Now())
	a.mu.Unlock()

	return face != nil, motion
}

// tick performs one fixed-cadence scoring step and the follow-on
// bookkeeping: session summary accumulation and low-attention alerting.
// The two steps run back to back under one lock so the history append and
// the alert check always see the same score.
func (a *App) tick() {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.tracker.Tick() {
		return
	}

	score := a.tracker.Score()

	a.scoreSum += score
	a.scoreCount++
	if score > a.scorePeak {
		a.scorePeak = score
	}

	a.checkLowAttention(score)
}

// checkLowAttention fires alert plugins once per sustained low-attention
// episode: the score must stay below the threshold for the full alert
// window, and the alert re-arms only after the score recovers.
func (a *App) checkLowAttention(score float64) {
	if score >= LowAttentionThreshold {
		a.lowSince = time.Time{}
		a.alertFired = false
		return
	}

	if a.lowSince.IsZero() {
		a.lowSince = time.Now()
		return
	}

	if !a.alertFired && time.Since(a.lowSince) >= LowAttentionAlertAfter {
		a.alertFired = true
		log.Printf("Low attention sustained for %s (score %.1f), firing alerts", LowAttentionAlertAfter, score)
		a.fireEvent(plugin.EventLowAttention)
	}
}
