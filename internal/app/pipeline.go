package app

import (
	"time"

	"go.uber.org/zap"
	"gocv.io/x/gocv"

	"github.com/ayusman/masterhand/internal/detector"
)

// runPipeline is the frame loop. It alternates between idle and active
// frame rates based on the motion gate and processes one frame at a time:
// read, mirror, detect, run the gesture core, emit. A failed read or an
// idle frame skips everything downstream, leaving per-hand state exactly
// as it was.
func (a *App) runPipeline() {
	activeMode := false
	lastMotion := time.Now()

	frameInterval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.stopCh:
			return
		case <-ticker.C:
			if !a.IsEnabled() {
				continue
			}

			frame, err := a.camera.ReadFrame()
			if err != nil {
				a.metrics.cameraErrors.Inc()
				a.logger.Warn("error reading frame", zap.Error(err))
				continue
			}

			motionDetected, _ := a.motion.Detect(frame)
			if motionDetected {
				lastMotion = time.Now()
				if !activeMode {
					activeMode = true
					a.camera.SetFPS(ActiveFPS)
					frameInterval = time.Second / time.Duration(ActiveFPS)
					ticker.Reset(frameInterval)
					a.logger.Debug("switched to active mode")
				}
			} else if activeMode && time.Since(lastMotion) > IdleTimeout {
				activeMode = false
				a.camera.SetFPS(IdleFPS)
				frameInterval = time.Second / time.Duration(IdleFPS)
				ticker.Reset(frameInterval)
				a.logger.Debug("switched to idle mode")
			}

			if !activeMode {
				a.metrics.framesSkipped.Inc()
				frame.Close()
				continue
			}

			// Mirror the frame so reported handedness matches the
			// user's view, the orientation the consumer expects.
			mirrored := gocv.NewMat()
			gocv.Flip(*frame, &mirrored, 1)
			frame.Close()

			hands, err := a.Detector().Detect(&mirrored)
			mirrored.Close()
			if err != nil {
				a.metrics.detectorErrors.Inc()
				a.logger.Warn("error detecting hands", zap.Error(err))
				continue
			}

			a.metrics.framesProcessed.Inc()
			if err := a.processHands(hands); err != nil {
				a.logger.Error("frame rejected", zap.Error(err))
			}
		}
	}
}

// processHands runs one observation batch through the gesture core and
// fans the result out to the sink and frame listeners. An empty batch is
// a no-op: nothing reaches the sink and no state moves.
func (a *App) processHands(hands []detector.HandLandmarks) error {
	result, err := a.engine.ProcessFrame(hands)
	if err != nil {
		return err
	}
	if result == nil {
		return nil
	}

	a.metrics.handsObserved.Add(float64(len(result.Hands)))

	if a.sink != nil {
		if err := a.sink.Send(result); err != nil {
			a.logger.Warn("error sending frame to sink", zap.Error(err))
		}
	}

	for _, fn := range a.frameListeners {
		fn(result)
	}
	return nil
}
