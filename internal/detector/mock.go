package detector

import (
	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// Tests queue the observation batches it should report per frame.
type MockDetector struct {
	batches [][]HandLandmarks
	hands   []HandLandmarks
	err     error
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands returned by every subsequent Detect call.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.hands = hands
	m.batches = nil
}

// QueueFrames sets a per-frame sequence of observation batches. Once the
// queue drains, Detect falls back to the hands set via SetHands.
func (m *MockDetector) QueueFrames(batches ...[]HandLandmarks) {
	m.batches = batches
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.err = err
}

// Detect returns the next queued batch, the fixed hands, or the error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.batches) > 0 {
		batch := m.batches[0]
		m.batches = m.batches[1:]
		return batch, nil
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// OpenHandLandmarks returns a preset observation with all four non-thumb
// fingers extended: every fingertip sits farther from the wrist than its
// own MCP joint, and the thumb is well clear of the middle fingertip.
func OpenHandLandmarks(side string) HandLandmarks {
	h := HandLandmarks{Handedness: side, Score: 0.95}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80, Z: 0.0}

	// Thumb splayed to the side.
	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.75, Z: 0.02}
	h.Points[ThumbMCP] = Point3D{X: 0.62, Y: 0.70, Z: 0.03}
	h.Points[ThumbIP] = Point3D{X: 0.68, Y: 0.65, Z: 0.03}
	h.Points[ThumbTip] = Point3D{X: 0.73, Y: 0.60, Z: 0.03}

	// Index extended.
	h.Points[IndexMCP] = Point3D{X: 0.55, Y: 0.68, Z: 0.0}
	h.Points[IndexPIP] = Point3D{X: 0.57, Y: 0.55, Z: 0.0}
	h.Points[IndexDIP] = Point3D{X: 0.58, Y: 0.45, Z: 0.0}
	h.Points[IndexTip] = Point3D{X: 0.58, Y: 0.35, Z: 0.0}

	// Middle extended.
	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.66, Z: 0.0}
	h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.52, Z: 0.0}
	h.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.40, Z: 0.0}
	h.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.28, Z: 0.0}

	// Ring extended.
	h.Points[RingMCP] = Point3D{X: 0.45, Y: 0.68, Z: 0.0}
	h.Points[RingPIP] = Point3D{X: 0.43, Y: 0.55, Z: 0.0}
	h.Points[RingDIP] = Point3D{X: 0.42, Y: 0.45, Z: 0.0}
	h.Points[RingTip] = Point3D{X: 0.42, Y: 0.35, Z: 0.0}

	// Pinky extended.
	h.Points[PinkyMCP] = Point3D{X: 0.40, Y: 0.70, Z: 0.0}
	h.Points[PinkyPIP] = Point3D{X: 0.37, Y: 0.60, Z: 0.0}
	h.Points[PinkyDIP] = Point3D{X: 0.35, Y: 0.50, Z: 0.0}
	h.Points[PinkyTip] = Point3D{X: 0.34, Y: 0.42, Z: 0.0}

	return h
}

// FistLandmarks returns a preset observation with all four non-thumb
// fingers curled: every fingertip is closer to the wrist than its MCP.
// The thumb tip stays far enough from the middle tip that the pose does
// not read as a pinch.
func FistLandmarks(side string) HandLandmarks {
	h := HandLandmarks{Handedness: side, Score: 0.95}

	h.Points[Wrist] = Point3D{X: 0.50, Y: 0.80, Z: 0.0}

	// Thumb wrapped over the curled fingers.
	h.Points[ThumbCMC] = Point3D{X: 0.55, Y: 0.76, Z: 0.01}
	h.Points[ThumbMCP] = Point3D{X: 0.58, Y: 0.73, Z: 0.02}
	h.Points[ThumbIP] = Point3D{X: 0.58, Y: 0.71, Z: 0.02}
	h.Points[ThumbTip] = Point3D{X: 0.58, Y: 0.70, Z: 0.02}

	// Index curled: tip pulled back toward the palm.
	h.Points[IndexMCP] = Point3D{X: 0.54, Y: 0.68, Z: -0.02}
	h.Points[IndexPIP] = Point3D{X: 0.54, Y: 0.65, Z: -0.05}
	h.Points[IndexDIP] = Point3D{X: 0.52, Y: 0.70, Z: -0.05}
	h.Points[IndexTip] = Point3D{X: 0.51, Y: 0.75, Z: -0.03}

	// Middle curled.
	h.Points[MiddleMCP] = Point3D{X: 0.50, Y: 0.67, Z: -0.02}
	h.Points[MiddlePIP] = Point3D{X: 0.50, Y: 0.64, Z: -0.05}
	h.Points[MiddleDIP] = Point3D{X: 0.50, Y: 0.70, Z: -0.05}
	h.Points[MiddleTip] = Point3D{X: 0.50, Y: 0.76, Z: -0.03}

	// Ring curled.
	h.Points[RingMCP] = Point3D{X: 0.46, Y: 0.68, Z: -0.02}
	h.Points[RingPIP] = Point3D{X: 0.46, Y: 0.65, Z: -0.05}
	h.Points[RingDIP] = Point3D{X: 0.48, Y: 0.70, Z: -0.05}
	h.Points[RingTip] = Point3D{X: 0.49, Y: 0.75, Z: -0.03}

	// Pinky curled.
	h.Points[PinkyMCP] = Point3D{X: 0.42, Y: 0.70, Z: -0.02}
	h.Points[PinkyPIP] = Point3D{X: 0.42, Y: 0.68, Z: -0.04}
	h.Points[PinkyDIP] = Point3D{X: 0.44, Y: 0.72, Z: -0.04}
	h.Points[PinkyTip] = Point3D{X: 0.46, Y: 0.76, Z: -0.02}

	return h
}

// PinchedHandLandmarks returns an observation whose thumb tip rests on the
// middle fingertip (squared distance 1e-4, inside both pinch thresholds).
// middleTipY positions the middle fingertip so tests can drive the
// release-velocity gate frame by frame.
func PinchedHandLandmarks(side string, middleTipY float64) HandLandmarks {
	h := OpenHandLandmarks(side)
	h.Points[MiddleTip] = Point3D{X: 0.50, Y: middleTipY, Z: 0.0}
	h.Points[ThumbTip] = Point3D{X: 0.51, Y: middleTipY, Z: 0.0}
	return h
}

// ReleasedHandLandmarks returns an observation with the thumb tip well
// clear of the middle fingertip (squared distance 0.04, outside both pinch
// thresholds), with the middle fingertip at middleTipY.
func ReleasedHandLandmarks(side string, middleTipY float64) HandLandmarks {
	h := OpenHandLandmarks(side)
	h.Points[MiddleTip] = Point3D{X: 0.50, Y: middleTipY, Z: 0.0}
	h.Points[ThumbTip] = Point3D{X: 0.70, Y: middleTipY, Z: 0.0}
	return h
}
