package gesture

import "math"

// SnapPolicy selects how pinch-state transitions map to snap events.
type SnapPolicy string

const (
	// EdgeTriggered fires the instant thumb and middle finger first touch
	// (not-pinching -> pinching). No velocity check.
	EdgeTriggered SnapPolicy = "edge"

	// VelocityGated fires on the release (pinching -> not-pinching), and
	// only when the middle fingertip moved fast enough that frame —
	// matching the physical snap motion where the fingers spring apart.
	VelocityGated SnapPolicy = "velocity"
)

// DefaultVelocityThreshold is the minimum per-frame |Δy| of the middle
// fingertip, in normalized units, for a release to count as a snap.
const DefaultVelocityThreshold = 0.04

// HandState is the persistent per-hand-side record the snap detector reads
// and writes. Zero value is the initial state: not pinching, no prior
// fingertip sample.
type HandState struct {
	IsPinching     bool
	PrevMiddleTipY float64
}

// SnapDetector decides, per frame and per hand, whether a snap fired.
// It is configured once and shared across both hand states; all temporal
// information lives in the HandState passed to Step.
type SnapDetector struct {
	policy            SnapPolicy
	velocityThreshold float64
}

// NewSnapDetector creates a detector for the given policy. A zero or
// negative velocity threshold falls back to the default.
func NewSnapDetector(policy SnapPolicy, velocityThreshold float64) *SnapDetector {
	if velocityThreshold <= 0 {
		velocityThreshold = DefaultVelocityThreshold
	}
	return &SnapDetector{policy: policy, velocityThreshold: velocityThreshold}
}

// Policy returns the configured snap policy.
func (d *SnapDetector) Policy() SnapPolicy {
	return d.policy
}

// Step advances one hand's state by one frame and reports whether a snap
// fired, along with the measured per-frame fingertip velocity (|Δy|, zero
// under the edge-triggered policy).
//
// State update is unconditional: pinch flag and previous-y are written
// every frame the hand is observed, whether or not a snap fired. The
// velocity-gated policy can never fire on the first frame a side is seen,
// because the initial state is not-pinching and the release transition
// requires a prior pinching frame.
func (d *SnapDetector) Step(state *HandState, pinching bool, middleTipY float64) (fired bool, velocity float64) {
	switch d.policy {
	case VelocityGated:
		velocity = math.Abs(middleTipY - state.PrevMiddleTipY)
		if state.IsPinching && !pinching && velocity > d.velocityThreshold {
			fired = true
		}
	default: // EdgeTriggered
		if !state.IsPinching && pinching {
			fired = true
		}
	}

	state.IsPinching = pinching
	state.PrevMiddleTipY = middleTipY
	return fired, velocity
}
