package gesture

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ayusman/masterhand/internal/detector"
)

// ErrUnknownHand is returned when an observation carries a hand label the
// engine has no state slot for. The label set is fixed by the upstream
// model; anything else is a precondition violation, not a new hand.
var ErrUnknownHand = errors.New("unknown hand label")

// HandResult is one hand's share of a frame result.
type HandResult struct {
	Label     string                                  `json:"label"`
	Landmarks [detector.NumLandmarks]detector.Point3D `json:"landmarks"`
	Gesture   Gesture                                 `json:"gesture,omitempty"`
}

// FrameResult is the engine output for one frame, rebuilt from scratch
// every frame. Snap is the OR across all observed hands.
type FrameResult struct {
	Hands []HandResult
	Snap  bool
}

// SnapEvent describes one fired snap, delivered to the OnSnap hook.
type SnapEvent struct {
	Hand     string
	Policy   SnapPolicy
	Velocity float64
}

// Config selects the engine's policy variant and thresholds.
type Config struct {
	// Policy picks edge-triggered or velocity-gated snap detection.
	Policy SnapPolicy

	// PinchThresholdSq is the squared thumb-to-middle-tip pinch distance.
	// Zero selects the per-policy default (tight for edge-triggered,
	// loose for velocity-gated).
	PinchThresholdSq float64

	// VelocityThreshold is the minimum |Δy| per frame for a velocity-gated
	// release to fire. Zero selects the default.
	VelocityThreshold float64

	// Classify enables the openness classifier. When false the engine
	// produces a bare landmark relay: no gesture on hand results, and
	// downstream encoders omit the gesture/snap fields. The snap state
	// machine still runs so per-hand state stays consistent if the
	// variant is switched at runtime.
	Classify bool
}

// DefaultConfig returns the velocity-gated full variant the daemon ships
// with.
func DefaultConfig() Config {
	return Config{
		Policy:   VelocityGated,
		Classify: true,
	}
}

// defaultPinchThresholdSq maps a policy to its tuned pinch bound.
func defaultPinchThresholdSq(policy SnapPolicy) float64 {
	if policy == VelocityGated {
		return LoosePinchThresholdSq
	}
	return TightPinchThresholdSq
}

// Engine applies the gesture core to one frame at a time. It owns the
// only persistent entity in the system: one HandState per hand side,
// held in two fixed slots rather than an open map. The engine performs
// no I/O and never blocks; snap notification goes through the OnSnap
// hook, which must be set before the first frame is processed.
type Engine struct {
	mu     sync.Mutex
	config Config
	snap   *SnapDetector
	left   HandState
	right  HandState

	// pinchDefaulted records that the pinch bound came from the policy
	// default, so a policy switch may retune it.
	pinchDefaulted bool

	// OnSnap, if set, is invoked synchronously for every fired snap.
	OnSnap func(SnapEvent)
}

// NewEngine creates an engine with zeroed per-hand state.
func NewEngine(config Config) *Engine {
	defaulted := config.PinchThresholdSq <= 0
	if defaulted {
		config.PinchThresholdSq = defaultPinchThresholdSq(config.Policy)
	}
	return &Engine{
		config:         config,
		snap:           NewSnapDetector(config.Policy, config.VelocityThreshold),
		pinchDefaulted: defaulted,
	}
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config
}

// SetPolicy switches the snap policy at runtime. Per-hand state carries
// over unchanged, so a hand already pinching stays pinching under the
// new rules; an explicitly configured pinch bound is kept, a defaulted
// one is retuned to the new policy's default.
func (e *Engine) SetPolicy(policy SnapPolicy) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if policy == e.config.Policy {
		return
	}
	e.config.Policy = policy
	if e.pinchDefaulted {
		e.config.PinchThresholdSq = defaultPinchThresholdSq(policy)
	}
	e.snap = NewSnapDetector(policy, e.config.VelocityThreshold)
}

// stateFor resolves a hand label to its state slot.
func (e *Engine) stateFor(label string) (*HandState, error) {
	switch label {
	case detector.LeftHand:
		return &e.left, nil
	case detector.RightHand:
		return &e.right, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownHand, label)
	}
}

// ProcessFrame runs the core on one frame's observations, in received
// order, and returns the rebuilt frame result. An empty batch returns
// (nil, nil) and leaves all per-hand state untouched. On an unknown hand
// label the frame is rejected whole and no state is modified.
//
// Both hand slots are updated under one lock acquisition, so concurrent
// readers never observe a frame with only one side advanced.
func (e *Engine) ProcessFrame(hands []detector.HandLandmarks) (*FrameResult, error) {
	if len(hands) == 0 {
		return nil, nil
	}

	result, events, err := e.processLocked(hands)
	if err != nil {
		return nil, err
	}

	// Hooks fire outside the state lock so they may inspect the engine.
	if e.OnSnap != nil {
		for _, ev := range events {
			e.OnSnap(ev)
		}
	}

	return result, nil
}

func (e *Engine) processLocked(hands []detector.HandLandmarks) (*FrameResult, []SnapEvent, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	// Validate every label before touching any state, so a bad frame
	// cannot leave one side updated and the other not.
	for i := range hands {
		if _, err := e.stateFor(hands[i].Handedness); err != nil {
			return nil, nil, err
		}
	}

	result := &FrameResult{Hands: make([]HandResult, 0, len(hands))}
	var events []SnapEvent

	for i := range hands {
		hand := &hands[i]
		state, _ := e.stateFor(hand.Handedness)

		out := HandResult{
			Label:     hand.Handedness,
			Landmarks: hand.Points,
		}
		if e.config.Classify {
			out.Gesture = Classify(hand)
		}

		pinching := IsPinching(hand, e.config.PinchThresholdSq)
		middleTipY := hand.Points[detector.MiddleTip].Y

		if fired, velocity := e.snap.Step(state, pinching, middleTipY); fired {
			result.Snap = true
			events = append(events, SnapEvent{
				Hand:     hand.Handedness,
				Policy:   e.snap.Policy(),
				Velocity: velocity,
			})
		}

		result.Hands = append(result.Hands, out)
	}

	return result, events, nil
}

// State returns a copy of the persistent state for the given side, for
// inspection by tests and the debug surface.
func (e *Engine) State(label string) (HandState, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	state, err := e.stateFor(label)
	if err != nil {
		return HandState{}, err
	}
	return *state, nil
}
