package gesture

import (
	"errors"
	"testing"

	"github.com/ayusman/masterhand/internal/detector"
)

func TestEngine_EmptyFrame(t *testing.T) {
	e := NewEngine(DefaultConfig())

	// Seed some state first.
	pinched := detector.PinchedHandLandmarks(detector.LeftHand, 0.5)
	if _, err := e.ProcessFrame([]detector.HandLandmarks{pinched}); err != nil {
		t.Fatalf("ProcessFrame() error = %v", err)
	}
	before, _ := e.State(detector.LeftHand)

	result, err := e.ProcessFrame(nil)
	if err != nil {
		t.Fatalf("ProcessFrame(nil) error = %v", err)
	}
	if result != nil {
		t.Errorf("empty frame produced a result: %+v", result)
	}

	after, _ := e.State(detector.LeftHand)
	if before != after {
		t.Errorf("empty frame changed state: %+v -> %+v", before, after)
	}
}

func TestEngine_UnknownLabelRejectsWholeFrame(t *testing.T) {
	e := NewEngine(DefaultConfig())

	good := detector.PinchedHandLandmarks(detector.LeftHand, 0.5)
	bad := detector.PinchedHandLandmarks(detector.LeftHand, 0.5)
	bad.Handedness = "Center"

	_, err := e.ProcessFrame([]detector.HandLandmarks{good, bad})
	if !errors.Is(err, ErrUnknownHand) {
		t.Fatalf("error = %v, want ErrUnknownHand", err)
	}

	// The valid hand preceding the bad one must not have been updated.
	state, _ := e.State(detector.LeftHand)
	if state.IsPinching {
		t.Error("rejected frame updated left-hand state")
	}
}

func TestEngine_TwoHandsORSemantics(t *testing.T) {
	e := NewEngine(Config{Policy: VelocityGated, Classify: true})

	var events []SnapEvent
	e.OnSnap = func(ev SnapEvent) { events = append(events, ev) }

	// Frame 1: left pinched, right apart. No snap possible yet.
	frame1 := []detector.HandLandmarks{
		detector.PinchedHandLandmarks(detector.LeftHand, 0.50),
		detector.ReleasedHandLandmarks(detector.RightHand, 0.50),
	}
	result, err := e.ProcessFrame(frame1)
	if err != nil {
		t.Fatalf("frame 1 error = %v", err)
	}
	if result.Snap {
		t.Error("frame 1 snapped")
	}

	// Frame 2: left releases fast, right stays apart and still.
	frame2 := []detector.HandLandmarks{
		detector.ReleasedHandLandmarks(detector.LeftHand, 0.59),
		detector.ReleasedHandLandmarks(detector.RightHand, 0.50),
	}
	result, err = e.ProcessFrame(frame2)
	if err != nil {
		t.Fatalf("frame 2 error = %v", err)
	}

	if !result.Snap {
		t.Error("frame snap flag false, want true (left hand fired)")
	}
	if len(result.Hands) != 2 {
		t.Fatalf("hands in result = %d, want 2", len(result.Hands))
	}
	if len(events) != 1 {
		t.Fatalf("snap events = %d, want 1", len(events))
	}
	if events[0].Hand != detector.LeftHand {
		t.Errorf("snap event hand = %q, want %q", events[0].Hand, detector.LeftHand)
	}
	if events[0].Policy != VelocityGated {
		t.Errorf("snap event policy = %q, want %q", events[0].Policy, VelocityGated)
	}
}

func TestEngine_Idempotence(t *testing.T) {
	e := NewEngine(Config{Policy: EdgeTriggered, Classify: true})

	var snaps int
	e.OnSnap = func(SnapEvent) { snaps++ }

	pinched := detector.PinchedHandLandmarks(detector.RightHand, 0.5)

	// First observation is the touch edge.
	if _, err := e.ProcessFrame([]detector.HandLandmarks{pinched}); err != nil {
		t.Fatalf("frame 1 error = %v", err)
	}
	stateAfterFirst, _ := e.State(detector.RightHand)

	// Identical observation again: stable state, no second snap.
	result, err := e.ProcessFrame([]detector.HandLandmarks{pinched})
	if err != nil {
		t.Fatalf("frame 2 error = %v", err)
	}

	if result.Snap {
		t.Error("second identical frame snapped")
	}
	if snaps != 1 {
		t.Errorf("snap hook calls = %d, want 1", snaps)
	}

	stateAfterSecond, _ := e.State(detector.RightHand)
	if stateAfterFirst != stateAfterSecond {
		t.Errorf("state changed between identical frames: %+v -> %+v", stateAfterFirst, stateAfterSecond)
	}
}

func TestEngine_StatePersistsWhileHandAbsent(t *testing.T) {
	e := NewEngine(Config{Policy: VelocityGated, Classify: true})

	// Left pinches, then vanishes for a frame while only the right hand
	// is observed, then reappears releasing fast. The retained left state
	// (pinching, prev y) must still produce the snap.
	frames := [][]detector.HandLandmarks{
		{detector.PinchedHandLandmarks(detector.LeftHand, 0.50)},
		{detector.ReleasedHandLandmarks(detector.RightHand, 0.30)},
		{detector.ReleasedHandLandmarks(detector.LeftHand, 0.59)},
	}

	var last *FrameResult
	for i, frame := range frames {
		result, err := e.ProcessFrame(frame)
		if err != nil {
			t.Fatalf("frame %d error = %v", i, err)
		}
		last = result
	}

	if !last.Snap {
		t.Error("left hand snap lost across an absent frame")
	}
}

func TestEngine_BareRelayVariant(t *testing.T) {
	e := NewEngine(Config{Policy: EdgeTriggered, Classify: false})

	open := detector.OpenHandLandmarks(detector.RightHand)
	result, err := e.ProcessFrame([]detector.HandLandmarks{open})
	if err != nil {
		t.Fatalf("ProcessFrame() error = %v", err)
	}

	if result.Hands[0].Gesture != "" {
		t.Errorf("bare relay produced gesture %q", result.Hands[0].Gesture)
	}

	// The snap state machine still runs in bare mode.
	pinched := detector.PinchedHandLandmarks(detector.RightHand, 0.5)
	result, err = e.ProcessFrame([]detector.HandLandmarks{pinched})
	if err != nil {
		t.Fatalf("ProcessFrame() error = %v", err)
	}
	if !result.Snap {
		t.Error("bare relay suppressed the snap state machine")
	}
}

func TestNewEngine_PerPolicyPinchDefaults(t *testing.T) {
	edge := NewEngine(Config{Policy: EdgeTriggered})
	if got := edge.Config().PinchThresholdSq; got != TightPinchThresholdSq {
		t.Errorf("edge-triggered pinch threshold = %f, want %f", got, TightPinchThresholdSq)
	}

	vel := NewEngine(Config{Policy: VelocityGated})
	if got := vel.Config().PinchThresholdSq; got != LoosePinchThresholdSq {
		t.Errorf("velocity-gated pinch threshold = %f, want %f", got, LoosePinchThresholdSq)
	}

	custom := NewEngine(Config{Policy: VelocityGated, PinchThresholdSq: 0.001})
	if got := custom.Config().PinchThresholdSq; got != 0.001 {
		t.Errorf("explicit pinch threshold = %f, want 0.001", got)
	}
}

func TestEngine_SetPolicy(t *testing.T) {
	t.Run("StateCarriesOver", func(t *testing.T) {
		e := NewEngine(Config{Policy: EdgeTriggered, Classify: true})

		// Pinch under edge rules: fires on the press.
		pinched := detector.PinchedHandLandmarks(detector.RightHand, 0.50)
		result, err := e.ProcessFrame([]detector.HandLandmarks{pinched})
		if err != nil {
			t.Fatalf("ProcessFrame() error = %v", err)
		}
		if !result.Snap {
			t.Fatal("edge-triggered press did not fire")
		}

		e.SetPolicy(VelocityGated)

		// The hand is still pinching, so a fast release under the new
		// policy fires immediately.
		released := detector.ReleasedHandLandmarks(detector.RightHand, 0.41)
		result, err = e.ProcessFrame([]detector.HandLandmarks{released})
		if err != nil {
			t.Fatalf("ProcessFrame() error = %v", err)
		}
		if !result.Snap {
			t.Error("release after policy switch did not fire")
		}
	})

	t.Run("DefaultedPinchBoundRetunes", func(t *testing.T) {
		e := NewEngine(Config{Policy: EdgeTriggered})
		e.SetPolicy(VelocityGated)
		if got := e.Config().PinchThresholdSq; got != LoosePinchThresholdSq {
			t.Errorf("pinch threshold after switch = %f, want %f", got, LoosePinchThresholdSq)
		}
	})

	t.Run("ExplicitPinchBoundKept", func(t *testing.T) {
		e := NewEngine(Config{Policy: EdgeTriggered, PinchThresholdSq: 0.001})
		e.SetPolicy(VelocityGated)
		if got := e.Config().PinchThresholdSq; got != 0.001 {
			t.Errorf("pinch threshold after switch = %f, want 0.001", got)
		}
	})

	t.Run("SamePolicyNoOp", func(t *testing.T) {
		e := NewEngine(Config{Policy: VelocityGated})
		e.SetPolicy(VelocityGated)
		if got := e.Config().Policy; got != VelocityGated {
			t.Errorf("policy = %q, want %q", got, VelocityGated)
		}
	})
}
