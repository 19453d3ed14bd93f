package gesture

import "testing"

func TestSnapDetector_EdgeTriggered(t *testing.T) {
	t.Run("fires once on the touch transition", func(t *testing.T) {
		d := NewSnapDetector(EdgeTriggered, 0)
		var state HandState

		sequence := []bool{false, true, true, false}
		wantFired := []bool{false, true, false, false}

		for i, pinching := range sequence {
			fired, _ := d.Step(&state, pinching, 0.5)
			if fired != wantFired[i] {
				t.Errorf("frame %d (pinching=%v): fired = %v, want %v", i, pinching, fired, wantFired[i])
			}
		}
	})

	t.Run("already pinching at start never fires", func(t *testing.T) {
		d := NewSnapDetector(EdgeTriggered, 0)
		var state HandState

		for i, pinching := range []bool{true, true, true} {
			// First frame is the not-pinching -> pinching edge from the
			// zero state, so it fires; a resting pinched hand must not
			// keep firing afterwards.
			fired, _ := d.Step(&state, pinching, 0.5)
			if i == 0 {
				continue
			}
			if fired {
				t.Errorf("frame %d: resting pinch fired", i)
			}
		}
	})

	t.Run("release is silent", func(t *testing.T) {
		d := NewSnapDetector(EdgeTriggered, 0)
		state := HandState{IsPinching: true}

		if fired, _ := d.Step(&state, false, 0.5); fired {
			t.Error("pinching -> not-pinching fired under edge-triggered policy")
		}
	})
}

func TestSnapDetector_VelocityGated(t *testing.T) {
	t.Run("fast release fires", func(t *testing.T) {
		d := NewSnapDetector(VelocityGated, 0)
		state := HandState{IsPinching: true, PrevMiddleTipY: 0.50}

		fired, velocity := d.Step(&state, false, 0.59)
		if !fired {
			t.Fatal("release with |Δy|=0.09 did not fire")
		}
		if velocity < 0.089 || velocity > 0.091 {
			t.Errorf("velocity = %f, want 0.09", velocity)
		}
	})

	t.Run("slow release does not fire", func(t *testing.T) {
		d := NewSnapDetector(VelocityGated, 0)
		state := HandState{IsPinching: true, PrevMiddleTipY: 0.50}

		if fired, _ := d.Step(&state, false, 0.51); fired {
			t.Error("release with |Δy|=0.01 fired")
		}
	})

	t.Run("downward motion counts the same as upward", func(t *testing.T) {
		d := NewSnapDetector(VelocityGated, 0)
		state := HandState{IsPinching: true, PrevMiddleTipY: 0.50}

		if fired, _ := d.Step(&state, false, 0.41); !fired {
			t.Error("release with Δy=-0.09 did not fire")
		}
	})

	t.Run("touch transition is silent", func(t *testing.T) {
		d := NewSnapDetector(VelocityGated, 0)
		var state HandState

		if fired, _ := d.Step(&state, true, 0.9); fired {
			t.Error("not-pinching -> pinching fired under velocity-gated policy")
		}
	})

	t.Run("first frame never fires regardless of motion", func(t *testing.T) {
		d := NewSnapDetector(VelocityGated, 0)
		var state HandState

		// Fresh state plus a fingertip far from the zero-valued previous
		// sample: large apparent velocity, but no prior pinching frame.
		if fired, _ := d.Step(&state, false, 0.95); fired {
			t.Error("first frame fired")
		}
	})

	t.Run("custom velocity threshold is honored", func(t *testing.T) {
		d := NewSnapDetector(VelocityGated, 0.2)
		state := HandState{IsPinching: true, PrevMiddleTipY: 0.50}

		if fired, _ := d.Step(&state, false, 0.59); fired {
			t.Error("|Δy|=0.09 fired against a 0.2 threshold")
		}
	})
}

func TestSnapDetector_StateUpdateUnconditional(t *testing.T) {
	for _, policy := range []SnapPolicy{EdgeTriggered, VelocityGated} {
		t.Run(string(policy), func(t *testing.T) {
			d := NewSnapDetector(policy, 0)
			var state HandState

			d.Step(&state, true, 0.42)

			if !state.IsPinching {
				t.Error("IsPinching not updated")
			}
			if state.PrevMiddleTipY != 0.42 {
				t.Errorf("PrevMiddleTipY = %f, want 0.42", state.PrevMiddleTipY)
			}

			// No transition at all still refreshes the y sample.
			d.Step(&state, true, 0.37)
			if state.PrevMiddleTipY != 0.37 {
				t.Errorf("PrevMiddleTipY = %f, want 0.37", state.PrevMiddleTipY)
			}
		})
	}
}
