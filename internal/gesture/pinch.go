package gesture

import "github.com/ayusman/masterhand/internal/detector"

// Pinch threshold regimes, in squared normalized-coordinate units.
//
// The tight bound pairs with the edge-triggered snap policy, which has no
// other noise filter. The loose bound pairs with the velocity-gated policy,
// which can afford extra positional slack because the velocity gate rejects
// jitter independently.
const (
	TightPinchThresholdSq = 0.002
	LoosePinchThresholdSq = 0.004
)

// IsPinching reports whether the thumb tip and middle fingertip are closer
// than the given squared threshold. Strictly less than: a hand exactly at
// the threshold is not pinching. Pure, stateless.
func IsPinching(hand *detector.HandLandmarks, thresholdSq float64) bool {
	d := hand.Points[detector.ThumbTip].SquaredDistanceTo(hand.Points[detector.MiddleTip])
	return d < thresholdSq
}
