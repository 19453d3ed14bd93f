// Package gesture implements the MasterHand gesture core: a per-frame,
// per-hand classification of hand openness and a temporal state machine
// that turns pinch transitions into discrete snap events.
package gesture

import "github.com/ayusman/masterhand/internal/detector"

// Gesture is the per-hand openness classification.
type Gesture string

const (
	// Fist means at least three of the four non-thumb fingers are folded.
	Fist Gesture = "Fist"
	// Open means no non-thumb finger is folded.
	Open Gesture = "Open"
	// Neutral covers everything in between.
	Neutral Gesture = "Neutral"
)

// fistFoldThreshold is the minimum folded-finger count that reads as a fist.
const fistFoldThreshold = 3

// fingerJoints pairs each non-thumb fingertip with its MCP (knuckle) joint.
var fingerJoints = [4][2]int{
	{detector.IndexTip, detector.IndexMCP},
	{detector.MiddleTip, detector.MiddleMCP},
	{detector.RingTip, detector.RingMCP},
	{detector.PinkyTip, detector.PinkyMCP},
}

// FoldedCount returns how many of the four non-thumb fingers are curled.
// A finger counts as folded when its tip is strictly closer to the wrist
// than its own MCP joint. Comparing distances to the wrist instead of
// joint angles tolerates in-plane rotation and partial occlusion of the
// distal joints.
func FoldedCount(hand *detector.HandLandmarks) int {
	wrist := hand.Points[detector.Wrist]

	folded := 0
	for _, joints := range fingerJoints {
		tipDist := wrist.SquaredDistanceTo(hand.Points[joints[0]])
		mcpDist := wrist.SquaredDistanceTo(hand.Points[joints[1]])
		if tipDist < mcpDist {
			folded++
		}
	}
	return folded
}

// Classify maps a single hand observation to Fist, Open, or Neutral.
// Pure: no state, no side effects.
func Classify(hand *detector.HandLandmarks) Gesture {
	switch folded := FoldedCount(hand); {
	case folded >= fistFoldThreshold:
		return Fist
	case folded == 0:
		return Open
	default:
		return Neutral
	}
}
