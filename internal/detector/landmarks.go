// Package detector provides the hand observation data model and hand
// detection implementations for the MasterHand gesture pipeline.
package detector

import (
	"errors"
	"fmt"
)

// Hand landmark indices following the MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// Hand side labels as reported by the upstream model.
const (
	LeftHand  = "Left"
	RightHand = "Right"
)

// ErrInvalidObservation is returned when an incoming hand observation
// violates the model contract (wrong landmark count or unknown label).
// Observations are rejected rather than repaired: a silently shifted
// landmark index would corrupt gesture results with no visible symptom.
var ErrInvalidObservation = errors.New("invalid hand observation")

// Point3D is a single landmark position in normalized camera space.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// SquaredDistanceTo returns the squared Euclidean distance to another point.
// Squared distances are used throughout the classifier so threshold
// comparisons avoid the square root.
func (p Point3D) SquaredDistanceTo(q Point3D) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return dx*dx + dy*dy + dz*dz
}

// HandLandmarks is one per-frame hand observation: 21 landmarks plus the
// side label. The fixed-size array makes a wrong landmark count
// unrepresentable past the ingest boundary.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// ValidSide reports whether label is one of the two hand sides the
// upstream model can produce.
func ValidSide(label string) bool {
	return label == LeftHand || label == RightHand
}

// NewHandLandmarks validates and assembles an observation from a raw
// point slice, as received from an external landmark feed.
func NewHandLandmarks(label string, points []Point3D, score float64) (HandLandmarks, error) {
	var h HandLandmarks
	if !ValidSide(label) {
		return h, fmt.Errorf("%w: unknown handedness %q", ErrInvalidObservation, label)
	}
	if len(points) != NumLandmarks {
		return h, fmt.Errorf("%w: got %d landmarks, want %d", ErrInvalidObservation, len(points), NumLandmarks)
	}
	copy(h.Points[:], points)
	h.Handedness = label
	h.Score = score
	return h, nil
}
