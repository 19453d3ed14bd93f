// Package sink forwards per-frame gesture results to the downstream
// consumer as JSON datagrams. The sink is a thin boundary: it holds no
// gesture logic and no per-hand state.
package sink

import (
	"encoding/json"
	"fmt"
	"net"
	"sync"

	"github.com/ayusman/masterhand/internal/gesture"
)

// landmarkPayload is one landmark entry on the wire.
type landmarkPayload struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
}

// handPayload is one hand entry on the wire. Gesture is omitted in the
// bare-relay variant.
type handPayload struct {
	Label     string            `json:"label"`
	Landmarks []landmarkPayload `json:"landmarks"`
	Gesture   string            `json:"gesture,omitempty"`
}

// framePayload is the complete datagram. Snap is omitted in the
// bare-relay variant but always present (true or false) in the full one.
type framePayload struct {
	Hands []handPayload `json:"hands"`
	Snap  *bool         `json:"snap,omitempty"`
}

// EncodeFrame serializes a frame result. full selects the variant that
// carries the gesture and snap fields; when false the payload is a bare
// landmark relay. A nil or handless result encodes to nil: frames without
// hands produce no payload at all.
func EncodeFrame(result *gesture.FrameResult, full bool) ([]byte, error) {
	if result == nil || len(result.Hands) == 0 {
		return nil, nil
	}

	payload := framePayload{Hands: make([]handPayload, 0, len(result.Hands))}
	for i := range result.Hands {
		hand := &result.Hands[i]

		hp := handPayload{
			Label:     hand.Label,
			Landmarks: make([]landmarkPayload, len(hand.Landmarks)),
		}
		for id, p := range hand.Landmarks {
			hp.Landmarks[id] = landmarkPayload{ID: id, X: p.X, Y: p.Y, Z: p.Z}
		}
		if full {
			hp.Gesture = string(hand.Gesture)
		}
		payload.Hands = append(payload.Hands, hp)
	}

	if full {
		snap := result.Snap
		payload.Snap = &snap
	}

	return json.Marshal(payload)
}

// Sink consumes one frame result per frame with at least one hand.
type Sink interface {
	Send(result *gesture.FrameResult) error
	Close() error
}

// UDPSink sends frame payloads as UDP datagrams, fire-and-forget, the
// way the consumer process expects them.
type UDPSink struct {
	conn net.Conn
	full bool
}

// NewUDPSink connects (in the UDP sense) to the consumer address, e.g.
// "127.0.0.1:5005".
func NewUDPSink(addr string, full bool) (*UDPSink, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial event sink %s: %w", addr, err)
	}
	return &UDPSink{conn: conn, full: full}, nil
}

// Send encodes and transmits one frame. Frames without hands are dropped
// silently; the consumer receives nothing, not an empty-hands payload.
func (s *UDPSink) Send(result *gesture.FrameResult) error {
	data, err := EncodeFrame(result, s.full)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	if data == nil {
		return nil
	}
	if _, err := s.conn.Write(data); err != nil {
		return fmt.Errorf("send frame: %w", err)
	}
	return nil
}

// Close releases the socket.
func (s *UDPSink) Close() error {
	return s.conn.Close()
}

// RecordingSink captures sent frames for tests.
type RecordingSink struct {
	mu     sync.Mutex
	full   bool
	frames [][]byte
}

// NewRecordingSink creates a RecordingSink emitting the given variant.
func NewRecordingSink(full bool) *RecordingSink {
	return &RecordingSink{full: full}
}

// Send records the encoded payload, applying the same no-hands rule as
// the UDP sink.
func (s *RecordingSink) Send(result *gesture.FrameResult) error {
	data, err := EncodeFrame(result, s.full)
	if err != nil {
		return err
	}
	if data == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, data)
	return nil
}

// Close is a no-op.
func (s *RecordingSink) Close() error { return nil }

// Frames returns the payloads recorded so far.
func (s *RecordingSink) Frames() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.frames))
	copy(out, s.frames)
	return out
}
