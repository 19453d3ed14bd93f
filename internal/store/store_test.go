package store

import (
	"errors"
	"path/filepath"
	"testing"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestEventRepository_SessionLifecycle(t *testing.T) {
	s := testStore(t)

	session, err := s.Events().StartSession("velocity")
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}
	if session.ID == "" {
		t.Fatal("session ID is empty")
	}

	got, err := s.Events().GetSession(session.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if got.SnapPolicy != "velocity" {
		t.Errorf("snap policy = %q, want %q", got.SnapPolicy, "velocity")
	}

	if _, err := s.Events().GetSession("no-such-session"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetSession(missing) error = %v, want ErrNotFound", err)
	}
}

func TestEventRepository_RecordAndList(t *testing.T) {
	s := testStore(t)

	session, err := s.Events().StartSession("edge")
	if err != nil {
		t.Fatalf("StartSession() error = %v", err)
	}

	for _, hand := range []string{"Left", "Right", "Left"} {
		if _, err := s.Events().RecordSnap(session.ID, hand, "edge", 0); err != nil {
			t.Fatalf("RecordSnap(%s) error = %v", hand, err)
		}
	}

	count, err := s.Events().CountSnaps(session.ID)
	if err != nil {
		t.Fatalf("CountSnaps() error = %v", err)
	}
	if count != 3 {
		t.Errorf("snap count = %d, want 3", count)
	}

	events, err := s.Events().ListRecentSnaps(2)
	if err != nil {
		t.Fatalf("ListRecentSnaps() error = %v", err)
	}
	if len(events) != 2 {
		t.Errorf("recent events = %d, want 2 (limit)", len(events))
	}
	for _, e := range events {
		if e.SessionID != session.ID {
			t.Errorf("event session = %q, want %q", e.SessionID, session.ID)
		}
	}
}

func TestEventRepository_RejectsUnknownHand(t *testing.T) {
	s := testStore(t)

	session, _ := s.Events().StartSession("edge")
	if _, err := s.Events().RecordSnap(session.ID, "Both", "edge", 0); err == nil {
		t.Error("expected CHECK constraint failure for unknown hand")
	}
}
