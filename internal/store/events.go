package store

import (
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Session represents one daemon run.
type Session struct {
	ID         string    `json:"id"`
	SnapPolicy string    `json:"snap_policy"`
	StartedAt  time.Time `json:"started_at"`
}

// SnapEvent is one logged snap.
type SnapEvent struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Hand      string    `json:"hand"`
	Policy    string    `json:"policy"`
	Velocity  float64   `json:"velocity"`
	FiredAt   time.Time `json:"fired_at"`
}

// EventRepository records sessions and snap events.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// StartSession inserts a session row for this run and returns it.
func (r *EventRepository) StartSession(snapPolicy string) (*Session, error) {
	session := &Session{
		ID:         uuid.NewString(),
		SnapPolicy: snapPolicy,
		StartedAt:  time.Now(),
	}

	_, err := r.db.Exec(
		`INSERT INTO sessions (id, snap_policy, started_at) VALUES (?, ?, ?)`,
		session.ID, session.SnapPolicy, session.StartedAt,
	)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession retrieves a session by ID.
func (r *EventRepository) GetSession(id string) (*Session, error) {
	session := &Session{}
	err := r.db.QueryRow(
		`SELECT id, snap_policy, started_at FROM sessions WHERE id = ?`, id,
	).Scan(&session.ID, &session.SnapPolicy, &session.StartedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return session, nil
}

// RecordSnap logs one fired snap under the given session.
func (r *EventRepository) RecordSnap(sessionID, hand, policy string, velocity float64) (*SnapEvent, error) {
	event := &SnapEvent{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		Hand:      hand,
		Policy:    policy,
		Velocity:  velocity,
		FiredAt:   time.Now(),
	}

	_, err := r.db.Exec(
		`INSERT INTO snap_events (id, session_id, hand, policy, velocity, fired_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, event.SessionID, event.Hand, event.Policy, event.Velocity, event.FiredAt,
	)
	if err != nil {
		return nil, err
	}
	return event, nil
}

// ListRecentSnaps returns up to limit snap events, newest first.
func (r *EventRepository) ListRecentSnaps(limit int) ([]SnapEvent, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, session_id, hand, policy, velocity, fired_at
		 FROM snap_events
		 ORDER BY fired_at DESC, id
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []SnapEvent
	for rows.Next() {
		var e SnapEvent
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Hand, &e.Policy, &e.Velocity, &e.FiredAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return events, nil
}

// CountSnaps returns the total number of snaps recorded in a session.
func (r *EventRepository) CountSnaps(sessionID string) (int, error) {
	var count int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM snap_events WHERE session_id = ?`, sessionID,
	).Scan(&count)
	return count, err
}
