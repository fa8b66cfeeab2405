package store

import (
	"database/sql"
	"errors"
	"time"
)

// EventTrigger records which rule produced a detection event.
type EventTrigger string

const (
	// EventTriggerInstant marks an event from the instantaneous
	// high-confidence rule.
	EventTriggerInstant EventTrigger = "instant"
	// EventTriggerSustained marks an event from a hysteresis-confirmed
	// label.
	EventTriggerSustained EventTrigger = "sustained"
)

// Event is one logged danger detection.
type Event struct {
	ID          string
	Label       string
	Probability float64
	Trigger     EventTrigger
	CreatedAt   time.Time
}

// EventRepository provides access to the detection event log.
type EventRepository struct {
	db *sql.DB
}

// Events returns the event repository for this store.
func (s *Store) Events() *EventRepository {
	return &EventRepository{db: s.db}
}

// Create inserts a new detection event.
func (r *EventRepository) Create(e *Event) error {
	e.CreatedAt = time.Now()

	_, err := r.db.Exec(
		`INSERT INTO events (id, label, probability, trigger_type, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Label, e.Probability, string(e.Trigger), e.CreatedAt,
	)
	return err
}

// GetByID retrieves an event by its ID.
func (r *EventRepository) GetByID(id string) (*Event, error) {
	e := &Event{}
	var trigger string

	err := r.db.QueryRow(
		`SELECT id, label, probability, trigger_type, created_at FROM events WHERE id = ?`,
		id,
	).Scan(&e.ID, &e.Label, &e.Probability, &trigger, &e.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	e.Trigger = EventTrigger(trigger)
	return e, nil
}

// ListRecent returns up to limit events, newest first. A non-positive limit
// defaults to 50.
func (r *EventRepository) ListRecent(limit int) ([]*Event, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(
		`SELECT id, label, probability, trigger_type, created_at
		 FROM events ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*Event
	for rows.Next() {
		e := &Event{}
		var trigger string
		if err := rows.Scan(&e.ID, &e.Label, &e.Probability, &trigger, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Trigger = EventTrigger(trigger)
		events = append(events, e)
	}

	return events, rows.Err()
}

// Prune deletes events older than the cutoff and returns how many were
// removed.
func (r *EventRepository) Prune(olderThan time.Time) (int64, error) {
	result, err := r.db.Exec(`DELETE FROM events WHERE created_at < ?`, olderThan)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
