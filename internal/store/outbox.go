package store

import (
	"fmt"

	"sproutmath/internal/recorder"
)

// EnqueueOutbox appends a pending operation. The AUTOINCREMENT id is the
// replay order.
func (s *Store) EnqueueOutbox(op recorder.Operation) error {
	_, err := s.db.Exec(
		`INSERT INTO outbox (kind, session_id, created_at, payload) VALUES (?, ?, ?, ?)`,
		string(op.Kind), op.SessionID, formatTime(op.CreatedAt), string(op.Payload),
	)
	if err != nil {
		return fmt.Errorf("enqueue outbox: %w", err)
	}
	return nil
}

// PendingOutbox returns queued operations in insertion order.
func (s *Store) PendingOutbox() ([]recorder.Operation, error) {
	rows, err := s.db.Query(
		`SELECT id, kind, session_id, created_at, payload FROM outbox ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("read outbox: %w", err)
	}
	defer rows.Close()

	var ops []recorder.Operation
	for rows.Next() {
		var (
			op        recorder.Operation
			kind      string
			createdAt string
			payload   string
		)
		if err := rows.Scan(&op.ID, &kind, &op.SessionID, &createdAt, &payload); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		op.Kind = recorder.OpKind(kind)
		op.Payload = []byte(payload)
		if op.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse outbox timestamp: %w", err)
		}
		ops = append(ops, op)
	}
	return ops, rows.Err()
}

// DeleteOutbox acknowledges one delivered (or rejected) operation.
func (s *Store) DeleteOutbox(id int64) error {
	if _, err := s.db.Exec(`DELETE FROM outbox WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete outbox op %d: %w", id, err)
	}
	return nil
}

// OutboxCount reports the number of queued operations.
func (s *Store) OutboxCount() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM outbox`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count outbox: %w", err)
	}
	return n, nil
}
