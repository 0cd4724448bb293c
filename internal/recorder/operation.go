package recorder

import (
	"encoding/json"
	"fmt"
	"time"
)

// OpKind tags an outbox operation. Replayed envelopes with any other tag
// are rejected.
type OpKind string

const (
	OpUserCreate       OpKind = "user_create"
	OpProfileUpdate    OpKind = "profile_update"
	OpSessionStart     OpKind = "session_start"
	OpAttemptRecord    OpKind = "attempt_record"
	OpSessionComplete  OpKind = "session_complete"
	OpAchievementAward OpKind = "achievement_award"
)

// KnownOpKind reports whether k is a replayable operation tag.
func KnownOpKind(k OpKind) bool {
	switch k {
	case OpUserCreate, OpProfileUpdate, OpSessionStart,
		OpAttemptRecord, OpSessionComplete, OpAchievementAward:
		return true
	}
	return false
}

// Operation is one pending write: a tagged envelope around the record's
// JSON form. The local store persists operations verbatim in the outbox;
// the remote backend applies them by kind.
type Operation struct {
	// ID is the outbox rowid; zero until queued.
	ID int64 `json:"id,omitempty"`

	Kind OpKind `json:"kind"`

	// SessionID groups operations so drain order per session is auditable.
	// Empty for user-level operations.
	SessionID string `json:"session_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// Payload is the JSON form of the record for Kind.
	Payload json.RawMessage `json:"payload"`
}

// NewOperation marshals a record into a tagged operation envelope.
func NewOperation(kind OpKind, sessionID string, record any, at time.Time) (Operation, error) {
	payload, err := json.Marshal(record)
	if err != nil {
		return Operation{}, fmt.Errorf("marshal %s payload: %w", kind, err)
	}
	return Operation{
		Kind:      kind,
		SessionID: sessionID,
		CreatedAt: at,
		Payload:   payload,
	}, nil
}
