package recorder

import (
	"testing"
	"time"
)

func TestValidateOperationAcceptsKnownKinds(t *testing.T) {
	now := time.Now().UTC()
	for _, kind := range []OpKind{
		OpUserCreate, OpProfileUpdate, OpSessionStart,
		OpAttemptRecord, OpSessionComplete, OpAchievementAward,
	} {
		op, err := NewOperation(kind, "s1", SessionRecord{ID: "s1"}, now)
		if err != nil {
			t.Fatal(err)
		}
		op.ID = 42
		if err := validateOperation(op); err != nil {
			t.Errorf("kind %q rejected: %v", kind, err)
		}
	}
}

func TestValidateOperationRejectsUnknownKind(t *testing.T) {
	op, err := NewOperation(OpKind("telemetry_blob"), "", SessionRecord{}, time.Now().UTC())
	if err != nil {
		t.Fatal(err)
	}
	if err := validateOperation(op); err == nil {
		t.Error("unknown kind passed validation")
	}
}

func TestValidateOperationRejectsNonObjectPayload(t *testing.T) {
	op, err := NewOperation(OpSessionStart, "s1", "just a string", time.Now().UTC())
	if err != nil {
		t.Fatal(err)
	}
	if err := validateOperation(op); err == nil {
		t.Error("string payload passed validation")
	}
}

func TestKnownOpKind(t *testing.T) {
	if !KnownOpKind(OpAttemptRecord) {
		t.Error("attempt_record should be known")
	}
	if KnownOpKind(OpKind("telemetry_blob")) {
		t.Error("telemetry_blob should be unknown")
	}
}
