package recorder

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// outboxSchema validates replayed operation envelopes. Persisted payloads
// are open-shaped, so the schema pins the tag set and the envelope fields;
// anything with an unknown kind or a missing payload never reaches the
// backend.
var outboxSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"id": map[string]any{"type": "integer"},
		"kind": map[string]any{
			"type": "string",
			"enum": []any{
				string(OpUserCreate),
				string(OpProfileUpdate),
				string(OpSessionStart),
				string(OpAttemptRecord),
				string(OpSessionComplete),
				string(OpAchievementAward),
			},
		},
		"session_id": map[string]any{"type": "string"},
		"created_at": map[string]any{"type": "string"},
		"payload":    map[string]any{"type": "object"},
	},
	"required":             []any{"kind", "created_at", "payload"},
	"additionalProperties": false,
}

var (
	compiledOutboxSchema *jsonschema.Schema
	compileOutboxOnce    sync.Once
	compileOutboxErr     error
)

// validateOperation checks a persisted envelope before replay.
func validateOperation(op Operation) error {
	compileOutboxOnce.Do(func() {
		compiledOutboxSchema, compileOutboxErr = compileSchema("outbox-operation", outboxSchema)
	})
	if compileOutboxErr != nil {
		return fmt.Errorf("compile outbox schema: %w", compileOutboxErr)
	}

	raw, err := json.Marshal(op)
	if err != nil {
		return fmt.Errorf("marshal operation: %w", err)
	}
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return fmt.Errorf("parse operation: %w", err)
	}
	if err := compiledOutboxSchema.Validate(parsed); err != nil {
		return fmt.Errorf("invalid outbox operation: %w", err)
	}
	return nil
}

// compileSchema compiles an in-memory schema definition. The jsonschema
// library expects a parsed JSON value, so the definition round-trips
// through encoding/json first.
func compileSchema(name string, definition map[string]any) (*jsonschema.Schema, error) {
	defBytes, err := json.Marshal(definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema definition: %w", err)
	}
	var defParsed any
	if err := json.Unmarshal(defBytes, &defParsed); err != nil {
		return nil, fmt.Errorf("parse schema definition: %w", err)
	}

	c := jsonschema.NewCompiler()
	url := fmt.Sprintf("schema://%s.json", name)
	if err := c.AddResource(url, defParsed); err != nil {
		return nil, fmt.Errorf("add schema resource: %w", err)
	}
	return c.Compile(url)
}
