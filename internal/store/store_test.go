package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sproutmath/internal/profile"
	"sproutmath/internal/questiongen"
	"sproutmath/internal/recorder"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testSession(id string, startedAt time.Time) recorder.SessionRecord {
	completed := startedAt.Add(5 * time.Minute)
	return recorder.SessionRecord{
		ID:                 id,
		UserID:             "u1",
		GameType:           "arithmetic",
		DifficultyAtStart:  "medium",
		TargetQuestions:    10,
		StartedAt:          startedAt,
		CompletedAt:        &completed,
		QuestionsAttempted: 10,
		QuestionsCorrect:   8,
		TotalTimeSeconds:   120.5,
		LongestStreak:      5,
		CurrentDifficulty:  "hard",
		IsCompleted:        true,
	}
}

func mustOp(t *testing.T, kind recorder.OpKind, sessionID string, record any) recorder.Operation {
	t.Helper()
	op, err := recorder.NewOperation(kind, sessionID, record, time.Now().UTC())
	require.NoError(t, err)
	return op
}

func TestSessionRoundTrip(t *testing.T) {
	s := openTestStore(t)
	started := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	rec := testSession("s1", started)

	require.NoError(t, s.Apply(mustOp(t, recorder.OpSessionComplete, rec.ID, rec)))

	got, err := s.SessionByID("s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.GameType, got.GameType)
	assert.Equal(t, rec.QuestionsCorrect, got.QuestionsCorrect)
	assert.Equal(t, rec.TotalTimeSeconds, got.TotalTimeSeconds)
	assert.Equal(t, rec.CurrentDifficulty, got.CurrentDifficulty)
	assert.True(t, got.IsCompleted)
	assert.True(t, got.StartedAt.Equal(rec.StartedAt))
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(*rec.CompletedAt))
}

func TestSessionUpsertIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	started := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	rec := testSession("s1", started)

	start := rec
	start.CompletedAt = nil
	start.IsCompleted = false
	start.QuestionsAttempted = 0
	start.QuestionsCorrect = 0

	require.NoError(t, s.Apply(mustOp(t, recorder.OpSessionStart, rec.ID, start)))
	require.NoError(t, s.Apply(mustOp(t, recorder.OpSessionComplete, rec.ID, rec)))
	// Replaying completion must not duplicate or corrupt the row.
	require.NoError(t, s.Apply(mustOp(t, recorder.OpSessionComplete, rec.ID, rec)))

	sessions, err := s.SessionsSince(started.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.True(t, sessions[0].IsCompleted)
	assert.Equal(t, 8, sessions[0].QuestionsCorrect)
}

func TestAttemptRoundTripPreservesQuestion(t *testing.T) {
	s := openTestStore(t)
	now := time.Date(2026, 8, 10, 9, 1, 0, 0, time.UTC)

	q := &questiongen.Question{
		Type:       questiongen.GameTime,
		Subtype:    "half-hour",
		Difficulty: questiongen.Medium,
		Prompt:     "What time does this clock show?",
		Answer:     "3:30",
		AnswerKind: questiongen.AnswerText,
		Options:    []string{"3:30", "4:30", "3:00", "2:30"},
		Visual: &questiongen.Visual{
			Kind: questiongen.VisualAnalogClock,
			Clock: &questiongen.ClockFace{
				Hour: 3, Minute: 30, HourAngle: 105, MinuteAngle: 180,
			},
		},
		Hints:       []string{"a", "b", "c"},
		Explanation: "because",
	}
	a := recorder.AttemptRecord{
		ID:               "a1",
		SessionID:        "s1",
		GameType:         "time",
		Question:         q,
		UserAnswer:       "3:30",
		IsCorrect:        true,
		TimeSpentSeconds: 7.5,
		CreatedAt:        now,
	}

	require.NoError(t, s.Apply(mustOp(t, recorder.OpAttemptRecord, a.SessionID, a)))

	attempts, err := s.AttemptsBySession("s1")
	require.NoError(t, err)
	require.Len(t, attempts, 1)
	got := attempts[0]
	assert.Equal(t, a.UserAnswer, got.UserAnswer)
	assert.True(t, got.IsCorrect)
	require.NotNil(t, got.Question)
	assert.Equal(t, q.Answer, got.Question.Answer)
	assert.Equal(t, q.Options, got.Question.Options)
	require.NotNil(t, got.Question.Visual.Clock)
	assert.Equal(t, 105.0, got.Question.Visual.Clock.HourAngle)
}

func TestAttemptsSinceOrdering(t *testing.T) {
	s := openTestStore(t)
	base := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)

	for i := 3; i >= 1; i-- {
		a := recorder.AttemptRecord{
			ID:        "a" + string(rune('0'+i)),
			SessionID: "s1",
			GameType:  "arithmetic",
			Question:  &questiongen.Question{Answer: "1"},
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, s.Apply(mustOp(t, recorder.OpAttemptRecord, "s1", a)))
	}

	attempts, err := s.AttemptsSince(base)
	require.NoError(t, err)
	require.Len(t, attempts, 3)
	assert.Equal(t, "a1", attempts[0].ID)
	assert.Equal(t, "a3", attempts[2].ID)
}

func TestOutboxFIFO(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC()

	kinds := []recorder.OpKind{
		recorder.OpSessionStart, recorder.OpAttemptRecord, recorder.OpSessionComplete,
	}
	for _, k := range kinds {
		op := mustOp(t, k, "s1", recorder.SessionRecord{ID: "s1"})
		op.CreatedAt = now
		require.NoError(t, s.EnqueueOutbox(op))
	}

	n, err := s.OutboxCount()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	pending, err := s.PendingOutbox()
	require.NoError(t, err)
	require.Len(t, pending, 3)
	for i, k := range kinds {
		assert.Equal(t, k, pending[i].Kind)
		assert.NotZero(t, pending[i].ID)
	}

	require.NoError(t, s.DeleteOutbox(pending[0].ID))
	pending, err = s.PendingOutbox()
	require.NoError(t, err)
	require.Len(t, pending, 2)
	assert.Equal(t, recorder.OpAttemptRecord, pending[0].Kind)
}

func TestUserRoundTrip(t *testing.T) {
	s := openTestStore(t)
	p := profile.UserProfile{
		ID:          "u1",
		AgeBucket:   5,
		Personality: "creative",
		Settings:    profile.DefaultSettings(),
	}
	require.NoError(t, s.Apply(mustOp(t, recorder.OpUserCreate, "", p)))

	got, err := s.FirstUser()
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, 5, got.AgeBucket)
	assert.Equal(t, profile.PreferAdaptive, got.Settings.DifficultyPreference)
}

func TestFirstUserEmpty(t *testing.T) {
	s := openTestStore(t)
	got, err := s.FirstUser()
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestAnalyticsCacheTTL(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC()
	a := &recorder.Analytics{Window: "7d", TotalSessions: 3}

	require.NoError(t, s.CacheAnalytics("7d", a, now))

	fresh, err := s.CachedAnalytics("7d", now.Add(-time.Minute))
	require.NoError(t, err)
	require.NotNil(t, fresh)
	assert.Equal(t, 3, fresh.TotalSessions)

	stale, err := s.CachedAnalytics("7d", now.Add(time.Minute))
	require.NoError(t, err)
	assert.Nil(t, stale)

	missing, err := s.CachedAnalytics("30d", now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, s.EvictCaches())
	evicted, err := s.CachedAnalytics("7d", now.Add(-time.Minute))
	require.NoError(t, err)
	assert.Nil(t, evicted)
}

func TestApplyRejectsUnknownKind(t *testing.T) {
	s := openTestStore(t)
	op := recorder.Operation{Kind: recorder.OpKind("bogus"), CreatedAt: time.Now(), Payload: []byte(`{}`)}
	require.Error(t, s.Apply(op))
}

func TestReset(t *testing.T) {
	s := openTestStore(t)
	rec := testSession("s1", time.Now().UTC())
	require.NoError(t, s.Apply(mustOp(t, recorder.OpSessionStart, rec.ID, rec)))
	require.NoError(t, s.EnqueueOutbox(mustOp(t, recorder.OpSessionStart, rec.ID, rec)))

	require.NoError(t, s.Reset())

	sessions, err := s.SessionsSince(time.Time{})
	require.NoError(t, err)
	assert.Empty(t, sessions)
	n, err := s.OutboxCount()
	require.NoError(t, err)
	assert.Zero(t, n)
}
