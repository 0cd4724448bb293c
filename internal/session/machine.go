// Package session drives the game lifecycle: Idle -> Running -> Completed,
// with Running -> Aborted as the early exit. The machine owns the current
// question and statistics; persistence goes through the Recorder and is
// never allowed to block or fail a graded answer.
package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"sproutmath/internal/adaptive"
	"sproutmath/internal/insights"
	"sproutmath/internal/logger"
	"sproutmath/internal/phrases"
	"sproutmath/internal/questiongen"
	"sproutmath/internal/recorder"
)

// DefaultTargetQuestions is the session length when the caller passes 0.
const DefaultTargetQuestions = 10

// ErrSessionActive is returned when Start is called while a session runs.
var ErrSessionActive = errors.New("session already running")

// Summary is the final session report.
type Summary struct {
	Stats        Stats
	Insights     insights.Insights
	Achievements []string
}

// Machine is the session state machine. Single-threaded by design: all
// mutations happen between externally-driven calls.
type Machine struct {
	factory *questiongen.Factory
	ctrl    *adaptive.Controller
	rec     recorder.Recorder
	phrase  *phrases.Generator
	clock   Clock
	rng     *rand.Rand
	log     *logger.Logger

	state             State
	stats             Stats
	current           *questiongen.Question
	questionStartedAt time.Time
	hintRequests      int
	summary           *Summary
}

// Option adjusts machine construction.
type Option func(*Machine)

// WithClock injects a time source (tests use a fake).
func WithClock(c Clock) Option {
	return func(m *Machine) { m.clock = c }
}

// WithRand injects the random source used for feedback and suggestions.
func WithRand(rng *rand.Rand) Option {
	return func(m *Machine) { m.rng = rng }
}

// New builds a machine in the Idle state.
func New(factory *questiongen.Factory, ctrl *adaptive.Controller, rec recorder.Recorder, log *logger.Logger, opts ...Option) *Machine {
	m := &Machine{
		factory: factory,
		ctrl:    ctrl,
		rec:     rec,
		clock:   systemClock{},
		log:     log.With("component", "session"),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	m.phrase = phrases.New(m.rng)
	return m
}

// State reports the lifecycle phase.
func (m *Machine) State() State { return m.state }

// Stats returns a copy of the current statistics.
func (m *Machine) Stats() Stats { return m.stats }

// CurrentQuestion returns the active question, nil outside Running.
func (m *Machine) CurrentQuestion() *questiongen.Question { return m.current }

// Start opens a session: picks the initial difficulty, resets statistics
// and emits the first question. targetQuestions of 0 means the default 10.
func (m *Machine) Start(ctx context.Context, userID string, gameType questiongen.GameType, targetQuestions int) (Stats, *questiongen.Question, error) {
	if m.state == StateRunning {
		return Stats{}, nil, ErrSessionActive
	}
	if _, err := questiongen.ParseGameType(string(gameType)); err != nil {
		return Stats{}, nil, err
	}
	if targetQuestions <= 0 {
		targetQuestions = DefaultTargetQuestions
	}

	difficulty := m.ctrl.InitialDifficulty(gameType)
	first, err := m.factory.Generate(gameType, difficulty)
	if err != nil {
		return Stats{}, nil, err
	}

	now := m.clock.Now()
	m.stats = Stats{
		ID:                uuid.New().String(),
		UserID:            userID,
		GameType:          gameType,
		DifficultyAtStart: difficulty,
		CurrentDifficulty: difficulty,
		TargetQuestions:   targetQuestions,
		StartedAt:         now,
	}
	m.state = StateRunning
	m.current = first
	m.questionStartedAt = now
	m.hintRequests = 0
	m.summary = nil

	if err := m.rec.StartSession(ctx, m.sessionRecord()); err != nil {
		m.state = StateIdle
		return Stats{}, nil, err
	}

	m.log.Info("session started",
		"session", m.stats.ID, "game", gameType, "difficulty", difficulty.String(), "target", targetQuestions)
	return m.stats, first, nil
}

// Submit grades an answer, updates statistics, records the attempt and
// either emits the next question or completes the game. Only programmer
// errors cross this boundary; persistence failures degrade to logs.
func (m *Machine) Submit(ctx context.Context, userAnswer string) (*AttemptResult, error) {
	if m.state != StateRunning {
		return nil, ErrNotRunning
	}

	now := m.clock.Now()
	timeSpent := now.Sub(m.questionStartedAt).Seconds()
	q := m.current
	correct := questiongen.Grade(userAnswer, q)

	m.stats.QuestionsAttempted++
	m.stats.TotalTimeSeconds += timeSpent
	m.stats.AverageTimeSeconds = m.stats.TotalTimeSeconds / float64(m.stats.QuestionsAttempted)
	if correct {
		m.stats.QuestionsCorrect++
		m.stats.CurrentStreak++
		if m.stats.CurrentStreak > m.stats.LongestStreak {
			m.stats.LongestStreak = m.stats.CurrentStreak
		}
	} else {
		m.stats.CurrentStreak = 0
	}

	if err := m.rec.RecordAttempt(ctx, recorder.AttemptRecord{
		SessionID:        m.stats.ID,
		GameType:         string(m.stats.GameType),
		Question:         q,
		UserAnswer:       userAnswer,
		IsCorrect:        correct,
		TimeSpentSeconds: timeSpent,
		CreatedAt:        now,
	}); err != nil {
		m.log.Error("attempt not persisted", "session", m.stats.ID, "error", err)
	}

	m.ctrl.Record(m.stats.GameType, m.stats.CurrentDifficulty, correct, timeSpent)
	m.stats.CurrentDifficulty = m.ctrl.Next(m.stats.GameType, m.stats.CurrentDifficulty)

	result := &AttemptResult{
		IsCorrect:     correct,
		CorrectAnswer: q.Answer,
		Explanation:   q.Explanation,
		Feedback:      m.phrase.Encourage(correct, m.stats.CurrentStreak),
	}

	if m.stats.QuestionsAttempted >= m.stats.TargetQuestions {
		m.state = StateCompleted
		m.current = nil
		result.IsGameComplete = true
	} else {
		next, err := m.factory.Generate(m.stats.GameType, m.stats.CurrentDifficulty)
		if err != nil {
			return nil, err
		}
		m.current = next
		m.questionStartedAt = now
		m.hintRequests = 0
		result.NextQuestion = next
	}

	result.Stats = m.stats
	return result, nil
}

// Hint returns the progressive hint for the current question. Repeated
// calls walk toward the most explicit hint; the counter resets on each new
// question.
func (m *Machine) Hint() string {
	if m.current == nil {
		return ""
	}
	h := questiongen.HintFor(m.current, m.hintRequests)
	m.hintRequests++
	return h
}

// Complete finalizes the session, persists completion strictly after all
// attempts and returns insights and achievements. Idempotent after the
// first call.
func (m *Machine) Complete(ctx context.Context) (*Summary, error) {
	switch m.state {
	case StateIdle:
		return nil, ErrNotRunning
	case StateAborted:
		return nil, ErrAlreadyCompleted
	}
	if m.summary != nil {
		return m.summary, nil
	}

	now := m.clock.Now()
	m.stats.CompletedAt = &now
	m.stats.IsCompleted = true
	m.state = StateCompleted
	m.current = nil

	if err := m.rec.CompleteSession(ctx, m.sessionRecord()); err != nil {
		m.log.Error("completion not persisted", "session", m.stats.ID, "error", err)
	}

	analytics, err := m.rec.GetAnalytics(ctx, "7d")
	if err != nil {
		m.log.Warn("analytics unavailable for summary", "error", err)
	}

	sum := insights.Summarize(insights.SessionStats{
		GameType:      m.stats.GameType,
		Attempts:      m.stats.QuestionsAttempted,
		Correct:       m.stats.QuestionsCorrect,
		AvgTime:       m.stats.AverageTimeSeconds,
		LongestStreak: m.stats.LongestStreak,
	}, analytics, m.rng)

	for _, name := range sum.Achievements {
		if err := m.rec.RecordAchievement(ctx, recorder.AchievementRecord{
			UserID:    m.stats.UserID,
			SessionID: m.stats.ID,
			Name:      name,
			AwardedAt: now,
		}); err != nil {
			m.log.Error("achievement not persisted", "name", name, "error", err)
		}
	}

	m.summary = &Summary{
		Stats:        m.stats,
		Insights:     sum.Insights,
		Achievements: sum.Achievements,
	}
	m.log.Info("session completed",
		"session", m.stats.ID, "correct", m.stats.QuestionsCorrect, "attempted", m.stats.QuestionsAttempted)
	return m.summary, nil
}

// Abort ends the session early. Idempotent; persistence is best effort and
// the machine ignores its outcome.
func (m *Machine) Abort(ctx context.Context) error {
	if m.state == StateAborted {
		return nil
	}
	if m.state != StateRunning {
		return ErrNotRunning
	}

	m.state = StateAborted
	m.stats.Aborted = true
	m.current = nil

	if err := m.rec.CompleteSession(ctx, m.sessionRecord()); err != nil {
		m.log.Warn("abort not persisted", "session", m.stats.ID, "error", err)
	}
	m.log.Info("session aborted", "session", m.stats.ID, "attempted", m.stats.QuestionsAttempted)
	return nil
}

// sessionRecord snapshots the stats into the persisted form.
func (m *Machine) sessionRecord() recorder.SessionRecord {
	return recorder.SessionRecord{
		ID:                 m.stats.ID,
		UserID:             m.stats.UserID,
		GameType:           string(m.stats.GameType),
		DifficultyAtStart:  m.stats.DifficultyAtStart.String(),
		TargetQuestions:    m.stats.TargetQuestions,
		StartedAt:          m.stats.StartedAt,
		CompletedAt:        m.stats.CompletedAt,
		QuestionsAttempted: m.stats.QuestionsAttempted,
		QuestionsCorrect:   m.stats.QuestionsCorrect,
		TotalTimeSeconds:   m.stats.TotalTimeSeconds,
		LongestStreak:      m.stats.LongestStreak,
		CurrentDifficulty:  m.stats.CurrentDifficulty.String(),
		IsCompleted:        m.stats.IsCompleted,
		Aborted:            m.stats.Aborted,
	}
}
