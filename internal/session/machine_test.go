package session

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"sproutmath/internal/adaptive"
	"sproutmath/internal/insights"
	"sproutmath/internal/logger"
	"sproutmath/internal/profile"
	"sproutmath/internal/questiongen"
	"sproutmath/internal/recorder"
)

// fakeClock is an advanceable time source.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// callRecorder captures every persistence call in order.
type callRecorder struct {
	calls        []string
	sessions     []recorder.SessionRecord
	attempts     []recorder.AttemptRecord
	achievements []recorder.AchievementRecord
	startErr     error
}

func (r *callRecorder) CreateAnonymousUser(ctx context.Context) (*profile.UserProfile, error) {
	r.calls = append(r.calls, "user_create")
	return &profile.UserProfile{ID: "u1", Settings: profile.DefaultSettings()}, nil
}

func (r *callRecorder) UpdateProfile(ctx context.Context, p *profile.UserProfile) error {
	r.calls = append(r.calls, "profile_update")
	return nil
}

func (r *callRecorder) StartSession(ctx context.Context, s recorder.SessionRecord) error {
	if r.startErr != nil {
		return r.startErr
	}
	r.calls = append(r.calls, "session_start")
	r.sessions = append(r.sessions, s)
	return nil
}

func (r *callRecorder) RecordAttempt(ctx context.Context, a recorder.AttemptRecord) error {
	r.calls = append(r.calls, "attempt_record")
	r.attempts = append(r.attempts, a)
	return nil
}

func (r *callRecorder) CompleteSession(ctx context.Context, s recorder.SessionRecord) error {
	r.calls = append(r.calls, "session_complete")
	r.sessions = append(r.sessions, s)
	return nil
}

func (r *callRecorder) RecordAchievement(ctx context.Context, a recorder.AchievementRecord) error {
	r.calls = append(r.calls, "achievement_award")
	r.achievements = append(r.achievements, a)
	return nil
}

func (r *callRecorder) GetAnalytics(ctx context.Context, window string) (*recorder.Analytics, error) {
	return &recorder.Analytics{Window: window}, nil
}

func newTestMachine(rec recorder.Recorder, clock Clock) *Machine {
	p := &profile.UserProfile{ID: "u1", AgeBucket: 5, Settings: profile.DefaultSettings()}
	factory := questiongen.NewFactory(rand.New(rand.NewPCG(42, 0)))
	ctrl := adaptive.NewController(p)
	return New(factory, ctrl, rec, logger.Nop(),
		WithClock(clock), WithRand(rand.New(rand.NewPCG(7, 0))))
}

func TestPerfectSession(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)}
	rec := &callRecorder{}
	m := newTestMachine(rec, clock)

	_, first, err := m.Start(ctx, "u1", questiongen.GameArithmetic, 10)
	if err != nil {
		t.Fatal(err)
	}
	if m.State() != StateRunning {
		t.Fatalf("state %v, want running", m.State())
	}

	q := first
	for i := 0; i < 10; i++ {
		clock.Advance(8 * time.Second)
		result, err := m.Submit(ctx, q.Answer)
		if err != nil {
			t.Fatal(err)
		}
		if !result.IsCorrect {
			t.Fatalf("question %d graded incorrect for canonical answer", i+1)
		}
		if result.Feedback == "" {
			t.Errorf("question %d: empty feedback", i+1)
		}
		if i < 9 {
			if result.IsGameComplete || result.NextQuestion == nil {
				t.Fatalf("question %d: session ended early", i+1)
			}
			q = result.NextQuestion
		} else if !result.IsGameComplete {
			t.Fatal("session did not complete after target questions")
		}
	}

	sum, err := m.Complete(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Stats.QuestionsCorrect != 10 || sum.Stats.QuestionsAttempted != 10 {
		t.Errorf("stats %d/%d, want 10/10", sum.Stats.QuestionsCorrect, sum.Stats.QuestionsAttempted)
	}
	if sum.Stats.LongestStreak != 10 {
		t.Errorf("longest streak %d, want 10", sum.Stats.LongestStreak)
	}
	if !sum.Stats.IsCompleted || sum.Stats.CompletedAt == nil {
		t.Error("completion flags not set")
	}

	wantAch := map[string]bool{
		insights.AchievementPerfectGame:  true,
		insights.AchievementSpeedDemon:   true,
		insights.AchievementStreakMaster: true,
	}
	if len(sum.Achievements) != len(wantAch) {
		t.Errorf("achievements %v", sum.Achievements)
	}
	for _, a := range sum.Achievements {
		if !wantAch[a] {
			t.Errorf("unexpected achievement %q", a)
		}
	}

	// All attempts recorded in order, completion strictly after.
	if len(rec.attempts) != 10 {
		t.Fatalf("%d attempts recorded, want 10", len(rec.attempts))
	}
	lastAttempt, completeIdx := -1, -1
	for i, call := range rec.calls {
		switch call {
		case "attempt_record":
			lastAttempt = i
		case "session_complete":
			completeIdx = i
		}
	}
	if completeIdx < lastAttempt {
		t.Error("session_complete recorded before last attempt")
	}
	for i := 1; i < len(rec.attempts); i++ {
		if rec.attempts[i].CreatedAt.Before(rec.attempts[i-1].CreatedAt) {
			t.Error("attempts out of submission order")
		}
	}
}

func TestWrongAnswerResetsStreak(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	m := newTestMachine(&callRecorder{}, clock)

	_, q, err := m.Start(ctx, "u1", questiongen.GameShapes, 10)
	if err != nil {
		t.Fatal(err)
	}

	clock.Advance(time.Second)
	r1, err := m.Submit(ctx, q.Answer)
	if err != nil {
		t.Fatal(err)
	}
	if r1.Stats.CurrentStreak != 1 {
		t.Fatalf("streak %d after correct, want 1", r1.Stats.CurrentStreak)
	}

	clock.Advance(time.Second)
	r2, err := m.Submit(ctx, "definitely wrong")
	if err != nil {
		t.Fatal(err)
	}
	if r2.IsCorrect {
		t.Fatal("wrong answer graded correct")
	}
	if r2.Stats.CurrentStreak != 0 {
		t.Errorf("streak %d after miss, want 0", r2.Stats.CurrentStreak)
	}
	if r2.Stats.LongestStreak != 1 {
		t.Errorf("longest streak %d, want 1", r2.Stats.LongestStreak)
	}
	if r2.CorrectAnswer == "" || r2.Explanation == "" {
		t.Error("miss must carry the correct answer and explanation")
	}
}

func TestAbortMidSession(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	rec := &callRecorder{}
	m := newTestMachine(rec, clock)

	_, q, err := m.Start(ctx, "u1", questiongen.GameTime, 10)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 4; i++ {
		clock.Advance(time.Second)
		result, err := m.Submit(ctx, q.Answer)
		if err != nil {
			t.Fatal(err)
		}
		q = result.NextQuestion
	}

	if err := m.Abort(ctx); err != nil {
		t.Fatal(err)
	}
	if m.State() != StateAborted {
		t.Fatalf("state %v, want aborted", m.State())
	}

	// Idempotent.
	if err := m.Abort(ctx); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Submit(ctx, "5"); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Submit after abort: %v, want ErrNotRunning", err)
	}
	if _, err := m.Complete(ctx); !errors.Is(err, ErrAlreadyCompleted) {
		t.Errorf("Complete after abort: %v, want ErrAlreadyCompleted", err)
	}

	last := rec.sessions[len(rec.sessions)-1]
	if !last.Aborted {
		t.Error("aborted flag not persisted")
	}
	if last.QuestionsAttempted != 4 {
		t.Errorf("persisted %d attempts, want 4", last.QuestionsAttempted)
	}
}

func TestCompleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	rec := &callRecorder{}
	m := newTestMachine(rec, clock)

	_, q, err := m.Start(ctx, "u1", questiongen.GameArithmetic, 2)
	if err != nil {
		t.Fatal(err)
	}
	clock.Advance(time.Second)
	r, err := m.Submit(ctx, q.Answer)
	if err != nil {
		t.Fatal(err)
	}
	clock.Advance(time.Second)
	if _, err := m.Submit(ctx, r.NextQuestion.Answer); err != nil {
		t.Fatal(err)
	}

	first, err := m.Complete(ctx)
	if err != nil {
		t.Fatal(err)
	}
	completions := len(rec.sessions)

	second, err := m.Complete(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("second Complete returned a different summary")
	}
	if len(rec.sessions) != completions {
		t.Error("second Complete persisted again")
	}
}

func TestLifecycleGuards(t *testing.T) {
	ctx := context.Background()
	m := newTestMachine(&callRecorder{}, &fakeClock{now: time.Now()})

	if _, err := m.Submit(ctx, "1"); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Submit while idle: %v", err)
	}
	if _, err := m.Complete(ctx); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Complete while idle: %v", err)
	}
	if err := m.Abort(ctx); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Abort while idle: %v", err)
	}

	if _, _, err := m.Start(ctx, "u1", questiongen.GameArithmetic, 0); err != nil {
		t.Fatal(err)
	}
	if m.Stats().TargetQuestions != DefaultTargetQuestions {
		t.Errorf("target %d, want default %d", m.Stats().TargetQuestions, DefaultTargetQuestions)
	}
	if _, _, err := m.Start(ctx, "u1", questiongen.GameArithmetic, 5); !errors.Is(err, ErrSessionActive) {
		t.Errorf("second Start: %v, want ErrSessionActive", err)
	}
	if _, _, err := m.Start(ctx, "u1", questiongen.GameType("bogus"), 5); err == nil {
		t.Error("Start accepted unknown game type")
	}
}

func TestStartSurfacesRecorderFailure(t *testing.T) {
	ctx := context.Background()
	rec := &callRecorder{startErr: errors.New("disk full")}
	m := newTestMachine(rec, &fakeClock{now: time.Now()})

	if _, _, err := m.Start(ctx, "u1", questiongen.GameArithmetic, 5); err == nil {
		t.Fatal("expected Start to surface the recorder error")
	}
	if m.State() != StateIdle {
		t.Errorf("state %v after failed start, want idle", m.State())
	}
}

func TestHintsAreProgressive(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	m := newTestMachine(&callRecorder{}, clock)

	_, q, err := m.Start(ctx, "u1", questiongen.GamePatterns, 10)
	if err != nil {
		t.Fatal(err)
	}

	if got := m.Hint(); got != q.Hints[0] {
		t.Errorf("first hint %q, want %q", got, q.Hints[0])
	}
	if got := m.Hint(); got != q.Hints[1] {
		t.Errorf("second hint %q, want %q", got, q.Hints[1])
	}
	if got := m.Hint(); got != q.Hints[2] {
		t.Errorf("third hint %q, want %q", got, q.Hints[2])
	}
	if got := m.Hint(); got != q.Hints[2] {
		t.Errorf("fourth hint %q, want it clamped to %q", got, q.Hints[2])
	}

	// Counter resets on the next question.
	clock.Advance(time.Second)
	result, err := m.Submit(ctx, q.Answer)
	if err != nil {
		t.Fatal(err)
	}
	next := result.NextQuestion
	if got := m.Hint(); got != next.Hints[0] {
		t.Errorf("hint after new question %q, want %q", got, next.Hints[0])
	}
}

func TestAverageTimeTracksClock(t *testing.T) {
	ctx := context.Background()
	clock := &fakeClock{now: time.Now()}
	m := newTestMachine(&callRecorder{}, clock)

	_, q, err := m.Start(ctx, "u1", questiongen.GameArithmetic, 10)
	if err != nil {
		t.Fatal(err)
	}

	clock.Advance(4 * time.Second)
	r1, err := m.Submit(ctx, q.Answer)
	if err != nil {
		t.Fatal(err)
	}
	clock.Advance(8 * time.Second)
	r2, err := m.Submit(ctx, r1.NextQuestion.Answer)
	if err != nil {
		t.Fatal(err)
	}

	if r2.Stats.TotalTimeSeconds != 12 {
		t.Errorf("total time %v, want 12", r2.Stats.TotalTimeSeconds)
	}
	if r2.Stats.AverageTimeSeconds != 6 {
		t.Errorf("average time %v, want 6", r2.Stats.AverageTimeSeconds)
	}
}
