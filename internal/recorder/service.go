package recorder

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"sproutmath/internal/logger"
	"sproutmath/internal/profile"
)

// LocalStore is the synchronous offline mirror. Writes to it must be
// serialized by the implementation; every recorder write lands here first.
type LocalStore interface {
	// Apply persists the operation's record into the local tables.
	Apply(op Operation) error

	// EnqueueOutbox appends a pending operation; PendingOutbox returns the
	// queue in insertion order; DeleteOutbox acknowledges one operation.
	EnqueueOutbox(op Operation) error
	PendingOutbox() ([]Operation, error)
	DeleteOutbox(id int64) error
	OutboxCount() (int, error)

	// Windowed reads for offline analytics.
	SessionsSince(t time.Time) ([]SessionRecord, error)
	AttemptsSince(t time.Time) ([]AttemptRecord, error)

	// Analytics cache: evictable, never load-bearing.
	CacheAnalytics(window string, a *Analytics, at time.Time) error
	CachedAnalytics(window string, notBefore time.Time) (*Analytics, error)
	EvictCaches() error
}

// RemoteStore is the remote table store. Apply must be idempotent per
// operation so outbox replays after a partial drain stay harmless.
type RemoteStore interface {
	Apply(ctx context.Context, op Operation) error
	SessionsSince(ctx context.Context, t time.Time) ([]SessionRecord, error)
	AttemptsSince(ctx context.Context, t time.Time) ([]AttemptRecord, error)
	Ping(ctx context.Context) error
}

// SyncEvent is surfaced on the status channel; the session never blocks on
// it.
type SyncEvent struct {
	Kind SyncEventKind
	OpID int64
	Err  error
}

type SyncEventKind string

const (
	EventOpDelivered SyncEventKind = "op_delivered"
	EventOpRejected  SyncEventKind = "op_rejected"
	EventSyncFailed  SyncEventKind = "sync_failed"
)

// Options bound the service's remote behavior.
type Options struct {
	RemoteTimeout     time.Duration // per remote call; default 5s
	RetryAttempts     int           // outbox replay budget per operation
	RetryDelay        time.Duration // pause between replay attempts
	CacheTTL          time.Duration // analytics cache freshness
	BatchSize         int           // max operations per drain; 0 = unbounded
	RequestsPerMinute int           // drain pacing against the backend; 0 = unpaced
}

func (o *Options) fill() {
	if o.RemoteTimeout <= 0 {
		o.RemoteTimeout = 5 * time.Second
	}
	if o.RetryAttempts <= 0 {
		o.RetryAttempts = 3
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = time.Second
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 5 * time.Minute
	}
}

// Service is the default Recorder: local-first writes, best-effort remote
// delivery, ordered outbox drain.
type Service struct {
	local  LocalStore
	remote RemoteStore
	log    *logger.Logger
	opts   Options

	online atomic.Bool
	syncMu sync.Mutex
	events chan SyncEvent
	now    func() time.Time
}

// NewService wires a recorder over a local mirror and a remote table store.
// A nil remote keeps the service permanently offline.
func NewService(local LocalStore, remote RemoteStore, log *logger.Logger, opts Options) *Service {
	opts.fill()
	s := &Service{
		local:  local,
		remote: remote,
		log:    log.With("component", "recorder"),
		opts:   opts,
		events: make(chan SyncEvent, 64),
		now:    time.Now,
	}
	s.online.Store(remote != nil)
	return s
}

// Events is the status channel consumed by the UI layer.
func (s *Service) Events() <-chan SyncEvent { return s.events }

// SetOnline flips connectivity. Draining after a reconnect is the caller's
// move (Sync), so tests and the CLI control when replay happens.
func (s *Service) SetOnline(online bool) {
	if online && s.remote == nil {
		return
	}
	s.online.Store(online)
}

// Online reports current connectivity.
func (s *Service) Online() bool { return s.online.Load() }

// CreateAnonymousUser mints a uuid identity with default settings.
func (s *Service) CreateAnonymousUser(ctx context.Context) (*profile.UserProfile, error) {
	p := &profile.UserProfile{
		ID:       uuid.New().String(),
		Settings: profile.DefaultSettings(),
	}
	if err := s.write(ctx, OpUserCreate, "", p); err != nil {
		return nil, err
	}
	return p, nil
}

// UpdateProfile persists the full profile record.
func (s *Service) UpdateProfile(ctx context.Context, p *profile.UserProfile) error {
	return s.write(ctx, OpProfileUpdate, "", p)
}

// StartSession persists the session row at its starting state.
func (s *Service) StartSession(ctx context.Context, rec SessionRecord) error {
	return s.write(ctx, OpSessionStart, rec.ID, rec)
}

// RecordAttempt persists one graded answer.
func (s *Service) RecordAttempt(ctx context.Context, a AttemptRecord) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return s.write(ctx, OpAttemptRecord, a.SessionID, a)
}

// CompleteSession persists the final statistics.
func (s *Service) CompleteSession(ctx context.Context, rec SessionRecord) error {
	return s.write(ctx, OpSessionComplete, rec.ID, rec)
}

// RecordAchievement persists one awarded achievement.
func (s *Service) RecordAchievement(ctx context.Context, a AchievementRecord) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return s.write(ctx, OpAchievementAward, a.SessionID, a)
}

// write is the single durability path: local first, then remote if the
// queue is empty and the backend reachable, else the outbox. Remote failure
// is never surfaced; it flips nothing except the operation's route.
func (s *Service) write(ctx context.Context, kind OpKind, sessionID string, record any) error {
	op, err := NewOperation(kind, sessionID, record, s.now().UTC())
	if err != nil {
		return err
	}

	if err := s.local.Apply(op); err != nil {
		// Local store full or wedged: evict the non-essential cache rows
		// and retry once before surfacing.
		if evictErr := s.local.EvictCaches(); evictErr != nil {
			return fmt.Errorf("local write: %w", err)
		}
		if err := s.local.Apply(op); err != nil {
			return fmt.Errorf("local write: %w", err)
		}
	}

	if !s.online.Load() {
		return s.queue(op)
	}

	// Operations still queued must reach the backend first; jumping the
	// queue would reorder attempts within a session.
	if pending, err := s.local.OutboxCount(); err != nil || pending > 0 {
		return s.queue(op)
	}

	rctx, cancel := context.WithTimeout(ctx, s.opts.RemoteTimeout)
	defer cancel()
	if err := s.remote.Apply(rctx, op); err != nil {
		s.log.Warn("remote write failed, queueing", "kind", kind, "error", err)
		return s.queue(op)
	}
	return nil
}

func (s *Service) queue(op Operation) error {
	if err := s.local.EnqueueOutbox(op); err != nil {
		return fmt.Errorf("enqueue outbox: %w", err)
	}
	return nil
}

// Sync drains the outbox in insertion order. An operation is deleted only
// after the backend acknowledges it; a durable failure halts the drain with
// the operation left in place, so per-session order survives the next
// attempt. Envelopes that fail validation can never succeed and are dropped
// with an event. BatchSize and RequestsPerMinute bound how much and how fast
// one drain hits the backend; leftovers wait for the next Sync.
func (s *Service) Sync(ctx context.Context) error {
	if !s.online.Load() {
		return nil
	}
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	ops, err := s.local.PendingOutbox()
	if err != nil {
		return fmt.Errorf("read outbox: %w", err)
	}
	if s.opts.BatchSize > 0 && len(ops) > s.opts.BatchSize {
		ops = ops[:s.opts.BatchSize]
	}

	var pace time.Duration
	if s.opts.RequestsPerMinute > 0 {
		pace = time.Minute / time.Duration(s.opts.RequestsPerMinute)
	}

	delivered := 0
	for _, op := range ops {
		if !KnownOpKind(op.Kind) {
			s.reject(op, fmt.Errorf("unknown operation kind %q", op.Kind))
			continue
		}
		if err := validateOperation(op); err != nil {
			s.reject(op, err)
			continue
		}

		if pace > 0 && delivered > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(pace):
			}
		}

		if err := s.replay(ctx, op); err != nil {
			wrapped := fmt.Errorf("%w: op %d (%s): %v", ErrSyncFailed, op.ID, op.Kind, err)
			s.emit(SyncEvent{Kind: EventSyncFailed, OpID: op.ID, Err: wrapped})
			return wrapped
		}
		if err := s.local.DeleteOutbox(op.ID); err != nil {
			return fmt.Errorf("ack outbox op %d: %w", op.ID, err)
		}
		delivered++
		s.emit(SyncEvent{Kind: EventOpDelivered, OpID: op.ID})
	}
	return nil
}

func (s *Service) reject(op Operation, cause error) {
	s.log.Error("rejecting outbox operation", "op", op.ID, "error", cause)
	_ = s.local.DeleteOutbox(op.ID)
	s.emit(SyncEvent{Kind: EventOpRejected, OpID: op.ID, Err: cause})
}

// replay retries a single operation up to the configured budget.
func (s *Service) replay(ctx context.Context, op Operation) error {
	var last error
	for attempt := 0; attempt < s.opts.RetryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(s.opts.RetryDelay):
			}
		}
		rctx, cancel := context.WithTimeout(ctx, s.opts.RemoteTimeout)
		last = s.remote.Apply(rctx, op)
		cancel()
		if last == nil {
			return nil
		}
	}
	return last
}

// GetAnalytics prefers remote rows, falling back to the local mirror and
// finally the analytics cache. Offline analytics never error the caller out
// of the session.
func (s *Service) GetAnalytics(ctx context.Context, window string) (*Analytics, error) {
	now := s.now().UTC()
	since, err := windowSince(window, now)
	if err != nil {
		return nil, err
	}

	if s.online.Load() && s.remote != nil {
		if a, err := s.remoteAnalytics(ctx, window, since); err == nil {
			if cacheErr := s.local.CacheAnalytics(window, a, now); cacheErr != nil {
				s.log.Warn("analytics cache write failed", "error", cacheErr)
			}
			return a, nil
		} else {
			s.log.Warn("remote analytics failed, using local mirror", "error", err)
		}
	}

	sessions, sErr := s.local.SessionsSince(since)
	attempts, aErr := s.local.AttemptsSince(since)
	if sErr != nil || aErr != nil {
		if cached, cacheErr := s.local.CachedAnalytics(window, now.Add(-s.opts.CacheTTL)); cacheErr == nil && cached != nil {
			return cached, nil
		}
		if sErr != nil {
			return nil, fmt.Errorf("local sessions: %w", sErr)
		}
		return nil, fmt.Errorf("local attempts: %w", aErr)
	}
	return ComputeAnalytics(window, sessions, attempts), nil
}

func (s *Service) remoteAnalytics(ctx context.Context, window string, since time.Time) (*Analytics, error) {
	rctx, cancel := context.WithTimeout(ctx, s.opts.RemoteTimeout)
	defer cancel()
	sessions, err := s.remote.SessionsSince(rctx, since)
	if err != nil {
		return nil, err
	}
	attempts, err := s.remote.AttemptsSince(rctx, since)
	if err != nil {
		return nil, err
	}
	return ComputeAnalytics(window, sessions, attempts), nil
}

// emit never blocks; the status channel is advisory.
func (s *Service) emit(ev SyncEvent) {
	select {
	case s.events <- ev:
	default:
	}
}
