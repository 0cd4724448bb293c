// Package app wires the engine together: config, logger, local store,
// optional backend, recorder service and the session machine factory. The
// CLI commands only see an Engine.
package app

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"sproutmath/internal/adaptive"
	"sproutmath/internal/backend"
	"sproutmath/internal/config"
	"sproutmath/internal/logger"
	"sproutmath/internal/profile"
	"sproutmath/internal/questiongen"
	"sproutmath/internal/recorder"
	"sproutmath/internal/session"
	"sproutmath/internal/store"
)

// Engine is the assembled learning core.
type Engine struct {
	Config   config.Config
	Log      *logger.Logger
	Store    *store.Store
	Recorder *recorder.Service
	Profile  *profile.UserProfile

	ctrl *adaptive.Controller

	stopSync chan struct{}
	syncWG   sync.WaitGroup
}

// New builds the engine. The local database is mandatory; the backend is
// attached only when a DSN is configured and reachable, and its absence
// never fails startup.
func New(ctx context.Context, cfg config.Config) (*Engine, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, err
	}

	dbPath := cfg.DBPath
	if dbPath == "" {
		if dbPath, err = store.DefaultDBPath(); err != nil {
			return nil, err
		}
	} else if err := store.EnsureDir(dbPath); err != nil {
		return nil, err
	}
	local, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}

	var remote recorder.RemoteStore
	if cfg.BackendDSN != "" {
		client, err := backend.Open(cfg.BackendDSN, log)
		if err != nil {
			log.Warn("backend unavailable, starting offline", "error", err)
		} else {
			remote = client
		}
	}

	svc := recorder.NewService(local, remote, log, recorder.Options{
		RemoteTimeout:     cfg.RemoteTimeout,
		RetryAttempts:     cfg.RetryAttempts,
		RetryDelay:        cfg.RetryDelay,
		CacheTTL:          cfg.CacheTTL,
		BatchSize:         cfg.LocalBatchSize,
		RequestsPerMinute: cfg.RequestsPerMinute,
	})

	eng := &Engine{
		Config:   cfg,
		Log:      log,
		Store:    local,
		Recorder: svc,
		stopSync: make(chan struct{}),
	}

	if eng.Profile, err = eng.loadOrCreateUser(ctx); err != nil {
		local.Close()
		return nil, err
	}
	eng.ctrl = adaptive.NewController(eng.Profile)

	if remote != nil && cfg.SyncInterval > 0 {
		eng.startSyncLoop(cfg.SyncInterval)
	}
	return eng, nil
}

// loadOrCreateUser reuses the local profile or mints an anonymous one on
// first run, unless anonymous auth is disabled.
func (e *Engine) loadOrCreateUser(ctx context.Context) (*profile.UserProfile, error) {
	p, err := e.Store.FirstUser()
	if err != nil {
		return nil, err
	}
	if p != nil {
		return p, nil
	}
	if !e.Config.AnonymousAuth {
		return nil, errors.New("no local user and anonymous auth is disabled")
	}
	p, err = e.Recorder.CreateAnonymousUser(ctx)
	if err != nil {
		return nil, err
	}
	e.Log.Info("created anonymous user", "user", p.ID)
	return p, nil
}

// NewMachine builds a session machine bound to the engine's profile. Each
// play command gets a fresh machine; the adaptive controller is shared so
// difficulty carries across sessions.
func (e *Engine) NewMachine(opts ...session.Option) *session.Machine {
	factory := questiongen.NewFactory(rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 1)))
	return session.New(factory, e.ctrl, e.Recorder, e.Log, opts...)
}

// Sync drains the outbox once.
func (e *Engine) Sync(ctx context.Context) error {
	return e.Recorder.Sync(ctx)
}

// startSyncLoop drains the outbox on a ticker until Close.
func (e *Engine) startSyncLoop(interval time.Duration) {
	e.syncWG.Add(1)
	go func() {
		defer e.syncWG.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-e.stopSync:
				return
			case <-ticker.C:
				ctx, cancel := context.WithTimeout(context.Background(), interval)
				if err := e.Recorder.Sync(ctx); err != nil {
					e.Log.Warn("background sync failed", "error", err)
				}
				cancel()
			}
		}
	}()
}

// Close stops the sync loop, attempts a final drain and closes the store.
func (e *Engine) Close() error {
	close(e.stopSync)
	e.syncWG.Wait()

	ctx, cancel := context.WithTimeout(context.Background(), e.Config.RemoteTimeout)
	defer cancel()
	if err := e.Recorder.Sync(ctx); err != nil {
		e.Log.Warn("final sync failed", "error", err)
	}

	e.Log.Sync()
	return e.Store.Close()
}
