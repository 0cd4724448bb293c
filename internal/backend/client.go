package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"sproutmath/internal/logger"
	"sproutmath/internal/profile"
	"sproutmath/internal/recorder"
)

// Client implements recorder.RemoteStore over Postgres.
type Client struct {
	db  *gorm.DB
	log *logger.Logger
}

var _ recorder.RemoteStore = (*Client)(nil)

// Open connects to the backend database and migrates the tables.
func Open(dsn string, log *logger.Logger) (*Client, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("connect backend: %w", err)
	}
	if err := db.AutoMigrate(&User{}, &LearningSession{}, &QuestionAttempt{}, &Achievement{}); err != nil {
		return nil, fmt.Errorf("migrate backend tables: %w", err)
	}
	return &Client{db: db, log: log.With("component", "backend")}, nil
}

// New wraps an existing gorm handle. Tests use this with a stub dialector.
func New(db *gorm.DB, log *logger.Logger) *Client {
	return &Client{db: db, log: log.With("component", "backend")}
}

// Apply upserts the operation's record. Replays are no-ops: inserts conflict
// on the primary key and either update in place (profiles, sessions) or are
// skipped (attempts, achievements, which never change after the fact).
func (c *Client) Apply(ctx context.Context, op recorder.Operation) error {
	switch op.Kind {
	case recorder.OpUserCreate, recorder.OpProfileUpdate:
		var p profile.UserProfile
		if err := json.Unmarshal(op.Payload, &p); err != nil {
			return fmt.Errorf("decode %s: %w", op.Kind, err)
		}
		settings, err := json.Marshal(p.Settings)
		if err != nil {
			return fmt.Errorf("marshal settings: %w", err)
		}
		row := User{
			ID:          p.ID,
			AgeBucket:   p.AgeBucket,
			Personality: p.Personality,
			Settings:    string(settings),
			UpdatedAt:   op.CreatedAt,
		}
		return c.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&row).Error

	case recorder.OpSessionStart, recorder.OpSessionComplete:
		var rec recorder.SessionRecord
		if err := json.Unmarshal(op.Payload, &rec); err != nil {
			return fmt.Errorf("decode %s: %w", op.Kind, err)
		}
		row := sessionModel(rec)
		return c.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&row).Error

	case recorder.OpAttemptRecord:
		var a recorder.AttemptRecord
		if err := json.Unmarshal(op.Payload, &a); err != nil {
			return fmt.Errorf("decode %s: %w", op.Kind, err)
		}
		question, err := json.Marshal(a.Question)
		if err != nil {
			return fmt.Errorf("marshal question: %w", err)
		}
		row := QuestionAttempt{
			ID:               a.ID,
			SessionID:        a.SessionID,
			GameType:         a.GameType,
			QuestionData:     string(question),
			UserAnswer:       a.UserAnswer,
			IsCorrect:        a.IsCorrect,
			TimeSpentSeconds: a.TimeSpentSeconds,
			CreatedAt:        a.CreatedAt,
		}
		return c.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Create(&row).Error

	case recorder.OpAchievementAward:
		var a recorder.AchievementRecord
		if err := json.Unmarshal(op.Payload, &a); err != nil {
			return fmt.Errorf("decode %s: %w", op.Kind, err)
		}
		row := Achievement{
			ID:        a.ID,
			UserID:    a.UserID,
			SessionID: a.SessionID,
			Name:      a.Name,
			AwardedAt: a.AwardedAt,
		}
		return c.db.WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoNothing: true,
		}).Create(&row).Error
	}
	return fmt.Errorf("unknown operation kind %q", op.Kind)
}

// SessionsSince returns sessions started at or after t, oldest first.
func (c *Client) SessionsSince(ctx context.Context, t time.Time) ([]recorder.SessionRecord, error) {
	var rows []LearningSession
	if err := c.db.WithContext(ctx).
		Where("started_at >= ?", t).
		Order("started_at").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	out := make([]recorder.SessionRecord, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.record())
	}
	return out, nil
}

// AttemptsSince returns attempts created at or after t, oldest first.
func (c *Client) AttemptsSince(ctx context.Context, t time.Time) ([]recorder.AttemptRecord, error) {
	var rows []QuestionAttempt
	if err := c.db.WithContext(ctx).
		Where("created_at >= ?", t).
		Order("created_at").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	out := make([]recorder.AttemptRecord, 0, len(rows))
	for _, row := range rows {
		a := recorder.AttemptRecord{
			ID:               row.ID,
			SessionID:        row.SessionID,
			GameType:         row.GameType,
			UserAnswer:       row.UserAnswer,
			IsCorrect:        row.IsCorrect,
			TimeSpentSeconds: row.TimeSpentSeconds,
			CreatedAt:        row.CreatedAt,
		}
		if err := json.Unmarshal([]byte(row.QuestionData), &a.Question); err != nil {
			return nil, fmt.Errorf("decode question data: %w", err)
		}
		out = append(out, a)
	}
	return out, nil
}

// Ping checks backend reachability.
func (c *Client) Ping(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return fmt.Errorf("backend handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
