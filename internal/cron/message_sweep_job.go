package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/learnloop/community-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// MessageSweepJobParams configure the message sweep.
type MessageSweepJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository messageSweepRepo
}

type messageSweepRepo interface {
	DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)
}

// NewMessageSweepJob builds the job that physically deletes expired
// messages. Readers already filter on expires_at, so the sweep only
// reclaims storage; running it twice over the same instant is harmless.
func NewMessageSweepJob(params MessageSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("messages repository required")
	}
	return &messageSweepJob{
		logg: params.Logger,
		db:   params.DB,
		repo: params.Repository,
		now:  time.Now,
	}, nil
}

type messageSweepJob struct {
	logg *logger.Logger
	db   txRunner
	repo messageSweepRepo
	now  func() time.Time
}

func (j *messageSweepJob) Name() string { return "message-sweep" }

func (j *messageSweepJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.DeleteExpired(ctx, tx, now)
		if err != nil {
			return err
		}
		deleted = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("message sweep: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       now,
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "message sweep complete")
	return nil
}
