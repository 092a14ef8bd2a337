package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/learnloop/community-backend/pkg/logger"
)

// InviteSweepJobParams configure the invite sweep.
type InviteSweepJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository inviteSweepRepo
}

type inviteSweepRepo interface {
	DeleteExpired(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)
}

// NewInviteSweepJob builds the job that removes invites past their
// expires_at, whatever their status. Pending invites past the deadline are
// already unusable before the sweep touches them.
func NewInviteSweepJob(params InviteSweepJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("invites repository required")
	}
	return &inviteSweepJob{
		logg: params.Logger,
		db:   params.DB,
		repo: params.Repository,
		now:  time.Now,
	}, nil
}

type inviteSweepJob struct {
	logg *logger.Logger
	db   txRunner
	repo inviteSweepRepo
	now  func() time.Time
}

func (j *inviteSweepJob) Name() string { return "invite-sweep" }

func (j *inviteSweepJob) Run(ctx context.Context) error {
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
		return fmt.Errorf("invite sweep: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       now,
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "invite sweep complete")
	return nil
}
