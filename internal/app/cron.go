package app

import (
	"context"
	"time"

	"github.com/run-write/core/internal/models"
	pkgcron "github.com/run-write/core/internal/pkg/cron"
	"go.uber.org/zap"
)

// registerCronJobs wires the recurring maintenance work. Jobs are named so
// failures show up in the logs with a stable identity.
func (a *App) registerCronJobs() {
	a.sched.Register(pkgcron.Job{
		Name:        "feed_reconcile",
		Description: "Rebuild the feed index from the posts table",
		Interval:    time.Hour,
		Fn: func(ctx context.Context) error {
			_, err := a.feedSvc.Reconcile(ctx)
			return err
		},
	})

	a.sched.Register(pkgcron.Job{
		Name:        "session_sweep",
		Description: "Drop long-expired sessions",
		Interval:    24 * time.Hour,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().Add(-30 * 24 * time.Hour)
			res := a.db.WithContext(ctx).
				Unscoped().
				Where("expires_at < ?", cutoff).
				Delete(&models.UserSession{})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				a.logger.Info("sessions swept", zap.Int64("count", res.RowsAffected))
			}
			return nil
		},
	})
}
