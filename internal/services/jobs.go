package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	applog "jamaahmart/internal/log"
	"jamaahmart/internal/repos"
)

// NewScheduler registers the housekeeping jobs; the caller starts and stops it.
// In-memory sessions idle past idle are forgotten every `every`, and login rows
// in the sessions table are pruned daily after thirty days of silence.
func NewScheduler(sessions *SessionStore, users *repos.UserRepo, idle, every time.Duration) (*cron.Cron, error) {
	sched := cron.New()

	if _, err := sched.AddFunc(fmt.Sprintf("@every %s", every), func() {
		n := sessions.Sweep(idle)
		if n > 0 {
			applog.L().Info("sessions swept", zap.Int("dropped", n), zap.Int("live", sessions.Len()))
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule session sweep: %w", err)
	}

	if _, err := sched.AddFunc("@daily", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		n, err := users.PruneSessions(ctx, time.Now().Add(-30*24*time.Hour))
		if err != nil {
			applog.L().Error("session prune failed", zap.Error(err))
			return
		}
		applog.L().Info("login sessions pruned", zap.Int64("deleted", n))
	}); err != nil {
		return nil, fmt.Errorf("schedule session prune: %w", err)
	}
	return sched, nil
}
