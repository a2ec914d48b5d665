package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Purger deletes notifications whose retention window has elapsed
type Purger interface {
	PurgeExpired(ctx context.Context) error
}

// NotificationPurge runs the scheduled notification cleanup
type NotificationPurge struct {
	purger   Purger
	schedule string
	cron     *cron.Cron
	running  bool
	mu       sync.Mutex
}

// NewNotificationPurge creates a new purge job. The schedule is a standard
// cron expression; empty means hourly on the hour.
func NewNotificationPurge(purger Purger, schedule string) *NotificationPurge {
	if schedule == "" {
		schedule = "0 * * * *"
	}
	return &NotificationPurge{
		purger:   purger,
		schedule: schedule,
	}
}

// Start begins the purge job
func (j *NotificationPurge) Start() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.running {
		return nil
	}

	c := cron.New()
	if _, err := c.AddFunc(j.schedule, j.runOnce); err != nil {
		return err
	}
	c.Start()

	j.cron = c
	j.running = true
	slog.Info("notification purge started", "schedule", j.schedule)
	return nil
}

// Stop gracefully stops the purge job, waiting for an in-flight run
func (j *NotificationPurge) Stop() {
	j.mu.Lock()
	defer j.mu.Unlock()
	if !j.running {
		return
	}

	ctx := j.cron.Stop()
	<-ctx.Done()

	j.running = false
	slog.Info("notification purge stopped")
}

func (j *NotificationPurge) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := j.purger.PurgeExpired(ctx); err != nil {
		slog.Error("notification purge failed", "error", err)
	}
}
