package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSessionPurge removes expired admin sessions. Expired sessions are
	// already invisible to verification; this is storage hygiene only.
	TaskSessionPurge = "sessions:purge"
)

// NewSessionPurgeTask constructs an Asynq task.
func NewSessionPurgeTask() *asynq.Task {
	return asynq.NewTask(TaskSessionPurge, nil)
}

// SessionDeleter removes sessions past their expiry.
type SessionDeleter interface {
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// SessionPurgeJob handles TaskSessionPurge tasks.
type SessionPurgeJob struct {
	sessions SessionDeleter
	logger   *slog.Logger
}

// NewSessionPurgeJob constructs the purge job.
func NewSessionPurgeJob(sessions SessionDeleter, logger *slog.Logger) *SessionPurgeJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionPurgeJob{sessions: sessions, logger: logger}
}

// Handle processes a purge task.
func (j *SessionPurgeJob) Handle(ctx context.Context, t *asynq.Task) error {
	count, err := j.sessions.DeleteExpired(ctx, time.Now())
	if err != nil {
		return err
	}
	j.logger.Info("purged expired sessions", slog.Int64("count", count))
	return nil
}
