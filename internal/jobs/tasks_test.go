package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubDeleter struct {
	count int64
	err   error
	calls int
	last  time.Time
}

func (s *stubDeleter) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	s.calls++
	s.last = now
	return s.count, s.err
}

func TestSessionPurgeJobDeletesExpired(t *testing.T) {
	deleter := &stubDeleter{count: 3}
	job := NewSessionPurgeJob(deleter, nil)

	before := time.Now()
	require.NoError(t, job.Handle(context.Background(), NewSessionPurgeTask()))
	require.Equal(t, 1, deleter.calls)
	require.False(t, deleter.last.Before(before))
}

func TestSessionPurgeJobPropagatesError(t *testing.T) {
	deleter := &stubDeleter{err: errors.New("connection refused")}
	job := NewSessionPurgeJob(deleter, nil)

	err := job.Handle(context.Background(), NewSessionPurgeTask())
	require.Error(t, err)
	require.Equal(t, 1, deleter.calls)
}
