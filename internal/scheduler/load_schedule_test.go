package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeActive struct {
	active bool
	err    error
}

func (f fakeActive) HasActiveRun(context.Context) (bool, error) {
	return f.active, f.err
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("0 3 * * 0"))
	assert.NoError(t, ValidateSchedule("*/15 * * * *"))
	assert.Error(t, ValidateSchedule("every sunday"))
	assert.Error(t, ValidateSchedule("0 0 3 * * 0"), "seconds field is not accepted")
}

func TestLoadScheduler_RunNow(t *testing.T) {
	var calls int32
	s := NewLoadScheduler("0 3 * * 0", func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "run-1", nil
	}, fakeActive{})

	id, err := s.RunNow(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "run-1", id)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.False(t, s.IsLoading())
}

func TestLoadScheduler_SkipsWhenRunActive(t *testing.T) {
	called := false
	s := NewLoadScheduler("0 3 * * 0", func(context.Context) (string, error) {
		called = true
		return "x", nil
	}, fakeActive{active: true})

	_, err := s.RunNow(context.Background())
	assert.ErrorIs(t, err, ErrLoadInProgress)
	assert.False(t, called)
}

func TestLoadScheduler_ActiveCheckError(t *testing.T) {
	s := NewLoadScheduler("0 3 * * 0", func(context.Context) (string, error) {
		return "x", nil
	}, fakeActive{err: errors.New("database is locked")})

	_, err := s.RunNow(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check active loads")
}

func TestLoadScheduler_SkipsOverlappingTrigger(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	s := NewLoadScheduler("0 3 * * 0", func(context.Context) (string, error) {
		close(started)
		<-release
		return "slow", nil
	}, nil)

	done := make(chan error, 1)
	go func() {
		_, err := s.RunNow(context.Background())
		done <- err
	}()
	<-started

	assert.True(t, s.IsLoading())
	_, err := s.RunNow(context.Background())
	assert.ErrorIs(t, err, ErrLoadInProgress)

	close(release)
	require.NoError(t, <-done)
}

func TestLoadScheduler_StartStop(t *testing.T) {
	s := NewLoadScheduler("0 3 * * 0", func(context.Context) (string, error) {
		return "x", nil
	}, nil)

	assert.Nil(t, s.GetNextRunTime())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))
	assert.True(t, s.IsRunning())

	next := s.GetNextRunTime()
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))
	assert.Equal(t, time.Sunday, next.Weekday())

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
}

func TestLoadScheduler_InvalidSchedule(t *testing.T) {
	s := NewLoadScheduler("not a schedule", nil, nil)
	err := s.Start(context.Background())
	require.Error(t, err)
	assert.False(t, s.IsRunning())
}
