package cache

import (
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRefresh(t *testing.T) {
	coord, loader, _ := newTestCoordinator(t)
	c := cron.New()

	id, err := ScheduleRefresh(c, "@every 10m", coord, time.Second)
	require.NoError(t, err)

	c.Entry(id).Job.Run()
	assert.Equal(t, 1, loader.Calls())
	assert.Equal(t, StateFresh, coord.Status().State)

	before := coord.Status().Version
	c.Entry(id).Job.Run()
	assert.Equal(t, 2, loader.Calls())
	assert.NotEqual(t, before, coord.Status().Version)
}

func TestScheduleRefresh_InvalidSpec(t *testing.T) {
	coord, _, _ := newTestCoordinator(t)

	_, err := ScheduleRefresh(cron.New(), "not a schedule", coord, time.Second)
	assert.Error(t, err)
}

func TestScheduleRefresh_Timeout(t *testing.T) {
	coord, loader, _ := newTestCoordinator(t)
	loader.SetGate(make(chan struct{}))
	c := cron.New()

	id, err := ScheduleRefresh(c, "@hourly", coord, 10*time.Millisecond)
	require.NoError(t, err)

	c.Entry(id).Job.Run()
	assert.Equal(t, StateEmpty, coord.Status().State, "timed out refresh stores nothing")
}
