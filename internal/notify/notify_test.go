package notify

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCenter(ttl time.Duration) (*Center, *time.Time) {
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	c := NewCenter(ttl)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestCenter_PushNewestFirst(t *testing.T) {
	c, now := newTestCenter(time.Second)

	c.Error("Failed to load dashboard data")
	c.Success("Message sent successfully")

	active := c.Active(*now)
	require.Len(t, active, 2)
	assert.Equal(t, KindSuccess, active[0].Kind)
	assert.Equal(t, KindError, active[1].Kind)
	assert.Equal(t, "Failed to load dashboard data", active[1].Message)

	_, err := uuid.Parse(active[0].ID)
	assert.NoError(t, err)
	assert.NotEqual(t, active[0].ID, active[1].ID)
}

func TestCenter_Expiry(t *testing.T) {
	c, now := newTestCenter(5 * time.Second)

	first := c.Push(KindInfo, "first")
	*now = now.Add(3 * time.Second)
	c.Info("second")

	assert.Len(t, c.Active(*now), 2)
	assert.Equal(t, 2*time.Second, first.TTL(*now))

	assert.Len(t, c.Active(now.Add(2*time.Second)), 1, "expiry is exclusive")
	assert.Empty(t, c.Active(now.Add(time.Minute)))
	assert.Equal(t, time.Duration(0), first.TTL(now.Add(time.Minute)))
}

func TestCenter_Dismiss(t *testing.T) {
	c, now := newTestCenter(time.Minute)

	n := c.Push(KindError, "boom")
	c.Info("still here")

	assert.True(t, c.Dismiss(n.ID))
	assert.False(t, c.Dismiss(n.ID))
	assert.False(t, c.Dismiss("unknown"))

	active := c.Active(*now)
	require.Len(t, active, 1)
	assert.Equal(t, "still here", active[0].Message)
}

func TestNewCenter_DefaultTTL(t *testing.T) {
	c := NewCenter(0)
	assert.Equal(t, DefaultTTL, c.ttl)
}
