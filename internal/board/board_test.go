package board

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tahcohcat/eventquest-web/internal/models"
)

func catalog() []models.ScheduledActivity {
	return []models.ScheduledActivity{
		{ID: "ai", Title: "Introduction to AI", Type: models.ActivityTypePanel, Location: "Main Hall", Points: 50, Participants: 45, MaxParticipants: 100},
		{ID: "breakfast", Title: "Networking Breakfast", Type: models.ActivityTypeNetworking, Location: "Dining Area", Points: 30, Participants: 50, MaxParticipants: 50},
		{ID: "yoga", Title: "Morning Yoga", Type: models.ActivityTypePhysical, Location: "Garden Terrace", Points: 40, Participants: 15, MaxParticipants: 25},
		{ID: "workshop", Title: "Product Design Workshop", Type: models.ActivityTypeBreakout, Location: "Workshop Room B", Points: 60, Participants: 32, MaxParticipants: 40},
	}
}

func TestRegisterThenCancel(t *testing.T) {
	b := New(catalog(), 0)

	res, err := b.Register("workshop")
	require.NoError(t, err)
	assert.Equal(t, 60, res.Points)
	assert.Equal(t, 60, res.PointsDelta)
	assert.True(t, res.Activity.IsRegistered)

	res, err = b.Cancel("workshop")
	require.NoError(t, err)
	assert.Equal(t, 30, res.Points)
	assert.Equal(t, -30, res.PointsDelta)
	assert.False(t, res.Activity.IsRegistered)
	assert.Equal(t, 30, b.Points())
}

func TestCancelRoundsPenaltyDown(t *testing.T) {
	b := New([]models.ScheduledActivity{{ID: "odd", Title: "Odd", Points: 45}}, 0)

	_, err := b.Register("odd")
	require.NoError(t, err)
	res, err := b.Cancel("odd")
	require.NoError(t, err)
	assert.Equal(t, -22, res.PointsDelta)
	assert.Equal(t, 23, res.Points)
}

func TestCancelNeverGoesNegative(t *testing.T) {
	b := New(catalog(), 0)
	_, err := b.Register("yoga")
	require.NoError(t, err)

	// fewer points left than the penalty
	b.points = 5
	res, err := b.Cancel("yoga")
	require.NoError(t, err)
	assert.Equal(t, 0, res.Points)
	assert.Equal(t, -5, res.PointsDelta)
}

func TestNegativeStartIsClamped(t *testing.T) {
	assert.Equal(t, 0, New(catalog(), -10).Points())
	assert.Equal(t, 1250, New(catalog(), 1250).Points())
}

func TestCelebratesOnce(t *testing.T) {
	b := New(catalog(), 0)

	res, err := b.Register("ai")
	require.NoError(t, err)
	assert.True(t, res.Celebrate)

	res, err = b.Register("yoga")
	require.NoError(t, err)
	assert.False(t, res.Celebrate)

	_, err = b.Cancel("ai")
	require.NoError(t, err)
	_, err = b.Cancel("yoga")
	require.NoError(t, err)

	res, err = b.Register("ai")
	require.NoError(t, err)
	assert.False(t, res.Celebrate)
}

func TestRegisterErrors(t *testing.T) {
	b := New(catalog(), 0)

	_, err := b.Register("missing")
	assert.ErrorIs(t, err, ErrActivityNotFound)

	_, err = b.Cancel("ai")
	assert.ErrorIs(t, err, ErrNotRegistered)

	_, err = b.Register("ai")
	require.NoError(t, err)
	_, err = b.Register("ai")
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
	assert.Equal(t, 50, b.Points())
}

func TestActivitiesReturnsCopy(t *testing.T) {
	b := New(catalog(), 0)
	acts := b.Activities()
	acts[0].IsRegistered = true

	assert.False(t, b.Activities()[0].IsRegistered)
}

func TestConcurrentRegistration(t *testing.T) {
	b := New(catalog(), 0)

	var wg sync.WaitGroup
	for _, a := range catalog() {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, _ = b.Register(id)
		}(a.ID)
	}
	wg.Wait()

	assert.Equal(t, 50+30+40+60, b.Points())
}
