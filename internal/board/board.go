// Package board keeps one browser session's activity sign-ups and the
// points shown next to them. Nothing here is written back to the store.
package board

import (
	"errors"
	"sync"

	"github.com/tahcohcat/eventquest-web/internal/models"
)

var (
	ErrActivityNotFound  = errors.New("activity not found")
	ErrAlreadyRegistered = errors.New("already registered for this activity")
	ErrNotRegistered     = errors.New("not registered for this activity")
)

type Activity struct {
	models.ScheduledActivity
	IsRegistered bool `json:"is_registered"`
}

// Result describes the outcome of a register or cancel.
type Result struct {
	Activity    Activity `json:"activity"`
	Points      int      `json:"points"`
	PointsDelta int      `json:"points_delta"`
	Celebrate   bool     `json:"celebrate"`
}

type Board struct {
	mu         sync.Mutex
	activities []Activity
	points     int
	celebrated bool
}

// New starts a board with every activity unregistered.
func New(catalog []models.ScheduledActivity, startingPoints int) *Board {
	activities := make([]Activity, len(catalog))
	for i, a := range catalog {
		activities[i] = Activity{ScheduledActivity: a}
	}
	if startingPoints < 0 {
		startingPoints = 0
	}
	return &Board{activities: activities, points: startingPoints}
}

func (b *Board) find(id string) int {
	for i := range b.activities {
		if b.activities[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *Board) anyRegistered() bool {
	for _, a := range b.activities {
		if a.IsRegistered {
			return true
		}
	}
	return false
}

// Register signs up for an activity and adds its points. The first sign-up
// of the session, made while nothing else is registered, celebrates once.
func (b *Board) Register(id string) (Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.find(id)
	if i < 0 {
		return Result{}, ErrActivityNotFound
	}
	if b.activities[i].IsRegistered {
		return Result{}, ErrAlreadyRegistered
	}

	celebrate := !b.celebrated && !b.anyRegistered()
	if celebrate {
		b.celebrated = true
	}

	b.activities[i].IsRegistered = true
	b.points += b.activities[i].Points

	return Result{
		Activity:    b.activities[i],
		Points:      b.points,
		PointsDelta: b.activities[i].Points,
		Celebrate:   celebrate,
	}, nil
}

// Cancel drops a registration and takes back half its points, rounded down.
// The total never goes below zero.
func (b *Board) Cancel(id string) (Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	i := b.find(id)
	if i < 0 {
		return Result{}, ErrActivityNotFound
	}
	if !b.activities[i].IsRegistered {
		return Result{}, ErrNotRegistered
	}

	penalty := b.activities[i].Points / 2
	if penalty > b.points {
		penalty = b.points
	}

	b.activities[i].IsRegistered = false
	b.points -= penalty

	return Result{
		Activity:    b.activities[i],
		Points:      b.points,
		PointsDelta: -penalty,
	}, nil
}

func (b *Board) Points() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.points
}

// Activities returns a copy of the board's activities.
func (b *Board) Activities() []Activity {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]Activity, len(b.activities))
	copy(out, b.activities)
	return out
}

// Filter applies f to a snapshot of the board.
func (b *Board) Filter(f Filter) FilterResult {
	return Apply(b.Activities(), f)
}
