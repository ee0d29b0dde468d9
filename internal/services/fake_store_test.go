package services

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/tahcohcat/eventquest-web/internal/models"
)

// fakeStore is an in-memory Store. Setting one of the *Err fields makes the
// matching query fail.
type fakeStore struct {
	mu sync.Mutex

	users        map[string]models.User
	achievements map[string][]models.UserAchievementRow
	events       map[string][]models.EventRegistrationRow
	activities   map[string][]models.ActivityCompletionRow
	ranks        map[string]models.RankRow // by user id
	leaderboards map[string]string         // event id -> leaderboard id
	boardRows    map[string][]models.LeaderboardRow
	allRows      []models.LeaderboardRow

	catalogEvents     []models.Event
	catalogActivities []models.ScheduledActivity
	definitions       []models.AchievementDefinition

	userErr, achievementsErr, eventsErr, activitiesErr, rankErr error
	findLeaderboardErr, leaderboardErr, insertErr, listErr      error

	knownActivities map[string]bool
	knownEvents     map[string]bool

	rankBoardID string // leaderboard id the last rank lookup used
	completed   []string
	registered  []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        map[string]models.User{},
		achievements: map[string][]models.UserAchievementRow{},
		events:       map[string][]models.EventRegistrationRow{},
		activities:   map[string][]models.ActivityCompletionRow{},
		ranks:        map[string]models.RankRow{},
		leaderboards: map[string]string{},
		boardRows:    map[string][]models.LeaderboardRow{},

		knownActivities: map[string]bool{},
		knownEvents:     map[string]bool{},
	}
}

func (f *fakeStore) GetUser(_ context.Context, id string) (*models.User, error) {
	if f.userErr != nil {
		return nil, f.userErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, sql.ErrNoRows)
	}
	return &u, nil
}

func (f *fakeStore) GetUserAchievements(_ context.Context, userID string) ([]models.UserAchievementRow, error) {
	if f.achievementsErr != nil {
		return nil, f.achievementsErr
	}
	return f.achievements[userID], nil
}

func (f *fakeStore) GetUserEvents(_ context.Context, userID string) ([]models.EventRegistrationRow, error) {
	if f.eventsErr != nil {
		return nil, f.eventsErr
	}
	return f.events[userID], nil
}

func (f *fakeStore) GetUserActivities(_ context.Context, userID string) ([]models.ActivityCompletionRow, error) {
	if f.activitiesErr != nil {
		return nil, f.activitiesErr
	}
	return f.activities[userID], nil
}

func (f *fakeStore) GetUserLeaderboardRank(_ context.Context, userID, leaderboardID string) (*models.RankRow, error) {
	f.mu.Lock()
	f.rankBoardID = leaderboardID
	f.mu.Unlock()

	if f.rankErr != nil {
		return nil, f.rankErr
	}
	r, ok := f.ranks[userID]
	if !ok {
		return nil, fmt.Errorf("rank: %w", sql.ErrNoRows)
	}
	return &r, nil
}

func (f *fakeStore) FindLeaderboardID(_ context.Context, eventID string) (string, error) {
	if f.findLeaderboardErr != nil {
		return "", f.findLeaderboardErr
	}
	id, ok := f.leaderboards[eventID]
	if !ok {
		return "", fmt.Errorf("leaderboard: %w", sql.ErrNoRows)
	}
	return id, nil
}

func (f *fakeStore) GetLeaderboard(_ context.Context, leaderboardID string) ([]models.LeaderboardRow, error) {
	if f.leaderboardErr != nil {
		return nil, f.leaderboardErr
	}
	if leaderboardID == "" {
		return f.allRows, nil
	}
	return f.boardRows[leaderboardID], nil
}

func (f *fakeStore) InsertUserActivity(_ context.Context, userID, activityID string) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if !f.knownActivities[activityID] {
		return fmt.Errorf("activities %s: %w", activityID, sql.ErrNoRows)
	}
	f.completed = append(f.completed, userID+"/"+activityID)
	return nil
}

func (f *fakeStore) InsertEventRegistration(_ context.Context, userID, eventID string) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	if !f.knownEvents[eventID] {
		return fmt.Errorf("events %s: %w", eventID, sql.ErrNoRows)
	}
	for _, r := range f.registered {
		if r == userID+"/"+eventID {
			return fmt.Errorf("registration: %w", models.ErrDuplicate)
		}
	}
	f.registered = append(f.registered, userID+"/"+eventID)
	return nil
}

func (f *fakeStore) ListEvents(context.Context) ([]models.Event, error) {
	return f.catalogEvents, f.listErr
}

func (f *fakeStore) ListScheduledActivities(context.Context) ([]models.ScheduledActivity, error) {
	return f.catalogActivities, f.listErr
}

func (f *fakeStore) ListAchievements(context.Context) ([]models.AchievementDefinition, error) {
	return f.definitions, f.listErr
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
