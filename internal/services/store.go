package services

import (
	"context"

	"github.com/tahcohcat/eventquest-web/internal/models"
)

// Store is the query surface of the hosted data store. Lookups that find
// nothing, and writes that reference a missing row, return an error wrapping
// sql.ErrNoRows. Repeated event registrations wrap models.ErrDuplicate.
type Store interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserAchievements(ctx context.Context, userID string) ([]models.UserAchievementRow, error)
	GetUserEvents(ctx context.Context, userID string) ([]models.EventRegistrationRow, error)
	GetUserActivities(ctx context.Context, userID string) ([]models.ActivityCompletionRow, error)
	GetUserLeaderboardRank(ctx context.Context, userID, leaderboardID string) (*models.RankRow, error)
	FindLeaderboardID(ctx context.Context, eventID string) (string, error)
	GetLeaderboard(ctx context.Context, leaderboardID string) ([]models.LeaderboardRow, error)

	InsertUserActivity(ctx context.Context, userID, activityID string) error
	InsertEventRegistration(ctx context.Context, userID, eventID string) error

	ListEvents(ctx context.Context) ([]models.Event, error)
	ListScheduledActivities(ctx context.Context) ([]models.ScheduledActivity, error)
	ListAchievements(ctx context.Context) ([]models.AchievementDefinition, error)
}
