package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tahcohcat/eventquest-web/internal/models"
)

// GetUser retrieves a user by id. A missing user wraps sql.ErrNoRows.
func (db *DB) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	query := db.Rebind(`SELECT id, name, avatar_url, role, level FROM users WHERE id = ?`)

	err := db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", id, sql.ErrNoRows)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetUserAchievements returns the user's achievement progress joined to the
// achievement definitions.
func (db *DB) GetUserAchievements(ctx context.Context, userID string) ([]models.UserAchievementRow, error) {
	query := db.Rebind(`
		SELECT
			ua.achievement_id, ua.progress,
			a.id AS def_id, a.name, a.description, a.points
		FROM user_achievements ua
		LEFT JOIN achievements a ON a.id = ua.achievement_id
		WHERE ua.user_id = ?
		ORDER BY ua.achievement_id
	`)

	var rows []models.UserAchievementRow
	if err := db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get user achievements: %w", err)
	}
	return rows, nil
}

// GetUserEvents returns the events the user registered for.
func (db *DB) GetUserEvents(ctx context.Context, userID string) ([]models.EventRegistrationRow, error) {
	query := db.Rebind(`
		SELECT
			er.event_id,
			e.id AS def_id, e.name, e.description, e.date, e.location
		FROM event_registrations er
		LEFT JOIN events e ON e.id = er.event_id
		WHERE er.user_id = ?
		ORDER BY e.date
	`)

	var rows []models.EventRegistrationRow
	if err := db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get user events: %w", err)
	}
	return rows, nil
}

// GetUserActivities returns the activities the user completed.
func (db *DB) GetUserActivities(ctx context.Context, userID string) ([]models.ActivityCompletionRow, error) {
	query := db.Rebind(`
		SELECT
			ua.activity_id, ua.completed_at,
			a.id AS def_id, a.name, a.category, a.description, a.points
		FROM user_activities ua
		LEFT JOIN activities a ON a.id = ua.activity_id
		WHERE ua.user_id = ?
		ORDER BY ua.completed_at
	`)

	var rows []models.ActivityCompletionRow
	if err := db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get user activities: %w", err)
	}
	return rows, nil
}

// GetUserLeaderboardRank returns the user's rank on one leaderboard, or the
// best rank across all of them when leaderboardID is empty. A user without a
// leaderboard row wraps sql.ErrNoRows.
func (db *DB) GetUserLeaderboardRank(ctx context.Context, userID, leaderboardID string) (*models.RankRow, error) {
	query := `SELECT rank, score FROM user_leaderboard WHERE user_id = ?`
	args := []interface{}{userID}
	if leaderboardID != "" {
		query += ` AND leaderboard_id = ?`
		args = append(args, leaderboardID)
	}
	query += ` ORDER BY rank ASC LIMIT 1`

	var rank models.RankRow
	err := db.GetContext(ctx, &rank, db.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("leaderboard rank for user %s: %w", userID, sql.ErrNoRows)
	} else if err != nil {
		return nil, fmt.Errorf("failed to get user rank: %w", err)
	}
	return &rank, nil
}

// FindLeaderboardID resolves an event to its leaderboard.
func (db *DB) FindLeaderboardID(ctx context.Context, eventID string) (string, error) {
	var id string
	query := db.Rebind(`SELECT id FROM leaderboards WHERE event_id = ? ORDER BY id LIMIT 1`)

	err := db.GetContext(ctx, &id, query, eventID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("leaderboard for event %s: %w", eventID, sql.ErrNoRows)
	} else if err != nil {
		return "", fmt.Errorf("failed to resolve leaderboard: %w", err)
	}
	return id, nil
}

// GetLeaderboard lists ranked entries, restricted to one leaderboard when
// leaderboardID is set.
func (db *DB) GetLeaderboard(ctx context.Context, leaderboardID string) ([]models.LeaderboardRow, error) {
	query := `
		SELECT ul.user_id, ul.score, ul.rank, u.name AS user_name, u.avatar_url
		FROM user_leaderboard ul
		LEFT JOIN users u ON u.id = ul.user_id`
	var args []interface{}
	if leaderboardID != "" {
		query += ` WHERE ul.leaderboard_id = ?`
		args = append(args, leaderboardID)
	}
	query += ` ORDER BY ul.rank ASC`

	var rows []models.LeaderboardRow
	if err := db.SelectContext(ctx, &rows, db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	return rows, nil
}

// InsertUserActivity records that the user completed an activity. An unknown
// activity wraps sql.ErrNoRows.
func (db *DB) InsertUserActivity(ctx context.Context, userID, activityID string) error {
	if err := db.exists(ctx, "activities", activityID); err != nil {
		return err
	}

	query := db.Rebind(`
		INSERT INTO user_activities (id, user_id, activity_id, completed_at)
		VALUES (?, ?, ?, ?)
	`)

	_, err := db.ExecContext(ctx, query, uuid.NewString(), userID, activityID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert user activity: %w", err)
	}
	return nil
}

// InsertEventRegistration registers the user for an event. An unknown event
// wraps sql.ErrNoRows and a repeated registration wraps models.ErrDuplicate.
func (db *DB) InsertEventRegistration(ctx context.Context, userID, eventID string) error {
	if err := db.exists(ctx, "events", eventID); err != nil {
		return err
	}

	query := db.Rebind(`
		INSERT INTO event_registrations (id, user_id, event_id, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, event_id) DO NOTHING
	`)

	res, err := db.ExecContext(ctx, query, uuid.NewString(), userID, eventID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to insert event registration: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to insert event registration: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("registration of user %s for event %s: %w", userID, eventID, models.ErrDuplicate)
	}
	return nil
}

// exists checks that table has a row with the given id. table is always one
// of our own constants.
func (db *DB) exists(ctx context.Context, table, id string) error {
	var found int
	query := db.Rebind(`SELECT COUNT(*) FROM ` + table + ` WHERE id = ?`)

	if err := db.GetContext(ctx, &found, query, id); err != nil {
		return fmt.Errorf("failed to look up %s: %w", table, err)
	}
	if found == 0 {
		return fmt.Errorf("%s %s: %w", table, id, sql.ErrNoRows)
	}
	return nil
}

// ListEvents returns every event, soonest first.
func (db *DB) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	query := `SELECT id, name, description, date, location FROM events ORDER BY date ASC`
	if err := db.SelectContext(ctx, &events, query); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// ListScheduledActivities returns the activity catalog.
func (db *DB) ListScheduledActivities(ctx context.Context) ([]models.ScheduledActivity, error) {
	var activities []models.ScheduledActivity
	query := `
		SELECT id, name, category, description, time_slot, location, participants, max_participants, points
		FROM activities
		ORDER BY name
	`
	if err := db.SelectContext(ctx, &activities, query); err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

// ListAchievements returns every achievement definition.
func (db *DB) ListAchievements(ctx context.Context) ([]models.AchievementDefinition, error) {
	var achievements []models.AchievementDefinition
	query := `SELECT id, name, description, points FROM achievements ORDER BY name`
	if err := db.SelectContext(ctx, &achievements, query); err != nil {
		return nil, fmt.Errorf("failed to list achievements: %w", err)
	}
	return achievements, nil
}
