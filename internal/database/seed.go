package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var seedNamespace = uuid.MustParse("2b7f3c1e-4a5d-4e8b-9c6f-1d2e3f4a5b6c")

// SeedID derives the stable id of a demo row so repeated seeding is idempotent.
func SeedID(kind, key string) string {
	return uuid.NewSHA1(seedNamespace, []byte(kind+":"+key)).String()
}

// DemoUserID is the attendee the demo dashboard logs in as.
var DemoUserID = SeedID("user", "sarah")

type seedUser struct {
	key, name, role string
	level           int
	score           float64
}

type seedActivity struct {
	key, name, category, description, slot, location string
	points, participants, max                        int
}

// Seed inserts demo data for a conference. Existing rows are left alone.
func (db *DB) Seed(ctx context.Context) error {
	eventStart := time.Date(2025, time.October, 15, 9, 0, 0, 0, time.UTC)
	eventID := SeedID("event", "techconf")
	leaderboardID := SeedID("leaderboard", "techconf")

	users := []seedUser{
		{"sarah", "Sarah Johnson", "Attendee", 4, 1250},
		{"michael", "Michael Chen", "Attendee", 4, 1180},
		{"jessica", "Jessica Williams", "Speaker", 3, 1050},
		{"david", "David Rodriguez", "Attendee", 3, 980},
		{"emily", "Emily Patel", "Attendee", 3, 920},
		{"james", "James Wilson", "Attendee", 2, 850},
		{"olivia", "Olivia Martinez", "Attendee", 2, 780},
		{"daniel", "Daniel Kim", "Attendee", 2, 720},
	}

	activities := []seedActivity{
		{"intro-ai", "Introduction to AI", "panel", "A first look at applied machine learning", "10:00 AM - 11:30 AM", "Main Hall", 50, 45, 100},
		{"breakfast", "Networking Breakfast", "networking", "Meet fellow attendees over coffee", "8:30 AM - 9:30 AM", "Dining Area", 30, 28, 50},
		{"yoga", "Morning Yoga", "physical", "Stretch before the sessions start", "7:00 AM - 8:00 AM", "Garden Terrace", 40, 15, 25},
		{"design-workshop", "Product Design Workshop", "breakout", "Hands-on prototyping in small groups", "1:00 PM - 3:00 PM", "Workshop Room B", 60, 32, 40},
		{"future-panel", "Future of Tech Panel", "panel", "Industry leaders on the next decade", "4:00 PM - 5:30 PM", "Main Stage", 50, 120, 200},
		{"speed-networking", "Speed Networking", "networking", "Five minute introductions", "6:00 PM - 7:00 PM", "Networking Lounge", 45, 40, 60},
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed: %w", err)
	}
	defer tx.Rollback()

	exec := func(query string, args ...interface{}) error {
		_, err := tx.ExecContext(ctx, tx.Rebind(query+" ON CONFLICT DO NOTHING"), args...)
		return err
	}

	for _, u := range users {
		avatar := fmt.Sprintf("https://api.dicebear.com/7.x/avataaars/svg?seed=%s", u.key)
		if err := exec(`INSERT INTO users (id, name, avatar_url, role, level) VALUES (?, ?, ?, ?, ?)`,
			SeedID("user", u.key), u.name, avatar, u.role, u.level); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.key, err)
		}
	}

	if err := exec(`INSERT INTO events (id, name, description, date, location) VALUES (?, ?, ?, ?, ?)`,
		eventID, "Tech Conference 2025", "Four days of talks, workshops and networking", eventStart, "Convention Center"); err != nil {
		return fmt.Errorf("failed to seed event: %w", err)
	}
	if err := exec(`INSERT INTO leaderboards (id, event_id) VALUES (?, ?)`, leaderboardID, eventID); err != nil {
		return fmt.Errorf("failed to seed leaderboard: %w", err)
	}

	for i, u := range users {
		if err := exec(`INSERT INTO user_leaderboard (leaderboard_id, user_id, score, rank) VALUES (?, ?, ?, ?)`,
			leaderboardID, SeedID("user", u.key), u.score, i+1); err != nil {
			return fmt.Errorf("failed to seed leaderboard entry %s: %w", u.key, err)
		}
	}

	for _, a := range activities {
		if err := exec(`INSERT INTO activities (id, name, category, description, points, time_slot, location, participants, max_participants)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			SeedID("activity", a.key), a.name, a.category, a.description, a.points, a.slot, a.location, a.participants, a.max); err != nil {
			return fmt.Errorf("failed to seed activity %s: %w", a.key, err)
		}
	}

	achievements := []struct {
		key, name, description string
		points, progress       int
	}{
		{"networking-pro", "Networking Pro", "Connect with 10 attendees", 100, 70},
		{"session-master", "Session Master", "Attend 5 sessions", 150, 100},
		{"early-bird", "Early Bird", "Check in to 3 morning events", 75, 66},
	}
	sarah := SeedID("user", "sarah")
	for _, a := range achievements {
		if err := exec(`INSERT INTO achievements (id, name, description, points) VALUES (?, ?, ?, ?)`,
			SeedID("achievement", a.key), a.name, a.description, a.points); err != nil {
			return fmt.Errorf("failed to seed achievement %s: %w", a.key, err)
		}
		if err := exec(`INSERT INTO user_achievements (user_id, achievement_id, progress) VALUES (?, ?, ?)`,
			sarah, SeedID("achievement", a.key), a.progress); err != nil {
			return fmt.Errorf("failed to seed achievement progress %s: %w", a.key, err)
		}
	}

	if err := exec(`INSERT INTO event_registrations (id, user_id, event_id, created_at) VALUES (?, ?, ?, ?)`,
		SeedID("registration", "sarah-techconf"), sarah, eventID, eventStart.AddDate(0, -1, 0)); err != nil {
		return fmt.Errorf("failed to seed registration: %w", err)
	}
	if err := exec(`INSERT INTO user_activities (id, user_id, activity_id, completed_at) VALUES (?, ?, ?, ?)`,
		SeedID("completion", "sarah-breakfast"), sarah, SeedID("activity", "breakfast"), eventStart.Add(-30*time.Minute)); err != nil {
		return fmt.Errorf("failed to seed completion: %w", err)
	}

	return tx.Commit()
}
