package models

import "time"

// Activity types shown as tabs on the dashboard.
const (
	ActivityTypeNetworking = "networking"
	ActivityTypePhysical   = "physical"
	ActivityTypeBreakout   = "breakout"
	ActivityTypePanel      = "panel"
)

// ActivityCompletion is an activity the user has completed.
type ActivityCompletion struct {
	ID          string    `json:"id" validate:"required"`
	Name        string    `json:"name" validate:"required"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Points      int       `json:"points" validate:"min=0"`
	CompletedAt time.Time `json:"completed_at"`
}

// ActivityCompletionRow is a user_activities row joined to its activity.
type ActivityCompletionRow struct {
	ActivityID  string    `db:"activity_id"`
	CompletedAt time.Time `db:"completed_at"`
	DefID       *string   `db:"def_id"`
	Name        *string   `db:"name"`
	Category    *string   `db:"category"`
	Description *string   `db:"description"`
	Points      *int      `db:"points"`
}

func (r ActivityCompletionRow) Completion() (ActivityCompletion, error) {
	if r.DefID == nil || r.Name == nil || r.Points == nil {
		return ActivityCompletion{}, &ShapeError{Join: "user_activities", Key: r.ActivityID, Reason: "missing activity definition"}
	}

	c := ActivityCompletion{
		ID:          *r.DefID,
		Name:        *r.Name,
		Category:    deref(r.Category),
		Description: deref(r.Description),
		Points:      *r.Points,
		CompletedAt: r.CompletedAt,
	}
	if err := Validate(c); err != nil {
		return ActivityCompletion{}, &ShapeError{Join: "user_activities", Key: r.ActivityID, Reason: err.Error()}
	}
	return c, nil
}

// ScheduledActivity is a session on the event schedule that attendees can
// sign up for.
type ScheduledActivity struct {
	ID              string `json:"id" db:"id"`
	Title           string `json:"title" db:"name"`
	Type            string `json:"type" db:"category"`
	Description     string `json:"description" db:"description"`
	Time            string `json:"time" db:"time_slot"`
	Location        string `json:"location" db:"location"`
	Participants    int    `json:"participants" db:"participants"`
	MaxParticipants int    `json:"max_participants" db:"max_participants"`
	Points          int    `json:"points" db:"points"`
}

// HasSpots reports whether the activity is below capacity.
func (a ScheduledActivity) HasSpots() bool {
	return a.Participants < a.MaxParticipants
}
