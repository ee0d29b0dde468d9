package models

type Achievement struct {
	ID          string `json:"id" validate:"required"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Points      int    `json:"points" validate:"min=0"`
	Progress    int    `json:"progress" validate:"min=0,max=100"` // percent
	Unlocked    bool   `json:"unlocked"`
}

// AchievementDefinition is a row of the achievements table.
type AchievementDefinition struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description" db:"description"`
	Points      int    `json:"points" db:"points"`
}

// UserAchievementRow is a user_achievements row joined to its definition.
// The definition columns are NULL when the join found nothing.
type UserAchievementRow struct {
	AchievementID string  `db:"achievement_id"`
	Progress      int     `db:"progress"`
	DefID         *string `db:"def_id"`
	Name          *string `db:"name"`
	Description   *string `db:"description"`
	Points        *int    `db:"points"`
}

// Achievement converts the row, rejecting rows without a definition or
// with progress outside 0-100.
func (r UserAchievementRow) Achievement() (Achievement, error) {
	if r.DefID == nil || r.Name == nil || r.Points == nil {
		return Achievement{}, &ShapeError{Join: "user_achievements", Key: r.AchievementID, Reason: "missing achievement definition"}
	}

	a := Achievement{
		ID:          *r.DefID,
		Name:        *r.Name,
		Description: deref(r.Description),
		Points:      *r.Points,
		Progress:    r.Progress,
		Unlocked:    r.Progress == 100,
	}
	if err := Validate(a); err != nil {
		return Achievement{}, &ShapeError{Join: "user_achievements", Key: r.AchievementID, Reason: err.Error()}
	}
	return a, nil
}

func (d AchievementDefinition) Achievement() Achievement {
	return Achievement{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Points:      d.Points,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
