package models

// AggregatedProfile is the composite view the dashboard renders. It is
// rebuilt on every fetch and never stored.
type AggregatedProfile struct {
	User
	Achievements        []Achievement        `json:"achievements"`
	Events              []Event              `json:"events"`
	Activities          []ActivityCompletion `json:"activities"`
	LeaderboardPosition int                  `json:"leaderboard_position"`
	TotalPoints         float64              `json:"total_points"`
	LevelProgress       LevelProgress        `json:"level_progress"`
}

type LevelProgress struct {
	Level           int     `json:"level"`
	NextLevelPoints int     `json:"next_level_points"`
	Percent         float64 `json:"percent"`
	PointsToNext    float64 `json:"points_to_next"`
}
