package models

type LeaderboardEntry struct {
	UserID        string  `json:"user_id" validate:"required"`
	UserName      string  `json:"user_name"`
	AvatarURL     string  `json:"avatar_url"`
	Score         float64 `json:"score"`
	Rank          int     `json:"rank" validate:"min=1"`
	IsCurrentUser bool    `json:"is_current_user,omitempty"`
}

// LeaderboardRow is a user_leaderboard row joined to the user it ranks.
type LeaderboardRow struct {
	UserID    string  `db:"user_id"`
	Score     float64 `db:"score"`
	Rank      int     `db:"rank"`
	UserName  *string `db:"user_name"`
	AvatarURL *string `db:"avatar_url"`
}

func (r LeaderboardRow) Entry() (LeaderboardEntry, error) {
	if r.UserName == nil {
		return LeaderboardEntry{}, &ShapeError{Join: "user_leaderboard", Key: r.UserID, Reason: "missing user"}
	}

	e := LeaderboardEntry{
		UserID:    r.UserID,
		UserName:  *r.UserName,
		AvatarURL: deref(r.AvatarURL),
		Score:     r.Score,
		Rank:      r.Rank,
	}
	if err := Validate(e); err != nil {
		return LeaderboardEntry{}, &ShapeError{Join: "user_leaderboard", Key: r.UserID, Reason: err.Error()}
	}
	return e, nil
}

// RankRow is a user's own rank and score.
type RankRow struct {
	Rank  int     `json:"rank" db:"rank"`
	Score float64 `json:"score" db:"score"`
}
