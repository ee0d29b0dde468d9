package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tahcohcat/eventquest-web/internal/apperr"
	"github.com/tahcohcat/eventquest-web/internal/logger"
	"github.com/tahcohcat/eventquest-web/internal/models"
)

const DefaultNextLevelPoints = 1500

type ProfileService struct {
	store           Store
	nextLevelPoints int
	log             *logger.Log
}

func NewProfileService(store Store, nextLevelPoints int) *ProfileService {
	if nextLevelPoints <= 0 {
		nextLevelPoints = DefaultNextLevelPoints
	}
	return &ProfileService{
		store:           store,
		nextLevelPoints: nextLevelPoints,
		log:             logger.New(),
	}
}

// FetchProfile builds the user's dashboard profile. The user must exist; the
// achievement, event and activity joins are required and the first one to
// fail aborts the whole fetch. A missing leaderboard row leaves the position
// at 0.
func (s *ProfileService) FetchProfile(ctx context.Context, userID string) (*models.AggregatedProfile, error) {
	if userID == "" {
		return nil, apperr.Invalid("user id is required")
	}

	user, err := s.store.GetUser(ctx, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(fmt.Sprintf("user %s not found", userID))
	} else if err != nil {
		s.log.WithError(err).Error("Error fetching user data")
		return nil, apperr.QueryFailure("failed to fetch user", err)
	}

	profile := &models.AggregatedProfile{
		User:         *user,
		Achievements: []models.Achievement{},
		Events:       []models.Event{},
		Activities:   []models.ActivityCompletion{},
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := s.store.GetUserAchievements(gctx, user.ID)
		if err != nil {
			return apperr.QueryFailure("failed to fetch achievements", err)
		}
		for _, row := range rows {
			a, err := row.Achievement()
			if err != nil {
				return apperr.QueryFailure("failed to read achievements", err)
			}
			profile.Achievements = append(profile.Achievements, a)
		}
		return nil
	})

	g.Go(func() error {
		rows, err := s.store.GetUserEvents(gctx, user.ID)
		if err != nil {
			return apperr.QueryFailure("failed to fetch events", err)
		}
		for _, row := range rows {
			e, err := row.Event()
			if err != nil {
				return apperr.QueryFailure("failed to read events", err)
			}
			profile.Events = append(profile.Events, e)
		}
		return nil
	})

	g.Go(func() error {
		rows, err := s.store.GetUserActivities(gctx, user.ID)
		if err != nil {
			return apperr.QueryFailure("failed to fetch activities", err)
		}
		for _, row := range rows {
			c, err := row.Completion()
			if err != nil {
				return apperr.QueryFailure("failed to read activities", err)
			}
			profile.Activities = append(profile.Activities, c)
		}
		return nil
	})

	g.Go(func() error {
		rank, err := s.store.GetUserLeaderboardRank(gctx, user.ID, "")
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		} else if err != nil {
			return apperr.QueryFailure("failed to fetch leaderboard position", err)
		}
		profile.LeaderboardPosition = rank.Rank
		return nil
	})

	if err := g.Wait(); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("Error fetching user data")
		return nil, err
	}

	profile.TotalPoints = TotalPoints(profile.Achievements, profile.Activities)
	profile.LevelProgress = ComputeLevelProgress(user.Level, profile.TotalPoints, s.nextLevelPoints)

	return profile, nil
}

// TotalPoints weighs each achievement by its progress and adds every
// completed activity in full.
func TotalPoints(achievements []models.Achievement, activities []models.ActivityCompletion) float64 {
	var total float64
	for _, a := range achievements {
		total += float64(a.Points) * float64(a.Progress) / 100
	}
	for _, a := range activities {
		total += float64(a.Points)
	}
	return total
}

// ComputeLevelProgress reports how far total is towards nextLevelPoints.
func ComputeLevelProgress(level int, total float64, nextLevelPoints int) models.LevelProgress {
	lp := models.LevelProgress{
		Level:           level,
		NextLevelPoints: nextLevelPoints,
		Percent:         100,
	}
	if nextLevelPoints <= 0 {
		return lp
	}

	lp.Percent = total / float64(nextLevelPoints) * 100
	if lp.Percent > 100 {
		lp.Percent = 100
	}
	if remaining := float64(nextLevelPoints) - total; remaining > 0 {
		lp.PointsToNext = remaining
	}
	return lp
}
