package services

import (
	"context"
	"database/sql"
	"errors"
	"sort"

	"github.com/tahcohcat/eventquest-web/internal/apperr"
	"github.com/tahcohcat/eventquest-web/internal/logger"
	"github.com/tahcohcat/eventquest-web/internal/models"
)

type LeaderboardService struct {
	store Store
	log   *logger.Log
}

func NewLeaderboardService(store Store) *LeaderboardService {
	return &LeaderboardService{store: store, log: logger.New()}
}

// resolveLeaderboard maps an event to its leaderboard id. An empty id means
// no filter: events without a leaderboard fall back to the unfiltered board.
func (s *LeaderboardService) resolveLeaderboard(ctx context.Context, eventID string) string {
	if eventID == "" {
		return ""
	}

	id, err := s.store.FindLeaderboardID(ctx, eventID)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.log.WithError(err).WithField("event_id", eventID).Warn("leaderboard lookup failed, showing unfiltered leaderboard")
		}
		return ""
	}
	return id
}

// GetLeaderboard returns the entries ordered by rank, lowest first. Entries
// belonging to currentUserID are flagged.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, eventID, currentUserID string) ([]models.LeaderboardEntry, error) {
	leaderboardID := s.resolveLeaderboard(ctx, eventID)

	rows, err := s.store.GetLeaderboard(ctx, leaderboardID)
	if err != nil {
		s.log.WithError(err).Error("Error fetching leaderboard")
		return nil, apperr.QueryFailure("failed to fetch leaderboard", err)
	}

	entries := make([]models.LeaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := row.Entry()
		if err != nil {
			return nil, apperr.QueryFailure("failed to read leaderboard", err)
		}
		entry.IsCurrentUser = currentUserID != "" && entry.UserID == currentUserID
		entries = append(entries, entry)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Rank < entries[j].Rank
	})

	return entries, nil
}

// GetUserRank returns the user's rank and score, or nil when the user is not
// on the leaderboard.
func (s *LeaderboardService) GetUserRank(ctx context.Context, userID, eventID string) (*models.RankRow, error) {
	if userID == "" {
		return nil, apperr.Invalid("user id is required")
	}

	leaderboardID := s.resolveLeaderboard(ctx, eventID)

	rank, err := s.store.GetUserLeaderboardRank(ctx, userID, leaderboardID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		s.log.WithError(err).Error("Error fetching user rank")
		return nil, apperr.QueryFailure("failed to fetch user rank", err)
	}
	return rank, nil
}

// Podium returns up to the first three entries of a sorted leaderboard.
func Podium(entries []models.LeaderboardEntry) []models.LeaderboardEntry {
	if len(entries) > 3 {
		return entries[:3]
	}
	return entries
}
