package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tahcohcat/eventquest-web/internal/apperr"
	"github.com/tahcohcat/eventquest-web/internal/logger"
	"github.com/tahcohcat/eventquest-web/internal/models"
)

// CatalogService serves the event-wide lists and the two write paths.
type CatalogService struct {
	store Store
	log   *logger.Log
}

func NewCatalogService(store Store) *CatalogService {
	return &CatalogService{store: store, log: logger.New()}
}

// ListEvents returns all events, soonest first.
func (s *CatalogService) ListEvents(ctx context.Context) ([]models.Event, error) {
	events, err := s.store.ListEvents(ctx)
	if err != nil {
		s.log.WithError(err).Error("Error fetching events")
		return nil, apperr.QueryFailure("failed to fetch events", err)
	}
	if events == nil {
		events = []models.Event{}
	}
	return events, nil
}

func (s *CatalogService) ListScheduledActivities(ctx context.Context) ([]models.ScheduledActivity, error) {
	activities, err := s.store.ListScheduledActivities(ctx)
	if err != nil {
		s.log.WithError(err).Error("Error fetching activities")
		return nil, apperr.QueryFailure("failed to fetch activities", err)
	}
	return activities, nil
}

// ListAchievements returns every achievement with no progress attached.
func (s *CatalogService) ListAchievements(ctx context.Context) ([]models.Achievement, error) {
	defs, err := s.store.ListAchievements(ctx)
	if err != nil {
		s.log.WithError(err).Error("Error fetching achievements")
		return nil, apperr.QueryFailure("failed to fetch achievements", err)
	}

	achievements := make([]models.Achievement, 0, len(defs))
	for _, d := range defs {
		achievements = append(achievements, d.Achievement())
	}
	return achievements, nil
}

// CompleteActivity records a completed activity for the user.
func (s *CatalogService) CompleteActivity(ctx context.Context, userID, activityID string) error {
	if userID == "" || activityID == "" {
		return apperr.Invalid("user id and activity id are required")
	}

	err := s.store.InsertUserActivity(ctx, userID, activityID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFound(fmt.Sprintf("activity %s not found", activityID))
	default:
		s.log.WithError(err).Error("Error completing activity")
		return apperr.QueryFailure("failed to complete activity", err)
	}
}

// RegisterForEvent records the user's registration for an event. Registering
// twice is a conflict.
func (s *CatalogService) RegisterForEvent(ctx context.Context, userID, eventID string) error {
	if userID == "" || eventID == "" {
		return apperr.Invalid("user id and event id are required")
	}

	err := s.store.InsertEventRegistration(ctx, userID, eventID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return apperr.NotFound(fmt.Sprintf("event %s not found", eventID))
	case errors.Is(err, models.ErrDuplicate):
		return apperr.Conflict(fmt.Sprintf("already registered for event %s", eventID))
	default:
		s.log.WithError(err).Error("Error registering for event")
		return apperr.QueryFailure("failed to register for event", err)
	}
}
