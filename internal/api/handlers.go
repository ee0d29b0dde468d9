package api

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/tahcohcat/eventquest-web/internal/apperr"
	"github.com/tahcohcat/eventquest-web/internal/auth"
	"github.com/tahcohcat/eventquest-web/internal/board"
	"github.com/tahcohcat/eventquest-web/internal/logger"
	"github.com/tahcohcat/eventquest-web/internal/response"
	"github.com/tahcohcat/eventquest-web/internal/services"
	"github.com/tahcohcat/eventquest-web/internal/websocket"
)

// MaxBoards bounds the board sessions kept in memory. The least recently used
// board is dropped first.
const MaxBoards = 10000

// Notifier delivers notifications to the clients of a board session.
type Notifier interface {
	Notify(sessionID string, n websocket.Notification) error
}

type DashboardHandler struct {
	profiles    *services.ProfileService
	leaderboard *services.LeaderboardService
	catalog     *services.CatalogService
	notifier    Notifier

	boards *lru.Cache[string, *board.Board] // board sessions by id

	log *logger.Log
}

func NewDashboardHandler(profiles *services.ProfileService, leaderboard *services.LeaderboardService,
	catalog *services.CatalogService, notifier Notifier) *DashboardHandler {
	return &DashboardHandler{
		profiles:    profiles,
		leaderboard: leaderboard,
		catalog:     catalog,
		notifier:    notifier,
		boards:      newBoardCache(MaxBoards),
		log:         logger.New(),
	}
}

func newBoardCache(size int) *lru.Cache[string, *board.Board] {
	cache, err := lru.New[string, *board.Board](size)
	if err != nil {
		panic(err)
	}
	return cache
}

// DropBoard forgets the board of a session, e.g. on logout.
func (dh *DashboardHandler) DropBoard(boardID string) {
	dh.boards.Remove(boardID)
}

// GET /api/v1/profile - Aggregated profile of the signed-in attendee
func (dh *DashboardHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	dh.writeProfile(w, r, auth.UserID(r))
}

// GET /api/v1/users/{id}/profile - Aggregated profile of any attendee
func (dh *DashboardHandler) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	dh.writeProfile(w, r, mux.Vars(r)["id"])
}

func (dh *DashboardHandler) writeProfile(w http.ResponseWriter, r *http.Request, userID string) {
	profile, err := dh.profiles.FetchProfile(r.Context(), userID)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, profile)
}

// GET /api/v1/leaderboard?event_id= - Ranked entries plus the podium
func (dh *DashboardHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := dh.leaderboard.GetLeaderboard(r.Context(), r.URL.Query().Get("event_id"), auth.UserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"entries": entries,
		"podium":  services.Podium(entries),
	})
}

// GET /api/v1/leaderboard/rank?event_id= - Rank of the signed-in attendee
func (dh *DashboardHandler) GetUserRank(w http.ResponseWriter, r *http.Request) {
	rank, err := dh.leaderboard.GetUserRank(r.Context(), auth.UserID(r), r.URL.Query().Get("event_id"))
	if err != nil {
		response.FromError(w, err)
		return
	}

	if rank == nil {
		response.Success(w, map[string]interface{}{"found": false, "rank": 0, "score": 0})
		return
	}
	response.Success(w, map[string]interface{}{"found": true, "rank": rank.Rank, "score": rank.Score})
}

// GET /api/v1/events - All events, soonest first
func (dh *DashboardHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := dh.catalog.ListEvents(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, events)
}

// POST /api/v1/events/{id}/register - Register the attendee for an event
func (dh *DashboardHandler) RegisterForEvent(w http.ResponseWriter, r *http.Request) {
	if err := dh.catalog.RegisterForEvent(r.Context(), auth.UserID(r), mux.Vars(r)["id"]); err != nil {
		response.FromError(w, err)
		return
	}
	response.Message(w, "Registered for event")
}

// GET /api/v1/achievements - All achievement definitions
func (dh *DashboardHandler) ListAchievements(w http.ResponseWriter, r *http.Request) {
	achievements, err := dh.catalog.ListAchievements(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, achievements)
}

// POST /api/v1/activities/{id}/complete - Record a completed activity
func (dh *DashboardHandler) CompleteActivity(w http.ResponseWriter, r *http.Request) {
	if err := dh.catalog.CompleteActivity(r.Context(), auth.UserID(r), mux.Vars(r)["id"]); err != nil {
		response.FromError(w, err)
		return
	}
	response.Message(w, "Activity completed")
}

// GET /api/v1/activities - The session board, filtered
func (dh *DashboardHandler) ListActivities(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		response.FromError(w, err)
		return
	}

	b, err := dh.boardFor(r.Context(), auth.BoardID(r), auth.UserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	result := b.Filter(filter)
	response.Success(w, map[string]interface{}{
		"activities":    result.Activities,
		"empty_message": result.EmptyMessage,
		"suggestion":    result.Suggestion,
		"points":        b.Points(),
	})
}

// POST /api/v1/activities/{id}/register - Sign up on the session board
func (dh *DashboardHandler) RegisterActivity(w http.ResponseWriter, r *http.Request) {
	boardID := auth.BoardID(r)
	b, err := dh.boardFor(r.Context(), boardID, auth.UserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	result, err := b.Register(mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, boardError(err))
		return
	}

	if result.Celebrate {
		n := websocket.Notification{
			Type:    "achievement",
			Title:   "First Activity Registered!",
			Message: fmt.Sprintf("You signed up for %s", result.Activity.Title),
			Data:    map[string]int{"points": result.PointsDelta},
		}
		if err := dh.notifier.Notify(boardID, n); err != nil {
			dh.log.WithError(err).Warn("failed to send celebration")
		}
	}

	response.Success(w, result)
}

// POST /api/v1/activities/{id}/cancel - Drop a sign-up on the session board
func (dh *DashboardHandler) CancelActivity(w http.ResponseWriter, r *http.Request) {
	b, err := dh.boardFor(r.Context(), auth.BoardID(r), auth.UserID(r))
	if err != nil {
		response.FromError(w, err)
		return
	}

	result, err := b.Cancel(mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, boardError(err))
		return
	}
	response.Success(w, result)
}

// boardFor returns the board of a session, creating it from the activity
// catalog on first use. Signed-in attendees start from their profile points.
func (dh *DashboardHandler) boardFor(ctx context.Context, boardID, userID string) (*board.Board, error) {
	if boardID == "" {
		return nil, apperr.Invalid("no board session")
	}

	if b, ok := dh.boards.Get(boardID); ok {
		return b, nil
	}

	catalog, err := dh.catalog.ListScheduledActivities(ctx)
	if err != nil {
		return nil, err
	}

	startingPoints := 0
	if userID != "" {
		profile, err := dh.profiles.FetchProfile(ctx, userID)
		if err != nil {
			dh.log.WithError(err).WithField("user_id", userID).Warn("starting board without profile points")
		} else {
			startingPoints = int(math.Floor(profile.TotalPoints))
		}
	}

	b := board.New(catalog, startingPoints)
	if existing, ok, _ := dh.boards.PeekOrAdd(boardID, b); ok {
		return existing, nil
	}
	return b, nil
}

func boardError(err error) error {
	switch {
	case errors.Is(err, board.ErrActivityNotFound):
		return apperr.NotFound(err.Error())
	case errors.Is(err, board.ErrAlreadyRegistered), errors.Is(err, board.ErrNotRegistered):
		return apperr.Conflict(err.Error())
	default:
		return err
	}
}

func parseFilter(r *http.Request) (board.Filter, error) {
	q := r.URL.Query()
	f := board.Filter{
		Tab:    q.Get("tab"),
		Search: q.Get("q"),
	}

	flags := []struct {
		name string
		dst  *bool
	}{
		{"registered", &f.RegisteredOnly},
		{"available", &f.AvailableOnly},
		{"high_points", &f.HighPoints},
	}
	for _, flag := range flags {
		v := q.Get(flag.name)
		if v == "" {
			continue
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return board.Filter{}, apperr.Invalid(fmt.Sprintf("invalid value for %s: %q", flag.name, v))
		}
		*flag.dst = b
	}
	return f, nil
}

// RegisterRoutes mounts the dashboard API on r. Routes that act on behalf of
// an attendee require a signed-in session.
func RegisterRoutes(r *mux.Router, dh *DashboardHandler) {
	r.HandleFunc("/users/{id}/profile", dh.GetUserProfile).Methods("GET")
	r.HandleFunc("/leaderboard", dh.GetLeaderboard).Methods("GET")
	r.HandleFunc("/events", dh.ListEvents).Methods("GET")
	r.HandleFunc("/achievements", dh.ListAchievements).Methods("GET")
	r.HandleFunc("/activities", dh.ListActivities).Methods("GET")
	r.HandleFunc("/activities/{id}/register", dh.RegisterActivity).Methods("POST")
	r.HandleFunc("/activities/{id}/cancel", dh.CancelActivity).Methods("POST")

	user := r.NewRoute().Subrouter()
	user.Use(auth.RequireUser)
	user.HandleFunc("/profile", dh.GetProfile).Methods("GET")
	user.HandleFunc("/leaderboard/rank", dh.GetUserRank).Methods("GET")
	user.HandleFunc("/events/{id}/register", dh.RegisterForEvent).Methods("POST")
	user.HandleFunc("/activities/{id}/complete", dh.CompleteActivity).Methods("POST")
}
