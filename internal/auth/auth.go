package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"golang.org/x/crypto/bcrypt"

	"github.com/tahcohcat/eventquest-web/internal/logger"
	"github.com/tahcohcat/eventquest-web/internal/models"
	"github.com/tahcohcat/eventquest-web/internal/response"
)

const (
	sessionName = "eventquest-session"
	keyUserID   = "user_id"
	keyBoardID  = "board_id"
)

type ctxKey int

const (
	ctxUserID ctxKey = iota
	ctxBoardID
)

// UserLookup finds attendees by id.
type UserLookup interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type Auth struct {
	store        *sessions.CookieStore
	users        UserLookup
	passcodeHash []byte
	onLogout     []func(boardID string)
	log          *logger.Log
}

// New builds the cookie session layer. An empty passcodeHash lets attendees
// in with their id alone.
func New(secret string, users UserLookup, passcodeHash string) *Auth {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	var hash []byte
	if passcodeHash != "" {
		hash = []byte(passcodeHash)
	}

	return &Auth{store: store, users: users, passcodeHash: hash, log: logger.New()}
}

// OnLogout registers fn to run with the board session id of every logout.
func (a *Auth) OnLogout(fn func(boardID string)) {
	a.onLogout = append(a.onLogout, fn)
}

func (a *Auth) session(r *http.Request) *sessions.Session {
	session, err := a.store.Get(r, sessionName)
	if err != nil {
		// Undecodable cookie, start over with a fresh session
		a.log.WithError(err).Debug("discarding session cookie")
	}
	return session
}

// LoginHandler answers GET with whether a passcode is needed and signs the
// attendee in on POST.
func (a *Auth) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		response.Success(w, map[string]interface{}{
			"passcode_required": a.passcodeHash != nil,
		})
		return
	}

	var req models.LoginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		req.UserID = r.FormValue("user_id")
		req.Passcode = r.FormValue("passcode")
	}

	if err := models.Validate(req); err != nil {
		response.Error(w, http.StatusBadRequest, "user_id is required")
		return
	}

	if a.passcodeHash != nil {
		if err := bcrypt.CompareHashAndPassword(a.passcodeHash, []byte(req.Passcode)); err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid passcode")
			return
		}
	}

	user, err := a.users.GetUser(r.Context(), req.UserID)
	if errors.Is(err, sql.ErrNoRows) {
		response.Error(w, http.StatusNotFound, "User not found")
		return
	} else if err != nil {
		a.log.WithError(err).Error("login lookup failed")
		response.Error(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	session := a.session(r)
	session.Values[keyUserID] = user.ID
	if _, ok := session.Values[keyBoardID].(string); !ok {
		session.Values[keyBoardID] = uuid.NewString()
	}
	if err := session.Save(r, w); err != nil {
		a.log.WithError(err).Error("failed to save session")
		response.Error(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	response.Success(w, user)
}

func (a *Auth) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	session := a.session(r)
	if boardID, ok := session.Values[keyBoardID].(string); ok && boardID != "" {
		for _, fn := range a.onLogout {
			fn(boardID)
		}
	}

	session.Options.MaxAge = -1
	delete(session.Values, keyUserID)
	delete(session.Values, keyBoardID)
	if err := session.Save(r, w); err != nil {
		a.log.WithError(err).Warn("failed to clear session")
	}
	response.Message(w, "Signed out")
}

// SessionMiddleware makes sure every visitor has a board session and exposes
// the signed-in user, if any, through the request context.
func (a *Auth) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		session := a.session(r)

		boardID, ok := session.Values[keyBoardID].(string)
		if !ok || boardID == "" {
			boardID = uuid.NewString()
			session.Values[keyBoardID] = boardID
			if err := session.Save(r, w); err != nil {
				a.log.WithError(err).Warn("failed to save session")
			}
		}

		ctx := context.WithValue(r.Context(), ctxBoardID, boardID)
		if userID, ok := session.Values[keyUserID].(string); ok && userID != "" {
			ctx = context.WithValue(ctx, ctxUserID, userID)
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireUser rejects requests without a signed-in attendee.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserID(r) == "" {
			response.Error(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserID returns the signed-in attendee, or "".
func UserID(r *http.Request) string {
	id, _ := r.Context().Value(ctxUserID).(string)
	return id
}

// BoardID returns the board session of the request, or "".
func BoardID(r *http.Request) string {
	id, _ := r.Context().Value(ctxBoardID).(string)
	return id
}

// WithIdentity returns ctx carrying the given user and board ids.
func WithIdentity(ctx context.Context, userID, boardID string) context.Context {
	if userID != "" {
		ctx = context.WithValue(ctx, ctxUserID, userID)
	}
	if boardID != "" {
		ctx = context.WithValue(ctx, ctxBoardID, boardID)
	}
	return ctx
}
