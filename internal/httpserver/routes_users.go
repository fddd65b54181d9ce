// internal/httpserver/routes_users.go
//
// Account endpoints:
//   - POST /users        -> sign up, sets auth cookie
//   - GET  /users        -> every user with links to their games
//   - GET  /users/{id}   -> one user with links to their games
//   - POST /auth/login, POST /auth/logout, GET /auth/me

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/chess/apps/go-server/internal/store"
)

type signupReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Name     string `json:"name"`
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// gameLink is the short form of a game inside a user payload.
type gameLink struct {
	GameID string `json:"game_id"`
	Self   string `json:"self"`
}

type userDetails struct {
	UserID    string     `json:"user_id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Self      string     `json:"self"`
	CreatedAt time.Time  `json:"created_at"`
	Games     []gameLink `json:"games"`
}

// mountUserRoutes registers account and auth routes.
func (s *Server) mountUserRoutes() {
	s.r.Route("/users", func(r chi.Router) {
		r.Post("/", s.handleSignup)
		r.Get("/", s.handleListUsers)
		r.Get("/{userID}", s.handleGetUser)
	})

	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)
	s.r.With(s.requireAuth()).Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentUser(r))
	})
}

// handleSignup creates a new user, signs a JWT and sets the auth cookie.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body signupReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	body.Username = normalizeUsername(body.Username)
	if err := validateSignup(body.Username, body.Password); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_signup", err.Error())
		return
	}
	h, err := hashPassword(body.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	u := &store.User{
		ID:           uuid.NewString(),
		Username:     body.Username,
		Email:        strings.TrimSpace(body.Email),
		Name:         strings.TrimSpace(body.Name),
		PasswordHash: h,
	}
	if err := s.store.CreateUser(r.Context(), u); err != nil {
		if errors.Is(err, store.ErrConflict) {
			writeError(w, http.StatusConflict, "username_taken", body.Username)
			return
		}
		fail(w, r, err)
		return
	}
	hlog.FromRequest(r).Info().Str("user", u.ID).Msg("signup")

	if _, ok := s.issueSession(w, u); !ok {
		return
	}
	writeJSON(w, http.StatusCreated, describeUser(u, []gameLink{}))
}

// handleLogin authenticates a user and sets the auth cookie.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body loginReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	u, err := s.store.UserByUsername(r.Context(), normalizeUsername(body.Username))
	if err != nil || !checkPassword(u.PasswordHash, body.Password) {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid username or password")
		return
	}
	tok, ok := s.issueSession(w, u)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "username": u.Username, "token": tok})
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.clearAuthCookie(w)
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.store.ListUsers(r.Context())
	if err != nil {
		fail(w, r, err)
		return
	}
	out := make([]userDetails, 0, len(users))
	for _, u := range users {
		links, err := s.gameLinks(r, u.ID)
		if err != nil {
			fail(w, r, err)
			return
		}
		out = append(out, describeUser(u, links))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.store.UserByID(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		fail(w, r, err)
		return
	}
	links, err := s.gameLinks(r, u.ID)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, describeUser(u, links))
}

func (s *Server) gameLinks(r *http.Request, userID string) ([]gameLink, error) {
	rows, err := s.store.ListByUser(r.Context(), userID)
	if err != nil {
		return nil, err
	}
	links := make([]gameLink, 0, len(rows))
	for _, g := range rows {
		links = append(links, gameLink{GameID: g.ID, Self: "/games/" + g.ID})
	}
	return links, nil
}

func describeUser(u *store.User, games []gameLink) userDetails {
	return userDetails{
		UserID:    u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		Self:      "/users/" + u.ID,
		CreatedAt: u.CreatedAt,
		Games:     games,
	}
}
