// internal/httpserver/routes_games.go
//
// Game endpoints:
//   - GET    /games                       -> games the caller owns or plays (auth)
//   - POST   /games                       -> new game, optional {"fen"} (auth)
//   - GET    /games/{id}                  -> detailed game
//   - GET    /games/{id}/board.svg        -> rendered board (?perspective=black&highlight=E2,E4)
//   - GET    /games/{id}/moves/{square}   -> legal moves/targets of one piece
//   - PATCH  /games/{id}                  -> {"start","end"} move (assigned player)
//   - PATCH  /games/{id}/assign           -> {"assignee_id","color"} (owner)
//   - POST   /games/{id}/resign           -> finish the game (assigned player)
//   - DELETE /games/{id}                  -> remove (owner)
//
// Mutations hold the per-game lock so load -> apply -> save never interleaves
// for one game id.

package httpserver

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/chess/apps/go-server/internal/game"
	"github.com/robalobadob/chess/apps/go-server/internal/render"
	"github.com/robalobadob/chess/apps/go-server/internal/store"
)

type newGameReq struct {
	FEN string `json:"fen"` // optional starting position
}

type newGameRes struct {
	GameID string `json:"game_id"`
	Self   string `json:"self"`
}

type moveReq struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type assignReq struct {
	AssigneeID string `json:"assignee_id"`
	Color      string `json:"color"`
}

// userInfo is the short form of a user inside a game payload.
type userInfo struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Self     string `json:"self"`
}

type baseGame struct {
	GameID        string     `json:"game_id"`
	Self          string     `json:"self"`
	Owner         userInfo   `json:"owner"`
	WhitePlayer   *userInfo  `json:"white_player"`
	BlackPlayer   *userInfo  `json:"black_player"`
	CreatedAt     time.Time  `json:"created_at"`
	LastUpdatedAt *time.Time `json:"last_updated_at"`
}

type pieceModel struct {
	Type   game.PieceType `json:"type"`
	Color  game.Color     `json:"color"`
	Square string         `json:"square"`
}

type detailedGame struct {
	baseGame
	Turn      game.Color            `json:"turn"`
	TurnCount int                   `json:"turn_count"`
	GameState game.State            `json:"game_state"`
	Board     map[string]pieceModel `json:"board"`
	Captured  []game.PieceView      `json:"captured_pieces"`
	FEN       string                `json:"fen"`
	Check     bool                  `json:"check"`
	Checkmate bool                  `json:"checkmate"`
}

type legalMovesRes struct {
	Square  string   `json:"square"`
	Moves   []string `json:"moves"`
	Targets []string `json:"targets"`
}

// mountGameRoutes registers /games.
func (s *Server) mountGameRoutes() {
	s.r.Route("/games", func(r chi.Router) {
		r.With(s.requireAuth()).Get("/", s.handleListGames)
		r.With(s.requireAuth()).Post("/", s.handleCreateGame)

		r.Route("/{gameID}", func(r chi.Router) {
			r.Get("/", s.handleGetGame)
			r.Get("/board.svg", s.handleBoardSVG)
			r.Get("/moves/{square}", s.handleLegalMoves)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth())
				r.Patch("/", s.handleMove)
				r.Patch("/assign", s.handleAssign)
				r.Post("/resign", s.handleResign)
				r.Delete("/", s.handleDeleteGame)
			})
		})
	})
}

func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	rows, err := s.store.ListByUser(r.Context(), currentUser(r).ID)
	if err != nil {
		fail(w, r, err)
		return
	}
	out := make([]baseGame, 0, len(rows))
	for _, row := range rows {
		bg, err := s.describeGame(r, row)
		if err != nil {
			fail(w, r, err)
			return
		}
		out = append(out, bg)
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateGame starts a game owned by the caller. An empty body is allowed.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	g := game.New()
	if fen := strings.TrimSpace(req.FEN); fen != "" {
		var err error
		if g, err = game.FromFEN(fen); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_fen", err.Error())
			return
		}
	}

	me := currentUser(r)
	row := &store.GameRow{ID: g.ID, OwnerID: me.ID, Record: g.Record()}
	if err := s.store.Create(r.Context(), row); err != nil {
		fail(w, r, err)
		return
	}
	hlog.FromRequest(r).Info().Str("game", g.ID).Str("owner", me.ID).Msg("game created")

	w.Header().Set("Location", "/games/"+g.ID)
	writeJSON(w, http.StatusCreated, newGameRes{GameID: g.ID, Self: "/games/" + g.ID})
}

func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	row, g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	s.writeDetailed(w, r, http.StatusOK, row, g)
}

func (s *Server) handleBoardSVG(w http.ResponseWriter, r *http.Request) {
	_, g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	opts := render.Options{Perspective: game.White}
	q := r.URL.Query()
	if p := q.Get("perspective"); p != "" {
		c, err := game.ParseColor(p)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_perspective", err.Error())
			return
		}
		opts.Perspective = c
	}
	if h := q.Get("highlight"); h != "" {
		opts.Highlight = strings.Split(h, ",")
		for _, label := range opts.Highlight {
			if _, err := game.ParseSquare(label); err != nil {
				fail(w, r, err)
				return
			}
		}
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	if err := render.Board(w, g.Snapshot(), opts); err != nil {
		hlog.FromRequest(r).Error().Err(err).Str("game", g.ID).Msg("render board")
	}
}

func (s *Server) handleLegalMoves(w http.ResponseWriter, r *http.Request) {
	_, g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	moves, targets, err := g.LegalMoves(chi.URLParam(r, "square"))
	if err != nil {
		fail(w, r, err)
		return
	}
	sq, _ := game.ParseSquare(chi.URLParam(r, "square"))
	writeJSON(w, http.StatusOK, legalMovesRes{
		Square:  sq.String(),
		Moves:   labels(moves),
		Targets: labels(targets),
	})
}

// handleMove applies {start,end} for the caller's side.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	unlock := s.locks.Lock(chi.URLParam(r, "gameID"))
	defer unlock()

	row, g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	me := currentUser(r)
	if !row.HasPlayers() {
		writeError(w, http.StatusBadRequest, "players_unassigned", "both players must be assigned before making a move")
		return
	}
	color, plays := row.ColorOf(me.ID)
	if !plays {
		writeError(w, http.StatusForbidden, "forbidden", "user is not a player in this game")
		return
	}
	if g.State() == game.StateActive && color != g.Turn() {
		writeError(w, http.StatusConflict, "wrong_turn", string(g.Turn())+" to move")
		return
	}

	if _, err := g.RequestMove(req.Start, req.End); err != nil {
		hlog.FromRequest(r).Debug().Err(err).Str("game", g.ID).Str("start", req.Start).Str("end", req.End).Msg("move rejected")
		fail(w, r, err)
		return
	}
	if !s.save(w, r, row, g) {
		return
	}
	hlog.FromRequest(r).Info().Str("game", g.ID).Str("start", req.Start).Str("end", req.End).
		Int("turn_count", g.TurnCount()).Msg("move")
	s.writeDetailed(w, r, http.StatusOK, row, g)
}

// handleAssign seats the assignee on the requested color and the owner on the other.
func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req assignReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}
	color, err := game.ParseColor(req.Color)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_color", err.Error())
		return
	}
	me := currentUser(r)
	if req.AssigneeID == me.ID {
		writeError(w, http.StatusBadRequest, "self_assignment", "owner cannot assign themselves; assign another player")
		return
	}
	if _, err := s.store.UserByID(r.Context(), req.AssigneeID); err != nil {
		fail(w, r, err)
		return
	}

	id := chi.URLParam(r, "gameID")
	unlock := s.locks.Lock(id)
	defer unlock()

	row, err := s.store.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	if row.OwnerID != me.ID {
		writeError(w, http.StatusForbidden, "forbidden", "user does not own game")
		return
	}
	if row.WhiteID != "" || row.BlackID != "" {
		writeError(w, http.StatusBadRequest, "players_assigned", "players already assigned")
		return
	}

	white, black := req.AssigneeID, me.ID
	if color == game.Black {
		white, black = me.ID, req.AssigneeID
	}
	if err := s.store.AssignPlayers(r.Context(), id, white, black); err != nil {
		fail(w, r, err)
		return
	}
	row, err = s.store.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	bg, err := s.describeGame(r, row)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bg)
}

// handleResign lets an assigned player end the game.
func (s *Server) handleResign(w http.ResponseWriter, r *http.Request) {
	unlock := s.locks.Lock(chi.URLParam(r, "gameID"))
	defer unlock()

	row, g, ok := s.loadGame(w, r)
	if !ok {
		return
	}
	if _, plays := row.ColorOf(currentUser(r).ID); !plays {
		writeError(w, http.StatusForbidden, "forbidden", "user is not a player in this game")
		return
	}
	if g.State() != game.StateActive {
		fail(w, r, game.ErrInactiveGame)
		return
	}
	g.Finish()
	if !s.save(w, r, row, g) {
		return
	}
	hlog.FromRequest(r).Info().Str("game", g.ID).Str("user", currentUser(r).ID).Msg("resigned")
	s.writeDetailed(w, r, http.StatusOK, row, g)
}

func (s *Server) handleDeleteGame(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "gameID")
	unlock := s.locks.Lock(id)
	defer unlock()

	row, err := s.store.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	if row.OwnerID != currentUser(r).ID {
		writeError(w, http.StatusForbidden, "forbidden", "user is not authorized to delete this game")
		return
	}
	if err := s.store.Delete(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ------------------------------- helpers -----------------------------------

// loadGame fetches the row named by {gameID} and rebuilds its engine.
func (s *Server) loadGame(w http.ResponseWriter, r *http.Request) (*store.GameRow, *game.Game, bool) {
	row, err := s.store.Get(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		fail(w, r, err)
		return nil, nil, false
	}
	g, err := row.Game()
	if err != nil {
		fail(w, r, err)
		return nil, nil, false
	}
	return row, g, true
}

// save persists g back into row and refreshes row's timestamps.
func (s *Server) save(w http.ResponseWriter, r *http.Request, row *store.GameRow, g *game.Game) bool {
	if err := s.store.Save(r.Context(), row.ID, g.Record()); err != nil {
		fail(w, r, err)
		return false
	}
	if fresh, err := s.store.Get(r.Context(), row.ID); err == nil {
		*row = *fresh
	} else {
		hlog.FromRequest(r).Warn().Err(err).Str("game", row.ID).Msg("reload after save")
	}
	return true
}

func (s *Server) writeDetailed(w http.ResponseWriter, r *http.Request, status int, row *store.GameRow, g *game.Game) {
	bg, err := s.describeGame(r, row)
	if err != nil {
		fail(w, r, err)
		return
	}
	snap := g.Snapshot()
	board := make(map[string]pieceModel, len(snap.Board))
	for label, pv := range snap.Board {
		board[label] = pieceModel{Type: pv.Type, Color: pv.Color, Square: label}
	}
	writeJSON(w, status, detailedGame{
		baseGame:  bg,
		Turn:      snap.Turn,
		TurnCount: snap.TurnCount,
		GameState: snap.GameState,
		Board:     board,
		Captured:  snap.Captured,
		FEN:       snap.FEN,
		Check:     snap.Check,
		Checkmate: snap.Checkmate,
	})
}

// describeGame resolves the owner and player names for row.
func (s *Server) describeGame(r *http.Request, row *store.GameRow) (baseGame, error) {
	owner, err := s.userInfo(r, row.OwnerID)
	if err != nil {
		return baseGame{}, err
	}
	bg := baseGame{
		GameID:    row.ID,
		Self:      "/games/" + row.ID,
		Owner:     *owner,
		CreatedAt: row.CreatedAt,
	}
	if !row.UpdatedAt.IsZero() {
		t := row.UpdatedAt
		bg.LastUpdatedAt = &t
	}
	if row.WhiteID != "" {
		if bg.WhitePlayer, err = s.userInfo(r, row.WhiteID); err != nil {
			return baseGame{}, err
		}
	}
	if row.BlackID != "" {
		if bg.BlackPlayer, err = s.userInfo(r, row.BlackID); err != nil {
			return baseGame{}, err
		}
	}
	return bg, nil
}

func (s *Server) userInfo(r *http.Request, id string) (*userInfo, error) {
	u, err := s.store.UserByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	return &userInfo{UserID: u.ID, Username: u.Username, Self: "/users/" + u.ID}, nil
}

func labels(sqs []game.Square) []string {
	out := make([]string, len(sqs))
	for i, sq := range sqs {
		out[i] = sq.String()
	}
	return out
}
