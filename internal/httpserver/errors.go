package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/robalobadob/chess/apps/go-server/internal/game"
	"github.com/robalobadob/chess/apps/go-server/internal/store"
)

type errorBody struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	writeJSON(w, status, errorBody{Error: code, Detail: detail})
}

// errorStatus maps engine and store errors onto a status and error code.
var errorStatus = []struct {
	err    error
	status int
	code   string
}{
	{game.ErrMalformedCoordinate, http.StatusBadRequest, "malformed_coordinate"},
	{game.ErrEmptyOrigin, http.StatusBadRequest, "empty_origin"},
	{game.ErrFriendlyCapture, http.StatusBadRequest, "friendly_capture"},
	{game.ErrIllegalDestination, http.StatusBadRequest, "illegal_destination"},
	{game.ErrWrongTurn, http.StatusConflict, "wrong_turn"},
	{game.ErrInactiveGame, http.StatusConflict, "inactive_game"},
	{store.ErrNotFound, http.StatusNotFound, "not_found"},
	{store.ErrConflict, http.StatusConflict, "conflict"},
}

// fail writes the mapped error; anything unmapped is logged and reported as 500.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	for _, e := range errorStatus {
		if errors.Is(err, e.err) {
			writeError(w, e.status, e.code, err.Error())
			return
		}
	}
	hlog.FromRequest(r).Error().Err(err).Msg("request failed")
	writeError(w, http.StatusInternalServerError, "internal", "")
}
