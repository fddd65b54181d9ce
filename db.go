// apps/go-server/db.go
//
// Storage selection for the chess server.
// STORE=sqlite (default) opens DB_PATH and applies the embedded migrations;
// STORE=memory keeps everything in process memory.

package main

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/chess/apps/go-server/internal/store"
)

// openStore builds the configured Store backend.
func openStore(kind, dbPath string) (store.Store, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "", "sqlite":
		st, err := store.NewSQLiteStore(dbPath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
		}
		log.Info().Str("store", "sqlite").Str("path", dbPath).Msg("store ready")
		return st, nil
	case "memory":
		log.Warn().Str("store", "memory").Msg("games and users will not survive a restart")
		return store.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown STORE %q (want sqlite or memory)", kind)
	}
}
