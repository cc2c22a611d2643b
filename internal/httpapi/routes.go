package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/lowcard/lowcard-backend/internal/registry"
	"github.com/lowcard/lowcard-backend/internal/ws"
)

func SetupRoutes(reg *registry.Registry, board LeaderboardReader, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Public routes
	r.Get("/healthz", Healthz)
	r.Get("/leaderboard", Leaderboard(board, log))
	r.Get("/ws", ws.Handler(reg, log))
	return r
}
