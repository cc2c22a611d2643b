package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/lowcard/lowcard-backend/internal/stats"
)

type LeaderboardReader interface {
	Top(ctx context.Context, n int64) ([]stats.Entry, error)
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func Leaderboard(board LeaderboardReader, log *zap.Logger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := board.Top(r.Context(), 10)
		if err != nil {
			log.Warn("leaderboard read failed", zap.Error(err))
			http.Error(w, "leaderboard unavailable", http.StatusInternalServerError)
			return
		}
		if entries == nil {
			entries = []stats.Entry{}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Entries []stats.Entry `json:"entries"`
		}{Entries: entries})
	}
}
