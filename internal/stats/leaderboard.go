// Package stats keeps a best-effort win/points leaderboard in Redis.
// Game sessions never depend on it: recording happens fire-and-forget after
// a game ends, and the server runs with the Noop sink when Redis is absent.
package stats

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	winsKey   = "leaderboard:wins"
	pointsKey = "leaderboard:points"
)

type Entry struct {
	Name string `json:"name"`
	Wins int64  `json:"wins"`
}

type Leaderboard struct {
	client *redis.Client
}

func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{client: client}
}

// RecordGame bumps the winner's win count and every player's lifetime
// round points in one round trip.
func (l *Leaderboard) RecordGame(ctx context.Context, winner string, points map[string]int) error {
	pipe := l.client.TxPipeline()
	pipe.ZIncrBy(ctx, winsKey, 1, winner)
	for name, pts := range points {
		if pts > 0 {
			pipe.ZIncrBy(ctx, pointsKey, float64(pts), name)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record game: %w", err)
	}
	return nil
}

// Top returns the n players with the most game wins, best first.
func (l *Leaderboard) Top(ctx context.Context, n int64) ([]Entry, error) {
	zs, err := l.client.ZRevRangeWithScores(ctx, winsKey, 0, n-1).Result()
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	out := make([]Entry, 0, len(zs))
	for _, z := range zs {
		name, _ := z.Member.(string)
		out = append(out, Entry{Name: name, Wins: int64(z.Score)})
	}
	return out, nil
}

// Noop satisfies the same surface with no storage behind it.
type Noop struct{}

func (Noop) RecordGame(context.Context, string, map[string]int) error { return nil }

func (Noop) Top(context.Context, int64) ([]Entry, error) { return nil, nil }
