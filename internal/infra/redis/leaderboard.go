// Package redis provides a Redis-backed leaderboard store for deployments
// that want the flat-file storage swapped for a key-value store.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"eduquiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "eduquiz:leaderboard"

// Leaderboard keeps the whole capped leaderboard as one JSON document under a
// single key, mirroring the file store's load/append/sort/truncate discipline
// so ordering semantics (stable ties, global top-50) stay identical. The mutex
// serializes in-process writers; cross-process deployments still need a single
// writer per key.
type Leaderboard struct {
	client *redis.Client
	mu     sync.Mutex
}

func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{client: client}
}

func (l *Leaderboard) Record(ctx context.Context, entry domain.LeaderboardEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load(ctx)
	if err != nil {
		return err
	}

	entries = append(entries, entry)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > domain.LeaderboardCap {
		entries = entries[:domain.LeaderboardCap]
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode leaderboard: %w", err)
	}
	if err := l.client.Set(ctx, leaderboardKey, data, 0).Err(); err != nil {
		return fmt.Errorf("persist leaderboard: %w", err)
	}
	return nil
}

func (l *Leaderboard) Query(ctx context.Context, topic string) ([]domain.LeaderboardEntry, error) {
	entries, err := l.load(ctx)
	if err != nil {
		return nil, err
	}

	if topic == "" {
		return entries, nil
	}

	filtered := entries[:0]
	for _, entry := range entries {
		if strings.EqualFold(entry.Topic, topic) {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}

func (l *Leaderboard) load(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	data, err := l.client.Get(ctx, leaderboardKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read leaderboard: %w", err)
	}

	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: key %s: %v", domain.ErrCorruptLeaderboard, leaderboardKey, err)
	}
	return entries, nil
}
