package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"eduquiz-service/internal/domain"
)

// Leaderboard is a leaderboard.json-backed store: a single JSON array kept
// sorted descending by score and truncated to domain.LeaderboardCap entries.
// Record's read-modify-write is serialized by a mutex; without it two
// concurrent submissions could each load the same base array and the last
// writer would drop the other's entry.
type Leaderboard struct {
	path string
	mu   sync.Mutex
}

func NewLeaderboard(path string) *Leaderboard {
	return &Leaderboard{path: path}
}

// Record appends the entry, re-sorts the whole collection descending by score
// (stable, so equal scores keep insertion order) and persists the top entries
// atomically.
func (l *Leaderboard) Record(_ context.Context, entry domain.LeaderboardEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, err := l.load()
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

	if err := writeJSONAtomic(l.path, entries); err != nil {
		return fmt.Errorf("persist leaderboard: %w", err)
	}
	return nil
}

// Query returns entries in stored (already sorted) order. A non-empty topic
// filters case-insensitively.
func (l *Leaderboard) Query(_ context.Context, topic string) ([]domain.LeaderboardEntry, error) {
	l.mu.Lock()
	entries, err := l.load()
	l.mu.Unlock()
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

// load reads the persisted array. A missing file is an empty leaderboard; an
// undecodable file is reported as corruption, never silently reset.
func (l *Leaderboard) load() ([]domain.LeaderboardEntry, error) {
	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read leaderboard %s: %w", l.path, err)
	}

	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorruptLeaderboard, l.path, err)
	}
	return entries, nil
}
