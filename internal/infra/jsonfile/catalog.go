// Package jsonfile persists the quiz catalog and leaderboard as flat JSON
// files, the service's primary storage. Writes go through a temp-file rename
// so a crash mid-write never leaves a half-written store behind.
package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"eduquiz-service/internal/domain"
)

// Catalog is a quizzes.json-backed catalog: a map from topic to its ordered
// question list, loaded once at construction. Admin question writes persist
// back to the same file.
type Catalog struct {
	path string

	mu      sync.RWMutex
	quizzes map[string][]domain.Question
}

// NewCatalog loads the catalog from path. A missing file yields an empty
// catalog; a present-but-undecodable file is an error.
func NewCatalog(path string) (*Catalog, error) {
	quizzes := make(map[string][]domain.Question)

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// first run, nothing authored yet
	case err != nil:
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	default:
		if err := json.Unmarshal(data, &quizzes); err != nil {
			return nil, fmt.Errorf("decode catalog %s: %w", path, err)
		}
	}

	return &Catalog{path: path, quizzes: quizzes}, nil
}

func (c *Catalog) Questions(_ context.Context, topic string) ([]domain.Question, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	questions := c.quizzes[topic]
	out := make([]domain.Question, len(questions))
	copy(out, questions)
	return out, nil
}

func (c *Catalog) Topics(_ context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	topics := make([]string, 0, len(c.quizzes))
	for topic := range c.quizzes {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics, nil
}

// AddQuestion appends a question to a topic (creating the topic if needed) and
// persists the whole catalog back to its source file.
func (c *Catalog) AddQuestion(_ context.Context, topic string, q domain.Question) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.quizzes[topic] = append(c.quizzes[topic], q)
	if err := writeJSONAtomic(c.path, c.quizzes); err != nil {
		// roll back the in-memory append so memory matches disk
		c.quizzes[topic] = c.quizzes[topic][:len(c.quizzes[topic])-1]
		return fmt.Errorf("persist catalog: %w", err)
	}
	return nil
}

// writeJSONAtomic marshals v and replaces path via a same-directory temp file
// and rename, so readers never observe a partial write.
func writeJSONAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}
