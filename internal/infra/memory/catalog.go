package memory

import (
	"context"
	"sort"
	"sync"

	"eduquiz-service/internal/domain"
)

// StaticCatalog is a catalog backed by an in-memory map (useful for tests/demos).
// Unknown topics resolve to an empty question list, matching the workflow's
// zero-question-quiz treatment.
type StaticCatalog struct {
	mu      sync.RWMutex
	quizzes map[string][]domain.Question
}

func NewStaticCatalog(quizzes map[string][]domain.Question) *StaticCatalog {
	if quizzes == nil {
		quizzes = make(map[string][]domain.Question)
	}
	return &StaticCatalog{quizzes: quizzes}
}

func (c *StaticCatalog) Questions(_ context.Context, topic string) ([]domain.Question, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	questions := c.quizzes[topic]
	out := make([]domain.Question, len(questions))
	copy(out, questions)
	return out, nil
}

func (c *StaticCatalog) Topics(_ context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	topics := make([]string, 0, len(c.quizzes))
	for topic := range c.quizzes {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics, nil
}

// AddQuestion appends a question to a topic, creating the topic if needed.
func (c *StaticCatalog) AddQuestion(_ context.Context, topic string, q domain.Question) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quizzes[topic] = append(c.quizzes[topic], q)
	return nil
}
