package memory

import (
	"context"
	"testing"
	"time"

	"eduquiz-service/internal/domain"
)

func TestCatalogCacheCaches(t *testing.T) {
	loader := &countingLoader{quizzes: map[string]domain.Quiz{
		"math": {Topic: "math", Questions: []domain.Question{{Text: "2+2?", Answer: "4"}}},
	}}
	cache := NewCatalogCache(loader, time.Minute)

	if _, err := cache.Questions(context.Background(), "math"); err != nil {
		t.Fatalf("questions: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := cache.Questions(context.Background(), "math"); err != nil {
		t.Fatalf("questions 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

type countingLoader struct {
	quizzes map[string]domain.Quiz
	calls   int
}

func (l *countingLoader) LoadQuiz(_ context.Context, topic string) (domain.Quiz, error) {
	l.calls++
	return l.quizzes[topic], nil
}

func (l *countingLoader) ListTopics(_ context.Context) ([]string, error) {
	topics := make([]string, 0, len(l.quizzes))
	for topic := range l.quizzes {
		topics = append(topics, topic)
	}
	return topics, nil
}
