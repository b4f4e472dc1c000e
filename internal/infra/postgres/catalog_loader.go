package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"eduquiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CatalogLoader loads per-topic question lists stored as JSONB in Postgres.
// An unknown topic resolves to an empty quiz, matching the catalog contract.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadQuiz(ctx context.Context, topic string) (domain.Quiz, error) {
	var raw []byte
	err := l.pool.QueryRow(ctx, `SELECT questions FROM quizzes WHERE topic=$1`, topic).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Quiz{Topic: topic}, nil
	}
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("load quiz %q: %w", topic, err)
	}

	var questions []domain.Question
	if err := json.Unmarshal(raw, &questions); err != nil {
		return domain.Quiz{}, fmt.Errorf("unmarshal quiz %q: %w", topic, err)
	}
	return domain.Quiz{Topic: topic, Questions: questions}, nil
}

func (l *CatalogLoader) ListTopics(ctx context.Context) ([]string, error) {
	rows, err := l.pool.Query(ctx, `SELECT topic FROM quizzes ORDER BY topic`)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	var topics []string
	for rows.Next() {
		var topic string
		if err := rows.Scan(&topic); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, topic)
	}
	return topics, rows.Err()
}
