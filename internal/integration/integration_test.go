package integration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"eduquiz-service/internal/app"
	"eduquiz-service/internal/cert"
	"eduquiz-service/internal/domain"
	"eduquiz-service/internal/infra/memory"
	pgcatalog "eduquiz-service/internal/infra/postgres"
	pgmigrations "eduquiz-service/internal/infra/postgres/migrations"
	redisboard "eduquiz-service/internal/infra/redis"
	"github.com/jackc/pgx/v4/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/migrate"
)

func TestSubmissionEndToEnd(t *testing.T) {
	ctx := context.Background()
	requireDocker(t)

	pgURL, pgCleanup := startPostgres(t, ctx)
	defer pgCleanup()
	redisURL, redisCleanup := startRedis(t, ctx)
	defer redisCleanup()

	seedTopic(t, ctx, pgURL, "math", sampleQuestions())

	pool, err := pgxpool.Connect(ctx, pgURL)
	if err != nil {
		t.Fatalf("connect pg: %v", err)
	}
	defer pool.Close()

	catalog := memory.NewCatalogCache(pgcatalog.NewCatalogLoader(pool), 5*time.Minute)

	redisClient, err := redisClientFromURL(redisURL)
	if err != nil {
		t.Fatalf("redis client: %v", err)
	}
	leaderboard := redisboard.NewLeaderboard(redisClient)

	generator := cert.NewGeneratorWithClock(filepath.Join(t.TempDir(), "certificates"), func() time.Time {
		return time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	})
	notifier := &recordingNotifier{}
	service := app.NewSubmissionService(catalog, leaderboard, generator, notifier)

	outcome, err := service.Submit(ctx, app.SubmitRequest{
		Name:  "Alice",
		Email: "alice@example.com",
		Topic: "math",
		Answers: map[int]string{
			1: "4", 2: "9", 3: "16", 4: "wrong",
		},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if outcome.Result.Score != 3 || outcome.Result.Total != 4 {
		t.Fatalf("expected 3/4, got %d/%d", outcome.Result.Score, outcome.Result.Total)
	}
	if outcome.Notification != domain.NotificationSent {
		t.Fatalf("expected notification sent, got %s", outcome.Notification)
	}
	if notifier.calls != 1 {
		t.Fatalf("expected one email attempt, got %d", notifier.calls)
	}

	entries, err := leaderboard.Query(ctx, "math")
	if err != nil {
		t.Fatalf("query leaderboard: %v", err)
	}
	if len(entries) != 1 || entries[0].Score != 3 {
		t.Fatalf("expected one math entry with score 3, got %+v", entries)
	}
}

type recordingNotifier struct {
	calls int
}

func (n *recordingNotifier) Send(_ context.Context, to, name, topic, certPath string, score, total int) error {
	n.calls++
	return nil
}

func startPostgres(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "postgres:15-alpine",
		Env:          map[string]string{"POSTGRES_USER": "quiz", "POSTGRES_PASSWORD": "quizpass", "POSTGRES_DB": "quizdb"},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor:   wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start postgres: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		t.Fatalf("port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://quiz:quizpass@%s:%s/quizdb?sslmode=disable", host, port.Port())
	return dsn, func() {
		_ = container.Terminate(ctx)
	}
}

func startRedis(t *testing.T, ctx context.Context) (string, func()) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		if strings.Contains(err.Error(), "Cannot connect to the Docker daemon") {
			t.Skipf("docker not available: %v", err)
		}
		t.Fatalf("start redis: %v", err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("redis host: %v", err)
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		t.Fatalf("redis port: %v", err)
	}
	url := fmt.Sprintf("redis://%s:%s", host, port.Port())
	return url, func() {
		_ = container.Terminate(ctx)
	}
}

func seedTopic(t *testing.T, ctx context.Context, dsn, topic string, questions []domain.Question) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	defer db.Close()

	migrator := migrate.NewMigrator(db, pgmigrations.Migrations)
	if err := migrator.Init(ctx); err != nil {
		t.Fatalf("migrator init: %v", err)
	}
	if _, err := migrator.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	data, err := json.Marshal(questions)
	if err != nil {
		t.Fatalf("marshal questions: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO quizzes (topic, questions) VALUES (?, ?::jsonb) ON CONFLICT (topic) DO UPDATE SET questions=EXCLUDED.questions`, topic, string(data)); err != nil {
		t.Fatalf("insert quiz: %v", err)
	}
}

func sampleQuestions() []domain.Question {
	return []domain.Question{
		{Text: "2*2?", Options: []string{"3", "4", "5", "6"}, Answer: "4"},
		{Text: "3*3?", Options: []string{"6", "9", "12", "3"}, Answer: "9"},
		{Text: "4*4?", Options: []string{"16", "8", "12", "20"}, Answer: "16"},
		{Text: "5*5?", Options: []string{"25", "10", "15", "20"}, Answer: "25"},
	}
}

func redisClientFromURL(url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}), nil
}

func requireDocker(t *testing.T) {
	t.Helper()
	if _, err := tc.NewDockerProvider(); err != nil {
		t.Skipf("docker not available: %v", err)
	}
}
