package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eduquiz-service/internal/app"
	"eduquiz-service/internal/cert"
	"eduquiz-service/internal/config"
	"eduquiz-service/internal/infra/jsonfile"
	"eduquiz-service/internal/infra/memory"
	pgcatalog "eduquiz-service/internal/infra/postgres"
	redisboard "eduquiz-service/internal/infra/redis"
	"eduquiz-service/internal/notify"
	transport "eduquiz-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz submission server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	// Catalog: flat JSON file by default, Postgres (with a TTL cache) when configured.
	var catalog app.Catalog
	var writer app.CatalogWriter
	if cfg.Postgres.URL != "" {
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		catalogTTL := config.TTLDuration(cfg.Catalog.TTL, 10*time.Minute)
		catalog = memory.NewCatalogCache(pgcatalog.NewCatalogLoader(pool), catalogTTL)
		// Question writes against Postgres go through migrations/seeding for now,
		// so the admin endpoint stays disabled on this backend.
	} else {
		fileCatalog, err := jsonfile.NewCatalog(cfg.Storage.QuizzesFile)
		if err != nil {
			return err
		}
		catalog = fileCatalog
		writer = fileCatalog
	}

	// Leaderboard: flat JSON file by default, Redis when configured.
	var leaderboard app.LeaderboardStore
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		leaderboard = redisboard.NewLeaderboard(client)
	} else {
		leaderboard = jsonfile.NewLeaderboard(cfg.Storage.LeaderboardFile)
	}

	generator := cert.NewGenerator(cfg.Storage.CertificatesDir)
	mailer := notify.NewMailer(notify.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		Timeout:  config.TTLDuration(cfg.SMTP.Timeout, 10*time.Second),
	})

	service := app.NewSubmissionService(catalog, leaderboard, generator, mailer)
	handler := transport.NewHandler(service, writer)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	handler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second, // submissions can wait on the SMTP timeout
	}

	go func() {
		log.Printf("starting eduquiz service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
