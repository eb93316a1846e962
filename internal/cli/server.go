package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/config"
	"timed-quiz-service/internal/infra/file"
	"timed-quiz-service/internal/infra/memory"
	pgcatalog "timed-quiz-service/internal/infra/postgres"
	redisinfra "timed-quiz-service/internal/infra/redis"
	"timed-quiz-service/internal/infra/sqlite"
	transport "timed-quiz-service/internal/transport/http"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quiz server",
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

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()
	}
	redisTTL := config.Duration(cfg.Redis.TTL, 10*time.Minute)

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	feed := memory.NewResultFeed()
	opts := []app.Option{
		app.WithPublishers(feed),
		app.WithSessionBudget(cfg.Quiz.SecondsPerQuestion),
		app.WithTicker(config.Duration(cfg.Quiz.TickInterval, time.Second), nil),
	}

	var store app.SessionRepository
	if redisClient != nil {
		store = redisinfra.NewSessionStore(redisClient, redisTTL)
		opts = append(opts, app.WithPublishers(redisinfra.NewResultPublisher(redisClient)))
	} else {
		store = memory.NewSessionStore()
	}

	var catalog app.CatalogLoader
	switch {
	case pool != nil:
		catalog = pgcatalog.NewCatalogLoader(pool)
	case cfg.SQLite.Path != "":
		local, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return err
		}
		defer local.Close()
		catalog = local
	case cfg.Quiz.CatalogFile != "":
		catalog = file.NewCatalogLoader(cfg.Quiz.CatalogFile)
	}
	catalogTTL := config.Duration(cfg.Quiz.CatalogTTL, 5*time.Minute)
	if catalog != nil {
		if redisClient != nil {
			catalog = redisinfra.NewCatalogCache(redisClient, catalog, catalogTTL)
		} else {
			catalog = memory.NewCatalogCache(catalog, catalogTTL)
		}
		opts = append(opts, app.WithCatalog(catalog))
	}

	service := app.NewQuizService(app.NewRegistry(), store, opts...)
	if catalog != nil {
		report, err := service.ImportCatalog(ctx)
		if err != nil {
			return err
		}
		log.Printf("catalog imported: %d quizzes, %d skipped, %d rejected",
			len(report.Imported), len(report.Skipped), len(report.Failed))
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(service, feed, cfg.Server.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quiz service on :%s", finalPort)
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

	for _, live := range service.ActiveSessions() {
		live.Abandon()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
