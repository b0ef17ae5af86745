package cli

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"online-quiz-service/internal/app"
	"online-quiz-service/internal/auth"
	"online-quiz-service/internal/config"
	"online-quiz-service/internal/infra/memory"
	"online-quiz-service/internal/infra/postgres"
	rediscache "online-quiz-service/internal/infra/redis"
	transport "online-quiz-service/internal/transport/http"
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

	secret := cfg.Auth.Secret
	if secret == "" {
		secret = os.Getenv("AUTH_SECRET")
	}
	if secret == "" {
		return fmt.Errorf("auth secret not configured")
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

	var (
		accounts  app.AccountRepository
		quizzes   app.QuizRepository
		questions app.QuestionRepository
		attempts  app.AttemptRepository
		details   app.QuizDetailSource
	)

	if cfg.Postgres.URL != "" {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.Postgres.URL)))
		db := bun.NewDB(sqldb, pgdialect.New())
		defer db.Close()

		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()

		accounts = postgres.NewAccountRepository(db)
		quizzes = postgres.NewQuizRepository(db)
		questions = postgres.NewQuestionRepository(db)
		attempts = postgres.NewAttemptRepository(db)
		details = postgres.NewQuizDetailLoader(pool)
	} else {
		store := memory.NewStore()
		accounts = store.Accounts()
		quizzes = store.Quizzes()
		questions = store.Questions()
		attempts = store.Attempts()
		details = app.NewRepositoryDetailSource(store.Quizzes(), store.Questions())
		slog.Warn("postgres url not configured, using in-memory storage")
	}

	cacheTTL := config.TTLDuration(cfg.Quiz.CacheTTL, 10*time.Minute)
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		details = rediscache.NewDetailCache(client, details, cacheTTL)
	} else {
		details = memory.NewDetailCache(details, cacheTTL)
	}

	codec := auth.NewTokenCodec(secret, config.TTLDuration(cfg.Auth.TokenTTL, auth.DefaultTokenTTL))
	authService := app.NewAuthService(accounts, codec)
	quizService := app.NewQuizService(quizzes, questions, details)
	attemptService := app.NewAttemptService(attempts, quizzes, questions, accounts)

	handler := transport.NewHandler(authService, quizService, attemptService)
	live := transport.NewLiveResultsHandler(authService, attemptService)
	router := transport.NewRouter(handler, live, codec, auth.DefaultPolicy())

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		slog.Info("starting quiz service", "port", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		slog.Info("shutting down server")
	case <-ctx.Done():
		slog.Info("context canceled, shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
