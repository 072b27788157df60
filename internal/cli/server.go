package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"sprint-quiz-service/internal/app"
	"sprint-quiz-service/internal/config"
	fileloader "sprint-quiz-service/internal/infra/file"
	pgloader "sprint-quiz-service/internal/infra/postgres"
	redisinfra "sprint-quiz-service/internal/infra/redis"
	transport "sprint-quiz-service/internal/transport/http"
)

const defaultQuestionsPath = "raw_questions.txt"

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the quiz server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	cfg, err := config.Load(configPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		logger.Warn().Str("path", configPath).Msg("config not found, using defaults")
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8000"
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	questionsPath := cfg.Questions.Path
	if questionsPath == "" {
		questionsPath = defaultQuestionsPath
	}
	var loader redisinfra.BankLoader = fileloader.NewLoader(questionsPath)
	if pool != nil {
		loader = pgloader.NewLoader(pool)
	}

	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		bankTTL := config.TTLDuration(cfg.Questions.TTL, 10*time.Minute)
		loader = redisinfra.NewQuestionCache(redisClient, loader, bankTTL)
	}

	bankID := cfg.Questions.Bank
	if bankID == "" {
		bankID = "default"
	}
	questions, err := loader.LoadBank(ctx, bankID)
	if err != nil {
		return err
	}
	logger.Info().Int("questions", len(questions)).Str("bank", bankID).Msg("question bank loaded")
	if len(questions) == 0 {
		logger.Warn().Msg("question bank is empty, get_question will return an error")
	}

	store := app.NewQuestionStore(questions)
	registry := app.NewSessionRegistry()
	hub := app.NewHub()
	service := app.NewGameService(store, registry, hub)
	wsHandler := transport.NewWSHandler(service, logger)
	router := transport.NewRouter(service, wsHandler, logger)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info().Str("port", finalPort).Msg("starting sprint quiz service")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("failed to start server")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Info().Msg("shutting down server...")
	case <-ctx.Done():
		logger.Info().Msg("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
