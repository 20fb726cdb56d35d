package http

import (
	"context"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"commentmod/internal/config"
	"commentmod/internal/database"
	"commentmod/internal/handler"
	"commentmod/internal/queue"
	redisclient "commentmod/internal/redis"
	"commentmod/internal/repository"
	"commentmod/internal/service"
	"commentmod/internal/spam"
	"commentmod/internal/worker"
)

func Run() error {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Connect to Database
	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// 3. Connect to Redis
	rdb, err := redisclient.NewClient(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer rdb.Close()
	if err := rdb.Ping(context.Background()); err != nil {
		return err
	}

	// 4. Repositories
	commentRepo := repository.NewCommentRepository(db)
	eventRepo := repository.NewModerationEventRepository(db)

	// 5. Queue
	publisher := queue.NewPublisher(rdb.Client)
	consumer := queue.NewConsumer(rdb.Client)

	// 6. Services
	scorer := spam.NewScorer(cfg.SpamKeywords)
	commentService := service.NewCommentService(commentRepo, scorer, cfg.SpamRejectThreshold, publisher)
	authService := service.NewAuthService(
		cfg.AdminUsername,
		cfg.AdminPassword,
		cfg.AdminPasswordHash,
		cfg.JWTSecret,
		time.Duration(cfg.TokenMaxAge)*time.Second,
	)

	// 7. Audit trail workers
	manager := worker.NewManager(consumer, worker.NewHandler(eventRepo), worker.ManagerConfig{
		WorkerCount: cfg.WorkerCount,
	})
	if err := manager.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start audit workers: %w", err)
	}
	defer manager.Stop()

	// 8. Handlers and router
	router := NewRouter(RouterConfig{
		AuthHandler:       handler.NewAuthHandler(authService),
		CommentHandler:    handler.NewCommentHandler(commentService),
		ModerationHandler: handler.NewModerationHandler(commentService, cfg.HighRiskThreshold),
		JWTSecret:         cfg.JWTSecret,
		SubmitRateRPS:     cfg.SubmitRateRPS,
		SubmitRateBurst:   cfg.SubmitRateBurst,
	})

	srv := &stdhttp.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	// 9. Serve until interrupted, then drain
	errCh := make(chan error, 1)
	go func() {
		log.Printf("Starting server on :%s", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && err != stdhttp.ErrServerClosed {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("Received %s, shutting down", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
