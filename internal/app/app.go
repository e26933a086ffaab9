package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/iamvkosarev/campus-assistant/config"
	"github.com/iamvkosarev/campus-assistant/internal/handler"
	"github.com/iamvkosarev/campus-assistant/internal/knowledge"
	"github.com/iamvkosarev/campus-assistant/internal/model"
	in_memory "github.com/iamvkosarev/campus-assistant/internal/storage/in-memory"
	key_value "github.com/iamvkosarev/campus-assistant/internal/storage/key-value"
	"github.com/iamvkosarev/campus-assistant/internal/tui"
	"github.com/iamvkosarev/campus-assistant/internal/usecase"
	"github.com/iamvkosarev/campus-assistant/internal/widget"
	"github.com/redis/go-redis/v9"
	"github.com/sourcegraph/conc"
)

// RunRelay serves the chat relay until the process receives SIGINT or SIGTERM.
func RunRelay(ctx context.Context, cfg *config.Config) error {
	kb, err := knowledge.Default()
	if err != nil {
		return fmt.Errorf("failed to load knowledge base: %w", err)
	}

	var rateLimitStorage usecase.RateLimitStorage
	switch cfg.RateLimit.Storage {
	case config.StorageRedis:
		rdb, err := newRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		rateLimitStorage = key_value.NewRateLimitStorage(rdb)
	case config.StorageMemory, "":
		rateLimitStorage = in_memory.NewRateLimitStorage()
	default:
		return fmt.Errorf("unknown rate limit storage %q", cfg.RateLimit.Storage)
	}

	openAIUsecase := usecase.NewOpenAIUsecase(cfg.OpenAI)
	if !openAIUsecase.Configured() {
		log.Printf("OPENAI_API_KEY is not set, chat requests will fail until it is configured")
	}

	rateLimitUsecase := usecase.NewRateLimitUsecase(
		usecase.RateLimitUsecaseDeps{
			Storage: rateLimitStorage,
		},
		cfg.RateLimit,
	)

	relayUsecase, err := usecase.NewRelayUsecase(
		usecase.RelayUsecaseDeps{
			Provider:  openAIUsecase,
			Limiter:   rateLimitUsecase,
			Knowledge: kb,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to create relay usecase: %w", err)
	}

	gin.SetMode(cfg.Relay.GinMode)
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	handler.NewRelayHandler(relayUsecase, cfg.Relay.Path).Register(r)

	server := &http.Server{
		Addr:    cfg.Relay.Address,
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var serveErr error
	wg := conc.NewWaitGroup()
	wg.Go(
		func() {
			log.Printf("relay listening on %s%s", cfg.Relay.Address, cfg.Relay.Path)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr = fmt.Errorf("failed to serve relay: %w", err)
				stop()
			}
		},
	)
	wg.Go(
		func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Relay.ShutdownTimeout)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				log.Printf("failed to shut down relay: %v", err)
			}
		},
	)
	wg.Wait()

	return serveErr
}

// RunChat opens the terminal widget against the configured relay endpoint.
func RunChat(ctx context.Context, cfg *config.Config, page *model.PageContext) error {
	kb, err := knowledge.Default()
	if err != nil {
		return fmt.Errorf("failed to load knowledge base: %w", err)
	}

	var sessionStorage widget.SessionStorage
	switch cfg.Widget.Storage {
	case config.StorageRedis:
		rdb, err := newRedisClient(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		sessionStorage = key_value.NewSessionStorage(rdb, cfg.Widget.SessionName, cfg.Redis.SessionTTL)
	case config.StorageMemory, "":
		sessionStorage = in_memory.NewSessionStorage()
	default:
		return fmt.Errorf("unknown widget storage %q", cfg.Widget.Storage)
	}

	w := widget.New(
		widget.WidgetDeps{
			Storage:   sessionStorage,
			Transport: widget.NewHTTPTransport(cfg.Widget.Endpoint, cfg.Widget.RequestTimeout),
		},
		cfg.Widget,
		kb.ContactPhone(),
	)
	w.Restore(ctx)

	return tui.Run(ctx, w, page)
}

func newRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	rdb := redis.NewClient(
		&redis.Options{
			Addr:     cfg.Endpoint,
			Password: cfg.Password,
			DB:       cfg.DB,
		},
	)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Endpoint, err)
	}
	return rdb, nil
}
