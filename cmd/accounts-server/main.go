package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/eion/accounts/internal/accounts"
	"github.com/eion/accounts/internal/config"
	"github.com/eion/accounts/internal/health"
)

const requestIDHeader = "X-Request-ID"

// AppState holds all application services
type AppState struct {
	AccountService accounts.AccountService
	AccountStore   *accounts.MemoryStore
	Health         *health.Manager
	Logger         *zap.Logger
	Config         *config.Config
}

func main() {
	if err := config.Load(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := initLogger()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("Configuration loaded", zap.String("source", "config.Load()"))

	as, err := newAppState(logger)
	if err != nil {
		logger.Fatal("Failed to initialize application state", zap.Error(err))
	}

	ctx := context.Background()
	if err := as.Health.StartupHealthCheck(ctx); err != nil {
		logger.Fatal("Startup health check failed", zap.Error(err))
	}

	router := setupRouter(as)

	addr := config.Http().Addr()
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := setupSignalHandler(server, logger)

	logger.Info("Starting account server", zap.String("address", addr))

	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("Failed to start server", zap.Error(err))
	}

	<-done
	logger.Info("Server shutdown complete")
}

// newAppState creates and wires the application services
func newAppState(logger *zap.Logger) (*AppState, error) {
	store := accounts.NewMemoryStore()
	service := accounts.NewAccountService(store, logger.Named("accounts"))

	healthManager := health.NewManager(logger.Named("health"))
	for _, checker := range []health.Checker{health.NewConfigChecker(config.Get()), store} {
		if err := healthManager.AddChecker(checker); err != nil {
			return nil, fmt.Errorf("failed to register health checker: %w", err)
		}
	}

	return &AppState{
		AccountService: service,
		AccountStore:   store,
		Health:         healthManager,
		Logger:         logger,
		Config:         config.Get(),
	}, nil
}

// initLogger builds the process logger from the log section of the config.
// An unknown level is an error rather than a silent fallback.
func initLogger() (*zap.Logger, error) {
	logConfig := config.Logger()

	level, err := zapcore.ParseLevel(logConfig.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", logConfig.Level, err)
	}

	var zapConfig zap.Config
	switch logConfig.Format {
	case "json":
		zapConfig = zap.NewProductionConfig()
	case "console":
		zapConfig = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q", logConfig.Format)
	}

	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.EncoderConfig.TimeKey = "timestamp"
	zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return zapConfig.Build(zap.Fields(zap.String("service", "accounts")))
}

func setupRouter(as *AppState) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	router.Use(corsMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(RequestLoggingMiddleware(as.Logger))
	router.Use(gin.Recovery())
	router.Use(MaxRequestSizeMiddleware(config.Http().MaxRequestSize))

	router.GET("/health", as.Health.Handler())

	accounts.NewAccountHandlers(as.AccountService, as.Logger.Named("http")).RegisterRoutes(router)

	return router
}

func corsMiddleware() gin.HandlerFunc {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions}
	corsConfig.AddAllowHeaders("Authorization", requestIDHeader)
	corsConfig.AddExposeHeaders(requestIDHeader)

	if config.Cors().AllowAll() {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = config.Cors().AllowedOrigins
	}

	return cors.New(corsConfig)
}

// RequestIDMiddleware tags each request with an id, reusing the caller's
// X-Request-ID when one is supplied
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header(requestIDHeader, requestID)
		c.Next()
	}
}

// RequestLoggingMiddleware logs every request once it has been served
func RequestLoggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		fields := []zap.Field{
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(startTime)),
			zap.String("remote_addr", c.ClientIP()),
		}

		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			logger.Error("Request failed", fields...)
		case c.Writer.Status() >= http.StatusBadRequest:
			logger.Warn("Request rejected", fields...)
		default:
			logger.Info("Request served", fields...)
		}
	}
}

// MaxRequestSizeMiddleware caps the request body at limit bytes
func MaxRequestSizeMiddleware(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

func setupSignalHandler(server *http.Server, logger *zap.Logger) chan struct{} {
	done := make(chan struct{}, 1)

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-signalCh

		logger.Info("Shutting down server...")

		timeout := time.Duration(config.Http().ShutdownTimeout) * time.Second
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Error during server shutdown", zap.Error(err))
		}

		done <- struct{}{}
	}()

	return done
}
