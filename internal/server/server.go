package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/classtrack/classtrack/internal/app/repositories"
	"github.com/classtrack/classtrack/internal/bootstrap"
	"github.com/classtrack/classtrack/internal/config"
)

// tokenCleanupInterval is how often expired refresh tokens are purged
const tokenCleanupInterval = time.Hour

// Server holds the state for the HTTP server
type Server struct {
	config    *config.Config
	router    *gin.Engine
	dbPool    *pgxpool.Pool
	tokenRepo *repositories.TokenRepository
	logger    zerolog.Logger
	http      *http.Server
}

// NewServer creates and initializes a new server instance
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	dbPool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, dbPool, lgr)
	if err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	router := bootstrap.SetupRouter(cfg, deps, lgr)

	return &Server{
		config:    cfg,
		router:    router,
		dbPool:    dbPool,
		tokenRepo: deps.Repos.TokenRepository,
		logger:    lgr,
	}, nil
}

// Run starts the HTTP server and blocks until shutdown
func (s *Server) Run() error {
	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	cleanupCtx, cancelCleanup := context.WithCancel(context.Background())
	defer cancelCleanup()
	go s.cleanupExpiredTokens(cleanupCtx)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown")
	}

	return s.Shutdown(context.Background())
}

// cleanupExpiredTokens periodically purges expired refresh tokens
// until the context is cancelled.
func (s *Server) cleanupExpiredTokens(ctx context.Context) {
	ticker := time.NewTicker(tokenCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := s.tokenRepo.DeleteExpired(ctx)
			if err != nil {
				s.logger.Error().Err(err).Msg("Expired token cleanup failed")
				continue
			}
			if deleted > 0 {
				s.logger.Info().Int64("deleted", deleted).Msg("Expired refresh tokens removed")
			}
		}
	}
}

// Shutdown gracefully stops the server and closes resources
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	shutdownError := false

	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownError = true
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped")
		}
	}

	if s.dbPool != nil {
		s.dbPool.Close()
		s.logger.Info().Msg("Database connection pool closed")
	}

	if shutdownError {
		return errors.New("server shutdown completed with errors")
	}
	return nil
}
