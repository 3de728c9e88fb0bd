package http

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	http_router "github.com/lintang-b-s/phaeton/pkg/http/router"
	"github.com/lintang-b-s/phaeton/pkg/http/router/controllers"
	http_server "github.com/lintang-b-s/phaeton/pkg/http/server"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Server struct {
	Log *zap.Logger
	g   *errgroup.Group
	ctx context.Context
}

func NewServer(log *zap.Logger) *Server {
	return &Server{Log: log}
}

// Use starts the API in the background. Wait returns its exit error.
func (s *Server) Use(
	ctx context.Context,
	log *zap.Logger,

	useRateLimit bool,
	graphService controllers.GraphService,
) (*Server, error) {
	config := http_server.Config{
		Port:    viper.GetInt("API_PORT"),
		Timeout: viper.GetDuration("API_TIMEOUT"),
	}

	server := http_router.NewAPI(log)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(
			ctx, config,
			useRateLimit, graphService,
		)
	})
	s.g = g
	s.ctx = ctx

	return s, nil
}

// Done is closed once the API stops on its own, e.g. when the port cannot be bound.
func (s *Server) Done() <-chan struct{} {
	if s.ctx == nil {
		return nil
	}
	return s.ctx.Done()
}

func (s *Server) Wait() error {
	if s.g == nil {
		return nil
	}
	return s.g.Wait()
}

// GracefulShutdown blocks until SIGINT or SIGTERM, or until done is closed. it returns nil
// when done was closed first.
func GracefulShutdown(done <-chan struct{}) os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		return sig
	case <-done:
		return nil
	}
}
