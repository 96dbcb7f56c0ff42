package main

import (
	"context"
	"fmt"
	"sync"

	"github.com/JaimeStill/research-library/internal/config"
	"github.com/JaimeStill/research-library/internal/server"
	"github.com/JaimeStill/research-library/pkg/routes"
)

// Service coordinates the lifecycle of all subsystems.
type Service struct {
	ctx        context.Context
	cancel     context.CancelFunc
	shutdownWg sync.WaitGroup

	runtime *Runtime
	server  server.System
}

// NewService creates and initializes the service with all subsystems.
func NewService(cfg *config.Config) (*Service, error) {
	ctx, cancel := context.WithCancel(context.Background())

	runtime, err := NewRuntime(cfg)
	if err != nil {
		cancel()
		return nil, err
	}

	routeSys := routes.New(runtime.Logger)
	if err := registerRoutes(routeSys, runtime, cfg); err != nil {
		cancel()
		return nil, fmt.Errorf("register routes: %w", err)
	}

	handler := buildMiddleware(runtime.Logger).Apply(routeSys.Build())

	runtime.Logger.Info(
		"service initialized",
		"addr", cfg.Server.Addr(),
		"backend", cfg.Backend.BaseURL,
		"version", cfg.Version,
	)

	return &Service{
		ctx:     ctx,
		cancel:  cancel,
		runtime: runtime,
		server:  server.New(&cfg.Server, handler, runtime.Logger),
	}, nil
}

// Start begins all subsystems and returns when they are ready.
func (s *Service) Start() error {
	s.runtime.Logger.Info("starting service")

	if err := s.server.Start(s.ctx, &s.shutdownWg); err != nil {
		return fmt.Errorf("server start failed: %w", err)
	}

	s.runtime.Logger.Info("service started")
	return nil
}

// Shutdown gracefully stops all subsystems within the provided context deadline.
func (s *Service) Shutdown(ctx context.Context) error {
	s.runtime.Logger.Info("initiating shutdown")

	s.runtime.Close()
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.runtime.Logger.Info("all subsystems shut down successfully")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout: %w", ctx.Err())
	}
}
