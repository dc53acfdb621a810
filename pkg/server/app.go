package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"MarketDash/internal/handler/api"
	mid "MarketDash/internal/middleware"
	"MarketDash/internal/usecase"
	"MarketDash/pkg/config"
	xhttp "MarketDash/pkg/http"
	pkgkafka "MarketDash/pkg/kafka"
	applogger "MarketDash/pkg/logger"
)

type closer struct {
	name string
	fn   func(context.Context) error
}

// Option attaches a component to the App.
type Option func(*App)

func WithHTTPServer(s *xhttp.Server) Option {
	return func(a *App) { a.httpServer = s }
}

func WithMonitor(m *usecase.DivergenceMonitor) Option {
	return func(a *App) { a.monitor = m }
}

func WithAlertPipeline(p *mid.AlertPipeline) Option {
	return func(a *App) { a.pipeline = p }
}

// WithConsumer registers h on c; both are started together.
func WithConsumer(c *pkgkafka.Consumer, h pkgkafka.MessageHandler) Option {
	return func(a *App) {
		a.consumer = c
		a.events = h
	}
}

func WithHub(h *api.Hub) Option {
	return func(a *App) { a.hub = h }
}

// WithCloser adds a resource closed last, in registration order.
func WithCloser(name string, fn func(context.Context) error) Option {
	return func(a *App) { a.closers = append(a.closers, closer{name: name, fn: fn}) }
}

// App encapsulates the entire application lifecycle.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	httpServer *xhttp.Server
	monitor    *usecase.DivergenceMonitor
	pipeline   *mid.AlertPipeline
	consumer   *pkgkafka.Consumer
	events     pkgkafka.MessageHandler
	hub        *api.Hub
	closers    []closer
	cancel     context.CancelFunc
}

// New creates a new App instance with all dependencies.
func New(cfg *config.Config, log *applogger.Logger, opts ...Option) *App {
	if log == nil {
		log = applogger.Nop()
	}
	a := &App{cfg: cfg, log: log}
	a.Use(opts...)
	return a
}

// Use applies further options after construction.
func (a *App) Use(opts ...Option) {
	for _, opt := range opts {
		opt(a)
	}
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	if err := a.Start(context.Background()); err != nil {
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	a.log.Info("shutdown signal received", applogger.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout())
	defer cancel()
	return a.Shutdown(ctx)
}

// Start launches background components, then the HTTP server. Background
// components run until Shutdown.
func (a *App) Start(ctx context.Context) error {
	ctx, a.cancel = context.WithCancel(ctx)

	if a.pipeline != nil {
		a.pipeline.Start(ctx)
	}

	if a.monitor != nil && a.cfg.Monitor.Enabled {
		if err := a.monitor.Start(ctx); err != nil {
			return fmt.Errorf("start divergence monitor: %w", err)
		}
	}

	if a.consumer != nil && a.events != nil {
		a.consumer.RegisterHandler(a.events)
		if err := a.consumer.Start(ctx); err != nil {
			return fmt.Errorf("start kafka consumer: %w", err)
		}
		a.log.Info("analysis events subscribed", applogger.String("topic", a.events.Topic()))
	}

	if a.httpServer != nil {
		if err := a.httpServer.Start(); err != nil {
			a.log.Error("http server start error", applogger.Error(err))
			return err
		}
	}
	return nil
}

// Shutdown stops the HTTP server first so no request sees a half-closed
// backend, then the background components, then the clients.
func (a *App) Shutdown(ctx context.Context) error {
	a.log.Info("shutting down")

	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Error("http shutdown error", applogger.Error(err))
		}
	}

	if a.consumer != nil && a.events != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.log.Warn("kafka consumer stop error", applogger.Error(err))
		}
	}

	if a.monitor != nil && a.cfg.Monitor.Enabled {
		if err := a.monitor.Stop(ctx); err != nil {
			a.log.Warn("divergence monitor stop error", applogger.Error(err))
		}
	}

	if a.cancel != nil {
		a.cancel()
	}

	if a.pipeline != nil {
		if n := a.pipeline.Buffered(); n > 0 {
			a.log.Warn("dropping buffered alerts", applogger.Int("count", n))
		}
		if err := a.pipeline.Close(); err != nil {
			a.log.Warn("alert pipeline close error", applogger.Error(err))
		}
	}

	if a.hub != nil {
		a.hub.Close()
	}

	for _, c := range a.closers {
		if err := c.fn(ctx); err != nil {
			a.log.Warn("close error", applogger.String("resource", c.name), applogger.Error(err))
		}
	}

	a.log.Info("shutdown complete")
	return nil
}

func (a *App) shutdownTimeout() time.Duration {
	if a.cfg.Server.ShutdownTimeout > 0 {
		// leave room for the background components after the HTTP drain
		return 2 * a.cfg.Server.ShutdownTimeout
	}
	return 20 * time.Second
}
