package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/genricoloni/ampresence/internal/config"
	"github.com/genricoloni/ampresence/internal/domain"
	"github.com/genricoloni/ampresence/internal/engine"
	"github.com/genricoloni/ampresence/internal/player"
	"github.com/genricoloni/ampresence/internal/presence"
	"github.com/genricoloni/ampresence/internal/resolver"
	"github.com/genricoloni/ampresence/internal/tags"
	"github.com/genricoloni/ampresence/internal/tracker"
	"github.com/jonboulle/clockwork"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

// AppOptions is the dependency graph of the daemon
var AppOptions = fx.Options(
	// Logger configuration
	fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: log}
	}),

	// Provide dependencies
	fx.Provide(
		newLogger,
		fx.Annotate(config.NewAppConfig, fx.As(new(domain.Config))),
		clockwork.NewRealClock,
		player.New,
		fx.Annotate(tags.NewReader, fx.As(new(domain.TagReader))),
		newPresence,
		tracker.NewTracker,
		resolver.NewResolver,
		engine.NewEngine,
	),

	// Lifecycle hooks
	fx.Invoke(registerHooks),
)

func main() {
	app := fx.New(AppOptions)

	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Start the application
	if err := app.Start(ctx); err != nil {
		panic(err)
	}

	// Wait for interrupt signal
	<-ctx.Done()

	// Stop the application gracefully
	if err := app.Stop(context.Background()); err != nil {
		panic(err)
	}
}

// newLogger creates a new zap logger instance
func newLogger() (*zap.Logger, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, err
	}
	return logger, nil
}

// newPresence creates the Discord IPC client on the platform socket
func newPresence(logger *zap.Logger, cfg domain.Config) domain.Presence {
	return presence.NewClient(logger, cfg, nil)
}

// registerHooks sets up application lifecycle hooks
func registerHooks(lc fx.Lifecycle, logger *zap.Logger, p domain.Player, pr domain.Presence, eng *engine.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// Discord may start after us, updates reconnect on their own
			if err := pr.Connect(ctx); err != nil {
				logger.Warn("Discord not reachable yet", zap.Error(err))
			}
			if err := eng.Start(ctx); err != nil {
				return err
			}
			logger.Info("AMPresence Daemon Started")
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Shutting down")
			if err := eng.Stop(ctx); err != nil {
				logger.Warn("Engine did not stop cleanly", zap.Error(err))
			}
			// Clear explicitly rather than leaving the activity for Discord to time out
			if err := pr.Clear(ctx); err != nil {
				logger.Debug("Failed to clear presence on shutdown", zap.Error(err))
			}
			if closer, ok := p.(io.Closer); ok {
				if err := closer.Close(); err != nil {
					logger.Warn("Failed to close player", zap.Error(err))
				}
			}
			return pr.Close()
		},
	})
}
