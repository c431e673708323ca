package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adapterwebsocket "bomberbot/agent/adapter/websocket"
	"bomberbot/agent/application"
	"bomberbot/agent/config"
	"bomberbot/agent/handler"
	"bomberbot/agent/runner"
	"bomberbot/agent/telemetry"
	"bomberbot/utils"
)

const serviceName = "bomberbot"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdown, err := telemetry.Setup(ctx, serviceName, telemetry.ParseLevel(utils.GetEnvDefault("LOG_LEVEL", "info")))
	if err != nil {
		slog.Error("failed to set up telemetry", "err", err)
		os.Exit(1)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(sctx); err != nil {
			slog.Warn("telemetry shutdown", "err", err)
		}
	}()

	if err := run(ctx); err != nil {
		slog.Error("bot stopped", "err", err)
		os.Exit(1)
	}
	slog.Info("bot stopped")
}

func run(ctx context.Context) error {
	addr := utils.GetEnvDefault("ADDR", "localhost")
	port := utils.GetEnvDefault("PORT", "9090")
	botName := utils.GetEnvDefault("BOT_NAME", "bomberbot")
	configPath := utils.GetEnvDefault("CONFIG_PATH", "")
	statusAddr := utils.GetEnvDefault("STATUS_ADDR", ":8081")
	reconnect := utils.GetEnvDuration("RECONNECT_DELAY", 2*time.Second)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	engine, err := application.NewEngine(cfg.DomainRules(), cfg.EngineTuning(), cfg.Registrations()...)
	if err != nil {
		return err
	}

	logger := slog.With("bot", botName)
	r := runner.New(engine, cfg.DomainRules(), cfg.Cadence, logger)

	status := handler.NewServer(statusAddr, handler.Route(r, engine))
	go func() {
		if err := status.Serve(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("status server failed", "err", err)
		}
	}()
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = status.Shutdown(sctx)
	}()

	serverURL := fmt.Sprintf("ws://%s:%s/ws", addr, port)
	logger.Info("starting bot", "server", serverURL, "status", status.Addr())

	opts := adapterwebsocket.DialOptions{
		BotName: botName,
		Secret:  utils.GetEnvDefault("TOKEN_SECRET", ""),
	}
	for {
		if ctx.Err() != nil {
			return nil
		}
		err := session(ctx, r, serverURL, opts, logger)
		if err != nil && ctx.Err() == nil {
			logger.Warn("bot session ended, reconnecting", "err", err, "delay", reconnect)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(reconnect):
			}
		}
	}
}

func session(ctx context.Context, r *runner.Runner, serverURL string, opts adapterwebsocket.DialOptions, logger *slog.Logger) error {
	t, err := adapterwebsocket.Dial(ctx, serverURL, opts)
	if err != nil {
		return err
	}
	logger.InfoContext(ctx, "connected")
	return r.Run(ctx, t)
}
