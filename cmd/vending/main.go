package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Proton-105/vending-machine/internal/display"
	apperrors "github.com/Proton-105/vending-machine/internal/errors"
	"github.com/Proton-105/vending-machine/internal/health"
	"github.com/Proton-105/vending-machine/internal/i18n"
	"github.com/Proton-105/vending-machine/internal/lifecycle"
	"github.com/Proton-105/vending-machine/internal/machine"
	"github.com/Proton-105/vending-machine/internal/middleware"
	"github.com/Proton-105/vending-machine/internal/panel"
	"github.com/Proton-105/vending-machine/internal/status"
	"github.com/Proton-105/vending-machine/internal/terminal"
	"github.com/Proton-105/vending-machine/pkg/config"
	"github.com/Proton-105/vending-machine/pkg/graceful"
	"github.com/Proton-105/vending-machine/pkg/logger"
	"github.com/Proton-105/vending-machine/pkg/metrics"
)

const sentryFlushTimeout = 2 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "vending: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, v, err := config.Load()
	if err != nil {
		return err
	}

	if cfg.Sentry.Enabled {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Sentry.Environment,
		}); err != nil {
			return fmt.Errorf("init sentry: %w", err)
		}
	}

	log, logCloser, err := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Sentry:     cfg.Sentry.Enabled,
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(log)

	shutdown := lifecycle.NewShutdown(log)
	shutdown.Register("log file", func(context.Context) error { return logCloser.Close() })
	if cfg.Sentry.Enabled {
		shutdown.Register("sentry", func(context.Context) error {
			if !sentry.Flush(sentryFlushTimeout) {
				return fmt.Errorf("sentry flush timed out after %s", sentryFlushTimeout)
			}
			return nil
		})
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
		defer cancel()
		_ = shutdown.Execute(shutdownCtx)
	}()

	errHandler := apperrors.NewHandler(log, cfg.Sentry.Enabled)

	log.Info("starting vending machine",
		slog.String("env", cfg.AppEnv),
		slog.String("config_file", v.ConfigFileUsed()),
		slog.String("language", cfg.Display.Language),
	)

	machineCfg, err := machineConfig(cfg.Machine)
	if err != nil {
		errHandler.Handle(ctx, err)
		return err
	}

	vm := machine.New(machineCfg, log)
	metrics.SetState(vm.Snapshot())

	translations, err := i18n.Load("en")
	if err == nil {
		err = translations.Require(append(display.RequiredKeys(), apperrors.NoticeKeys()...)...)
	}
	if err != nil {
		appErr := apperrors.NewValidationError("display translations incomplete", err)
		errHandler.Handle(ctx, appErr)
		return appErr
	}

	clearer := display.NewClearer(cfg.Display.ClearAfter)
	shutdown.Register("display clearer", clearer.Stop)
	renderer := display.NewRenderer(os.Stdout, translations.Translator(cfg.Display.Language), clearer, log)

	config.Watch(v, log, reloadDisplay(log, translations, clearer, renderer))

	checker := health.NewChecker(log)
	checker.AddCheck("machine", vm)

	serverCtx, cancelServer := context.WithCancel(ctx)
	defer cancelServer()

	if cfg.HTTP.Addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		mux.Handle("/healthz", checker.Handler())
		mux.Handle("/status", status.Handler(vm, renderer))

		srv := graceful.NewServer(log, cfg.HTTP.Addr, logger.Middleware(middleware.Logging(log)(mux)), cfg.HTTP.ShutdownTimeout)
		serverDone := make(chan struct{})
		go func() {
			defer close(serverDone)
			if err := srv.ListenAndServe(serverCtx); err != nil {
				log.Error("status server stopped", slog.Any("error", err))
			}
		}()
		shutdown.Register("status server", func(ctx context.Context) error {
			cancelServer()
			select {
			case <-serverDone:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	p := panel.New(machineCfg.Denominations)
	printHelp(os.Stdout, p)

	session := terminal.NewSession(vm, p, renderer, errHandler, log)
	return session.Run(ctx, os.Stdin)
}

func machineConfig(cfg config.MachineConfig) (machine.Config, error) {
	policy, err := machine.ParseStockPolicy(cfg.InitialStock)
	if err != nil {
		return machine.Config{}, apperrors.NewValidationError("invalid initial stock policy", err)
	}

	return machine.Config{
		InitialStock:  policy,
		FullLevel:     cfg.FullLevel,
		Denominations: cfg.Denominations,
		TrackRestock:  cfg.TrackRestock,
	}, nil
}

// reloadDisplay applies a reloaded display section. A language without loaded
// translations keeps the current one.
func reloadDisplay(log *slog.Logger, translations *i18n.Manager, clearer *display.Clearer, renderer *display.Renderer) func(*config.Config) {
	return func(next *config.Config) {
		clearer.SetDelay(next.Display.ClearAfter)

		lang := next.Display.Language
		if !slices.Contains(translations.Languages(), lang) {
			log.Warn("display language not loaded, keeping current",
				slog.String("language", lang),
				slog.Any("loaded", translations.Languages()),
			)
			return
		}
		renderer.SetTranslator(translations.Translator(lang))
	}
}

func printHelp(w io.Writer, p *panel.Panel) {
	fmt.Fprintf(w, "buttons: %s\n", strings.Join(p.Buttons(), " "))
	fmt.Fprintln(w, "operator: restock:<product> refill | quit to leave")
}
