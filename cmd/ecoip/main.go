package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ecoip/internal/app"
	"ecoip/internal/config"
	"ecoip/internal/logger"
	"ecoip/internal/server/api"
	"ecoip/internal/status"
	"ecoip/internal/version"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

const usage = `Usage: ecoip [serve|show] [flags]

Commands:
  serve   run the web server (default)
  show    resolve the public IP once and print the page as text

Flags:
`

func main() {
	flags := pflag.NewFlagSet("ecoip", pflag.ExitOnError)
	configPath := flags.StringP("config", "c", "", "Path to config file")
	debug := flags.Bool("debug", false, "Enable debug logging")
	showVersion := flags.BoolP("version", "v", false, "Show version information")
	flags.Usage = func() {
		_, _ = fmt.Fprint(os.Stderr, usage)
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	if *showVersion {
		fmt.Println(version.GetInfo().String())
		os.Exit(0)
	}

	command := "serve"
	if flags.NArg() > 0 {
		command = flags.Arg(0)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *debug {
		cfg.Log.Level = "debug"
	}

	switch command {
	case "serve":
		err = serve(cfg)
	case "show":
		err = show(cfg)
	default:
		flags.Usage()
		os.Exit(2)
	}
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s: %v\n", command, err)
		os.Exit(1)
	}
}

func serve(cfg *config.Config) error {
	log, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Error("Failed to release resources", zap.Error(err))
		}
	}()

	router, err := api.NewRouter(cfg, a.Lookup, a.Renderer, a.GeoIP, a.Metrics, log)
	if err != nil {
		return fmt.Errorf("failed to create router: %w", err)
	}

	// The initial lookup runs while the server already answers with the
	// pending section
	if err := a.Start(ctx); err != nil {
		return err
	}

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Starting server",
			zap.String("address", cfg.Server.Address),
			zap.String("version", version.Version))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info("Received signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	log.Info("Starting graceful shutdown")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown error", zap.Error(err))
	}

	log.Info("Shutdown complete")
	return nil
}

func show(cfg *config.Config) error {
	// Keep stdout for the page
	cfg.Log.File = ""
	log := zap.NewNop()
	if cfg.Log.Level == "debug" {
		l, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		log = l
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	done := make(chan struct{})
	stop := a.Lookup.Status().Subscribe(func(st status.Status) {
		if st.Terminal() {
			select {
			case <-done:
			default:
				close(done)
			}
		}
	})
	defer stop()

	if err := a.Start(ctx); err != nil {
		return err
	}

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(showTimeout(cfg)):
	}

	return a.Renderer.WriteText(os.Stdout, a.Lookup.Status().Get())
}

// showTimeout bounds how long show waits; with no lookup timeout the
// pending page is printed after a minute
func showTimeout(cfg *config.Config) time.Duration {
	if cfg.Lookup.Timeout > 0 {
		return cfg.Lookup.Timeout + time.Second
	}
	return time.Minute
}
