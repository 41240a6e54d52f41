// Command rpcbridge serves an HTTP endpoint that forwards each JSON-RPC
// request to a freshly started stdio server process.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	rpcbridge "github.com/wagiedev/rpc-stdio-bridge"
	"github.com/wagiedev/rpc-stdio-bridge/httpbridge"
	"github.com/wagiedev/rpc-stdio-bridge/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "1.0.0"

const shutdownGrace = 5 * time.Second

func main() {
	envFile := flag.String("env-file", ".env", "dotenv file loaded before reading the environment, if present")
	configPath := flag.String("config", "", "TOML config file (overrides RPCBRIDGE_CONFIG)")
	flag.Parse()

	if err := loadDotenv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "rpcbridge: %v\n", err)
		os.Exit(1)
	}

	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "rpcbridge: %v\n", err)
		os.Exit(1)
	}

	if *configPath != "" {
		env.ConfigFile = *configPath
	}

	logger, err := newLogger(os.Stderr, env.LogLevel, env.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "rpcbridge: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, env, logger); err != nil {
		logger.Error("Fatal error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, env *config.Env, logger *slog.Logger) error {
	opts, err := buildOptions(env, logger)
	if err != nil {
		return err
	}

	tokenEnv := opts.ResolvedTokenEnv()

	handler := httpbridge.New(rpcbridge.New(rpcbridge.WithConfig(opts)),
		httpbridge.WithLogger(logger),
		httpbridge.WithVersion(version),
		httpbridge.WithTokenSource(func() string { return os.Getenv(tokenEnv) }),
	)

	srv := &http.Server{
		Addr:              env.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Info("Listening",
			"addr", env.Addr,
			"timeout", opts.ResolvedTimeout(),
			"token_configured", os.Getenv(tokenEnv) != "",
			"version", version)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")

	// In-flight calls may run for the full timeout.
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), opts.ResolvedTimeout()+shutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

// buildOptions combines the environment with the optional config file.
func buildOptions(env *config.Env, logger *slog.Logger) (*config.Options, error) {
	opts := &config.Options{
		Logger:   logger,
		Timeout:  env.Timeout,
		TokenEnv: env.TokenEnv,
	}

	if env.ConfigFile == "" {
		return opts, nil
	}

	file, err := config.LoadFile(env.ConfigFile)
	if err != nil {
		return nil, err
	}

	file.Apply(opts)

	logger.Info("Loaded config file", "path", env.ConfigFile, "strategies", len(opts.ResolvedStrategies()))

	return opts, nil
}

// loadDotenv loads path into the environment. A missing file is not an
// error; variables already set are kept.
func loadDotenv(path string) error {
	if path == "" {
		return nil
	}

	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}

		return fmt.Errorf("load %s: %w", path, err)
	}

	return nil
}

func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	handlerOpts := &slog.HandlerOptions{Level: lvl}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, handlerOpts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, handlerOpts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", format)
	}
}
