package launcher

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"os"
	"os/exec"
	"slices"
	"time"

	"github.com/wagiedev/rpc-stdio-bridge/internal/config"
	"github.com/wagiedev/rpc-stdio-bridge/internal/errors"
)

// Config holds configuration for launching the server process.
type Config struct {
	// Strategies are tried in order. If empty, Launch fails with
	// errors.ErrNoStrategies.
	Strategies []config.LaunchStrategy

	// TokenEnv is the environment variable the token is exported as.
	// If empty, the token is not exported.
	TokenEnv string

	// TokenFlag precedes the token on the command line.
	// If empty, the token is not passed as an argument.
	TokenFlag string

	// Env provides additional environment variables for the process.
	Env map[string]string

	// Cwd is the working directory. If empty, the current one is inherited.
	Cwd string

	// WaitDelay bounds how long Wait keeps pipes open after a kill.
	WaitDelay time.Duration

	// Logger is an optional logger for launch operations.
	// If nil, a default no-op logger is used.
	Logger *slog.Logger
}

// Launcher starts the server process.
type Launcher interface {
	// Launch starts the first strategy that can be started and returns its
	// process. The process is killed when ctx is done.
	Launch(ctx context.Context, token string) (*Process, error)
}

// launcher implements the Launcher interface.
type launcher struct {
	cfg *Config
	log *slog.Logger
}

// Compile-time verification that launcher implements Launcher.
var _ Launcher = (*launcher)(nil)

// New creates a new launcher with the given configuration.
func New(cfg *Config) Launcher {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &launcher{
		cfg: cfg,
		log: log.With("component", "launcher"),
	}
}

// Launch tries each strategy in order and stops at the first process that
// starts. Every failure is recorded in the returned LaunchError.
func (l *launcher) Launch(ctx context.Context, token string) (*Process, error) {
	if len(l.cfg.Strategies) == 0 {
		return nil, errors.ErrNoStrategies
	}

	env := l.environment(token)
	attempts := make([]errors.LaunchAttempt, 0, len(l.cfg.Strategies))

	for _, strategy := range l.cfg.Strategies {
		label := strategy.Label()
		l.log.Debug("Trying launch strategy", "strategy", label)

		proc, err := l.start(ctx, strategy, token, env)
		if err != nil {
			l.log.Debug("Launch strategy failed", "strategy", label, "error", err)
			attempts = append(attempts, errors.LaunchAttempt{Strategy: label, Err: err})

			continue
		}

		l.log.Info("Server process started", "strategy", label, "pid", proc.Pid())

		return proc, nil
	}

	l.log.Warn("No launch strategy succeeded", "attempts", len(attempts))

	return nil, &errors.LaunchError{Attempts: attempts}
}

// start spawns a single strategy with piped stdio.
func (l *launcher) start(
	ctx context.Context,
	strategy config.LaunchStrategy,
	token string,
	env []string,
) (*Process, error) {
	args := slices.Clone(strategy.Args)
	if l.cfg.TokenFlag != "" {
		args = append(args, l.cfg.TokenFlag, token)
	}

	//nolint:gosec // G204: the command comes from operator configuration, arguments are never shell-interpreted
	cmd := exec.CommandContext(ctx, strategy.Command, args...)
	cmd.Env = env
	cmd.Dir = l.cfg.Cwd
	cmd.WaitDelay = l.cfg.WaitDelay
	setProcessGroup(cmd)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start process: %w", err)
	}

	return &Process{
		cmd:       cmd,
		strategy:  strategy.Label(),
		stdin:     stdin,
		stdout:    stdout,
		stderr:    stderr,
		startedAt: time.Now(),
	}, nil
}

// environment builds the child environment: the parent's, then configured
// extras in key order, then the token. Later entries win.
func (l *launcher) environment(token string) []string {
	env := os.Environ()

	for _, k := range slices.Sorted(maps.Keys(l.cfg.Env)) {
		env = append(env, k+"="+l.cfg.Env[k])
	}

	if l.cfg.TokenEnv != "" {
		env = append(env, l.cfg.TokenEnv+"="+token)
	}

	return env
}
