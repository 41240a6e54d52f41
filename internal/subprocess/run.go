package subprocess

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wagiedev/rpc-stdio-bridge/internal/config"
	bridgeerrors "github.com/wagiedev/rpc-stdio-bridge/internal/errors"
	"github.com/wagiedev/rpc-stdio-bridge/internal/launcher"
)

// StderrTailSize is the number of trailing stderr bytes attached to
// process and timeout errors.
const StderrTailSize = 500

// Config controls a single Run.
type Config struct {
	// Timeout is the budget the caller placed on ctx. It is only used to
	// describe a TimeoutError; the deadline itself comes from ctx.
	Timeout time.Duration

	// MaxOutputSize caps retained stdout bytes.
	MaxOutputSize int

	// MaxStderrSize caps retained stderr bytes.
	MaxStderrSize int

	// WaitDelay is how long to wait for the pipes to close after a kill
	// before closing them from this side.
	WaitDelay time.Duration

	// Stderr receives each stderr line as it arrives.
	Stderr func(string)

	// Logger receives lifecycle events and stderr lines.
	Logger *slog.Logger
}

// Output is what a process produced on a successful exit.
type Output struct {
	Stdout          []byte
	Stderr          []byte
	StdoutTruncated bool
	ExitCode        int
	Duration        time.Duration
}

type result struct {
	drainErr error
	waitErr  error
}

// Run sends request to proc, collects its output and reaps it.
//
// ctx carries the call deadline and must be the context proc was launched
// with. Run always leaves proc reaped with all pipes closed. It returns
// TimeoutError when the deadline expired first, ProcessError for a non-zero
// exit and Output otherwise.
func Run(ctx context.Context, proc *launcher.Process, request []byte, cfg *Config) (*Output, error) {
	if cfg == nil {
		cfg = &Config{}
	}

	log := cfg.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	log = log.With("component", "subprocess", "pid", proc.Pid(), "strategy", proc.Strategy())

	stdout := newTailBuffer(positiveOr(cfg.MaxOutputSize, config.DefaultMaxOutputSize))
	stderr := newTailBuffer(positiveOr(cfg.MaxStderrSize, config.DefaultMaxStderrSize))
	stderrLines := newLineWriter(func(line string) {
		log.Warn("Server stderr", "line", line)

		if cfg.Stderr != nil {
			cfg.Stderr(line)
		}
	})

	var g errgroup.Group

	g.Go(func() error {
		writeRequest(proc.Stdin(), request, log)

		return nil
	})

	g.Go(func() error {
		return drain(proc.Stdout(), stdout)
	})

	g.Go(func() error {
		defer stderrLines.Flush()

		return drain(proc.Stderr(), io.MultiWriter(stderr, stderrLines))
	})

	done := make(chan result, 1)

	go func() {
		// Wait closes the pipes, so it must follow the drains.
		drainErr := g.Wait()
		done <- result{drainErr: drainErr, waitErr: proc.Wait()}
	}()

	var (
		res      result
		timedOut bool
	)

	select {
	case res = <-done:
	case <-ctx.Done():
		timedOut = true

		log.Warn("Server process deadline exceeded, killing", "timeout", cfg.Timeout)

		if err := proc.Kill(); err != nil {
			log.Error("Failed to kill server process", "error", err)
		}

		select {
		case res = <-done:
		case <-time.After(positiveOr(cfg.WaitDelay, config.DefaultWaitDelay)):
			log.Warn("Server pipes still open after kill, closing them")
			proc.ClosePipes()

			res = <-done
		}
	}

	duration := time.Since(proc.StartedAt())
	stderrTail := Tail(stderr.Bytes(), StderrTailSize)

	// A process that exited cleanly just as the deadline fired still counts.
	if res.waitErr != nil && (timedOut || ctx.Err() != nil) {
		return nil, &bridgeerrors.TimeoutError{Timeout: cfg.Timeout, Stderr: stderrTail}
	}

	if res.waitErr != nil {
		if exitErr, ok := errors.AsType[*exec.ExitError](res.waitErr); ok {
			log.Error("Server process exited with error",
				"exit_code", exitErr.ExitCode(),
				"duration", duration,
			)

			return nil, &bridgeerrors.ProcessError{
				ExitCode: exitErr.ExitCode(),
				Stderr:   stderrTail,
				Err:      res.waitErr,
			}
		}

		return nil, fmt.Errorf("wait for server process: %w", res.waitErr)
	}

	if res.drainErr != nil {
		log.Error("Failed to read server output", "error", res.drainErr)

		return nil, fmt.Errorf("read server output: %w", res.drainErr)
	}

	out := &Output{
		Stdout:          stdout.Bytes(),
		Stderr:          stderr.Bytes(),
		StdoutTruncated: stdout.Truncated(),
		ExitCode:        proc.ExitCode(),
		Duration:        duration,
	}

	log.Info("Server process exited",
		"exit_code", out.ExitCode,
		"duration", duration,
		"stdout_bytes", len(out.Stdout),
		"stdout_truncated", out.StdoutTruncated,
	)

	return out, nil
}

// writeRequest writes one newline-terminated request and closes stdin.
// A child that exits without reading its input is not an error here; its
// exit status tells the real story.
func writeRequest(stdin io.WriteCloser, request []byte, log *slog.Logger) {
	defer func() {
		if err := stdin.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			log.Debug("Failed to close stdin", "error", err)
		}
	}()

	line := make([]byte, len(request)+1)
	copy(line, request)
	line[len(request)] = '\n'

	if _, err := stdin.Write(line); err != nil {
		log.Debug("Failed to write request to stdin", "error", err)

		return
	}

	log.Debug("Request written to stdin", "bytes", len(line))
}

// drain copies r into w until EOF. A pipe closed from this side during a
// forced shutdown ends the copy without error.
func drain(r io.Reader, w io.Writer) error {
	if _, err := io.Copy(w, r); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}

	return nil
}

func positiveOr[T int | time.Duration](v, def T) T {
	if v > 0 {
		return v
	}

	return def
}
