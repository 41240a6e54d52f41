package launcher

import (
	"errors"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"
)

// Process is a single spawned server process with its three pipes.
// It belongs to exactly one call and is never reused.
type Process struct {
	cmd       *exec.Cmd
	strategy  string
	stdin     io.WriteCloser
	stdout    io.ReadCloser
	stderr    io.ReadCloser
	startedAt time.Time

	mu       sync.Mutex
	waited   bool
	waitErr  error
	released bool
}

// Pid returns the process id.
func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Strategy returns the label of the strategy that started the process.
func (p *Process) Strategy() string {
	return p.strategy
}

// StartedAt returns when the process was started.
func (p *Process) StartedAt() time.Time {
	return p.startedAt
}

// Stdin returns the write end of the process stdin.
func (p *Process) Stdin() io.WriteCloser {
	return p.stdin
}

// Stdout returns the read end of the process stdout.
func (p *Process) Stdout() io.Reader {
	return p.stdout
}

// Stderr returns the read end of the process stderr.
func (p *Process) Stderr() io.Reader {
	return p.stderr
}

// Kill forcibly terminates the process and, where supported, every process
// in its group. Killing an exited process is not an error.
func (p *Process) Kill() error {
	if err := killProcess(p.cmd); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}

	return nil
}

// ClosePipes closes the parent ends of all pipes. Blocked reads return
// immediately afterwards.
func (p *Process) ClosePipes() {
	_ = p.stdin.Close()
	_ = p.stdout.Close()
	_ = p.stderr.Close()
}

// Wait reaps the process. It must only be called once both output pipes
// have been drained or closed. Subsequent calls return the first result.
func (p *Process) Wait() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.waited {
		p.waitErr = p.cmd.Wait()
		p.waited = true
	}

	return p.waitErr
}

// Release kills the process if it is still running, closes its pipes and
// reaps it. It is safe to call multiple times.
func (p *Process) Release() error {
	p.mu.Lock()
	if p.released {
		p.mu.Unlock()

		return nil
	}

	p.released = true
	waited := p.waited
	p.mu.Unlock()

	if waited {
		return nil
	}

	err := p.Kill()
	p.ClosePipes()
	_ = p.Wait()

	return err
}

// ExitCode returns the exit code once the process has been waited for,
// or -1 if it has not exited or was terminated by a signal.
func (p *Process) ExitCode() int {
	if p.cmd.ProcessState == nil {
		return -1
	}

	return p.cmd.ProcessState.ExitCode()
}
