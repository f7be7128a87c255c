// Package shell runs external tools inside a pseudo terminal.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/creack/pty"
	"go.trai.ch/xcpkg/internal/core/domain"
	"go.trai.ch/xcpkg/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Executor = (*Executor)(nil)

// Executor implements ports.Executor using os/exec and pty.
type Executor struct {
	logger ports.Logger
}

// NewExecutor creates a new Executor that forwards output lines to logger.
func NewExecutor(logger ports.Logger) *Executor {
	return &Executor{logger: logger}
}

// Run starts the command in a PTY and waits for it to exit.
func (e *Executor) Run(ctx context.Context, command ports.Command, stdout, _ io.Writer) error {
	if len(command.Argv) == 0 {
		return zerr.Wrap(domain.ErrArgument, "empty command")
	}
	if stdout == nil {
		stdout = io.Discard
	}

	env := resolveEnvironment(os.Environ(), command.Env)

	name := command.Argv[0]
	executable := name
	if !filepath.IsAbs(name) && !strings.Contains(name, "/") {
		if lp, err := lookPath(name, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, command.Argv[1:]...) //nolint:gosec // formula provided command
	cmd.Args[0] = name
	cmd.Dir = command.Dir
	cmd.Env = env

	ptmx, err := pty.Start(cmd)
	if err != nil {
		return zerr.With(zerr.Wrap(errors.Join(domain.ErrProcess, err), "failed to start process"), "command", name)
	}

	outLog := &logWriter{logger: e.logger}
	ioDone := make(chan struct{})
	go func() {
		defer close(ioDone)
		defer func() { _ = ptmx.Close() }()
		defer func() { _ = outLog.Close() }()

		// A PTY merges stdout and stderr.
		_, _ = io.Copy(io.MultiWriter(outLog, stdout), ptmx)
	}()

	waitErr := cmd.Wait()
	<-ioDone

	if waitErr != nil {
		return classify(name, waitErr)
	}
	return nil
}

// classify maps a Wait error to a domain.ErrProcess error carrying how the process ended.
func classify(name string, err error) error {
	base := errors.Join(domain.ErrProcess, err)

	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return zerr.With(zerr.Wrap(base, "command failed"), "command", name)
	}

	status, ok := exitErr.Sys().(syscall.WaitStatus)
	switch {
	case ok && status.Signaled():
		return zerr.With(zerr.With(zerr.Wrap(base, "command terminated by signal"), "command", name), "signal", status.Signal().String())
	case ok && status.Stopped():
		return zerr.With(zerr.With(zerr.Wrap(base, "command stopped by signal"), "command", name), "signal", status.StopSignal().String())
	default:
		return zerr.With(zerr.With(zerr.Wrap(base, "command failed"), "command", name), "exit_code", exitErr.ExitCode())
	}
}

// ExitCode returns the exit code recorded on a process error, or -1.
func ExitCode(err error) int {
	for current := err; current != nil; current = errors.Unwrap(current) {
		if m, ok := current.(interface{ Metadata() map[string]any }); ok {
			if code, ok := m.Metadata()["exit_code"].(int); ok {
				return code
			}
		}
	}
	return -1
}

type logWriter struct {
	logger ports.Logger
	buf    []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)

	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}

	return len(p), nil
}

func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	// PTYs may introduce \r.
	w.logger.Info(strings.TrimSuffix(string(line), "\r"))
}

// allowListedEnvVars are inherited from the host when a command does not carry
// a complete environment of its own.
var allowListedEnvVars = map[string]struct{}{
	"HOME":    {},
	"TERM":    {},
	"USER":    {},
	"LOGNAME": {},
	"PATH":    {},
	"TMPDIR":  {},
	"LANG":    {},
}

// resolveEnvironment overlays the command environment on the allow-listed host variables.
func resolveEnvironment(sysEnv, cmdEnv []string) []string {
	envMap := make(map[string]string)
	for _, entry := range sysEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			if _, allowed := allowListedEnvVars[k]; allowed {
				envMap[k] = v
			}
		}
	}
	for _, entry := range cmdEnv {
		if k, v, ok := strings.Cut(entry, "="); ok {
			envMap[k] = v
		}
	}

	result := make([]string, 0, len(envMap))
	for k, v := range envMap {
		result = append(result, k+"="+v)
	}
	return result
}

// lookPath searches PATH from env rather than from the current process.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
			break
		}
	}
	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, file)
		if d, err := os.Stat(candidate); err == nil && !d.IsDir() && d.Mode()&0o111 != 0 {
			return candidate, nil
		}
	}
	return "", exec.ErrNotFound
}
