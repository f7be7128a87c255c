// Package ports defines the core interfaces for the application.
package ports

import (
	"context"
	"io"
)

// Command is a subprocess invocation.
type Command struct {
	Argv []string
	// Env is the complete environment in KEY=VALUE form. When empty the
	// executor falls back to an allow-listed copy of the host environment.
	Env []string
	Dir string
}

// ShellLine returns a Command running line through /bin/sh.
func ShellLine(line string) Command {
	return Command{Argv: []string{"/bin/sh", "-c", line}}
}

// Executor runs external tools.
//
//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks
type Executor interface {
	// Run starts the command and blocks until it exits.
	//
	// A non-zero exit, a terminating signal and a stop signal are all reported
	// as domain.ErrProcess with the details attached as metadata.
	Run(ctx context.Context, cmd Command, stdout, stderr io.Writer) error
}
