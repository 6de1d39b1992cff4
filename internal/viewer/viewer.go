// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package viewer launches an external document viewer on a stored file.
// The launch is fire-and-forget: the viewer process is started and left
// running, and a launch failure is reported to the caller without being
// fatal to the tool.
package viewer

import (
	"fmt"
	"os/exec"
	"runtime"
)

// Viewer opens documents with an external command.
type Viewer struct {
	command string
	exec    executor
}

// executor abstracts process launching for testing.
type executor interface {
	LookPath(file string) (string, error)
	Start(name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec. Start does not
// wait for the child; the viewer outlives the CLI invocation.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Start(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	// Let the child run detached; reap it in the background so a
	// short-lived viewer does not linger as a zombie while the CLI exits.
	go cmd.Wait()
	return nil
}

// New creates a Viewer using command, falling back to the platform default
// (open on darwin, xdg-open elsewhere) when command is empty.
func New(command string) *Viewer {
	if command == "" {
		command = DefaultCommand()
	}
	return &Viewer{command: command, exec: &osExecutor{}}
}

// DefaultCommand returns the platform's default opener.
func DefaultCommand() string {
	if runtime.GOOS == "darwin" {
		return "open"
	}
	return "xdg-open"
}

// Command returns the configured viewer command.
func (v *Viewer) Command() string {
	return v.command
}

// Open launches the viewer on path and returns without waiting for it.
func (v *Viewer) Open(path string) error {
	if _, err := v.exec.LookPath(v.command); err != nil {
		return fmt.Errorf("viewer %q not found: %w", v.command, err)
	}
	if err := v.exec.Start(v.command, path); err != nil {
		return fmt.Errorf("launching %s %s: %w", v.command, path, err)
	}
	return nil
}
