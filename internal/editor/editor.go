// Package editor opens files in the user's configured editor.
package editor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/google/shlex"
)

// ErrNoEditor is returned when EDITOR is not configured.
var ErrNoEditor = errors.New("please set EDITOR")

// Editor runs Command with the terminal attached.
type Editor struct {
	// Command is the EDITOR value, possibly with arguments ("vim -R").
	Command string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// New returns an Editor attached to the process's standard streams.
func New(command string) *Editor {
	return &Editor{Command: command, Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Argv returns the command line that Open would run for path.
func (e *Editor) Argv(path string) ([]string, error) {
	if e.Command == "" {
		return nil, ErrNoEditor
	}
	argv, err := shlex.Split(e.Command)
	if err != nil {
		return nil, fmt.Errorf("cannot parse EDITOR %q: %w", e.Command, err)
	}
	if len(argv) == 0 {
		return nil, ErrNoEditor
	}
	return append(argv, path), nil
}

// Open blocks until the editor exits.
func (e *Editor) Open(path string) error {
	argv, err := e.Argv(path)
	if err != nil {
		return err
	}
	c := exec.Command(argv[0], argv[1:]...)
	c.Stdin = e.Stdin
	c.Stdout = e.Stdout
	c.Stderr = e.Stderr
	if err := c.Run(); err != nil {
		return fmt.Errorf("editor %s failed: %w", argv[0], err)
	}
	return nil
}
