package shell

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gnoppix/block-ip/src/internal/log"
)

const sudoCommand = "sudo"

// sudoSearchPath holds the directories sudo's secure_path usually adds for
// binaries that are not on an unprivileged user's PATH.
var sudoSearchPath = []string{"/usr/local/sbin", "/usr/sbin", "/sbin"}

// ErrNotFound is returned (wrapped) when the command binary is not on PATH.
var ErrNotFound = errors.New("command not found")

// Executor runs a subordinate process synchronously.
type Executor interface {
	// Run executes the command and returns nil if it exited with status zero.
	// The process inherits the executor's output streams.
	Run(name string, args ...string) error

	// Output executes the command and returns its standard output.
	Output(name string, args ...string) (string, error)
}

// ExitError reports a command that ran but exited with a non-zero status.
type ExitError struct {
	Command  string
	ExitCode int
	Stderr   string
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("command [%s] exited with status %d", e.Command, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// CommandLine renders an argument vector the way it would be typed in a terminal.
// Arguments containing whitespace or quotes are single-quoted.
func CommandLine(name string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	for _, part := range append([]string{name}, args...) {
		if part == "" || strings.ContainsAny(part, " \t\n'\"$`\\|&;<>()*?") {
			part = "'" + strings.ReplaceAll(part, "'", `'\''`) + "'"
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, " ")
}

// OSExecutor is the Executor backed by os/exec.
type OSExecutor struct {
	UseSudo bool
	Stdout  io.Writer
	Stderr  io.Writer

	lookPath func(file string) (string, error)
}

// NewExecutor creates an executor writing to the process' own output streams.
// When useSudo is true every command is prefixed with sudo.
func NewExecutor(useSudo bool) *OSExecutor {
	return &OSExecutor{
		UseSudo:  useSudo,
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		lookPath: exec.LookPath,
	}
}

func (e *OSExecutor) Run(name string, args ...string) error {
	cmd, cmdline, err := e.command(name, args)
	if err != nil {
		return err
	}

	var stderr bytes.Buffer
	cmd.Stdout = e.Stdout
	cmd.Stderr = io.MultiWriter(e.Stderr, &stderr)

	return wrapRunError(cmdline, cmd.Run(), stderr.String())
}

func (e *OSExecutor) Output(name string, args ...string) (string, error) {
	cmd, cmdline, err := e.command(name, args)
	if err != nil {
		return "", err
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := wrapRunError(cmdline, cmd.Run(), stderr.String()); err != nil {
		return stdout.String(), err
	}
	return stdout.String(), nil
}

// command resolves the binary and builds the exec.Cmd, prefixing sudo if configured.
// Under sudo the wrapped binary is resolved too and passed as an absolute path,
// so a missing tool is ErrNotFound instead of a failing sudo.
func (e *OSExecutor) command(name string, args []string) (*exec.Cmd, string, error) {
	lookPath := e.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	if !e.UseSudo {
		cmdline := CommandLine(name, args...)
		path, err := lookPath(name)
		if err != nil {
			return nil, cmdline, fmt.Errorf("%w: %s: %v", ErrNotFound, name, err)
		}
		log.Debugf("Executing [%s]", cmdline)
		return exec.Command(path, args...), cmdline, nil
	}

	cmdline := CommandLine(sudoCommand, append([]string{name}, args...)...)
	sudoPath, err := lookPath(sudoCommand)
	if err != nil {
		return nil, cmdline, fmt.Errorf("%w: %s: %v", ErrNotFound, sudoCommand, err)
	}
	target, err := resolveForSudo(lookPath, name)
	if err != nil {
		return nil, cmdline, fmt.Errorf("%w: %s: %v", ErrNotFound, name, err)
	}

	log.Debugf("Executing [%s]", cmdline)
	return exec.Command(sudoPath, append([]string{target}, args...)...), cmdline, nil
}

func resolveForSudo(lookPath func(string) (string, error), name string) (string, error) {
	path, err := lookPath(name)
	if err == nil || strings.Contains(name, "/") {
		return path, err
	}
	for _, dir := range sudoSearchPath {
		if path, serr := lookPath(filepath.Join(dir, name)); serr == nil {
			return path, nil
		}
	}
	return "", err
}

func wrapRunError(cmdline string, err error, stderr string) error {
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{
			Command:  cmdline,
			ExitCode: exitErr.ExitCode(),
			Stderr:   stderr,
		}
	}
	return fmt.Errorf("failed to run [%s]: %w", cmdline, err)
}
