package mocks

import (
	"strings"

	"github.com/gnoppix/block-ip/src/internal/shell"
)

var _ shell.Executor = (*MockExecutor)(nil)

// Response is a canned result for one command line.
type Response struct {
	Output   string
	ExitCode int
	Err      error
}

// MockExecutor is a mock implementation of shell.Executor.
//
// Commands are matched by their rendered command line (shell.CommandLine).
// Unmatched commands succeed with empty output unless a Func override is set.
type MockExecutor struct {
	// Responses maps a command line like "dpkg -s iptables-persistent" to its result
	Responses map[string]Response

	// RunFunc is called by Run if not nil
	RunFunc func(name string, args ...string) error

	// OutputFunc is called by Output if not nil
	OutputFunc func(name string, args ...string) (string, error)

	// Journal, if set, receives every command line
	Journal *Journal

	// Track calls for verification in tests
	Commands []string
}

// NewMockExecutor creates a mock executor where every command succeeds.
func NewMockExecutor(journal *Journal) *MockExecutor {
	return &MockExecutor{
		Responses: map[string]Response{},
		Journal:   journal,
	}
}

// On registers a canned response for the command line.
func (m *MockExecutor) On(cmdline string, resp Response) *MockExecutor {
	if m.Responses == nil {
		m.Responses = map[string]Response{}
	}
	m.Responses[cmdline] = resp
	return m
}

// Fail makes cmdline exit with the given non-zero status.
func (m *MockExecutor) Fail(cmdline string, exitCode int) *MockExecutor {
	return m.On(cmdline, Response{ExitCode: exitCode})
}

func (m *MockExecutor) Run(name string, args ...string) error {
	m.record(name, args)
	if m.RunFunc != nil {
		return m.RunFunc(name, args...)
	}
	_, err := m.respond(name, args)
	return err
}

func (m *MockExecutor) Output(name string, args ...string) (string, error) {
	m.record(name, args)
	if m.OutputFunc != nil {
		return m.OutputFunc(name, args...)
	}
	return m.respond(name, args)
}

// Called reports whether cmdline was executed at least once.
func (m *MockExecutor) Called(cmdline string) bool {
	return m.CallCount(cmdline) > 0
}

// CallCount returns how many times cmdline was executed.
func (m *MockExecutor) CallCount(cmdline string) int {
	count := 0
	for _, c := range m.Commands {
		if c == cmdline {
			count++
		}
	}
	return count
}

// CalledWithPrefix reports whether any executed command line starts with prefix.
func (m *MockExecutor) CalledWithPrefix(prefix string) bool {
	for _, c := range m.Commands {
		if strings.HasPrefix(c, prefix) {
			return true
		}
	}
	return false
}

func (m *MockExecutor) record(name string, args []string) {
	cmdline := shell.CommandLine(name, args...)
	m.Commands = append(m.Commands, cmdline)
	m.Journal.Record(cmdline)
}

func (m *MockExecutor) respond(name string, args []string) (string, error) {
	cmdline := shell.CommandLine(name, args...)
	resp, ok := m.Responses[cmdline]
	if !ok {
		return "", nil
	}
	if resp.Err != nil {
		return resp.Output, resp.Err
	}
	if resp.ExitCode != 0 {
		return resp.Output, &shell.ExitError{Command: cmdline, ExitCode: resp.ExitCode}
	}
	return resp.Output, nil
}
