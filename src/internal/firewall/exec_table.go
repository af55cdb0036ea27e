package firewall

import (
	"errors"

	"github.com/gnoppix/block-ip/src/internal/shell"
)

// ExecRuleTable implements RuleTable by calling the iptables binary through
// an executor. It is used when commands must be prefixed with sudo, which
// the go-iptables handle cannot do.
type ExecRuleTable struct {
	exec shell.Executor
}

var _ RuleTable = (*ExecRuleTable)(nil)

// NewExecRuleTable creates a rule table backed by exec.
func NewExecRuleTable(exec shell.Executor) *ExecRuleTable {
	return &ExecRuleTable{exec: exec}
}

// Exists runs iptables -C. Exit status 1 means the rule is absent.
func (t *ExecRuleTable) Exists(table, chain string, rulespec ...string) (bool, error) {
	args := append([]string{"-t", table, "-C", chain}, rulespec...)
	_, err := t.exec.Output("iptables", args...)
	if err == nil {
		return true, nil
	}

	var exitErr *shell.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode == 1 {
		return false, nil
	}
	return false, err
}

// Append runs iptables -A.
func (t *ExecRuleTable) Append(table, chain string, rulespec ...string) error {
	args := append([]string{"-t", table, "-A", chain}, rulespec...)
	_, err := t.exec.Output("iptables", args...)
	return err
}
