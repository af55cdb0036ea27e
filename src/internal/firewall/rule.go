package firewall

import (
	"fmt"
	"strings"
)

// DropTarget is the jump target of every block rule.
const DropTarget = "DROP"

// BlockRule drops all traffic whose source is Address.
type BlockRule struct {
	Table   string
	Chain   string
	Address string
}

// Spec returns the rule specification passed to iptables after the chain name.
// The address is a single, uninterpreted argument.
func (r BlockRule) Spec() []string {
	return []string{"-s", r.Address, "-j", DropTarget}
}

// String renders the rule the way iptables-save prints it.
func (r BlockRule) String() string {
	return fmt.Sprintf("-A %s %s", r.Chain, strings.Join(r.Spec(), " "))
}
