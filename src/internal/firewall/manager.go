package firewall

import (
	"fmt"

	"github.com/coreos/go-iptables/iptables"

	apperrors "github.com/gnoppix/block-ip/src/internal/errors"
	"github.com/gnoppix/block-ip/src/internal/log"
)

// RuleTable is the subset of *iptables.IPTables used by Manager.
type RuleTable interface {
	Exists(table, chain string, rulespec ...string) (bool, error)
	Append(table, chain string, rulespec ...string) error
}

var _ RuleTable = (*iptables.IPTables)(nil)

// NewRuleTable returns an IPv4 iptables handle. It fails if iptables is not installed.
func NewRuleTable() (RuleTable, error) {
	ipt, err := iptables.NewWithProtocol(iptables.ProtocolIPv4)
	if err != nil {
		return nil, apperrors.NewMutationError("failed to initialize iptables", err)
	}
	return ipt, nil
}

// Manager adds block rules to one table and chain.
type Manager struct {
	ipt   RuleTable
	table string
	chain string
}

// NewManager creates a rule manager for table/chain.
func NewManager(ipt RuleTable, table, chain string) *Manager {
	return &Manager{
		ipt:   ipt,
		table: table,
		chain: chain,
	}
}

// Rule returns the block rule for address.
func (m *Manager) Rule(address string) BlockRule {
	return BlockRule{
		Table:   m.table,
		Chain:   m.chain,
		Address: address,
	}
}

// IsBlocked reports whether the block rule for address is already present.
func (m *Manager) IsBlocked(address string) (bool, error) {
	if address == "" {
		return false, apperrors.NewMutationError("no IP address provided", nil)
	}

	rule := m.Rule(address)
	exists, err := m.ipt.Exists(rule.Table, rule.Chain, rule.Spec()...)
	if err != nil {
		log.Warnf("Checking iptables rule presence [%v] failed: %v", rule, err)
		return false, apperrors.NewMutationError(fmt.Sprintf("failed to check iptables rule for %s", address), err)
	}

	log.Debugf("Checking iptables rule presence [%v]: exists=%v", rule, exists)
	return exists, nil
}

// Block appends the block rule unless an identical rule exists.
// It returns true if a rule was added.
func (m *Manager) Block(address string) (bool, error) {
	if address == "" {
		return false, apperrors.NewMutationError("no IP address provided", nil)
	}

	log.Infof("Blocking IP address: %s...", address)

	exists, err := m.IsBlocked(address)
	if err != nil {
		return false, err
	}
	if exists {
		log.Infof("Rule to block %s already exists.", address)
		return false, nil
	}

	rule := m.Rule(address)
	log.Debugf("Adding iptables rule [%v]", rule)
	if err := m.ipt.Append(rule.Table, rule.Chain, rule.Spec()...); err != nil {
		return false, apperrors.NewMutationError(fmt.Sprintf("failed to add iptables rule for %s", address), err)
	}

	log.Infof("Successfully added iptables rule to block %s.", address)
	return true, nil
}
