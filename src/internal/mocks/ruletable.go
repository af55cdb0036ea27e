package mocks

import (
	"fmt"
	"strings"
)

// MockRuleTable is an in-memory iptables table set with the Exists/Append
// surface of the go-iptables handle.
type MockRuleTable struct {
	// ExistsFunc is called by Exists if not nil
	ExistsFunc func(table, chain string, rulespec ...string) (bool, error)

	// AppendFunc is called by Append if not nil
	AppendFunc func(table, chain string, rulespec ...string) error

	// Journal, if set, receives "iptables -t <table> -C|-A <chain> <rulespec>" entries
	Journal *Journal

	// Rules maps "table/chain" to the appended rule specs in order
	Rules map[string][]string

	ExistsCalls int
	AppendCalls int
}

// NewMockRuleTable creates an empty rule table.
func NewMockRuleTable(journal *Journal) *MockRuleTable {
	return &MockRuleTable{
		Journal: journal,
		Rules:   map[string][]string{},
	}
}

// Exists reports whether an identical rule spec is present in the chain.
func (m *MockRuleTable) Exists(table, chain string, rulespec ...string) (bool, error) {
	m.ExistsCalls++
	m.Journal.Record(entry(table, "-C", chain, rulespec))
	if m.ExistsFunc != nil {
		return m.ExistsFunc(table, chain, rulespec...)
	}

	spec := strings.Join(rulespec, " ")
	for _, r := range m.Rules[key(table, chain)] {
		if r == spec {
			return true, nil
		}
	}
	return false, nil
}

// Append adds the rule spec at the end of the chain.
func (m *MockRuleTable) Append(table, chain string, rulespec ...string) error {
	m.AppendCalls++
	m.Journal.Record(entry(table, "-A", chain, rulespec))
	if m.AppendFunc != nil {
		return m.AppendFunc(table, chain, rulespec...)
	}

	if m.Rules == nil {
		m.Rules = map[string][]string{}
	}
	k := key(table, chain)
	m.Rules[k] = append(m.Rules[k], strings.Join(rulespec, " "))
	return nil
}

// Count returns how many rules with exactly this spec the chain holds.
func (m *MockRuleTable) Count(table, chain string, rulespec ...string) int {
	spec := strings.Join(rulespec, " ")
	count := 0
	for _, r := range m.Rules[key(table, chain)] {
		if r == spec {
			count++
		}
	}
	return count
}

func key(table, chain string) string {
	return table + "/" + chain
}

func entry(table, op, chain string, rulespec []string) string {
	return fmt.Sprintf("iptables -t %s %s %s %s", table, op, chain, strings.Join(rulespec, " "))
}
