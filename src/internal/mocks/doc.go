// Package mocks provides test doubles for the host-facing parts of block-ip.
//
// MockExecutor stands in for shell.Executor and MockRuleTable for the
// iptables handle, so distribution detection, package installation, rule
// management and persistence can be exercised without touching a real host.
// Both can share a Journal that records every action in order.
package mocks
