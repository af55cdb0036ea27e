// Package firewall manages the iptables rule that drops traffic from one address.
//
// Rules are checked and appended through the coreos/go-iptables handle, which
// invokes the iptables binary with an explicit argument list. The handle is
// abstracted as RuleTable so the manager can be tested against an in-memory
// table.
//
// # Example Usage
//
//	table, err := firewall.NewRuleTable()
//	if err != nil {
//	    return err
//	}
//	mgr := firewall.NewManager(table, "filter", "INPUT")
//	added, err := mgr.Block("203.0.113.7")
package firewall
