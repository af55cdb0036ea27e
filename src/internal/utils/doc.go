// Package utils provides small file and path helpers shared by block-ip packages.
//
// # Example Usage
//
//	absPath := utils.GetAbsolutePath("rules/iptables.rules", "/etc/block-ip")
//	// Returns: /etc/block-ip/rules/iptables.rules
//
//	if err := utils.WriteFileAtomic(absPath, rules, 0644); err != nil {
//	    return err
//	}
package utils
