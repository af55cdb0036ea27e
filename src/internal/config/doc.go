// Package config handles configuration loading and validation for block-ip.
//
// Configuration is optional: every setting has a built-in default that
// reproduces the stock behavior on Debian/Ubuntu and Arch hosts. Values are
// layered in this order, later layers winning:
//
//  1. Built-in defaults (DefaultConfig)
//  2. TOML configuration file (-config flag)
//  3. Environment variables prefixed with BLOCK_IP_, where a double
//     underscore separates the section from the key
//
// # Example Configuration
//
//	[general]
//	use_sudo = true
//	chain = "INPUT"
//
//	[arch]
//	rules_file = "/etc/iptables/iptables.rules"
//	service = "iptables.service"
//
// The same rules file can be selected from the environment with
// BLOCK_IP_ARCH__RULES_FILE=/etc/iptables/iptables.rules.
//
// # Example Usage
//
//	cfg, err := config.LoadConfig("/etc/block-ip/block-ip.toml", false)
//	if err != nil {
//	    log.Fatalf("%v", err)
//	}
//	fmt.Println(cfg.Arch.RulesFile)
package config
