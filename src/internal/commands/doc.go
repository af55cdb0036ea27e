// Package commands implements the CLI command handlers for block-ip.
//
// Each command implements the Runner interface:
//   - Init(): parse positional arguments and load configuration
//   - Run(): execute the command
//   - Name(): return the command name
//
// The block command detects the distribution family, ensures the firewall
// persistence package is installed, adds the DROP rule, saves the rule set
// and prints manual removal instructions. The first failing step aborts the
// run; nothing done before it is rolled back.
//
//	cmd := commands.CreateBlockCommand()
//	ctx := &commands.AppContext{ConfigPath: config.DefaultConfigPath}
//	if err := cmd.Init([]string{"10.0.0.5"}, ctx); err != nil {
//	    log.Fatalf("%v", err)
//	}
//	if err := cmd.Run(); err != nil {
//	    log.Fatalf("%v", err)
//	}
package commands
