package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gnoppix/block-ip/src/internal/commands"
	"github.com/gnoppix/block-ip/src/internal/config"
	"github.com/gnoppix/block-ip/src/internal/log"
)

var (
	version = "dev"
	commit  = "n/a"
	date    = "n/a"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, commands.CreateBlockCommand()))
}

// run parses args, executes cmd and returns the process exit status.
func run(args []string, stdout, stderr io.Writer, cmd commands.Runner) int {
	ctx := &commands.AppContext{}
	var showVersion, dumpConfig bool

	fs := flag.NewFlagSet("block-ip", flag.ContinueOnError)
	fs.SetOutput(stderr)

	// Define flags
	fs.StringVar(&ctx.ConfigPath, "config", config.DefaultConfigPath, "Path to configuration file (optional)")
	fs.BoolVar(&ctx.Verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&dumpConfig, "dump-config", false, "Print the effective configuration and exit")

	// Custom usage message
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Block an IPv4 address with a persistent iptables DROP rule\n")
		fmt.Fprintf(stderr, "Version: %s (Commit: %s, Date: %s)\n\n", version, commit, date)
		fmt.Fprintf(stderr, "Usage: sudo block-ip [options] <IP_ADDRESS_TO_BLOCK>\n\n")
		fmt.Fprintf(stderr, "Environment:\n")
		fmt.Fprintf(stderr, "  BLOCK_IP_<SECTION>__<KEY>  Override a configuration key, e.g. BLOCK_IP_GENERAL__USE_SUDO=true\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 1
	}

	if showVersion {
		fmt.Fprintf(stdout, "block-ip %s (Commit: %s, Date: %s)\n", version, commit, date)
		return 0
	}

	if ctx.Verbose {
		log.SetVerbose(true)
	}

	// A missing file is only fatal when -config was given explicitly
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			ctx.ConfigRequired = true
		}
	})

	if dumpConfig {
		cfg, err := config.LoadConfig(ctx.ConfigPath, ctx.ConfigRequired)
		if err != nil {
			log.Errorf("Failed to load configuration: %v", err)
			return 1
		}
		data, err := cfg.SerializeConfig()
		if err != nil {
			log.Errorf("Failed to serialize configuration: %v", err)
			return 1
		}
		fmt.Fprint(stdout, string(data))
		return 0
	}

	if fs.NArg() < 1 {
		log.Errorf("No IP address provided.")
		fs.Usage()
		return 1
	}

	if err := cmd.Init(fs.Args(), ctx); err != nil {
		log.Errorf("Failed to initialize command: %v", err)
		return 1
	}

	if err := cmd.Run(); err != nil {
		log.Errorf("Failed to block IP address: %v", err)
		return 1
	}

	return 0
}
