package commands

import (
	"github.com/gnoppix/block-ip/src/internal/config"
)

type Runner interface {
	Init(args []string, globalArgs *AppContext) error
	Run() error
	Name() string
}

type AppContext struct {
	ConfigPath string
	// ConfigRequired is set when -config was given explicitly; a missing file is then an error.
	ConfigRequired bool
	Verbose        bool
}

// loadAndValidateConfigOrFail loads configuration from file and environment and validates it.
func loadAndValidateConfigOrFail(ctx *AppContext) (*config.Config, error) {
	return config.LoadConfig(ctx.ConfigPath, ctx.ConfigRequired)
}
