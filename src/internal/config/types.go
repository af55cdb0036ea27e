package config

import (
	"path/filepath"

	"github.com/gnoppix/block-ip/src/internal/utils"
)

const (
	DefaultConfigPath = "/etc/block-ip/block-ip.toml"

	DefaultOSReleasePath = "/etc/os-release"
	DefaultTable         = "filter"
	DefaultChain         = "INPUT"

	DefaultDebianPackage = "iptables-persistent"

	DefaultArchPackage   = "iptables"
	DefaultArchRulesFile = "/etc/iptables/iptables.rules"
	DefaultArchService   = "iptables.service"
)

type Config struct {
	// General holds settings shared by every distribution family.
	General GeneralConfig `toml:"general" koanf:"general"`
	// Debian holds settings for Debian and Ubuntu hosts.
	Debian DebianConfig `toml:"debian" koanf:"debian"`
	// Arch holds settings for Arch Linux hosts.
	Arch ArchConfig `toml:"arch" koanf:"arch"`

	_absConfigFilePath string
}

type GeneralConfig struct {
	// OSReleasePath is the identification file used to detect the distribution (default: /etc/os-release).
	OSReleasePath string `toml:"os_release_path" koanf:"os_release_path" validate:"required"`
	// UseSudo prefixes every external command with sudo (default: false, privileges are expected to be granted already).
	UseSudo bool `toml:"use_sudo" koanf:"use_sudo"`
	// Table is the iptables table holding the block rule (default: filter).
	Table string `toml:"table" koanf:"table" validate:"required,oneof=filter raw mangle security"`
	// Chain is the chain the block rule is appended to (default: INPUT).
	Chain string `toml:"chain" koanf:"chain" validate:"required,chain_name"`
}

type DebianConfig struct {
	// Package is the package providing netfilter-persistent (default: iptables-persistent).
	Package string `toml:"package" koanf:"package" validate:"required,package_name"`
}

type ArchConfig struct {
	// Package is the package providing iptables and its systemd units (default: iptables).
	Package string `toml:"package" koanf:"package" validate:"required,package_name"`
	// RulesFile is loaded by the service at boot and overwritten on every run (default: /etc/iptables/iptables.rules).
	RulesFile string `toml:"rules_file" koanf:"rules_file" validate:"required"`
	// Service is the systemd unit restoring RulesFile at boot (default: iptables.service).
	Service string `toml:"service" koanf:"service" validate:"required,package_name"`
}

// DefaultConfig returns the configuration used when no file and no environment overrides exist.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			OSReleasePath: DefaultOSReleasePath,
			UseSudo:       false,
			Table:         DefaultTable,
			Chain:         DefaultChain,
		},
		Debian: DebianConfig{
			Package: DefaultDebianPackage,
		},
		Arch: ArchConfig{
			Package:   DefaultArchPackage,
			RulesFile: DefaultArchRulesFile,
			Service:   DefaultArchService,
		},
	}
}

// GetConfigDir returns the directory of the loaded configuration file, or an empty string.
func (c *Config) GetConfigDir() string {
	if c._absConfigFilePath == "" {
		return ""
	}
	return filepath.Dir(c._absConfigFilePath)
}

// GetAbsArchRulesFile resolves a relative rules_file against the configuration directory.
func (c *Config) GetAbsArchRulesFile() string {
	if c.GetConfigDir() == "" {
		return filepath.Clean(c.Arch.RulesFile)
	}
	return utils.GetAbsolutePath(c.Arch.RulesFile, c.GetConfigDir())
}
