package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/pelletier/go-toml/v2"

	apperrors "github.com/gnoppix/block-ip/src/internal/errors"
	"github.com/gnoppix/block-ip/src/internal/log"
)

const (
	envPrefix       = "BLOCK_IP_"
	envSectionDelim = "__"
)

// envLoader loads BLOCK_IP_* variables; BLOCK_IP_ARCH__RULES_FILE becomes arch.rules_file.
// It is a variable so tests can replace it.
var envLoader = func(k *koanf.Koanf) error {
	return k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
			key = strings.ReplaceAll(key, envSectionDelim, ".")
			return key, strings.TrimSpace(value)
		},
	}), nil)
}

// LoadConfig builds the effective configuration from defaults, the TOML file at
// configPath and the environment. A missing file is only an error when required is true.
func LoadConfig(configPath string, required bool) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, apperrors.NewInternalError("failed to load default configuration", err)
	}

	absPath, err := loadFile(k, configPath, required)
	if err != nil {
		return nil, err
	}

	if err := envLoader(k); err != nil {
		return nil, apperrors.NewConfigError("failed to load environment overrides", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, apperrors.NewConfigError("failed to decode configuration", err)
	}
	cfg._absConfigFilePath = absPath

	if err := cfg.ValidateConfig(); err != nil {
		return nil, apperrors.NewConfigError("configuration validation failed", err)
	}

	if absPath != "" {
		log.Debugf("Configuration file path: %s", absPath)
	}
	log.Debugf("Effective configuration: os_release=%s sudo=%v rule=%s/%s arch_rules=%s",
		cfg.General.OSReleasePath, cfg.General.UseSudo, cfg.General.Table, cfg.General.Chain, cfg.GetAbsArchRulesFile())

	return &cfg, nil
}

// loadFile merges the TOML file into k and returns its absolute path, or "" when skipped.
func loadFile(k *koanf.Koanf, configPath string, required bool) (string, error) {
	if configPath == "" {
		return "", nil
	}

	configFile, err := filepath.Abs(filepath.Clean(configPath))
	if err != nil {
		return "", apperrors.NewConfigError("failed to get absolute path", err)
	}

	content, err := os.ReadFile(configFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			log.Debugf("Configuration file %s not found, using defaults", configFile)
			return "", nil
		}
		return "", apperrors.NewConfigError(fmt.Sprintf("failed to read config file %s", configFile), err)
	}

	raw := map[string]interface{}{}
	if err := toml.Unmarshal(content, &raw); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			log.Errorf("%s", derr.String())
			row, col := derr.Position()
			return "", apperrors.NewConfigError(fmt.Sprintf("failed to parse config file at line %d, column %d", row, col), err)
		}
		return "", apperrors.NewConfigError("failed to parse config file", err)
	}

	if err := k.Load(confmap.Provider(raw, "."), nil); err != nil {
		return "", apperrors.NewConfigError("failed to merge config file", err)
	}

	return configFile, nil
}

// SerializeConfig renders the configuration as TOML.
func (c *Config) SerializeConfig() ([]byte, error) {
	var sb strings.Builder
	enc := toml.NewEncoder(&sb)
	enc.SetIndentTables(true)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return []byte(sb.String()), nil
}
