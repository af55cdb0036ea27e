package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gnoppix/block-ip/src/internal/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "block-ip.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("", false)
	require.NoError(t, err)

	assert.Equal(t, DefaultOSReleasePath, cfg.General.OSReleasePath)
	assert.False(t, cfg.General.UseSudo)
	assert.Equal(t, "filter", cfg.General.Table)
	assert.Equal(t, "INPUT", cfg.General.Chain)
	assert.Equal(t, "iptables-persistent", cfg.Debian.Package)
	assert.Equal(t, "iptables", cfg.Arch.Package)
	assert.Equal(t, "/etc/iptables/iptables.rules", cfg.GetAbsArchRulesFile())
	assert.Equal(t, "iptables.service", cfg.Arch.Service)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.toml")

	cfg, err := LoadConfig(missing, false)
	require.NoError(t, err)
	assert.Equal(t, DefaultChain, cfg.General.Chain)

	_, err = LoadConfig(missing, true)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeConfig, apperrors.CodeOf(err))
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[general]
use_sudo = true
chain = "BLOCKLIST"

[arch]
rules_file = "rules/iptables.rules"
`)

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)

	assert.True(t, cfg.General.UseSudo)
	assert.Equal(t, "BLOCKLIST", cfg.General.Chain)
	assert.Equal(t, "filter", cfg.General.Table, "unset keys keep their defaults")
	assert.Equal(t, "iptables.service", cfg.Arch.Service)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "rules", "iptables.rules"), cfg.GetAbsArchRulesFile())
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
[arch]
rules_file = "/etc/iptables/from-file.rules"
`)
	t.Setenv("BLOCK_IP_ARCH__RULES_FILE", "/etc/iptables/from-env.rules")
	t.Setenv("BLOCK_IP_GENERAL__USE_SUDO", "true")

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)

	assert.Equal(t, "/etc/iptables/from-env.rules", cfg.Arch.RulesFile)
	assert.True(t, cfg.General.UseSudo)
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	path := writeConfig(t, `
[general]
table = "nat"
chain = "THIS-CHAIN-NAME-IS-FAR-TOO-LONG-FOR-IPTABLES"

[debian]
package = "Bad Package"
`)

	_, err := LoadConfig(path, true)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeConfig, apperrors.CodeOf(err))

	var validationErrors ValidationErrors
	require.True(t, errors.As(err, &validationErrors))

	paths := map[string]string{}
	for _, ve := range validationErrors {
		paths[ve.FieldPath] = ve.Message
	}
	assert.Contains(t, paths, "general.table")
	assert.Contains(t, paths, "general.chain")
	assert.Contains(t, paths, "debian.package")
}

func TestLoadConfig_ParseError(t *testing.T) {
	path := writeConfig(t, "[general\nchain = ")

	_, err := LoadConfig(path, true)
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrCodeConfig, apperrors.CodeOf(err))
}

func TestValidateConfig_Defaults(t *testing.T) {
	assert.NoError(t, DefaultConfig().ValidateConfig())
}

func TestValidationErrors_Error(t *testing.T) {
	ve := ValidationErrors{
		{FieldPath: "general.chain", Message: "field is required"},
		{FieldPath: "arch.service", Message: "must be a valid package or unit name"},
	}

	assert.Equal(t, "validation failed with 2 error(s):\n"+
		"  1. general.chain: field is required\n"+
		"  2. arch.service: must be a valid package or unit name\n", ve.Error())
	assert.Equal(t, "no validation errors", ValidationErrors{}.Error())
}

func TestSerializeConfig(t *testing.T) {
	data, err := DefaultConfig().SerializeConfig()
	require.NoError(t, err)

	assert.Contains(t, string(data), "[general]")
	assert.Contains(t, string(data), "rules_file")
	assert.Contains(t, string(data), "/etc/iptables/iptables.rules")
}
