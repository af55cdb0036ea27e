package packages

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoppix/block-ip/src/internal/config"
	"github.com/gnoppix/block-ip/src/internal/distro"
	apperrors "github.com/gnoppix/block-ip/src/internal/errors"
	"github.com/gnoppix/block-ip/src/internal/mocks"
	"github.com/gnoppix/block-ip/src/internal/shell"
)

func TestForFamily_Unknown(t *testing.T) {
	exec := mocks.NewMockExecutor(nil)

	installer, err := ForFamily(distro.Unknown, exec, config.DefaultConfig())
	require.Error(t, err)
	assert.Nil(t, installer)
	assert.Equal(t, apperrors.ErrCodeEnvironment, apperrors.CodeOf(err))
	assert.Empty(t, exec.Commands, "unsupported families must not run anything")
}

func TestEnsureInstalled(t *testing.T) {
	tests := []struct {
		name          string
		family        distro.Family
		setup         func(m *mocks.MockExecutor)
		wantInstalled bool
		wantCommands  []string
	}{
		{
			name:          "debian already installed",
			family:        distro.Debian,
			wantInstalled: false,
			wantCommands:  []string{"dpkg -s iptables-persistent"},
		},
		{
			name:   "debian missing",
			family: distro.Debian,
			setup: func(m *mocks.MockExecutor) {
				m.Fail("dpkg -s iptables-persistent", 1)
			},
			wantInstalled: true,
			wantCommands: []string{
				"dpkg -s iptables-persistent",
				"apt update",
				"apt install -y iptables-persistent",
			},
		},
		{
			name:          "arch already installed",
			family:        distro.Arch,
			wantInstalled: false,
			wantCommands:  []string{"pacman -Qs iptables"},
		},
		{
			name:   "arch missing",
			family: distro.Arch,
			setup: func(m *mocks.MockExecutor) {
				m.Fail("pacman -Qs iptables", 1)
			},
			wantInstalled: true,
			wantCommands: []string{
				"pacman -Qs iptables",
				"pacman -Sy iptables --noconfirm",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := mocks.NewMockExecutor(nil)
			if tt.setup != nil {
				tt.setup(exec)
			}

			installer, err := ForFamily(tt.family, exec, config.DefaultConfig())
			require.NoError(t, err)

			installed, err := installer.EnsureInstalled()
			require.NoError(t, err)
			assert.Equal(t, tt.wantInstalled, installed)
			assert.Equal(t, tt.wantCommands, exec.Commands)
		})
	}
}

func TestEnsureInstalled_Idempotent(t *testing.T) {
	exec := mocks.NewMockExecutor(nil)

	// The package is missing until apt installs it
	present := false
	exec.OutputFunc = func(name string, args ...string) (string, error) {
		if present {
			return "Status: install ok installed\n", nil
		}
		return "", &shell.ExitError{Command: "dpkg -s iptables-persistent", ExitCode: 1}
	}
	exec.RunFunc = func(name string, args ...string) error {
		if name == "apt" && len(args) > 0 && args[0] == "install" {
			present = true
		}
		return nil
	}

	installer, err := ForFamily(distro.Debian, exec, config.DefaultConfig())
	require.NoError(t, err)

	installed, err := installer.EnsureInstalled()
	require.NoError(t, err)
	assert.True(t, installed)

	installed, err = installer.EnsureInstalled()
	require.NoError(t, err)
	assert.False(t, installed)

	assert.Equal(t, 1, exec.CallCount("apt install -y iptables-persistent"), "install must run at most once")
	assert.Equal(t, 2, exec.CallCount("dpkg -s iptables-persistent"))
}

func TestEnsureInstalled_InstallFailure(t *testing.T) {
	tests := []struct {
		name    string
		family  distro.Family
		failing string
	}{
		{"apt update fails", distro.Debian, "apt update"},
		{"apt install fails", distro.Debian, "apt install -y iptables-persistent"},
		{"pacman install fails", distro.Arch, "pacman -Sy iptables --noconfirm"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := mocks.NewMockExecutor(nil).
				Fail("dpkg -s iptables-persistent", 1).
				Fail("pacman -Qs iptables", 1).
				Fail(tt.failing, 100)

			installer, err := ForFamily(tt.family, exec, config.DefaultConfig())
			require.NoError(t, err)

			installed, err := installer.EnsureInstalled()
			require.Error(t, err)
			assert.False(t, installed)
			assert.Equal(t, apperrors.ErrCodeDependency, apperrors.CodeOf(err))
			assert.Equal(t, tt.failing, exec.Commands[len(exec.Commands)-1], "nothing runs after the failing step")
		})
	}
}

func TestIsInstalled_QueryToolErrors(t *testing.T) {
	tests := []struct {
		name     string
		response mocks.Response
	}{
		{"tool missing", mocks.Response{Err: fmt.Errorf("%w: dpkg", shell.ErrNotFound)}},
		{"cannot start", mocks.Response{Err: errors.New("permission denied")}},
		{"killed by signal", mocks.Response{ExitCode: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := mocks.NewMockExecutor(nil).On("dpkg -s iptables-persistent", tt.response)

			installer, err := ForFamily(distro.Debian, exec, config.DefaultConfig())
			require.NoError(t, err)

			installed, err := installer.EnsureInstalled()
			require.Error(t, err)
			assert.False(t, installed)
			assert.Equal(t, apperrors.ErrCodeDependency, apperrors.CodeOf(err))
			assert.False(t, exec.CalledWithPrefix("apt"), "no install when the query itself failed")
		})
	}
}

func TestForFamily_ConfiguredPackage(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Arch.Package = "iptables-nft"

	exec := mocks.NewMockExecutor(nil)
	installer, err := ForFamily(distro.Arch, exec, cfg)
	require.NoError(t, err)

	_, err = installer.EnsureInstalled()
	require.NoError(t, err)
	assert.True(t, exec.Called("pacman -Qs iptables-nft"))
}
