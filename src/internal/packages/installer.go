// Package packages makes sure the firewall persistence package is installed.
package packages

import (
	"errors"
	"fmt"

	"github.com/gnoppix/block-ip/src/internal/config"
	"github.com/gnoppix/block-ip/src/internal/distro"
	apperrors "github.com/gnoppix/block-ip/src/internal/errors"
	"github.com/gnoppix/block-ip/src/internal/log"
	"github.com/gnoppix/block-ip/src/internal/shell"
)

// command is one argument vector.
type command []string

// Installer queries and installs one package with the family's package manager.
type Installer struct {
	family  distro.Family
	pkg     string
	query   command
	install []command
	exec    shell.Executor
}

// ForFamily returns the installer for the family. Unknown families have none.
func ForFamily(family distro.Family, exec shell.Executor, cfg *config.Config) (*Installer, error) {
	switch family {
	case distro.Debian:
		pkg := cfg.Debian.Package
		return &Installer{
			family: family,
			pkg:    pkg,
			query:  command{"dpkg", "-s", pkg},
			install: []command{
				{"apt", "update"},
				{"apt", "install", "-y", pkg},
			},
			exec: exec,
		}, nil
	case distro.Arch:
		pkg := cfg.Arch.Package
		return &Installer{
			family: family,
			pkg:    pkg,
			query:  command{"pacman", "-Qs", pkg},
			install: []command{
				{"pacman", "-Sy", pkg, "--noconfirm"},
			},
			exec: exec,
		}, nil
	default:
		return nil, apperrors.NewEnvironmentError(fmt.Sprintf("no package manager known for distribution %q", family), nil)
	}
}

// IsInstalled runs the family's package query. A positive exit status means
// the package is absent. A query tool that cannot be run, or that was killed
// by a signal, is an error.
func (i *Installer) IsInstalled() (bool, error) {
	_, err := i.exec.Output(i.query[0], i.query[1:]...)
	if err == nil {
		return true, nil
	}
	var exitErr *shell.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode > 0 {
		log.Debugf("Package query [%s] reported %s as missing: %v", shell.CommandLine(i.query[0], i.query[1:]...), i.pkg, err)
		return false, nil
	}
	if errors.Is(err, shell.ErrNotFound) {
		return false, apperrors.NewDependencyError(fmt.Sprintf("package manager for %s is not available", i.family), err)
	}
	return false, apperrors.NewDependencyError(fmt.Sprintf("failed to query package %s", i.pkg), err)
}

// EnsureInstalled installs the package if the query reports it missing.
// It returns true if an installation took place.
func (i *Installer) EnsureInstalled() (bool, error) {
	log.Infof("Checking iptables installation...")

	installed, err := i.IsInstalled()
	if err != nil {
		return false, err
	}
	if installed {
		log.Infof("%s is already installed.", i.pkg)
		return false, nil
	}

	log.Infof("%s is not installed. Installing now...", i.pkg)
	for _, step := range i.install {
		if err := i.exec.Run(step[0], step[1:]...); err != nil {
			return false, apperrors.NewDependencyError(fmt.Sprintf("failed to install %s", i.pkg), err)
		}
	}

	log.Infof("%s installed successfully.", i.pkg)
	return true, nil
}
