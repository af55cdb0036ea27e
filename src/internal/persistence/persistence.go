// Package persistence makes the current iptables rule set survive a reboot.
//
// Debian and Ubuntu hosts save through netfilter-persistent. Arch hosts dump
// the rule set with iptables-save into the file loaded by iptables.service and
// then enable and start that service.
package persistence

import (
	"fmt"
	"os"

	"github.com/gnoppix/block-ip/src/internal/config"
	"github.com/gnoppix/block-ip/src/internal/distro"
	apperrors "github.com/gnoppix/block-ip/src/internal/errors"
	"github.com/gnoppix/block-ip/src/internal/log"
	"github.com/gnoppix/block-ip/src/internal/shell"
	"github.com/gnoppix/block-ip/src/internal/utils"
)

// Manager persists the rule set for one distribution family.
type Manager interface {
	// Persist saves the current rule set so it is restored at boot.
	Persist() error
	// SaveCommands are the manual command lines that save the rule set again.
	SaveCommands() []string
}

// ForFamily returns the persistence manager for the family.
func ForFamily(family distro.Family, exec shell.Executor, cfg *config.Config) (Manager, error) {
	switch family {
	case distro.Debian:
		return &NetfilterPersistent{exec: exec}, nil
	case distro.Arch:
		return &SystemdService{
			exec:        exec,
			rulesFile:   cfg.GetAbsArchRulesFile(),
			service:     cfg.Arch.Service,
			installFile: cfg.General.UseSudo,
			writeFile:   utils.WriteFileAtomic,
		}, nil
	default:
		return nil, apperrors.NewEnvironmentError(fmt.Sprintf("no persistence mechanism known for distribution %q", family), nil)
	}
}

// NetfilterPersistent saves rules with netfilter-persistent (Debian, Ubuntu).
type NetfilterPersistent struct {
	exec shell.Executor
}

func (n *NetfilterPersistent) Persist() error {
	log.Infof("Saving iptables rules for persistence...")

	if err := n.exec.Run("netfilter-persistent", "save"); err != nil {
		return apperrors.NewPersistenceError("failed to save iptables rules, check your netfilter-persistent installation", err)
	}

	log.Infof("iptables rules saved successfully for Debian/Ubuntu.")
	return nil
}

func (n *NetfilterPersistent) SaveCommands() []string {
	return []string{shell.CommandLine("netfilter-persistent", "save")}
}

// SystemdService writes iptables-save output to the rules file restored by a systemd unit (Arch).
type SystemdService struct {
	exec      shell.Executor
	rulesFile string
	service   string
	// installFile stages the rules in a temporary file and moves them into
	// place with install(1) through the executor, so sudo applies to the write.
	installFile bool
	writeFile   func(path string, data []byte, perm os.FileMode) error
}

func (s *SystemdService) Persist() error {
	log.Infof("Saving iptables rules for persistence...")

	rules, err := s.exec.Output("iptables-save")
	if err != nil {
		return apperrors.NewPersistenceError("failed to dump iptables rules", err)
	}

	if err := s.saveRules([]byte(rules)); err != nil {
		return apperrors.NewPersistenceError(fmt.Sprintf("failed to save iptables rules to %s", s.rulesFile), err)
	}
	log.Debugf("Wrote %d bytes of rules to %s", len(rules), s.rulesFile)

	log.Infof("Enabling and starting iptables systemd service...")
	for _, action := range []string{"enable", "start"} {
		if err := s.exec.Run("systemctl", action, s.service); err != nil {
			return apperrors.NewPersistenceError(fmt.Sprintf("failed to %s %s, check systemd logs", action, s.service), err)
		}
	}

	log.Infof("iptables rules saved and persistence enabled successfully for Arch Linux.")
	return nil
}

// saveRules replaces the rules file wholesale.
func (s *SystemdService) saveRules(rules []byte) error {
	if !s.installFile {
		return s.writeFile(s.rulesFile, rules, 0644)
	}

	tmp, err := os.CreateTemp("", "iptables.rules.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	utils.CloseOrWarn(tmp)
	defer func() {
		if err := os.Remove(tmpName); err != nil && !os.IsNotExist(err) {
			log.Warnf("Failed to remove %s: %v", tmpName, err)
		}
	}()

	if err := s.writeFile(tmpName, rules, 0600); err != nil {
		return err
	}
	return s.exec.Run("install", "-D", "-m", "0644", tmpName, s.rulesFile)
}

func (s *SystemdService) SaveCommands() []string {
	return []string{
		shell.CommandLine("iptables-save") + " > " + shell.CommandLine(s.rulesFile),
		shell.CommandLine("systemctl", "restart", s.service),
	}
}
