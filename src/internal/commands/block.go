package commands

import (
	"flag"
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/gnoppix/block-ip/src/internal/config"
	"github.com/gnoppix/block-ip/src/internal/distro"
	apperrors "github.com/gnoppix/block-ip/src/internal/errors"
	"github.com/gnoppix/block-ip/src/internal/firewall"
	"github.com/gnoppix/block-ip/src/internal/log"
	"github.com/gnoppix/block-ip/src/internal/packages"
	"github.com/gnoppix/block-ip/src/internal/persistence"
	"github.com/gnoppix/block-ip/src/internal/shell"
)

// Deps are the host-facing dependencies of BlockCommand. Zero fields are
// filled with the real implementations when the command runs.
type Deps struct {
	Executor     shell.Executor
	NewRuleTable func() (firewall.RuleTable, error)
	Stdout       io.Writer
	Geteuid      func() int
}

func (d Deps) withDefaults(cfg *config.Config) Deps {
	if d.Executor == nil {
		d.Executor = shell.NewExecutor(cfg.General.UseSudo)
	}
	if d.NewRuleTable == nil {
		if cfg.General.UseSudo {
			exec := d.Executor
			d.NewRuleTable = func() (firewall.RuleTable, error) {
				return firewall.NewExecRuleTable(exec), nil
			}
		} else {
			d.NewRuleTable = firewall.NewRuleTable
		}
	}
	if d.Stdout == nil {
		d.Stdout = os.Stdout
	}
	if d.Geteuid == nil {
		d.Geteuid = unix.Geteuid
	}
	return d
}

func CreateBlockCommand() *BlockCommand {
	return CreateBlockCommandWithDeps(Deps{})
}

func CreateBlockCommandWithDeps(deps Deps) *BlockCommand {
	return &BlockCommand{
		fs:   flag.NewFlagSet("block", flag.ContinueOnError),
		deps: deps,
	}
}

var _ Runner = (*BlockCommand)(nil)

type BlockCommand struct {
	fs   *flag.FlagSet
	cfg  *config.Config
	deps Deps

	Address string
}

func (c *BlockCommand) Name() string {
	return c.fs.Name()
}

func (c *BlockCommand) Init(args []string, ctx *AppContext) error {
	if err := c.fs.Parse(args); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeUsage, "invalid arguments", err)
	}

	switch c.fs.NArg() {
	case 0:
		return apperrors.NewUsageError("no IP address provided")
	case 1:
		c.Address = c.fs.Arg(0)
	default:
		return apperrors.NewUsageError("exactly one IP address must be provided")
	}

	cfg, err := loadAndValidateConfigOrFail(ctx)
	if err != nil {
		return err
	}
	c.cfg = cfg
	c.deps = c.deps.withDefaults(cfg)

	return nil
}

func (c *BlockCommand) Run() error {
	log.Infof("Starting IP blocking program...")

	family := distro.Detect(c.cfg.General.OSReleasePath)
	if family == distro.Unknown {
		return apperrors.NewEnvironmentError("unsupported distribution, only Debian/Ubuntu and Arch Linux are supported", nil)
	}
	log.Debugf("Detected distribution family: %s", family)

	c.checkPrivileges()

	installer, err := packages.ForFamily(family, c.deps.Executor, c.cfg)
	if err != nil {
		return err
	}
	persister, err := persistence.ForFamily(family, c.deps.Executor, c.cfg)
	if err != nil {
		return err
	}

	if _, err := installer.EnsureInstalled(); err != nil {
		return err
	}

	// The iptables handle probes the binary, so it is created after installation.
	ipt, err := c.deps.NewRuleTable()
	if err != nil {
		return err
	}
	if _, err := firewall.NewManager(ipt, c.cfg.General.Table, c.cfg.General.Chain).Block(c.Address); err != nil {
		return err
	}

	if err := persister.Persist(); err != nil {
		return err
	}

	report := Report{
		Address:      c.Address,
		Table:        c.cfg.General.Table,
		Chain:        c.cfg.General.Chain,
		SaveCommands: persister.SaveCommands(),
	}
	if _, err := report.WriteTo(c.deps.Stdout); err != nil {
		return apperrors.NewInternalError("failed to print report", err)
	}

	return nil
}

func (c *BlockCommand) checkPrivileges() {
	if c.cfg.General.UseSudo {
		return
	}
	if euid := c.deps.Geteuid(); euid != 0 {
		log.Warnf("Running as uid %d without use_sudo; package installation and iptables changes will likely fail.", euid)
	}
}
