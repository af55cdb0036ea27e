package commands

import (
	"io"
	"strings"

	"github.com/valyala/fasttemplate"

	"github.com/gnoppix/block-ip/src/internal/shell"
)

const reportTemplate = `Program finished. The IP address '{{address}}' is now blocked and the rule will persist after reboot.
You can verify the rule by running: sudo {{list_command}}

--- To remove the rule ---
1. Find its line number (e.g., N) by running: sudo {{list_command}}
2. Remove the rule: sudo {{delete_command}} N
3. After removing, remember to save changes: {{save_command}}
`

var reportTpl = fasttemplate.New(reportTemplate, "{{", "}}")

// Report is the confirmation printed after a successful run.
type Report struct {
	Address string
	Table   string
	Chain   string
	// SaveCommands are the family's manual save command lines.
	SaveCommands []string
}

// iptables returns the iptables prefix for the table. The filter table is implied.
func (r Report) iptables(args ...string) string {
	argv := []string{}
	if r.Table != "" && r.Table != "filter" {
		argv = append(argv, "-t", r.Table)
	}
	return shell.CommandLine("iptables", append(argv, args...)...)
}

func (r Report) saveCommand() string {
	parts := make([]string, 0, len(r.SaveCommands))
	for _, cmd := range r.SaveCommands {
		parts = append(parts, "sudo "+cmd)
	}
	return strings.Join(parts, " && ")
}

// Render returns the report text.
func (r Report) Render() string {
	return reportTpl.ExecuteString(map[string]interface{}{
		"address":        r.Address,
		"list_command":   r.iptables("-L", r.Chain, "-n", "--line-numbers"),
		"delete_command": r.iptables("-D", r.Chain),
		"save_command":   r.saveCommand(),
	})
}

// WriteTo writes the rendered report to w.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, r.Render())
	return int64(n), err
}
