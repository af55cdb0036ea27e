// Package shell runs external commands for block-ip.
//
// Commands are always started with an explicit argument vector; nothing is
// passed through a shell, so values such as the address to block reach the
// subordinate process as a single argument and are never re-interpreted.
//
// There is no timeout and no retry: a call blocks until the process exits and
// reports failure through a returned error. A non-zero exit status is an
// *ExitError, a binary that is not on PATH wraps ErrNotFound.
//
// # Example Usage
//
//	exec := shell.NewExecutor(false)
//	if err := exec.Run("netfilter-persistent", "save"); err != nil {
//	    return err
//	}
//	rules, err := exec.Output("iptables-save")
package shell
