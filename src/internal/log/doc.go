// Package log provides simple leveled logging for block-ip.
//
// This package implements a lightweight logging system with colored output
// and support for different log levels: DEBUG, INFO, WARN, and ERROR.
// It provides global logging functions that can be used throughout the application.
//
// # Log Levels
//
//   - DEBUG: Executed command lines and detection details (only shown in verbose mode)
//   - INFO: Progress messages for every step of the run
//   - WARN: Warning messages for potentially problematic situations
//   - ERROR: Failure diagnostics, always written to stderr
//
// # Example Usage
//
//	log.Infof("Blocking IP address: %s...", address)
//	log.Warnf("Running as uid %d without sudo", uid)
//	log.Errorf("Failed to add iptables rule: %v", err)
//
// Enabling verbose mode for debug output:
//
//	log.SetVerbose(true)
//	log.Debugf("Executing [%s]", cmdline)
//
// Fatal errors that exit the application:
//
//	if err != nil {
//	    log.Fatalf("Failed to block IP: %v", err) // Exits with code 1
//	}
//
// Output control:
//
//	log.SetForceStdErr(true)         // Send all logs to stderr
//	log.SetOutput(&stdout, &stderr) // Redirect streams, e.g. in tests
package log
