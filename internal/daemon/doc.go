// Package daemon assembles the capture pipeline and runs it as a
// single-instance session: flock-based locking, preflight checks, then the
// scheduler loop until the stream ends or the process is signalled.
package daemon
