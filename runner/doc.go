// Package runner provides the outcome of a finished child program together
// with its resource usage.
//
// Status
//
// Status classifies how the child terminated:
//  Exited    the child called exit, ExitStatus is the exit code
//  Signalled the child was killed by a signal, ExitStatus is the signal number
//  Unknown   the wait status matched neither, ExitStatus is the raw status
//
// Result
//
// Result defines the program running result including Status, ExitStatus,
// user / system CPU time and the peak resident memory (in KiB as reported by
// getrusage). It is rendered as a machine-parsable Report and a human
// readable Summary.
package runner
