package runner

// Status is the termination class of the child
type Status int

// Result Status for the child process
const (
	StatusInvalid   Status = iota // 0 zero value, never reported
	StatusExited                  // 1 exited normally
	StatusSignalled               // 2 killed by signal
	StatusUnknown                 // 3 unrecognized wait status
)

var (
	statusString = []string{
		"Invalid",
		"Exited",
		"Signalled",
		"Unknown",
	}

	// reportKey is the key of the outcome line in the report
	reportKey = []string{
		"",
		"EXIT_CODE",
		"SIGNAL",
		"UNKNOWN",
	}
)

func (t Status) String() string {
	i := int(t)
	if i >= 0 && i < len(statusString) {
		return statusString[i]
	}
	return statusString[0]
}

// ReportKey returns the key used by the outcome line of the report, empty
// for a status outside the reported set
func (t Status) ReportKey() string {
	i := int(t)
	if i >= 0 && i < len(reportKey) {
		return reportKey[i]
	}
	return reportKey[0]
}
