// Package capture writes packet sequences to pcap or pcapng files and reads
// them back.
package capture

import (
	"time"
)

const (
	FormatPCAP   = "pcap"
	FormatPCAPNG = "pcapng"
)

// CheckError reports that Writer.Check rejected a finished capture.
type CheckError struct {
	Err error
}

func (e *CheckError) Error() string { return "capture check failed: " + e.Err.Error() }
func (e *CheckError) Unwrap() error { return e.Err }

// DefaultStep separates consecutive record timestamps.
const DefaultStep = 10 * time.Millisecond

// Record is one packet record as stored in a capture file.
type Record struct {
	Timestamp     time.Time
	CaptureLength int
	Length        int
	Data          []byte
}
