package generator

import "fmt"

const (
	PhaseLoad       = "load"
	PhaseSerialize  = "serialize"
	PhaseEncode     = "encode"
	PhaseFragment   = "fragment"
	PhaseSynthesize = "synthesize"
	PhaseSchedule   = "schedule"
	PhaseWrite      = "write"
	PhaseVerify     = "verify"
)

// PhaseError names the pipeline phase that aborted a run.
type PhaseError struct {
	Phase string
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s failed: %v", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

func fail(phase string, err error) error {
	return &PhaseError{Phase: phase, Err: err}
}
