package agent

import (
	"fmt"

	"github.com/dod-acq/orchestrator/doctype"
)

// Error wraps a failure that terminates one document's generation without
// affecting the rest of its batch - the Orchestrator isolates it to that
// document's Metadata.Status/Error rather than failing the job.
type Error struct {
	Type  doctype.Type
	Stage State
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("agent %s: failed at stage %s: %v", e.Type, e.Stage, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// TimeoutError is an Error whose cause was a per-call or per-agent timeout
// expiring. It carries the same recovery policy as Error: isolate to one
// document, job continues. Execute reports timeouts as a plain *Error and
// does not construct a TimeoutError.
type TimeoutError struct {
	*Error
}
