// Package domain defines the core persistence models and the result types
// shared between the repository and service layers.
package domain

// CreateOutcome tags the result of a request-creation attempt. It replaces
// any in-band signaling: the outcome is always explicit, and the id always
// refers to the request the requester should be told about.
type CreateOutcome int

const (
	// OutcomeCreated means a new request row was inserted.
	OutcomeCreated CreateOutcome = iota
	// OutcomeAlreadyActive means an existing new/pending request blocked the
	// attempt; no row was inserted.
	OutcomeAlreadyActive
	// OutcomeAlreadyProcessed means the latest request is processed and the
	// attempt was not flagged additional; no row was inserted.
	OutcomeAlreadyProcessed
)

// String returns a stable label for logging and metrics.
func (o CreateOutcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeAlreadyActive:
		return "already_active"
	case OutcomeAlreadyProcessed:
		return "already_processed"
	default:
		return "unknown"
	}
}

// CreateRequestInput carries the accumulated form fields into the store.
type CreateRequestInput struct {
	FullName     string
	TelegramID   string
	Region       string
	Departments  []string
	IsAdditional bool
	TargetUserID *int64
}

// CreateResult is the tagged result of CreateRequest.
//
// RequestID is the created request id for OutcomeCreated, and the id of the
// pre-existing request for the two conflict outcomes. Missing lists the
// department names that could not be resolved against the directory; it is
// informational and only populated for OutcomeCreated.
type CreateResult struct {
	RequestID int64
	Outcome   CreateOutcome
	Missing   []string
}
