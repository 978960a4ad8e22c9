// Package conversation implements the intake form flow: an explicit
// finite-state machine over per-requester sessions. The machine validates
// one field per step, supports back-navigation and cancellation, and
// terminates by submitting to the request store or by abandoning.
//
// Sessions are ephemeral. They live in a Store keyed by requester identity
// and are discarded on completion, cancellation, or explicit restart; a
// process restart loses in-flight sessions and the requester simply starts
// the form again.
package conversation

import "sync"

// Step names the conversation state a session is waiting in.
type Step string

const (
	StepFirstName          Step = "waiting_first_name"
	StepLastName           Step = "waiting_last_name"
	StepMiddleName         Step = "waiting_middle_name"
	StepAdditionalDecision Step = "waiting_additional_decision"
	StepRegion             Step = "waiting_region"
	StepDepartments        Step = "waiting_departments"
	StepConfirmation       Step = "waiting_confirmation"
)

// Choice identifiers carried by the discrete signals from the chat platform.
const (
	ChoiceBack          = "back"
	ChoiceConfirmYes    = "confirm_yes"
	ChoiceConfirmNo     = "confirm_no"
	ChoiceAdditionalYes = "additional_yes"
	ChoiceAdditionalNo  = "additional_no"
)

// Session holds the in-progress form state for one requester.
//
// Catalog is the department-name snapshot captured when the departments
// step was entered; the numbering shown to the requester stays stable even
// if the underlying directory changes mid-conversation.
type Session struct {
	Step Step

	FirstName  string
	LastName   string
	MiddleName string
	Region     string

	Catalog     []string
	Departments []string

	IsAdditional bool
	TargetUserID *int64
}

// Store is the session backend, keyed by requester identity. The machine
// only needs get/put/delete; swapping in a distributed backend must not
// touch step logic.
//
// Implementations need not serialize access per identity: the dispatcher
// guarantees a single in-flight event per requester.
type Store interface {
	Get(identity string) (*Session, bool)
	Put(identity string, s *Session)
	Delete(identity string)
}

// MemoryStore is the in-process Store used by the single-binary deployment.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

// Get returns the session for identity, if any.
func (m *MemoryStore) Get(identity string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[identity]
	return s, ok
}

// Put stores (or replaces) the session for identity.
func (m *MemoryStore) Put(identity string, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[identity] = s
}

// Delete discards the session for identity. Deleting a missing session is
// a no-op.
func (m *MemoryStore) Delete(identity string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, identity)
}
