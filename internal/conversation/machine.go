package conversation

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/timaholls/tg-info-S3Disk/internal/domain"
	"github.com/timaholls/tg-info-S3Disk/internal/services"
)

// Keyboard names the inline keyboard a reply should carry; the transport
// adapter renders it. The machine never touches the chat platform directly.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardBack
	KeyboardConfirm
	KeyboardAdditional
)

// Reply is one outbound message produced by the machine.
type Reply struct {
	Text     string
	Keyboard Keyboard
}

// Capabilities selects the optional steps of the flow. Both variants share
// one machine; the step set and transition table are parameterized here,
// not forked.
type Capabilities struct {
	// Region enables the region-collection step.
	Region bool
	// AdditionalBranch enables the additional-departments entry for
	// registered persons.
	AdditionalBranch bool
}

// CatalogReader supplies the selectable departments at department-step entry.
type CatalogReader interface {
	List(ctx context.Context) ([]domain.CatalogEntry, error)
}

// RequestStore is the persistence boundary of the flow.
type RequestStore interface {
	Create(ctx context.Context, in domain.CreateRequestInput) (domain.CreateResult, error)
	Latest(ctx context.Context, telegramID string) (*domain.Request, error)
}

// DirectoryReader resolves registered persons for the additional branch.
type DirectoryReader interface {
	Lookup(ctx context.Context, telegramID string) (*domain.DirectoryUser, error)
}

// Machine drives the intake form. One value serves all requesters; all
// per-requester state lives in the session store. Every method handles one
// inbound event to completion and returns the replies to send, so a
// transport adapter can stay a thin loop.
//
// Infrastructure faults never escape: they are logged, the requester gets
// a retry-later reply, and the session is left in a state the requester
// can continue or restart from.
type Machine struct {
	Sessions  Store
	Catalog   CatalogReader
	Requests  RequestStore
	Directory DirectoryReader

	Caps Capabilities
	// Regions is the fixed, ordered region option list shown when the
	// region step is enabled.
	Regions []string

	Log zerolog.Logger
}

// NewMachine constructs a Machine with a no-op logger.
func NewMachine(sessions Store, catalog CatalogReader, requests RequestStore, directory DirectoryReader, caps Capabilities, regions []string) *Machine {
	return &Machine{
		Sessions:  sessions,
		Catalog:   catalog,
		Requests:  requests,
		Directory: directory,
		Caps:      caps,
		Regions:   regions,
		Log:       zerolog.Nop(),
	}
}

// Reset discards any in-flight session for the identity (the /start path).
func (m *Machine) Reset(identity string) {
	m.Sessions.Delete(identity)
}

// Begin handles the form-start command.
//
// Entry shortcuts, in order:
//   - an existing new/pending request short-circuits to its summary, no
//     session is created;
//   - a registered person (with no active request) is offered the
//     additional-departments branch, pre-seeded from the directory record;
//   - otherwise a fresh session opens at the first-name step.
func (m *Machine) Begin(ctx context.Context, identity string) []Reply {
	latest, err := m.Requests.Latest(ctx, identity)
	if err != nil && !errors.Is(err, services.ErrRequestNotFound) {
		m.Log.Error().Err(err).Str("identity", identity).Msg("latest request lookup failed")
		return []Reply{{Text: textRetryLater}}
	}

	if latest != nil && latest.Status.Active() {
		return []Reply{{Text: activeRequestText(latest)}}
	}

	if m.Caps.AdditionalBranch {
		user, err := m.Directory.Lookup(ctx, identity)
		if err != nil && !errors.Is(err, services.ErrUserNotFound) {
			m.Log.Error().Err(err).Str("identity", identity).Msg("directory lookup failed")
			return []Reply{{Text: textRetryLater}}
		}
		if user != nil {
			header := "✅ У вас уже есть аккаунт."
			region := user.Region
			if latest != nil && latest.Status == domain.StatusProcessed {
				header = "✅ Ваша предыдущая заявка уже обработана."
				if latest.Region != "" {
					region = latest.Region
				}
			}
			targetID := user.ID
			m.Sessions.Put(identity, &Session{
				Step:         StepAdditionalDecision,
				FirstName:    user.FirstName,
				LastName:     user.LastName,
				MiddleName:   user.MiddleName,
				Region:       region,
				TargetUserID: &targetID,
			})
			return []Reply{{
				Text:     additionalOfferText(header, region, user.Departments),
				Keyboard: KeyboardAdditional,
			}}
		}
	}

	m.Sessions.Put(identity, &Session{Step: StepFirstName})
	return []Reply{{Text: textFirstNamePrompt, Keyboard: KeyboardBack}}
}

// Text handles a free-text inbound event for the identity's current step.
func (m *Machine) Text(ctx context.Context, identity, text string) []Reply {
	s, ok := m.Sessions.Get(identity)
	if !ok {
		return []Reply{{Text: textNoSession}}
	}

	switch s.Step {
	case StepFirstName:
		return m.nameStep(identity, s, text, textFirstNameShort, func(v string) {
			s.FirstName = v
			s.Step = StepLastName
		}, Reply{Text: textLastNamePrompt, Keyboard: KeyboardBack})

	case StepLastName:
		return m.nameStep(identity, s, text, textLastNameShort, func(v string) {
			s.LastName = v
			s.Step = StepMiddleName
		}, Reply{Text: textMiddleNamePrompt, Keyboard: KeyboardBack})

	case StepMiddleName:
		return m.middleNameStep(ctx, identity, s, text)

	case StepRegion:
		return m.regionStep(ctx, identity, s, text)

	case StepDepartments:
		return m.departmentsStep(identity, s, text)

	case StepConfirmation, StepAdditionalDecision:
		return []Reply{{Text: textUseButtons}}

	default:
		m.Sessions.Delete(identity)
		return []Reply{{Text: textNoSession}}
	}
}

// Choice handles a discrete choice signal (inline keyboard press).
func (m *Machine) Choice(ctx context.Context, identity, data string) []Reply {
	switch data {
	case ChoiceBack:
		return m.back(ctx, identity)
	case ChoiceConfirmYes, ChoiceConfirmNo:
		return m.confirmation(ctx, identity, data == ChoiceConfirmYes)
	case ChoiceAdditionalYes, ChoiceAdditionalNo:
		return m.additionalDecision(ctx, identity, data == ChoiceAdditionalYes)
	default:
		return []Reply{{Text: textNoSession}}
	}
}

// Status handles the status command: the latest request formatted for the
// requester. Any in-flight session is discarded afterwards.
func (m *Machine) Status(ctx context.Context, identity string) []Reply {
	defer m.Sessions.Delete(identity)

	latest, err := m.Requests.Latest(ctx, identity)
	if err != nil {
		if errors.Is(err, services.ErrRequestNotFound) {
			return []Reply{{Text: textNoRequests}}
		}
		m.Log.Error().Err(err).Str("identity", identity).Msg("status lookup failed")
		return []Reply{{Text: textRetryLater}}
	}
	return []Reply{{Text: statusText(latest)}}
}

// nameStep validates a name part (min 2 runes after trimming) and advances.
func (m *Machine) nameStep(identity string, s *Session, text, tooShort string, apply func(string), next Reply) []Reply {
	v := strings.TrimSpace(text)
	if utf8.RuneCountInString(v) < 2 {
		return []Reply{{Text: tooShort, Keyboard: KeyboardBack}}
	}
	apply(v)
	m.Sessions.Put(identity, s)
	return []Reply{next}
}

// middleNameStep accepts the middle name and branches to the region step
// when enabled, otherwise straight to departments. Without the region step
// the sentinel "-" means an intentionally blank middle name.
func (m *Machine) middleNameStep(ctx context.Context, identity string, s *Session, text string) []Reply {
	v := strings.TrimSpace(text)
	if !m.Caps.Region && v == "-" {
		v = ""
	} else if utf8.RuneCountInString(v) < 2 {
		return []Reply{{Text: textMiddleNameShort, Keyboard: KeyboardBack}}
	}
	s.MiddleName = v

	if m.Caps.Region {
		s.Step = StepRegion
		m.Sessions.Put(identity, s)
		return []Reply{{Text: regionPromptText(m.Regions), Keyboard: KeyboardBack}}
	}
	return m.enterDepartments(ctx, identity, s)
}

// regionStep resolves the region input and advances to departments.
func (m *Machine) regionStep(ctx context.Context, identity string, s *Session, text string) []Reply {
	region, ok := ResolveRegion(text, m.Regions)
	if !ok {
		return []Reply{{Text: textRegionInvalid, Keyboard: KeyboardBack}}
	}
	s.Region = region
	s.Departments = nil
	return m.enterDepartments(ctx, identity, s)
}

// departmentsStep validates the selection against the session's catalog
// snapshot. Duplicates are deduplicated preserving first occurrence; any
// out-of-range index rejects the whole input.
func (m *Machine) departmentsStep(identity string, s *Session, text string) []Reply {
	if len(s.Catalog) == 0 {
		// Snapshot missing (catalog was empty at entry); nothing to select.
		return []Reply{{Text: textCatalogEmpty, Keyboard: KeyboardBack}}
	}

	indices, err := ParseSelection(text, len(s.Catalog))
	if err != nil {
		var msg string
		switch {
		case errors.Is(err, ErrSelectionEmpty):
			msg = textSelectionEmpty
		case errors.Is(err, ErrSelectionOutOfRange):
			msg = textSelectionOutOfRange
		default:
			msg = textSelectionBadFormat
		}
		return []Reply{{Text: msg, Keyboard: KeyboardBack}}
	}

	selected := make([]string, 0, len(indices))
	for _, idx := range indices {
		selected = append(selected, s.Catalog[idx-1])
	}
	s.Departments = selected
	s.Step = StepConfirmation
	m.Sessions.Put(identity, s)
	return []Reply{{Text: confirmationText(selected), Keyboard: KeyboardConfirm}}
}

// enterDepartments captures a fresh catalog snapshot and moves the session
// to the departments step. On store failure the session keeps its previous
// step so the requester can retry.
func (m *Machine) enterDepartments(ctx context.Context, identity string, s *Session) []Reply {
	entries, err := m.Catalog.List(ctx)
	if err != nil {
		m.Log.Error().Err(err).Str("identity", identity).Msg("catalog fetch failed")
		return []Reply{{Text: textRetryLater}}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	s.Catalog = names
	s.Step = StepDepartments
	m.Sessions.Put(identity, s)

	if len(names) == 0 {
		return []Reply{{Text: textCatalogEmpty, Keyboard: KeyboardBack}}
	}
	return []Reply{{Text: departmentsPromptText(names), Keyboard: KeyboardBack}}
}

// additionalDecision handles the yes/no answer of the additional branch.
func (m *Machine) additionalDecision(ctx context.Context, identity string, yes bool) []Reply {
	s, ok := m.Sessions.Get(identity)
	if !ok || s.Step != StepAdditionalDecision {
		return []Reply{{Text: textNoSession}}
	}
	if !yes {
		m.Sessions.Delete(identity)
		return []Reply{{Text: textOperationAborted}}
	}
	s.IsAdditional = true
	s.Departments = nil
	return m.enterDepartments(ctx, identity, s)
}

// confirmation handles the final yes/no. Affirmative submits to the store
// and maps the tagged outcome to its reply; negative loops back to the
// departments step with the selection cleared.
func (m *Machine) confirmation(ctx context.Context, identity string, yes bool) []Reply {
	s, ok := m.Sessions.Get(identity)
	if !ok || s.Step != StepConfirmation {
		return []Reply{{Text: textNoSession}}
	}

	if !yes {
		s.Departments = nil
		return m.enterDepartments(ctx, identity, s)
	}

	region := s.Region
	if region == dash {
		region = ""
	}
	in := domain.CreateRequestInput{
		FullName:     assembleFullName(s.FirstName, s.LastName, s.MiddleName),
		TelegramID:   identity,
		Region:       region,
		Departments:  s.Departments,
		IsAdditional: s.IsAdditional,
		TargetUserID: s.TargetUserID,
	}

	// The session ends here either way: success, conflict, or fault. A
	// failed create is never retried automatically.
	m.Sessions.Delete(identity)

	res, err := m.Requests.Create(ctx, in)
	if err != nil {
		m.Log.Error().Err(err).Str("identity", identity).Msg("request create failed")
		return []Reply{{Text: textRetryLater}}
	}

	switch res.Outcome {
	case domain.OutcomeAlreadyActive:
		return []Reply{{Text: textAlreadyActive}}
	case domain.OutcomeAlreadyProcessed:
		latest, lerr := m.Requests.Latest(ctx, identity)
		if lerr != nil {
			return []Reply{{Text: "✅ Ваша заявка уже обработана."}}
		}
		return []Reply{{Text: processedRequestText(latest)}}
	default:
		m.Log.Info().
			Str("identity", identity).
			Int64("request_id", res.RequestID).
			Strs("missing", res.Missing).
			Msg("request created")
		return []Reply{{Text: createdText(res, in.IsAdditional, region, s.Departments)}}
	}
}

// back moves one step backwards in the chain, replaying the previous
// prompt. From the first step it cancels the whole session.
func (m *Machine) back(ctx context.Context, identity string) []Reply {
	s, ok := m.Sessions.Get(identity)
	if !ok {
		return []Reply{{Text: textCancelled}}
	}

	switch s.Step {
	case StepFirstName:
		m.Sessions.Delete(identity)
		return []Reply{{Text: textCancelled}}

	case StepLastName:
		s.Step = StepFirstName
		m.Sessions.Put(identity, s)
		return []Reply{{Text: textFirstNamePrompt, Keyboard: KeyboardBack}}

	case StepMiddleName:
		s.Step = StepLastName
		m.Sessions.Put(identity, s)
		return []Reply{{Text: textLastNamePrompt, Keyboard: KeyboardBack}}

	case StepRegion:
		s.Step = StepMiddleName
		m.Sessions.Put(identity, s)
		return []Reply{{Text: textMiddleNamePrompt, Keyboard: KeyboardBack}}

	case StepDepartments:
		s.Departments = nil
		if s.IsAdditional || s.TargetUserID != nil {
			s.Step = StepAdditionalDecision
			m.Sessions.Put(identity, s)
			return []Reply{{Text: textAdditionalPrompt, Keyboard: KeyboardAdditional}}
		}
		if m.Caps.Region {
			s.Step = StepRegion
			m.Sessions.Put(identity, s)
			return []Reply{{Text: regionPromptText(m.Regions), Keyboard: KeyboardBack}}
		}
		s.Step = StepMiddleName
		m.Sessions.Put(identity, s)
		return []Reply{{Text: textMiddleNamePrompt, Keyboard: KeyboardBack}}

	case StepConfirmation:
		return m.enterDepartments(ctx, identity, s)

	default:
		m.Sessions.Delete(identity)
		return []Reply{{Text: textCancelled}}
	}
}

// assembleFullName joins the non-empty name parts as "Last First Middle",
// falling back part by part so the stored value is never empty.
func assembleFullName(first, last, middle string) string {
	var parts []string
	for _, p := range []string{last, first, middle} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "Не указано"
	}
	return strings.Join(parts, " ")
}
