// Package state owns the mutable console state: the selection model,
// the interaction state machine and the bounded status log. A single
// goroutine mutates it, there is no internal locking.
package state

import (
	"fmt"

	"github.com/sgaunet/s3migrate/pkg/dto"
	"github.com/sgaunet/s3migrate/pkg/mask"
	"github.com/sgaunet/s3migrate/pkg/policy"
	"github.com/sgaunet/s3migrate/pkg/s3err"
)

// Mode is the interaction mode of the console.
type Mode int

const (
	ModeBrowsing Mode = iota
	ModeEditingMask
	ModeConfirming
	ModeSelectingStorageClass
	ModeShowingHelp
	ModeViewingLog
)

// Pane identifies the focused pane while browsing.
type Pane int

const (
	PaneBuckets Pane = iota
	PaneObjects
	PaneMaskEditor
	PanePolicies
)

// Next cycles the pane focus forward.
func (p Pane) Next() Pane { return (p + 1) % 4 }

// Prev cycles the pane focus backward.
func (p Pane) Prev() Pane { return (p + 3) % 4 }

// Intent distinguishes why the storage class picker is open.
type Intent int

const (
	IntentTransition Intent = iota
	IntentSavePolicy
)

// MaskField is the field focused inside the mask editor.
type MaskField int

const (
	FieldName MaskField = iota
	FieldPattern
	FieldKind
	FieldCase
)

// Next cycles the editor focus forward.
func (f MaskField) Next() MaskField { return (f + 1) % 4 }

// Prev cycles the editor focus backward.
func (f MaskField) Prev() MaskField { return (f + 3) % 4 }

// MaskDraft is the mask being edited. Its pattern may be empty only
// while editing, never once applied.
type MaskDraft struct {
	Name          string
	Pattern       string
	Kind          mask.Kind
	CaseSensitive bool
}

func defaultDraft() MaskDraft {
	return MaskDraft{Name: "Untitled mask", Kind: mask.KindPrefix}
}

// PendingAction is an intent awaiting operator confirmation. Exactly
// one exists at a time; it is created entering ModeConfirming and
// consumed leaving it.
type PendingAction interface {
	pendingAction()
}

// TransitionAction migrates the current batch to Target.
type TransitionAction struct {
	Target       dto.StorageClass
	RestoreFirst bool
}

// RestoreAction requests a temporary restore of the current batch.
type RestoreAction struct {
	Days int32
}

// SavePolicyAction persists the active mask and Target as a policy.
type SavePolicyAction struct {
	Target dto.StorageClass
}

func (*TransitionAction) pendingAction() {}
func (*RestoreAction) pendingAction()    {}
func (*SavePolicyAction) pendingAction() {}

// Machine is the interaction state machine. All transitions of the
// console go through its methods so they can be tested without a
// rendering layer.
type Machine struct {
	mode   Mode
	pane   Pane
	sel    Selection
	status StatusLog

	draft      MaskDraft
	draftField MaskField

	classCursor int
	intent      Intent
	pending     PendingAction

	policies []policy.Policy
}

// NewMachine builds a machine in ModeBrowsing with the given visible
// policy list.
func NewMachine(policies []policy.Policy) *Machine {
	m := &Machine{
		mode:     ModeBrowsing,
		pane:     PaneBuckets,
		draft:    defaultDraft(),
		policies: policies,
	}
	m.sel.log = &m.status
	return m
}

// Mode returns the current interaction mode.
func (m *Machine) Mode() Mode { return m.mode }

// Pane returns the focused pane.
func (m *Machine) Pane() Pane { return m.pane }

// Selection returns the selection model.
func (m *Machine) Selection() *Selection { return &m.sel }

// Status returns the status log.
func (m *Machine) Status() *StatusLog { return &m.status }

// Draft returns the mask draft being edited.
func (m *Machine) Draft() *MaskDraft { return &m.draft }

// DraftField returns the focused mask editor field.
func (m *Machine) DraftField() MaskField { return m.draftField }

// ClassCursor returns the storage class picker cursor.
func (m *Machine) ClassCursor() int { return m.classCursor }

// Intent returns why the class picker is open.
func (m *Machine) Intent() Intent { return m.intent }

// Pending returns the pending action, nil outside ModeConfirming.
func (m *Machine) Pending() PendingAction { return m.pending }

// Policies returns the visible policy list.
func (m *Machine) Policies() []policy.Policy { return m.policies }

// SetPolicies replaces the visible policy list.
func (m *Machine) SetPolicies(policies []policy.Policy) { m.policies = policies }

// Push appends a message to the status log.
func (m *Machine) Push(msg string) { m.status.Push(msg) }

// NextPane moves the pane focus forward.
func (m *Machine) NextPane() { m.pane = m.pane.Next() }

// PrevPane moves the pane focus backward.
func (m *Machine) PrevPane() { m.pane = m.pane.Prev() }

// CanQuit reports whether a quit signal may fire: browsing only.
func (m *Machine) CanQuit() bool { return m.mode == ModeBrowsing }

// BeginMaskEdit opens the mask editor. The draft is reset to defaults
// unless a mask is active, in which case it is seeded from it.
func (m *Machine) BeginMaskEdit() {
	if m.mode != ModeBrowsing {
		return
	}
	if active := m.sel.ActiveMask(); active != nil {
		m.draft = MaskDraft{
			Name:          active.Name,
			Pattern:       active.Pattern,
			Kind:          active.Kind,
			CaseSensitive: active.CaseSensitive,
		}
	} else {
		m.draft = defaultDraft()
	}
	m.draftField = FieldPattern
	m.mode = ModeEditingMask
	m.Push("Mask editor active - Tab moves between fields, arrows/space adjust options, Enter applies")
}

// CancelMaskEdit discards the draft and returns to browsing.
func (m *Machine) CancelMaskEdit() {
	m.mode = ModeBrowsing
	m.Push("Mask edit cancelled")
}

// ConfirmMaskEdit compiles and applies the draft. An empty pattern or a
// regex that does not compile keeps the editor open and leaves any
// active mask untouched.
func (m *Machine) ConfirmMaskEdit() {
	if m.draft.Pattern == "" {
		m.Push("Mask pattern cannot be empty")
		return
	}
	compiled, err := mask.Compile(m.draft.Name, m.draft.Pattern, m.draft.Kind, m.draft.CaseSensitive)
	if err != nil {
		m.Push(fmt.Sprintf("Mask rejected: %v", err))
		return
	}
	m.sel.ApplyMask(compiled)
	m.mode = ModeBrowsing
}

// FocusDraftField focuses a mask editor field.
func (m *Machine) FocusDraftField(f MaskField) { m.draftField = f }

// NextDraftField cycles the editor focus forward.
func (m *Machine) NextDraftField() { m.draftField = m.draftField.Next() }

// PrevDraftField cycles the editor focus backward.
func (m *Machine) PrevDraftField() { m.draftField = m.draftField.Prev() }

// CycleDraftKind cycles the draft match kind.
func (m *Machine) CycleDraftKind(backwards bool) {
	if backwards {
		m.draft.Kind = m.draft.Kind.Prev()
	} else {
		m.draft.Kind = m.draft.Kind.Next()
	}
}

// ToggleDraftCase flips the draft case sensitivity.
func (m *Machine) ToggleDraftCase() {
	m.draft.CaseSensitive = !m.draft.CaseSensitive
}

// BeginStorageSelect opens the storage class picker for the given
// intent. Preconditions are validated here; on failure the mode does
// not change and the error is returned for status display.
func (m *Machine) BeginStorageSelect(intent Intent) error {
	if m.mode != ModeBrowsing {
		return nil
	}
	if m.sel.SelectedBucketName() == "" {
		return s3err.Validationf("select a bucket first")
	}
	switch intent {
	case IntentTransition:
		if m.sel.TargetCount() == 0 {
			return s3err.Validationf("select at least one object (mask or row)")
		}
	case IntentSavePolicy:
		if m.sel.ActiveMask() == nil {
			return s3err.Validationf("apply a mask before saving a policy")
		}
	}
	m.intent = intent
	m.classCursor = 0
	m.mode = ModeSelectingStorageClass
	return nil
}

// CancelStorageSelect closes the picker without creating an action.
func (m *Machine) CancelStorageSelect() {
	m.mode = ModeBrowsing
}

// MoveClassCursor moves the picker cursor, clamped to the selectable set.
func (m *Machine) MoveClassCursor(delta int) {
	m.classCursor = clampMove(m.classCursor, delta, len(dto.SelectableClasses()))
}

// ConfirmClassChoice creates the pending action for the picker intent
// and enters ModeConfirming.
func (m *Machine) ConfirmClassChoice() {
	classes := dto.SelectableClasses()
	if m.classCursor < 0 || m.classCursor >= len(classes) {
		return
	}
	target := classes[m.classCursor]
	switch m.intent {
	case IntentTransition:
		m.pending = &TransitionAction{Target: target}
		m.Push(fmt.Sprintf("Confirm transition to %s (press Enter to confirm)", target.Label()))
	case IntentSavePolicy:
		m.pending = &SavePolicyAction{Target: target}
		m.Push("Confirm saving policy")
	}
	m.mode = ModeConfirming
}

// BeginRestore creates a restore pending action and enters
// ModeConfirming. Preconditions mirror the transition flow.
func (m *Machine) BeginRestore(days int32) error {
	if m.mode != ModeBrowsing {
		return nil
	}
	if m.sel.SelectedBucketName() == "" || m.sel.TargetCount() == 0 {
		return s3err.Validationf("select objects to restore first")
	}
	m.pending = &RestoreAction{Days: days}
	m.mode = ModeConfirming
	m.Push("Confirm restore request (Enter to proceed, Esc to cancel)")
	return nil
}

// ToggleRestoreFirst flips the restore-first flag of a pending
// transition. Other pending variants are unaffected.
func (m *Machine) ToggleRestoreFirst() {
	t, ok := m.pending.(*TransitionAction)
	if !ok {
		return
	}
	t.RestoreFirst = !t.RestoreFirst
	if t.RestoreFirst {
		m.Push("Will request restore before transition")
	} else {
		m.Push("Restore before transition disabled")
	}
}

// Cancel discards the pending action and returns to browsing.
func (m *Machine) Cancel() {
	m.pending = nil
	m.mode = ModeBrowsing
	m.Push("Cancelled")
}

// TakePending removes and returns the pending action, returning the
// machine to browsing. The caller executes the action; the mode change
// does not depend on the outcome.
func (m *Machine) TakePending() PendingAction {
	action := m.pending
	m.pending = nil
	m.mode = ModeBrowsing
	return action
}

// OpenHelp shows the help overlay.
func (m *Machine) OpenHelp() {
	if m.mode == ModeBrowsing {
		m.mode = ModeShowingHelp
	}
}

// OpenLog shows the status log overlay.
func (m *Machine) OpenLog() {
	if m.mode == ModeBrowsing {
		m.mode = ModeViewingLog
	}
}

// CloseOverlay closes the help or log overlay.
func (m *Machine) CloseOverlay() {
	if m.mode == ModeShowingHelp || m.mode == ModeViewingLog {
		m.mode = ModeBrowsing
	}
}
