// Package tui hosts the Bubble Tea program for the migration console.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/sgaunet/s3migrate/pkg/orchestrate"
	"github.com/sgaunet/s3migrate/pkg/state"
)

// Model is the Bubble Tea model wrapping the state machine and the
// orchestrator. Remote calls run synchronously inside Update: input is
// not processed while a call is outstanding, which keeps the status
// feed strictly ordered.
type Model struct {
	ctx  context.Context
	st   *state.Machine
	orch *orchestrate.Orchestrator

	nameInput    textinput.Model
	patternInput textinput.Model

	width  int
	height int
}

// New builds the model and performs the initial bucket load so the
// first frame already shows data.
func New(ctx context.Context, st *state.Machine, orch *orchestrate.Orchestrator) *Model {
	name := textinput.New()
	name.Prompt = ""
	name.CharLimit = 64
	pattern := textinput.New()
	pattern.Prompt = ""
	pattern.CharLimit = 256

	m := &Model{
		ctx:          ctx,
		st:           st,
		orch:         orch,
		nameInput:    name,
		patternInput: pattern,
	}
	st.Push("Loading buckets...")
	orch.LoadBuckets(ctx)
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model. Dispatch is mode-dependent: overlays and
// editors consume their keys before the browsing bindings apply.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.st.Mode() {
	case state.ModeShowingHelp:
		switch msg.String() {
		case "esc", "enter", "?":
			m.st.CloseOverlay()
		}
		return m, nil
	case state.ModeViewingLog:
		switch msg.String() {
		case "esc", "enter", "l", "L":
			m.st.CloseOverlay()
		}
		return m, nil
	case state.ModeEditingMask:
		return m.handleMaskEditorKey(msg)
	case state.ModeSelectingStorageClass:
		return m.handleClassPickerKey(msg)
	case state.ModeConfirming:
		return m.handleConfirmKey(msg)
	}
	return m.handleBrowsingKey(msg)
}

func (m *Model) handleBrowsingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	sel := m.st.Selection()
	switch msg.String() {
	case "q", "ctrl+c":
		if m.st.CanQuit() {
			return m, tea.Quit
		}
	case "tab":
		m.st.NextPane()
	case "shift+tab":
		m.st.PrevPane()
	case "up":
		m.moveSelection(-1)
	case "down":
		m.moveSelection(1)
	case "pgup":
		m.moveSelection(-5)
	case "pgdown":
		m.moveSelection(5)
	case "home":
		m.jumpSelection(true)
	case "end":
		m.jumpSelection(false)
	case "enter":
		if m.st.Pane() == state.PaneBuckets {
			m.orch.LoadObjects(m.ctx)
		}
	case "m":
		m.st.BeginMaskEdit()
		m.seedMaskInputs()
	case "f":
		m.st.Push("Refreshing buckets...")
		m.orch.LoadBuckets(m.ctx)
	case "i":
		m.orch.RefreshSelectedObject(m.ctx)
	case "s":
		if err := m.st.BeginStorageSelect(state.IntentTransition); err != nil {
			m.st.Push("Storage selection unavailable: " + err.Error())
		}
	case "r":
		if err := m.st.BeginRestore(m.orch.RestoreDays()); err != nil {
			m.st.Push("Cannot request restore: " + err.Error())
		}
	case "p":
		if err := m.st.BeginStorageSelect(state.IntentSavePolicy); err != nil {
			m.st.Push("Cannot save policy: " + err.Error())
		} else {
			m.st.Push("Select target storage class for policy")
		}
	case "?":
		m.st.OpenHelp()
	case "l", "L":
		m.st.OpenLog()
	case "esc":
		if sel.ActiveMask() != nil {
			sel.ApplyMask(nil)
		}
	}
	return m, nil
}

func (m *Model) handleMaskEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.st.CancelMaskEdit()
		m.blurMaskInputs()
		return m, nil
	case "enter":
		m.syncDraftFromInputs()
		m.st.ConfirmMaskEdit()
		if m.st.Mode() != state.ModeEditingMask {
			m.blurMaskInputs()
		}
		return m, nil
	case "tab":
		m.st.NextDraftField()
		m.focusDraftInput()
		return m, nil
	case "shift+tab":
		m.st.PrevDraftField()
		m.focusDraftInput()
		return m, nil
	}

	switch m.st.DraftField() {
	case state.FieldKind:
		switch msg.String() {
		case "left":
			m.st.CycleDraftKind(true)
		case "right", " ":
			m.st.CycleDraftKind(false)
		}
		return m, nil
	case state.FieldCase:
		if msg.String() == " " {
			m.st.ToggleDraftCase()
		}
		return m, nil
	case state.FieldName:
		var cmd tea.Cmd
		m.nameInput, cmd = m.nameInput.Update(msg)
		m.syncDraftFromInputs()
		return m, cmd
	default:
		var cmd tea.Cmd
		m.patternInput, cmd = m.patternInput.Update(msg)
		m.syncDraftFromInputs()
		return m, cmd
	}
}

func (m *Model) handleClassPickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.st.CancelStorageSelect()
	case "up":
		m.st.MoveClassCursor(-1)
	case "down":
		m.st.MoveClassCursor(1)
	case "enter":
		m.st.ConfirmClassChoice()
	}
	return m, nil
}

func (m *Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "n":
		m.st.Cancel()
	case "enter", "y":
		if action := m.st.TakePending(); action != nil {
			m.orch.Execute(m.ctx, action)
		}
	case "o":
		m.st.ToggleRestoreFirst()
	}
	return m, nil
}

func (m *Model) moveSelection(delta int) {
	switch m.st.Pane() {
	case state.PaneBuckets:
		m.st.Selection().MoveBucket(delta)
	case state.PaneObjects:
		m.st.Selection().MoveObject(delta)
	}
}

func (m *Model) jumpSelection(toStart bool) {
	switch m.st.Pane() {
	case state.PaneBuckets:
		m.st.Selection().JumpBucket(toStart)
	case state.PaneObjects:
		m.st.Selection().JumpObject(toStart)
	}
}

func (m *Model) seedMaskInputs() {
	draft := m.st.Draft()
	m.nameInput.SetValue(draft.Name)
	m.patternInput.SetValue(draft.Pattern)
	m.focusDraftInput()
}

func (m *Model) syncDraftFromInputs() {
	draft := m.st.Draft()
	draft.Name = m.nameInput.Value()
	draft.Pattern = m.patternInput.Value()
}

func (m *Model) focusDraftInput() {
	m.nameInput.Blur()
	m.patternInput.Blur()
	switch m.st.DraftField() {
	case state.FieldName:
		m.nameInput.Focus()
	case state.FieldPattern:
		m.patternInput.Focus()
	}
}

func (m *Model) blurMaskInputs() {
	m.nameInput.Blur()
	m.patternInput.Blur()
}
