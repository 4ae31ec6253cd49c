package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sgaunet/s3migrate/pkg/dto"
	"github.com/sgaunet/s3migrate/pkg/state"
)

var (
	activeBorder   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("14"))
	inactiveBorder = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("8"))
	titleStyle     = lipgloss.NewStyle().Bold(true)
	markerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	classStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	fieldStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	modalStyle     = lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).Padding(1, 2)
	helpStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	switch m.st.Mode() {
	case state.ModeEditingMask:
		return m.centered(m.maskEditorView())
	case state.ModeSelectingStorageClass:
		return m.centered(m.classPickerView())
	case state.ModeConfirming:
		return m.centered(m.confirmView())
	case state.ModeShowingHelp:
		return m.centered(helpView())
	case state.ModeViewingLog:
		return m.centered(m.logView())
	}
	return m.browsingView()
}

func (m *Model) browsingView() string {
	statusHeight := 6
	paneHeight := m.height - statusHeight
	if paneHeight < 4 {
		paneHeight = 4
	}
	bucketsW := m.width * 25 / 100
	objectsW := m.width * 45 / 100
	sideW := m.width - bucketsW - objectsW

	main := lipgloss.JoinHorizontal(lipgloss.Top,
		m.bucketsPane(bucketsW, paneHeight),
		m.objectsPane(objectsW, paneHeight),
		m.sidePane(sideW, paneHeight),
	)
	return lipgloss.JoinVertical(lipgloss.Left, main, m.statusPane())
}

func (m *Model) pane(title, body string, width, height int, active bool) string {
	style := inactiveBorder
	if active {
		style = activeBorder
	}
	content := titleStyle.Render(title) + "\n" + body
	return style.Width(width - 2).Height(height - 2).Render(content)
}

func (m *Model) bucketsPane(width, height int) string {
	sel := m.st.Selection()
	buckets := sel.Buckets()
	var b strings.Builder
	for idx, bucket := range buckets {
		marker := "  "
		if idx == sel.BucketIndex() {
			marker = markerStyle.Render("> ")
		}
		region := bucket.Region
		if region == "" {
			region = "region unresolved"
		}
		fmt.Fprintf(&b, "%s%s %s\n", marker, bucket.Name, dimStyle.Render(region))
	}
	title := fmt.Sprintf("Buckets (%d) - Enter to load objects", len(buckets))
	return m.pane(title, b.String(), width, height, m.st.Pane() == state.PaneBuckets)
}

func (m *Model) objectsPane(width, height int) string {
	sel := m.st.Selection()
	objects := sel.ActiveObjects()
	title := "Objects"
	if active := sel.ActiveMask(); active != nil {
		title = "Objects - mask: " + active.Summary()
	}
	var b strings.Builder
	for idx, obj := range objects {
		marker := "  "
		if idx == sel.ObjectIndex() {
			marker = markerStyle.Render("> ")
		}
		fmt.Fprintf(&b, "%s%s %s %s\n",
			marker, obj.Key,
			dimStyle.Render(dto.HumanSize(obj.Size)),
			classStyle.Render(obj.StorageClass.Label()))
	}
	return m.pane(title, b.String(), width, height, m.st.Pane() == state.PaneObjects)
}

func (m *Model) sidePane(width, height int) string {
	detail := m.objectDetail()
	maskPanel := m.maskPanel()
	policies := m.policyPanel()
	body := strings.Join([]string{detail, "", maskPanel, "", policies}, "\n")
	active := m.st.Pane() == state.PaneMaskEditor || m.st.Pane() == state.PanePolicies
	return m.pane("Details", body, width, height, active)
}

func (m *Model) objectDetail() string {
	obj := m.st.Selection().SelectedObject()
	if obj == nil {
		return "No object selected"
	}
	modified := "unknown"
	if obj.LastModified != nil {
		modified = obj.LastModified.Format("2006-01-02 15:04:05")
	}
	return strings.Join([]string{
		"Key: " + obj.Key,
		"Size: " + dto.HumanSize(obj.Size),
		"Storage: " + obj.StorageClass.Label(),
		"Last modified: " + modified,
		"Restore: " + obj.Restore.Describe(),
	}, "\n")
}

func (m *Model) maskPanel() string {
	sel := m.st.Selection()
	if active := sel.ActiveMask(); active != nil {
		return fmt.Sprintf("Mask: %s\n%d objects currently targeted",
			active.Summary(), len(sel.ActiveObjects()))
	}
	return "No active mask. Press 'm' to edit."
}

func (m *Model) policyPanel() string {
	policies := m.st.Policies()
	if len(policies) == 0 {
		return "Policies: none saved"
	}
	var b strings.Builder
	b.WriteString("Policies:\n")
	max := len(policies)
	if max > 4 {
		max = 4
	}
	for _, p := range policies[:max] {
		fmt.Fprintf(&b, "%s -> %s (%s)\n", p.Mask.Name, p.TargetClass.Label(), p.Bucket)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m *Model) statusPane() string {
	keys := helpStyle.Render("Tab switch · m mask · s storage · p save-policy · r restore · i inspect · f refresh · Esc clear · ? help · l log · q quit")
	lines := []string{keys}
	entries := m.st.Status().Entries()
	for i := len(entries) - 1; i >= 0 && len(lines) < 5; i-- {
		lines = append(lines, entries[i])
	}
	return inactiveBorder.Width(m.width - 2).Render(strings.Join(lines, "\n"))
}

func (m *Model) maskEditorView() string {
	draft := m.st.Draft()
	field := m.st.DraftField()
	label := func(text string, f state.MaskField) string {
		if field == f {
			return fieldStyle.Render(text)
		}
		return text
	}
	caseValue := "off"
	if draft.CaseSensitive {
		caseValue = "on"
	}
	lines := []string{
		titleStyle.Render("Mask editor"),
		"",
		label("Name: ", state.FieldName) + m.nameInput.View(),
		label("Pattern: ", state.FieldPattern) + m.patternInput.View(),
		label("Match mode: ", state.FieldKind) + draft.Kind.String() + dimStyle.Render("  (use arrows or space)"),
		label("Case sensitive: ", state.FieldCase) + caseValue + dimStyle.Render("  (space toggles)"),
		"",
		helpStyle.Render("Tab moves fields · Enter applies · Esc cancels"),
	}
	return modalStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) classPickerView() string {
	lines := []string{titleStyle.Render("Select storage class"), ""}
	for idx, class := range dto.SelectableClasses() {
		marker := "  "
		if idx == m.st.ClassCursor() {
			marker = markerStyle.Render("> ")
		}
		lines = append(lines, marker+class.Label())
	}
	lines = append(lines, "", helpStyle.Render("Enter confirm · Esc cancel"))
	return modalStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) confirmView() string {
	lines := []string{titleStyle.Render("Confirm operation"), ""}
	switch action := m.st.Pending().(type) {
	case *state.TransitionAction:
		restoreFirst := "no"
		if action.RestoreFirst {
			restoreFirst = "yes"
		}
		lines = append(lines,
			fmt.Sprintf("Transition %d object(s) to %s", m.st.Selection().TargetCount(), action.Target.Label()),
			"Restore before transition: "+restoreFirst,
		)
	case *state.RestoreAction:
		lines = append(lines,
			fmt.Sprintf("Request restore for %d object(s) (%d days)", m.st.Selection().TargetCount(), action.Days),
		)
	case *state.SavePolicyAction:
		lines = append(lines,
			"Save policy with current mask",
			"Bucket: "+m.st.Selection().SelectedBucketName(),
			"Target storage class: "+action.Target.Label(),
		)
	}
	lines = append(lines, "", helpStyle.Render("Enter/y proceed · Esc/n cancel · o toggle restore-first"))
	return modalStyle.Render(strings.Join(lines, "\n"))
}

func helpView() string {
	lines := []string{
		titleStyle.Render("Cheat sheet"),
		"",
		"Navigation: Tab/Shift+Tab switch panes, arrows/pg keys move, Enter loads bucket objects",
		"Masks: 'm' opens the editor, Tab moves between fields, Enter applies, Esc cancels",
		"An active mask targets operations at all matches instead of the selected row",
		"Storage: 's' selects a destination class, 'o' toggles restore-first while confirming",
		"Policies: 'p' saves the current mask + bucket with a chosen target class",
		"Restores: 'r' requests a 7-day restore, 'i' refreshes metadata via HeadObject",
		"Logs: 'l' opens the status log, 'f' refreshes buckets, Esc clears the mask, 'q' quits",
		"",
		helpStyle.Render("Esc/?/Enter to close"),
	}
	return modalStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) logView() string {
	entries := m.st.Status().Entries()
	lines := []string{titleStyle.Render("Status log"), ""}
	if len(entries) == 0 {
		lines = append(lines, "No status messages yet.")
	}
	for i := len(entries) - 1; i >= 0; i-- {
		lines = append(lines, fmt.Sprintf("%2d. %s", len(entries)-i, entries[i]))
	}
	lines = append(lines, "", helpStyle.Render("Esc/l/Enter to close"))
	return modalStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) centered(content string) string {
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}
