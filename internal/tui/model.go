package tui

import (
	"fmt"
	"strings"

	"caseflow-cli/internal/model"
	"caseflow-cli/internal/theme"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// fieldKind says which setter a cursor row maps to.
type fieldKind int

const (
	fieldHeader fieldKind = iota
	fieldAvatar
	fieldText
	fieldMain
	fieldButton
	fieldStatus // status color on the board currently shown
)

type fieldRef struct {
	kind  fieldKind
	label string
	// key is set for fieldStatus rows.
	key model.StatusKey
}

// Model is the interactive theme preview. All reads and writes go through
// the theme manager; the model itself holds no color state beyond the
// cursor and the edit input.
type Model struct {
	manager *theme.Manager

	cursor  int
	editing bool
	input   textinput.Model
	flash   string
	width   int
}

func NewModel(manager *theme.Manager) Model {
	ti := textinput.New()
	ti.Placeholder = "#rrggbb"
	ti.CharLimit = 32
	ti.Prompt = "color: "
	return Model{manager: manager, input: ti, width: 80}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) fields() []fieldRef {
	fields := []fieldRef{
		{kind: fieldHeader, label: "header"},
		{kind: fieldAvatar, label: "avatar"},
		{kind: fieldText, label: "text"},
		{kind: fieldMain, label: "main"},
		{kind: fieldButton, label: "button"},
	}
	for _, k := range model.StatusKeys() {
		fields = append(fields, fieldRef{kind: fieldStatus, label: string(k), key: k})
	}
	return fields
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.fields())-1 {
				m.cursor++
			}
		case "tab":
			// Board toggle is device-local; it never touches the profile.
			if m.manager.CurrentStatusView() == model.StatusViewCases {
				m.manager.SetCurrentStatusView(model.StatusViewTasks)
			} else {
				m.manager.SetCurrentStatusView(model.StatusViewCases)
			}
			m.flash = ""
		case "enter":
			m.editing = true
			m.input.SetValue(m.currentValue())
			m.input.Focus()
			return m, textinput.Blink
		}
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.input.Blur()
		return m, nil
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		m.editing = false
		m.input.Blur()
		if value != "" {
			m.applyValue(value)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) currentValue() string {
	f := m.fields()[m.cursor]
	switch f.kind {
	case fieldHeader:
		return m.manager.HeaderColor()
	case fieldAvatar:
		return m.manager.AvatarColor()
	case fieldText:
		return m.manager.TextColor()
	case fieldMain:
		return m.manager.MainColor()
	case fieldButton:
		return m.manager.ButtonColor()
	case fieldStatus:
		if m.manager.CurrentStatusView() == model.StatusViewTasks {
			return m.manager.TaskStatusColors()[f.key]
		}
		return m.manager.CaseStatusColors()[f.key]
	}
	return ""
}

func (m *Model) applyValue(value string) {
	f := m.fields()[m.cursor]
	switch f.kind {
	case fieldHeader:
		m.manager.SetHeaderColor(value)
		m.flash = fmt.Sprintf("header set; text recomputed to %s", m.manager.TextColor())
	case fieldAvatar:
		m.manager.SetAvatarColor(value)
		m.flash = "avatar set"
	case fieldText:
		m.manager.SetTextColor(value)
		m.flash = "text overridden"
	case fieldMain:
		m.manager.SetMainColor(value)
		m.flash = "main set"
	case fieldButton:
		m.manager.SetButtonColor(value)
		m.flash = "button set"
	case fieldStatus:
		if m.manager.CurrentStatusView() == model.StatusViewTasks {
			m.manager.SetTaskStatusColor(f.key, value)
		} else {
			m.manager.SetCaseStatusColor(f.key, value)
		}
		m.flash = fmt.Sprintf("%s set", f.label)
	}
}

func textToken(token string) lipgloss.Color {
	if token == theme.TextDark {
		return lipgloss.Color("#1f2937")
	}
	return lipgloss.Color("#ffffff")
}

func (m Model) View() string {
	s := m.manager.Snapshot()
	width := m.width
	if width < 40 {
		width = 40
	}

	var b strings.Builder

	header := lipgloss.NewStyle().
		Background(lipgloss.Color(s.HeaderColor)).
		Foreground(textToken(s.TextColor)).
		Bold(true).
		Padding(0, 1).
		Width(width - 2)
	b.WriteString(header.Render("Caseflow — theme preview"))
	b.WriteString("\n\n")

	fields := m.fields()
	statusColors := s.CaseStatusColors
	statusTextColors := s.CaseStatusTextColors
	if s.CurrentStatusView == model.StatusViewTasks {
		statusColors = s.TaskStatusColors
		// Task board reuses the case text tokens for its chips.
	}

	for i, f := range fields {
		if f.kind == fieldStatus && (i == 0 || fields[i-1].kind != fieldStatus) {
			b.WriteString(fmt.Sprintf("\n  %s board\n", s.CurrentStatusView))
		}
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		var line string
		switch f.kind {
		case fieldStatus:
			chip := lipgloss.NewStyle().
				Background(lipgloss.Color(statusColors[f.key])).
				Foreground(textToken(statusTextColors[f.key])).
				Padding(0, 1).
				Render(f.label)
			line = fmt.Sprintf("%s%s %s", cursor, chip, statusColors[f.key])
		default:
			value := m.valueFor(f, s)
			swatch := lipgloss.NewStyle().
				Background(lipgloss.Color(value)).
				Render("      ")
			line = fmt.Sprintf("%s%-8s %s %s", cursor, f.label, swatch, value)
		}
		b.WriteString(xansi.Truncate(line, width, "…"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.editing {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	} else if m.flash != "" {
		b.WriteString("  " + m.flash + "\n")
	}
	b.WriteString("\n  ↑/↓ select · enter edit · tab switch board · q quit\n")
	return b.String()
}

func (m Model) valueFor(f fieldRef, s theme.Settings) string {
	switch f.kind {
	case fieldHeader:
		return s.HeaderColor
	case fieldAvatar:
		return s.AvatarColor
	case fieldText:
		return s.TextColor
	case fieldMain:
		return s.MainColor
	case fieldButton:
		return s.ButtonColor
	}
	return ""
}

// Run starts the interactive preview over an initialized manager.
func Run(manager *theme.Manager) error {
	applyColorProfilePreference()
	p := tea.NewProgram(NewModel(manager), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
