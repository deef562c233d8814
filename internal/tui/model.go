package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/soyeahso/relay/internal/render"
	"github.com/soyeahso/relay/internal/session"
)

const (
	title       = "Multi-Agent Chat"
	placeholder = "Type your message... (Alt+Enter for new line)"
	help        = "enter send • alt+enter newline • ctrl+l load sample data • ctrl+c quit"
	noUser      = "No user id configured. Set user.id in the config or RELAY_USER_ID."

	inputHeight = 3
	// title, header, typing line, help line and the gap above the input.
	chromeHeight = 5
)

type sendResultMsg struct {
	outcome session.Outcome
	err     error
}

type sampleCheckedMsg struct{ has bool }

type populateResultMsg struct{ outcome session.Outcome }

// Model is the bubbletea model for one chat session.
type Model struct {
	ctx   context.Context
	ctrl  *session.Controller
	theme render.Theme

	viewport viewport.Model
	input    textarea.Model
	spinner  spinner.Model

	// progress holds the revealed prefix of each reply still animating.
	progress map[string]string
	sending  bool
	notice   string

	width  int
	height int
	ready  bool
}

// New builds the chat model around ctrl.
func New(ctx context.Context, ctrl *session.Controller, theme render.Theme) Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.SetHeight(inputHeight)
	ta.KeyMap.InsertNewline.SetEnabled(false)
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Line
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)

	m := Model{
		ctx:      ctx,
		ctrl:     ctrl,
		theme:    theme,
		viewport: viewport.New(80, 20),
		input:    ta,
		spinner:  sp,
		progress: make(map[string]string),
	}
	if ctrl.State().UserID == "" {
		m.notice = noUser
		m.input.Blur()
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textarea.Blink}
	if m.ctrl.State().UserID != "" {
		cmds = append(cmds, m.checkSampleData())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.SetWidth(msg.Width)
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-inputHeight-chromeHeight)
		m.ready = true
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.submit()
		case "alt+enter":
			if m.inputEnabled() {
				m.input.InsertString("\n")
			}
			return m, nil
		case "ctrl+l":
			return m.populate()
		case "pgup", "pgdown":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		if !m.inputEnabled() {
			return m, nil
		}

	case appendedMsg:
		if msg.msg.Revealing() {
			m.progress[msg.msg.ID] = ""
		}
		m.refresh()
		return m, nil

	case revealMsg:
		m.progress[msg.id] = msg.prefix
		m.refresh()
		return m, nil

	case revealDoneMsg:
		delete(m.progress, msg.id)
		m.refresh()
		return m, nil

	case sendResultMsg:
		m.sending = false
		if msg.err != nil {
			m.notice = msg.err.Error()
		}
		m.input.Focus()
		m.refresh()
		return m, nil

	case sampleCheckedMsg, populateResultMsg:
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	st := m.ctrl.State()

	var b strings.Builder
	b.WriteString(m.theme.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render(render.Header(st.CurrentAgent)))
	if badge := sampleBadge(st); badge != "" {
		b.WriteString("  " + m.theme.Muted.Render(badge))
	}
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")

	switch {
	case m.sending:
		b.WriteString(m.spinner.View() + " " + render.Typing(st.CurrentAgent))
	case m.notice != "":
		b.WriteString(m.theme.System.Render(m.notice))
	}
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render(help))
	return b.String()
}

func (m Model) inputEnabled() bool {
	return !m.sending && m.ctrl.State().CanSend()
}

func (m Model) busy() bool {
	return m.sending || m.ctrl.State().PopulatingData
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if !m.inputEnabled() {
		return m, nil
	}
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}

	m.input.Reset()
	m.input.Blur()
	m.sending = true
	m.notice = ""

	ctrl, ctx := m.ctrl, m.ctx
	send := func() tea.Msg {
		out, err := ctrl.HandleSend(ctx, text)
		return sendResultMsg{outcome: out, err: err}
	}
	return m, tea.Batch(send, m.spinner.Tick)
}

func (m Model) populate() (tea.Model, tea.Cmd) {
	st := m.ctrl.State()
	if m.sending || st.Sending || st.UserID == "" || st.PopulatingData || st.SampleData != session.SampleDataMissing {
		return m, nil
	}

	ctrl, ctx := m.ctrl, m.ctx
	run := func() tea.Msg {
		out, _ := ctrl.PopulateSampleData(ctx)
		return populateResultMsg{outcome: out}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m Model) checkSampleData() tea.Cmd {
	ctrl, ctx := m.ctrl, m.ctx
	return func() tea.Msg {
		has, _ := ctrl.CheckSampleData(ctx)
		return sampleCheckedMsg{has: has}
	}
}

// refresh redraws the transcript and keeps the newest entry in view.
func (m *Model) refresh() {
	content := m.theme.Transcript(m.ctrl.Messages(), m.progress)
	if m.viewport.Width > 0 {
		content = lipgloss.NewStyle().Width(m.viewport.Width).Render(content)
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func sampleBadge(st session.State) string {
	switch {
	case st.PopulatingData:
		return "Loading..."
	case st.SampleData == session.SampleDataMissing:
		return "[ctrl+l] Load Sample Data"
	case st.SampleData == session.SampleDataPresent:
		return "Sample Data Ready"
	default:
		return ""
	}
}

// Run shows the chat screen until the user quits. Pending reveals are
// cancelled once the program has exited.
func Run(ctx context.Context, ctrl *session.Controller, bridge *Bridge, theme render.Theme) error {
	p := tea.NewProgram(New(ctx, ctrl, theme), tea.WithAltScreen(), tea.WithContext(ctx))
	bridge.Attach(p)
	_, err := p.Run()
	ctrl.Close()
	return err
}
