package tui

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Asker is the TUI-facing subset of the FAQ service client.
type Asker interface {
	Ask(ctx context.Context, question string) (string, error)
}

type exchange struct {
	question string
	answer   string
	err      error
}

type answerMsg exchange

// Model is the Bubble Tea model of the FAQ terminal client.
type Model struct {
	client  Asker
	timeout time.Duration
	title   string

	input    textinput.Model
	viewport viewport.Model
	history  []exchange
	status   string
	busy     bool
	ready    bool
}

// New creates the model. title is shown in the header, usually the service
// address.
func New(client Asker, title string, timeout time.Duration) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask a question and press Enter"
	ti.CharLimit = 0
	ti.Focus()

	return Model{
		client:   client,
		timeout:  timeout,
		title:    title,
		input:    ti,
		viewport: viewport.New(0, 0),
		status:   "Ready.",
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, bh := historyBoxStyle.GetFrameSize()
		_, ih := inputBoxStyle.GetFrameSize()
		reserved := 1 + 1 + ih + 1 // header, status, input line
		m.viewport.Width = max(20, msg.Width-historyBoxStyle.GetHorizontalFrameSize())
		m.viewport.Height = max(3, msg.Height-reserved-bh)
		m.refresh()
		return m, nil

	case answerMsg:
		m.busy = false
		m.history = append(m.history, exchange(msg))
		if msg.err != nil {
			m.status = "Error: " + msg.err.Error()
		} else {
			m.status = "Ready."
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyPgUp, tea.KeyPgDown:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		case tea.KeyEnter:
			q := strings.TrimSpace(m.input.Value())
			if q == "" || m.busy {
				return m, nil
			}
			m.busy = true
			m.status = "Thinking…"
			m.input.Reset()
			return m, m.ask(q)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := headerStyle.Render("FAQ") + " " + dimStyle.Render(m.title)
	status := statusStyle.Render(m.status)
	if m.busy {
		status = dimStyle.Render(m.status)
	}

	return header + "\n" +
		historyBoxStyle.Render(m.viewport.View()) + "\n" +
		inputBoxStyle.Render(m.input.View()) + "\n" +
		status
}

// ask runs the request outside the update loop.
func (m Model) ask(question string) tea.Cmd {
	client, timeout := m.client, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		answer, err := client.Ask(ctx, question)
		return answerMsg{question: question, answer: answer, err: err}
	}
}

func (m *Model) refresh() {
	m.viewport.SetContent(renderHistory(m.history, m.viewport.Width))
	m.viewport.GotoBottom()
}

func renderHistory(history []exchange, width int) string {
	if len(history) == 0 {
		return dimStyle.Render("No questions yet.")
	}

	wrap := lipgloss.NewStyle().Width(max(10, width))
	parts := make([]string, 0, len(history))
	for _, e := range history {
		q := questionStyle.Render("Q: ") + e.question
		var a string
		if e.err != nil {
			a = errorStyle.Render("! " + e.err.Error())
		} else {
			a = answerStyle.Render("A: ") + strings.TrimSpace(e.answer)
		}
		parts = append(parts, wrap.Render(q)+"\n"+wrap.Render(a))
	}
	return strings.Join(parts, "\n\n")
}

var (
	headerStyle     = lipgloss.NewStyle().Bold(true)
	dimStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	questionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	answerStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	historyBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	inputBoxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)
