package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"subseek/internal/agent"
	"subseek/internal/config"
	"subseek/internal/lookup"
	"subseek/internal/watch"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAsk
	ModeSearch
	ModeGoto
	ModeTime
)

// chatHeight is the number of rows reserved for the conversation strip
const chatHeight = 6

type agentReplyMsg struct {
	reply *agent.Reply
}

type agentErrMsg struct {
	err error
}

type fileChangedMsg struct{}

// Model is the main application model
type Model struct {
	pane  *TranscriptPane
	agent *agent.Agent
	cfg   *config.Config

	input   textinput.Model
	spin    spinner.Model
	watcher *watch.Watcher
	logger  *slog.Logger

	mode     Mode
	width    int
	height   int
	threadID string

	chat   []string // rendered conversation lines, newest last
	busy   bool
	status string
}

// ModelOptions configures startup state
type ModelOptions struct {
	Path     string
	Config   *config.Config
	Agent    *agent.Agent
	Service  *lookup.Service
	ThreadID string
	Logger   *slog.Logger

	// GotoTime jumps to a timestamp before the first frame
	GotoTime string
}

// NewModelWithOptions creates the model and applies startup navigation
func NewModelWithOptions(opts ModelOptions) (*Model, error) {
	m, err := NewModel(opts.Path, opts.Config, opts.Agent, opts.Service, opts.ThreadID, opts.Logger)
	if err != nil {
		return nil, err
	}

	if opts.GotoTime != "" {
		m.applyPrompt(ModeTime, opts.GotoTime)
	}

	return m, nil
}

// NewModel creates the application model for one transcript
func NewModel(path string, cfg *config.Config, ag *agent.Agent, svc *lookup.Service, threadID string, logger *slog.Logger) (*Model, error) {
	if logger == nil {
		logger = slog.Default()
	}

	pane, err := NewTranscriptPane(path, svc, cfg)
	if err != nil {
		return nil, err
	}

	ti := textinput.New()
	ti.Placeholder = "Ask about the subtitles..."
	ti.CharLimit = 512

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(cfg.Theme.Highlight))

	w, err := watch.New(path, watch.DefaultDebounce, logger)
	if err != nil {
		logger.Warn("file watching disabled", "path", path, "error", err)
		w = nil
	}

	return &Model{
		pane:     pane,
		agent:    ag,
		cfg:      cfg,
		input:    ti,
		spin:     sp,
		watcher:  w,
		logger:   logger,
		mode:     ModeNormal,
		threadID: threadID,
	}, nil
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return m.waitForChange()
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.pane.SetSize(msg.Width, m.transcriptHeight())
		m.input.Width = msg.Width - 4
		return m, nil

	case agentReplyMsg:
		m.busy = false
		m.appendChat("subseek: " + msg.reply.Text)
		if hl := msg.reply.Highlight; hl != nil {
			m.pane.ShowMatch(hl.First, hl.Last, hl.Line)
		}
		return m, nil

	case agentErrMsg:
		m.busy = false
		m.logger.Error("ask failed", "error", msg.err)
		m.appendChat("error: " + msg.err.Error())
		return m, nil

	case fileChangedMsg:
		if err := m.pane.Refresh(); err != nil {
			m.status = fmt.Sprintf("reload failed: %v", err)
		} else {
			m.status = "transcript reloaded"
		}
		return m, m.waitForChange()

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Handle mode-specific input
	switch m.mode {
	case ModeAsk:
		return m.handleAskKey(msg)
	case ModeSearch, ModeGoto, ModeTime:
		return m.handlePromptKey(msg)
	}

	// Normal mode
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "j", "down":
		m.pane.ScrollDown(1)
	case "k", "up":
		m.pane.ScrollUp(1)

	case "d", "ctrl+d":
		m.pane.PageDown()
	case "u", "ctrl+u":
		m.pane.PageUp()

	case "f", "pgdown", " ":
		m.pane.PageDown()
	case "b", "pgup":
		m.pane.PageUp()

	case "g", "home":
		m.pane.GotoTop()
	case "G", "end":
		m.pane.GotoBottom()

	case "i", "a":
		return m, m.enterInput(ModeAsk, "Ask about the subtitles...")

	case "/":
		return m, m.enterInput(ModeSearch, "Search...")

	case ":":
		return m, m.enterInput(ModeGoto, "Line number...")

	case "t", "@":
		return m, m.enterInput(ModeTime, "HH:MM:SS,mmm")

	case "n":
		m.pane.NextSearchResult()
	case "N":
		m.pane.PrevSearchResult()

	case "l":
		m.pane.ToggleLineNumbers()

	case "r":
		if err := m.pane.Refresh(); err != nil {
			m.status = fmt.Sprintf("reload failed: %v", err)
		} else {
			m.status = "transcript reloaded"
		}

	case "esc":
		m.pane.ClearSearch()
		m.status = ""
	}

	return m, nil
}

func (m *Model) handleAskKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		question := strings.TrimSpace(m.input.Value())
		m.exitInput()
		if question == "" || m.busy {
			return m, nil
		}

		m.appendChat("you: " + question)
		m.busy = true
		return m, tea.Batch(m.askCmd(question), m.spin.Tick)

	case "esc":
		m.exitInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		value := strings.TrimSpace(m.input.Value())
		mode := m.mode
		m.exitInput()
		m.applyPrompt(mode, value)
		return m, nil

	case "esc":
		m.exitInput()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) applyPrompt(mode Mode, value string) {
	if value == "" {
		return
	}

	switch mode {
	case ModeSearch:
		m.pane.PerformSearch(value)
		if m.pane.MatchCount() == 0 {
			m.status = fmt.Sprintf("no matches for %q", value)
		} else {
			m.status = ""
		}

	case ModeGoto:
		var lineNum int
		fmt.Sscanf(value, "%d", &lineNum)
		if lineNum > 0 {
			m.pane.GotoLine(lineNum)
		}

	case ModeTime:
		match, err := m.pane.GotoTimestamp(value)
		if err != nil {
			m.status = err.Error()
		} else {
			m.status = fmt.Sprintf("caption at line %d", match.LineNumber)
		}
	}
}

func (m *Model) enterInput(mode Mode, placeholder string) tea.Cmd {
	m.mode = mode
	m.input.Placeholder = placeholder
	m.input.SetValue("")
	m.input.Focus()
	return textinput.Blink
}

func (m *Model) exitInput() {
	m.mode = ModeNormal
	m.input.Blur()
}

func (m *Model) askCmd(question string) tea.Cmd {
	ag, threadID := m.agent, m.threadID
	return func() tea.Msg {
		reply, err := ag.Ask(context.Background(), threadID, question)
		if err != nil {
			return agentErrMsg{err: err}
		}
		return agentReplyMsg{reply: reply}
	}
}

func (m *Model) waitForChange() tea.Cmd {
	if m.watcher == nil {
		return nil
	}
	events := m.watcher.Events()
	return func() tea.Msg {
		<-events
		return fileChangedMsg{}
	}
}

func (m *Model) transcriptHeight() int {
	// Chat strip, status bar and help line sit below the transcript
	h := m.height - chatHeight - 2
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) appendChat(text string) {
	width := m.width
	if width <= 0 {
		m.chat = append(m.chat, text)
		return
	}

	wrapped := lipgloss.NewStyle().Width(width).Render(text)
	m.chat = append(m.chat, strings.Split(wrapped, "\n")...)
}

// View implements tea.Model
func (m *Model) View() string {
	var builder strings.Builder

	// Transcript
	builder.WriteString(m.pane.Render())
	builder.WriteString("\n")

	// Conversation strip
	builder.WriteString(m.renderChat())
	builder.WriteString("\n")

	// Status bar
	statusStyle := lipgloss.NewStyle().
		Background(lipgloss.Color(m.cfg.Theme.StatusBar)).
		Foreground(lipgloss.Color(m.cfg.Theme.StatusBarText)).
		Width(m.width)

	var status string
	switch m.mode {
	case ModeSearch:
		status = "/" + m.input.View()
	case ModeGoto:
		status = ":" + m.input.View()
	case ModeTime:
		status = "@" + m.input.View()
	default:
		lineInfo := fmt.Sprintf("L%d/%d",
			m.pane.CurrentLine()+1,
			m.pane.LineCount())

		percent := fmt.Sprintf("%.0f%%", m.pane.PercentScrolled())

		searchInfo := ""
		if m.pane.SearchTerm() != "" {
			searchInfo = fmt.Sprintf(" [%d matches]", m.pane.MatchCount())
		}

		note := ""
		if m.status != "" {
			note = "  " + m.status
		}

		status = fmt.Sprintf(" %s  %s  %s  thread:%s%s%s",
			m.pane.Filename(), lineInfo, percent, m.threadID, searchInfo, note)
	}

	builder.WriteString(statusStyle.Render(status))
	builder.WriteString("\n")

	// Help line
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	var help string
	switch m.mode {
	case ModeAsk:
		help = "enter:send  esc:cancel"
	case ModeSearch, ModeGoto, ModeTime:
		help = "enter:go  esc:cancel"
	default:
		help = "j/k:scroll  g/G:top/bottom  t:timestamp  /:search  n/N:next/prev  i:ask  l:numbers  q:quit"
	}
	builder.WriteString(helpStyle.Render(help))

	return builder.String()
}

func (m *Model) renderChat() string {
	var builder strings.Builder

	rows := chatHeight - 1
	start := len(m.chat) - rows
	if start < 0 {
		start = 0
	}
	visible := m.chat[start:]

	// Pad above so the conversation grows from the bottom
	for i := 0; i < rows-len(visible); i++ {
		builder.WriteString("\n")
	}
	for _, line := range visible {
		builder.WriteString(line)
		builder.WriteString("\n")
	}

	// Input row
	switch {
	case m.busy:
		builder.WriteString(m.spin.View() + " thinking...")
	case m.mode == ModeAsk:
		builder.WriteString(m.input.View())
	default:
		dim := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
		builder.WriteString(dim.Render("press i to ask"))
	}

	return builder.String()
}

// Close cleans up resources
func (m *Model) Close() error {
	if m.watcher != nil {
		return m.watcher.Close()
	}
	return nil
}
