// Package tui provides the terminal chat interface: a conversation viewport,
// an input box, and a status bar, driven by a single bubbletea update loop.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"filechat/pkg/config"
	"filechat/pkg/events"
	"filechat/pkg/llm"
	"filechat/pkg/logger"
	"filechat/pkg/tools"
)

const systemPrompt = "You are a helpful assistant running inside a terminal chat. Answer concisely."

// Turn represents one entry in the conversation.
type Turn struct {
	Role      string // system, user, assistant, error
	Content   string
	Timestamp time.Time
}

// Model holds the whole interface state. It is the only mutator of the
// conversation; everything produced by background tasks reaches it as a
// message through Update.
type Model struct {
	cfg      *config.Config
	client   *llm.Client
	registry *tools.Registry
	bus      *events.Bus
	log      *logger.Logger

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	turns  []Turn
	status events.Status
	width  int
	height int
	ready  bool

	// Stream state. streaming stays true from the moment Enter opens a
	// request until the stream closes; there is no cancellation path.
	// streamTurn indexes the open assistant turn: notices from background
	// commands can land after it mid-stream, so "last turn" is not it.
	streaming  bool
	stream     *llm.Stream
	acc        *llm.Accumulator
	streamTurn int
}

// NewModel creates the initial interface state.
func NewModel(cfg *config.Config, client *llm.Client, registry *tools.Registry, bus *events.Bus, log *logger.Logger) Model {
	ta := textarea.New()
	ta.Placeholder = "Type a message, or :command args..."
	ta.Focus()
	ta.CharLimit = 4096
	ta.SetWidth(80)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primaryColor)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	now := time.Now()
	return Model{
		cfg:      cfg,
		client:   client,
		registry: registry,
		bus:      bus,
		log:      log,
		textarea: ta,
		spinner:  sp,
		status:   events.Idle(),
		turns: []Turn{
			{Role: "system", Content: systemPrompt, Timestamp: now},
			{Role: "system", Content: cfg.Summary(), Timestamp: now},
		},
	}
}

// Init starts the cursor blink, the spinner, and the bus listener.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.spinner.Tick, waitForBusEvent(m.bus))
}

// Update handles all interface events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			return m, tea.Quit

		case tea.KeyEsc:
			// Esc is ignored while a stream is open: the request runs to
			// completion, then quitting works again.
			if m.streaming {
				return m, nil
			}
			return m, tea.Quit

		case tea.KeyEnter:
			return m.submitInput()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerH := lipgloss.Height(headerStyle.Render("filechat"))
		statusH := lipgloss.Height(m.renderStatusBar())
		inputH := 5 // textarea plus borders
		helpH := 1

		viewportHeight := m.height - headerH - statusH - inputH - helpH - 2
		if viewportHeight < 1 {
			viewportHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, viewportHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = viewportHeight
		}
		m.textarea.SetWidth(msg.Width - 6)
		m.updateViewport()

	case streamStartedMsg:
		m.stream = msg.stream
		return m, waitForFragment(m.stream)

	case streamOpenErrMsg:
		m.log.Error("stream request failed: %v", msg.err)
		m.closeStream()
		m.turns = append(m.turns, Turn{Role: "error", Content: msg.err.Error(), Timestamp: time.Now()})
		m.status = events.ErrorStatus(msg.err.Error())
		m.updateViewport()
		return m, nil

	case fragmentMsg:
		delta := m.acc.Fold(msg.frag)
		if delta != "" {
			m.turns[m.streamTurn].Content += delta
		}
		m.updateViewport()
		return m, waitForFragment(m.stream)

	case streamDoneMsg:
		if msg.err != nil {
			m.log.Error("stream ended with error: %v", msg.err)
			m.closeStream()
			m.turns = append(m.turns, Turn{Role: "error", Content: msg.err.Error(), Timestamp: time.Now()})
			m.status = events.ErrorStatus(msg.err.Error())
			m.updateViewport()
			return m, nil
		}
		resp := m.acc.Close()
		m.log.Info("completion %s finished: %d chars", resp.ID, len(resp.Choices[0].Message.Content))
		m.streaming = false
		m.stream = nil
		m.acc = nil
		m.status = events.Idle()
		m.updateViewport()
		return m, nil

	case busEventMsg:
		m.applyEvent(msg.event)
		m.updateViewport()
		// One event per cycle; re-arming returns immediately while the
		// queue is non-empty, so a burst still drains promptly.
		return m, waitForBusEvent(m.bus)

	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if !m.streaming {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	// Keep plain character keys out of the viewport so typing never
	// triggers its navigation shortcuts.
	viewportMsg := msg
	if k, ok := msg.(tea.KeyMsg); ok && m.textarea.Focused() {
		if k.Type == tea.KeyRunes || (k.Type == tea.KeySpace && len(k.Runes) > 0) {
			viewportMsg = nil
		}
	}
	if viewportMsg != nil {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(viewportMsg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// busy reports whether the spinner should animate.
func (m Model) busy() bool {
	return m.streaming || m.status.Kind == events.StatusRequesting
}

// closeStream resets stream state after a failure, dropping the open
// assistant turn if nothing was ever folded into it.
func (m *Model) closeStream() {
	if m.streaming && m.streamTurn < len(m.turns) &&
		m.turns[m.streamTurn].Role == "assistant" && m.turns[m.streamTurn].Content == "" {
		m.turns = append(m.turns[:m.streamTurn], m.turns[m.streamTurn+1:]...)
	}
	m.streaming = false
	m.stream = nil
	m.acc = nil
}

// submitInput dispatches the Enter key: a parseable `:command` spawns a
// background task, anything else becomes a chat turn. The input buffer is
// cleared on every path.
func (m Model) submitInput() (tea.Model, tea.Cmd) {
	if m.streaming {
		return m, nil
	}

	input := strings.TrimSpace(m.textarea.Value())
	if input == "" {
		return m, nil
	}
	m.textarea.Reset()

	if cmd, ok := m.registry.Parse(input); ok {
		tools.Spawn(context.Background(), cmd, m.bus, m.log)
		return m, nil
	}
	if strings.HasPrefix(input, ":") {
		// Malformed command input is dropped silently, matching the
		// behavior of an unknown key press.
		m.log.Warn("unparseable command input dropped: %s", input)
		return m, nil
	}

	m.turns = append(m.turns, Turn{Role: "user", Content: input, Timestamp: time.Now()})
	history := m.history()

	m.turns = append(m.turns, Turn{Role: "assistant", Content: "", Timestamp: time.Now()})
	m.streamTurn = len(m.turns) - 1
	m.streaming = true
	m.acc = llm.NewAccumulator()
	m.acc.Open()
	m.status = events.Requesting()
	m.updateViewport()

	m.log.Info("sending chat request with %d messages", len(history))
	return m, tea.Batch(openStream(m.client, history), m.spinner.Tick)
}

// history converts the conversation into request messages. Error turns are
// display-only and never sent upstream.
func (m Model) history() []llm.Message {
	msgs := make([]llm.Message, 0, len(m.turns))
	for _, t := range m.turns {
		switch t.Role {
		case "system", "user", "assistant":
			msgs = append(msgs, llm.Message{Role: t.Role, Content: t.Content})
		}
	}
	return msgs
}

// applyEvent merges one background event into the conversation.
func (m *Model) applyEvent(ev events.Event) {
	switch ev := ev.(type) {
	case events.StatusEvent:
		// A stream in flight owns the status bar; background completions
		// still append their notices below.
		if !m.streaming {
			m.status = ev.Status
		}
	case events.NoticeEvent:
		m.turns = append(m.turns, Turn{Role: "system", Content: ev.Text, Timestamp: time.Now()})
	}
}

// View renders the interface.
func (m Model) View() string {
	if !m.ready {
		return m.spinner.View() + " Initializing..."
	}

	var sb strings.Builder

	sb.WriteString(headerStyle.Render("filechat"))
	sb.WriteString("\n")
	sb.WriteString(m.renderStatusBar())
	sb.WriteString("\n")

	divider := dividerStyle.Render(strings.Repeat("─", max(m.width-2, 1)))
	sb.WriteString(divider)
	sb.WriteString("\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(divider)
	sb.WriteString("\n")

	sb.WriteString(m.textarea.View())
	sb.WriteString("\n")

	help := "Enter: Send │ :touch/:rm/:write/:find/:edit-at/:move-content │ Esc: Quit"
	if m.streaming {
		help = "Streaming response... (Esc disabled until the stream closes)"
	}
	sb.WriteString(helpStyle.Render(help))

	return sb.String()
}

func (m Model) renderStatusBar() string {
	var badge, text string
	switch {
	case m.busy():
		badge = requestingBadgeStyle.Render(" REQUESTING ")
		text = m.spinner.View() + " Contacting " + m.client.Model() + "..."
	case m.status.Kind == events.StatusError:
		badge = errorBadgeStyle.Render(" ERROR ")
		text = m.status.Err
	default:
		badge = idleBadgeStyle.Render(" IDLE ")
		text = "Enter to send, Esc to quit"
	}

	left := lipgloss.JoinHorizontal(lipgloss.Center, badge, statusTextStyle.Render(text))
	right := modelInfoStyle.Render(m.cfg.Model)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if gap < 0 {
		gap = 0
	}
	return statusBarStyle.Width(max(m.width-2, 1)).Render(
		lipgloss.JoinHorizontal(lipgloss.Top, left, strings.Repeat(" ", gap), right),
	)
}

// updateViewport rebuilds the conversation view from the turns.
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}
	wasAtBottom := m.viewport.AtBottom()

	wrapWidth := m.viewport.Width - 2
	if wrapWidth < 10 {
		wrapWidth = 10
	}

	var sb strings.Builder
	for i, turn := range m.turns {
		timestamp := lipgloss.NewStyle().Foreground(mutedColor).Render(turn.Timestamp.Format("15:04") + " ")
		content := wordwrap.String(turn.Content, wrapWidth)

		switch turn.Role {
		case "user":
			sb.WriteString(timestamp)
			sb.WriteString(userLabelStyle.Render("You: "))
			sb.WriteString("\n")
			sb.WriteString(content)

		case "assistant":
			sb.WriteString(timestamp)
			sb.WriteString(assistantLabelStyle.Render("Assistant: "))
			sb.WriteString("\n")
			sb.WriteString(assistantTextStyle.Render(content))
			if m.streaming && i == m.streamTurn {
				sb.WriteString(cursorGlyphStyle.Render("▌"))
			}

		case "system":
			sb.WriteString(systemMsgStyle.Render(content))

		case "error":
			sb.WriteString(errorMsgStyle.Render("✗ " + content))
		}
		sb.WriteString("\n\n")
	}

	m.viewport.SetContent(sb.String())

	if wasAtBottom || m.streaming {
		m.viewport.GotoBottom()
	}
}

// quitKeyFilter force-exits on the third consecutive Ctrl+C even if the
// model stops processing keys.
func quitKeyFilter() func(tea.Model, tea.Msg) tea.Msg {
	ctrlCCount := 0
	return func(m tea.Model, msg tea.Msg) tea.Msg {
		if key, ok := msg.(tea.KeyMsg); ok {
			switch key.Type {
			case tea.KeyCtrlC, tea.KeyCtrlD:
				ctrlCCount++
				if ctrlCCount >= 3 {
					fmt.Print("\033[?25h\033[?1049l")
					fmt.Fprintln(os.Stderr, "\nForce quit.")
					os.Exit(1)
				}
			default:
				ctrlCCount = 0
			}
		}
		return msg
	}
}

// Run starts the interface and blocks until it exits.
func Run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	client := llm.NewClient(cfg.APIBaseURL, cfg.APIKey, cfg.Model)
	registry := tools.NewRegistry()
	bus := events.NewBus()

	opts := []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithFilter(quitKeyFilter()),
	}
	if ctx != nil {
		opts = append(opts, tea.WithContext(ctx))
	}

	p := tea.NewProgram(NewModel(cfg, client, registry, bus, log), opts...)
	_, err := p.Run()
	return err
}
