package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dohr-michael/taskchat/internal/conversation"
	"github.com/dohr-michael/taskchat/internal/monitor"
	"github.com/dohr-michael/taskchat/internal/session"
	"github.com/dohr-michael/taskchat/internal/startup"
)

// Options wires the chat to its collaborators.
type Options struct {
	Controller  *conversation.Controller
	Loader      *startup.Loader
	MaxAttempts int
	Delay       time.Duration
	Session     session.Store // shown in the status bar; optional
	Label       string        // backend summary shown in the status bar
}

// App is the root bubbletea model.
// Layout: CHAT | NOTICE | INPUT | STATUS
type App struct {
	ctx     context.Context
	opts    Options
	gate    *startup.Gate
	notices chan monitor.Notice

	spinner  spinner.Model
	viewport viewport.Model
	input    textinput.Model

	width    int
	height   int
	spinning bool
	loaded   startup.Result
	notice   monitor.Notice
	quitting bool
}

// NewApp creates the chat model. It stays behind the loading gate until the
// startup load settles.
func NewApp(ctx context.Context, opts Options) *App {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ColorAssistant)

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Type a command..."
	ti.CharLimit = 2000

	a := &App{
		ctx:      ctx,
		opts:     opts,
		gate:     startup.NewGate(),
		notices:  make(chan monitor.Notice, 1),
		spinner:  s,
		viewport: viewport.New(80, 20),
		input:    ti,
		width:    80,
		height:   24,
		spinning: true,
	}
	a.refresh()
	return a
}

// Gate returns the startup gate the app waits on.
func (a *App) Gate() *startup.Gate { return a.gate }

// Publish hands a monitor notice to the program without blocking. Only the
// latest notice is kept when the UI lags behind.
func (a *App) Publish(n monitor.Notice) {
	for {
		select {
		case a.notices <- n:
			return
		default:
		}
		select {
		case <-a.notices:
		default:
		}
	}
}

// Init starts the spinner, the startup load and the notice bridge.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.load(), a.waitNotice())
}

func (a *App) load() tea.Cmd {
	return func() tea.Msg {
		return ReadyMsg{Result: a.opts.Loader.Run(a.ctx, a.gate, a.opts.MaxAttempts, a.opts.Delay)}
	}
}

func (a *App) waitNotice() tea.Cmd {
	return func() tea.Msg {
		select {
		case n := <-a.notices:
			return NoticeMsg{Notice: n}
		case <-a.ctx.Done():
			return nil
		}
	}
}

// Update handles messages and updates state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.updateSizes()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case ReadyMsg:
		a.loaded = msg.Result
		a.refresh()
		return a, a.input.Focus()

	case NoticeMsg:
		a.notice = msg.Notice
		return a, a.waitNotice()

	case ReplyMsg:
		a.refresh()
		return a, a.input.Focus()

	case spinner.TickMsg:
		if !a.busy() {
			a.spinning = false
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		a.quitting = true
		return a, tea.Quit
	}
	if !a.gate.IsOpen() {
		return a, nil
	}

	switch msg.String() {
	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		a.viewport, cmd = a.viewport.Update(msg)
		return a, cmd
	case "enter":
		return a.submit()
	}

	if a.awaiting() {
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

func (a *App) submit() (tea.Model, tea.Cmd) {
	text := a.input.Value()
	if strings.TrimSpace(text) == "/quit" {
		a.quitting = true
		return a, tea.Quit
	}

	turn, ok := a.opts.Controller.Begin(text)
	if !ok {
		return a, nil
	}
	a.input.Reset()
	a.input.Blur()
	a.refresh()

	await := func() tea.Msg {
		return ReplyMsg{Message: turn.Await(a.ctx)}
	}
	return a, tea.Batch(await, a.spin())
}

func (a *App) spin() tea.Cmd {
	if a.spinning {
		return nil
	}
	a.spinning = true
	return a.spinner.Tick
}

func (a *App) awaiting() bool {
	return a.opts.Controller.State() == conversation.AwaitingReply
}

func (a *App) busy() bool {
	return !a.gate.IsOpen() || a.awaiting()
}

func (a *App) updateSizes() {
	// notice(1) + input(1) + status(1)
	chatHeight := a.height - 3
	if chatHeight < 3 {
		chatHeight = 3
	}
	a.viewport.Width = a.width
	a.viewport.Height = chatHeight
	a.input.Width = a.width - 4
	a.refresh()
}

// refresh re-renders the history into the viewport and scrolls to the end.
func (a *App) refresh() {
	history := a.opts.Controller.History()
	blocks := make([]string, len(history))
	for i, m := range history {
		blocks[i] = RenderMessage(m, a.width-2)
	}
	a.viewport.SetContent(strings.Join(blocks, "\n\n"))
	a.viewport.GotoBottom()
}

// View renders the application.
func (a *App) View() string {
	if a.quitting {
		return "Goodbye!\n"
	}
	if !a.gate.IsOpen() {
		loading := a.spinner.View() + " Loading tasks..."
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, loading)
	}

	var input string
	if a.awaiting() {
		input = a.spinner.View() + MutedStyle.Render(" Waiting for the assistant...")
	} else {
		input = PromptStyle.Render("❯ ") + a.input.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		a.viewport.View(),
		RenderNotice(a.notice),
		input,
		a.statusBar(),
	)
}

func (a *App) statusBar() string {
	parts := []string{"taskchat", a.opts.Controller.State().String()}
	if a.opts.Label != "" {
		parts = append(parts, a.opts.Label)
	}
	if a.opts.Session != nil {
		if id := a.opts.Session.Get(); id != "" {
			parts = append(parts, "thread "+id)
		}
	}
	if a.loaded.Err != nil {
		parts = append(parts, fmt.Sprintf("task store unavailable after %d attempts", a.loaded.Attempts))
	}
	return StatusBarStyle.Width(a.width).Render(strings.Join(parts, " · "))
}
