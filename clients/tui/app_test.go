package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dohr-michael/taskchat/internal/assistant"
	"github.com/dohr-michael/taskchat/internal/conversation"
	"github.com/dohr-michael/taskchat/internal/monitor"
	"github.com/dohr-michael/taskchat/internal/reply"
	"github.com/dohr-michael/taskchat/internal/session"
	"github.com/dohr-michael/taskchat/internal/startup"
	"github.com/dohr-michael/taskchat/internal/tasks"
)

type staticTasks struct {
	list []tasks.Task
	err  error
}

func (s staticTasks) List(context.Context) ([]tasks.Task, error) { return s.list, s.err }

type fakeAssistant struct {
	mu      sync.Mutex
	resp    reply.Response
	err     error
	release chan struct{}
	got     []assistant.Request
}

func (f *fakeAssistant) Send(ctx context.Context, req assistant.Request) (reply.Response, error) {
	f.mu.Lock()
	f.got = append(f.got, req)
	f.mu.Unlock()
	if f.release != nil {
		select {
		case <-f.release:
		case <-ctx.Done():
			return reply.Response{}, ctx.Err()
		}
	}
	return f.resp, f.err
}

func newTestApp(t *testing.T, a *fakeAssistant, lister startup.Lister) (*App, *conversation.Controller, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	ctrl := conversation.New(a, store)
	app := NewApp(context.Background(), Options{
		Controller:  ctrl,
		Loader:      startup.NewLoader(lister),
		MaxAttempts: 2,
		Delay:       time.Millisecond,
		Session:     store,
	})
	app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return app, ctrl, store
}

// run executes cmd and returns every message it produces, expanding batches.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, run(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func open(t *testing.T, app *App) {
	t.Helper()
	app.Update(app.load()())
	if !app.Gate().IsOpen() {
		t.Fatal("gate closed after load")
	}
}

func enter(app *App, text string) tea.Cmd {
	app.input.SetValue(text)
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return cmd
}

func TestAppGatedUntilLoaded(t *testing.T) {
	app, ctrl, _ := newTestApp(t, &fakeAssistant{}, staticTasks{err: errors.New("down")})

	if !strings.Contains(app.View(), "Loading tasks") {
		t.Fatalf("expected loading view, got:\n%s", app.View())
	}

	// Input is ignored behind the gate.
	enter(app, "list")
	if ctrl.Len() != 1 {
		t.Fatalf("history grew behind the gate: %d", ctrl.Len())
	}

	open(t, app)
	view := app.View()
	if strings.Contains(view, "Loading tasks") {
		t.Errorf("still loading after ready:\n%s", view)
	}
	if !strings.Contains(view, "Hi!") {
		t.Errorf("greeting missing:\n%s", view)
	}
	if !strings.Contains(view, "task store unavailable after 2 attempts") {
		t.Errorf("degraded startup not reported:\n%s", view)
	}
}

func TestAppSubmitRoundTrip(t *testing.T) {
	fa := &fakeAssistant{resp: reply.Response{
		Message:  "Here are your tasks:",
		Tasks:    []string{"#1: Buy milk [Pending]"},
		ThreadID: "thr_abc",
	}}
	app, ctrl, store := newTestApp(t, fa, staticTasks{list: []tasks.Task{}})
	open(t, app)

	cmd := enter(app, "list")
	if ctrl.State() != conversation.AwaitingReply || ctrl.Len() != 2 {
		t.Fatalf("after enter: state=%s len=%d", ctrl.State(), ctrl.Len())
	}
	if app.input.Value() != "" {
		t.Errorf("input not cleared: %q", app.input.Value())
	}
	if !strings.Contains(app.View(), "Waiting for the assistant") {
		t.Errorf("input not disabled while awaiting:\n%s", app.View())
	}

	for _, msg := range run(cmd) {
		app.Update(msg)
	}

	if ctrl.State() != conversation.Idle || ctrl.Len() != 3 {
		t.Fatalf("after reply: state=%s len=%d", ctrl.State(), ctrl.Len())
	}
	if store.Get() != "thr_abc" {
		t.Errorf("thread = %q, want thr_abc", store.Get())
	}
	view := app.View()
	for _, want := range []string{"Buy milk", "thread thr_abc", "❯"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestAppIgnoresSubmitWhileAwaiting(t *testing.T) {
	fa := &fakeAssistant{release: make(chan struct{}), resp: reply.Response{Message: "ok"}}
	app, ctrl, _ := newTestApp(t, fa, staticTasks{list: []tasks.Task{}})
	open(t, app)

	cmd := enter(app, "first")
	done := make(chan []tea.Msg)
	go func() { done <- run(cmd) }()

	enter(app, "second")
	if ctrl.Len() != 2 {
		t.Errorf("second submit changed history: len=%d", ctrl.Len())
	}

	close(fa.release)
	for _, msg := range <-done {
		app.Update(msg)
	}
	if ctrl.Len() != 3 || len(fa.got) != 1 {
		t.Errorf("len=%d calls=%d, want 3 and 1", ctrl.Len(), len(fa.got))
	}
}

func TestAppBlankSubmitIsNoop(t *testing.T) {
	app, ctrl, _ := newTestApp(t, &fakeAssistant{}, staticTasks{list: []tasks.Task{}})
	open(t, app)

	if cmd := enter(app, "   "); cmd != nil {
		t.Error("blank submit returned a command")
	}
	if ctrl.Len() != 1 || ctrl.State() != conversation.Idle {
		t.Errorf("blank submit changed state: len=%d state=%s", ctrl.Len(), ctrl.State())
	}
}

func TestAppTransportFailure(t *testing.T) {
	fa := &fakeAssistant{err: errors.New("connection refused")}
	app, ctrl, _ := newTestApp(t, fa, staticTasks{list: []tasks.Task{}})
	open(t, app)

	for _, msg := range run(enter(app, "list")) {
		app.Update(msg)
	}
	if ctrl.Len() != 3 {
		t.Fatalf("len = %d, want 3", ctrl.Len())
	}
	if !strings.Contains(app.View(), conversation.TransportFailure) {
		t.Errorf("error message not rendered:\n%s", app.View())
	}
}

func TestAppNotices(t *testing.T) {
	app, _, _ := newTestApp(t, &fakeAssistant{}, staticTasks{list: []tasks.Task{}})
	open(t, app)

	// Only the latest notice survives when nobody is reading.
	app.Publish(monitor.Notice{Visible: true, PendingCount: 1})
	app.Publish(monitor.Notice{Visible: true, PendingCount: 3})

	msg := app.waitNotice()()
	n, ok := msg.(NoticeMsg)
	if !ok || n.Notice.PendingCount != 3 {
		t.Fatalf("waitNotice = %#v", msg)
	}
	app.Update(n)
	if !strings.Contains(app.View(), "3 pending tasks") {
		t.Errorf("notice not shown:\n%s", app.View())
	}

	app.Update(NoticeMsg{Notice: monitor.Notice{Visible: false, PendingCount: 3}})
	if strings.Contains(app.View(), "pending tasks") {
		t.Errorf("hidden notice still shown:\n%s", app.View())
	}
}

func TestAppQuit(t *testing.T) {
	app, _, _ := newTestApp(t, &fakeAssistant{}, staticTasks{list: []tasks.Task{}})
	open(t, app)

	cmd := enter(app, "/quit")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("/quit did not quit")
	}
	if app.View() != "Goodbye!\n" {
		t.Errorf("view = %q", app.View())
	}
}
