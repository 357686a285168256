package monitor

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/dohr-michael/taskchat/internal/tasks"
)

type recorder struct {
	mu      sync.Mutex
	notices []Notice
}

func (r *recorder) publish(n Notice) {
	r.mu.Lock()
	r.notices = append(r.notices, n)
	r.mu.Unlock()
}

func (r *recorder) snapshot() []Notice {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notice(nil), r.notices...)
}

type listerFunc func(ctx context.Context) ([]tasks.Task, error)

func (f listerFunc) List(ctx context.Context) ([]tasks.Task, error) { return f(ctx) }

func staticLister(list ...tasks.Task) Lister {
	return listerFunc(func(context.Context) ([]tasks.Task, error) { return list, nil })
}

func TestTickPublishesPendingCount(t *testing.T) {
	rec := &recorder{}
	m := New(staticLister(
		tasks.Task{ID: 1, Completed: false},
		tasks.Task{ID: 2, Completed: true},
		tasks.Task{ID: 3, Completed: false},
	), Config{HideAfter: time.Hour}, rec.publish)

	m.Tick(context.Background())

	want := []Notice{{Visible: true, PendingCount: 2}}
	if diff := cmp.Diff(want, rec.snapshot()); diff != "" {
		t.Errorf("notices mismatch (-want +got):\n%s", diff)
	}
	if got := m.Notice(); !got.Visible || got.PendingCount != 2 {
		t.Errorf("Notice = %+v", got)
	}
}

func TestTickFailureIsSilent(t *testing.T) {
	rec := &recorder{}
	m := New(listerFunc(func(context.Context) ([]tasks.Task, error) {
		return nil, errors.New("down")
	}), Config{HideAfter: time.Millisecond}, rec.publish)

	m.Tick(context.Background())
	time.Sleep(20 * time.Millisecond)

	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("failed tick published %v", got)
	}
}

func TestRapidTicksShareOneHideTimer(t *testing.T) {
	rec := &recorder{}
	m := New(staticLister(tasks.Task{ID: 1}), Config{HideAfter: 200 * time.Millisecond}, rec.publish)

	m.Tick(context.Background())
	time.Sleep(100 * time.Millisecond)
	m.Tick(context.Background())

	// The first timer would have fired here had it not been reset.
	time.Sleep(150 * time.Millisecond)
	if got := m.Notice(); !got.Visible {
		t.Fatal("notice hidden by a superseded timer")
	}

	time.Sleep(250 * time.Millisecond)

	want := []Notice{
		{Visible: true, PendingCount: 1},
		{Visible: true, PendingCount: 1},
		{Visible: false, PendingCount: 1},
	}
	if diff := cmp.Diff(want, rec.snapshot()); diff != "" {
		t.Errorf("notices mismatch (-want +got):\n%s", diff)
	}
}

func TestStartFetchesImmediatelyAndStopCancelsHide(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls++
		mu.Unlock()
		w.Write([]byte(`{"value":[{"Id":1,"TaskText":"a","Completed":false}]}`))
	}))
	defer srv.Close()

	rec := &recorder{}
	h, err := Start(context.Background(), tasks.NewClient(srv.URL, srv.Client()),
		Config{Interval: time.Hour, HideAfter: 50 * time.Millisecond}, rec.publish)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for len(rec.snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	h.Stop()
	h.Stop()

	got := rec.snapshot()
	if len(got) != 1 || !got[0].Visible || got[0].PendingCount != 1 {
		t.Fatalf("notices after start = %v", got)
	}

	time.Sleep(100 * time.Millisecond)
	if after := rec.snapshot(); len(after) != 1 {
		t.Errorf("hide timer fired after Stop: %v", after)
	}

	mu.Lock()
	defer mu.Unlock()
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestTickAfterStopIsIgnored(t *testing.T) {
	rec := &recorder{}
	h, err := Start(context.Background(), listerFunc(func(context.Context) ([]tasks.Task, error) {
		return nil, errors.New("down")
	}), Config{Interval: time.Hour}, rec.publish)
	if err != nil {
		t.Fatal(err)
	}
	h.Stop()

	m := h.Monitor()
	m.lister = staticLister(tasks.Task{ID: 1})
	m.Tick(context.Background())

	if got := rec.snapshot(); len(got) != 0 {
		t.Errorf("published after stop: %v", got)
	}
}

func TestContextCancelStops(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	h, err := Start(ctx, staticLister(), Config{Interval: time.Hour}, nil)
	if err != nil {
		t.Fatal(err)
	}
	cancel()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.m.mu.Lock()
		stopped := h.m.stopped
		h.m.mu.Unlock()
		if stopped {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("monitor still running after context cancel")
}

func TestBlockingPublisher(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan Notice, 1)

	var m *Monitor
	m = New(staticLister(tasks.Task{ID: 1}), Config{Interval: time.Hour, HideAfter: time.Hour}, func(n Notice) {
		m.Notice()
		select {
		case entered <- n:
		default:
		}
		<-release
	})
	h, err := m.Start(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	select {
	case n := <-entered:
		if !n.Visible || n.PendingCount != 1 {
			t.Errorf("notice = %+v", n)
		}
	case <-time.After(time.Second):
		t.Fatal("nothing published")
	}

	read := make(chan Notice)
	go func() { read <- m.Notice() }()
	select {
	case <-read:
	case <-time.After(time.Second):
		t.Fatal("state locked while publishing")
	}

	stopped := make(chan struct{})
	go func() {
		h.Stop()
		close(stopped)
	}()
	select {
	case <-stopped:
		t.Fatal("Stop returned while a publish was in progress")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
