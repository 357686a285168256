// Package monitor polls the task store in the background and publishes a
// transient pending-count notice.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/netresearch/go-cron"

	"github.com/dohr-michael/taskchat/internal/tasks"
)

const (
	DefaultInterval  = 15 * time.Second
	DefaultHideAfter = 5 * time.Second
)

// Notice is the published banner state.
type Notice struct {
	Visible      bool
	PendingCount int
}

// Lister fetches the current task listing.
type Lister interface {
	List(ctx context.Context) ([]tasks.Task, error)
}

// Config holds the monitor timings.
type Config struct {
	Interval  time.Duration
	HideAfter time.Duration
	Logger    *slog.Logger
}

// Monitor owns the notice state. Notices are published outside the state
// lock, one at a time and in order; a notice superseded before its turn is
// dropped.
type Monitor struct {
	lister    Lister
	publish   func(Notice)
	interval  time.Duration
	hideAfter time.Duration
	logger    *slog.Logger

	mu        sync.Mutex
	notice    Notice
	hide      *time.Timer
	gen       uint64
	seq       uint64
	published uint64
	stopped   bool
	wg        sync.WaitGroup

	pubMu sync.Mutex
}

// New creates a monitor. A nil publish discards notices. publish may block and
// may read the monitor, but must not call Stop; Stop waits for a publish in
// progress.
func New(lister Lister, cfg Config, publish func(Notice)) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.HideAfter <= 0 {
		cfg.HideAfter = DefaultHideAfter
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if publish == nil {
		publish = func(Notice) {}
	}
	return &Monitor{
		lister:    lister,
		publish:   publish,
		interval:  cfg.Interval,
		hideAfter: cfg.HideAfter,
		logger:    cfg.Logger,
	}
}

// Notice returns the current banner state.
func (m *Monitor) Notice() Notice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notice
}

// Tick fetches once. A successful fetch shows the notice and re-arms the single
// hide timer; a failed fetch changes nothing.
func (m *Monitor) Tick(ctx context.Context) {
	list, err := m.lister.List(ctx)
	if err != nil {
		m.logger.Debug("pending monitor tick skipped", "error", err)
		return
	}
	pending := tasks.PendingCount(list)

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.notice = Notice{Visible: true, PendingCount: pending}
	m.gen++
	gen := m.gen
	if m.hide != nil {
		m.hide.Stop()
	}
	m.hide = time.AfterFunc(m.hideAfter, func() { m.expire(gen) })
	n, seq := m.notice, m.next()
	m.mu.Unlock()

	m.emit(n, seq)
}

// expire hides the notice unless a newer tick re-armed the timer meanwhile.
func (m *Monitor) expire(gen uint64) {
	m.mu.Lock()
	if m.stopped || gen != m.gen {
		m.mu.Unlock()
		return
	}
	m.hide = nil
	m.notice.Visible = false
	n, seq := m.notice, m.next()
	m.mu.Unlock()

	m.emit(n, seq)
}

// next numbers a state change. Callers hold m.mu.
func (m *Monitor) next() uint64 {
	m.seq++
	return m.seq
}

// emit publishes n unless the monitor stopped or a later notice already went out.
func (m *Monitor) emit(n Notice, seq uint64) {
	m.pubMu.Lock()
	defer m.pubMu.Unlock()

	m.mu.Lock()
	if m.stopped || seq <= m.published {
		m.mu.Unlock()
		return
	}
	m.published = seq
	m.mu.Unlock()

	m.publish(n)
}

// enter registers a running tick; false once the monitor is stopped.
func (m *Monitor) enter() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		return false
	}
	m.wg.Add(1)
	return true
}

// Handle controls a started monitor.
type Handle struct {
	m      *Monitor
	cron   *cron.Cron
	cancel context.CancelFunc
	once   sync.Once
}

// Start fetches immediately, then on every interval, until the handle is stopped
// or ctx is done.
func (m *Monitor) Start(ctx context.Context) (*Handle, error) {
	ctx, cancel := context.WithCancel(ctx)

	job := func() {
		if !m.enter() {
			return
		}
		defer m.wg.Done()
		m.Tick(ctx)
	}

	c := cron.New()
	if _, err := c.AddFunc(fmt.Sprintf("@every %s", m.interval), job); err != nil {
		cancel()
		return nil, fmt.Errorf("schedule pending monitor: %w", err)
	}

	h := &Handle{m: m, cron: c, cancel: cancel}
	go job()
	c.Start()

	go func() {
		<-ctx.Done()
		h.Stop()
	}()

	m.logger.Debug("pending monitor started", "interval", m.interval, "hide_after", m.hideAfter)
	return h, nil
}

// Start creates and starts a monitor in one step.
func Start(ctx context.Context, lister Lister, cfg Config, publish func(Notice)) (*Handle, error) {
	return New(lister, cfg, publish).Start(ctx)
}

// Monitor returns the monitor behind the handle.
func (h *Handle) Monitor() *Monitor { return h.m }

// Stop cancels the schedule, any in-flight fetch and the pending hide timer.
// No notice is published after Stop returns. It is safe to call more than once.
func (h *Handle) Stop() {
	h.once.Do(func() {
		m := h.m
		m.mu.Lock()
		m.stopped = true
		if m.hide != nil {
			m.hide.Stop()
			m.hide = nil
		}
		m.mu.Unlock()

		h.cancel()
		h.cron.Stop()
		m.wg.Wait()

		// A hide timer may be publishing; wait for it.
		m.pubMu.Lock()
		m.pubMu.Unlock()

		m.logger.Debug("pending monitor stopped")
	})
}
