// Package monitor tracks connected users and consultation requests. Counts
// arrive over a socket.io push channel and a polled statistics endpoint;
// both feed one reducer.
package monitor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/hcadmin/internal/model"
)

// EventOnlineUsers is the push event carrying presence counts.
const EventOnlineUsers = "onlineUsersUpdate"

var (
	ErrRunning = errors.New("monitor: already running")
	ErrClosed  = errors.New("monitor: closed")
)

// StatsSource is the polled half of the monitor.
type StatsSource interface {
	RequestStats(ctx context.Context) (model.RequestStats, error)
}

type Option func(*Monitor)

func WithLogger(l zerolog.Logger) Option {
	return func(m *Monitor) { m.log = l }
}

// WithClock replaces time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

type Monitor struct {
	src      StatsSource
	socket   string
	interval time.Duration
	log      zerolog.Logger
	now      func() time.Time

	events  chan Event
	updates chan State
	done    chan struct{}
	finish  sync.Once

	mu      sync.Mutex
	state   State
	cancel  context.CancelFunc
	started bool
	closed  bool
}

// New prepares a monitor; nothing is opened until Run.
func New(src StatsSource, socketURL string, interval time.Duration, opts ...Option) *Monitor {
	m := &Monitor{
		src:      src,
		socket:   socketURL,
		interval: interval,
		log:      zerolog.Nop(),
		now:      time.Now,
		events:   make(chan Event),
		updates:  make(chan State, 1),
		done:     make(chan struct{}),
	}
	for _, o := range opts {
		o(m)
	}
	m.log = m.log.With().Str("component", "monitor").Logger()
	return m
}

// Updates delivers the latest state after every event. Stale states are
// dropped when the reader falls behind. The channel closes when Run returns,
// or on Close when Run never started.
func (m *Monitor) Updates() <-chan State { return m.updates }

// Snapshot returns the current state.
func (m *Monitor) Snapshot() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Run connects the push channel, starts polling and blocks until ctx ends
// or Close is called. A monitor runs at most once.
func (m *Monitor) Run(ctx context.Context) error {
	m.mu.Lock()
	switch {
	case m.closed:
		m.mu.Unlock()
		return ErrClosed
	case m.started:
		m.mu.Unlock()
		return ErrRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	m.started, m.cancel = true, cancel
	m.mu.Unlock()

	defer m.release()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		m.listen(ctx)
	}()
	go func() {
		defer wg.Done()
		m.poll(ctx)
	}()

	for {
		select {
		case <-ctx.Done():
			cancel()
			wg.Wait()
			m.apply(Disconnected{})
			return nil
		case e := <-m.events:
			m.apply(e)
		}
	}
}

// Close stops Run and waits until the socket and the ticker are released.
// It is safe to call more than once, and before Run.
func (m *Monitor) Close() error {
	m.mu.Lock()
	m.closed = true
	cancel, started := m.cancel, m.started
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if !started {
		m.release()
	}
	<-m.done
	return nil
}

// release closes Updates and marks the monitor done.
func (m *Monitor) release() {
	m.finish.Do(func() {
		close(m.updates)
		close(m.done)
	})
}

func (m *Monitor) emit(ctx context.Context, e Event) bool {
	select {
	case m.events <- e:
		return true
	case <-ctx.Done():
		return false
	}
}

func (m *Monitor) apply(e Event) {
	m.mu.Lock()
	m.state = Reduce(m.state, e)
	st := m.state
	m.mu.Unlock()

	select {
	case m.updates <- st:
		return
	default:
	}
	select {
	case <-m.updates:
	default:
	}
	select {
	case m.updates <- st:
	default:
	}
}

// listen holds the push channel open until ctx ends. There is no reconnect.
func (m *Monitor) listen(ctx context.Context) {
	if err := m.watchSocket(ctx, m.socket); err != nil {
		m.log.Warn().Err(err).Str("url", m.socket).Msg("socket unavailable")
		m.emit(ctx, Disconnected{Err: err})
	}
}

// poll reads the statistics endpoint now and on every tick.
func (m *Monitor) poll(ctx context.Context) {
	t := time.NewTicker(m.interval)
	defer t.Stop()
	for {
		if !m.pollOnce(ctx) {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
	}
}

func (m *Monitor) pollOnce(ctx context.Context) bool {
	if !m.emit(ctx, PollStarted{}) {
		return false
	}
	stats, err := m.src.RequestStats(ctx)
	if ctx.Err() != nil {
		return false
	}
	if err != nil {
		m.log.Warn().Err(err).Msg("request stats poll failed")
	}
	return m.emit(ctx, PollDone{Stats: stats, Err: err, At: m.now()})
}
