package monitor

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/hcadmin/internal/api"
	"github.com/idilsaglam/hcadmin/internal/apitest"
	"github.com/idilsaglam/hcadmin/internal/model"
)

// waitFor reads updates until ok holds or the deadline passes.
func waitFor(t *testing.T, m *Monitor, ok func(State) bool) State {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case s, open := <-m.Updates():
			if !open {
				t.Fatal("updates closed")
			}
			if ok(s) {
				return s
			}
		case <-deadline:
			t.Fatalf("condition not reached; last state %+v", m.Snapshot())
		}
	}
}

func start(t *testing.T, b *apitest.Backend, interval time.Duration) (*Monitor, chan error) {
	t.Helper()
	m := New(api.New(b.URL()), b.Origin(), interval)
	errc := make(chan error, 1)
	go func() { errc <- m.Run(context.Background()) }()
	t.Cleanup(func() { _ = m.Close() })
	return m, errc
}

func TestMonitor_PushAndPoll(t *testing.T) {
	b := apitest.New(t)
	b.RequestStats = model.RequestStats{
		Requests: model.RequestTallies{Total: 3, Completed: 1},
		Users:    model.UserTallies{Total: 12, Doctors: 2},
	}
	m, _ := start(t, b, time.Hour)

	require.True(t, b.WaitConnected(5*time.Second))
	s := waitFor(t, m, func(s State) bool { return s.Connected && !s.LastPoll.IsZero() })
	assert.Equal(t, 3, s.Requests.Total)
	assert.Equal(t, 2, s.Users.Doctors)

	require.NoError(t, b.Emit(EventOnlineUsers, model.OnlineUsers{Total: 5, ByRole: map[string]int{"patient": 4, "doctor": 1}}))
	s = waitFor(t, m, func(s State) bool { return s.Online.Total == 5 })
	assert.Equal(t, 4, s.Online.ByRole["patient"])
	assert.Equal(t, 5, s.Online.TotalSockets)
	assert.Equal(t, 1, b.Count(http.MethodGet, "/portal/request/stats"))
}

func TestMonitor_PollsOnInterval(t *testing.T) {
	b := apitest.New(t)
	start(t, b, 20*time.Millisecond)
	require.Eventually(t, func() bool {
		return b.Count(http.MethodGet, "/portal/request/stats") >= 3
	}, 5*time.Second, 10*time.Millisecond)
}

func TestMonitor_PollFailureIsKeptInState(t *testing.T) {
	b := apitest.New(t)
	b.Respond(http.MethodGet, "/portal/request/stats", http.StatusInternalServerError, map[string]string{"message": "db down"})
	m, _ := start(t, b, time.Hour)
	s := waitFor(t, m, func(s State) bool { return s.PollErr != nil })
	assert.Equal(t, "db down", s.PollErr.Error())
}

func TestMonitor_CloseReleasesEverything(t *testing.T) {
	b := apitest.New(t)
	m, errc := start(t, b, 10*time.Millisecond)
	require.True(t, b.WaitConnected(5*time.Second))

	require.NoError(t, m.Close())
	require.NoError(t, <-errc)
	require.NoError(t, m.Close(), "close is idempotent")

	require.Eventually(t, func() bool { return b.Connected() == 0 }, 5*time.Second, 10*time.Millisecond)
	polls := b.Count(http.MethodGet, "/portal/request/stats")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, polls, b.Count(http.MethodGet, "/portal/request/stats"), "ticker stopped")

	for range m.Updates() {
	}
	assert.False(t, m.Snapshot().Connected)
	require.ErrorIs(t, m.Run(context.Background()), ErrClosed)
}

func TestMonitor_CloseBeforeRunReleasesReaders(t *testing.T) {
	b := apitest.New(t)
	m := New(api.New(b.URL()), b.Origin(), time.Hour)

	read := make(chan bool, 1)
	go func() {
		_, open := <-m.Updates()
		read <- open
	}()

	require.NoError(t, m.Close())
	select {
	case open := <-read:
		assert.False(t, open)
	case <-time.After(5 * time.Second):
		t.Fatal("reader still blocked on Updates")
	}
	require.ErrorIs(t, m.Run(context.Background()), ErrClosed)
	require.NoError(t, m.Close())
	assert.Zero(t, b.Count(http.MethodGet, "/portal/request/stats"))
}

func TestMonitor_UnreachableSocketStillPolls(t *testing.T) {
	b := apitest.New(t)
	m := New(api.New(b.URL()), "http://127.0.0.1:1", time.Hour)
	go func() { _ = m.Run(context.Background()) }()
	defer m.Close()

	s := waitFor(t, m, func(s State) bool { return s.SocketErr != nil && !s.LastPoll.IsZero() })
	assert.False(t, s.Connected)
}

func TestMonitor_RunTwice(t *testing.T) {
	b := apitest.New(t)
	m, _ := start(t, b, time.Hour)
	require.True(t, b.WaitConnected(5*time.Second))
	require.ErrorIs(t, m.Run(context.Background()), ErrRunning)
}
