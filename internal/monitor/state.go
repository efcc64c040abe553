package monitor

import (
	"time"

	"github.com/idilsaglam/hcadmin/internal/model"
)

// PollFailed is shown when the statistics endpoint cannot be read.
const PollFailed = "Failed to load request statistics. Please try again."

// State is the single source of truth behind the monitor screen.
type State struct {
	Connected bool
	SocketErr error

	Online   model.OnlineUsers
	Requests model.RequestTallies
	Users    model.UserTallies
	Recent   []model.ConsultRequest

	Polling  bool
	PollErr  error
	LastPoll time.Time
	LastPush time.Time

	// Pushes counts online-user events received so far.
	Pushes   uint64
	pollMark uint64
}

type Event interface{ event() }

// Connected is sent once the socket joined the namespace.
type Connected struct{}

// Disconnected ends the push channel. Err is nil on a local close.
type Disconnected struct{ Err error }

// OnlineUpdate carries an onlineUsersUpdate push.
type OnlineUpdate struct {
	Users model.OnlineUsers
	At    time.Time
}

// PollStarted marks the start of a statistics request.
type PollStarted struct{}

// PollDone carries the statistics response.
type PollDone struct {
	Stats model.RequestStats
	Err   error
	At    time.Time
}

func (Connected) event()    {}
func (Disconnected) event() {}
func (OnlineUpdate) event() {}
func (PollStarted) event()  {}
func (PollDone) event()     {}

// Reduce applies one event. A push always wins over a poll that was in
// flight when it arrived: the poll's socket section is dropped then, while
// the rest of its snapshot still applies.
func Reduce(s State, e Event) State {
	switch e := e.(type) {
	case Connected:
		s.Connected, s.SocketErr = true, nil
	case Disconnected:
		s.Connected, s.SocketErr = false, e.Err
	case OnlineUpdate:
		s.Online = e.Users
		if s.Online.TotalSockets == 0 {
			s.Online.TotalSockets = s.Online.Total
		}
		s.LastPush = e.At
		s.Pushes++
	case PollStarted:
		s.Polling = true
		s.pollMark = s.Pushes
	case PollDone:
		s.Polling = false
		if e.Err != nil {
			s.PollErr = e.Err
			return s
		}
		s.PollErr = nil
		s.LastPoll = e.At
		s.Requests = e.Stats.Requests
		s.Users = e.Stats.Users
		if e.Stats.RecentRequests != nil {
			s.Recent = e.Stats.RecentRequests
		}
		if sock := e.Stats.Socket; sock != nil && s.Pushes == s.pollMark {
			s.Online = model.OnlineUsers{
				Total:        sock.TotalOnline,
				ByRole:       sock.ByRole,
				TotalSockets: sock.TotalSockets,
			}
		}
	}
	return s
}
