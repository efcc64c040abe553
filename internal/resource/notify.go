package resource

// Level is the severity of a notice.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
	LevelInfo
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	}
	return "info"
}

// Notice is one user-facing message: a status line in the TUI, a ✔/✖ line in the CLI.
type Notice struct {
	Level Level
	Text  string
}

type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discard struct{}

func (discard) Notify(Notice) {}
