package cli

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/x/term"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/idilsaglam/hcadmin/internal/api"
	"github.com/idilsaglam/hcadmin/internal/config"
	"github.com/idilsaglam/hcadmin/internal/logging"
	"github.com/idilsaglam/hcadmin/internal/resource"
	"github.com/idilsaglam/hcadmin/internal/session"
	"github.com/idilsaglam/hcadmin/internal/ui"
)

// env is the lazily built runtime shared by every command.
type env struct {
	opt     Options
	v       *viper.Viper
	cfgPath string
	out     *printer

	cfg     *config.Config
	log     zerolog.Logger
	logFile io.Closer
	client  *api.Client
	sess    *session.Session
}

func newEnv(opt Options) *env {
	return &env{
		opt: opt,
		v:   config.New(),
		out: &printer{out: opt.Stdout, err: opt.Stderr},
		log: zerolog.Nop(),
	}
}

// config resolves the settings and applies the theme.
func (e *env) config() (*config.Config, error) {
	if e.cfg != nil {
		return e.cfg, nil
	}
	cfg, err := config.Load(e.v, e.cfgPath)
	if err != nil {
		return nil, err
	}
	if err := ui.SetTheme(cfg.Theme); err != nil {
		return nil, usageError{err.Error()}
	}
	e.cfg = cfg
	return cfg, nil
}

// open builds the logger, API client and session.
func (e *env) open() error {
	if e.sess != nil {
		return nil
	}
	cfg, err := e.config()
	if err != nil {
		return err
	}
	log, closer, err := logging.Open(cfg.DataDir, cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	e.log, e.logFile = log, closer

	var sess *session.Session
	e.client = api.New(cfg.BaseURL,
		api.WithTimeout(cfg.Timeout),
		api.WithLogger(log),
		api.WithToken(func() string { return sess.Token() }),
	)
	sess, err = session.Open(cfg.DataDir, cfg.SuperAdminRole, e.client)
	if err != nil {
		return err
	}
	e.sess = sess
	return nil
}

// loggedIn opens the runtime and insists on a session.
func (e *env) loggedIn() (session.Snapshot, error) {
	if err := e.open(); err != nil {
		return session.Snapshot{}, err
	}
	snap := e.sess.Snapshot()
	if !snap.LoggedIn() {
		return snap, fmt.Errorf("%w. Run: hcadmin login", session.ErrNotLoggedIn)
	}
	if snap.Expired(e.opt.Now()) {
		ui.Info(e.opt.Stderr, "token expired; requests may be rejected. Run: hcadmin login")
	}
	return snap, nil
}

func (e *env) view(name string) (resource.View, error) {
	v, err := resource.Open(name, resource.Deps{
		Client: e.client,
		UserID: func() string { return e.sess.Snapshot().User.ID },
		Notify: e.out,
		Log:    e.log,
	})
	if err != nil {
		return nil, usageError{err.Error()}
	}
	if err := v.SetPageSize(e.cfg.PageSize); err != nil {
		return nil, err
	}
	return v, nil
}

func (e *env) close() {
	if e.logFile != nil {
		_ = e.logFile.Close()
	}
}

// width is the terminal width of stdout, or 0 when it is not a terminal.
func (e *env) width() int {
	f, ok := e.opt.Stdout.(*os.File)
	if !ok || !term.IsTerminal(f.Fd()) {
		return 0
	}
	w, _, err := term.GetSize(f.Fd())
	if err != nil {
		return 0
	}
	return w
}

// printer turns notices into ✔/✖ lines and remembers whether an error was
// already shown.
type printer struct {
	out, err io.Writer
	mu       sync.Mutex
	failed   bool
}

func (p *printer) Notify(n resource.Notice) {
	p.mu.Lock()
	defer p.mu.Unlock()
	switch n.Level {
	case resource.LevelSuccess:
		ui.OK(p.out, n.Text)
	case resource.LevelError:
		p.failed = true
		ui.Fail(p.err, n.Text)
	default:
		ui.Info(p.out, n.Text)
	}
}

func (p *printer) reported() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}
