package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/smehub/internal/client/client"
	"github.com/dmitrijs2005/smehub/internal/client/config"
	"github.com/dmitrijs2005/smehub/internal/client/flows"
	"github.com/dmitrijs2005/smehub/internal/client/services"
	"github.com/dmitrijs2005/smehub/internal/client/session"
	"github.com/dmitrijs2005/smehub/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

type App struct {
	config        *config.Config
	log           logging.Logger
	authService   services.AuthService
	assessService services.AssessmentService
	sessions      *session.Store
	reader        *bufio.Reader
	out           io.Writer
	authFlowOpts  []flows.AuthOption

	mu      sync.Mutex
	mode    Mode
	page    page
	pending []navigation
}

func NewApp(ctx context.Context, c *config.Config, l logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		l.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	apiClient, err := client.NewGRPCClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	sessions := session.NewStore()
	as := services.NewAuthService(apiClient, db, sessions, l)
	es := services.NewAssessmentService(apiClient, db, sessions, l)

	return newApp(c, l, as, es, sessions, bufio.NewReader(os.Stdin), os.Stdout), nil
}

func newApp(c *config.Config, l logging.Logger, as services.AuthService, es services.AssessmentService,
	sessions *session.Store, r *bufio.Reader, w io.Writer) *App {
	return &App{
		config:        c,
		log:           l.With("module", "cli"),
		authService:   as,
		assessService: es,
		sessions:      sessions,
		reader:        r,
		out:           w,
	}
}

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		a.log.Info(ctx, "connectivity changed", "mode", string(mode))
	}
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// Run starts the connectivity watcher and the REPL. It blocks until the
// user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer a.authService.Close(ctx)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fmt.Fprintln(a.out, "Welcome to the SME marketplace CLI (type 'help' for commands)")

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	a.Navigate(flows.RouteSignIn, nil)
	a.followNavigation(ctx)

	runREPL(ctx, a, a.getStatus, a.reader)
	a.closePage()
	return nil
}

func (a *App) isLoggedIn() bool {
	_, ok := a.sessions.Current()
	return ok
}

func (a *App) getStatus() string {
	s := ""
	if sess, ok := a.sessions.Current(); ok {
		s = sess.Email + " "
		if sess.Offline {
			s += "offline-session "
		}
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	if p := a.currentPage(); p != nil {
		s = p.Name() + " " + s
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// StartOnlineStatusWatcher pings the server every interval and records the
// result as the connectivity mode.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.authService.Ping(pctx)
			cancel()

			if err != nil {
				if a.Mode() == ModeOnline {
					a.setMode(ctx, ModeOffline)
				}
			} else {
				a.setMode(ctx, ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}

// Notify prints a flow notification.
func (a *App) Notify(msg string) {
	fmt.Fprintf(a.out, "* %s\n", msg)
}
