package cli

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/dmitrijs2005/smehub/internal/assessment"
	"github.com/dmitrijs2005/smehub/internal/client/flows"
)

// page owns the flow behind the current screen. Commands the REPL does not
// handle itself are passed to the current page.
type page interface {
	Name() string
	Help() string
	Handle(ctx context.Context, cmd string, args []string) (bool, error)
	Close()
}

type navigation struct {
	route  string
	params map[string]string
}

// Navigate queues a page change. It is processed after the current command
// returns, so flows may call it from inside their methods.
func (a *App) Navigate(route string, params map[string]string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.pending = append(a.pending, navigation{route: route, params: params})
}

func (a *App) takeNavigation() (navigation, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.pending) == 0 {
		return navigation{}, false
	}
	n := a.pending[0]
	a.pending = a.pending[1:]
	return n, true
}

func (a *App) followNavigation(ctx context.Context) {
	for {
		n, ok := a.takeNavigation()
		if !ok {
			return
		}
		if err := a.open(ctx, n.route, n.params); err != nil {
			a.printError(err)
		}
	}
}

func (a *App) currentPage() page {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.page
}

func (a *App) setPage(p page) {
	a.mu.Lock()
	old := a.page
	a.page = p
	a.mu.Unlock()

	if old != nil {
		old.Close()
	}
}

func (a *App) closePage() {
	a.setPage(nil)
}

// open resolves a route to a page. Query parameters in the route are merged
// with params.
func (a *App) open(ctx context.Context, route string, params map[string]string) error {
	u, err := url.Parse(route)
	if err != nil {
		return fmt.Errorf("bad route %q: %w", route, err)
	}
	q := map[string]string{}
	for k, v := range u.Query() {
		if len(v) > 0 {
			q[k] = v[0]
		}
	}
	for k, v := range params {
		q[k] = v
	}

	switch {
	case u.Path == flows.RouteSignIn:
		return a.openSignIn(ctx)

	case u.Path == flows.RouteDashboard:
		a.setPage(&dashboardPage{})
		a.renderDashboard()
		return nil

	case strings.HasPrefix(u.Path, flows.RouteDashboard+"/"):
		a.setPage(&dashboardPage{kind: strings.TrimPrefix(u.Path, flows.RouteDashboard+"/")})
		a.renderDashboard()
		return nil

	case u.Path == flows.RouteMessages:
		a.setPage(&messagesPage{contact: q["contact"]})
		fmt.Fprintf(a.out, "Messages: new conversation with %s\n", q["contact"])
		return nil

	case strings.HasPrefix(u.Path, "/assessment/"):
		kind := assessment.Kind(path.Base(u.Path))
		return a.openAssessment(ctx, kind, q["view"] == "results")
	}

	return fmt.Errorf("unknown route %q", route)
}

func (a *App) printError(err error) {
	fmt.Fprintf(a.out, "Error: %s\n", err.Error())
}

type dashboardPage struct {
	kind string
}

func (p *dashboardPage) Name() string {
	if p.kind != "" {
		return "dashboard/" + p.kind
	}
	return "dashboard"
}

func (p *dashboardPage) Help() string { return "" }

func (p *dashboardPage) Handle(context.Context, string, []string) (bool, error) {
	return false, nil
}

func (p *dashboardPage) Close() {}

func (a *App) renderDashboard() {
	sess, ok := a.sessions.Current()
	if !ok {
		return
	}
	fmt.Fprintf(a.out, "Signed in as %s (%s)\n", sess.Email, sess.AccountType)
	kinds := make([]string, 0, 4)
	for _, s := range assessment.All() {
		kinds = append(kinds, string(s.Kind))
	}
	fmt.Fprintf(a.out, "Open an assessment with: assess <%s> [results]\n", strings.Join(kinds, "|"))
}

type messagesPage struct {
	contact string
}

func (p *messagesPage) Name() string { return "messages" }
func (p *messagesPage) Help() string { return "" }
func (p *messagesPage) Close()       {}

func (p *messagesPage) Handle(context.Context, string, []string) (bool, error) {
	return false, nil
}
