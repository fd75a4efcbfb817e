package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/smehub/internal/assessment"
	"github.com/dmitrijs2005/smehub/internal/client/flows"
)

// skipInput abandons the questionnaire when typed at any question.
const skipInput = ":skip"

// assessPage presents one AssessmentFlow.
type assessPage struct {
	app  *App
	flow *flows.AssessmentFlow
}

// Assess handles "assess <kind> [results]".
func (a *App) Assess(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: assess <kind> [results]")
	}
	spec, ok := assessment.Lookup(assessment.Kind(strings.ToLower(args[0])))
	if !ok {
		return fmt.Errorf("unknown assessment %q", args[0])
	}

	route := "/assessment/" + string(spec.Kind)
	if len(args) > 1 && args[1] == "results" {
		route = spec.ResultsRoute
	}
	a.Navigate(route, nil)
	return nil
}

func (a *App) openAssessment(ctx context.Context, kind assessment.Kind, showResults bool) error {
	spec, ok := assessment.Lookup(kind)
	if !ok {
		return fmt.Errorf("unknown assessment %q", kind)
	}

	flow := flows.NewAssessmentFlow(spec, a.sessions, a.assessService, a.assessService, a, a, a.log)
	if err := flow.Mount(ctx, flows.MountOptions{ShowResults: showResults}); err != nil {
		flow.Close()
		return err
	}

	p := &assessPage{app: a, flow: flow}
	a.setPage(p)
	p.render()
	return nil
}

func (p *assessPage) Name() string {
	st := p.flow.State()
	return fmt.Sprintf("%s:%s", st.Kind, st.View)
}

func (p *assessPage) Help() string {
	names := make([]string, 0)
	for _, a := range p.flow.Actions() {
		switch a {
		case flows.ActionStart:
			names = append(names, "start")
		case flows.ActionSkip:
			names = append(names, "skip")
		case flows.ActionViewExistingResults:
			names = append(names, "results")
		case flows.ActionRetake:
			names = append(names, "retake")
		case flows.ActionContact:
			names = append(names, "contact <id>")
		case flows.ActionDownloadReport:
			names = append(names, "report")
		}
	}
	return strings.Join(names, ", ")
}

func (p *assessPage) Handle(ctx context.Context, cmd string, args []string) (bool, error) {
	switch cmd {
	case "start":
		if err := p.flow.Start(); err != nil {
			return true, err
		}
		return true, p.questionnaire(ctx)
	case "retake":
		if err := p.flow.Retake(); err != nil {
			return true, err
		}
		return true, p.questionnaire(ctx)
	case "skip":
		return true, p.flow.Skip()
	case "results":
		if err := p.flow.ViewExistingResults(ctx); err != nil {
			return true, err
		}
		p.render()
		return true, nil
	case "contact":
		id := ""
		if len(args) > 0 {
			id = args[0]
		}
		return true, p.flow.ContactFromResults(id)
	case "report":
		return true, p.report(ctx)
	}
	return false, nil
}

func (p *assessPage) Close() {
	p.flow.Close()
}

// questionnaire asks every question of the kind and completes the flow.
func (p *assessPage) questionnaire(ctx context.Context) error {
	spec := p.flow.Spec()
	values := make(map[string]any, len(spec.Questions))
	fmt.Fprintf(p.app.out, "%s (type %s to leave)\n", spec.Title, skipInput)

	for _, q := range spec.Questions {
		var (
			v       any
			escaped bool
		)
		if q.Multi {
			items, esc, err := GetList(p.app.reader, q.Prompt, q.Options, skipInput, p.app.out)
			if err != nil {
				return err
			}
			list := make([]any, 0, len(items))
			for _, it := range items {
				list = append(list, it)
			}
			v, escaped = list, esc != ""
		} else {
			s, err := GetChoice(p.app.reader, q.Prompt, q.Options, skipInput, p.app.out)
			if err != nil {
				return err
			}
			v, escaped = scalar(s), s == skipInput
		}

		if escaped {
			return p.flow.Skip()
		}
		values[q.Key] = v
	}

	answers, err := assessment.NewAnswers(values)
	if err != nil {
		return err
	}
	if err := p.flow.Complete(ctx, answers); err != nil {
		return err
	}
	p.render()
	return nil
}

func scalar(s string) any {
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}

func (p *assessPage) report(ctx context.Context) error {
	url, err := p.flow.DownloadReport(ctx)
	if err != nil {
		return err
	}
	st := p.flow.State()
	name := fmt.Sprintf("%s-%s.json", st.Kind, st.Current.ID)
	path, err := p.app.assessService.DownloadReport(ctx, url, name, p.app.config.ReportsDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(p.app.out, "Report saved to %s\n", path)
	return nil
}

func (p *assessPage) render() {
	st := p.flow.State()
	out := p.app.out

	switch st.View {
	case flows.ViewIntro:
		spec := p.flow.Spec()
		fmt.Fprintf(out, "%s: %d questions\n", spec.Title, len(spec.Questions))
		if st.Existing != nil {
			fmt.Fprintf(out, "You completed this assessment on %s\n", st.Existing.CompletedAt.Format("2006-01-02"))
		}

	case flows.ViewResults:
		a := st.Current
		fmt.Fprintf(out, "Results (%s)\n", a.CompletedAt.Format("2006-01-02 15:04"))
		if a.Profile != "" {
			fmt.Fprintf(out, "Profile:  %s\n", a.Profile)
		}
		if a.Strategy != "" {
			fmt.Fprintf(out, "Strategy: %s\n", a.Strategy)
		}
		if len(st.Recommendations) == 0 {
			fmt.Fprintln(out, "No recommendations yet")
		}
		for _, r := range st.Recommendations {
			fmt.Fprintf(out, "  %-12s %-10s %-40s %.1f\n", r.TargetID, r.TargetType, r.Title, r.Score)
		}
	}

	if h := p.Help(); h != "" {
		fmt.Fprintf(out, "Commands: %s\n", h)
	}
}
