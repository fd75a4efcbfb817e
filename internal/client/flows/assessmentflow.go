package flows

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dmitrijs2005/smehub/internal/assessment"
	"github.com/dmitrijs2005/smehub/internal/client/session"
	"github.com/dmitrijs2005/smehub/internal/common"
	"github.com/dmitrijs2005/smehub/internal/logging"
)

type ViewState string

const (
	ViewLoading    ViewState = "loading"
	ViewIntro      ViewState = "intro"
	ViewInProgress ViewState = "in_progress"
	ViewResults    ViewState = "results"
	ViewExited     ViewState = "exited"
)

type Action string

const (
	ActionStart               Action = "start"
	ActionComplete            Action = "complete"
	ActionRetake              Action = "retake"
	ActionSkip                Action = "skip"
	ActionViewExistingResults Action = "view_existing_results"
	ActionContact             Action = "contact"
	ActionDownloadReport      Action = "download_report"
)

const (
	MsgAssessmentCompleted = "Assessment completed"
	msgExistingCheckFailed = "Could not check for a previous assessment: "
)

// MountOptions carries hints from the route that opened the page.
type MountOptions struct {
	ShowResults bool
}

// AssessmentState is a snapshot of an AssessmentFlow.
type AssessmentState struct {
	View            ViewState
	Kind            assessment.Kind
	Existing        *assessment.Assessment
	Current         *assessment.Assessment
	Recommendations []assessment.Recommendation
	Error           string
	Busy            bool
}

// AssessmentFlow drives one assessment page. The same type serves every
// kind; behaviour differences come from the assessment.Spec.
type AssessmentFlow struct {
	spec        assessment.Spec
	sessions    session.Accessor
	store       AssessmentStore
	recommender Recommender
	nav         Navigator
	notifier    Notifier
	log         logging.Logger

	mu       sync.Mutex
	view     ViewState
	mounted  bool
	userID   string
	existing *assessment.Assessment
	current  *assessment.Assessment
	recs     []assessment.Recommendation
	errMsg   string
	busy     bool
	gen      uint64
	closed   bool
}

func NewAssessmentFlow(
	spec assessment.Spec,
	sessions session.Accessor,
	store AssessmentStore,
	recommender Recommender,
	nav Navigator,
	notifier Notifier,
	log logging.Logger,
) *AssessmentFlow {
	return &AssessmentFlow{
		spec:        spec,
		sessions:    sessions,
		store:       store,
		recommender: recommender,
		nav:         nav,
		notifier:    notifier,
		log:         log.With("module", "assessmentflow", "kind", string(spec.Kind)),
		view:        ViewLoading,
	}
}

func (f *AssessmentFlow) Spec() assessment.Spec {
	return f.spec
}

// State returns a copy of the current state.
func (f *AssessmentFlow) State() AssessmentState {
	f.mu.Lock()
	defer f.mu.Unlock()

	s := AssessmentState{
		View:     f.view,
		Kind:     f.spec.Kind,
		Existing: f.existing,
		Current:  f.current,
		Error:    f.errMsg,
		Busy:     f.busy,
	}
	if f.recs != nil {
		s.Recommendations = append([]assessment.Recommendation{}, f.recs...)
	}
	return s
}

// Mount loads the user's latest completed assessment of this kind. Without
// a session the user is sent to sign-in and the flow is not entered.
func (f *AssessmentFlow) Mount(ctx context.Context, opts MountOptions) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrStale
	}
	if f.mounted {
		f.mu.Unlock()
		return ErrAlreadyMounted
	}
	sess, ok := f.sessions.Current()
	if !ok {
		f.view = ViewExited
		f.mu.Unlock()
		f.nav.Navigate(RouteSignIn, nil)
		return ErrNotAuthenticated
	}
	f.mounted = true
	f.userID = sess.UserID
	f.view = ViewLoading
	f.busy = true
	gen := f.gen
	f.mu.Unlock()

	existing, err := f.store.FetchLatestCompleted(ctx, sess.UserID, f.spec.Kind)
	if err != nil {
		existing = nil
		if !errors.Is(err, common.ErrorNotFound) {
			f.log.Warn(ctx, "previous assessment check failed", "error", err)
		}
	}

	var recs []assessment.Recommendation
	showResults := existing != nil && opts.ShowResults
	if showResults {
		recs = f.deriveRecommendations(ctx, existing)
	}

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return ErrStale
	}
	f.busy = false
	f.existing = existing
	if showResults {
		f.current = existing
		f.recs = recs
		f.view = ViewResults
	} else {
		f.view = ViewIntro
	}
	f.mu.Unlock()

	if err != nil && !errors.Is(err, common.ErrorNotFound) {
		f.notifier.Notify(msgExistingCheckFailed + err.Error())
	}
	return nil
}

// Start begins the questionnaire. Any results loaded earlier are dropped.
func (f *AssessmentFlow) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkLocked(ViewIntro); err != nil {
		return err
	}
	f.current = nil
	f.recs = nil
	f.errMsg = ""
	f.view = ViewInProgress
	return nil
}

// Complete submits the answers and shows the results.
func (f *AssessmentFlow) Complete(ctx context.Context, answers assessment.Answers) error {
	f.mu.Lock()
	if err := f.checkLocked(ViewInProgress); err != nil {
		f.mu.Unlock()
		return err
	}
	f.busy = true
	f.errMsg = ""
	gen := f.gen
	userID := f.userID
	f.mu.Unlock()

	a, err := f.store.Submit(ctx, userID, f.spec.Kind, answers)
	if err != nil {
		f.mu.Lock()
		defer f.mu.Unlock()
		if gen != f.gen {
			return ErrStale
		}
		f.busy = false
		f.errMsg = err.Error()
		f.log.Warn(ctx, "assessment submit failed", "error", err)
		return err
	}

	recs := f.deriveRecommendations(ctx, a)

	f.mu.Lock()
	if gen != f.gen {
		f.mu.Unlock()
		return ErrStale
	}
	f.busy = false
	f.existing = a
	f.current = a
	f.recs = recs
	f.view = ViewResults
	f.mu.Unlock()

	f.notifier.Notify(MsgAssessmentCompleted)
	return nil
}

// Retake clears the shown results and restarts the questionnaire.
func (f *AssessmentFlow) Retake() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkLocked(ViewResults); err != nil {
		return err
	}
	f.current = nil
	f.recs = nil
	f.errMsg = ""
	f.view = ViewInProgress
	return nil
}

// Skip leaves the flow for the kind's dashboard.
func (f *AssessmentFlow) Skip() error {
	f.mu.Lock()
	if err := f.checkLocked(ViewIntro, ViewInProgress); err != nil {
		f.mu.Unlock()
		return err
	}
	f.gen++
	f.existing = nil
	f.current = nil
	f.recs = nil
	f.errMsg = ""
	f.view = ViewExited
	f.mu.Unlock()

	f.nav.Navigate(f.spec.ExitRoute, nil)
	return nil
}

// ViewExistingResults shows the assessment found at mount.
func (f *AssessmentFlow) ViewExistingResults(ctx context.Context) error {
	f.mu.Lock()
	if err := f.checkLocked(ViewIntro); err != nil {
		f.mu.Unlock()
		return err
	}
	if f.existing == nil {
		f.mu.Unlock()
		return ErrInvalidTransition
	}
	f.busy = true
	gen := f.gen
	existing := f.existing
	f.mu.Unlock()

	recs := f.deriveRecommendations(ctx, existing)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return ErrStale
	}
	f.busy = false
	f.current = existing
	f.recs = recs
	f.view = ViewResults
	return nil
}

// ContactFromResults opens a conversation with a recommended counterpart.
func (f *AssessmentFlow) ContactFromResults(targetID string) error {
	targetID = strings.TrimSpace(targetID)

	f.mu.Lock()
	if err := f.checkLocked(ViewResults); err != nil {
		f.mu.Unlock()
		return err
	}
	f.mu.Unlock()

	if targetID == "" {
		return FieldErrors{"contact": "Please choose who to contact"}
	}
	f.nav.Navigate(RouteMessages, map[string]string{"contact": targetID})
	return nil
}

// DownloadReport returns a short-lived URL for the shown assessment's
// archived report.
func (f *AssessmentFlow) DownloadReport(ctx context.Context) (string, error) {
	f.mu.Lock()
	if err := f.checkLocked(ViewResults); err != nil {
		f.mu.Unlock()
		return "", err
	}
	if f.current == nil {
		f.mu.Unlock()
		return "", ErrInvalidTransition
	}
	f.busy = true
	gen := f.gen
	id := f.current.ID
	f.mu.Unlock()

	url, err := f.store.ReportURL(ctx, f.spec.Kind, id)

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.gen {
		return "", ErrStale
	}
	f.busy = false
	if err != nil {
		f.errMsg = err.Error()
		return "", err
	}
	return url, nil
}

// Actions lists what the user can do in the current view.
func (f *AssessmentFlow) Actions() []Action {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	switch f.view {
	case ViewIntro:
		actions := []Action{ActionStart, ActionSkip}
		if f.existing != nil {
			actions = append(actions, ActionViewExistingResults)
		}
		return actions
	case ViewInProgress:
		return []Action{ActionComplete, ActionSkip}
	case ViewResults:
		return []Action{ActionRetake, ActionContact, ActionDownloadReport}
	}
	return nil
}

// Close tears the flow down; results of calls still in flight are dropped.
func (f *AssessmentFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.gen++
	f.busy = false
}

func (f *AssessmentFlow) checkLocked(allowed ...ViewState) error {
	if f.closed {
		return ErrStale
	}
	if f.busy {
		return ErrBusy
	}
	for _, v := range allowed {
		if f.view == v {
			return nil
		}
	}
	return ErrInvalidTransition
}

// deriveRecommendations prefers the stored recommendations and falls back to
// the kind's function. A failing function yields an empty list.
func (f *AssessmentFlow) deriveRecommendations(ctx context.Context, a *assessment.Assessment) []assessment.Recommendation {
	if len(a.Recommendations) > 0 {
		return append([]assessment.Recommendation{}, a.Recommendations...)
	}

	recs, err := f.recommender.ComputeRecommendations(ctx, f.spec.Kind, a.ID, a.Answers)
	if err != nil {
		f.log.Warn(ctx, "recommendations unavailable", "function", f.spec.RecommendFunction, "error", err)
		return []assessment.Recommendation{}
	}
	if recs == nil {
		return []assessment.Recommendation{}
	}
	return recs
}
