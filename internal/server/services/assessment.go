package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/smehub/internal/assessment"
	"github.com/dmitrijs2005/smehub/internal/common"
	"github.com/dmitrijs2005/smehub/internal/logging"
	"github.com/dmitrijs2005/smehub/internal/observability"
	"github.com/dmitrijs2005/smehub/internal/server/recommend"
	"github.com/dmitrijs2005/smehub/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// AssessmentService stores completed assessments and derives their
// recommendations and reports.
type AssessmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	registry    *recommend.Registry
	reports     ReportStore
	log         logging.Logger
}

func NewAssessmentService(db *sql.DB, m repomanager.RepositoryManager, registry *recommend.Registry, reports ReportStore, log logging.Logger) *AssessmentService {
	return &AssessmentService{
		db:          db,
		repomanager: m,
		registry:    registry,
		reports:     reports,
		log:         log.With("module", "assessments"),
	}
}

// ReportKey is the object key of an assessment's archived report.
func ReportKey(kind assessment.Kind, userID, assessmentID string) string {
	return fmt.Sprintf("reports/%s/%s/%s.json", kind, userID, assessmentID)
}

// Latest returns the user's most recent completed assessment of kind, or
// common.ErrorNotFound.
func (s *AssessmentService) Latest(ctx context.Context, userID string, kind assessment.Kind) (*assessment.Assessment, error) {
	if _, err := lookupSpec(kind); err != nil {
		return nil, err
	}
	return s.repomanager.Assessments(s.db).Latest(ctx, kind, userID)
}

// Submit records a completed assessment. Recommendation failures leave the
// stored list empty; report archival failures are logged only.
func (s *AssessmentService) Submit(ctx context.Context, userID string, kind assessment.Kind, answers assessment.Answers) (*assessment.Assessment, error) {
	spec, err := lookupSpec(kind)
	if err != nil {
		return nil, err
	}
	if answers.Len() == 0 {
		return nil, fmt.Errorf("%w: answers are empty", common.ErrorValidation)
	}

	a := &assessment.Assessment{OwnerID: userID, Kind: kind, Answers: answers}
	a.Profile, a.Strategy = recommend.Summarize(kind, answers)
	a.Recommendations = s.compute(ctx, spec, answers)

	if err := s.repomanager.Assessments(s.db).Insert(ctx, a); err != nil {
		return nil, fmt.Errorf("error saving assessment: %w", err)
	}
	observability.RecordAssessmentCompleted(string(kind))
	s.log.Info(ctx, "assessment completed", "kind", kind, "user_id", userID, "assessment_id", a.ID)

	s.archive(ctx, a)
	return a, nil
}

// Recommendations returns the stored recommendations of an assessment, or
// scores its stored answers when none were saved. Completed rows are never
// rewritten. Without an assessment id the given answers are scored.
func (s *AssessmentService) Recommendations(ctx context.Context, userID string, kind assessment.Kind, assessmentID string, answers assessment.Answers) (assessment.Recommendations, error) {
	spec, err := lookupSpec(kind)
	if err != nil {
		return nil, err
	}
	if assessmentID == "" {
		return s.registry.Compute(ctx, spec.RecommendFunction, answers)
	}

	a, err := s.owned(ctx, userID, kind, assessmentID)
	if err != nil {
		return nil, err
	}
	if len(a.Recommendations) > 0 {
		return a.Recommendations, nil
	}
	return s.registry.Compute(ctx, spec.RecommendFunction, a.Answers)
}

// ReportURL returns a presigned link to the archived report.
func (s *AssessmentService) ReportURL(ctx context.Context, userID string, kind assessment.Kind, assessmentID string) (string, error) {
	if _, err := lookupSpec(kind); err != nil {
		return "", err
	}
	a, err := s.owned(ctx, userID, kind, assessmentID)
	if err != nil {
		return "", err
	}
	url, err := s.reports.PresignGet(ctx, ReportKey(kind, userID, a.ID))
	if err != nil {
		return "", fmt.Errorf("error presigning report: %w", err)
	}
	return url, nil
}

func (s *AssessmentService) owned(ctx context.Context, userID string, kind assessment.Kind, assessmentID string) (*assessment.Assessment, error) {
	if _, err := uuid.Parse(assessmentID); err != nil {
		return nil, fmt.Errorf("%w: malformed assessment id", common.ErrorValidation)
	}
	a, err := s.repomanager.Assessments(s.db).Get(ctx, kind, assessmentID)
	if err != nil {
		return nil, err
	}
	// Someone else's assessment looks the same as a missing one.
	if a.OwnerID != userID {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func (s *AssessmentService) compute(ctx context.Context, spec assessment.Spec, answers assessment.Answers) assessment.Recommendations {
	recs, err := s.registry.Compute(ctx, spec.RecommendFunction, answers)
	if err != nil {
		observability.RecordRecommendationFailure(spec.RecommendFunction)
		s.log.Warn(ctx, "recommendation function failed", "function", spec.RecommendFunction, "error", err)
		return nil
	}
	return recs
}

func (s *AssessmentService) archive(ctx context.Context, a *assessment.Assessment) {
	data, err := json.MarshalIndent(a, "", "  ")
	if err == nil {
		err = s.reports.Put(ctx, ReportKey(a.Kind, a.OwnerID, a.ID), data)
	}
	if err != nil {
		s.log.Warn(ctx, "report archive failed", "assessment_id", a.ID, "error", err)
	}
}

func lookupSpec(kind assessment.Kind) (assessment.Spec, error) {
	spec, ok := assessment.Lookup(kind)
	if !ok {
		return assessment.Spec{}, fmt.Errorf("%w: unknown assessment kind %q", common.ErrorValidation, kind)
	}
	return spec, nil
}

