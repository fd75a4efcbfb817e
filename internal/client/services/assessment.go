package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/smehub/internal/assessment"
	"github.com/dmitrijs2005/smehub/internal/client/client"
	"github.com/dmitrijs2005/smehub/internal/client/repositories/assessments"
	"github.com/dmitrijs2005/smehub/internal/client/session"
	"github.com/dmitrijs2005/smehub/internal/common"
	"github.com/dmitrijs2005/smehub/internal/cryptox"
	"github.com/dmitrijs2005/smehub/internal/filex"
	"github.com/dmitrijs2005/smehub/internal/logging"
	"github.com/dmitrijs2005/smehub/internal/netx"
)

const msgOfflineSubmit = "You are offline. Assessments can only be submitted while connected"

// downloadPresignedURL is a test seam.
var downloadPresignedURL = netx.DownloadPresignedURL

// AssessmentService is the assessment store and recommendation function as
// seen by the client. The last assessment per kind is cached encrypted
// under the session's master key and served when the server is
// unreachable.
type AssessmentService interface {
	FetchLatestCompleted(ctx context.Context, userID string, kind assessment.Kind) (*assessment.Assessment, error)
	Submit(ctx context.Context, userID string, kind assessment.Kind, answers assessment.Answers) (*assessment.Assessment, error)
	ComputeRecommendations(ctx context.Context, kind assessment.Kind, assessmentID string, answers assessment.Answers) ([]assessment.Recommendation, error)
	ReportURL(ctx context.Context, kind assessment.Kind, assessmentID string) (string, error)
	DownloadReport(ctx context.Context, url, fileName, dir string) (string, error)
}

type assessmentService struct {
	client   client.Client
	db       *sql.DB
	sessions session.Accessor
	log      logging.Logger
	now      func() time.Time
}

func NewAssessmentService(c client.Client, db *sql.DB, sessions session.Accessor, log logging.Logger) AssessmentService {
	return &assessmentService{
		client:   c,
		db:       db,
		sessions: sessions,
		log:      log.With("module", "assessment_service"),
		now:      time.Now,
	}
}

func (s *assessmentService) offline() bool {
	sess, ok := s.sessions.Current()
	return ok && sess.Offline
}

// FetchLatestCompleted returns common.ErrorNotFound when the user has no
// completed assessment of this kind.
func (s *assessmentService) FetchLatestCompleted(ctx context.Context, userID string, kind assessment.Kind) (*assessment.Assessment, error) {
	if s.offline() {
		return s.fromCache(ctx, userID, kind)
	}

	a, err := s.client.LatestAssessment(ctx, kind)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			if cached, cerr := s.fromCache(ctx, userID, kind); cerr == nil {
				s.log.Warn(ctx, "serving cached assessment", "kind", kind)
				return cached, nil
			}
		}
		return nil, err
	}

	s.toCache(ctx, userID, kind, a)
	return a, nil
}

func (s *assessmentService) Submit(ctx context.Context, userID string, kind assessment.Kind, answers assessment.Answers) (*assessment.Assessment, error) {
	if s.offline() {
		return nil, client.NewError(client.ErrUnavailable, msgOfflineSubmit)
	}

	a, err := s.client.SubmitAssessment(ctx, kind, answers)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, userID, kind, a)
	return a, nil
}

func (s *assessmentService) ComputeRecommendations(ctx context.Context, kind assessment.Kind, assessmentID string, answers assessment.Answers) ([]assessment.Recommendation, error) {
	return s.client.Recommendations(ctx, kind, assessmentID, answers)
}

func (s *assessmentService) ReportURL(ctx context.Context, kind assessment.Kind, assessmentID string) (string, error) {
	return s.client.ReportURL(ctx, kind, assessmentID)
}

// DownloadReport fetches a report through its presigned URL and writes it
// to dir/fileName. It returns the written path.
func (s *assessmentService) DownloadReport(ctx context.Context, url, fileName, dir string) (string, error) {
	data, err := downloadPresignedURL(ctx, url)
	if err != nil {
		return "", fmt.Errorf("report download: %w", err)
	}
	return filex.WriteInSubDir(dir, fileName, data)
}

func (s *assessmentService) masterKey() []byte {
	sess, ok := s.sessions.Current()
	if !ok {
		return nil
	}
	return sess.MasterKey
}

// toCache seals a under the master key. Failures only cost the offline
// copy, so they are logged.
func (s *assessmentService) toCache(ctx context.Context, userID string, kind assessment.Kind, a *assessment.Assessment) {
	key := s.masterKey()
	if key == nil {
		return
	}
	defer common.WipeByteArray(key)
	ct, nonce, err := cryptox.SealJSON(a, key)
	if err != nil {
		s.log.Warn(ctx, "assessment not cached", "error", err)
		return
	}
	err = assessments.NewSQLiteRepository(s.db).Put(ctx, &assessments.CachedAssessment{
		Kind: kind, UserID: userID, Ciphertext: ct, Nonce: nonce, CachedAt: s.now(),
	})
	if err != nil {
		s.log.Warn(ctx, "assessment not cached", "error", err)
	}
}

func (s *assessmentService) fromCache(ctx context.Context, userID string, kind assessment.Kind) (*assessment.Assessment, error) {
	c, err := assessments.NewSQLiteRepository(s.db).Get(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	key := s.masterKey()
	if key == nil {
		return nil, client.ErrLocalDataNotAvailable
	}
	defer common.WipeByteArray(key)
	var a assessment.Assessment
	if err := cryptox.OpenJSON(c.Ciphertext, c.Nonce, key, &a); err != nil {
		return nil, fmt.Errorf("open cached assessment: %w", err)
	}
	return &a, nil
}
