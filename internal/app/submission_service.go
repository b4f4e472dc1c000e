package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"eduquiz-service/internal/domain"
)

// Catalog provides read access to quiz content. Questions returns the ordered
// question list for a topic, or an empty slice for unknown topics (the
// submission workflow treats those as zero-question quizzes).
type Catalog interface {
	Questions(ctx context.Context, topic string) ([]domain.Question, error)
	Topics(ctx context.Context) ([]string, error)
}

// CatalogWriter extends a catalog with the admin add-question operation, which
// must persist back to the same source the catalog was loaded from.
type CatalogWriter interface {
	AddQuestion(ctx context.Context, topic string, q domain.Question) error
}

// LeaderboardStore persists attempt records (capped, sorted; see domain.LeaderboardCap).
type LeaderboardStore interface {
	Record(ctx context.Context, entry domain.LeaderboardEntry) error
	// Query returns entries in stored order; topic filters case-insensitively,
	// empty string returns everything.
	Query(ctx context.Context, topic string) ([]domain.LeaderboardEntry, error)
}

// CertificateGenerator renders the certificate document and returns its file path.
type CertificateGenerator interface {
	Generate(name, topic string, score, total int) (string, error)
}

// Notifier delivers a generated certificate to the participant. Any failure
// surfaces as a *domain.DeliveryError.
type Notifier interface {
	Send(ctx context.Context, to, name, topic, certPath string, score, total int) error
}

// SubmissionService runs the quiz submission workflow: score, record on the
// leaderboard, and, when the score reaches half of the total, generate and
// email a certificate. Only the email step is fault-tolerant.
type SubmissionService struct {
	catalog      Catalog
	leaderboard  LeaderboardStore
	certificates CertificateGenerator
	notifier     Notifier
	now          func() time.Time
}

func NewSubmissionService(catalog Catalog, leaderboard LeaderboardStore, certificates CertificateGenerator, notifier Notifier) *SubmissionService {
	return &SubmissionService{
		catalog:      catalog,
		leaderboard:  leaderboard,
		certificates: certificates,
		notifier:     notifier,
		now:          time.Now,
	}
}

// NewSubmissionServiceWithClock is test-only for deterministic timestamps.
func NewSubmissionServiceWithClock(catalog Catalog, leaderboard LeaderboardStore, certificates CertificateGenerator, notifier Notifier, now func() time.Time) *SubmissionService {
	s := NewSubmissionService(catalog, leaderboard, certificates, notifier)
	s.now = now
	return s
}

// SubmitRequest carries one authenticated participant's answers for a topic.
// Answers are keyed by 1-based question position.
type SubmitRequest struct {
	Name    string
	Email   string
	Topic   string
	Answers map[int]string
}

// SubmitOutcome is what the caller presents: the graded result, what happened
// to the certificate email, and the certificate path when one was generated.
type SubmitOutcome struct {
	Result          domain.SubmissionResult
	Notification    domain.NotificationStatus
	CertificatePath string
}

// Submit runs the workflow for one submission. The leaderboard record and any
// generated certificate remain valid even when notification fails; a
// notification failure is reported through the outcome, not as an error.
func (s *SubmissionService) Submit(ctx context.Context, req SubmitRequest) (SubmitOutcome, error) {
	questions, err := s.catalog.Questions(ctx, req.Topic)
	if err != nil {
		return SubmitOutcome{}, fmt.Errorf("load questions for %q: %w", req.Topic, err)
	}

	result := domain.SubmissionResult{
		Name:  req.Name,
		Email: req.Email,
		Topic: req.Topic,
		Score: Score(questions, req.Answers),
		Total: len(questions),
	}

	entry := domain.LeaderboardEntry{
		Name:  result.Name,
		Topic: result.Topic,
		Score: result.Score,
		Total: result.Total,
		Date:  s.now().Format(domain.LeaderboardDateFormat),
	}
	if err := s.leaderboard.Record(ctx, entry); err != nil {
		return SubmitOutcome{}, fmt.Errorf("record leaderboard entry: %w", err)
	}

	if !Eligible(result.Score, result.Total) {
		return SubmitOutcome{Result: result, Notification: domain.NotificationSkipped}, nil
	}

	certPath, err := s.certificates.Generate(result.Name, result.Topic, result.Score, result.Total)
	if err != nil {
		return SubmitOutcome{}, fmt.Errorf("generate certificate: %w", err)
	}

	outcome := SubmitOutcome{
		Result:          result,
		Notification:    domain.NotificationSent,
		CertificatePath: certPath,
	}
	if err := s.notifier.Send(ctx, result.Email, result.Name, result.Topic, certPath, result.Score, result.Total); err != nil {
		log.Printf("certificate email to %s failed: %v", result.Email, err)
		outcome.Notification = domain.NotificationFailed
	}
	return outcome, nil
}

// Leaderboard exposes the stored ranking, optionally filtered by topic.
func (s *SubmissionService) Leaderboard(ctx context.Context, topic string) ([]domain.LeaderboardEntry, error) {
	return s.leaderboard.Query(ctx, topic)
}

// Certificate regenerates the certificate for (name, topic) with the given
// score and returns its path. The embedded date is the date of this call, so a
// downloaded certificate can differ from the one originally emailed.
func (s *SubmissionService) Certificate(name, topic string, score, total int) (string, error) {
	return s.certificates.Generate(name, topic, score, total)
}

// Eligible reports whether a score qualifies for a certificate: at least half
// of the total, non-strict, using real division so an exact half qualifies.
func Eligible(score, total int) bool {
	return float64(score) >= float64(total)/2
}
