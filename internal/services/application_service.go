package services

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"

	"github.com/joblinkhq/joblink/internal/models"
	"github.com/joblinkhq/joblink/internal/payments"
	pgrepo "github.com/joblinkhq/joblink/internal/repositories/postgres"
	"github.com/joblinkhq/joblink/internal/utils"
)

type ApplicationService interface {
	// Apply creates a pending application for the worker. At most one
	// application exists per (worker, job) pair.
	Apply(ctx context.Context, workerID, jobID string) (*models.Application, error)
	ListMine(ctx context.Context, workerID string) ([]models.Application, error)
	// Applicants lists applications for a job owned by the recruiter.
	Applicants(ctx context.Context, recruiterID, jobID string) ([]models.Application, error)
	// UpdateStatus drives the state machine: pending moves to accepted
	// or rejected. Repeating a terminal status is a no-op; any
	// other transition out of a terminal state is rejected. Acceptance
	// enqueues a worker notification, best-effort.
	UpdateStatus(ctx context.Context, recruiterID, applicationID string, status string) (*models.Application, error)
	ListAccepted(ctx context.Context, recruiterID string) ([]models.Application, error)
	// CreateCheckout returns the provider redirect URL for an accepted,
	// unpaid application. Idempotent per application: an existing
	// session's URL is returned instead of creating another.
	CreateCheckout(ctx context.Context, recruiterID, applicationID string) (string, error)
	// MarkPaid is the completion path. The recorded session is
	// confirmed against the provider before payment_status flips to
	// paid. Calling it again once paid is a no-op.
	MarkPaid(ctx context.Context, applicationID string) (*models.Application, error)
	// Rate attaches the worker's score once payment has settled.
	// Append-once: a second rating is rejected.
	Rate(ctx context.Context, workerID, applicationID string, score int, review string) (*models.Application, error)
	// Feedback attaches the recruiter's free text once. Append-once.
	Feedback(ctx context.Context, recruiterID, applicationID, feedback string) (*models.Application, error)
}

type applicationService struct {
	applications pgrepo.ApplicationRepository
	jobs         pgrepo.JobRepository
	notifier     NotificationService
	provider     payments.Provider
	feeCents     int64
	log          *logrus.Logger
}

func NewApplicationService(
	applications pgrepo.ApplicationRepository,
	jobs pgrepo.JobRepository,
	notifier NotificationService,
	provider payments.Provider,
	feeCents int64,
	log *logrus.Logger,
) ApplicationService {
	if log == nil {
		log = logrus.New()
	}
	if feeCents <= 0 {
		feeCents = 5000 // $50 placement fee default
	}
	return &applicationService{
		applications: applications,
		jobs:         jobs,
		notifier:     notifier,
		provider:     provider,
		feeCents:     feeCents,
		log:          log,
	}
}

func (s *applicationService) Apply(ctx context.Context, workerID, jobID string) (*models.Application, error) {
	const op = "ApplicationService.Apply"

	if workerID == "" || jobID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job id is required", nil)
	}

	if _, err := s.jobs.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}

	if _, err := s.applications.GetByJobAndApplicant(ctx, jobID, workerID); err == nil {
		return nil, utils.E(utils.CodeConflict, op, "you have already applied to this job", nil)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to check existing application", err)
	}

	now := time.Now().UTC()
	a := &models.Application{
		ID:            uuid.NewString(),
		JobID:         jobID,
		ApplicantID:   workerID,
		Status:        models.StatusPending,
		PaymentStatus: models.PaymentUnpaid,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.applications.Create(ctx, a); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create application", err)
	}
	return a, nil
}

func (s *applicationService) ListMine(ctx context.Context, workerID string) ([]models.Application, error) {
	const op = "ApplicationService.ListMine"

	out, err := s.applications.ListByApplicant(ctx, workerID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applications", err)
	}
	return out, nil
}

func (s *applicationService) Applicants(ctx context.Context, recruiterID, jobID string) ([]models.Application, error) {
	const op = "ApplicationService.Applicants"

	j, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	if j.CreatedByID != recruiterID {
		return nil, utils.E(utils.CodeForbidden, op, "job belongs to another recruiter", nil)
	}

	out, err := s.applications.ListByJob(ctx, jobID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list applicants", err)
	}
	return out, nil
}

// getOwned loads an application and verifies the requesting recruiter
// owns the job it belongs to.
func (s *applicationService) getOwned(ctx context.Context, op, recruiterID, applicationID string) (*models.Application, error) {
	if applicationID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "application id is required", nil)
	}
	a, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load application", err)
	}
	if a.Job == nil || a.Job.CreatedByID != recruiterID {
		return nil, utils.E(utils.CodeForbidden, op, "application belongs to another recruiter's job", nil)
	}
	return a, nil
}

func (s *applicationService) UpdateStatus(ctx context.Context, recruiterID, applicationID string, status string) (*models.Application, error) {
	const op = "ApplicationService.UpdateStatus"

	target, ok := models.ParseApplicationStatus(status)
	if !ok {
		return nil, utils.E(utils.CodeInvalidArgument, op, "status must be accepted or rejected", nil)
	}
	if target == models.StatusPending {
		return nil, utils.E(utils.CodeInvalidArgument, op, "status cannot be set back to pending", nil)
	}

	a, err := s.getOwned(ctx, op, recruiterID, applicationID)
	if err != nil {
		return nil, err
	}

	// Repeating the same terminal transition is safe.
	if a.Status == target {
		return a, nil
	}
	if a.Status.Terminal() {
		return nil, utils.E(utils.CodeConflict, op, "application status is already final", nil)
	}

	err = s.applications.UpdateGuarded(ctx, a.ID, a.Version, map[string]any{
		"status":     target,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, utils.ErrVersionConflict) {
			return nil, utils.E(utils.CodeConflict, op, "application was modified concurrently", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to update status", err)
	}
	a.Status = target
	a.Version++

	if target == models.StatusAccepted && s.notifier != nil {
		msg := "Your application has been accepted."
		if a.Job != nil {
			msg = "Your application for " + a.Job.Title + " has been accepted."
		}
		if err := s.notifier.Enqueue(ctx, a.ApplicantID, a.ID, msg); err != nil {
			// Best-effort: the transition already succeeded.
			s.log.WithError(err).WithField("application_id", a.ID).
				Warn("acceptance notification enqueue failed")
		}
	}
	return a, nil
}

func (s *applicationService) ListAccepted(ctx context.Context, recruiterID string) ([]models.Application, error) {
	const op = "ApplicationService.ListAccepted"

	out, err := s.applications.ListAcceptedByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list accepted applications", err)
	}
	return out, nil
}

func (s *applicationService) CreateCheckout(ctx context.Context, recruiterID, applicationID string) (string, error) {
	const op = "ApplicationService.CreateCheckout"

	a, err := s.getOwned(ctx, op, recruiterID, applicationID)
	if err != nil {
		return "", err
	}
	if a.Status != models.StatusAccepted {
		return "", utils.E(utils.CodeConflict, op, "checkout requires an accepted application", nil)
	}
	if a.PaymentStatus == models.PaymentPaid {
		return "", utils.E(utils.CodeConflict, op, "application is already paid", nil)
	}

	// Reuse the recorded session rather than opening a second one.
	if existing := decodeCheckout(a.Checkout); existing != nil && existing.URL != "" {
		return existing.URL, nil
	}

	if s.provider == nil {
		return "", utils.E(utils.CodeInternal, op, "payment provider is not configured", nil)
	}

	desc := "Placement fee"
	if a.Job != nil {
		desc = "Placement fee: " + a.Job.Title
	}
	sess, err := s.provider.CreateSession(ctx, a.ID, desc, s.feeCents)
	if err != nil {
		return "", utils.E(utils.CodeUnavailable, op, "failed to create checkout session", err)
	}

	snapshot, err := json.Marshal(models.CheckoutSession{
		SessionID: sess.ID,
		URL:       sess.URL,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return "", utils.E(utils.CodeInternal, op, "failed to encode checkout snapshot", err)
	}

	err = s.applications.UpdateGuarded(ctx, a.ID, a.Version, map[string]any{
		"checkout":   datatypes.JSON(snapshot),
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, utils.ErrVersionConflict) {
			return "", utils.E(utils.CodeConflict, op, "application was modified concurrently", err)
		}
		return "", utils.E(utils.CodeInternal, op, "failed to record checkout session", err)
	}
	return sess.URL, nil
}

func (s *applicationService) MarkPaid(ctx context.Context, applicationID string) (*models.Application, error) {
	const op = "ApplicationService.MarkPaid"

	if applicationID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "application id is required", nil)
	}
	a, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load application", err)
	}

	// Idempotent: the completion path may fire more than once.
	if a.PaymentStatus == models.PaymentPaid {
		return a, nil
	}
	if a.Status != models.StatusAccepted {
		return nil, utils.E(utils.CodeConflict, op, "payment requires an accepted application", nil)
	}

	sess := decodeCheckout(a.Checkout)
	if sess == nil || sess.SessionID == "" {
		return nil, utils.E(utils.CodeConflict, op, "no checkout session exists for this application", nil)
	}

	if s.provider == nil {
		return nil, utils.E(utils.CodeInternal, op, "payment provider is not configured", nil)
	}
	paid, err := s.provider.ConfirmPaid(ctx, sess.SessionID)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to confirm payment with provider", err)
	}
	if !paid {
		return nil, utils.E(utils.CodeConflict, op, "provider has not confirmed this payment", nil)
	}

	err = s.applications.UpdateGuarded(ctx, a.ID, a.Version, map[string]any{
		"payment_status": models.PaymentPaid,
		"updated_at":     time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, utils.ErrVersionConflict) {
			// Re-read: a concurrent completion may already have won.
			fresh, ferr := s.applications.GetByID(ctx, a.ID)
			if ferr == nil && fresh.PaymentStatus == models.PaymentPaid {
				return fresh, nil
			}
			return nil, utils.E(utils.CodeConflict, op, "application was modified concurrently", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to mark payment", err)
	}
	a.PaymentStatus = models.PaymentPaid
	a.Version++
	return a, nil
}

func (s *applicationService) Rate(ctx context.Context, workerID, applicationID string, score int, review string) (*models.Application, error) {
	const op = "ApplicationService.Rate"

	if score < 1 || score > 5 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "score must be between 1 and 5", nil)
	}
	if applicationID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "application id is required", nil)
	}

	a, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "application not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load application", err)
	}
	if a.ApplicantID != workerID {
		return nil, utils.E(utils.CodeForbidden, op, "application belongs to another worker", nil)
	}
	if a.Status != models.StatusAccepted || a.PaymentStatus != models.PaymentPaid {
		return nil, utils.E(utils.CodeConflict, op, "rating requires an accepted, paid application", nil)
	}
	if a.RatingScore != 0 {
		return nil, utils.E(utils.CodeConflict, op, "a rating has already been submitted", nil)
	}

	err = s.applications.UpdateGuarded(ctx, a.ID, a.Version, map[string]any{
		"rating_score":  score,
		"rating_review": review,
		"updated_at":    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, utils.ErrVersionConflict) {
			return nil, utils.E(utils.CodeConflict, op, "application was modified concurrently", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to save rating", err)
	}
	a.RatingScore = score
	a.RatingReview = review
	a.Version++
	return a, nil
}

func (s *applicationService) Feedback(ctx context.Context, recruiterID, applicationID, feedback string) (*models.Application, error) {
	const op = "ApplicationService.Feedback"

	if feedback == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "feedback cannot be empty", nil)
	}

	a, err := s.getOwned(ctx, op, recruiterID, applicationID)
	if err != nil {
		return nil, err
	}
	if a.Status != models.StatusAccepted {
		return nil, utils.E(utils.CodeConflict, op, "feedback requires an accepted application", nil)
	}
	if a.Feedback != "" {
		return nil, utils.E(utils.CodeConflict, op, "feedback has already been submitted", nil)
	}

	err = s.applications.UpdateGuarded(ctx, a.ID, a.Version, map[string]any{
		"feedback":   feedback,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, utils.ErrVersionConflict) {
			return nil, utils.E(utils.CodeConflict, op, "application was modified concurrently", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to save feedback", err)
	}
	a.Feedback = feedback
	a.Version++
	return a, nil
}

func decodeCheckout(raw datatypes.JSON) *models.CheckoutSession {
	if len(raw) == 0 {
		return nil
	}
	var s models.CheckoutSession
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil
	}
	return &s
}
