package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/datatypes"

	"github.com/joblinkhq/joblink/internal/models"
	"github.com/joblinkhq/joblink/internal/payments"
	"github.com/joblinkhq/joblink/internal/utils"
)

// ---- in-memory fakes ----

type fakeApplicationRepo struct {
	apps map[string]*models.Application
	jobs *fakeJobRepo
}

func newFakeApplicationRepo(jobs *fakeJobRepo) *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: map[string]*models.Application{}, jobs: jobs}
}

func (r *fakeApplicationRepo) Create(_ context.Context, a *models.Application) error {
	for _, ex := range r.apps {
		if ex.JobID == a.JobID && ex.ApplicantID == a.ApplicantID {
			return errors.New("duplicate key")
		}
	}
	cp := *a
	r.apps[a.ID] = &cp
	return nil
}

func (r *fakeApplicationRepo) GetByID(_ context.Context, id string) (*models.Application, error) {
	a, ok := r.apps[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *a
	if r.jobs != nil {
		if j, ok := r.jobs.jobs[a.JobID]; ok {
			jc := *j
			cp.Job = &jc
		}
	}
	return &cp, nil
}

func (r *fakeApplicationRepo) GetByJobAndApplicant(_ context.Context, jobID, applicantID string) (*models.Application, error) {
	for _, a := range r.apps {
		if a.JobID == jobID && a.ApplicantID == applicantID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, utils.ErrNotFound
}

func (r *fakeApplicationRepo) ListByApplicant(_ context.Context, applicantID string) ([]models.Application, error) {
	var out []models.Application
	for _, a := range r.apps {
		if a.ApplicantID == applicantID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListByJob(_ context.Context, jobID string) ([]models.Application, error) {
	var out []models.Application
	for _, a := range r.apps {
		if a.JobID == jobID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) ListAcceptedByRecruiter(_ context.Context, recruiterID string) ([]models.Application, error) {
	var out []models.Application
	for _, a := range r.apps {
		j, ok := r.jobs.jobs[a.JobID]
		if ok && j.CreatedByID == recruiterID && a.Status == models.StatusAccepted {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) UpdateGuarded(_ context.Context, id string, version int64, fields map[string]any) error {
	a, ok := r.apps[id]
	if !ok || a.Version != version {
		return utils.ErrVersionConflict
	}
	for k, v := range fields {
		switch k {
		case "status":
			a.Status = v.(models.ApplicationStatus)
		case "payment_status":
			a.PaymentStatus = v.(models.PaymentStatus)
		case "rating_score":
			a.RatingScore = v.(int)
		case "rating_review":
			a.RatingReview = v.(string)
		case "feedback":
			a.Feedback = v.(string)
		case "checkout":
			if j, ok := v.(datatypes.JSON); ok {
				a.Checkout = j
			}
		}
	}
	a.Version++
	return nil
}

type fakeJobRepo struct {
	jobs map[string]*models.Job
}

func (r *fakeJobRepo) Create(_ context.Context, j *models.Job) error {
	cp := *j
	r.jobs[j.ID] = &cp
	return nil
}

func (r *fakeJobRepo) GetByID(_ context.Context, id string) (*models.Job, error) {
	j, ok := r.jobs[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *fakeJobRepo) Search(_ context.Context, _ string) ([]models.Job, error) { return nil, nil }

func (r *fakeJobRepo) ListByRecruiter(_ context.Context, recruiterID string) ([]models.Job, error) {
	var out []models.Job
	for _, j := range r.jobs {
		if j.CreatedByID == recruiterID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (r *fakeJobRepo) Update(_ context.Context, j *models.Job) error {
	cp := *j
	r.jobs[j.ID] = &cp
	return nil
}

type fakeNotifier struct {
	enqueued []string // messages
	fail     bool
}

func (f *fakeNotifier) List(context.Context, string) ([]models.Notification, error) {
	return nil, nil
}
func (f *fakeNotifier) Dismiss(context.Context, string, string) error { return nil }
func (f *fakeNotifier) Enqueue(_ context.Context, _, _, message string) error {
	if f.fail {
		return errors.New("redis down")
	}
	f.enqueued = append(f.enqueued, message)
	return nil
}

type fakeProvider struct {
	sessions map[string]bool // session id -> paid
	created  int
	fail     bool
}

func (p *fakeProvider) CreateSession(_ context.Context, applicationID, _ string, _ int64) (*payments.Session, error) {
	if p.fail {
		return nil, errors.New("provider unreachable")
	}
	p.created++
	id := "cs_" + applicationID
	if p.sessions == nil {
		p.sessions = map[string]bool{}
	}
	if _, ok := p.sessions[id]; !ok {
		p.sessions[id] = false
	}
	return &payments.Session{ID: id, URL: "https://pay.example.com/" + id}, nil
}

func (p *fakeProvider) ConfirmPaid(_ context.Context, sessionID string) (bool, error) {
	if p.fail {
		return false, errors.New("provider unreachable")
	}
	return p.sessions[sessionID], nil
}

// ---- fixture ----

type fixture struct {
	svc      ApplicationService
	apps     *fakeApplicationRepo
	jobs     *fakeJobRepo
	notifier *fakeNotifier
	provider *fakeProvider
}

const (
	recruiterID = "recruiter-1"
	otherRecID  = "recruiter-2"
	workerID    = "worker-1"
	otherWorker = "worker-2"
	jobID       = "job-1"
)

func newFixture() *fixture {
	jobs := &fakeJobRepo{jobs: map[string]*models.Job{
		jobID: {ID: jobID, CompanyID: "company-1", CreatedByID: recruiterID, Title: "Backend Engineer"},
	}}
	apps := newFakeApplicationRepo(jobs)
	notifier := &fakeNotifier{}
	provider := &fakeProvider{}
	svc := NewApplicationService(apps, jobs, notifier, provider, 5000, nil)
	return &fixture{svc: svc, apps: apps, jobs: jobs, notifier: notifier, provider: provider}
}

func (f *fixture) apply(t *testing.T) *models.Application {
	t.Helper()
	a, err := f.svc.Apply(context.Background(), workerID, jobID)
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	return a
}

func (f *fixture) accept(t *testing.T, id string) *models.Application {
	t.Helper()
	a, err := f.svc.UpdateStatus(context.Background(), recruiterID, id, "accepted")
	if err != nil {
		t.Fatalf("UpdateStatus(accepted) failed: %v", err)
	}
	return a
}

// ---- tests ----

func TestApplyCreatesPendingUnpaid(t *testing.T) {
	f := newFixture()
	a := f.apply(t)

	if a.Status != models.StatusPending {
		t.Errorf("status = %q, want pending", a.Status)
	}
	if a.PaymentStatus != models.PaymentUnpaid {
		t.Errorf("payment_status = %q, want unpaid", a.PaymentStatus)
	}
}

func TestApplyTwiceConflicts(t *testing.T) {
	f := newFixture()
	f.apply(t)

	_, err := f.svc.Apply(context.Background(), workerID, jobID)
	if !utils.IsCode(err, utils.CodeConflict) {
		t.Errorf("second apply: got %v, want CONFLICT", err)
	}
}

func TestApplyUnknownJobNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Apply(context.Background(), workerID, "nope")
	if !utils.IsCode(err, utils.CodeNotFound) {
		t.Errorf("got %v, want NOT_FOUND", err)
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name     string
		from     models.ApplicationStatus
		target   string
		wantCode utils.Code // "" means success
	}{
		{"pending to accepted", models.StatusPending, "accepted", ""},
		{"pending to rejected", models.StatusPending, "rejected", ""},
		{"accepted repeat is noop", models.StatusAccepted, "accepted", ""},
		{"rejected repeat is noop", models.StatusRejected, "rejected", ""},
		{"accepted to rejected", models.StatusAccepted, "rejected", utils.CodeConflict},
		{"rejected to accepted", models.StatusRejected, "accepted", utils.CodeConflict},
		{"back to pending", models.StatusAccepted, "pending", utils.CodeInvalidArgument},
		{"unknown status", models.StatusPending, "hired", utils.CodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			a := f.apply(t)
			f.apps.apps[a.ID].Status = tt.from

			got, err := f.svc.UpdateStatus(context.Background(), recruiterID, a.ID, tt.target)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if string(got.Status) != tt.target {
					t.Errorf("status = %q, want %q", got.Status, tt.target)
				}
				return
			}
			if !utils.IsCode(err, tt.wantCode) {
				t.Errorf("got %v, want %s", err, tt.wantCode)
			}
		})
	}
}

func TestUpdateStatusWrongRecruiterForbidden(t *testing.T) {
	f := newFixture()
	a := f.apply(t)

	_, err := f.svc.UpdateStatus(context.Background(), otherRecID, a.ID, "accepted")
	if !utils.IsCode(err, utils.CodeForbidden) {
		t.Errorf("got %v, want FORBIDDEN", err)
	}
	if f.apps.apps[a.ID].Status != models.StatusPending {
		t.Errorf("status changed despite forbidden request")
	}
}

func TestAcceptEnqueuesNotification(t *testing.T) {
	f := newFixture()
	a := f.apply(t)
	f.accept(t, a.ID)

	if len(f.notifier.enqueued) != 1 {
		t.Fatalf("enqueued = %d messages, want 1", len(f.notifier.enqueued))
	}
}

func TestAcceptSucceedsWhenNotifierFails(t *testing.T) {
	f := newFixture()
	f.notifier.fail = true
	a := f.apply(t)

	got, err := f.svc.UpdateStatus(context.Background(), recruiterID, a.ID, "accepted")
	if err != nil {
		t.Fatalf("transition failed on notifier error: %v", err)
	}
	if got.Status != models.StatusAccepted {
		t.Errorf("status = %q, want accepted", got.Status)
	}
}

func TestRejectDoesNotNotify(t *testing.T) {
	f := newFixture()
	a := f.apply(t)

	if _, err := f.svc.UpdateStatus(context.Background(), recruiterID, a.ID, "rejected"); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if len(f.notifier.enqueued) != 0 {
		t.Errorf("rejection enqueued a notification")
	}
}

func TestCheckoutRequiresAcceptedStatus(t *testing.T) {
	f := newFixture()
	a := f.apply(t)

	if _, err := f.svc.CreateCheckout(context.Background(), recruiterID, a.ID); !utils.IsCode(err, utils.CodeConflict) {
		t.Errorf("pending checkout: got %v, want CONFLICT", err)
	}

	f.apps.apps[a.ID].Status = models.StatusRejected
	if _, err := f.svc.CreateCheckout(context.Background(), recruiterID, a.ID); !utils.IsCode(err, utils.CodeConflict) {
		t.Errorf("rejected checkout: got %v, want CONFLICT", err)
	}
}

func TestCheckoutIsIdempotentPerApplication(t *testing.T) {
	f := newFixture()
	a := f.apply(t)
	f.accept(t, a.ID)

	url1, err := f.svc.CreateCheckout(context.Background(), recruiterID, a.ID)
	if err != nil {
		t.Fatalf("first checkout failed: %v", err)
	}
	url2, err := f.svc.CreateCheckout(context.Background(), recruiterID, a.ID)
	if err != nil {
		t.Fatalf("second checkout failed: %v", err)
	}
	if url1 != url2 {
		t.Errorf("urls differ: %q vs %q", url1, url2)
	}
	if f.provider.created != 1 {
		t.Errorf("provider sessions created = %d, want 1", f.provider.created)
	}
}

func TestCheckoutProviderFailureLeavesStateUnchanged(t *testing.T) {
	f := newFixture()
	a := f.apply(t)
	f.accept(t, a.ID)
	f.provider.fail = true

	_, err := f.svc.CreateCheckout(context.Background(), recruiterID, a.ID)
	if !utils.IsCode(err, utils.CodeUnavailable) {
		t.Errorf("got %v, want UNAVAILABLE", err)
	}
	if len(f.apps.apps[a.ID].Checkout) != 0 {
		t.Errorf("checkout snapshot persisted despite provider failure")
	}
	if f.apps.apps[a.ID].PaymentStatus != models.PaymentUnpaid {
		t.Errorf("payment_status changed despite provider failure")
	}
}

func TestCheckoutWrongRecruiterForbidden(t *testing.T) {
	f := newFixture()
	a := f.apply(t)
	f.accept(t, a.ID)

	_, err := f.svc.CreateCheckout(context.Background(), otherRecID, a.ID)
	if !utils.IsCode(err, utils.CodeForbidden) {
		t.Errorf("got %v, want FORBIDDEN", err)
	}
}

func TestMarkPaidFlow(t *testing.T) {
	f := newFixture()
	a := f.apply(t)
	f.accept(t, a.ID)

	if _, err := f.svc.CreateCheckout(context.Background(), recruiterID, a.ID); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}

	// Provider has not confirmed yet.
	if _, err := f.svc.MarkPaid(context.Background(), a.ID); !utils.IsCode(err, utils.CodeConflict) {
		t.Errorf("unconfirmed mark-paid: got %v, want CONFLICT", err)
	}

	f.provider.sessions["cs_"+a.ID] = true

	got, err := f.svc.MarkPaid(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("mark-paid failed: %v", err)
	}
	if got.PaymentStatus != models.PaymentPaid {
		t.Errorf("payment_status = %q, want paid", got.PaymentStatus)
	}

	// Second invocation is a no-op success.
	again, err := f.svc.MarkPaid(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("repeated mark-paid errored: %v", err)
	}
	if again.PaymentStatus != models.PaymentPaid {
		t.Errorf("payment_status after repeat = %q, want paid", again.PaymentStatus)
	}
}

func TestMarkPaidWithoutCheckoutConflicts(t *testing.T) {
	f := newFixture()
	a := f.apply(t)
	f.accept(t, a.ID)

	_, err := f.svc.MarkPaid(context.Background(), a.ID)
	if !utils.IsCode(err, utils.CodeConflict) {
		t.Errorf("got %v, want CONFLICT", err)
	}
}

func TestMarkPaidNonAcceptedConflicts(t *testing.T) {
	f := newFixture()
	a := f.apply(t)

	_, err := f.svc.MarkPaid(context.Background(), a.ID)
	if !utils.IsCode(err, utils.CodeConflict) {
		t.Errorf("got %v, want CONFLICT", err)
	}
}

func paidFixture(t *testing.T) (*fixture, *models.Application) {
	t.Helper()
	f := newFixture()
	a := f.apply(t)
	f.accept(t, a.ID)
	if _, err := f.svc.CreateCheckout(context.Background(), recruiterID, a.ID); err != nil {
		t.Fatalf("checkout failed: %v", err)
	}
	f.provider.sessions["cs_"+a.ID] = true
	if _, err := f.svc.MarkPaid(context.Background(), a.ID); err != nil {
		t.Fatalf("mark-paid failed: %v", err)
	}
	return f, a
}

func TestRatingScoreBounds(t *testing.T) {
	f, a := paidFixture(t)

	for _, score := range []int{-1, 0, 6, 100} {
		if _, err := f.svc.Rate(context.Background(), workerID, a.ID, score, ""); !utils.IsCode(err, utils.CodeInvalidArgument) {
			t.Errorf("score %d: got %v, want INVALID_ARGUMENT", score, err)
		}
	}

	got, err := f.svc.Rate(context.Background(), workerID, a.ID, 5, "great match")
	if err != nil {
		t.Fatalf("valid rating failed: %v", err)
	}
	if got.RatingScore != 5 || got.RatingReview != "great match" {
		t.Errorf("rating = (%d, %q), want (5, great match)", got.RatingScore, got.RatingReview)
	}
}

func TestRatingIsAppendOnce(t *testing.T) {
	f, a := paidFixture(t)

	if _, err := f.svc.Rate(context.Background(), workerID, a.ID, 4, ""); err != nil {
		t.Fatalf("first rating failed: %v", err)
	}
	_, err := f.svc.Rate(context.Background(), workerID, a.ID, 1, "")
	if !utils.IsCode(err, utils.CodeConflict) {
		t.Errorf("second rating: got %v, want CONFLICT", err)
	}
	if f.apps.apps[a.ID].RatingScore != 4 {
		t.Errorf("rating overwritten to %d", f.apps.apps[a.ID].RatingScore)
	}
}

func TestRatingByOtherWorkerForbidden(t *testing.T) {
	f, a := paidFixture(t)

	_, err := f.svc.Rate(context.Background(), otherWorker, a.ID, 5, "")
	if !utils.IsCode(err, utils.CodeForbidden) {
		t.Errorf("got %v, want FORBIDDEN", err)
	}
}

func TestRatingRequiresPayment(t *testing.T) {
	f := newFixture()
	a := f.apply(t)
	f.accept(t, a.ID)

	_, err := f.svc.Rate(context.Background(), workerID, a.ID, 5, "")
	if !utils.IsCode(err, utils.CodeConflict) {
		t.Errorf("got %v, want CONFLICT", err)
	}
}

func TestFeedbackAppendOnceAndIndependentOfRating(t *testing.T) {
	f, a := paidFixture(t)

	if _, err := f.svc.Rate(context.Background(), workerID, a.ID, 5, ""); err != nil {
		t.Fatalf("rating failed: %v", err)
	}

	got, err := f.svc.Feedback(context.Background(), recruiterID, a.ID, "strong communicator")
	if err != nil {
		t.Fatalf("feedback failed: %v", err)
	}
	if got.Feedback != "strong communicator" {
		t.Errorf("feedback = %q", got.Feedback)
	}
	if got.RatingScore != 5 {
		t.Errorf("feedback disturbed rating: %d", got.RatingScore)
	}

	if _, err := f.svc.Feedback(context.Background(), recruiterID, a.ID, "changed my mind"); !utils.IsCode(err, utils.CodeConflict) {
		t.Errorf("second feedback: got %v, want CONFLICT", err)
	}
	if _, err := f.svc.Feedback(context.Background(), otherRecID, a.ID, "hi"); !utils.IsCode(err, utils.CodeForbidden) {
		t.Errorf("foreign feedback: got %v, want FORBIDDEN", err)
	}
	if _, err := f.svc.Feedback(context.Background(), recruiterID, a.ID, ""); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Errorf("empty feedback: got %v, want INVALID_ARGUMENT", err)
	}
}

func TestApplicantsOwnershipGuard(t *testing.T) {
	f := newFixture()
	f.apply(t)

	if _, err := f.svc.Applicants(context.Background(), otherRecID, jobID); !utils.IsCode(err, utils.CodeForbidden) {
		t.Errorf("got %v, want FORBIDDEN", err)
	}

	out, err := f.svc.Applicants(context.Background(), recruiterID, jobID)
	if err != nil {
		t.Fatalf("owner list failed: %v", err)
	}
	if len(out) != 1 {
		t.Errorf("applicants = %d, want 1", len(out))
	}
}

func TestEndToEndLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	a := f.apply(t)
	if a.Status != models.StatusPending {
		t.Fatalf("fresh application not pending")
	}

	f.accept(t, a.ID)

	url, err := f.svc.CreateCheckout(ctx, recruiterID, a.ID)
	if err != nil || url == "" {
		t.Fatalf("checkout: url=%q err=%v", url, err)
	}

	f.provider.sessions["cs_"+a.ID] = true
	if _, err := f.svc.MarkPaid(ctx, a.ID); err != nil {
		t.Fatalf("mark-paid: %v", err)
	}

	if _, err := f.svc.Rate(ctx, workerID, a.ID, 5, ""); err != nil {
		t.Fatalf("rate: %v", err)
	}
	if _, err := f.svc.Feedback(ctx, recruiterID, a.ID, "welcome aboard"); err != nil {
		t.Fatalf("feedback: %v", err)
	}

	final := f.apps.apps[a.ID]
	if final.Status != models.StatusAccepted || final.PaymentStatus != models.PaymentPaid ||
		final.RatingScore != 5 || final.Feedback != "welcome aboard" {
		t.Errorf("final state = %+v", final)
	}

	accepted, err := f.svc.ListAccepted(ctx, recruiterID)
	if err != nil || len(accepted) != 1 {
		t.Errorf("ListAccepted = %d items, err=%v; want 1", len(accepted), err)
	}
}

func TestStaleVersionConflicts(t *testing.T) {
	f := newFixture()
	a := f.apply(t)

	// Another writer bumps the version between read and write.
	f.apps.apps[a.ID].Version++

	stale := *f.apps.apps[a.ID]
	stale.Version-- // what the slow request observed
	err := f.apps.UpdateGuarded(context.Background(), a.ID, stale.Version, map[string]any{
		"status": models.StatusAccepted,
	})
	if !errors.Is(err, utils.ErrVersionConflict) {
		t.Errorf("got %v, want ErrVersionConflict", err)
	}
}
