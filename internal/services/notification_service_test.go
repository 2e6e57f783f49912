package services

import (
	"context"
	"testing"
	"time"

	"github.com/joblinkhq/joblink/internal/models"
	"github.com/joblinkhq/joblink/internal/utils"
)

type fakeNotificationRepo struct {
	notifications map[string]*models.Notification
}

func (r *fakeNotificationRepo) Insert(_ context.Context, n *models.Notification) error {
	cp := *n
	r.notifications[n.ID] = &cp
	return nil
}

func (r *fakeNotificationRepo) GetByID(_ context.Context, id string) (*models.Notification, error) {
	n, ok := r.notifications[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (r *fakeNotificationRepo) ListByUser(_ context.Context, userID string) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.notifications[id]; !ok {
		return utils.ErrNotFound
	}
	delete(r.notifications, id)
	return nil
}

func TestDismissOnlyByAddressee(t *testing.T) {
	repo := &fakeNotificationRepo{notifications: map[string]*models.Notification{}}
	svc := NewNotificationService(repo, nil)
	ctx := context.Background()

	n := &models.Notification{
		ID:        "n-1",
		UserID:    workerID,
		Message:   "Your application has been accepted",
		CreatedAt: time.Now().UTC(),
	}
	if err := repo.Insert(ctx, n); err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if err := svc.Dismiss(ctx, otherWorker, "n-1"); !utils.IsCode(err, utils.CodeForbidden) {
		t.Errorf("other user: got %v, want FORBIDDEN", err)
	}
	if _, ok := repo.notifications["n-1"]; !ok {
		t.Fatalf("notification deleted by non-addressee")
	}

	if err := svc.Dismiss(ctx, workerID, "n-1"); err != nil {
		t.Fatalf("dismiss failed: %v", err)
	}
	if _, ok := repo.notifications["n-1"]; ok {
		t.Errorf("notification still present after dismissal")
	}

	if err := svc.Dismiss(ctx, workerID, "n-1"); !utils.IsCode(err, utils.CodeNotFound) {
		t.Errorf("second dismiss: got %v, want NOT_FOUND", err)
	}
}

func TestListIsScopedToUser(t *testing.T) {
	repo := &fakeNotificationRepo{notifications: map[string]*models.Notification{}}
	svc := NewNotificationService(repo, nil)
	ctx := context.Background()

	for i, uid := range []string{workerID, workerID, otherWorker} {
		n := &models.Notification{ID: string(rune('a' + i)), UserID: uid, Message: "hi"}
		if err := repo.Insert(ctx, n); err != nil {
			t.Fatalf("insert failed: %v", err)
		}
	}

	out, err := svc.List(ctx, workerID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("got %d notifications, want 2", len(out))
	}
}
