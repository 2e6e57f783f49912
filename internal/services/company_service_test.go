package services

import (
	"context"
	"testing"

	"github.com/joblinkhq/joblink/internal/models"
	"github.com/joblinkhq/joblink/internal/utils"
)

func newCompanyFixture() CompanyService {
	return NewCompanyService(&fakeCompanyRepo{companies: map[string]*models.Company{}}, nil)
}

func TestCompanyRegisterRejectsDuplicateName(t *testing.T) {
	svc := newCompanyFixture()
	ctx := context.Background()

	if _, err := svc.Register(ctx, recruiterID, "Acme"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, err := svc.Register(ctx, otherRecID, "Acme"); !utils.IsCode(err, utils.CodeConflict) {
		t.Errorf("duplicate name: got %v, want CONFLICT", err)
	}
	if _, err := svc.Register(ctx, recruiterID, ""); !utils.IsCode(err, utils.CodeInvalidArgument) {
		t.Errorf("empty name: got %v, want INVALID_ARGUMENT", err)
	}
}

func TestCompanyUpdateOwnershipGuard(t *testing.T) {
	svc := newCompanyFixture()
	ctx := context.Background()

	co, err := svc.Register(ctx, recruiterID, "Acme")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	desc := "We make everything"
	if _, err := svc.Update(ctx, otherRecID, co.ID, CompanyUpdateInput{Description: &desc}); !utils.IsCode(err, utils.CodeForbidden) {
		t.Errorf("other recruiter: got %v, want FORBIDDEN", err)
	}

	got, err := svc.Update(ctx, recruiterID, co.ID, CompanyUpdateInput{Description: &desc})
	if err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if got.Description != desc {
		t.Errorf("description = %q", got.Description)
	}
	if got.Name != "Acme" {
		t.Errorf("name clobbered: %q", got.Name)
	}

	if _, err := svc.Update(ctx, recruiterID, "missing", CompanyUpdateInput{}); !utils.IsCode(err, utils.CodeNotFound) {
		t.Errorf("unknown company: got %v, want NOT_FOUND", err)
	}
}

func TestCompanyListMine(t *testing.T) {
	svc := newCompanyFixture()
	ctx := context.Background()

	for _, name := range []string{"Acme", "Globex"} {
		if _, err := svc.Register(ctx, recruiterID, name); err != nil {
			t.Fatalf("register %s failed: %v", name, err)
		}
	}
	if _, err := svc.Register(ctx, otherRecID, "Initech"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	mine, err := svc.ListMine(ctx, recruiterID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(mine) != 2 {
		t.Errorf("got %d companies, want 2", len(mine))
	}
}
