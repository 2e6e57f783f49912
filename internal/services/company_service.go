package services

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/joblinkhq/joblink/internal/models"
	pgrepo "github.com/joblinkhq/joblink/internal/repositories/postgres"
	"github.com/joblinkhq/joblink/internal/storage"
	"github.com/joblinkhq/joblink/internal/utils"
)

type CompanyUpdateInput struct {
	Name        *string
	Description *string
	Website     *string
	Location    *string

	// Optional logo image, already validated by the handler.
	Logo         io.Reader
	LogoMimeType string
}

type CompanyService interface {
	Register(ctx context.Context, recruiterID, name string) (*models.Company, error)
	Get(ctx context.Context, id string) (*models.Company, error)
	ListMine(ctx context.Context, recruiterID string) ([]models.Company, error)
	// Update is restricted to the owning recruiter.
	Update(ctx context.Context, recruiterID, companyID string, in CompanyUpdateInput) (*models.Company, error)
}

type companyService struct {
	companies pgrepo.CompanyRepository
	uploader  storage.Uploader
}

func NewCompanyService(companies pgrepo.CompanyRepository, uploader storage.Uploader) CompanyService {
	return &companyService{companies: companies, uploader: uploader}
}

func (s *companyService) Register(ctx context.Context, recruiterID, name string) (*models.Company, error) {
	const op = "CompanyService.Register"

	if recruiterID == "" || name == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "company name is required", nil)
	}

	if _, err := s.companies.GetByName(ctx, name); err == nil {
		return nil, utils.E(utils.CodeConflict, op, "a company with this name already exists", nil)
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to check company name", err)
	}

	now := time.Now().UTC()
	co := &models.Company{
		ID:          uuid.NewString(),
		RecruiterID: recruiterID,
		Name:        name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.companies.Create(ctx, co); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create company", err)
	}
	return co, nil
}

func (s *companyService) Get(ctx context.Context, id string) (*models.Company, error) {
	const op = "CompanyService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "company id is required", nil)
	}
	co, err := s.companies.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "company not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load company", err)
	}
	return co, nil
}

func (s *companyService) ListMine(ctx context.Context, recruiterID string) ([]models.Company, error) {
	const op = "CompanyService.ListMine"

	out, err := s.companies.ListByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list companies", err)
	}
	return out, nil
}

func (s *companyService) Update(ctx context.Context, recruiterID, companyID string, in CompanyUpdateInput) (*models.Company, error) {
	const op = "CompanyService.Update"

	co, err := s.Get(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if co.RecruiterID != recruiterID {
		return nil, utils.E(utils.CodeForbidden, op, "company belongs to another recruiter", nil)
	}

	if in.Name != nil {
		co.Name = *in.Name
	}
	if in.Description != nil {
		co.Description = *in.Description
	}
	if in.Website != nil {
		co.Website = *in.Website
	}
	if in.Location != nil {
		co.Location = *in.Location
	}

	if in.Logo != nil {
		if s.uploader == nil {
			return nil, utils.E(utils.CodeInternal, op, "uploader is not configured", nil)
		}
		objectName := "logos/" + co.ID + "/" + uuid.NewString()
		url, err := s.uploader.Upload(ctx, objectName, in.LogoMimeType, in.Logo)
		if err != nil {
			return nil, utils.E(utils.CodeUnavailable, op, "failed to upload logo", err)
		}
		co.LogoURL = url
	}

	co.UpdatedAt = time.Now().UTC()
	if err := s.companies.Update(ctx, co); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update company", err)
	}
	return co, nil
}
