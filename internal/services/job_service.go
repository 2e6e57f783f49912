package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/joblinkhq/joblink/internal/cache"
	"github.com/joblinkhq/joblink/internal/models"
	pgrepo "github.com/joblinkhq/joblink/internal/repositories/postgres"
	"github.com/joblinkhq/joblink/internal/utils"
)

const (
	jobListCacheKey = "jobs:list"
	jobListCacheTTL = 30 * time.Second
)

type JobInput struct {
	CompanyID    string
	Title        string
	Description  string
	Requirements []string
	Salary       int64
	Experience   int
	Location     string
	JobType      string
	Positions    int
}

type JobService interface {
	// Post creates a job under a company owned by the recruiter.
	Post(ctx context.Context, recruiterID string, in JobInput) (*models.Job, error)
	Get(ctx context.Context, id string) (*models.Job, error)
	// Search is open to everyone; the unfiltered listing is cached.
	Search(ctx context.Context, keyword string) ([]models.Job, error)
	ListMine(ctx context.Context, recruiterID string) ([]models.Job, error)
	Update(ctx context.Context, recruiterID, jobID string, in JobInput) (*models.Job, error)
}

type jobService struct {
	jobs      pgrepo.JobRepository
	companies pgrepo.CompanyRepository
	cache     cache.Cache
}

func NewJobService(jobs pgrepo.JobRepository, companies pgrepo.CompanyRepository, c cache.Cache) JobService {
	return &jobService{jobs: jobs, companies: companies, cache: c}
}

func (s *jobService) Post(ctx context.Context, recruiterID string, in JobInput) (*models.Job, error) {
	const op = "JobService.Post"

	if in.CompanyID == "" || in.Title == "" || in.Description == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "company_id, title, and description are required", nil)
	}
	if in.Positions <= 0 {
		return nil, utils.E(utils.CodeInvalidArgument, op, "positions must be positive", nil)
	}

	co, err := s.companies.GetByID(ctx, in.CompanyID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "company not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load company", err)
	}
	if co.RecruiterID != recruiterID {
		return nil, utils.E(utils.CodeForbidden, op, "company belongs to another recruiter", nil)
	}

	now := time.Now().UTC()
	j := &models.Job{
		ID:           uuid.NewString(),
		CompanyID:    in.CompanyID,
		CreatedByID:  recruiterID,
		Title:        in.Title,
		Description:  in.Description,
		Requirements: in.Requirements,
		Salary:       in.Salary,
		Experience:   in.Experience,
		Location:     in.Location,
		JobType:      in.JobType,
		Positions:    in.Positions,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.jobs.Create(ctx, j); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to create job", err)
	}

	s.invalidateListing(ctx)
	return j, nil
}

func (s *jobService) Get(ctx context.Context, id string) (*models.Job, error) {
	const op = "JobService.Get"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "job id is required", nil)
	}
	j, err := s.jobs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "job not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to load job", err)
	}
	return j, nil
}

func (s *jobService) Search(ctx context.Context, keyword string) ([]models.Job, error) {
	const op = "JobService.Search"

	// Only the unfiltered listing is cached; keyword queries go to the
	// database directly.
	if keyword == "" && s.cache != nil {
		var cached []models.Job
		if hit, err := s.cache.GetJSON(ctx, jobListCacheKey, &cached); err == nil && hit {
			return cached, nil
		}
	}

	out, err := s.jobs.Search(ctx, keyword)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to search jobs", err)
	}

	if keyword == "" && s.cache != nil {
		_ = s.cache.SetJSON(ctx, jobListCacheKey, out, jobListCacheTTL)
	}
	return out, nil
}

func (s *jobService) ListMine(ctx context.Context, recruiterID string) ([]models.Job, error) {
	const op = "JobService.ListMine"

	out, err := s.jobs.ListByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list jobs", err)
	}
	return out, nil
}

func (s *jobService) Update(ctx context.Context, recruiterID, jobID string, in JobInput) (*models.Job, error) {
	const op = "JobService.Update"

	j, err := s.Get(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if j.CreatedByID != recruiterID {
		return nil, utils.E(utils.CodeForbidden, op, "job belongs to another recruiter", nil)
	}

	if in.Title != "" {
		j.Title = in.Title
	}
	if in.Description != "" {
		j.Description = in.Description
	}
	if in.Requirements != nil {
		j.Requirements = in.Requirements
	}
	if in.Salary != 0 {
		j.Salary = in.Salary
	}
	if in.Experience != 0 {
		j.Experience = in.Experience
	}
	if in.Location != "" {
		j.Location = in.Location
	}
	if in.JobType != "" {
		j.JobType = in.JobType
	}
	if in.Positions != 0 {
		j.Positions = in.Positions
	}

	j.Company = nil // avoid writing the preloaded association back
	j.UpdatedAt = time.Now().UTC()
	if err := s.jobs.Update(ctx, j); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to update job", err)
	}

	s.invalidateListing(ctx)
	return j, nil
}

func (s *jobService) invalidateListing(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.Del(ctx, jobListCacheKey)
	}
}
