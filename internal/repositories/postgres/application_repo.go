package postgres

import (
	"context"
	"errors"

	"github.com/joblinkhq/joblink/internal/models"
	"github.com/joblinkhq/joblink/internal/utils"
	"gorm.io/gorm"
)

type ApplicationRepository interface {
	Create(ctx context.Context, a *models.Application) error
	GetByID(ctx context.Context, id string) (*models.Application, error)
	GetByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*models.Application, error)
	ListByApplicant(ctx context.Context, applicantID string) ([]models.Application, error)
	ListByJob(ctx context.Context, jobID string) ([]models.Application, error)
	// ListAcceptedByRecruiter lists accepted applications across every
	// job posted by the recruiter.
	ListAcceptedByRecruiter(ctx context.Context, recruiterID string) ([]models.Application, error)
	// UpdateGuarded writes the given columns iff the stored version
	// still equals version, incrementing it in the same statement.
	// Returns utils.ErrVersionConflict on a stale version.
	UpdateGuarded(ctx context.Context, id string, version int64, fields map[string]any) error
}

type applicationRepo struct {
	db *gorm.DB
}

func NewApplicationRepo(db *gorm.DB) ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, a *models.Application) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*models.Application, error) {
	var a models.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Preload("Job.Company").
		Where("id = ?", id).
		Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &a, err
}

func (r *applicationRepo) GetByJobAndApplicant(ctx context.Context, jobID, applicantID string) (*models.Application, error) {
	var a models.Application
	err := r.db.WithContext(ctx).
		Where("job_id = ? AND applicant_id = ?", jobID, applicantID).
		Take(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &a, err
}

func (r *applicationRepo) ListByApplicant(ctx context.Context, applicantID string) ([]models.Application, error) {
	var out []models.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Preload("Job.Company").
		Where("applicant_id = ?", applicantID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *applicationRepo) ListByJob(ctx context.Context, jobID string) ([]models.Application, error) {
	var out []models.Application
	err := r.db.WithContext(ctx).
		Preload("Applicant").
		Where("job_id = ?", jobID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *applicationRepo) ListAcceptedByRecruiter(ctx context.Context, recruiterID string) ([]models.Application, error) {
	var out []models.Application
	err := r.db.WithContext(ctx).
		Preload("Job").
		Preload("Job.Company").
		Preload("Applicant").
		Joins("JOIN jobs ON jobs.id = applications.job_id").
		Where("jobs.created_by_id = ? AND applications.status = ?", recruiterID, models.StatusAccepted).
		Order("applications.created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *applicationRepo) UpdateGuarded(ctx context.Context, id string, version int64, fields map[string]any) error {
	fields["version"] = version + 1
	res := r.db.WithContext(ctx).
		Model(&models.Application{}).
		Where("id = ? AND version = ?", id, version).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// Row exists (callers load it first), so the version moved.
		return utils.ErrVersionConflict
	}
	return nil
}
