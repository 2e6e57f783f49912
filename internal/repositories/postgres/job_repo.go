package postgres

import (
	"context"
	"errors"

	"github.com/joblinkhq/joblink/internal/models"
	"github.com/joblinkhq/joblink/internal/utils"
	"gorm.io/gorm"
)

type JobRepository interface {
	Create(ctx context.Context, j *models.Job) error
	GetByID(ctx context.Context, id string) (*models.Job, error)
	// Search lists jobs whose title or description matches the keyword,
	// newest first. Empty keyword lists everything.
	Search(ctx context.Context, keyword string) ([]models.Job, error)
	ListByRecruiter(ctx context.Context, recruiterID string) ([]models.Job, error)
	Update(ctx context.Context, j *models.Job) error
}

type jobRepo struct {
	db *gorm.DB
}

func NewJobRepo(db *gorm.DB) JobRepository {
	return &jobRepo{db: db}
}

func (r *jobRepo) Create(ctx context.Context, j *models.Job) error {
	return r.db.WithContext(ctx).Create(j).Error
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*models.Job, error) {
	var j models.Job
	err := r.db.WithContext(ctx).
		Preload("Company").
		Where("id = ?", id).
		Take(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &j, err
}

func (r *jobRepo) Search(ctx context.Context, keyword string) ([]models.Job, error) {
	q := r.db.WithContext(ctx).Preload("Company")
	if keyword != "" {
		like := "%" + keyword + "%"
		q = q.Where("title ILIKE ? OR description ILIKE ?", like, like)
	}
	var out []models.Job
	err := q.Order("created_at DESC").Find(&out).Error
	return out, err
}

func (r *jobRepo) ListByRecruiter(ctx context.Context, recruiterID string) ([]models.Job, error) {
	var out []models.Job
	err := r.db.WithContext(ctx).
		Preload("Company").
		Where("created_by_id = ?", recruiterID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *jobRepo) Update(ctx context.Context, j *models.Job) error {
	return r.db.WithContext(ctx).Save(j).Error
}
