package postgres

import (
	"context"
	"errors"

	"github.com/joblinkhq/joblink/internal/models"
	"github.com/joblinkhq/joblink/internal/utils"
	"gorm.io/gorm"
)

type CompanyRepository interface {
	Create(ctx context.Context, co *models.Company) error
	GetByID(ctx context.Context, id string) (*models.Company, error)
	GetByName(ctx context.Context, name string) (*models.Company, error)
	ListByRecruiter(ctx context.Context, recruiterID string) ([]models.Company, error)
	Update(ctx context.Context, co *models.Company) error
}

type companyRepo struct {
	db *gorm.DB
}

func NewCompanyRepo(db *gorm.DB) CompanyRepository {
	return &companyRepo{db: db}
}

func (r *companyRepo) Create(ctx context.Context, co *models.Company) error {
	return r.db.WithContext(ctx).Create(co).Error
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*models.Company, error) {
	var co models.Company
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		Take(&co).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &co, err
}

func (r *companyRepo) GetByName(ctx context.Context, name string) (*models.Company, error) {
	var co models.Company
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Take(&co).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &co, err
}

func (r *companyRepo) ListByRecruiter(ctx context.Context, recruiterID string) ([]models.Company, error) {
	var out []models.Company
	err := r.db.WithContext(ctx).
		Where("recruiter_id = ?", recruiterID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}

func (r *companyRepo) Update(ctx context.Context, co *models.Company) error {
	return r.db.WithContext(ctx).Save(co).Error
}
