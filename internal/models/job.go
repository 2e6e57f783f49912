package models

import (
	"time"

	"github.com/lib/pq"
)

type Job struct {
	ID           string         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CompanyID    string         `gorm:"column:company_id;type:uuid;index" json:"company_id"`
	CreatedByID  string         `gorm:"column:created_by_id;type:uuid;index" json:"created_by_id"`
	Title        string         `gorm:"column:title;type:text" json:"title"`
	Description  string         `gorm:"column:description;type:text" json:"description"`
	Requirements pq.StringArray `gorm:"column:requirements;type:text[]" json:"requirements"`
	Salary       int64          `gorm:"column:salary" json:"salary"`
	Experience   int            `gorm:"column:experience" json:"experience"`
	Location     string         `gorm:"column:location;type:text" json:"location"`
	JobType      string         `gorm:"column:job_type;type:text" json:"job_type"`
	Positions    int            `gorm:"column:positions" json:"positions"`

	Company *Company `gorm:"foreignKey:CompanyID" json:"company,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Job) TableName() string { return "jobs" }
