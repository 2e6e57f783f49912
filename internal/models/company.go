package models

import "time"

// Company is owned by exactly one recruiter account.
type Company struct {
	ID          string `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	RecruiterID string `gorm:"column:recruiter_id;type:uuid;index" json:"recruiter_id"`
	Name        string `gorm:"column:name;type:text;uniqueIndex" json:"name"`
	Description string `gorm:"column:description;type:text" json:"description"`
	Website     string `gorm:"column:website;type:text" json:"website"`
	Location    string `gorm:"column:location;type:text" json:"location"`
	LogoURL     string `gorm:"column:logo_url;type:text" json:"logo_url"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Company) TableName() string { return "companies" }
