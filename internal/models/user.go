package models

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

// Role is the closed set of account roles. Authorization checkpoints
// match on these values, never on raw request strings.
type Role string

const (
	RoleWorker    Role = "worker"
	RoleRecruiter Role = "recruiter"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleWorker:
		return RoleWorker, true
	case RoleRecruiter:
		return RoleRecruiter, true
	default:
		return "", false
	}
}

type Profile struct {
	Bio                string         `gorm:"column:bio;type:text" json:"bio"`
	Skills             pq.StringArray `gorm:"column:skills;type:text[]" json:"skills"`
	ResumeURL          string         `gorm:"column:resume_url;type:text" json:"resume_url"`
	ResumeOriginalName string         `gorm:"column:resume_original_name;type:text" json:"resume_original_name"`
	PhotoURL           string         `gorm:"column:photo_url;type:text" json:"photo_url"`

	// Free-form structured extras (experience, education) kept as JSONB.
	Experience datatypes.JSON `gorm:"column:experience;type:jsonb" json:"experience,omitempty"`
}

type User struct {
	ID          string  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FullName    string  `gorm:"column:full_name;type:text" json:"full_name"`
	Email       string  `gorm:"column:email;type:text;uniqueIndex" json:"email"`
	PhoneNumber string  `gorm:"column:phone_number;type:text" json:"phone_number"`
	Password    string  `gorm:"column:password;type:text" json:"-"`
	Role        Role    `gorm:"column:role;type:text" json:"role"`
	Profile     Profile `gorm:"embedded" json:"profile"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (User) TableName() string { return "users" }
