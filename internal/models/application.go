package models

import (
	"time"

	"gorm.io/datatypes"
)

// ApplicationStatus is the closed set of application states.
// pending is the only non-terminal state.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

func ParseApplicationStatus(s string) (ApplicationStatus, bool) {
	switch ApplicationStatus(s) {
	case StatusPending, StatusAccepted, StatusRejected:
		return ApplicationStatus(s), true
	default:
		return "", false
	}
}

// Terminal reports whether no further status transition is defined.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// Application links one worker to one job. At most one row exists per
// (job, applicant) pair.
type Application struct {
	ID          string            `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	JobID       string            `gorm:"column:job_id;type:uuid;uniqueIndex:uniq_job_applicant" json:"job_id"`
	ApplicantID string            `gorm:"column:applicant_id;type:uuid;uniqueIndex:uniq_job_applicant" json:"applicant_id"`
	Status      ApplicationStatus `gorm:"column:status;type:text" json:"status"`

	PaymentStatus PaymentStatus `gorm:"column:payment_status;type:text" json:"payment_status"`
	// Snapshot of the provider checkout session (id + redirect URL) so
	// checkout creation can be idempotent per application.
	Checkout datatypes.JSON `gorm:"column:checkout;type:jsonb" json:"checkout,omitempty"`

	// RatingScore 0 means unset; set values are in [1,5].
	RatingScore  int    `gorm:"column:rating_score" json:"rating_score"`
	RatingReview string `gorm:"column:rating_review;type:text" json:"rating_review"`
	Feedback     string `gorm:"column:feedback;type:text" json:"feedback"`

	// Version guards concurrent mutations: every write matches the
	// version it read and increments it.
	Version int64 `gorm:"column:version" json:"version"`

	Job       *Job  `gorm:"foreignKey:JobID" json:"job,omitempty"`
	Applicant *User `gorm:"foreignKey:ApplicantID" json:"applicant,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;type:timestamptz" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;type:timestamptz" json:"updated_at"`
}

func (Application) TableName() string { return "applications" }

// CheckoutSession is the JSON shape stored in Application.Checkout.
type CheckoutSession struct {
	SessionID string    `json:"session_id"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"created_at"`
}
