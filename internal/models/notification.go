package models

import "time"

// Notification is an ephemeral message addressed to a worker. It lives
// in Mongo and is deleted once the worker dismisses it.
type Notification struct {
	ID            string    `bson:"notification_id" json:"id"`
	UserID        string    `bson:"user_id" json:"user_id"`
	ApplicationID string    `bson:"application_id" json:"application_id"`
	Message       string    `bson:"message" json:"message"`
	CreatedAt     time.Time `bson:"created_at" json:"created_at"`
}
