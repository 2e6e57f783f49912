package config

import (
	"errors"

	"github.com/joblinkhq/joblink/internal/models"
)

// MigratePostgres keeps the relational schema in sync with the models.
func MigratePostgres() error {
	if PostgresDB == nil {
		return errors.New("PostgresDB is nil; call InitPostgres() first")
	}
	return PostgresDB.AutoMigrate(
		&models.User{},
		&models.Company{},
		&models.Job{},
		&models.Application{},
	)
}
