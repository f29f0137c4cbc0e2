package model

import "gorm.io/gorm"

// AutoMigrate migrates every entity of the therapy core, including the
// project_educators join table.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Patient{},
		&TherapyProject{},
		&ProfessionalEducator{},
		&ConfigurationRecord{},
	)
}
