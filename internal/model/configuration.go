package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// configuration_records — one row per imported configuration package.
type ConfigurationRecord struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	PackageType string    `gorm:"type:varchar(32);not null"`
	UserRole    string    `gorm:"type:varchar(32);not null"`
	UserName    string    `gorm:"type:varchar(255)"`
	ExportDate  time.Time `gorm:"not null"`

	// Raw package payload, kept opaque until the sync format is finalized.
	Payload datatypes.JSON `gorm:"type:jsonb"`

	ImportedAt time.Time `gorm:"not null"`
}
