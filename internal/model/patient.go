package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// patients
type Patient struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	FirstName string `gorm:"type:varchar(100);not null;index:idx_patients_full_name" validate:"required,max=100"`
	LastName  string `gorm:"type:varchar(100);not null;index:idx_patients_full_name" validate:"required,max=100"`

	// Contact data is captured at intake and kept read-only afterwards:
	// Update only touches the name fields.
	DateOfBirth *time.Time `gorm:"type:date"`
	Email       string     `gorm:"type:varchar(255)" validate:"omitempty,email"`
	PhoneNumber string     `gorm:"type:varchar(32)"`

	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false"`

	// Navigation field for Preload.
	TherapyProjects []TherapyProject `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (p *Patient) String() string {
	return fmt.Sprintf("%s %s (ID: %s)", p.FirstName, p.LastName, p.ID)
}
