package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Lifecycle state of a therapy project.
type ProjectStatus string

const (
	ProjectStatusInProgress ProjectStatus = "In Progress"
	ProjectStatusCompleted  ProjectStatus = "Completed"
	ProjectStatusOnHold     ProjectStatus = "On Hold"
)

// ValidProjectStatuses lists every status the store accepts.
func ValidProjectStatuses() []ProjectStatus {
	return []ProjectStatus{ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusOnHold}
}

// IsValid reports whether s is one of the fixed status values.
func (s ProjectStatus) IsValid() bool {
	switch s {
	case ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	}
	return false
}

// therapy_projects
type TherapyProject struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	PatientID uuid.UUID `gorm:"type:uuid;not null;index" validate:"required"`

	Title       string `gorm:"type:varchar(200);not null" validate:"required,min=3,max=200"`
	Description string `gorm:"type:varchar(2000)" validate:"max=2000"`

	StartDate time.Time  `gorm:"not null"`
	EndDate   *time.Time `gorm:""`

	Status ProjectStatus `gorm:"type:varchar(50);not null;default:'In Progress';index"`

	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false"`

	// Navigation fields for Preload.
	Patient   *Patient               `gorm:"foreignKey:PatientID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Educators []ProfessionalEducator `gorm:"many2many:project_educators;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (tp *TherapyProject) String() string {
	return fmt.Sprintf("%s (patient %s)", tp.Title, tp.PatientID)
}
