package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Employment status of an educator.
type EducatorStatus string

const (
	EducatorStatusActive   EducatorStatus = "Active"
	EducatorStatusInactive EducatorStatus = "Inactive"
	EducatorStatusOnLeave  EducatorStatus = "OnLeave"
)

// ValidEducatorStatuses lists every status the store accepts.
func ValidEducatorStatuses() []EducatorStatus {
	return []EducatorStatus{EducatorStatusActive, EducatorStatusInactive, EducatorStatusOnLeave}
}

// IsValid reports whether s is one of the fixed status values.
func (s EducatorStatus) IsValid() bool {
	switch s {
	case EducatorStatusActive, EducatorStatusInactive, EducatorStatusOnLeave:
		return true
	}
	return false
}

// Operational role, drives what the local profile may do.
type EducatorRole string

const (
	EducatorRoleCoordinator EducatorRole = "Coordinator"
	EducatorRoleEducator    EducatorRole = "Educator"
)

// professional_educators
type ProfessionalEducator struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	FirstName string `gorm:"type:varchar(100);not null" validate:"required,max=100"`
	LastName  string `gorm:"type:varchar(100);not null" validate:"required,max=100"`

	Email       string `gorm:"type:varchar(255);not null;uniqueIndex" validate:"required,email"`
	PhoneNumber string `gorm:"type:varchar(32);not null" validate:"required"`

	DateOfBirth time.Time `gorm:"not null"`

	Specialization string `gorm:"type:varchar(255);not null" validate:"required"`
	LicenseNumber  string `gorm:"type:varchar(100);not null" validate:"required"`

	HireDate time.Time `gorm:"not null"`

	Status EducatorStatus `gorm:"type:varchar(32);not null;default:'Active';index"`
	Role   EducatorRole   `gorm:"type:varchar(32);not null;default:'Educator'"`

	// Marks the profile of the local operator. At most one row per store
	// may carry this flag; used for first-run detection.
	IsCurrentUser bool `gorm:"not null;default:false"`

	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt *time.Time `gorm:"autoUpdateTime:false"`

	// Navigation field for Preload.
	AssignedProjects []TherapyProject `gorm:"many2many:project_educators;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (e *ProfessionalEducator) String() string {
	return fmt.Sprintf("%s %s (%s)", e.FirstName, e.LastName, e.Specialization)
}
