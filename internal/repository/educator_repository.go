package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ptrp-app/therapy-core/internal/model"
)

type EducatorRepository interface {
	GetAll(ctx context.Context) ([]model.ProfessionalEducator, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.ProfessionalEducator, error)
	GetByIDWithProjects(ctx context.Context, id uuid.UUID) (*model.ProfessionalEducator, error)
	GetByStatus(ctx context.Context, status model.EducatorStatus) ([]model.ProfessionalEducator, error)
	GetBySpecialization(ctx context.Context, specialization string) ([]model.ProfessionalEducator, error)
	GetByProjectID(ctx context.Context, projectID uuid.UUID) ([]model.ProfessionalEducator, error)
	Search(ctx context.Context, term string) ([]model.ProfessionalEducator, error)
	Add(ctx context.Context, educator *model.ProfessionalEducator) error
	Update(ctx context.Context, educator *model.ProfessionalEducator) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	EmailExists(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error)
	UniqueSpecializations(ctx context.Context) ([]string, error)
	FindCurrentUser(ctx context.Context) (*model.ProfessionalEducator, error)
}

type GormEducatorRepository struct {
	db *gorm.DB
}

func NewGormEducatorRepository(db *gorm.DB) *GormEducatorRepository {
	return &GormEducatorRepository{db: db}
}

func (r *GormEducatorRepository) GetAll(ctx context.Context) ([]model.ProfessionalEducator, error) {
	var educators []model.ProfessionalEducator
	if err := r.db.WithContext(ctx).
		Order("last_name, first_name").
		Find(&educators).Error; err != nil {
		return nil, err
	}
	return educators, nil
}

func (r *GormEducatorRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ProfessionalEducator, error) {
	var e model.ProfessionalEducator
	err := r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *GormEducatorRepository) GetByIDWithProjects(ctx context.Context, id uuid.UUID) (*model.ProfessionalEducator, error) {
	var e model.ProfessionalEducator
	err := r.db.WithContext(ctx).
		Preload("AssignedProjects").
		Preload("AssignedProjects.Patient").
		First(&e, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}

func (r *GormEducatorRepository) GetByStatus(ctx context.Context, status model.EducatorStatus) ([]model.ProfessionalEducator, error) {
	var educators []model.ProfessionalEducator
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("last_name, first_name").
		Find(&educators).Error; err != nil {
		return nil, err
	}
	return educators, nil
}

func (r *GormEducatorRepository) GetBySpecialization(ctx context.Context, specialization string) ([]model.ProfessionalEducator, error) {
	var educators []model.ProfessionalEducator
	if err := r.db.WithContext(ctx).
		Where("specialization = ?", specialization).
		Order("last_name, first_name").
		Find(&educators).Error; err != nil {
		return nil, err
	}
	return educators, nil
}

func (r *GormEducatorRepository) GetByProjectID(ctx context.Context, projectID uuid.UUID) ([]model.ProfessionalEducator, error) {
	var educators []model.ProfessionalEducator
	if err := r.db.WithContext(ctx).
		Joins("JOIN project_educators pe ON pe.professional_educator_id = professional_educators.id").
		Where("pe.therapy_project_id = ?", projectID).
		Order("last_name, first_name").
		Find(&educators).Error; err != nil {
		return nil, err
	}
	return educators, nil
}

func (r *GormEducatorRepository) Search(ctx context.Context, term string) ([]model.ProfessionalEducator, error) {
	// Blank terms fall back to the full listing, same as the other
	// repositories.
	term = strings.TrimSpace(term)
	if term == "" {
		return r.GetAll(ctx)
	}

	pattern := "%" + strings.ToLower(term) + "%"

	var educators []model.ProfessionalEducator
	if err := r.db.WithContext(ctx).
		Where("lower(first_name) LIKE ? OR lower(last_name) LIKE ? OR lower(email) LIKE ?",
			pattern, pattern, pattern).
		Order("last_name, first_name").
		Find(&educators).Error; err != nil {
		return nil, err
	}
	return educators, nil
}

// Add persists a new educator. The email check runs in the same
// transaction as the insert; the unique index on email is the final
// race-breaker and is reported as ErrDuplicateEmail too.
func (r *GormEducatorRepository) Add(ctx context.Context, educator *model.ProfessionalEducator) error {
	if educator.ID == uuid.Nil {
		educator.ID = uuid.New()
	}
	if educator.CreatedAt.IsZero() {
		educator.CreatedAt = time.Now().UTC()
	}
	if educator.Status == "" {
		educator.Status = model.EducatorStatusActive
	}
	if educator.Role == "" {
		educator.Role = model.EducatorRoleEducator
	}
	educator.UpdatedAt = nil

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := emailExists(tx, educator.Email, nil)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateEmail
		}
		return tx.Omit("AssignedProjects").Create(educator).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

func (r *GormEducatorRepository) Update(ctx context.Context, educator *model.ProfessionalEducator) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.ProfessionalEducator
		if err := tx.First(&existing, "id = ?", educator.ID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrEducatorNotFound
			}
			return err
		}

		exists, err := emailExists(tx, educator.Email, &educator.ID)
		if err != nil {
			return err
		}
		if exists {
			return ErrDuplicateEmail
		}

		now := time.Now().UTC()
		existing.FirstName = educator.FirstName
		existing.LastName = educator.LastName
		existing.Email = educator.Email
		existing.PhoneNumber = educator.PhoneNumber
		existing.DateOfBirth = educator.DateOfBirth
		existing.Specialization = educator.Specialization
		existing.LicenseNumber = educator.LicenseNumber
		existing.HireDate = educator.HireDate
		existing.Status = educator.Status
		existing.Role = educator.Role
		existing.IsCurrentUser = educator.IsCurrentUser
		existing.UpdatedAt = &now

		if err := tx.Omit("AssignedProjects").Save(&existing).Error; err != nil {
			return err
		}
		*educator = existing
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateEmail
	}
	return err
}

// Delete clears the educator's project assignments before removing the
// row, in one transaction. Returns false when no row matched.
func (r *GormEducatorRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var educator model.ProfessionalEducator
		if err := tx.First(&educator, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}

		if err := tx.Model(&educator).Association("AssignedProjects").Clear(); err != nil {
			return err
		}
		if err := tx.Delete(&educator).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}

func (r *GormEducatorRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.ProfessionalEducator{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormEducatorRepository) EmailExists(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	return emailExists(r.db.WithContext(ctx), email, excludeID)
}

func emailExists(tx *gorm.DB, email string, excludeID *uuid.UUID) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, nil
	}

	q := tx.Model(&model.ProfessionalEducator{}).Where("email = ?", email)
	if excludeID != nil {
		q = q.Where("id <> ?", *excludeID)
	}

	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormEducatorRepository) UniqueSpecializations(ctx context.Context) ([]string, error) {
	var specializations []string
	if err := r.db.WithContext(ctx).
		Model(&model.ProfessionalEducator{}).
		Where("trim(specialization) <> ''").
		Distinct("specialization").
		Order("specialization").
		Pluck("specialization", &specializations).Error; err != nil {
		return nil, err
	}
	return specializations, nil
}

// FindCurrentUser returns the educator marked as the local profile, or nil
// when the store has none.
func (r *GormEducatorRepository) FindCurrentUser(ctx context.Context) (*model.ProfessionalEducator, error) {
	var e model.ProfessionalEducator
	err := r.db.WithContext(ctx).First(&e, "is_current_user = ?", true).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &e, nil
}
