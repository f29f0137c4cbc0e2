package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ptrp-app/therapy-core/internal/model"
)

type PatientRepository interface {
	GetAll(ctx context.Context) ([]model.Patient, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	GetByIDWithProjects(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	Search(ctx context.Context, term string) ([]model.Patient, error)
	Add(ctx context.Context, patient *model.Patient) error
	Update(ctx context.Context, patient *model.Patient) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type GormPatientRepository struct {
	db *gorm.DB
}

func NewGormPatientRepository(db *gorm.DB) *GormPatientRepository {
	return &GormPatientRepository{db: db}
}

func (r *GormPatientRepository) GetAll(ctx context.Context) ([]model.Patient, error) {
	var patients []model.Patient
	if err := r.db.WithContext(ctx).
		Order("last_name, first_name").
		Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *GormPatientRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	var p model.Patient
	err := r.db.WithContext(ctx).First(&p, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormPatientRepository) GetByIDWithProjects(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	var p model.Patient
	err := r.db.WithContext(ctx).
		Preload("TherapyProjects").
		First(&p, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (r *GormPatientRepository) Search(ctx context.Context, term string) ([]model.Patient, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return r.GetAll(ctx)
	}

	pattern := "%" + strings.ToLower(term) + "%"

	var patients []model.Patient
	if err := r.db.WithContext(ctx).
		Where("lower(first_name) LIKE ? OR lower(last_name) LIKE ?", pattern, pattern).
		Order("last_name, first_name").
		Find(&patients).Error; err != nil {
		return nil, err
	}
	return patients, nil
}

func (r *GormPatientRepository) Add(ctx context.Context, patient *model.Patient) error {
	if patient.ID == uuid.Nil {
		patient.ID = uuid.New()
	}
	if patient.CreatedAt.IsZero() {
		patient.CreatedAt = time.Now().UTC()
	}
	patient.UpdatedAt = nil

	return r.db.WithContext(ctx).Create(patient).Error
}

func (r *GormPatientRepository) Update(ctx context.Context, patient *model.Patient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Patient
		if err := tx.First(&existing, "id = ?", patient.ID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrPatientNotFound
			}
			return err
		}

		// Only the name fields are mutable; contact data is intake-only.
		now := time.Now().UTC()
		existing.FirstName = patient.FirstName
		existing.LastName = patient.LastName
		existing.UpdatedAt = &now

		if err := tx.Save(&existing).Error; err != nil {
			return err
		}
		*patient = existing
		return nil
	})
}

// Delete removes the patient together with all of its therapy projects and
// their educator assignments, in a single transaction. Returns false when
// no row matched.
func (r *GormPatientRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var patient model.Patient
		if err := tx.Preload("TherapyProjects").First(&patient, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}

		// Join rows first, then projects, then the patient. Ordering
		// matters for stores enforcing referential integrity.
		for i := range patient.TherapyProjects {
			if err := tx.Model(&patient.TherapyProjects[i]).Association("Educators").Clear(); err != nil {
				return err
			}
		}
		if err := tx.Where("patient_id = ?", id).Delete(&model.TherapyProject{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&patient).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}

func (r *GormPatientRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.Patient{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
