package repository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ptrp-app/therapy-core/internal/model"
)

type TherapyProjectRepository interface {
	GetAll(ctx context.Context) ([]model.TherapyProject, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.TherapyProject, error)
	GetByIDWithPatient(ctx context.Context, id uuid.UUID) (*model.TherapyProject, error)
	GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.TherapyProject, error)
	GetByPatientID(ctx context.Context, patientID uuid.UUID) ([]model.TherapyProject, error)
	GetByEducatorID(ctx context.Context, educatorID uuid.UUID) ([]model.TherapyProject, error)
	GetByStatus(ctx context.Context, status model.ProjectStatus) ([]model.TherapyProject, error)
	Search(ctx context.Context, term string) ([]model.TherapyProject, error)
	Add(ctx context.Context, project *model.TherapyProject) error
	Update(ctx context.Context, project *model.TherapyProject) error
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	AssignEducator(ctx context.Context, projectID, educatorID uuid.UUID) error
	RemoveEducator(ctx context.Context, projectID, educatorID uuid.UUID) error
}

type GormTherapyProjectRepository struct {
	db *gorm.DB
}

func NewGormTherapyProjectRepository(db *gorm.DB) *GormTherapyProjectRepository {
	return &GormTherapyProjectRepository{db: db}
}

func (r *GormTherapyProjectRepository) GetAll(ctx context.Context) ([]model.TherapyProject, error) {
	var projects []model.TherapyProject
	if err := r.db.WithContext(ctx).
		Order("start_date DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *GormTherapyProjectRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.TherapyProject, error) {
	var tp model.TherapyProject
	err := r.db.WithContext(ctx).First(&tp, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &tp, nil
}

func (r *GormTherapyProjectRepository) GetByIDWithPatient(ctx context.Context, id uuid.UUID) (*model.TherapyProject, error) {
	var tp model.TherapyProject
	err := r.db.WithContext(ctx).
		Preload("Patient").
		First(&tp, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &tp, nil
}

func (r *GormTherapyProjectRepository) GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.TherapyProject, error) {
	var tp model.TherapyProject
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Educators").
		First(&tp, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &tp, nil
}

func (r *GormTherapyProjectRepository) GetByPatientID(ctx context.Context, patientID uuid.UUID) ([]model.TherapyProject, error) {
	var projects []model.TherapyProject
	if err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("start_date DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *GormTherapyProjectRepository) GetByEducatorID(ctx context.Context, educatorID uuid.UUID) ([]model.TherapyProject, error) {
	var projects []model.TherapyProject
	if err := r.db.WithContext(ctx).
		Joins("JOIN project_educators pe ON pe.therapy_project_id = therapy_projects.id").
		Where("pe.professional_educator_id = ?", educatorID).
		Order("start_date DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *GormTherapyProjectRepository) GetByStatus(ctx context.Context, status model.ProjectStatus) ([]model.TherapyProject, error) {
	trimmed := model.ProjectStatus(strings.TrimSpace(string(status)))
	if trimmed == "" {
		return r.GetAll(ctx)
	}

	var projects []model.TherapyProject
	if err := r.db.WithContext(ctx).
		Where("status = ?", trimmed).
		Order("start_date DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *GormTherapyProjectRepository) Search(ctx context.Context, term string) ([]model.TherapyProject, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return r.GetAll(ctx)
	}

	pattern := "%" + strings.ToLower(term) + "%"

	var projects []model.TherapyProject
	if err := r.db.WithContext(ctx).
		Where("lower(title) LIKE ? OR lower(description) LIKE ?", pattern, pattern).
		Order("start_date DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Add persists a new project after confirming the owning patient exists.
// The patient check and the insert run in one transaction.
func (r *GormTherapyProjectRepository) Add(ctx context.Context, project *model.TherapyProject) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now().UTC()
	}
	if project.Status == "" {
		project.Status = model.ProjectStatusInProgress
	}
	project.UpdatedAt = nil

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Patient{}).
			Where("id = ?", project.PatientID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrPatientNotFound
		}
		return tx.Omit("Patient", "Educators").Create(project).Error
	})
}

func (r *GormTherapyProjectRepository) Update(ctx context.Context, project *model.TherapyProject) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.TherapyProject
		if err := tx.First(&existing, "id = ?", project.ID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrProjectNotFound
			}
			return err
		}

		// The owning patient may only change to another existing patient.
		if existing.PatientID != project.PatientID {
			var count int64
			if err := tx.Model(&model.Patient{}).
				Where("id = ?", project.PatientID).
				Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrPatientNotFound
			}
		}

		now := time.Now().UTC()
		existing.PatientID = project.PatientID
		existing.Title = project.Title
		existing.Description = project.Description
		existing.StartDate = project.StartDate
		existing.EndDate = project.EndDate
		existing.Status = project.Status
		existing.UpdatedAt = &now

		if err := tx.Omit("Patient", "Educators").Save(&existing).Error; err != nil {
			return err
		}
		*project = existing
		return nil
	})
}

// Delete clears the educator assignments before removing the project row,
// in one transaction. Returns false when no row matched.
func (r *GormTherapyProjectRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project model.TherapyProject
		if err := tx.First(&project, "id = ?", id).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil
			}
			return err
		}

		if err := tx.Model(&project).Association("Educators").Clear(); err != nil {
			return err
		}
		if err := tx.Delete(&project).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	})
	return deleted, err
}

func (r *GormTherapyProjectRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&model.TherapyProject{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// AssignEducator links an educator to a project. Assigning an already
// assigned pair is a no-op.
func (r *GormTherapyProjectRepository) AssignEducator(ctx context.Context, projectID, educatorID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project model.TherapyProject
		if err := tx.Preload("Educators").First(&project, "id = ?", projectID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrProjectNotFound
			}
			return err
		}

		var educator model.ProfessionalEducator
		if err := tx.First(&educator, "id = ?", educatorID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrEducatorNotFound
			}
			return err
		}

		for i := range project.Educators {
			if project.Educators[i].ID == educatorID {
				return nil
			}
		}

		if err := tx.Omit("Educators.*").Model(&project).Association("Educators").Append(&educator); err != nil {
			return err
		}
		return tx.Model(&model.TherapyProject{}).
			Where("id = ?", projectID).
			Update("updated_at", time.Now().UTC()).Error
	})
}

// RemoveEducator unlinks an educator from a project. Removing a pair that
// is not assigned is a no-op.
func (r *GormTherapyProjectRepository) RemoveEducator(ctx context.Context, projectID, educatorID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project model.TherapyProject
		if err := tx.Preload("Educators").First(&project, "id = ?", projectID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrProjectNotFound
			}
			return err
		}

		var assigned *model.ProfessionalEducator
		for i := range project.Educators {
			if project.Educators[i].ID == educatorID {
				assigned = &project.Educators[i]
				break
			}
		}
		if assigned == nil {
			return nil
		}

		if err := tx.Model(&project).Association("Educators").Delete(assigned); err != nil {
			return err
		}
		return tx.Model(&model.TherapyProject{}).
			Where("id = ?", projectID).
			Update("updated_at", time.Now().UTC()).Error
	})
}
