package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ptrp-app/therapy-core/internal/model"
	"github.com/ptrp-app/therapy-core/internal/repository"
)

// Age bounds for an educator, derived from the date of birth.
const (
	minEducatorAge = 18
	maxEducatorAge = 100
)

// A hire date may be planned ahead, but not by more than this.
const maxHireDateLead = 365 * 24 * time.Hour

// EducatorService owns the business rules for professional educators:
// field validation, email uniqueness and the strict status toggles.
type EducatorService struct {
	educators repository.EducatorRepository
	log       zerolog.Logger
}

func NewEducatorService(educators repository.EducatorRepository, log zerolog.Logger) *EducatorService {
	return &EducatorService{educators: educators, log: log}
}

func (s *EducatorService) GetAll(ctx context.Context) ([]model.ProfessionalEducator, error) {
	return s.educators.GetAll(ctx)
}

func (s *EducatorService) GetByID(ctx context.Context, id uuid.UUID) (*model.ProfessionalEducator, error) {
	return s.educators.GetByID(ctx, id)
}

func (s *EducatorService) GetByIDWithProjects(ctx context.Context, id uuid.UUID) (*model.ProfessionalEducator, error) {
	return s.educators.GetByIDWithProjects(ctx, id)
}

func (s *EducatorService) GetByStatus(ctx context.Context, status model.EducatorStatus) ([]model.ProfessionalEducator, error) {
	if !status.IsValid() {
		return nil, &ValidationError{Fields: []FieldError{{
			Field:   "Status",
			Message: fmt.Sprintf("invalid status %q, valid values: %v", status, model.ValidEducatorStatuses()),
		}}}
	}
	return s.educators.GetByStatus(ctx, status)
}

func (s *EducatorService) GetActiveEducators(ctx context.Context) ([]model.ProfessionalEducator, error) {
	return s.educators.GetByStatus(ctx, model.EducatorStatusActive)
}

func (s *EducatorService) GetBySpecialization(ctx context.Context, specialization string) ([]model.ProfessionalEducator, error) {
	if strings.TrimSpace(specialization) == "" {
		return nil, &ValidationError{Fields: []FieldError{{
			Field:   "Specialization",
			Message: "must not be empty",
		}}}
	}
	return s.educators.GetBySpecialization(ctx, specialization)
}

func (s *EducatorService) GetByProjectID(ctx context.Context, projectID uuid.UUID) ([]model.ProfessionalEducator, error) {
	return s.educators.GetByProjectID(ctx, projectID)
}

func (s *EducatorService) Search(ctx context.Context, term string) ([]model.ProfessionalEducator, error) {
	return s.educators.Search(ctx, term)
}

// Add validates the educator and checks email uniqueness up front. The
// pre-check gives a friendly error without waiting for the unique index;
// the repository repeats it atomically.
func (s *EducatorService) Add(ctx context.Context, educator *model.ProfessionalEducator) error {
	if err := s.Validate(educator); err != nil {
		return err
	}

	taken, err := s.educators.EmailExists(ctx, educator.Email, nil)
	if err != nil {
		return err
	}
	if taken {
		return repository.ErrDuplicateEmail
	}

	if err := s.educators.Add(ctx, educator); err != nil {
		return err
	}
	s.log.Info().Stringer("educator_id", educator.ID).Msg("educator created")
	return nil
}

func (s *EducatorService) Update(ctx context.Context, educator *model.ProfessionalEducator) error {
	exists, err := s.educators.Exists(ctx, educator.ID)
	if err != nil {
		return err
	}
	if !exists {
		return repository.ErrEducatorNotFound
	}

	if err := s.Validate(educator); err != nil {
		return err
	}

	// Uniqueness excluding self: keeping one's own email is fine.
	taken, err := s.educators.EmailExists(ctx, educator.Email, &educator.ID)
	if err != nil {
		return err
	}
	if taken {
		return repository.ErrDuplicateEmail
	}

	if err := s.educators.Update(ctx, educator); err != nil {
		return err
	}
	s.log.Info().Stringer("educator_id", educator.ID).Msg("educator updated")
	return nil
}

func (s *EducatorService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.educators.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrEducatorNotFound
	}
	s.log.Info().Stringer("educator_id", id).Msg("educator deleted")
	return nil
}

func (s *EducatorService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.educators.Exists(ctx, id)
}

func (s *EducatorService) AvailableSpecializations(ctx context.Context) ([]string, error) {
	return s.educators.UniqueSpecializations(ctx)
}

// FindCurrentUser returns the educator marked as the local profile, or
// nil when none is configured yet.
func (s *EducatorService) FindCurrentUser(ctx context.Context) (*model.ProfessionalEducator, error) {
	return s.educators.FindCurrentUser(ctx)
}

// Validate collects every violated rule into one ValidationError.
func (s *EducatorService) Validate(educator *model.ProfessionalEducator) error {
	fields := tagViolations(educator)

	now := time.Now()

	if educator.DateOfBirth.IsZero() {
		fields = append(fields, FieldError{Field: "DateOfBirth", Message: "is required"})
	} else if !educator.DateOfBirth.Before(now) {
		fields = append(fields, FieldError{Field: "DateOfBirth", Message: "must be in the past"})
	} else {
		age := ageAt(educator.DateOfBirth, now)
		if age < minEducatorAge {
			fields = append(fields, FieldError{
				Field:   "DateOfBirth",
				Message: fmt.Sprintf("educator must be at least %d years old", minEducatorAge),
			})
		}
		if age > maxEducatorAge {
			fields = append(fields, FieldError{Field: "DateOfBirth", Message: "is not realistic"})
		}
	}

	if educator.HireDate.IsZero() {
		fields = append(fields, FieldError{Field: "HireDate", Message: "is required"})
	} else if educator.HireDate.After(now.Add(maxHireDateLead)) {
		fields = append(fields, FieldError{
			Field:   "HireDate",
			Message: "must not be more than one year in the future",
		})
	}

	if educator.Status != "" && !educator.Status.IsValid() {
		fields = append(fields, FieldError{
			Field:   "Status",
			Message: fmt.Sprintf("invalid status %q, valid values: %v", educator.Status, model.ValidEducatorStatuses()),
		})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Deactivate, Activate and SetOnLeave are deliberately strict: asking for
// the status the educator already has is an error, unlike the idempotent
// assignment operations.

func (s *EducatorService) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.setStatus(ctx, id, model.EducatorStatusInactive)
}

func (s *EducatorService) Activate(ctx context.Context, id uuid.UUID) error {
	return s.setStatus(ctx, id, model.EducatorStatusActive)
}

func (s *EducatorService) SetOnLeave(ctx context.Context, id uuid.UUID) error {
	return s.setStatus(ctx, id, model.EducatorStatusOnLeave)
}

func (s *EducatorService) setStatus(ctx context.Context, id uuid.UUID, target model.EducatorStatus) error {
	educator, err := s.educators.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if educator == nil {
		return repository.ErrEducatorNotFound
	}

	if educator.Status == target {
		return fmt.Errorf("%w: educator is already %s", ErrIllegalTransition, target)
	}

	educator.Status = target
	if err := s.educators.Update(ctx, educator); err != nil {
		return err
	}
	s.log.Info().
		Stringer("educator_id", id).
		Str("status", string(target)).
		Msg("educator status changed")
	return nil
}

func ageAt(dateOfBirth, ref time.Time) int {
	age := ref.Year() - dateOfBirth.Year()
	if ref.YearDay() < dateOfBirth.YearDay() {
		age--
	}
	return age
}
