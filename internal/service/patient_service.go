package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ptrp-app/therapy-core/internal/model"
	"github.com/ptrp-app/therapy-core/internal/repository"
)

// PatientService owns the business rules for patients and delegates
// persistence to the patient repository.
type PatientService struct {
	patients repository.PatientRepository
	log      zerolog.Logger
}

func NewPatientService(patients repository.PatientRepository, log zerolog.Logger) *PatientService {
	return &PatientService{patients: patients, log: log}
}

func (s *PatientService) GetAll(ctx context.Context) ([]model.Patient, error) {
	return s.patients.GetAll(ctx)
}

func (s *PatientService) GetByID(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *PatientService) GetByIDWithProjects(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return s.patients.GetByIDWithProjects(ctx, id)
}

func (s *PatientService) Search(ctx context.Context, term string) ([]model.Patient, error) {
	return s.patients.Search(ctx, term)
}

func (s *PatientService) Add(ctx context.Context, patient *model.Patient) error {
	if err := s.Validate(patient); err != nil {
		return err
	}

	if err := s.patients.Add(ctx, patient); err != nil {
		return err
	}
	s.log.Info().Stringer("patient_id", patient.ID).Msg("patient created")
	return nil
}

func (s *PatientService) Update(ctx context.Context, patient *model.Patient) error {
	if err := s.Validate(patient); err != nil {
		return err
	}

	if err := s.patients.Update(ctx, patient); err != nil {
		return err
	}
	s.log.Info().Stringer("patient_id", patient.ID).Msg("patient updated")
	return nil
}

// Delete removes the patient and cascades over its therapy projects.
func (s *PatientService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.patients.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrPatientNotFound
	}
	s.log.Info().Stringer("patient_id", id).Msg("patient deleted")
	return nil
}

func (s *PatientService) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.patients.Exists(ctx, id)
}

// Validate collects every violated rule into one ValidationError.
func (s *PatientService) Validate(patient *model.Patient) error {
	fields := tagViolations(patient)

	if patient.DateOfBirth != nil && !patient.DateOfBirth.Before(time.Now()) {
		fields = append(fields, FieldError{
			Field:   "DateOfBirth",
			Message: "must be in the past",
		})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
