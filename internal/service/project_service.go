package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ptrp-app/therapy-core/internal/model"
	"github.com/ptrp-app/therapy-core/internal/repository"
)

// A project's start date may be planned ahead, but not by more than this.
const maxStartDateLead = 365 * 24 * time.Hour

// TherapyProjectService owns the business rules for therapy projects,
// including the lifecycle state machine. The repository persists any
// status value; legality of a transition is decided here.
type TherapyProjectService struct {
	projects repository.TherapyProjectRepository
	patients repository.PatientRepository
	log      zerolog.Logger
}

func NewTherapyProjectService(
	projects repository.TherapyProjectRepository,
	patients repository.PatientRepository,
	log zerolog.Logger,
) *TherapyProjectService {
	return &TherapyProjectService{projects: projects, patients: patients, log: log}
}

func (s *TherapyProjectService) GetAll(ctx context.Context) ([]model.TherapyProject, error) {
	return s.projects.GetAll(ctx)
}

func (s *TherapyProjectService) GetByID(ctx context.Context, id uuid.UUID) (*model.TherapyProject, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *TherapyProjectService) GetByIDWithPatient(ctx context.Context, id uuid.UUID) (*model.TherapyProject, error) {
	return s.projects.GetByIDWithPatient(ctx, id)
}

func (s *TherapyProjectService) GetByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.TherapyProject, error) {
	return s.projects.GetByIDWithRelations(ctx, id)
}

// GetByPatientID lists the projects of one patient, failing when the
// patient itself does not exist.
func (s *TherapyProjectService) GetByPatientID(ctx context.Context, patientID uuid.UUID) ([]model.TherapyProject, error) {
	exists, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, repository.ErrPatientNotFound
	}
	return s.projects.GetByPatientID(ctx, patientID)
}

func (s *TherapyProjectService) GetByEducatorID(ctx context.Context, educatorID uuid.UUID) ([]model.TherapyProject, error) {
	return s.projects.GetByEducatorID(ctx, educatorID)
}

func (s *TherapyProjectService) GetByStatus(ctx context.Context, status model.ProjectStatus) ([]model.TherapyProject, error) {
	if !status.IsValid() {
		return nil, &ValidationError{Fields: []FieldError{{
			Field:   "Status",
			Message: fmt.Sprintf("invalid status %q, valid values: %v", status, model.ValidProjectStatuses()),
		}}}
	}
	return s.projects.GetByStatus(ctx, status)
}

func (s *TherapyProjectService) Search(ctx context.Context, term string) ([]model.TherapyProject, error) {
	return s.projects.Search(ctx, term)
}

func (s *TherapyProjectService) Add(ctx context.Context, project *model.TherapyProject) error {
	if err := s.Validate(project); err != nil {
		return err
	}

	exists, err := s.patients.Exists(ctx, project.PatientID)
	if err != nil {
		return err
	}
	if !exists {
		return repository.ErrPatientNotFound
	}

	if err := s.projects.Add(ctx, project); err != nil {
		return err
	}
	s.log.Info().
		Stringer("project_id", project.ID).
		Stringer("patient_id", project.PatientID).
		Msg("therapy project created")
	return nil
}

func (s *TherapyProjectService) Update(ctx context.Context, project *model.TherapyProject) error {
	exists, err := s.projects.Exists(ctx, project.ID)
	if err != nil {
		return err
	}
	if !exists {
		return repository.ErrProjectNotFound
	}

	if err := s.Validate(project); err != nil {
		return err
	}

	patientExists, err := s.patients.Exists(ctx, project.PatientID)
	if err != nil {
		return err
	}
	if !patientExists {
		return repository.ErrPatientNotFound
	}

	if err := s.projects.Update(ctx, project); err != nil {
		return err
	}
	s.log.Info().Stringer("project_id", project.ID).Msg("therapy project updated")
	return nil
}

func (s *TherapyProjectService) Delete(ctx context.Context, id uuid.UUID) error {
	deleted, err := s.projects.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return repository.ErrProjectNotFound
	}
	s.log.Info().Stringer("project_id", id).Msg("therapy project deleted")
	return nil
}

func (s *TherapyProjectService) AssignEducator(ctx context.Context, projectID, educatorID uuid.UUID) error {
	return s.projects.AssignEducator(ctx, projectID, educatorID)
}

func (s *TherapyProjectService) RemoveEducator(ctx context.Context, projectID, educatorID uuid.UUID) error {
	return s.projects.RemoveEducator(ctx, projectID, educatorID)
}

// Validate collects every violated rule into one ValidationError.
//
// Date rules: the end date may not precede the start date, and the start
// date may not lie more than a year in the future. An end date in the past
// is fine; projects can be recorded retrospectively.
func (s *TherapyProjectService) Validate(project *model.TherapyProject) error {
	fields := tagViolations(project)

	if project.StartDate.IsZero() {
		fields = append(fields, FieldError{Field: "StartDate", Message: "is required"})
	} else if project.StartDate.After(time.Now().Add(maxStartDateLead)) {
		fields = append(fields, FieldError{
			Field:   "StartDate",
			Message: "must not be more than one year in the future",
		})
	}

	if project.EndDate != nil && !project.StartDate.IsZero() && project.EndDate.Before(project.StartDate) {
		fields = append(fields, FieldError{
			Field:   "EndDate",
			Message: "must not precede the start date",
		})
	}

	if project.Status != "" && !project.Status.IsValid() {
		fields = append(fields, FieldError{
			Field:   "Status",
			Message: fmt.Sprintf("invalid status %q, valid values: %v", project.Status, model.ValidProjectStatuses()),
		})
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// CompleteProject moves a project to Completed. Requires an end date and
// fails on a project that is already completed.
func (s *TherapyProjectService) CompleteProject(ctx context.Context, projectID uuid.UUID) error {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return repository.ErrProjectNotFound
	}

	if project.Status == model.ProjectStatusCompleted {
		return fmt.Errorf("%w: project is already completed", ErrIllegalTransition)
	}
	if project.EndDate == nil {
		return fmt.Errorf("%w: cannot complete a project without an end date", ErrIllegalTransition)
	}

	project.Status = model.ProjectStatusCompleted
	if err := s.projects.Update(ctx, project); err != nil {
		return err
	}
	s.log.Info().Stringer("project_id", projectID).Msg("therapy project completed")
	return nil
}

// PutOnHold suspends a running project. Completed projects are terminal
// and cannot be reopened through the hold mechanism.
func (s *TherapyProjectService) PutOnHold(ctx context.Context, projectID uuid.UUID) error {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return repository.ErrProjectNotFound
	}

	if project.Status == model.ProjectStatusCompleted {
		return fmt.Errorf("%w: cannot put a completed project on hold", ErrIllegalTransition)
	}

	project.Status = model.ProjectStatusOnHold
	if err := s.projects.Update(ctx, project); err != nil {
		return err
	}
	s.log.Info().Stringer("project_id", projectID).Msg("therapy project put on hold")
	return nil
}

// ResumeProject returns an on-hold project to In Progress.
func (s *TherapyProjectService) ResumeProject(ctx context.Context, projectID uuid.UUID) error {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project == nil {
		return repository.ErrProjectNotFound
	}

	if project.Status != model.ProjectStatusOnHold {
		return fmt.Errorf("%w: cannot resume a project in status %q", ErrIllegalTransition, project.Status)
	}

	project.Status = model.ProjectStatusInProgress
	if err := s.projects.Update(ctx, project); err != nil {
		return err
	}
	s.log.Info().Stringer("project_id", projectID).Msg("therapy project resumed")
	return nil
}
