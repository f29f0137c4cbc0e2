package service

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ptrp-app/therapy-core/internal/model"
	"github.com/ptrp-app/therapy-core/internal/repository"
)

type testEnv struct {
	db        *gorm.DB
	patients  *PatientService
	projects  *TherapyProjectService
	educators *EducatorService
	config    *ConfigurationService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, model.AutoMigrate(db))

	log := zerolog.Nop()
	patientRepo := repository.NewGormPatientRepository(db)
	projectRepo := repository.NewGormTherapyProjectRepository(db)
	educatorRepo := repository.NewGormEducatorRepository(db)

	educators := NewEducatorService(educatorRepo, log)
	return &testEnv{
		db:        db,
		patients:  NewPatientService(patientRepo, log),
		projects:  NewTherapyProjectService(projectRepo, patientRepo, log),
		educators: educators,
		config:    NewConfigurationService(db, educators, log),
	}
}

func validEducator(email string) *model.ProfessionalEducator {
	return &model.ProfessionalEducator{
		FirstName:      "Paola",
		LastName:       "Neri",
		Email:          email,
		PhoneNumber:    "+39 010 000000",
		DateOfBirth:    time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC),
		Specialization: "Psychologist",
		LicenseNumber:  "LIC-0001",
		HireDate:       time.Date(2020, 9, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (e *testEnv) addPatient(t *testing.T, first, last string) *model.Patient {
	t.Helper()

	p := &model.Patient{FirstName: first, LastName: last}
	require.NoError(t, e.patients.Add(t.Context(), p))
	return p
}

func (e *testEnv) addProject(t *testing.T, patient *model.Patient, title string, end *time.Time) *model.TherapyProject {
	t.Helper()

	tp := &model.TherapyProject{
		PatientID: patient.ID,
		Title:     title,
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   end,
	}
	require.NoError(t, e.projects.Add(t.Context(), tp))
	return tp
}

func fieldNames(t *testing.T, err error) []string {
	t.Helper()

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	names := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		names = append(names, f.Field)
	}
	return names
}
