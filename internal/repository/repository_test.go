package repository

import (
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/ptrp-app/therapy-core/internal/model"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := model.AutoMigrate(db); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}
	return db
}

func seedPatient(t *testing.T, db *gorm.DB, first, last string) *model.Patient {
	t.Helper()

	p := &model.Patient{FirstName: first, LastName: last}
	if err := NewGormPatientRepository(db).Add(t.Context(), p); err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	return p
}

func seedProject(t *testing.T, db *gorm.DB, patient *model.Patient, title string) *model.TherapyProject {
	t.Helper()

	tp := &model.TherapyProject{
		PatientID: patient.ID,
		Title:     title,
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := NewGormTherapyProjectRepository(db).Add(t.Context(), tp); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return tp
}

func seedEducator(t *testing.T, db *gorm.DB, first, last, email string) *model.ProfessionalEducator {
	t.Helper()

	e := &model.ProfessionalEducator{
		FirstName:      first,
		LastName:       last,
		Email:          email,
		PhoneNumber:    "+39 010 000000",
		DateOfBirth:    time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC),
		Specialization: "Psychologist",
		LicenseNumber:  "LIC-0001",
		HireDate:       time.Date(2020, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := NewGormEducatorRepository(db).Add(t.Context(), e); err != nil {
		t.Fatalf("seed educator: %v", err)
	}
	return e
}

func countJoinRows(t *testing.T, db *gorm.DB) int64 {
	t.Helper()

	var count int64
	if err := db.Table("project_educators").Count(&count).Error; err != nil {
		t.Fatalf("count join rows: %v", err)
	}
	return count
}
