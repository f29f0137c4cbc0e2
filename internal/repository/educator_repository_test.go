package repository

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/ptrp-app/therapy-core/internal/model"
)

func TestEducatorRepository_Add_Defaults(t *testing.T) {
	db := newTestDB(t)

	e := seedEducator(t, db, "Paola", "Neri", "paola.neri@example.com")
	if e.Status != model.EducatorStatusActive {
		t.Fatalf("expected default status Active, got %q", e.Status)
	}
	if e.Role != model.EducatorRoleEducator {
		t.Fatalf("expected default role Educator, got %q", e.Role)
	}
	if e.UpdatedAt != nil {
		t.Fatalf("UpdatedAt must be nil before first update")
	}
}

func TestEducatorRepository_Add_DuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormEducatorRepository(db)

	existing := seedEducator(t, db, "Paola", "Neri", "a@x.com")

	dup := &model.ProfessionalEducator{
		FirstName:      "Carla",
		LastName:       "Bruni",
		Email:          "a@x.com",
		PhoneNumber:    "+39 010 111111",
		DateOfBirth:    existing.DateOfBirth,
		Specialization: "Speech therapist",
		LicenseNumber:  "LIC-0002",
		HireDate:       existing.HireDate,
	}
	if err := repo.Add(t.Context(), dup); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestEducatorRepository_Update_EmailUniqueness(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormEducatorRepository(db)

	first := seedEducator(t, db, "Paola", "Neri", "a@x.com")
	second := seedEducator(t, db, "Carla", "Bruni", "b@x.com")
	seedEducator(t, db, "Nina", "Riva", "c@x.com")

	// Keeping one's own email is not a conflict.
	first.PhoneNumber = "+39 010 999999"
	if err := repo.Update(t.Context(), first); err != nil {
		t.Fatalf("update with own email: %v", err)
	}

	// Taking a different educator's email is.
	second.Email = "c@x.com"
	if err := repo.Update(t.Context(), second); !errors.Is(err, ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}

	missing := &model.ProfessionalEducator{ID: uuid.New(), Email: "z@x.com"}
	if err := repo.Update(t.Context(), missing); !errors.Is(err, ErrEducatorNotFound) {
		t.Fatalf("expected ErrEducatorNotFound, got %v", err)
	}
}

func TestEducatorRepository_EmailExists(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormEducatorRepository(db)

	e := seedEducator(t, db, "Paola", "Neri", "a@x.com")

	ok, err := repo.EmailExists(t.Context(), "a@x.com", nil)
	if err != nil || !ok {
		t.Fatalf("expected email to exist, ok=%v err=%v", ok, err)
	}
	ok, err = repo.EmailExists(t.Context(), "a@x.com", &e.ID)
	if err != nil || ok {
		t.Fatalf("excluding self must report false, ok=%v err=%v", ok, err)
	}
	ok, err = repo.EmailExists(t.Context(), "  ", nil)
	if err != nil || ok {
		t.Fatalf("blank email must report false, ok=%v err=%v", ok, err)
	}
}

func TestEducatorRepository_Search(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormEducatorRepository(db)

	seedEducator(t, db, "Paola", "Neri", "paola.neri@example.com")
	seedEducator(t, db, "Carla", "Bruni", "carla.bruni@example.com")

	byEmail, err := repo.Search(t.Context(), "bruni@EXAMPLE")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(byEmail) != 1 || byEmail[0].LastName != "Bruni" {
		t.Fatalf("expected email match, got %+v", byEmail)
	}

	// Blank terms fall back to the full listing, like the other
	// repositories.
	all, err := repo.Search(t.Context(), "")
	if err != nil {
		t.Fatalf("search blank: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected all educators for blank term, got %d", len(all))
	}
}

func TestEducatorRepository_UniqueSpecializations(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormEducatorRepository(db)

	seedEducator(t, db, "Paola", "Neri", "a@x.com")
	b := seedEducator(t, db, "Carla", "Bruni", "b@x.com")
	seedEducator(t, db, "Nina", "Riva", "c@x.com")

	b.Specialization = "Speech therapist"
	if err := repo.Update(t.Context(), b); err != nil {
		t.Fatalf("update: %v", err)
	}

	specs, err := repo.UniqueSpecializations(t.Context())
	if err != nil {
		t.Fatalf("unique specializations: %v", err)
	}
	want := []string{"Psychologist", "Speech therapist"}
	if len(specs) != len(want) {
		t.Fatalf("expected %v, got %v", want, specs)
	}
	for i := range want {
		if specs[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, specs)
		}
	}
}

func TestEducatorRepository_GetByProjectID(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormEducatorRepository(db)
	projectRepo := NewGormTherapyProjectRepository(db)

	p := seedPatient(t, db, "Mario", "Rossi")
	tp := seedProject(t, db, p, "PTRP 2025")
	e := seedEducator(t, db, "Paola", "Neri", "a@x.com")
	seedEducator(t, db, "Carla", "Bruni", "b@x.com")

	if err := projectRepo.AssignEducator(t.Context(), tp.ID, e.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	got, err := repo.GetByProjectID(t.Context(), tp.ID)
	if err != nil {
		t.Fatalf("get by project id: %v", err)
	}
	if len(got) != 1 || got[0].ID != e.ID {
		t.Fatalf("expected only the assigned educator, got %+v", got)
	}
}

func TestEducatorRepository_Delete_ClearsAssignments(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormEducatorRepository(db)
	projectRepo := NewGormTherapyProjectRepository(db)

	p := seedPatient(t, db, "Mario", "Rossi")
	tp := seedProject(t, db, p, "PTRP 2025")
	e := seedEducator(t, db, "Paola", "Neri", "a@x.com")

	if err := projectRepo.AssignEducator(t.Context(), tp.ID, e.ID); err != nil {
		t.Fatalf("assign: %v", err)
	}

	deleted, err := repo.Delete(t.Context(), e.ID)
	if err != nil || !deleted {
		t.Fatalf("delete: deleted=%v err=%v", deleted, err)
	}
	if n := countJoinRows(t, db); n != 0 {
		t.Fatalf("expected assignments cleared, got %d", n)
	}

	// The project survives the educator's removal.
	if got, _ := projectRepo.GetByID(t.Context(), tp.ID); got == nil {
		t.Fatalf("project must not be deleted with the educator")
	}

	deleted, err = repo.Delete(t.Context(), uuid.New())
	if err != nil || deleted {
		t.Fatalf("expected false for missing educator, deleted=%v err=%v", deleted, err)
	}
}

func TestEducatorRepository_FindCurrentUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormEducatorRepository(db)

	got, err := repo.FindCurrentUser(t.Context())
	if err != nil {
		t.Fatalf("find current user: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil before profile setup")
	}

	e := seedEducator(t, db, "Paola", "Neri", "a@x.com")
	e.IsCurrentUser = true
	if err := repo.Update(t.Context(), e); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err = repo.FindCurrentUser(t.Context())
	if err != nil {
		t.Fatalf("find current user: %v", err)
	}
	if got == nil || got.ID != e.ID {
		t.Fatalf("expected the flagged educator, got %+v", got)
	}
}
