package service

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptrp-app/therapy-core/internal/model"
	"github.com/ptrp-app/therapy-core/internal/repository"
)

func TestEducatorService_Add_Defaults(t *testing.T) {
	env := newTestEnv(t)

	e := validEducator("paola.neri@example.com")
	require.NoError(t, env.educators.Add(t.Context(), e))

	got, err := env.educators.GetByID(t.Context(), e.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EducatorStatusActive, got.Status)
	assert.Nil(t, got.UpdatedAt)
}

func TestEducatorService_Add_AggregatesViolations(t *testing.T) {
	env := newTestEnv(t)

	e := &model.ProfessionalEducator{
		FirstName:      "",
		LastName:       strings.Repeat("x", 101),
		Email:          "not-an-address",
		PhoneNumber:    "+39 010 000000",
		Specialization: "Psychologist",
		LicenseNumber:  "LIC-0002",
		DateOfBirth:    time.Now().Add(24 * time.Hour),
		HireDate:       time.Now().Add(3 * 365 * 24 * time.Hour),
	}
	err := env.educators.Add(t.Context(), e)

	names := fieldNames(t, err)
	assert.ElementsMatch(t,
		[]string{"FirstName", "LastName", "Email", "DateOfBirth", "HireDate"},
		names)
}

func TestEducatorService_Validate_AgeBounds(t *testing.T) {
	env := newTestEnv(t)

	e := validEducator("young@example.com")
	e.DateOfBirth = time.Now().AddDate(-17, 0, 0)
	assert.Contains(t, fieldNames(t, env.educators.Validate(e)), "DateOfBirth")

	e.DateOfBirth = time.Now().AddDate(-101, 0, 0)
	assert.Contains(t, fieldNames(t, env.educators.Validate(e)), "DateOfBirth")

	e.DateOfBirth = time.Now().AddDate(-18, -1, 0)
	assert.NoError(t, env.educators.Validate(e))
}

func TestEducatorService_Add_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)

	require.NoError(t, env.educators.Add(t.Context(), validEducator("paola.neri@example.com")))

	err := env.educators.Add(t.Context(), validEducator("paola.neri@example.com"))
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestEducatorService_Update_EmailUniqueness(t *testing.T) {
	env := newTestEnv(t)

	a := validEducator("a@example.com")
	b := validEducator("b@example.com")
	require.NoError(t, env.educators.Add(t.Context(), a))
	require.NoError(t, env.educators.Add(t.Context(), b))

	// Keeping your own address is not a conflict.
	a.PhoneNumber = "+39 010 111111"
	require.NoError(t, env.educators.Update(t.Context(), a))

	// Taking someone else's is.
	a.Email = "b@example.com"
	err := env.educators.Update(t.Context(), a)
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestEducatorService_Update_Missing(t *testing.T) {
	env := newTestEnv(t)

	e := validEducator("ghost@example.com")
	e.ID = uuid.New()
	err := env.educators.Update(t.Context(), e)
	assert.ErrorIs(t, err, repository.ErrEducatorNotFound)
}

func TestEducatorService_StatusToggles(t *testing.T) {
	env := newTestEnv(t)

	e := validEducator("paola.neri@example.com")
	require.NoError(t, env.educators.Add(t.Context(), e))

	// Activating an already active educator is an error, not a no-op.
	err := env.educators.Activate(t.Context(), e.ID)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	require.NoError(t, env.educators.Deactivate(t.Context(), e.ID))
	got, _ := env.educators.GetByID(t.Context(), e.ID)
	assert.Equal(t, model.EducatorStatusInactive, got.Status)

	err = env.educators.Deactivate(t.Context(), e.ID)
	assert.ErrorIs(t, err, ErrIllegalTransition)

	require.NoError(t, env.educators.SetOnLeave(t.Context(), e.ID))
	require.NoError(t, env.educators.Activate(t.Context(), e.ID))
	got, _ = env.educators.GetByID(t.Context(), e.ID)
	assert.Equal(t, model.EducatorStatusActive, got.Status)
}

func TestEducatorService_StatusToggles_Missing(t *testing.T) {
	env := newTestEnv(t)

	err := env.educators.Deactivate(t.Context(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrEducatorNotFound)
}

func TestEducatorService_GetBySpecialization_RejectsBlank(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.educators.GetBySpecialization(t.Context(), "   ")
	assert.True(t, IsValidation(err))
}

func TestEducatorService_GetByStatus_RejectsUnknown(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.educators.GetByStatus(t.Context(), "Retired")
	assert.True(t, IsValidation(err))
}

func TestEducatorService_AvailableSpecializations(t *testing.T) {
	env := newTestEnv(t)

	a := validEducator("a@example.com")
	a.Specialization = "Psychologist"
	b := validEducator("b@example.com")
	b.Specialization = "Speech Therapist"
	c := validEducator("c@example.com")
	c.Specialization = "Psychologist"
	for _, e := range []*model.ProfessionalEducator{a, b, c} {
		require.NoError(t, env.educators.Add(t.Context(), e))
	}

	specs, err := env.educators.AvailableSpecializations(t.Context())
	require.NoError(t, err)
	assert.Equal(t, []string{"Psychologist", "Speech Therapist"}, specs)
}

func TestEducatorService_GetActiveEducators(t *testing.T) {
	env := newTestEnv(t)

	a := validEducator("a@example.com")
	b := validEducator("b@example.com")
	require.NoError(t, env.educators.Add(t.Context(), a))
	require.NoError(t, env.educators.Add(t.Context(), b))
	require.NoError(t, env.educators.Deactivate(t.Context(), b.ID))

	active, err := env.educators.GetActiveEducators(t.Context())
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, a.ID, active[0].ID)
}
