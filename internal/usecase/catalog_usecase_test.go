package usecase

import (
	"context"
	"testing"

	"clinic-scheduling/internal/delivery/dto"
	"clinic-scheduling/internal/domain/entity"
	"clinic-scheduling/internal/repository"
	"clinic-scheduling/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDefaults_IsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	statuses := NewAppointmentStatusUsecase(db, newTestLogger(), repository.NewAppointmentStatusRepository(), repository.NewAppointmentRepository())
	ctx := context.Background()

	require.NoError(t, statuses.EnsureDefaults(ctx))
	require.NoError(t, statuses.EnsureDefaults(ctx))

	list, err := statuses.ListActive(ctx)
	require.NoError(t, err)
	require.Equal(t, len(entity.DefaultStatuses), list.Total)

	codes := make([]string, 0, list.Total)
	for _, s := range list.Statuses {
		codes = append(codes, s.Code)
	}
	assert.ElementsMatch(t, []string{"SCHEDULED", "IN_PROGRESS", "COMPLETED", "CANCELED"}, codes)

	stored, err := repository.NewAppointmentStatusRepository().FindByCode(db, entity.StatusCodeScheduled)
	require.NoError(t, err)
	assert.Equal(t, entity.SystemAuditor, stored.CreatedBy)
	assert.Equal(t, "Appointment scheduled", stored.Description)
}

func TestStatusCatalog_LookupUnknownIsNotFound(t *testing.T) {
	c := newClinic(t)

	_, err := c.statuses.Lookup(context.Background(), "NO_SHOW")
	assert.ErrorIs(t, err, ErrStatusNotFound)

	got, err := c.statuses.Lookup(context.Background(), " completed ")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusCodeCompleted, got.Code)
}

func TestStatusCatalog_CreateAndDeleteCustomCode(t *testing.T) {
	c := newClinic(t)
	ctx := context.Background()

	_, err := c.statuses.Create(ctx, c.receptionist, &dto.CreateStatusRequest{Code: "NO_SHOW", Description: "Patient did not attend"})
	assert.ErrorIs(t, err, ErrAdminOnly)

	created, err := c.statuses.Create(ctx, c.admin, &dto.CreateStatusRequest{Code: "no_show", Description: "Patient did not attend"})
	require.NoError(t, err)
	assert.Equal(t, "NO_SHOW", created.Code)

	_, err = c.statuses.Create(ctx, c.admin, &dto.CreateStatusRequest{Code: "NO_SHOW", Description: "again"})
	assert.ErrorIs(t, err, ErrStatusCodeExists)

	require.NoError(t, c.statuses.Delete(ctx, c.admin, "NO_SHOW"))

	_, err = c.statuses.Lookup(ctx, "NO_SHOW")
	assert.ErrorIs(t, err, ErrStatusNotFound)
	assert.ErrorIs(t, c.statuses.Delete(ctx, c.admin, "NO_SHOW"), ErrStatusNotFound)
}

func TestStatusCatalog_DeleteGuards(t *testing.T) {
	c := newClinic(t)
	ctx := context.Background()

	assert.ErrorIs(t, c.statuses.Delete(ctx, c.admin, entity.StatusCodeCanceled), ErrBuiltinStatus)
	assert.ErrorIs(t, c.statuses.Delete(ctx, c.grey, "ANY"), ErrAdminOnly)

	_, err := c.statuses.Create(ctx, c.admin, &dto.CreateStatusRequest{Code: "NO_SHOW", Description: "Patient did not attend"})
	require.NoError(t, err)
	a := c.book(t, c.grey, tomorrow())
	_, err = c.appointments.Update(ctx, c.admin, a.ID, &dto.UpdateAppointmentRequest{StatusCode: "NO_SHOW"})
	require.NoError(t, err)

	assert.ErrorIs(t, c.statuses.Delete(ctx, c.admin, "NO_SHOW"), ErrStatusInUse)
}

func TestSpecialtyUsecase_CreateAndList(t *testing.T) {
	db := testutil.NewDB(t)
	admin := testutil.Admin(db, t)
	specialties := NewSpecialtyUsecase(db, newTestLogger(), repository.NewSpecialtyRepository())
	ctx := context.Background()

	created, err := specialties.Create(ctx, admin, &dto.CreateSpecialtyRequest{Code: "derm", Name: " Dermatology "})
	require.NoError(t, err)
	assert.Equal(t, "DERM", created.Code)
	assert.Equal(t, "Dermatology", created.Name)

	_, err = specialties.Create(ctx, admin, &dto.CreateSpecialtyRequest{Code: "DERM", Name: "Skin"})
	assert.ErrorIs(t, err, ErrSpecialtyCodeExists)

	doctor := testutil.AsActor(testutil.SeedUser(db, t, "Dr. Grey", "grey@clinic.test", entity.RoleDoctor))
	_, err = specialties.Create(ctx, doctor, &dto.CreateSpecialtyRequest{Code: "PED", Name: "Pediatrics"})
	assert.ErrorIs(t, err, ErrAdminOnly)

	list, err := specialties.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)
}
