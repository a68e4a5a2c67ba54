package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dormhub/facility-service/internal/config"
	"github.com/dormhub/facility-service/internal/domain"
	apperrors "github.com/dormhub/facility-service/pkg/util"
)

func newRosterServiceForTest(staff *fakeStaffRepo, categories *fakeCategoryRepo) *RosterService {
	cfg := config.Config{}
	cfg.Auth.BcryptCost = 4 // keep hashing fast in tests
	return NewRosterService(cfg, RosterDependencies{
		StaffRepo:    staff,
		CategoryRepo: categories,
	})
}

func TestCreateStaff(t *testing.T) {
	svc := newRosterServiceForTest(newFakeStaffRepo(), newFakeCategoryRepo())

	staff, err := svc.CreateStaff(context.Background(), admin("admin-1"), StaffCreateInput{
		Name:     "Sam",
		Email:    "sam@dorm.test",
		Password: "hunter2hunter2",
		Role:     domain.StaffRoleWorker,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, staff.ID)
	assert.True(t, staff.Active)
	assert.NotEqual(t, "hunter2hunter2", staff.PasswordHash)
}

func TestCreateStaffRequiresAdmin(t *testing.T) {
	svc := newRosterServiceForTest(newFakeStaffRepo(), newFakeCategoryRepo())

	_, err := svc.CreateStaff(context.Background(), worker("staff-1"), StaffCreateInput{
		Name: "Sam", Email: "sam@dorm.test", Password: "pw", Role: domain.StaffRoleWorker,
	})
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"), "got %v", err)
}

func TestCreateStaffDuplicateEmail(t *testing.T) {
	svc := newRosterServiceForTest(newFakeStaffRepo(
		domain.StaffMember{ID: "staff-1", Email: "sam@dorm.test", Role: domain.StaffRoleWorker, Active: true},
	), newFakeCategoryRepo())

	_, err := svc.CreateStaff(context.Background(), admin("admin-1"), StaffCreateInput{
		Name: "Sam", Email: "sam@dorm.test", Password: "pw", Role: domain.StaffRoleWorker,
	})
	assert.True(t, apperrors.IsCode(err, "CONFLICT"), "got %v", err)
}

func TestCreateStaffUnknownRole(t *testing.T) {
	svc := newRosterServiceForTest(newFakeStaffRepo(), newFakeCategoryRepo())

	_, err := svc.CreateStaff(context.Background(), admin("admin-1"), StaffCreateInput{
		Name: "Sam", Email: "sam@dorm.test", Password: "pw", Role: "JANITOR",
	})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"), "got %v", err)
}

func TestCreateCategory(t *testing.T) {
	svc := newRosterServiceForTest(newFakeStaffRepo(), newFakeCategoryRepo())
	ctx := context.Background()

	category, err := svc.CreateCategory(ctx, admin("admin-1"), domain.TicketKindRequest, "  Plumbing  ", "wrench")
	require.NoError(t, err)
	assert.Equal(t, "Plumbing", category.Name)
	assert.True(t, category.IsActive)

	_, err = svc.CreateCategory(ctx, worker("staff-1"), domain.TicketKindRequest, "Electrical", "zap")
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"), "got %v", err)

	_, err = svc.CreateCategory(ctx, admin("admin-1"), "OTHER", "Electrical", "zap")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"), "got %v", err)
}

func TestListCategoriesFiltersByKind(t *testing.T) {
	svc := newRosterServiceForTest(newFakeStaffRepo(), plumbingTaxonomy())
	ctx := context.Background()

	requestCategories, err := svc.ListCategories(ctx, domain.TicketKindRequest)
	require.NoError(t, err)
	require.Len(t, requestCategories, 1)
	assert.Equal(t, "Plumbing", requestCategories[0].Name)

	complaintCategories, err := svc.ListCategories(ctx, domain.TicketKindComplaint)
	require.NoError(t, err)
	require.Len(t, complaintCategories, 1)
	assert.Equal(t, "Noise", complaintCategories[0].Name)

	_, err = svc.ListCategories(ctx, "OTHER")
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"), "got %v", err)
}

func TestDeactivatedCategoryLeavesTaxonomy(t *testing.T) {
	categories := plumbingTaxonomy()
	svc := newRosterServiceForTest(newFakeStaffRepo(), categories)
	ctx := context.Background()

	category, err := svc.GetCategoryByID(ctx, "cat-1")
	require.NoError(t, err)
	category.IsActive = false
	_, err = svc.UpdateCategory(ctx, admin("admin-1"), category)
	require.NoError(t, err)

	remaining, err := svc.ListCategories(ctx, domain.TicketKindRequest)
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
