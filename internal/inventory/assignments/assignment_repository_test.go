package assignments

import (
	"context"
	"testing"
	"time"

	"github.com/RoDaGroJi/Molinos-Inventario-Back/internal/repository"
	custom_error "github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/errors"
	"github.com/RoDaGroJi/Molinos-Inventario-Back/pkg/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExecutor(t *testing.T) (repository.Executor, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return repository.NewRepository(db).Executor(), mock
}

var assignmentRowColumns = []string{
	"id", "employee_id", "asset_id", "site_id", "assigned_at", "retired_at", "handed_over_by",
	"note", "is_active", "created_by_id", "created_at", "updated_at",
}

func TestFindActiveAssignmentQuery(t *testing.T) {
	q, mock := newExecutor(t)

	at := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT "id", "employee_id", "asset_id", .* FROM "assignments" WHERE \(\("asset_id" = 2\) AND \("employee_id" = 1\) AND \("is_active" IS TRUE\)\)`).
		WillReturnRows(sqlmock.NewRows(assignmentRowColumns).
			AddRow(5, 1, 2, 3, at, nil, nil, "", true, nil, at, at))

	assignment, err := NewRepository().FindActiveAssignment(context.Background(), q, 1, 2)

	require.NoError(t, err)
	require.NotNil(t, assignment)
	assert.Equal(t, 5, assignment.ID)
	assert.True(t, assignment.Active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindActiveAssignmentNoMatch(t *testing.T) {
	q, mock := newExecutor(t)

	mock.ExpectQuery(`FROM "assignments" WHERE`).
		WillReturnRows(sqlmock.NewRows(assignmentRowColumns))

	assignment, err := NewRepository().FindActiveAssignment(context.Background(), q, 1, 2)

	require.NoError(t, err)
	assert.Nil(t, assignment)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertAssignmentActivePairViolation(t *testing.T) {
	q, mock := newExecutor(t)

	mock.ExpectQuery(`INSERT INTO "assignments" .* RETURNING "id", "created_at", "updated_at"`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "assignments_active_pair_key"})

	err := NewRepository().InsertAssignment(context.Background(), q, &models.Assignment{
		EmployeeID: 1,
		AssetID:    2,
		AssignedAt: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		Active:     true,
	})

	assert.True(t, custom_error.IsConflict(err), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateAssignmentActivePairViolation(t *testing.T) {
	q, mock := newExecutor(t)

	mock.ExpectQuery(`UPDATE "assignments" SET .* WHERE \("id" = 5\) RETURNING "updated_at"`).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "assignments_active_pair_key"})

	err := NewRepository().UpdateAssignment(context.Background(), q, &models.Assignment{ID: 5, EmployeeID: 1, AssetID: 2, Active: true})

	assert.True(t, custom_error.IsConflict(err), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAssignmentSerializationFailure(t *testing.T) {
	q, mock := newExecutor(t)

	mock.ExpectQuery(`FROM "assignments" WHERE \("id" = 5\)`).
		WillReturnError(&pq.Error{Code: "40001"})

	_, err := NewRepository().GetAssignment(context.Background(), q, 5)

	assert.True(t, custom_error.IsConflict(err), "got %v", err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAssignmentsFilters(t *testing.T) {
	q, mock := newExecutor(t)

	mock.ExpectQuery(`FROM "assignments" WHERE \(\("employee_id" = 1\) AND \("is_active" IS FALSE\)\) ORDER BY "id" DESC`).
		WillReturnRows(sqlmock.NewRows(assignmentRowColumns))

	employeeID := 1
	active := false
	rows, err := NewRepository().ListAssignments(context.Background(), q, models.AssignmentFilter{EmployeeID: &employeeID, Active: &active})

	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
