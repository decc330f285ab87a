package tasks

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/CS-Kiran/Manana/internal/common"
	"github.com/CS-Kiran/Manana/internal/server/models"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const insertQ = `(?s)^INSERT\s+INTO\s+tasks\s*\(id,\s*user_id,\s*title,\s*description,\s*status,\s*priority,\s*due_date,\s*tags\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3,\s*\$4,\s*\$5,\s*\$6,\s*\$7,\s*\$8\)\s*RETURNING\s+created_at,\s*updated_at\s*$`

func TestInsert_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now)
	mock.ExpectQuery(insertQ).
		WithArgs(sqlmock.AnyArg(), "u-1", "Write report", "", models.StatusTodo, models.PriorityHigh, nil, []byte(`[]`)).
		WillReturnRows(rows)

	task := &models.Task{
		UserID:   "u-1",
		Title:    "Write report",
		Status:   models.StatusTodo,
		Priority: models.PriorityHigh,
	}

	got, err := repo.Insert(context.Background(), task)
	if err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if got.ID == "" || !got.CreatedAt.Equal(now) || !got.UpdatedAt.Equal(now) {
		t.Fatalf("unexpected task: %+v", got)
	}
	if _, err := uuid.Parse(got.ID); err != nil {
		t.Fatalf("id is not a uuid: %q", got.ID)
	}
}

const selectAllQ = `(?s)^SELECT\s+.*\s+FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC\s*$`

func TestFindAllByOwner_ScansTags(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "description", "status", "priority", "due_date", "tags", "created_at", "updated_at"}).
		AddRow("t-2", "u-1", "B", "", "todo", "low", nil, []byte(`["a","b"]`), now, now).
		AddRow("t-1", "u-1", "A", "desc", "completed", "high", now, []byte(`[]`), now.Add(-time.Hour), now)
	mock.ExpectQuery(selectAllQ).WithArgs("u-1").WillReturnRows(rows)

	got, err := repo.FindAllByOwner(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("FindAllByOwner error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("want 2 tasks, got %d", len(got))
	}
	if got[0].Tags[0] != "a" || got[0].Tags[1] != "b" {
		t.Fatalf("tags not decoded: %+v", got[0].Tags)
	}
	if len(got[1].Tags) != 0 {
		t.Fatalf("want empty tags, got %+v", got[1].Tags)
	}
}

func TestFindAllByOwner_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "description", "status", "priority", "due_date", "tags", "created_at", "updated_at"})
	mock.ExpectQuery(selectAllQ).WithArgs("u-1").WillReturnRows(rows)

	got, err := repo.FindAllByOwner(context.Background(), "u-1")
	if err != nil {
		t.Fatalf("FindAllByOwner error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("want empty non-nil slice, got %#v", got)
	}
}

const selectOneQ = `(?s)^SELECT\s+.*\s+FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+id\s*=\s*\$2\s*$`

func TestFindOneByOwnerAndID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectOneQ).
		WithArgs("u-2", "t-1").
		WillReturnError(sql.ErrNoRows)

	// Task t-1 exists but belongs to u-1: the repo reports plain not-found.
	_, err := repo.FindOneByOwnerAndID(context.Background(), "u-2", "t-1")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

const updateQ = `(?s)^UPDATE\s+tasks\s+SET\s+title\s*=\s*\$1,\s*description\s*=\s*\$2,\s*status\s*=\s*\$3,\s*priority\s*=\s*\$4,\s*due_date\s*=\s*\$5,\s*tags\s*=\s*\$6,\s*updated_at\s*=\s*now\(\)\s+WHERE\s+user_id\s*=\s*\$7\s+AND\s+id\s*=\s*\$8\s+RETURNING\s+updated_at\s*$`

func TestUpdateByOwnerAndID_StampsUpdatedAt(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	stamped := time.Now()
	rows := sqlmock.NewRows([]string{"updated_at"}).AddRow(stamped)
	mock.ExpectQuery(updateQ).
		WithArgs("Write report", "", models.StatusCompleted, models.PriorityHigh, nil, []byte(`[]`), "u-1", "t-1").
		WillReturnRows(rows)

	task := &models.Task{
		ID: "t-1", UserID: "u-1", Title: "Write report",
		Status: models.StatusCompleted, Priority: models.PriorityHigh,
	}
	got, err := repo.UpdateByOwnerAndID(context.Background(), task)
	if err != nil {
		t.Fatalf("UpdateByOwnerAndID error: %v", err)
	}
	if !got.UpdatedAt.Equal(stamped) {
		t.Fatalf("updated_at not stamped: %+v", got)
	}
}

func TestUpdateByOwnerAndID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(updateQ).
		WithArgs("X", "", models.StatusTodo, models.PriorityLow, nil, []byte(`[]`), "u-2", "t-1").
		WillReturnError(sql.ErrNoRows)

	task := &models.Task{ID: "t-1", UserID: "u-2", Title: "X", Status: models.StatusTodo, Priority: models.PriorityLow}
	_, err := repo.UpdateByOwnerAndID(context.Background(), task)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

const deleteQ = `(?s)^DELETE\s+FROM\s+tasks\s+WHERE\s+user_id\s*=\s*\$1\s+AND\s+id\s*=\s*\$2\s*$`

func TestDeleteByOwnerAndID_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQ).
		WithArgs("u-1", "t-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteByOwnerAndID(context.Background(), "u-1", "t-1"); err != nil {
		t.Fatalf("DeleteByOwnerAndID error: %v", err)
	}
}

func TestDeleteByOwnerAndID_ForeignOwnerHidden(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(deleteQ).
		WithArgs("u-2", "t-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteByOwnerAndID(context.Background(), "u-2", "t-1")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestInsert_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertQ).
		WithArgs(sqlmock.AnyArg(), "u-1", "X", "", models.StatusTodo, models.PriorityMedium, nil, []byte(`[]`)).
		WillReturnError(errors.New("db down"))

	task := &models.Task{UserID: "u-1", Title: "X", Status: models.StatusTodo, Priority: models.PriorityMedium}
	_, err := repo.Insert(context.Background(), task)
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}
