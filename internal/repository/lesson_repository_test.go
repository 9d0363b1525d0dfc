package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/planlabs/planner-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func lessonRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "lesson_date", "start_time", "end_time", "teacher_id", "group_id", "classroom_id",
		"subject", "teacher_name", "group_name", "classroom_name", "created_at", "updated_at",
	})
}

func TestLessonRepositoryListBetween(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	from := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 9, 6, 0, 0, 0, 0, time.UTC)

	rows := lessonRows().
		AddRow("lesson-1", from, "09:00", "09:45", "teacher-1", "group-10", "room-5", "Mathematics", "A. Sari", "X IPA 1", "Lab 5", time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, lesson_date, start_time, end_time, teacher_id, group_id, classroom_id, subject, teacher_name, group_name, classroom_name, created_at, updated_at FROM lessons WHERE lesson_date >= $1 AND lesson_date <= $2 ORDER BY lesson_date ASC, start_time ASC")).
		WithArgs(from, to).
		WillReturnRows(rows)

	lessons, err := repo.ListBetween(context.Background(), from, to)
	require.NoError(t, err)
	require.Len(t, lessons, 1)
	assert.Equal(t, "lesson-1", lessons[0].ID)
	assert.Equal(t, "09:00", lessons[0].StartTime)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryListWithFilter(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectQuery("SELECT id, .+ FROM lessons WHERE 1=1 AND teacher_id = \\$1 ORDER BY lesson_date ASC, start_time ASC LIMIT 50 OFFSET 0").
		WithArgs("teacher-1").
		WillReturnRows(lessonRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM lessons WHERE 1=1 AND teacher_id = $1")).
		WithArgs("teacher-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	lessons, total, err := repo.List(context.Background(), models.LessonFilter{TeacherID: "teacher-1"})
	require.NoError(t, err)
	assert.Empty(t, lessons)
	assert.Zero(t, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO lessons")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	lesson := &models.Lesson{
		Date:      time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		EndTime:   "09:45",
		TeacherID: "teacher-1",
		GroupID:   "group-10",
		Subject:   "Mathematics",
	}
	require.NoError(t, repo.Create(context.Background(), lesson))
	assert.NotEmpty(t, lesson.ID)
	assert.False(t, lesson.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryUpdateNoRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE lessons SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	lesson := &models.Lesson{ID: "missing", Date: time.Now(), StartTime: "09:00", EndTime: "09:45", TeacherID: "t", GroupID: "g"}
	require.Error(t, repo.Update(context.Background(), lesson))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLessonRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM lessons WHERE id = $1")).
		WithArgs("lesson-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "lesson-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}
