package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/transcript"
)

var studentResultsOrdering = []core.DBOrdering{
	{Field: "sem.start_date", Ascending: true},
	{Field: "sem.name", Ascending: true},
	{Field: "sub.code", Ascending: true},
}

type transcriptSource struct {
	*catalogRepository
}

var _ transcript.Source = (*transcriptSource)(nil) // interface compliance check

func NewTranscriptSource(db *sqlx.DB) transcript.Source {
	return &transcriptSource{catalogRepository: &catalogRepository{db: db, sb: statementBuilder(db)}}
}

func (src *transcriptSource) ListStudentResults(ctx context.Context, studentID, semesterID string) ([]transcript.Row, error) {
	q := src.sb.Select(
		"sem.id AS semester_id",
		"sem.name AS semester_name",
		"sem.start_date AS semester_start",
		"sem.end_date AS semester_end",
		"sem.is_current AS semester_is_current",
		"sub.id AS subject_id",
		"sub.code AS subject_code",
		"sub.name AS subject_name",
		"sub.credit_hours",
		"r.id AS result_id",
		"r.exam_type",
		"r.total_marks",
		"r.obtained_marks",
		"r.gpa",
		"r.grade_letter",
		"r.remarks",
	).
		From("results r").
		Join("enrollments e ON e.id = r.enrollment_id").
		Join("subjects sub ON sub.id = e.subject_id").
		Join("semesters sem ON sem.id = e.semester_id").
		Where(sq.Eq{"e.student_id": studentID}).
		OrderBy(orderBy(studentResultsOrdering)...)
	if semesterID != "" {
		q = q.Where(sq.Eq{"e.semester_id": semesterID})
	}

	rows := make([]transcript.Row, 0)
	if err := sel(ctx, src.db, &rows, q); err != nil {
		return nil, errors.Wrap(err, "selecting student results")
	}
	for i := range rows {
		rows[i].SemesterStart = rows[i].SemesterStart.UTC()
		rows[i].SemesterEnd = rows[i].SemesterEnd.UTC()
	}
	return rows, nil
}
