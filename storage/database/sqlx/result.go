package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/result"
)

var (
	enrollmentColumns = []string{"id", "student_id", "subject_id", "semester_id", "created_at"}
	resultColumns     = []string{
		"id", "enrollment_id", "exam_type", "total_marks", "obtained_marks",
		"gpa", "grade_letter", "remarks", "created_at", "updated_at",
	}
)

type resultStore struct {
	db *sqlx.DB
	sb sq.StatementBuilderType
}

var _ result.Store = (*resultStore)(nil) // interface compliance check

func NewResultStore(db *sqlx.DB) result.Store {
	return &resultStore{db: db, sb: statementBuilder(db)}
}

// WithinTx runs fn in a database transaction, committed only if fn returns nil.
func (s *resultStore) WithinTx(ctx context.Context, fn func(tx result.Tx) error) (err error) {
	dbTx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = dbTx.Rollback()
			panic(p)
		}
	}()

	if err = fn(&resultTx{ex: dbTx, sb: s.sb}); err != nil {
		if rbErr := dbTx.Rollback(); rbErr != nil {
			return errors.Wrapf(err, "rolling back (%v)", rbErr)
		}
		return err
	}
	return errors.Wrap(dbTx.Commit(), "committing transaction")
}

func (s *resultStore) GetResult(ctx context.Context, key result.Key) (result.Enrollment, result.Result, error) {
	q := &resultTx{ex: s.db, sb: s.sb}
	enr, err := q.FindEnrollment(ctx, key)
	if err != nil {
		return result.Enrollment{}, result.Result{}, err
	}
	res, err := q.FindResult(ctx, enr.ID)
	if err != nil {
		return result.Enrollment{}, result.Result{}, err
	}
	return enr, res, nil
}

func (s *resultStore) DeleteResult(ctx context.Context, id string) error {
	res, err := exec(ctx, s.db, s.sb.Delete("results").Where(sq.Eq{"id": id}))
	if err != nil {
		return errors.Wrap(err, "deleting result")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "deleting result")
	}
	if n == 0 {
		return result.ErrResultNotFound
	}
	return nil
}

// resultTx runs its queries on ex; inside WithinTx that is the transaction.
type resultTx struct {
	ex core.DBExecutor
	sb sq.StatementBuilderType
}

func (tx *resultTx) count(ctx context.Context, table, id string) (int, error) {
	var n int
	err := get(ctx, tx.ex, &n, tx.sb.Select("COUNT(*)").From(table).Where(sq.Eq{"id": id}))
	return n, err
}

func (tx *resultTx) CheckReferences(ctx context.Context, key result.Key) error {
	refs := []struct {
		table string
		id    string
		err   error
	}{
		{"students", key.StudentID, catalog.ErrStudentNotFound},
		{"subjects", key.SubjectID, catalog.ErrSubjectNotFound},
		{"semesters", key.SemesterID, catalog.ErrSemesterNotFound},
	}
	for _, ref := range refs {
		n, err := tx.count(ctx, ref.table, ref.id)
		if err != nil {
			return errors.Wrapf(err, "checking %s", ref.table)
		}
		if n == 0 {
			return catalog.NotFound(ref.err, ref.id)
		}
	}
	return nil
}

func (tx *resultTx) FindEnrollment(ctx context.Context, key result.Key) (result.Enrollment, error) {
	var enr result.Enrollment
	q := tx.sb.Select(enrollmentColumns...).
		From("enrollments").
		Where(sq.Eq{"student_id": key.StudentID, "subject_id": key.SubjectID, "semester_id": key.SemesterID})
	if err := get(ctx, tx.ex, &enr, q); err != nil {
		if isNoRows(err) {
			return result.Enrollment{}, result.ErrEnrollmentNotFound
		}
		return result.Enrollment{}, errors.Wrap(err, "selecting enrollment")
	}
	enr.CreatedAt = enr.CreatedAt.UTC()
	return enr, nil
}

// CreateEnrollment inserts enr unless its key is taken, in which case nothing is written and
// result.ErrEnrollmentExists is returned. The statement never raises on the unique index.
func (tx *resultTx) CreateEnrollment(ctx context.Context, enr result.Enrollment) (result.Enrollment, error) {
	q := tx.sb.Insert("enrollments").
		Columns(enrollmentColumns...).
		Values(enr.ID, enr.StudentID, enr.SubjectID, enr.SemesterID, enr.CreatedAt.UTC()).
		Suffix("ON CONFLICT (student_id, subject_id, semester_id) DO NOTHING RETURNING id")
	var id string
	if err := get(ctx, tx.ex, &id, q); err != nil {
		switch {
		case isNoRows(err), isUniqueViolation(err):
			return result.Enrollment{}, result.ErrEnrollmentExists
		case isForeignKeyViolation(err):
			return result.Enrollment{}, core.NewNotFoundError("student, subject or semester", "")
		}
		return result.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	enr.ID = id
	return enr, nil
}

func (tx *resultTx) FindResult(ctx context.Context, enrollmentID string) (result.Result, error) {
	var res result.Result
	q := tx.sb.Select(resultColumns...).From("results").Where(sq.Eq{"enrollment_id": enrollmentID})
	if err := get(ctx, tx.ex, &res, q); err != nil {
		if isNoRows(err) {
			return result.Result{}, result.ErrResultNotFound
		}
		return result.Result{}, errors.Wrap(err, "selecting result")
	}
	res.CreatedAt = res.CreatedAt.UTC()
	res.UpdatedAt = res.UpdatedAt.UTC()
	return res, nil
}

// SaveResult upserts on the unique enrollment_id: an existing row keeps its ID and creation time.
func (tx *resultTx) SaveResult(ctx context.Context, res result.Result) (result.Result, error) {
	q := tx.sb.Insert("results").
		Columns(resultColumns...).
		Values(
			res.ID, res.EnrollmentID, string(res.ExamType), res.TotalMarks, res.ObtainedMarks,
			res.GPA, res.GradeLetter, res.Remarks, res.CreatedAt.UTC(), res.UpdatedAt.UTC(),
		).
		Suffix("ON CONFLICT (enrollment_id) DO UPDATE SET " +
			"exam_type = excluded.exam_type, total_marks = excluded.total_marks, " +
			"obtained_marks = excluded.obtained_marks, gpa = excluded.gpa, grade_letter = excluded.grade_letter, " +
			"remarks = excluded.remarks, updated_at = excluded.updated_at")
	if _, err := exec(ctx, tx.ex, q); err != nil {
		if isForeignKeyViolation(err) {
			return result.Result{}, core.NewNotFoundError("enrollment", res.EnrollmentID)
		}
		return result.Result{}, errors.Wrap(err, "upserting result")
	}
	return tx.FindResult(ctx, res.EnrollmentID)
}
