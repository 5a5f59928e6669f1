package sqlxrepos

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/catalog"
)

var (
	studentColumns  = []string{"id", "name", "roll_number", "program"}
	subjectColumns  = []string{"id", "code", "name", "credit_hours"}
	semesterColumns = []string{"id", "name", "start_date", "end_date", "is_current"}
)

type catalogRepository struct {
	db core.DBExecutor
	sb sq.StatementBuilderType
}

var _ catalog.Repository = (*catalogRepository)(nil) // interface compliance check

func NewCatalogRepository(db *sqlx.DB) catalog.Repository {
	return &catalogRepository{db: db, sb: statementBuilder(db)}
}

func (repo *catalogRepository) GetStudent(ctx context.Context, id string) (catalog.Student, error) {
	var st catalog.Student
	q := repo.sb.Select(studentColumns...).From("students").Where(sq.Eq{"id": id})
	if err := get(ctx, repo.db, &st, q); err != nil {
		if isNoRows(err) {
			return catalog.Student{}, catalog.ErrStudentNotFound
		}
		return catalog.Student{}, errors.Wrap(err, "selecting student")
	}
	return st, nil
}

func (repo *catalogRepository) GetSubject(ctx context.Context, id string) (catalog.Subject, error) {
	var sub catalog.Subject
	q := repo.sb.Select(subjectColumns...).From("subjects").Where(sq.Eq{"id": id})
	if err := get(ctx, repo.db, &sub, q); err != nil {
		if isNoRows(err) {
			return catalog.Subject{}, catalog.ErrSubjectNotFound
		}
		return catalog.Subject{}, errors.Wrap(err, "selecting subject")
	}
	return sub, nil
}

func (repo *catalogRepository) GetSemester(ctx context.Context, id string) (catalog.Semester, error) {
	var sem catalog.Semester
	q := repo.sb.Select(semesterColumns...).From("semesters").Where(sq.Eq{"id": id})
	if err := get(ctx, repo.db, &sem, q); err != nil {
		if isNoRows(err) {
			return catalog.Semester{}, catalog.ErrSemesterNotFound
		}
		return catalog.Semester{}, errors.Wrap(err, "selecting semester")
	}
	sem.StartDate = sem.StartDate.UTC()
	sem.EndDate = sem.EndDate.UTC()
	return sem, nil
}

func (repo *catalogRepository) SaveStudent(ctx context.Context, st catalog.Student) (catalog.Student, error) {
	if st.ID == "" {
		st.ID = uuid.New().String()
	}
	q := repo.sb.Insert("students").
		Columns(studentColumns...).
		Values(st.ID, st.Name, st.RollNumber, st.Program).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = excluded.name, roll_number = excluded.roll_number, program = excluded.program")
	if _, err := exec(ctx, repo.db, q); err != nil {
		if isUniqueViolation(err) {
			return catalog.Student{}, catalog.ErrDuplicate
		}
		return catalog.Student{}, errors.Wrap(err, "upserting student")
	}
	return st, nil
}

func (repo *catalogRepository) SaveSubject(ctx context.Context, sub catalog.Subject) (catalog.Subject, error) {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if sub.CreditHours == 0 {
		sub.CreditHours = catalog.DefaultCreditHours
	}
	q := repo.sb.Insert("subjects").
		Columns(subjectColumns...).
		Values(sub.ID, sub.Code, sub.Name, sub.CreditHours).
		Suffix("ON CONFLICT (id) DO UPDATE SET code = excluded.code, name = excluded.name, credit_hours = excluded.credit_hours")
	if _, err := exec(ctx, repo.db, q); err != nil {
		if isUniqueViolation(err) {
			return catalog.Subject{}, catalog.ErrDuplicate
		}
		return catalog.Subject{}, errors.Wrap(err, "upserting subject")
	}
	return sub, nil
}

func (repo *catalogRepository) SaveSemester(ctx context.Context, sem catalog.Semester) (catalog.Semester, error) {
	if sem.ID == "" {
		sem.ID = uuid.New().String()
	}
	sem.StartDate = sem.StartDate.UTC()
	sem.EndDate = sem.EndDate.UTC()
	q := repo.sb.Insert("semesters").
		Columns(semesterColumns...).
		Values(sem.ID, sem.Name, sem.StartDate, sem.EndDate, sem.IsCurrent).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = excluded.name, start_date = excluded.start_date, " +
			"end_date = excluded.end_date, is_current = excluded.is_current")
	if _, err := exec(ctx, repo.db, q); err != nil {
		return catalog.Semester{}, errors.Wrap(err, "upserting semester")
	}
	return sem, nil
}
