// Package transcript aggregates a student's stored results into per-semester and cumulative GPAs.
package transcript

import (
	"context"
	"sort"

	"github.com/kat-co/vala"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/grading"
)

// percentages are shown with 2 decimal places
const percentagePlaces = 2

type Service struct {
	src    Source
	logger core.Logger
}

func NewService(src Source, logger core.Logger) *Service {
	vala.BeginValidation().Validate(
		core.IsNotNil(src, "src"),
		core.IsNotNil(logger, "logger"),
	).CheckAndPanic()

	return &Service{src: src, logger: logger}
}

// BuildTranscript recomputes the transcript of studentID from its stored results.
// semesterID restricts it to one semester when not empty.
// It returns nil when there is no result to report.
func (svc *Service) BuildTranscript(ctx context.Context, studentID, semesterID string) (*Transcript, error) {
	studentID = core.CleanString(studentID)
	semesterID = core.CleanString(semesterID)
	if err := vala.BeginValidation().Validate(
		vala.StringNotEmpty(studentID, "student_id"),
	).Check(); err != nil {
		return nil, core.NewValidationError(err, core.FieldError{Field: "student_id", Error: "this field is required"})
	}

	rows, err := svc.src.ListStudentResults(ctx, studentID, semesterID)
	if err != nil {
		return nil, svc.persistenceErr("listing student results", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	student, err := svc.src.GetStudent(ctx, studentID)
	if err != nil {
		if errors.Is(err, catalog.ErrStudentNotFound) {
			return nil, catalog.NotFound(catalog.ErrStudentNotFound, studentID)
		}
		return nil, svc.persistenceErr("getting student", err)
	}

	t, err := Aggregate(rows)
	if err != nil {
		svc.logger.Error("aggregating results failed", err, map[string]interface{}{"student_id": studentID})
		return nil, err
	}
	t.Student = student
	return t, nil
}

// Aggregate groups rows by semester (ordered by start date) and computes the credit-hour weighted GPAs.
// Rows whose stored marks or grade letter are corrupt fail with ErrInconsistentResult.
// The overall CGPA is Σ semester quality points / Σ semester credit hours, which is exactly the
// credit-hour weighted average over every subject result.
func Aggregate(rows []Row) (*Transcript, error) {
	bySemester := make(map[string]*SemesterTranscript)
	order := make([]string, 0)
	for _, row := range rows {
		sem, ok := bySemester[row.SemesterID]
		if !ok {
			sem = &SemesterTranscript{
				Semester: catalog.Semester{
					ID:        row.SemesterID,
					Name:      row.SemesterName,
					StartDate: row.SemesterStart.UTC(),
					EndDate:   row.SemesterEnd.UTC(),
					IsCurrent: row.SemesterCurrent,
				},
				QualityPoints: decimal.Zero,
			}
			bySemester[row.SemesterID] = sem
			order = append(order, row.SemesterID)
		}

		subj, err := subjectResult(row)
		if err != nil {
			return nil, err
		}
		sem.Subjects = append(sem.Subjects, subj)
		sem.CreditHours += row.CreditHours
		sem.QualityPoints = sem.QualityPoints.Add(row.GPA.Mul(decimal.NewFromInt(int64(row.CreditHours))))
	}

	t := &Transcript{
		Semesters:   make([]SemesterTranscript, 0, len(order)),
		OverallCGPA: decimal.Zero,
	}
	totalPoints := decimal.Zero
	for _, id := range order {
		sem := bySemester[id]
		sem.GPA = weightedAverage(sem.QualityPoints, sem.CreditHours)
		sort.SliceStable(sem.Subjects, func(i, j int) bool {
			if sem.Subjects[i].Code != sem.Subjects[j].Code {
				return sem.Subjects[i].Code < sem.Subjects[j].Code
			}
			return sem.Subjects[i].SubjectID < sem.Subjects[j].SubjectID
		})

		t.TotalCreditHours += sem.CreditHours
		totalPoints = totalPoints.Add(sem.QualityPoints)
		t.Semesters = append(t.Semesters, *sem)
	}
	t.OverallCGPA = weightedAverage(totalPoints, t.TotalCreditHours)

	sort.SliceStable(t.Semesters, func(i, j int) bool {
		a, b := t.Semesters[i].Semester, t.Semesters[j].Semester
		if !a.StartDate.Equal(b.StartDate) {
			return a.StartDate.Before(b.StartDate)
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return t, nil
}

func subjectResult(row Row) (SubjectResult, error) {
	grade, pct, err := grading.EvaluateMarks(row.ObtainedMarks, row.TotalMarks)
	if err != nil {
		return SubjectResult{}, errors.Wrapf(ErrInconsistentResult, "result %s: %v", row.ResultID, err)
	}
	if !grading.IsLetter(row.GradeLetter) {
		return SubjectResult{}, errors.Wrapf(ErrInconsistentResult, "result %s: unknown grade letter %q", row.ResultID, row.GradeLetter)
	}
	return SubjectResult{
		SubjectID:     row.SubjectID,
		Code:          row.SubjectCode,
		Name:          row.SubjectName,
		CreditHours:   row.CreditHours,
		ResultID:      row.ResultID,
		ExamType:      row.ExamType,
		TotalMarks:    row.TotalMarks,
		ObtainedMarks: row.ObtainedMarks,
		Percentage:    pct.Round(percentagePlaces),
		GPA:           row.GPA,
		GradeLetter:   row.GradeLetter,
		Passing:       grade.Passing,
		Remarks:       row.Remarks,
	}, nil
}

// weightedAverage returns points / hours, or 0 when there are no hours.
func weightedAverage(points decimal.Decimal, hours int) decimal.Decimal {
	if hours <= 0 {
		return decimal.Zero
	}
	return points.Div(decimal.NewFromInt(int64(hours)))
}

func (svc *Service) persistenceErr(op string, err error) error {
	if core.IsTyped(err) {
		return err
	}
	svc.logger.Error(op+" failed", err)
	return core.NewPersistenceError(op, err)
}
