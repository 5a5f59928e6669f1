package transcript

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/result"
)

// ErrInconsistentResult reports a stored result that no longer agrees with the grading rules.
// It is a data integrity failure.
var ErrInconsistentResult = errors.New("stored result is inconsistent")

type (
	// Row is one result joined with its subject and semester.
	Row struct {
		SemesterID      string          `db:"semester_id"`
		SemesterName    string          `db:"semester_name"`
		SemesterStart   time.Time       `db:"semester_start"`
		SemesterEnd     time.Time       `db:"semester_end"`
		SemesterCurrent bool            `db:"semester_is_current"`
		SubjectID       string          `db:"subject_id"`
		SubjectCode     string          `db:"subject_code"`
		SubjectName     string          `db:"subject_name"`
		CreditHours     int             `db:"credit_hours"`
		ResultID        string          `db:"result_id"`
		ExamType        result.ExamType `db:"exam_type"`
		TotalMarks      int             `db:"total_marks"`
		ObtainedMarks   decimal.Decimal `db:"obtained_marks"`
		GPA             decimal.Decimal `db:"gpa"`
		GradeLetter     string          `db:"grade_letter"`
		Remarks         null.String     `db:"remarks"`
	}

	// Source reads what the aggregator needs from storage.
	Source interface {
		// ListStudentResults returns every result row of the student; only semesterID's when it is not empty.
		ListStudentResults(ctx context.Context, studentID, semesterID string) ([]Row, error)
		// GetStudent returns catalog.ErrStudentNotFound when absent.
		GetStudent(ctx context.Context, id string) (catalog.Student, error)
	}

	SubjectResult struct {
		SubjectID     string          `json:"subject_id"`
		Code          string          `json:"code"`
		Name          string          `json:"name"`
		CreditHours   int             `json:"credit_hours"`
		ResultID      string          `json:"result_id"`
		ExamType      result.ExamType `json:"exam_type"`
		TotalMarks    int             `json:"total_marks"`
		ObtainedMarks decimal.Decimal `json:"obtained_marks"`
		Percentage    decimal.Decimal `json:"percentage"`
		GPA           decimal.Decimal `json:"gpa"`
		GradeLetter   string          `json:"grade_letter"`
		Passing       bool            `json:"passing"`
		Remarks       null.String     `json:"remarks"`
	}

	SemesterTranscript struct {
		Semester      catalog.Semester `json:"semester"`
		CreditHours   int              `json:"credit_hours"`
		QualityPoints decimal.Decimal  `json:"quality_points"` // Σ gpa × credit hours
		GPA           decimal.Decimal  `json:"gpa"`
		Subjects      []SubjectResult  `json:"subjects"`
	}

	// Transcript is a read-only projection built on every request; it is never stored.
	Transcript struct {
		Student          catalog.Student      `json:"student"`
		Semesters        []SemesterTranscript `json:"semesters"`
		TotalCreditHours int                  `json:"total_credit_hours"`
		OverallCGPA      decimal.Decimal      `json:"overall_cgpa"`
	}
)

// Round returns a copy of t with GPAs and quality points rounded to places, for display.
func (t Transcript) Round(places int32) Transcript {
	out := t
	out.OverallCGPA = t.OverallCGPA.Round(places)
	out.Semesters = make([]SemesterTranscript, len(t.Semesters))
	for i, sem := range t.Semesters {
		sem.GPA = sem.GPA.Round(places)
		sem.QualityPoints = sem.QualityPoints.Round(places)
		out.Semesters[i] = sem
	}
	return out
}
