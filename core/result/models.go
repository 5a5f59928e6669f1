package result

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/grading"
)

// Exam types
const (
	ExamMidTerm    ExamType = "Mid Term"
	ExamFinalTerm  ExamType = "Final Term"
	ExamSessional  ExamType = "Sessional"
	ExamQuiz       ExamType = "Quiz"
	ExamAssignment ExamType = "Assignment"
)

var (
	ExamTypes = []ExamType{ExamMidTerm, ExamFinalTerm, ExamSessional, ExamQuiz, ExamAssignment}

	// errors
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrEnrollmentExists   = errors.New("enrollment already exists")
	ErrResultNotFound     = errors.New("result not found")
)

// ExamType is one of the closed set of ExamTypes.
type ExamType string

func (et ExamType) IsValid() bool {
	for _, t := range ExamTypes {
		if et == t {
			return true
		}
	}
	return false
}

// Key identifies an Enrollment.
type Key struct {
	StudentID  string `json:"student_id"`
	SubjectID  string `json:"subject_id"`
	SemesterID string `json:"semester_id"`
}

// Enrollment links a student to a subject for a semester. It is unique per Key.
type Enrollment struct {
	ID         string    `json:"id" db:"id"`
	StudentID  string    `json:"student_id" db:"student_id"`
	SubjectID  string    `json:"subject_id" db:"subject_id"`
	SemesterID string    `json:"semester_id" db:"semester_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"` // UTC
}

func (e Enrollment) Key() Key {
	return Key{StudentID: e.StudentID, SubjectID: e.SubjectID, SemesterID: e.SemesterID}
}

// Result is the single outcome recorded for an Enrollment.
// GPA and GradeLetter are derived from the marks every time they are written.
type Result struct {
	ID            string          `json:"id" db:"id"`
	EnrollmentID  string          `json:"enrollment_id" db:"enrollment_id"`
	ExamType      ExamType        `json:"exam_type" db:"exam_type"`
	TotalMarks    int             `json:"total_marks" db:"total_marks"`
	ObtainedMarks decimal.Decimal `json:"obtained_marks" db:"obtained_marks"`
	GPA           decimal.Decimal `json:"gpa" db:"gpa"`
	GradeLetter   string          `json:"grade_letter" db:"grade_letter"`
	Remarks       null.String     `json:"remarks" db:"remarks"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"` // UTC
	UpdatedAt     time.Time       `json:"updated_at" db:"updated_at"` // UTC
}

// NewResult contains the marks to record for a (student, subject, semester).
type NewResult struct {
	StudentID     string          `json:"student_id" validate:"required,notblank"`
	SubjectID     string          `json:"subject_id" validate:"required,notblank"`
	SemesterID    string          `json:"semester_id" validate:"required,notblank"`
	ExamType      ExamType        `json:"exam_type" validate:"required,examtype"`
	TotalMarks    int             `json:"total_marks" validate:"gt=0,lte=99999"` // obtained_marks is stored as NUMERIC(7,2)
	ObtainedMarks decimal.Decimal `json:"obtained_marks"`
	Remarks       null.String     `json:"remarks"`
}

func (nr NewResult) Key() Key {
	return Key{StudentID: nr.StudentID, SubjectID: nr.SubjectID, SemesterID: nr.SemesterID}
}

// Validate cleans nr and checks it. Errors are *core.ValidationError.
// ExamType must be spelled exactly as in ExamTypes; near misses only get a suggestion.
func (nr *NewResult) Validate() error {
	nr.StudentID = core.CleanString(nr.StudentID)
	nr.SubjectID = core.CleanString(nr.SubjectID)
	nr.SemesterID = core.CleanString(nr.SemesterID)
	remarks := core.CleanString(nr.Remarks.String)
	nr.Remarks = null.NewString(remarks, remarks != "")

	err := core.ValidateStruct(nr)
	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		for i, fld := range vErr.Fields {
			if fld.Field == "exam_type" {
				if hint := suggestExamType(string(nr.ExamType)); hint != "" {
					vErr.Fields[i].Error += `; did you mean "` + string(hint) + `"?`
				}
			}
		}
	}
	return err
}

type (
	// Outcome describes a recorded result.
	Outcome struct {
		ResultID     string          `json:"result_id"`
		EnrollmentID string          `json:"enrollment_id"`
		Created      bool            `json:"created"` // false when an existing result was overwritten
		Percentage   decimal.Decimal `json:"percentage"`
		grading.Grade
	}

	// Tx is the unit of work RecordResult runs in. Every call shares the same storage transaction.
	Tx interface {
		// CheckReferences returns a *core.NotFoundError when the student, subject or semester does not exist.
		CheckReferences(ctx context.Context, key Key) error
		// FindEnrollment returns ErrEnrollmentNotFound when absent.
		FindEnrollment(ctx context.Context, key Key) (Enrollment, error)
		// CreateEnrollment returns ErrEnrollmentExists when the key is already taken.
		CreateEnrollment(ctx context.Context, enr Enrollment) (Enrollment, error)
		// FindResult returns ErrResultNotFound when absent.
		FindResult(ctx context.Context, enrollmentID string) (Result, error)
		// SaveResult inserts the result or overwrites the one already attached to its enrollment.
		SaveResult(ctx context.Context, res Result) (Result, error)
	}

	Store interface {
		// WithinTx runs fn in one transaction: committed if fn returns nil, rolled back otherwise.
		WithinTx(ctx context.Context, fn func(tx Tx) error) error
		// GetResult returns ErrEnrollmentNotFound or ErrResultNotFound when absent.
		GetResult(ctx context.Context, key Key) (Enrollment, Result, error)
		// DeleteResult returns ErrResultNotFound when absent.
		DeleteResult(ctx context.Context, id string) error
	}
)
