// Package catalog describes the students, subjects and semesters the result engine refers to.
// Their management belongs to the catalog application; this package only carries the shapes and the port.
package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/trezcool/academia/core"
)

// DefaultCreditHours applies to subjects saved without credit hours.
const DefaultCreditHours = 3

var (
	// errors
	ErrStudentNotFound  = errors.New("student not found")
	ErrSubjectNotFound  = errors.New("subject not found")
	ErrSemesterNotFound = errors.New("semester not found")
	ErrDuplicate        = errors.New("roll number or code already taken")
)

// NotFound converts one of the Err...NotFound values into a *core.NotFoundError for id.
func NotFound(err error, id string) error {
	switch err {
	case ErrStudentNotFound:
		return core.NewNotFoundError("student", id)
	case ErrSubjectNotFound:
		return core.NewNotFoundError("subject", id)
	case ErrSemesterNotFound:
		return core.NewNotFoundError("semester", id)
	}
	return err
}

type (
	Student struct {
		ID         string `json:"id" db:"id"`
		Name       string `json:"name" db:"name" validate:"required,notblank"`
		RollNumber string `json:"roll_number" db:"roll_number" validate:"required,code"`
		Program    string `json:"program" db:"program"`
	}

	Subject struct {
		ID          string `json:"id" db:"id"`
		Code        string `json:"code" db:"code" validate:"required,code"`
		Name        string `json:"name" db:"name" validate:"required,notblank"`
		CreditHours int    `json:"credit_hours" db:"credit_hours" validate:"gte=0"`
	}

	Semester struct {
		ID        string    `json:"id" db:"id"`
		Name      string    `json:"name" db:"name" validate:"required,notblank"`
		StartDate time.Time `json:"start_date" db:"start_date"`
		EndDate   time.Time `json:"end_date" db:"end_date" validate:"gtfield=StartDate"`
		IsCurrent bool      `json:"is_current" db:"is_current"`
	}

	// Repository is implemented by the storages; only lookups are needed by the result engine,
	// Save* exist for seeding.
	Repository interface {
		GetStudent(ctx context.Context, id string) (Student, error)
		GetSubject(ctx context.Context, id string) (Subject, error)
		GetSemester(ctx context.Context, id string) (Semester, error)
		SaveStudent(ctx context.Context, st Student) (Student, error)
		SaveSubject(ctx context.Context, sub Subject) (Subject, error)
		SaveSemester(ctx context.Context, sem Semester) (Semester, error)
	}
)

func (st *Student) Validate() error {
	st.Name = core.CleanString(st.Name)
	st.RollNumber = core.CleanString(st.RollNumber)
	st.Program = core.CleanString(st.Program)
	return core.ValidateStruct(st)
}

// Validate cleans the subject and applies DefaultCreditHours when CreditHours is unset.
func (sub *Subject) Validate() error {
	sub.Code = core.CleanString(sub.Code)
	sub.Name = core.CleanString(sub.Name)
	if err := core.ValidateStruct(sub); err != nil {
		return err
	}
	if sub.CreditHours == 0 {
		sub.CreditHours = DefaultCreditHours
	}
	return nil
}

func (sem *Semester) Validate() error {
	sem.Name = core.CleanString(sem.Name)
	sem.StartDate = sem.StartDate.UTC()
	sem.EndDate = sem.EndDate.UTC()
	if sem.StartDate.IsZero() {
		return core.NewValidationError(nil, core.FieldError{Field: "start_date", Error: "this field is required"})
	}
	return core.ValidateStruct(sem)
}
