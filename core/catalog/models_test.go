package catalog

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
)

func fieldsOf(t *testing.T, err error) []string {
	t.Helper()
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr), "want ValidationError, got %T: %v", err, err)
	flds := make([]string, 0, len(vErr.Fields))
	for _, fld := range vErr.Fields {
		flds = append(flds, fld.Field)
	}
	return flds
}

func TestSubject_Validate(t *testing.T) {
	t.Run("default credit hours", func(t *testing.T) {
		sub := Subject{Code: " CS101 ", Name: "Programming"}
		require.NoError(t, sub.Validate())
		assert.Equal(t, "CS101", sub.Code)
		assert.Equal(t, DefaultCreditHours, sub.CreditHours)
	})

	t.Run("explicit credit hours", func(t *testing.T) {
		sub := Subject{Code: "CS101", Name: "Programming", CreditHours: 4}
		require.NoError(t, sub.Validate())
		assert.Equal(t, 4, sub.CreditHours)
	})

	tests := []struct {
		name      string
		sub       Subject
		wantField string
	}{
		{name: "negative credit hours", sub: Subject{Code: "CS101", Name: "Programming", CreditHours: -1}, wantField: "credit_hours"},
		{name: "bad code", sub: Subject{Code: "CS 101!", Name: "Programming"}, wantField: "code"},
		{name: "missing name", sub: Subject{Code: "CS101"}, wantField: "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sub.Validate()
			assert.Contains(t, fieldsOf(t, err), tt.wantField)
		})
	}
}

func TestStudent_Validate(t *testing.T) {
	st := Student{Name: "  Ada Lovelace ", RollNumber: "BSCS-001"}
	require.NoError(t, st.Validate())
	assert.Equal(t, "Ada Lovelace", st.Name)

	bad := Student{Name: "Ada", RollNumber: "BSCS 001"}
	assert.Contains(t, fieldsOf(t, bad.Validate()), "roll_number")
}

func TestSemester_Validate(t *testing.T) {
	start := time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

	sem := Semester{Name: "Fall 2024", StartDate: start, EndDate: start.AddDate(0, 4, 0)}
	require.NoError(t, sem.Validate())

	noStart := Semester{Name: "Fall 2024", EndDate: start}
	assert.Contains(t, fieldsOf(t, noStart.Validate()), "start_date")

	backwards := Semester{Name: "Fall 2024", StartDate: start, EndDate: start.AddDate(0, -1, 0)}
	assert.Contains(t, fieldsOf(t, backwards.Validate()), "end_date")
}

func TestNotFound(t *testing.T) {
	err := NotFound(ErrSubjectNotFound, "CS101")
	var nfErr *core.NotFoundError
	require.True(t, errors.As(err, &nfErr))
	assert.Equal(t, "subject", nfErr.Entity)
	assert.Equal(t, "CS101", nfErr.ID)

	other := errors.New("boom")
	assert.Equal(t, other, NotFound(other, "x"))
}
