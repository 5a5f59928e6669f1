package transcript

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/grading"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func row(semID string, start time.Time, code string, ch int, obtained string, total int, gpa string) Row {
	grade, _, _ := grading.EvaluateMarks(dec(obtained), total)
	return Row{
		SemesterID:    semID,
		SemesterName:  "Semester " + semID,
		SemesterStart: start,
		SubjectID:     "sub-" + code,
		SubjectCode:   code,
		CreditHours:   ch,
		ResultID:      "res-" + semID + code,
		TotalMarks:    total,
		ObtainedMarks: dec(obtained),
		GPA:           dec(gpa),
		GradeLetter:   grade.Letter,
	}
}

func TestAggregate(t *testing.T) {
	jan := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	sep := time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)

	got, err := Aggregate([]Row{
		row("b", jan, "ZZ1", 3, "20", 30, "2.7"),
		row("a", sep, "CS2", 2, "50", 100, "2.0"),
		row("a", sep, "CS1", 3, "100", 100, "4.0"),
	})
	require.NoError(t, err)
	require.Len(t, got.Semesters, 2)

	assert.Equal(t, "a", got.Semesters[0].Semester.ID)
	assert.Equal(t, []string{"CS1", "CS2"}, []string{got.Semesters[0].Subjects[0].Code, got.Semesters[0].Subjects[1].Code})
	assert.True(t, got.Semesters[0].GPA.Equal(dec("3.2")))

	// 20/30 = 66.666...
	assert.True(t, got.Semesters[1].Subjects[0].Percentage.Equal(dec("66.67")), "percentage = %s", got.Semesters[1].Subjects[0].Percentage)
	assert.True(t, got.Semesters[1].Subjects[0].Passing)
	assert.Equal(t, 8, got.TotalCreditHours)
	// (12 + 4 + 8.1) / 8
	assert.True(t, got.OverallCGPA.Equal(dec("3.0125")), "CGPA = %s", got.OverallCGPA)
}

func TestAggregate_semesterTies(t *testing.T) {
	start := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	rows := []Row{
		row("2", start, "A", 3, "10", 10, "4.0"),
		row("1", start, "A", 3, "10", 10, "4.0"),
	}
	rows[0].SemesterName = "Same"
	rows[1].SemesterName = "Same"

	got, err := Aggregate(rows)
	require.NoError(t, err)
	assert.Equal(t, "1", got.Semesters[0].Semester.ID)
	assert.Equal(t, "2", got.Semesters[1].Semester.ID)
}

func TestAggregate_zeroCreditHours(t *testing.T) {
	got, err := Aggregate([]Row{row("a", time.Now(), "X", 0, "90", 100, "4.0")})
	require.NoError(t, err)
	assert.True(t, got.Semesters[0].GPA.IsZero())
	assert.True(t, got.OverallCGPA.IsZero())
	assert.Equal(t, 0, got.TotalCreditHours)
}

func TestAggregate_inconsistentResult(t *testing.T) {
	unknownLetter := row("a", time.Now(), "X", 3, "90", 100, "4.0")
	unknownLetter.GradeLetter = "PASS"

	tests := []struct {
		name string
		row  Row
	}{
		{name: "obtained above total", row: row("a", time.Now(), "X", 3, "120", 100, "4.0")},
		{name: "zero total", row: row("a", time.Now(), "X", 3, "0", 0, "0.0")},
		{name: "unknown grade letter", row: unknownLetter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Aggregate([]Row{tt.row})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInconsistentResult)
			assert.Contains(t, err.Error(), tt.row.ResultID)
			assert.False(t, core.IsValidation(err), "stored data must not read as a bad request")
		})
	}
}

func TestAggregate_currentSemester(t *testing.T) {
	current := row("b", time.Now(), "X", 3, "90", 100, "4.0")
	current.SemesterCurrent = true

	got, err := Aggregate([]Row{row("a", time.Now().AddDate(-1, 0, 0), "X", 3, "90", 100, "4.0"), current})
	require.NoError(t, err)
	require.Len(t, got.Semesters, 2)
	assert.False(t, got.Semesters[0].Semester.IsCurrent)
	assert.True(t, got.Semesters[1].Semester.IsCurrent)
}

func TestTranscript_Round(t *testing.T) {
	tr := Transcript{
		OverallCGPA: dec("28").Div(dec("9")),
		Semesters:   []SemesterTranscript{{GPA: dec("3.14159"), QualityPoints: dec("9.42477")}},
	}

	rounded := tr.Round(2)
	assert.True(t, rounded.OverallCGPA.Equal(dec("3.11")))
	assert.True(t, rounded.Semesters[0].GPA.Equal(dec("3.14")))
	assert.True(t, rounded.Semesters[0].QualityPoints.Equal(dec("9.42")))
	// the original is untouched
	assert.True(t, tr.Semesters[0].GPA.Equal(dec("3.14159")))
}
