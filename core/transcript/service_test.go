package transcript_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/result"
	"github.com/trezcool/academia/core/transcript"
	"github.com/trezcool/academia/storage/database/inmem"
	"github.com/trezcool/academia/tests"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	repo      catalog.Repository
	results   *result.Service
	source    transcript.Source
	svc       *transcript.Service
	student   catalog.Student
	fall      catalog.Semester
	spring    catalog.Semester
	cs, ma, p catalog.Subject
}

func setup(t *testing.T) *fixture {
	db, err := inmemdb.Open()
	require.NoError(t, err)

	logger := testutil.NewLogger(t)
	repo := inmemdb.NewCatalogRepository(db)
	source := inmemdb.NewTranscriptSource(db)
	f := &fixture{
		repo:    repo,
		results: result.NewService(inmemdb.NewResultStore(db), logger),
		source:  source,
		svc:     transcript.NewService(source, logger),
		student: testutil.CreateStudent(t, repo, "Grace Hopper", "BSCS-002"),
		// created out of order on purpose
		spring: testutil.CreateSemester(t, repo, "Spring 2024", testutil.Date(2024, 2, 1)),
		fall:   testutil.CreateSemester(t, repo, "Fall 2023", testutil.Date(2023, 9, 1)),
		ma:     testutil.CreateSubject(t, repo, "MA101", 2),
		cs:     testutil.CreateSubject(t, repo, "CS101", 3),
		p:      testutil.CreateSubject(t, repo, "PH201", 4),
	}
	return f
}

func (f *fixture) record(t *testing.T, sub catalog.Subject, sem catalog.Semester, obtained string) {
	t.Helper()
	_, err := f.results.RecordResult(context.Background(), result.NewResult{
		StudentID:     f.student.ID,
		SubjectID:     sub.ID,
		SemesterID:    sem.ID,
		ExamType:      result.ExamFinalTerm,
		TotalMarks:    100,
		ObtainedMarks: dec(obtained),
	})
	require.NoError(t, err)
}

// seed records GPA 4.0 (3 ch) and 2.0 (2 ch) in fall, GPA 3.0 (4 ch) in spring.
func (f *fixture) seed(t *testing.T) {
	f.record(t, f.ma, f.fall, "55")
	f.record(t, f.cs, f.fall, "90")
	f.record(t, f.p, f.spring, "72")
}

func TestService_BuildTranscript(t *testing.T) {
	f := setup(t)
	f.seed(t)

	got, err := f.svc.BuildTranscript(context.Background(), f.student.ID, "")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, f.student, got.Student)
	require.Len(t, got.Semesters, 2)

	fall := got.Semesters[0]
	assert.Equal(t, f.fall.ID, fall.Semester.ID)
	assert.Equal(t, 5, fall.CreditHours)
	assert.True(t, fall.QualityPoints.Equal(dec("16")), "quality points = %s", fall.QualityPoints)
	assert.True(t, fall.GPA.Equal(dec("3.2")), "fall GPA = %s", fall.GPA)
	require.Len(t, fall.Subjects, 2)
	assert.Equal(t, "CS101", fall.Subjects[0].Code)
	assert.Equal(t, "MA101", fall.Subjects[1].Code)
	assert.True(t, fall.Subjects[1].Passing)
	assert.Equal(t, "D", fall.Subjects[1].GradeLetter)

	spring := got.Semesters[1]
	assert.Equal(t, f.spring.ID, spring.Semester.ID)
	assert.Equal(t, 4, spring.CreditHours)
	assert.True(t, spring.GPA.Equal(dec("3.0")), "spring GPA = %s", spring.GPA)

	assert.Equal(t, 9, got.TotalCreditHours)
	assert.True(t, got.OverallCGPA.Round(4).Equal(dec("3.1111")), "CGPA = %s", got.OverallCGPA)

	// the cumulative figure is the flat weighted average over every subject result
	points, hours := decimal.Zero, 0
	for _, sem := range got.Semesters {
		for _, sub := range sem.Subjects {
			points = points.Add(sub.GPA.Mul(decimal.NewFromInt(int64(sub.CreditHours))))
			hours += sub.CreditHours
		}
	}
	flat := points.Div(decimal.NewFromInt(int64(hours)))
	assert.True(t, got.OverallCGPA.Equal(flat), "CGPA = %s, flat average = %s", got.OverallCGPA, flat)
}

func TestService_BuildTranscript_semester(t *testing.T) {
	f := setup(t)
	f.seed(t)

	got, err := f.svc.BuildTranscript(context.Background(), f.student.ID, f.spring.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Len(t, got.Semesters, 1)
	assert.Equal(t, f.spring.ID, got.Semesters[0].Semester.ID)
	assert.Equal(t, 4, got.TotalCreditHours)
	assert.True(t, got.OverallCGPA.Equal(dec("3")))
}

func TestService_BuildTranscript_reflectsOverwrites(t *testing.T) {
	f := setup(t)
	f.seed(t)
	f.record(t, f.ma, f.fall, "85") // 2.0 -> 4.0

	got, err := f.svc.BuildTranscript(context.Background(), f.student.ID, f.fall.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.Semesters[0].GPA.Equal(dec("4")), "fall GPA = %s", got.Semesters[0].GPA)
}

func TestService_BuildTranscript_empty(t *testing.T) {
	f := setup(t)
	f.record(t, f.cs, f.fall, "90")
	other := testutil.CreateSemester(t, f.repo, "Summer 2024", testutil.Date(2024, 6, 1))
	newcomer := testutil.CreateStudent(t, f.repo, "Alan Turing", "BSCS-003")

	tests := []struct {
		name       string
		studentID  string
		semesterID string
	}{
		{name: "student without results", studentID: newcomer.ID},
		{name: "semester without results", studentID: f.student.ID, semesterID: other.ID},
		{name: "unknown student", studentID: "nobody"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.BuildTranscript(context.Background(), tt.studentID, tt.semesterID)
			require.NoError(t, err)
			assert.Nil(t, got)
		})
	}
}

func TestService_BuildTranscript_blankStudent(t *testing.T) {
	f := setup(t)

	_, err := f.svc.BuildTranscript(context.Background(), "  ", "")
	assert.True(t, core.IsValidation(err), "want ValidationError, got %T: %v", err, err)
}

type brokenSource struct {
	transcript.Source
}

func (brokenSource) ListStudentResults(context.Context, string, string) ([]transcript.Row, error) {
	return nil, errors.New("connection reset")
}

func TestService_BuildTranscript_storageFailure(t *testing.T) {
	svc := transcript.NewService(&brokenSource{}, testutil.NewLogger(t))

	_, err := svc.BuildTranscript(context.Background(), "someone", "")
	assert.True(t, core.IsPersistence(err), "want PersistenceError, got %T: %v", err, err)
}

// corruptSource serves rows whose stored marks exceed the total.
type corruptSource struct {
	transcript.Source
}

func (s corruptSource) ListStudentResults(ctx context.Context, studentID, semesterID string) ([]transcript.Row, error) {
	rows, err := s.Source.ListStudentResults(ctx, studentID, semesterID)
	for i := range rows {
		rows[i].ObtainedMarks = decimal.NewFromInt(int64(rows[i].TotalMarks + 1))
	}
	return rows, err
}

func TestService_BuildTranscript_inconsistentResult(t *testing.T) {
	f := setup(t)
	f.seed(t)

	svc := transcript.NewService(corruptSource{Source: f.source}, testutil.NewLogger(t))
	_, err := svc.BuildTranscript(context.Background(), f.student.ID, "")
	require.Error(t, err)
	assert.ErrorIs(t, err, transcript.ErrInconsistentResult)
	assert.False(t, core.IsTyped(err), "want an internal error, got %T: %v", err, err)
}

func TestService_BuildTranscript_currentSemester(t *testing.T) {
	f := setup(t)
	current, err := f.repo.SaveSemester(context.Background(), catalog.Semester{
		Name:      "Fall 2024",
		StartDate: testutil.Date(2024, 9, 1),
		EndDate:   testutil.Date(2024, 12, 31),
		IsCurrent: true,
	})
	require.NoError(t, err)
	f.record(t, f.cs, f.fall, "90")
	f.record(t, f.cs, current, "72")

	got, err := f.svc.BuildTranscript(context.Background(), f.student.ID, "")
	require.NoError(t, err)
	require.Len(t, got.Semesters, 2)
	assert.False(t, got.Semesters[0].Semester.IsCurrent)
	assert.True(t, got.Semesters[1].Semester.IsCurrent)
	assert.Equal(t, current.ID, got.Semesters[1].Semester.ID)
}

func TestNewService_nilArgs(t *testing.T) {
	assert.Panics(t, func() { transcript.NewService(nil, nil) })
	assert.Panics(t, func() { transcript.NewService(brokenSource{}, nil) })
	assert.NotPanics(t, func() { transcript.NewService(brokenSource{}, testutil.NewLogger(t)) })
}
