package inmemdb

import (
	"context"

	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/result"
	"github.com/trezcool/academia/core/transcript"
)

type transcriptSource struct {
	*catalogRepository
}

var _ transcript.Source = (*transcriptSource)(nil) // interface compliance check

func NewTranscriptSource(db *DB) transcript.Source {
	return &transcriptSource{catalogRepository: &catalogRepository{db: db}}
}

func (src *transcriptSource) ListStudentResults(_ context.Context, studentID, semesterID string) ([]transcript.Row, error) {
	src.db.RLock()
	defer src.db.RUnlock()

	rows := make([]transcript.Row, 0)
	for _, res := range src.db.results {
		enr := src.db.enrollments[res.EnrollmentID]
		if enr.StudentID != studentID || (semesterID != "" && enr.SemesterID != semesterID) {
			continue
		}
		sub := src.db.subjects[enr.SubjectID]
		sem := src.db.semesters[enr.SemesterID]
		rows = append(rows, newRow(sem, sub, res))
	}
	return rows, nil
}

func newRow(sem catalog.Semester, sub catalog.Subject, res result.Result) transcript.Row {
	return transcript.Row{
		SemesterID:      sem.ID,
		SemesterName:    sem.Name,
		SemesterStart:   sem.StartDate,
		SemesterEnd:     sem.EndDate,
		SemesterCurrent: sem.IsCurrent,
		SubjectID:       sub.ID,
		SubjectCode:     sub.Code,
		SubjectName:     sub.Name,
		CreditHours:     sub.CreditHours,
		ResultID:        res.ID,
		ExamType:        res.ExamType,
		TotalMarks:      res.TotalMarks,
		ObtainedMarks:   res.ObtainedMarks,
		GPA:             res.GPA,
		GradeLetter:     res.GradeLetter,
		Remarks:         res.Remarks,
	}
}
