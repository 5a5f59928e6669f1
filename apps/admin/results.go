package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/grading"
	"github.com/trezcool/academia/core/result"
	"github.com/trezcool/academia/core/transcript"
)

// GPAs and percentages are printed with 2 decimal places
const displayPlaces = 2

func parseMarks(field, s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(core.CleanString(s))
	if err != nil {
		return decimal.Zero, core.NewValidationError(nil, core.FieldError{Field: field, Error: "must be a number"})
	}
	return d, nil
}

func verdict(passing bool) string {
	if passing {
		return "pass"
	}
	return "fail"
}

func (cli *commandLine) record(studentID, subjectID, semesterID, examType string, total int, obtained, remarks string) error {
	marks, err := parseMarks("obtained", obtained)
	if err != nil {
		return err
	}

	out, err := cli.resultSvc.RecordResult(context.Background(), result.NewResult{
		StudentID:     studentID,
		SubjectID:     subjectID,
		SemesterID:    semesterID,
		ExamType:      result.ExamType(examType),
		TotalMarks:    total,
		ObtainedMarks: marks,
		Remarks:       null.NewString(remarks, remarks != ""),
	})
	if err != nil {
		return err
	}

	action := "updated"
	if out.Created {
		action = "recorded"
	}
	fmt.Fprintf(cli.out, "result %s %s: %s%% -> %s, GPA %s (%s)\n",
		out.ResultID, action, out.Percentage.StringFixed(displayPlaces), out.Letter, out.GPA.StringFixed(1), verdict(out.Passing))
	return nil
}

func (cli *commandLine) transcript(studentID, semesterID string, asJSON bool) error {
	tr, err := cli.transcriptSvc.BuildTranscript(context.Background(), studentID, semesterID)
	if err != nil {
		return err
	}
	if tr == nil {
		fmt.Fprintln(cli.out, "no results found")
		return nil
	}

	rounded := tr.Round(displayPlaces)
	if asJSON {
		enc := json.NewEncoder(cli.out)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(rounded), "encoding transcript")
	}
	return printTranscript(cli, rounded)
}

func printTranscript(cli *commandLine, tr transcript.Transcript) error {
	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "%s (%s)\t%s\n", tr.Student.Name, tr.Student.RollNumber, tr.Student.Program)
	for _, sem := range tr.Semesters {
		fmt.Fprintf(w, "\n%s\tGPA %s\t%d credit hours\n", sem.Semester.Name, sem.GPA.StringFixed(displayPlaces), sem.CreditHours)
		fmt.Fprintln(w, "CODE\tSUBJECT\tCH\tEXAM\tMARKS\t%\tGRADE\tGPA\t")
		for _, sub := range sem.Subjects {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s/%d\t%s\t%s\t%s\t%s\n",
				sub.Code, sub.Name, sub.CreditHours, sub.ExamType,
				sub.ObtainedMarks.String(), sub.TotalMarks, sub.Percentage.StringFixed(displayPlaces),
				sub.GradeLetter, sub.GPA.StringFixed(1), verdict(sub.Passing))
		}
	}
	fmt.Fprintf(w, "\nCGPA %s\t%d credit hours\n", tr.OverallCGPA.StringFixed(displayPlaces), tr.TotalCreditHours)
	return errors.Wrap(w.Flush(), "printing transcript")
}

func (cli *commandLine) grade(percentage string) error {
	pct, err := parseMarks("percentage", percentage)
	if err != nil {
		return err
	}
	g, err := grading.Evaluate(pct)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "%s%% -> %s, GPA %s (%s)\n", pct.String(), g.Letter, g.GPA.StringFixed(1), verdict(g.Passing))
	return nil
}
