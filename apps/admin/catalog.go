package main

import (
	"context"
	"fmt"
	"time"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/catalog"
)

const dateLayout = "2006-01-02"

func (cli *commandLine) addStudent(name, rollNumber, program string) error {
	st := catalog.Student{Name: name, RollNumber: rollNumber, Program: program}
	if err := st.Validate(); err != nil {
		return err
	}
	st, err := cli.catalog.SaveStudent(context.Background(), st)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "student %s created: %s (%s)\n", st.ID, st.Name, st.RollNumber)
	return nil
}

func (cli *commandLine) addSubject(code, name string, creditHours int) error {
	sub := catalog.Subject{Code: code, Name: name, CreditHours: creditHours}
	if err := sub.Validate(); err != nil {
		return err
	}
	sub, err := cli.catalog.SaveSubject(context.Background(), sub)
	if err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "subject %s created: %s %s, %d credit hours\n", sub.ID, sub.Code, sub.Name, sub.CreditHours)
	return nil
}

func (cli *commandLine) addSemester(name, start, end string, current bool) error {
	startDate, err := parseDate("start", start)
	if err != nil {
		return err
	}
	endDate, err := parseDate("end", end)
	if err != nil {
		return err
	}

	sem := catalog.Semester{Name: name, StartDate: startDate, EndDate: endDate, IsCurrent: current}
	if err = sem.Validate(); err != nil {
		return err
	}
	if sem, err = cli.catalog.SaveSemester(context.Background(), sem); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "semester %s created: %s\n", sem.ID, sem.Name)
	return nil
}

func parseDate(field, s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, core.CleanString(s))
	if err != nil {
		return time.Time{}, core.NewValidationError(nil, core.FieldError{Field: field, Error: "must be a date (YYYY-MM-DD)"})
	}
	return d, nil
}
