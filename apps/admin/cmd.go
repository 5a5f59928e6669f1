package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/jmoiron/sqlx"
	"golang.org/x/term"

	"github.com/trezcool/academia/core/catalog"
	"github.com/trezcool/academia/core/result"
	"github.com/trezcool/academia/core/transcript"
)

var (
	isTerminalFunc = term.IsTerminal // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	db            *sqlx.DB // nil with the in-memory engine
	catalog       catalog.Repository
	resultSvc     *result.Service
	transcriptSvc *transcript.Service
	out           io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS] - run a goose command (up, down, status, version, redo, reset...)")
	fmt.Fprintln(cli.out, "  addstudent -name NAME -roll ROLL_NUMBER [-program PROGRAM] - create a student")
	fmt.Fprintln(cli.out, "  addsubject -code CODE -name NAME [-credits HOURS] - create a subject")
	fmt.Fprintln(cli.out, "  addsemester -name NAME -start YYYY-MM-DD -end YYYY-MM-DD [-current] - create a semester")
	fmt.Fprintln(cli.out, "  record -student ID -subject ID -semester ID -exam TYPE -total MARKS -obtained MARKS [-remarks TEXT] - record a result")
	fmt.Fprintln(cli.out, "  transcript -student ID [-semester ID] [-json] - print a student's transcript")
	fmt.Fprintln(cli.out, "  grade -percentage PCT - evaluate a percentage against the grading scale")
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

// parse returns errHelp when -h is asked for.
func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return nil
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	addStudentCmd := cli.newFlagSet("addstudent")
	addStudentName := addStudentCmd.String("name", "", "The student's full name.")
	addStudentRoll := addStudentCmd.String("roll", "", "The student's roll number.")
	addStudentProgram := addStudentCmd.String("program", "", "The program the student is registered in.")

	addSubjectCmd := cli.newFlagSet("addsubject")
	addSubjectCode := addSubjectCmd.String("code", "", "The subject's code, eg. CS101.")
	addSubjectName := addSubjectCmd.String("name", "", "The subject's name.")
	addSubjectCredits := addSubjectCmd.Int("credits", 0, fmt.Sprintf("The subject's credit hours (default %d).", catalog.DefaultCreditHours))

	addSemesterCmd := cli.newFlagSet("addsemester")
	addSemesterName := addSemesterCmd.String("name", "", "The semester's name, eg. \"Fall 2024\".")
	addSemesterStart := addSemesterCmd.String("start", "", "The first day of the semester (YYYY-MM-DD).")
	addSemesterEnd := addSemesterCmd.String("end", "", "The last day of the semester (YYYY-MM-DD).")
	addSemesterCurrent := addSemesterCmd.Bool("current", false, "Whether this is the current semester.")

	recordCmd := cli.newFlagSet("record")
	recordStudent := recordCmd.String("student", "", "The student's ID.")
	recordSubject := recordCmd.String("subject", "", "The subject's ID.")
	recordSemester := recordCmd.String("semester", "", "The semester's ID.")
	recordExam := recordCmd.String("exam", string(result.ExamFinalTerm), "The exam type.")
	recordTotal := recordCmd.Int("total", 0, "The total marks of the exam.")
	recordObtained := recordCmd.String("obtained", "", "The marks obtained, up to 2 decimal places.")
	recordRemarks := recordCmd.String("remarks", "", "Optional remarks.")

	transcriptCmd := cli.newFlagSet("transcript")
	transcriptStudent := transcriptCmd.String("student", "", "The student's ID.")
	transcriptSemester := transcriptCmd.String("semester", "", "Restrict the transcript to this semester's ID.")
	transcriptJSON := transcriptCmd.Bool("json", false, "Print JSON even on a terminal.")

	gradeCmd := cli.newFlagSet("grade")
	gradePercentage := gradeCmd.String("percentage", "", "The percentage to evaluate, between 0 and 100.")

	switch args[1] {
	case "migrate":
		if len(args) < 3 {
			cli.printUsage()
			return errHelp
		}
		return cli.migrate(args[2:])

	case "addstudent":
		if err := parse(addStudentCmd, args[2:]); err != nil {
			return err
		}
		if *addStudentName == "" || *addStudentRoll == "" {
			addStudentCmd.Usage()
			return errHelp
		}
		return cli.addStudent(*addStudentName, *addStudentRoll, *addStudentProgram)

	case "addsubject":
		if err := parse(addSubjectCmd, args[2:]); err != nil {
			return err
		}
		if *addSubjectCode == "" || *addSubjectName == "" {
			addSubjectCmd.Usage()
			return errHelp
		}
		return cli.addSubject(*addSubjectCode, *addSubjectName, *addSubjectCredits)

	case "addsemester":
		if err := parse(addSemesterCmd, args[2:]); err != nil {
			return err
		}
		if *addSemesterName == "" || *addSemesterStart == "" || *addSemesterEnd == "" {
			addSemesterCmd.Usage()
			return errHelp
		}
		return cli.addSemester(*addSemesterName, *addSemesterStart, *addSemesterEnd, *addSemesterCurrent)

	case "record":
		if err := parse(recordCmd, args[2:]); err != nil {
			return err
		}
		if *recordStudent == "" || *recordSubject == "" || *recordSemester == "" || *recordObtained == "" {
			recordCmd.Usage()
			return errHelp
		}
		return cli.record(*recordStudent, *recordSubject, *recordSemester, *recordExam, *recordTotal, *recordObtained, *recordRemarks)

	case "transcript":
		if err := parse(transcriptCmd, args[2:]); err != nil {
			return err
		}
		if *transcriptStudent == "" {
			transcriptCmd.Usage()
			return errHelp
		}
		asJSON := *transcriptJSON || !isTerminalFunc(int(os.Stdout.Fd()))
		return cli.transcript(*transcriptStudent, *transcriptSemester, asJSON)

	case "grade":
		if err := parse(gradeCmd, args[2:]); err != nil {
			return err
		}
		if *gradePercentage == "" {
			gradeCmd.Usage()
			return errHelp
		}
		return cli.grade(*gradePercentage)

	default:
		cli.printUsage()
		return errHelp
	}
}
