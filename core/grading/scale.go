// Package grading holds the one grading policy of the system: the fixed percentage to GPA/letter scale.
// Any pass/fail or GPA figure shown anywhere must come from Evaluate.
package grading

import (
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/trezcool/academia/core"
)

// Letters
const (
	LetterAPlus = "A+"
	LetterA     = "A"
	LetterBPlus = "B+"
	LetterB     = "B"
	LetterCPlus = "C+"
	LetterC     = "C"
	LetterD     = "D"
	LetterF     = "F"
)

var (
	MinPercentage = decimal.Zero
	MaxPercentage = decimal.NewFromInt(100)
	MaxGPA        = decimal.RequireFromString("4.0")
	PassMark      = decimal.NewFromInt(50)

	hundred = decimal.NewFromInt(100)

	errPercentageRange = errors.New("percentage must be between 0 and 100")
	errTotalMarks      = errors.New("total marks must be greater than 0")
	errObtainedMarks   = errors.New("obtained marks must be between 0 and total marks")

	// evaluated top-down, first matching band wins
	scale = []Band{
		{Min: decimal.NewFromInt(85), GPA: decimal.RequireFromString("4.0"), Letter: LetterAPlus},
		{Min: decimal.NewFromInt(80), GPA: decimal.RequireFromString("3.7"), Letter: LetterA},
		{Min: decimal.NewFromInt(75), GPA: decimal.RequireFromString("3.3"), Letter: LetterBPlus},
		{Min: decimal.NewFromInt(70), GPA: decimal.RequireFromString("3.0"), Letter: LetterB},
		{Min: decimal.NewFromInt(65), GPA: decimal.RequireFromString("2.7"), Letter: LetterCPlus},
		{Min: decimal.NewFromInt(60), GPA: decimal.RequireFromString("2.3"), Letter: LetterC},
		{Min: decimal.NewFromInt(50), GPA: decimal.RequireFromString("2.0"), Letter: LetterD},
		{Min: decimal.Zero, GPA: decimal.Zero, Letter: LetterF},
	}
)

// Band is one row of the grading scale: percentages >= Min map to GPA and Letter.
type Band struct {
	Min    decimal.Decimal `json:"min_percentage"`
	GPA    decimal.Decimal `json:"gpa"`
	Letter string          `json:"letter"`
}

// Grade is the outcome of evaluating a percentage.
type Grade struct {
	GPA     decimal.Decimal `json:"gpa"`
	Letter  string          `json:"grade_letter"`
	Passing bool            `json:"passing"`
}

// Evaluate maps a percentage in [0, 100] to its GPA, letter and pass verdict.
func Evaluate(percentage decimal.Decimal) (Grade, error) {
	if percentage.LessThan(MinPercentage) || percentage.GreaterThan(MaxPercentage) {
		return Grade{}, core.NewValidationError(errPercentageRange, core.FieldError{
			Field: "percentage",
			Error: errPercentageRange.Error(),
		})
	}
	passing := percentage.GreaterThanOrEqual(PassMark)
	for _, band := range scale {
		if percentage.GreaterThanOrEqual(band.Min) {
			return Grade{GPA: band.GPA, Letter: band.Letter, Passing: passing}, nil
		}
	}
	// unreachable: the last band starts at 0
	return Grade{GPA: decimal.Zero, Letter: LetterF, Passing: passing}, nil
}

// Percentage returns obtained / total * 100 in decimal arithmetic.
func Percentage(obtained decimal.Decimal, total int) (decimal.Decimal, error) {
	if total <= 0 {
		return decimal.Zero, core.NewValidationError(errTotalMarks, core.FieldError{
			Field: "total_marks",
			Error: errTotalMarks.Error(),
		})
	}
	t := decimal.NewFromInt(int64(total))
	if obtained.IsNegative() || obtained.GreaterThan(t) {
		return decimal.Zero, core.NewValidationError(errObtainedMarks, core.FieldError{
			Field: "obtained_marks",
			Error: errObtainedMarks.Error(),
		})
	}
	return obtained.Mul(hundred).Div(t), nil
}

// EvaluateMarks is Percentage followed by Evaluate.
func EvaluateMarks(obtained decimal.Decimal, total int) (Grade, decimal.Decimal, error) {
	pct, err := Percentage(obtained, total)
	if err != nil {
		return Grade{}, decimal.Zero, err
	}
	grade, err := Evaluate(pct)
	return grade, pct, err
}

// Bands returns a copy of the scale, highest band first.
func Bands() []Band {
	bands := make([]Band, len(scale))
	copy(bands, scale)
	return bands
}

// IsLetter reports whether l is one of the scale's letters.
func IsLetter(l string) bool {
	for _, band := range scale {
		if band.Letter == l {
			return true
		}
	}
	return false
}
