package result

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/shopspring/decimal"

	"github.com/trezcool/academia/core"
)

var (
	examTypeTag  = "examtype"
	examTypeText = "must be one of: Mid Term, Final Term, Sessional, Quiz, Assignment"

	marksRangeTag  = "marksrange"
	marksRangeText = "obtained marks must be between 0 and total marks"

	marksPrecisionTag  = "marksprecision"
	marksPrecisionText = "obtained marks cannot have more than 2 decimal places"

	examTypeMinSim = .6
)

func init() {
	_ = core.Validate.RegisterValidation(examTypeTag, examTypeValidation)
	core.RegisterCustomTranslation(examTypeTag, examTypeText)

	core.Validate.RegisterStructValidation(newResultStructValidation, NewResult{})
	core.RegisterCustomTranslation(marksRangeTag, marksRangeText)
	core.RegisterCustomTranslation(marksPrecisionTag, marksPrecisionText)
}

// Custom Validators

func examTypeValidation(fl validator.FieldLevel) bool {
	return ExamType(fl.Field().String()).IsValid()
}

// newResultStructValidation checks 0 <= ObtainedMarks <= TotalMarks.
func newResultStructValidation(sl validator.StructLevel) {
	nr, ok := sl.Current().Interface().(NewResult)
	if !ok {
		return
	}
	reportErr := func(tag string) {
		sl.ReportError(nr.ObtainedMarks, "obtained_marks", "ObtainedMarks", tag, "")
	}

	if nr.ObtainedMarks.IsNegative() ||
		(nr.TotalMarks > 0 && nr.ObtainedMarks.GreaterThan(decimal.NewFromInt(int64(nr.TotalMarks)))) {
		reportErr(marksRangeTag)
		return
	}
	if !nr.ObtainedMarks.Equal(nr.ObtainedMarks.Round(2)) {
		reportErr(marksPrecisionTag)
	}
}

// suggestExamType returns the exam type closest to s, if any is similar enough.
func suggestExamType(s string) ExamType {
	s = strings.ToLower(strings.Join(strings.Fields(s), " "))
	if s == "" {
		return ""
	}
	var (
		best      ExamType
		bestRatio float64
	)
	for _, t := range ExamTypes {
		ratio := difflib.NewMatcher(strings.Split(s, ""), strings.Split(strings.ToLower(string(t)), "")).Ratio()
		if ratio > bestRatio {
			best, bestRatio = t, ratio
		}
	}
	if bestRatio < examTypeMinSim {
		return ""
	}
	return best
}
