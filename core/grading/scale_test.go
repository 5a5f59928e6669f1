package grading

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/academia/core"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name        string
		percentage  string
		wantGPA     string
		wantLetter  string
		wantPassing bool
	}{
		{name: "perfect", percentage: "100", wantGPA: "4.0", wantLetter: LetterAPlus, wantPassing: true},
		{name: "A+ lower bound", percentage: "85", wantGPA: "4.0", wantLetter: LetterAPlus, wantPassing: true},
		{name: "just under A+", percentage: "84.99", wantGPA: "3.7", wantLetter: LetterA, wantPassing: true},
		{name: "A lower bound", percentage: "80", wantGPA: "3.7", wantLetter: LetterA, wantPassing: true},
		{name: "B+ lower bound", percentage: "75", wantGPA: "3.3", wantLetter: LetterBPlus, wantPassing: true},
		{name: "B lower bound", percentage: "70", wantGPA: "3.0", wantLetter: LetterB, wantPassing: true},
		{name: "C+ lower bound", percentage: "65", wantGPA: "2.7", wantLetter: LetterCPlus, wantPassing: true},
		{name: "C lower bound", percentage: "60", wantGPA: "2.3", wantLetter: LetterC, wantPassing: true},
		{name: "just under C", percentage: "59.999", wantGPA: "2.0", wantLetter: LetterD, wantPassing: true},
		{name: "D lower bound", percentage: "50", wantGPA: "2.0", wantLetter: LetterD, wantPassing: true},
		{name: "just under pass", percentage: "49.99", wantGPA: "0.0", wantLetter: LetterF, wantPassing: false},
		{name: "zero", percentage: "0", wantGPA: "0.0", wantLetter: LetterF, wantPassing: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Evaluate(dec(tt.percentage))
			require.NoError(t, err)
			assert.Truef(t, got.GPA.Equal(dec(tt.wantGPA)), "GPA = %s, want %s", got.GPA, tt.wantGPA)
			assert.Equal(t, tt.wantLetter, got.Letter)
			assert.Equal(t, tt.wantPassing, got.Passing)
		})
	}
}

func TestEvaluate_outOfRange(t *testing.T) {
	for _, pct := range []string{"-0.01", "-50", "100.01", "250"} {
		t.Run(pct, func(t *testing.T) {
			_, err := Evaluate(dec(pct))
			require.Error(t, err)
			assert.True(t, core.IsValidation(err), "want ValidationError, got %T", err)
		})
	}
}

func TestEvaluate_monotonic(t *testing.T) {
	step := dec("0.01")
	prev := decimal.NewFromInt(-1)
	for pct := decimal.Zero; pct.LessThanOrEqual(MaxPercentage); pct = pct.Add(step) {
		got, err := Evaluate(pct)
		require.NoError(t, err)
		if got.GPA.LessThan(decimal.Zero) || got.GPA.GreaterThan(MaxGPA) {
			t.Fatalf("Evaluate(%s).GPA = %s out of [0, 4]", pct, got.GPA)
		}
		if got.GPA.LessThan(prev) {
			t.Fatalf("Evaluate(%s).GPA = %s decreased from %s", pct, got.GPA, prev)
		}
		if got.Passing != pct.GreaterThanOrEqual(PassMark) {
			t.Fatalf("Evaluate(%s).Passing = %v", pct, got.Passing)
		}
		prev = got.GPA
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		name     string
		obtained string
		total    int
		want     string
		wantErr  bool
	}{
		{name: "exact", obtained: "42.5", total: 50, want: "85"},
		{name: "fractional", obtained: "84.99", total: 100, want: "84.99"},
		{name: "zero obtained", obtained: "0", total: 10, want: "0"},
		{name: "full marks", obtained: "30", total: 30, want: "100"},
		{name: "zero total", obtained: "0", total: 0, wantErr: true},
		{name: "negative total", obtained: "0", total: -5, wantErr: true},
		{name: "negative obtained", obtained: "-1", total: 10, wantErr: true},
		{name: "obtained above total", obtained: "10.5", total: 10, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Percentage(dec(tt.obtained), tt.total)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, core.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Truef(t, got.Equal(dec(tt.want)), "Percentage() = %s, want %s", got, tt.want)
		})
	}
}

func TestEvaluateMarks(t *testing.T) {
	grade, pct, err := EvaluateMarks(dec("17"), 20)
	require.NoError(t, err)
	assert.True(t, pct.Equal(dec("85")))
	assert.Equal(t, LetterAPlus, grade.Letter)
}

func TestBands(t *testing.T) {
	bands := Bands()
	require.Len(t, bands, 8)
	assert.Equal(t, LetterAPlus, bands[0].Letter)
	assert.Equal(t, LetterF, bands[len(bands)-1].Letter)

	// callers cannot mutate the scale
	bands[0].Letter = "Z"
	assert.Equal(t, LetterAPlus, Bands()[0].Letter)

	assert.True(t, IsLetter(LetterCPlus))
	assert.False(t, IsLetter("PASS"))
}
