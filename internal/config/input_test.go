package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rgehrsitz/itrgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRaw() domain.RawProfile {
	return domain.RawProfile{
		Name:         "Itishree Khadiratna",
		PAN:          "ABCDE1234F",
		Age:          "25",
		SalaryIncome: "850000",
		Section80C:   "150000",
	}
}

func violationFields(t *testing.T, err error) []string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %T", err)
	fields := make([]string, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		fields = append(fields, v.Field)
	}
	return fields
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser, "Should create input parser")
}

func TestValidateProfile_Valid(t *testing.T) {
	profile, err := ValidateProfile(validRaw())
	require.NoError(t, err)

	assert.Equal(t, "Itishree Khadiratna", profile.Name)
	assert.Equal(t, "ABCDE1234F", profile.PAN)
	assert.Equal(t, 25, profile.Age)
	assert.True(t, profile.SalaryIncome.Equal(decimal.NewFromInt(850000)))
	assert.True(t, profile.Section80C.Equal(decimal.NewFromInt(150000)))
	assert.True(t, profile.InterestIncome.IsZero(), "Interest should default to zero")
	assert.True(t, profile.Section80D.IsZero(), "80D should default to zero")
}

func TestValidateProfile_CommaGroupedAmounts(t *testing.T) {
	raw := validRaw()
	raw.SalaryIncome = "12,50,000"

	profile, err := ValidateProfile(raw)
	require.NoError(t, err)
	assert.True(t, profile.SalaryIncome.Equal(decimal.NewFromInt(1250000)))
}

func TestValidateProfile_PAN(t *testing.T) {
	tests := []struct {
		name       string
		pan        string
		violations int
	}{
		{"too short", "AB", 2},
		{"too long", "ABCDE1234FG", 2},
		{"digits in letter block", "ABC121234F", 1},
		{"lowercase", "abcde1234f", 1},
		{"trailing digit", "ABCDE12345", 1},
		{"blank", "   ", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			raw.PAN = tt.pan

			_, err := ValidateProfile(raw)
			require.Error(t, err)
			fields := violationFields(t, err)
			assert.Len(t, fields, tt.violations)
			for _, f := range fields {
				assert.Equal(t, "pan", f)
			}
		})
	}
}

func TestValidateProfile_Age(t *testing.T) {
	for _, age := range []string{"", "17", "twenty", "25.5"} {
		raw := validRaw()
		raw.Age = age

		_, err := ValidateProfile(raw)
		assert.Equal(t, []string{"age"}, violationFields(t, err), "age %q", age)
	}

	raw := validRaw()
	raw.Age = "18"
	_, err := ValidateProfile(raw)
	assert.NoError(t, err, "18 is the minimum accepted age")
}

func TestValidateProfile_EnumeratesEveryViolation(t *testing.T) {
	raw := domain.RawProfile{
		PAN:            "AB",
		Age:            "12",
		SalaryIncome:   "lots",
		InterestIncome: "-5",
		Section80C:     "abc",
	}

	_, err := ValidateProfile(raw)
	require.Error(t, err)

	fields := violationFields(t, err)
	assert.Equal(t, []string{
		"name", "pan", "pan", "age",
		"salary_income", "interest_income", "section_80c_deductions",
	}, fields)
	assert.Contains(t, err.Error(), "profile validation failed")
	assert.Contains(t, err.Error(), "salary_income must be numeric")
}

func TestValidateProfile_AmountBounds(t *testing.T) {
	tests := []struct {
		name  string
		value string
		ok    bool
	}{
		{"exponent overflowing float64", "1e400", false},
		{"huge exponent", "1e2000000000", false},
		{"small exponent", "8.5e5", false},
		{"sixteen digits", "1000000000000000", false},
		{"three decimals", "850000.125", false},
		{"fifteen digits", "999999999999999", true},
		{"leading zeros", "000850000", true},
		{"paise", "850000.50", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := validRaw()
			raw.SalaryIncome = tt.value

			_, err := ValidateProfile(raw)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, []string{"salary_income"}, violationFields(t, err))
		})
	}
}

func TestValidateProfile_SalaryRequired(t *testing.T) {
	raw := validRaw()
	raw.SalaryIncome = ""

	_, err := ValidateProfile(raw)
	assert.Equal(t, []string{"salary_income"}, violationFields(t, err))
}

func TestInputParser_LoadProfile_FileNotFound(t *testing.T) {
	parser := NewInputParser()

	_, err := parser.LoadProfile("nonexistent.yaml")

	assert.Error(t, err, "Should error for nonexistent file")
	assert.Contains(t, err.Error(), "failed to read file", "Should have specific error message")
}

func TestInputParser_LoadProfile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	invalidFile := filepath.Join(tmpDir, "invalid.yaml")
	require.NoError(t, os.WriteFile(invalidFile, []byte("invalid: yaml: content: [unclosed"), 0644))

	_, err := NewInputParser().LoadProfile(invalidFile)

	assert.Error(t, err, "Should error for invalid YAML")
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestInputParser_LoadProfile_ValidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	validFile := filepath.Join(tmpDir, "profile.yaml")
	validYAML := `
name: "Itishree Khadiratna"
pan: "ABCDE1234F"
age: 25
salary_income: 850000
section_80c_deductions: 150000
`
	require.NoError(t, os.WriteFile(validFile, []byte(validYAML), 0644))

	profile, err := NewInputParser().LoadProfile(validFile)
	require.NoError(t, err)
	assert.Equal(t, 25, profile.Age)
	assert.True(t, profile.SalaryIncome.Equal(decimal.NewFromInt(850000)))
}

func TestInputParser_LoadProfile_ValidJSON(t *testing.T) {
	tmpDir := t.TempDir()
	validFile := filepath.Join(tmpDir, "profile.json")
	validJSON := `{"name": "Asha", "pan": "ABCDE1234F", "age": 40, "salary_income": 1200000.50, "section_80d_deductions": "25000"}`
	require.NoError(t, os.WriteFile(validFile, []byte(validJSON), 0644))

	profile, err := NewInputParser().LoadProfile(validFile)
	require.NoError(t, err)
	assert.Equal(t, "Asha", profile.Name)
	assert.True(t, profile.SalaryIncome.Equal(decimal.RequireFromString("1200000.50")))
	assert.True(t, profile.Section80D.Equal(decimal.NewFromInt(25000)))
}

func TestInputParser_LoadProfile_InvalidProfile(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "bad.yaml")
	require.NoError(t, os.WriteFile(file, []byte("name: X\npan: AB\nage: 30\nsalary_income: 1000\n"), 0644))

	_, err := NewInputParser().LoadProfile(file)
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}
