package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rgehrsitz/itrgo/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

const (
	panLength  = 10
	minimumAge = 18

	// Amounts are below 10^15 rupees and carry at most paise.
	maxAmountDigits   = 15
	maxAmountDecimals = 2
)

var (
	panPattern    = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	amountPattern = regexp.MustCompile(`^-?(\d+)(\.\d+)?$`)
)

// Violation is a single failed constraint on one input field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every constraint a raw profile violated.
type ValidationError struct {
	Violations []Violation `json:"violations"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "profile validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, format string, args ...any) {
	e.Violations = append(e.Violations, Violation{Field: field, Message: fmt.Sprintf(format, args...)})
}

// InputParser handles parsing of taxpayer profile files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadRawProfile reads a YAML or JSON profile without validating it.
func (ip *InputParser) LoadRawProfile(filename string) (domain.RawProfile, error) {
	var raw domain.RawProfile
	data, err := os.ReadFile(filename)
	if err != nil {
		return raw, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	if strings.EqualFold(filepath.Ext(filename), ".json") {
		if err := json.Unmarshal(data, &raw); err != nil {
			return raw, fmt.Errorf("failed to parse JSON: %w", err)
		}
		return raw, nil
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return raw, fmt.Errorf("failed to parse YAML: %w", err)
	}
	return raw, nil
}

// LoadProfile reads and validates a profile file.
func (ip *InputParser) LoadProfile(filename string) (domain.TaxpayerProfile, error) {
	raw, err := ip.LoadRawProfile(filename)
	if err != nil {
		return domain.TaxpayerProfile{}, err
	}
	return ValidateProfile(raw)
}

// ValidateProfile turns raw input into a profile. On failure the returned
// error is a *ValidationError carrying every violation found.
func ValidateProfile(raw domain.RawProfile) (domain.TaxpayerProfile, error) {
	verr := &ValidationError{}
	profile := domain.TaxpayerProfile{
		Name: strings.TrimSpace(raw.Name),
		PAN:  strings.TrimSpace(raw.PAN),
	}

	if profile.Name == "" {
		verr.add("name", "name is required")
	}

	if profile.PAN == "" {
		verr.add("pan", "PAN is required")
	} else {
		if len(profile.PAN) != panLength {
			verr.add("pan", "PAN must be exactly %d characters, got %d", panLength, len(profile.PAN))
		}
		if !panPattern.MatchString(profile.PAN) {
			verr.add("pan", "PAN must be 5 uppercase letters, 4 digits and 1 uppercase letter")
		}
	}

	age := strings.TrimSpace(raw.Age)
	switch n, err := strconv.Atoi(age); {
	case age == "":
		verr.add("age", "age is required")
	case err != nil:
		verr.add("age", "age must be a whole number, got %q", age)
	case n < minimumAge:
		verr.add("age", "age must be at least %d, got %d", minimumAge, n)
	default:
		profile.Age = n
	}

	profile.SalaryIncome = parseAmount(verr, "salary_income", raw.SalaryIncome, true)
	profile.InterestIncome = parseAmount(verr, "interest_income", raw.InterestIncome, false)
	profile.Section80C = parseAmount(verr, "section_80c_deductions", raw.Section80C, false)
	profile.Section80D = parseAmount(verr, "section_80d_deductions", raw.Section80D, false)

	if len(verr.Violations) > 0 {
		return domain.TaxpayerProfile{}, verr
	}
	return profile, nil
}

// parseAmount accepts plain or comma-grouped decimals ("1,50,000"). Exponent
// notation is rejected so that every accepted amount stays small enough to
// compute with and to encode as a JSON number.
func parseAmount(verr *ValidationError, field, value string, required bool) decimal.Decimal {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if value == "" {
		if required {
			verr.add(field, "%s is required", field)
		}
		return decimal.Zero
	}
	m := amountPattern.FindStringSubmatch(value)
	if m == nil {
		verr.add(field, "%s must be numeric, got %q", field, value)
		return decimal.Zero
	}
	if len(strings.TrimLeft(m[1], "0")) > maxAmountDigits {
		verr.add(field, "%s must be below 10^%d", field, maxAmountDigits)
		return decimal.Zero
	}
	if len(m[2]) > maxAmountDecimals+1 {
		verr.add(field, "%s may have at most %d decimal places", field, maxAmountDecimals)
		return decimal.Zero
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		verr.add(field, "%s must be numeric, got %q", field, value)
		return decimal.Zero
	}
	if amount.IsNegative() {
		verr.add(field, "%s cannot be negative", field)
		return decimal.Zero
	}
	return amount
}
