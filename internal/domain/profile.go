package domain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxpayerProfile is a validated taxpayer. It is built once by the validator
// and never mutated afterwards.
type TaxpayerProfile struct {
	Name           string          `yaml:"name" json:"name"`
	PAN            string          `yaml:"pan" json:"pan"`
	Age            int             `yaml:"age" json:"age"`
	SalaryIncome   decimal.Decimal `yaml:"salary_income" json:"salary_income"`
	InterestIncome decimal.Decimal `yaml:"interest_income" json:"interest_income"`
	Section80C     decimal.Decimal `yaml:"section_80c_deductions" json:"section_80c_deductions"`
	Section80D     decimal.Decimal `yaml:"section_80d_deductions" json:"section_80d_deductions"`
}

// GrossIncome is salary plus interest.
func (p TaxpayerProfile) GrossIncome() decimal.Decimal {
	return p.SalaryIncome.Add(p.InterestIncome)
}

// ClaimedDeductions is the raw 80C + 80D claim, before any cap.
func (p TaxpayerProfile) ClaimedDeductions() decimal.Decimal {
	return p.Section80C.Add(p.Section80D)
}

// RawProfile is unvalidated input from a form, a file or a document
// extraction. Every field is text so that malformed numbers can be reported
// as violations instead of decode failures.
type RawProfile struct {
	Name           string `yaml:"name" json:"name"`
	PAN            string `yaml:"pan" json:"pan"`
	Age            string `yaml:"age" json:"age"`
	SalaryIncome   string `yaml:"salary_income" json:"salary_income"`
	InterestIncome string `yaml:"interest_income" json:"interest_income"`
	Section80C     string `yaml:"section_80c_deductions" json:"section_80c_deductions"`
	Section80D     string `yaml:"section_80d_deductions" json:"section_80d_deductions"`
}

// UnmarshalJSON accepts numbers as well as strings for every field, since
// forms send amounts as JSON numbers.
func (r *RawProfile) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return err
	}
	targets := map[string]*string{
		"name":                   &r.Name,
		"pan":                    &r.PAN,
		"age":                    &r.Age,
		"salary_income":          &r.SalaryIncome,
		"interest_income":        &r.InterestIncome,
		"section_80c_deductions": &r.Section80C,
		"section_80d_deductions": &r.Section80D,
	}
	for key, dst := range targets {
		v, ok := fields[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			*dst = t
		case json.Number:
			*dst = t.String()
		case bool:
			*dst = fmt.Sprint(t)
		default:
			return fmt.Errorf("field %s: unsupported value %v", key, v)
		}
	}
	return nil
}
