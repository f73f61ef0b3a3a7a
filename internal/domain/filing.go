package domain

import "time"

// FilingPayload is the export document handed to the government filing API.
// Field names are part of the external contract.
type FilingPayload struct {
	FilingMetadata  FilingMetadata  `json:"filing_metadata"`
	TaxpayerProfile FilingTaxpayer  `json:"taxpayer_profile"`
	IncomeDetails   IncomeDetails   `json:"income_details"`
	Deductions      FilingDeduction `json:"deductions"`
	TaxComputation  TaxComputation  `json:"tax_computation"`
	Verification    Verification    `json:"verification"`
}

type FilingMetadata struct {
	AssessmentYear string    `json:"assessment_year"`
	SchemaVersion  string    `json:"schema_version"`
	SubmissionID   string    `json:"submission_id"`
	Timestamp      time.Time `json:"timestamp"`
}

type FilingTaxpayer struct {
	PAN    string `json:"pan"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Status string `json:"status"`
}

type IncomeDetails struct {
	GrossSalary      float64 `json:"gross_salary"`
	ExemptIncome     float64 `json:"exempt_income"`
	NetTaxableIncome float64 `json:"net_taxable_income"`
}

type FilingDeduction struct {
	Section80C      float64 `json:"section_80c"`
	Section80D      float64 `json:"section_80d"`
	TotalDeductions float64 `json:"total_deductions"`
}

type TaxComputation struct {
	RegimeSelected Regime  `json:"regime_selected"`
	TaxPayable     float64 `json:"tax_payable"`
	Cess           float64 `json:"cess"`
	TotalLiability float64 `json:"total_liability"`
}

type Verification struct {
	Declaration  string `json:"declaration"`
	VerifiedByAI bool   `json:"verified_by_ai"`
	RiskScore    int    `json:"risk_score"`
}

// StoredRecord is the flattened row appended to the history store.
type StoredRecord struct {
	Name      string           `json:"name"`
	PAN       string           `json:"pan"`
	Status    ComplianceStatus `json:"status"`
	Income    float64          `json:"income"`
	Tax       float64          `json:"tax"`
	CreatedAt time.Time        `json:"created_at"`
}
