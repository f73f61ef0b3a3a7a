package domain

import (
	"github.com/shopspring/decimal"
)

// Regime identifies one of the two mutually exclusive tax schemes.
type Regime string

const (
	RegimeNew Regime = "New"
	RegimeOld Regime = "Old"
)

// RegimeComputation is the intermediate result of one regime calculator.
type RegimeComputation struct {
	Regime        Regime          `json:"regime"`
	GrossIncome   decimal.Decimal `json:"gross_income"`
	Deductions    decimal.Decimal `json:"deductions"`
	TaxableIncome decimal.Decimal `json:"taxable_income"`
	Tax           decimal.Decimal `json:"tax"`
	RebateApplied bool            `json:"rebate_applied"`

	// BeyondSlabTable is set when taxable income runs past the last bounded
	// slab of a table with no open-ended top slab. The excess is untaxed.
	BeyondSlabTable bool `json:"beyond_slab_table,omitempty"`
}

// TaxSummary is the outcome of comparing both regimes.
type TaxSummary struct {
	SelectedRegime  Regime          `json:"selected_regime"`
	TaxableIncome   decimal.Decimal `json:"taxable_income"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	FinalTax        decimal.Decimal `json:"final_tax"`
	TaxPayable      decimal.Decimal `json:"tax_payable"` // FinalTax with cess backed out
	Cess            decimal.Decimal `json:"cess"`
	AuditScore      int             `json:"audit_score"`

	NewRegimeTax decimal.Decimal `json:"new_regime_tax"`
	OldRegimeTax decimal.Decimal `json:"old_regime_tax"`
	Savings      decimal.Decimal `json:"savings"`
	Notes        []string        `json:"notes,omitempty"`
}

// WithAuditScore returns a copy of the summary carrying the auditor's score.
func (s TaxSummary) WithAuditScore(score int) TaxSummary {
	s.AuditScore = score
	if s.Notes != nil {
		s.Notes = append([]string(nil), s.Notes...)
	}
	return s
}
