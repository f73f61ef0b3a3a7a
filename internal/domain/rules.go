package domain

import (
	"github.com/shopspring/decimal"
)

// TaxRules holds every statutory constant used by the engine. It is loaded
// from YAML on top of DefaultTaxRules.
type TaxRules struct {
	Filing     FilingRules     `yaml:"filing" json:"filing"`
	NewRegime  RegimeRules     `yaml:"new_regime" json:"new_regime"`
	OldRegime  RegimeRules     `yaml:"old_regime" json:"old_regime"`
	Section80C decimal.Decimal `yaml:"section_80c_cap" json:"section_80c_cap"`
	CessRate   decimal.Decimal `yaml:"cess_rate" json:"cess_rate"`
	Audit      AuditRules      `yaml:"audit" json:"audit"`
}

// FilingRules carries the fixed metadata of the exported payload.
type FilingRules struct {
	AssessmentYear string `yaml:"assessment_year" json:"assessment_year"`
	SchemaVersion  string `yaml:"schema_version" json:"schema_version"`
	Declaration    string `yaml:"declaration" json:"declaration"`
}

// RegimeRules parameterises one regime calculator.
type RegimeRules struct {
	StandardDeduction decimal.Decimal `yaml:"standard_deduction" json:"standard_deduction"`
	// Itemized enables the capped 80C and the 80D deductions.
	Itemized          bool            `yaml:"itemized" json:"itemized"`
	RebateLimit       decimal.Decimal `yaml:"rebate_limit" json:"rebate_limit"`
	Slabs             []TaxSlab       `yaml:"slabs" json:"slabs"`
}

// TaxSlab is one marginal band. A nil Max marks the open-ended top slab.
type TaxSlab struct {
	Min  decimal.Decimal  `yaml:"min" json:"min"`
	Max  *decimal.Decimal `yaml:"max,omitempty" json:"max,omitempty"`
	Rate decimal.Decimal  `yaml:"rate" json:"rate"`
}

// AuditRules are the compliance thresholds.
type AuditRules struct {
	PANLength           int             `yaml:"pan_length" json:"pan_length"`
	InvalidPANScore     int             `yaml:"invalid_pan_score" json:"invalid_pan_score"`
	DeductionRatio      decimal.Decimal `yaml:"deduction_ratio" json:"deduction_ratio"`
	DeductionRatioScore int             `yaml:"deduction_ratio_score" json:"deduction_ratio_score"`
	RiskThreshold       int             `yaml:"risk_threshold" json:"risk_threshold"`
	FilingBlockScore    int             `yaml:"filing_block_score" json:"filing_block_score"`
}

func bound(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// DefaultTaxRules returns the FY 2024-25 simplified rule set.
func DefaultTaxRules() TaxRules {
	return TaxRules{
		Filing: FilingRules{
			AssessmentYear: "2025-26",
			SchemaVersion:  "ITR-1_v2.0",
			Declaration:    "I hereby declare that the information given above is correct.",
		},
		NewRegime: RegimeRules{
			StandardDeduction: decimal.NewFromInt(75000),
			RebateLimit:       decimal.NewFromInt(700000),
			// No slab above 12L: the table is knowingly incomplete.
			Slabs: []TaxSlab{
				{Min: decimal.Zero, Max: bound(300000), Rate: decimal.Zero},
				{Min: decimal.NewFromInt(300000), Max: bound(700000), Rate: decimal.NewFromFloat(0.05)},
				{Min: decimal.NewFromInt(700000), Max: bound(1000000), Rate: decimal.NewFromFloat(0.10)},
				{Min: decimal.NewFromInt(1000000), Max: bound(1200000), Rate: decimal.NewFromFloat(0.15)},
			},
		},
		OldRegime: RegimeRules{
			StandardDeduction: decimal.NewFromInt(50000),
			Itemized:          true,
			RebateLimit:       decimal.NewFromInt(500000),
			Slabs: []TaxSlab{
				{Min: decimal.Zero, Max: bound(250000), Rate: decimal.Zero},
				{Min: decimal.NewFromInt(250000), Max: bound(500000), Rate: decimal.NewFromFloat(0.05)},
				{Min: decimal.NewFromInt(500000), Max: bound(1000000), Rate: decimal.NewFromFloat(0.20)},
				{Min: decimal.NewFromInt(1000000), Rate: decimal.NewFromFloat(0.30)},
			},
		},
		Section80C: decimal.NewFromInt(150000),
		CessRate:   decimal.NewFromFloat(0.04),
		Audit: AuditRules{
			PANLength:           10,
			InvalidPANScore:     100,
			DeductionRatio:      decimal.NewFromFloat(0.5),
			DeductionRatioScore: 30,
			RiskThreshold:       50,
			FilingBlockScore:    100,
		},
	}
}
