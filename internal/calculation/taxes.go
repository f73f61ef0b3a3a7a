package calculation

import (
	"github.com/rgehrsitz/itrgo/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Slabs: FY 2024-25 simplified tables, no surcharge.
//    - New regime: 0% to 3L, 5% to 7L, 10% to 10L, 15% to 12L. The table
//      stops at 12L; income above it is reported, not taxed.
//    - Old regime: 0% to 2.5L, 5% to 5L, 20% to 10L, 30% above.
//
// 2. Deductions: flat standard deduction in both regimes (75,000 new,
//    50,000 old). Only the old regime allows 80C (capped at 1.5L) and 80D.
//
// 3. Rebate u/s 87A zeroes the tax at or below 7L (new) and 5L (old).
//
// 4. Cess is not added here; the selector backs 4% out of the final figure.

// RegimeCalculator computes tax under one regime. It holds only immutable
// rules and is safe for concurrent use.
type RegimeCalculator struct {
	Regime     domain.Regime
	Rules      domain.RegimeRules
	Section80C decimal.Decimal // cap applied when Rules.Itemized
}

// NewRegimeCalculatorFor builds the calculator for regime from rules.
func NewRegimeCalculatorFor(regime domain.Regime, rules domain.TaxRules) *RegimeCalculator {
	rc := &RegimeCalculator{Regime: regime, Section80C: rules.Section80C}
	if regime == domain.RegimeNew {
		rc.Rules = rules.NewRegime
	} else {
		rc.Rules = rules.OldRegime
	}
	return rc
}

// NewNewRegimeCalculator creates the new-regime calculator with default rules
func NewNewRegimeCalculator() *RegimeCalculator {
	return NewRegimeCalculatorFor(domain.RegimeNew, domain.DefaultTaxRules())
}

// NewOldRegimeCalculator creates the old-regime calculator with default rules
func NewOldRegimeCalculator() *RegimeCalculator {
	return NewRegimeCalculatorFor(domain.RegimeOld, domain.DefaultTaxRules())
}

// Deductions returns the total deducted from gross income.
func (rc *RegimeCalculator) Deductions(p domain.TaxpayerProfile) decimal.Decimal {
	total := rc.Rules.StandardDeduction
	if rc.Rules.Itemized {
		total = total.Add(decimal.Min(p.Section80C, rc.Section80C)).Add(p.Section80D)
	}
	return total
}

// TaxableIncome is gross income less deductions. It may be negative.
func (rc *RegimeCalculator) TaxableIncome(p domain.TaxpayerProfile) decimal.Decimal {
	return p.GrossIncome().Sub(rc.Deductions(p))
}

// Compute runs the full regime calculation for a profile.
func (rc *RegimeCalculator) Compute(p domain.TaxpayerProfile) domain.RegimeComputation {
	deductions := rc.Deductions(p)
	taxable := p.GrossIncome().Sub(deductions)

	comp := domain.RegimeComputation{
		Regime:        rc.Regime,
		GrossIncome:   p.GrossIncome(),
		Deductions:    deductions,
		TaxableIncome: taxable,
		Tax:           decimal.Zero,
	}

	tax, beyond := rc.SlabTax(taxable)
	comp.BeyondSlabTable = beyond

	// Rebate u/s 87A
	if taxable.LessThanOrEqual(rc.Rules.RebateLimit) {
		comp.RebateApplied = tax.GreaterThan(decimal.Zero)
		return comp
	}

	comp.Tax = tax
	return comp
}

// CalculateTax returns only the tax figure of Compute.
func (rc *RegimeCalculator) CalculateTax(p domain.TaxpayerProfile) decimal.Decimal {
	return rc.Compute(p).Tax
}

// SlabTax applies the marginal slabs to taxable income. The boundary amount
// of each slab is taxed at that slab's rate. beyond reports income above a
// bounded last slab.
func (rc *RegimeCalculator) SlabTax(taxable decimal.Decimal) (tax decimal.Decimal, beyond bool) {
	tax = decimal.Zero
	slabs := rc.Rules.Slabs
	for _, slab := range slabs {
		if taxable.LessThanOrEqual(slab.Min) {
			break
		}
		upper := taxable
		if slab.Max != nil {
			upper = decimal.Min(taxable, *slab.Max)
		}
		tax = tax.Add(upper.Sub(slab.Min).Mul(slab.Rate))
	}

	if n := len(slabs); n > 0 && slabs[n-1].Max != nil && taxable.GreaterThan(*slabs[n-1].Max) {
		beyond = true
	}
	return tax, beyond
}
