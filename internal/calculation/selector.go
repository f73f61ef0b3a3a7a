package calculation

import (
	"fmt"

	"github.com/rgehrsitz/itrgo/internal/domain"
	"github.com/shopspring/decimal"
)

// SelectRegime compares both computations and builds the summary. New wins
// only when strictly cheaper, so ties resolve to Old.
//
// The summary's final tax already includes cess: TaxPayable is FinalTax
// divided by (1 + cessRate), rounded to paise, and Cess is the remainder.
func SelectRegime(p domain.TaxpayerProfile, newComp, oldComp domain.RegimeComputation, cessRate decimal.Decimal) domain.TaxSummary {
	selected := oldComp
	deductions := p.Section80C // only the raw 80C claim is reported for Old
	if newComp.Tax.LessThan(oldComp.Tax) {
		selected = newComp
		deductions = decimal.Zero
	}

	finalTax := selected.Tax
	payable := finalTax.Div(decimal.NewFromInt(1).Add(cessRate)).Round(2)

	summary := domain.TaxSummary{
		SelectedRegime:  selected.Regime,
		TaxableIncome:   selected.TaxableIncome,
		TotalDeductions: deductions,
		FinalTax:        finalTax,
		TaxPayable:      payable,
		Cess:            finalTax.Sub(payable),
		NewRegimeTax:    newComp.Tax,
		OldRegimeTax:    oldComp.Tax,
		Savings:         newComp.Tax.Sub(oldComp.Tax).Abs(),
	}

	if newComp.BeyondSlabTable {
		summary.Notes = append(summary.Notes, fmt.Sprintf(
			"New regime taxable income %s exceeds the last slab; income above it is not taxed by this model",
			newComp.TaxableIncome.StringFixed(2)))
	}
	if oldComp.BeyondSlabTable {
		summary.Notes = append(summary.Notes, fmt.Sprintf(
			"Old regime taxable income %s exceeds the last slab; income above it is not taxed by this model",
			oldComp.TaxableIncome.StringFixed(2)))
	}
	return summary
}
