// Package audit implements the rule-based compliance check run on every
// submission before a record is saved or a filing payload is generated.
package audit

import (
	"fmt"
	"unicode/utf8"

	"github.com/rgehrsitz/itrgo/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	MessageClean    = "✅ Return is clean and ready for filing."
	MessageWarnings = "⚠️ Return can be filed, but review the warnings above."
	MessageHighRisk = "🛑 HIGH RISK: do not file until the flagged issues are fixed."

	AdviceOldRegime = "✅ Old Regime selected. Keep proofs for HRA and 80C investments."
	AdviceNewRegime = "✅ New Regime selected. No investment proofs are needed."
)

// Auditor applies the fixed compliance rules. It is stateless apart from its
// thresholds and safe for concurrent use.
type Auditor struct {
	rules      domain.AuditRules
	section80C decimal.Decimal
}

// NewAuditor creates an auditor from the rule set
func NewAuditor(rules domain.TaxRules) *Auditor {
	return &Auditor{rules: rules.Audit, section80C: rules.Section80C}
}

// Audit checks a profile and its summary. It accepts profiles that never went
// through validation and always returns a report.
func (a *Auditor) Audit(p domain.TaxpayerProfile, s domain.TaxSummary) domain.ComplianceReport {
	report := domain.ComplianceReport{
		Status:          domain.StatusPass,
		Flags:           []string{},
		Recommendations: []string{},
	}

	// PAN format, counted in characters
	if utf8.RuneCountInString(p.PAN) != a.rules.PANLength {
		report.Flags = append(report.Flags, fmt.Sprintf("❌ Invalid PAN format (must be %d characters).", a.rules.PANLength))
		report.Status = domain.StatusFail
		report.RiskScore += a.rules.InvalidPANScore
	}

	// 80C limit
	if p.Section80C.GreaterThan(a.section80C) {
		report.Flags = append(report.Flags, fmt.Sprintf("⚠️ 80C claim exceeds the ₹%s limit; the excess is ignored.", a.section80C.StringFixed(0)))
		report.Recommendations = append(report.Recommendations, fmt.Sprintf("Restrict the 80C claim to ₹%s to avoid a notice.", a.section80C.StringFixed(0)))
	}

	// Deductions out of proportion to salary
	if p.SalaryIncome.GreaterThan(decimal.Zero) &&
		p.ClaimedDeductions().GreaterThan(p.SalaryIncome.Mul(a.rules.DeductionRatio)) {
		report.Flags = append(report.Flags, fmt.Sprintf("⚠️ Deductions exceed %s%% of salary; this attracts scrutiny.",
			a.rules.DeductionRatio.Mul(decimal.NewFromInt(100)).StringFixed(0)))
		report.RiskScore += a.rules.DeductionRatioScore
	}

	if s.SelectedRegime == domain.RegimeOld {
		report.Recommendations = append(report.Recommendations, AdviceOldRegime)
	} else {
		report.Recommendations = append(report.Recommendations, AdviceNewRegime)
	}

	switch {
	case report.RiskScore == 0:
		report.Message = MessageClean
	case report.RiskScore < a.rules.RiskThreshold:
		report.Message = MessageWarnings
	default:
		// FAIL outranks RISK.
		if report.Status == domain.StatusPass {
			report.Status = domain.StatusRisk
		}
		report.Message = MessageHighRisk
	}

	return report
}

// Permits applies the filing gate to a report.
func (a *Auditor) Permits(report domain.ComplianceReport) bool {
	return report.Permits(a.rules.FilingBlockScore)
}
