package audit

import (
	"testing"

	"github.com/rgehrsitz/itrgo/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func profile(pan string, salary, c80, d80 int64) domain.TaxpayerProfile {
	return domain.TaxpayerProfile{
		Name:         "Test Payer",
		PAN:          pan,
		Age:          30,
		SalaryIncome: decimal.NewFromInt(salary),
		Section80C:   decimal.NewFromInt(c80),
		Section80D:   decimal.NewFromInt(d80),
	}
}

func summary(regime domain.Regime) domain.TaxSummary {
	return domain.TaxSummary{SelectedRegime: regime}
}

func TestAudit_CleanReturn(t *testing.T) {
	a := NewAuditor(domain.DefaultTaxRules())

	report := a.Audit(profile("ABCDE1234F", 850000, 150000, 0), summary(domain.RegimeNew))

	assert.Equal(t, domain.StatusPass, report.Status)
	assert.Equal(t, 0, report.RiskScore)
	assert.Empty(t, report.Flags)
	assert.Equal(t, []string{AdviceNewRegime}, report.Recommendations)
	assert.Equal(t, MessageClean, report.Message)
	assert.True(t, a.Permits(report))
}

func TestAudit_InvalidPAN(t *testing.T) {
	a := NewAuditor(domain.DefaultTaxRules())

	report := a.Audit(profile("AB", 850000, 0, 0), summary(domain.RegimeOld))

	assert.Equal(t, domain.StatusFail, report.Status)
	assert.Equal(t, 100, report.RiskScore)
	assert.Len(t, report.Flags, 1)
	assert.Contains(t, report.Flags[0], "Invalid PAN")
	assert.Equal(t, MessageHighRisk, report.Message)
	assert.False(t, a.Permits(report), "Invalid PAN must block filing and persistence")
}

func TestAudit_PANLengthCountsCharacters(t *testing.T) {
	a := NewAuditor(domain.DefaultTaxRules())

	// Ten characters, eleven bytes.
	report := a.Audit(profile("ÄBCDE1234F", 850000, 0, 0), summary(domain.RegimeNew))
	assert.Equal(t, domain.StatusPass, report.Status)
	assert.Zero(t, report.RiskScore)
	assert.Empty(t, report.Flags)

	// Nine characters, ten bytes.
	report = a.Audit(profile("ÄBCD1234F", 850000, 0, 0), summary(domain.RegimeNew))
	assert.Equal(t, domain.StatusFail, report.Status)
	assert.Contains(t, report.Flags[0], "Invalid PAN")
}

func TestAudit_InvalidPANStaysFailWithOtherRules(t *testing.T) {
	a := NewAuditor(domain.DefaultTaxRules())

	report := a.Audit(profile("ABCDE1234FX", 100000, 200000, 50000), summary(domain.RegimeOld))

	assert.Equal(t, domain.StatusFail, report.Status)
	assert.Equal(t, 130, report.RiskScore, "Scores accumulate without a cap")
	assert.Len(t, report.Flags, 3)
}

func TestAudit_80CCapAndRatioAreIndependent(t *testing.T) {
	a := NewAuditor(domain.DefaultTaxRules())

	t.Run("cap only", func(t *testing.T) {
		report := a.Audit(profile("ABCDE1234F", 1000000, 200000, 0), summary(domain.RegimeNew))
		assert.Equal(t, 0, report.RiskScore)
		assert.Len(t, report.Flags, 1)
		assert.Contains(t, report.Flags[0], "80C")
		assert.Len(t, report.Recommendations, 2)
		assert.Contains(t, report.Recommendations[0], "Restrict the 80C claim")
		assert.Equal(t, MessageClean, report.Message, "The cap warning carries no score")
	})

	t.Run("ratio only", func(t *testing.T) {
		report := a.Audit(profile("ABCDE1234F", 200000, 100000, 10000), summary(domain.RegimeOld))
		assert.Equal(t, 30, report.RiskScore)
		assert.Equal(t, domain.StatusPass, report.Status)
		assert.Equal(t, MessageWarnings, report.Message)
		assert.Equal(t, []string{AdviceOldRegime}, report.Recommendations)
	})

	t.Run("both", func(t *testing.T) {
		report := a.Audit(profile("ABCDE1234F", 300000, 160000, 0), summary(domain.RegimeOld))
		assert.Equal(t, 30, report.RiskScore)
		assert.Len(t, report.Flags, 2)
		assert.Contains(t, report.Flags[0], "80C")
		assert.Contains(t, report.Flags[1], "Deductions exceed 50%")
	})
}

func TestAudit_RatioBoundaryAndZeroSalary(t *testing.T) {
	a := NewAuditor(domain.DefaultTaxRules())

	exactlyHalf := a.Audit(profile("ABCDE1234F", 200000, 100000, 0), summary(domain.RegimeOld))
	assert.Equal(t, 0, exactlyHalf.RiskScore, "Exactly 50% does not trigger the rule")

	noSalary := a.Audit(profile("ABCDE1234F", 0, 100000, 0), summary(domain.RegimeOld))
	assert.Equal(t, 0, noSalary.RiskScore, "Rule requires a positive salary")
}

func TestAudit_RiskTierStillPermitted(t *testing.T) {
	rules := domain.DefaultTaxRules()
	rules.Audit.DeductionRatioScore = 60
	a := NewAuditor(rules)

	report := a.Audit(profile("ABCDE1234F", 200000, 150000, 0), summary(domain.RegimeOld))

	assert.Equal(t, domain.StatusRisk, report.Status)
	assert.Equal(t, MessageHighRisk, report.Message)
	assert.True(t, a.Permits(report), "Scores below the block score pass the gate")
}

func TestReportPermits(t *testing.T) {
	assert.True(t, domain.ComplianceReport{RiskScore: 99}.Permits(100))
	assert.False(t, domain.ComplianceReport{RiskScore: 100}.Permits(100))
	assert.False(t, domain.ComplianceReport{RiskScore: 130}.Permits(100))
}
