package calculation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rgehrsitz/itrgo/internal/audit"
	"github.com/rgehrsitz/itrgo/internal/config"
	"github.com/rgehrsitz/itrgo/internal/domain"
	"github.com/rgehrsitz/itrgo/internal/filing"
	"github.com/rgehrsitz/itrgo/internal/storage"
)

var (
	// ErrCalculation marks an internal inconsistency in a computed result.
	ErrCalculation = errors.New("calculation error")
	// ErrFilingBlocked is returned when the audit forbids filing.
	ErrFilingBlocked = errors.New("filing blocked by compliance audit")
)

// Engine runs the full assessment pipeline for one submission at a time.
// Calls are independent and may run concurrently.
type Engine struct {
	NewRegime *RegimeCalculator
	OldRegime *RegimeCalculator
	Auditor   *audit.Auditor
	Filing    *filing.Generator
	Store     storage.RecordStore // optional
	Rules     domain.TaxRules
	Logger    Logger
	Now       func() time.Time
}

// NewEngine creates an engine for rules with no record store
func NewEngine(rules domain.TaxRules) *Engine {
	return &Engine{
		NewRegime: NewRegimeCalculatorFor(domain.RegimeNew, rules),
		OldRegime: NewRegimeCalculatorFor(domain.RegimeOld, rules),
		Auditor:   audit.NewAuditor(rules),
		Filing:    filing.NewGenerator(rules),
		Rules:     rules,
		Logger:    NopLogger{},
		Now:       time.Now,
	}
}

// SetLogger sets the engine logger; nil restores the no-op logger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Process validates raw input and evaluates it. A *config.ValidationError is
// returned unchanged and nothing is computed.
func (e *Engine) Process(ctx context.Context, raw domain.RawProfile) (*domain.Assessment, error) {
	profile, err := config.ValidateProfile(raw)
	if err != nil {
		e.Logger.Debugf("rejected profile: %v", err)
		return nil, err
	}
	return e.Evaluate(ctx, profile)
}

// Evaluate computes, audits, and when permitted files and persists an
// already-built profile. Storage failures and payload defects are logged and
// reported through Assessment.Saved and Assessment.FilingError; only an
// inconsistent summary is returned as an error.
func (e *Engine) Evaluate(ctx context.Context, profile domain.TaxpayerProfile) (*domain.Assessment, error) {
	newComp := e.NewRegime.Compute(profile)
	oldComp := e.OldRegime.Compute(profile)
	summary := SelectRegime(profile, newComp, oldComp, e.Rules.CessRate)

	if err := checkSummary(summary); err != nil {
		e.Logger.Errorf("inconsistent summary for %s: %v", profile.PAN, err)
		return nil, err
	}
	e.Logger.Debugf("regimes for %s: new=%s old=%s selected=%s",
		profile.PAN, newComp.Tax.StringFixed(2), oldComp.Tax.StringFixed(2), summary.SelectedRegime)

	report := e.Auditor.Audit(profile, summary)
	summary = summary.WithAuditScore(report.RiskScore)

	assessment := &domain.Assessment{
		Profile:   profile,
		NewRegime: newComp,
		OldRegime: oldComp,
		Summary:   summary,
		Report:    report,
	}

	if !e.Auditor.Permits(report) {
		e.Logger.Warnf("filing blocked for %s: risk score %d", profile.PAN, report.RiskScore)
		assessment.Blocked = true
		return assessment, nil
	}

	payload := e.Filing.Generate(profile, summary)
	if err := filing.VerifySchema(payload); err != nil {
		// The computed tax still goes back; only the payload and the record
		// are withheld.
		e.Logger.Errorf("generated payload for %s failed verification: %v", profile.PAN, err)
		assessment.FilingError = err.Error()
		return assessment, nil
	}
	assessment.Filing = &payload
	assessment.Saved = e.save(ctx, profile, summary, report)
	return assessment, nil
}

// FilingFor returns only the filing payload, or ErrFilingBlocked.
func (e *Engine) FilingFor(ctx context.Context, profile domain.TaxpayerProfile) (*domain.FilingPayload, error) {
	assessment, err := e.Evaluate(ctx, profile)
	if err != nil {
		return nil, err
	}
	if assessment.Blocked {
		return nil, fmt.Errorf("%w: risk score %d", ErrFilingBlocked, assessment.Report.RiskScore)
	}
	if assessment.Filing == nil {
		return nil, fmt.Errorf("%w: %s", ErrCalculation, assessment.FilingError)
	}
	return assessment.Filing, nil
}

func (e *Engine) save(ctx context.Context, p domain.TaxpayerProfile, s domain.TaxSummary, r domain.ComplianceReport) bool {
	if e.Store == nil {
		return false
	}
	rec := domain.StoredRecord{
		Name:      p.Name,
		PAN:       p.PAN,
		Status:    r.Status,
		Income:    p.SalaryIncome.Round(2).InexactFloat64(),
		Tax:       s.FinalTax.Round(2).InexactFloat64(),
		CreatedAt: e.Now(),
	}
	if err := e.Store.Append(ctx, rec); err != nil {
		e.Logger.Errorf("failed to save record for %s: %v", p.PAN, err)
		return false
	}
	e.Logger.Infof("saved record for %s", p.PAN)
	return true
}

// checkSummary guards the arithmetic invariants of a summary.
func checkSummary(s domain.TaxSummary) error {
	if !s.TaxPayable.Add(s.Cess).Equal(s.FinalTax) {
		return fmt.Errorf("%w: tax payable %s + cess %s != final tax %s",
			ErrCalculation, s.TaxPayable, s.Cess, s.FinalTax)
	}
	if !s.FinalTax.Equal(s.NewRegimeTax) && !s.FinalTax.Equal(s.OldRegimeTax) {
		return fmt.Errorf("%w: final tax %s matches neither regime", ErrCalculation, s.FinalTax)
	}
	if s.FinalTax.IsNegative() {
		return fmt.Errorf("%w: negative final tax %s", ErrCalculation, s.FinalTax)
	}
	return nil
}
