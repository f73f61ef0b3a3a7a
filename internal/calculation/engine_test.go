package calculation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rgehrsitz/itrgo/internal/config"
	"github.com/rgehrsitz/itrgo/internal/domain"
	"github.com/rgehrsitz/itrgo/internal/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLogger records messages by level.
type TestLogger struct {
	Debugs, Infos, Warns, Errors []string
}

func (l *TestLogger) Debugf(format string, args ...any) {
	l.Debugs = append(l.Debugs, fmt.Sprintf(format, args...))
}
func (l *TestLogger) Infof(format string, args ...any) {
	l.Infos = append(l.Infos, fmt.Sprintf(format, args...))
}
func (l *TestLogger) Warnf(format string, args ...any) {
	l.Warns = append(l.Warns, fmt.Sprintf(format, args...))
}
func (l *TestLogger) Errorf(format string, args ...any) {
	l.Errors = append(l.Errors, fmt.Sprintf(format, args...))
}

type failingStore struct{}

func (failingStore) Append(context.Context, domain.StoredRecord) error {
	return errors.New("database is locked")
}
func (failingStore) ListAll(context.Context) ([]domain.StoredRecord, error) { return nil, nil }

var engineNow = time.Date(2025, 7, 20, 12, 0, 0, 0, time.UTC)

func newTestEngine(store storage.RecordStore) (*Engine, *TestLogger) {
	engine := NewEngine(domain.DefaultTaxRules())
	engine.Store = store
	engine.Now = func() time.Time { return engineNow }
	logger := &TestLogger{}
	engine.SetLogger(logger)
	return engine, logger
}

func exampleRaw() domain.RawProfile {
	return domain.RawProfile{
		Name:         "Ravi Kumar",
		PAN:          "ABCDE1234F",
		Age:          "25",
		SalaryIncome: "850000",
		Section80C:   "150000",
	}
}

func TestNewEngine(t *testing.T) {
	engine := NewEngine(domain.DefaultTaxRules())

	assert.NotNil(t, engine.NewRegime)
	assert.NotNil(t, engine.OldRegime)
	assert.NotNil(t, engine.Auditor)
	assert.NotNil(t, engine.Filing)
	assert.Nil(t, engine.Store)
	assert.IsType(t, NopLogger{}, engine.Logger)
}

func TestEngine_SetLogger(t *testing.T) {
	engine := NewEngine(domain.DefaultTaxRules())

	customLogger := &TestLogger{}
	engine.SetLogger(customLogger)
	assert.Equal(t, customLogger, engine.Logger, "Should set custom logger")

	engine.SetLogger(nil)
	assert.IsType(t, NopLogger{}, engine.Logger, "Should be no-op logger")
}

func TestEngine_ProcessExample1(t *testing.T) {
	store := storage.NewMemoryStore()
	engine, _ := newTestEngine(store)

	a, err := engine.Process(context.Background(), exampleRaw())
	require.NoError(t, err)

	assert.Equal(t, domain.RegimeNew, a.Summary.SelectedRegime)
	assertDecimal(t, "27500", a.Summary.FinalTax)
	assertDecimal(t, "42500", a.Summary.OldRegimeTax)
	assert.Equal(t, 0, a.Summary.AuditScore)
	assert.Equal(t, domain.StatusPass, a.Report.Status)
	assert.False(t, a.Blocked)
	assert.True(t, a.Saved)

	require.NotNil(t, a.Filing)
	assert.Equal(t, domain.RegimeNew, a.Filing.TaxComputation.RegimeSelected)
	assert.Equal(t, 27500.0, a.Filing.TaxComputation.TotalLiability)
	assert.Equal(t, 26442.31, a.Filing.TaxComputation.TaxPayable)
	assert.Equal(t, 1057.69, a.Filing.TaxComputation.Cess)

	records, err := store.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.StoredRecord{
		Name:      "Ravi Kumar",
		PAN:       "ABCDE1234F",
		Status:    domain.StatusPass,
		Income:    850000,
		Tax:       27500,
		CreatedAt: engineNow,
	}, records[0])
}

func TestEngine_ProcessRejectsInvalidInput(t *testing.T) {
	store := storage.NewMemoryStore()
	engine, _ := newTestEngine(store)

	raw := exampleRaw()
	raw.PAN = "AB"
	raw.Age = "16"

	a, err := engine.Process(context.Background(), raw)
	assert.Nil(t, a)

	var verr *config.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.GreaterOrEqual(t, len(verr.Violations), 3)

	records, _ := store.ListAll(context.Background())
	assert.Empty(t, records, "Nothing is computed or saved for invalid input")
}

func TestEngine_InvalidPANBlocksEverything(t *testing.T) {
	store := storage.NewMemoryStore()
	engine, logger := newTestEngine(store)

	profile := domain.TaxpayerProfile{
		Name:         "Short Pan",
		PAN:          "AB",
		Age:          30,
		SalaryIncome: decimal.NewFromInt(850000),
	}

	a, err := engine.Evaluate(context.Background(), profile)
	require.NoError(t, err)

	assert.Equal(t, domain.StatusFail, a.Report.Status)
	assert.Equal(t, 100, a.Report.RiskScore)
	assert.Equal(t, 100, a.Summary.AuditScore)
	assert.True(t, a.Blocked)
	assert.False(t, a.Saved)
	assert.Nil(t, a.Filing)
	assert.NotEmpty(t, logger.Warns)

	records, _ := store.ListAll(context.Background())
	assert.Empty(t, records)

	_, err = engine.FilingFor(context.Background(), profile)
	assert.ErrorIs(t, err, ErrFilingBlocked)
}

func TestEngine_StorageFailureIsSwallowed(t *testing.T) {
	engine, logger := newTestEngine(failingStore{})

	a, err := engine.Process(context.Background(), exampleRaw())
	require.NoError(t, err)

	assert.False(t, a.Saved)
	assert.NotNil(t, a.Filing, "Payload is still offered")
	assertDecimal(t, "27500", a.Summary.FinalTax)
	require.Len(t, logger.Errors, 1)
	assert.Contains(t, logger.Errors[0], "database is locked")
}

func TestEngine_NoStore(t *testing.T) {
	engine := NewEngine(domain.DefaultTaxRules())

	a, err := engine.Process(context.Background(), exampleRaw())
	require.NoError(t, err)
	assert.False(t, a.Saved)
	assert.NotNil(t, a.Filing)
}

func TestEngine_RiskTierStillFiles(t *testing.T) {
	engine, _ := newTestEngine(storage.NewMemoryStore())

	raw := exampleRaw()
	raw.SalaryIncome = "200000"
	raw.Section80C = "100000"
	raw.Section80D = "25000"

	a, err := engine.Process(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 30, a.Report.RiskScore)
	assert.False(t, a.Blocked)
	require.NotNil(t, a.Filing)
	assert.Equal(t, 30, a.Filing.Verification.RiskScore)
}

func TestEngine_FilingFor(t *testing.T) {
	engine, _ := newTestEngine(nil)
	profile, err := config.ValidateProfile(exampleRaw())
	require.NoError(t, err)

	payload, err := engine.FilingFor(context.Background(), profile)
	require.NoError(t, err)
	assert.Equal(t, "ABCDE1234F", payload.TaxpayerProfile.PAN)
	assert.Equal(t, "INDIVIDUAL", payload.TaxpayerProfile.Status)
}

// Evaluate trusts its input; an age the validator would reject yields a
// payload the schema refuses.
func minorProfile() domain.TaxpayerProfile {
	return domain.TaxpayerProfile{
		Name:         "Minor",
		PAN:          "ABCDE1234F",
		Age:          12,
		SalaryIncome: decimal.NewFromInt(850000),
		Section80C:   decimal.NewFromInt(150000),
	}
}

func TestEngine_PayloadDefectKeepsComputedTax(t *testing.T) {
	store := storage.NewMemoryStore()
	engine, logger := newTestEngine(store)

	a, err := engine.Evaluate(context.Background(), minorProfile())
	require.NoError(t, err)
	require.NotNil(t, a)

	assert.Equal(t, domain.RegimeNew, a.Summary.SelectedRegime)
	assertDecimal(t, "27500", a.Summary.FinalTax)
	assert.Equal(t, domain.StatusPass, a.Report.Status)
	assert.False(t, a.Blocked)
	assert.Nil(t, a.Filing)
	assert.Contains(t, a.FilingError, "schema validation failed")
	assert.False(t, a.Saved)
	assert.NotEmpty(t, logger.Errors)

	records, _ := store.ListAll(context.Background())
	assert.Empty(t, records)
}

func TestEngine_FilingForPayloadDefect(t *testing.T) {
	engine, _ := newTestEngine(nil)

	payload, err := engine.FilingFor(context.Background(), minorProfile())
	assert.Nil(t, payload)
	assert.ErrorIs(t, err, ErrCalculation)
	assert.NotErrorIs(t, err, ErrFilingBlocked)
}

func TestCheckSummary(t *testing.T) {
	good := SelectRegime(domain.TaxpayerProfile{SalaryIncome: decimal.NewFromInt(850000)},
		NewNewRegimeCalculator().Compute(domain.TaxpayerProfile{SalaryIncome: decimal.NewFromInt(850000)}),
		NewOldRegimeCalculator().Compute(domain.TaxpayerProfile{SalaryIncome: decimal.NewFromInt(850000)}),
		decimal.NewFromFloat(0.04))
	require.NoError(t, checkSummary(good))

	bad := good
	bad.Cess = bad.Cess.Add(decimal.NewFromInt(1))
	assert.ErrorIs(t, checkSummary(bad), ErrCalculation)

	bad = good
	bad.FinalTax = decimal.NewFromInt(1)
	bad.TaxPayable = bad.FinalTax
	bad.Cess = decimal.Zero
	assert.ErrorIs(t, checkSummary(bad), ErrCalculation)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "expected %s, got %s", want, got)
}
