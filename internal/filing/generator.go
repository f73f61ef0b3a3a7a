// Package filing builds the government filing payload from an assessed
// profile and checks it against the published document shape.
package filing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/itrgo/internal/domain"
	"github.com/shopspring/decimal"
)

const taxpayerStatus = "INDIVIDUAL"

// Generator produces filing payloads. NewID and Now are replaceable for tests.
type Generator struct {
	Rules domain.FilingRules
	Cap   decimal.Decimal // Section 80C limit reported in the payload

	NewID func() string
	Now   func() time.Time
}

// NewGenerator creates a generator that uses random UUIDs and the wall clock
func NewGenerator(rules domain.TaxRules) *Generator {
	return &Generator{
		Rules: rules.Filing,
		Cap:   rules.Section80C,
		NewID: uuid.NewString,
		Now:   time.Now,
	}
}

// Generate builds the payload. Each call gets a fresh submission id.
func (g *Generator) Generate(p domain.TaxpayerProfile, s domain.TaxSummary) domain.FilingPayload {
	return domain.FilingPayload{
		FilingMetadata: domain.FilingMetadata{
			AssessmentYear: g.Rules.AssessmentYear,
			SchemaVersion:  g.Rules.SchemaVersion,
			SubmissionID:   g.NewID(),
			Timestamp:      g.Now(),
		},
		TaxpayerProfile: domain.FilingTaxpayer{
			PAN:    p.PAN,
			Name:   p.Name,
			Age:    p.Age,
			Status: taxpayerStatus,
		},
		IncomeDetails: domain.IncomeDetails{
			GrossSalary:      amount(p.SalaryIncome),
			ExemptIncome:     0,
			NetTaxableIncome: amount(s.TaxableIncome),
		},
		Deductions: domain.FilingDeduction{
			Section80C:      amount(decimal.Min(p.Section80C, g.Cap)),
			Section80D:      amount(p.Section80D),
			TotalDeductions: amount(s.TotalDeductions),
		},
		TaxComputation: domain.TaxComputation{
			RegimeSelected: s.SelectedRegime,
			TaxPayable:     amount(s.TaxPayable),
			Cess:           amount(s.Cess),
			TotalLiability: amount(s.FinalTax),
		},
		Verification: domain.Verification{
			Declaration:  g.Rules.Declaration,
			VerifiedByAI: true,
			RiskScore:    s.AuditScore,
		},
	}
}

// Render encodes the payload as JSON indented by four spaces.
func Render(payload domain.FilingPayload) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "    ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, fmt.Errorf("failed to encode filing payload: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

func amount(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}
