package config

import (
	"fmt"
	"os"

	"github.com/rgehrsitz/itrgo/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// LoadRules reads a rules file over the built-in defaults. An empty filename
// returns the defaults.
func (ip *InputParser) LoadRules(filename string) (domain.TaxRules, error) {
	rules := domain.DefaultTaxRules()
	if filename == "" {
		return rules, nil
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return rules, fmt.Errorf("failed to read rules file %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if err := ValidateRules(rules); err != nil {
		return rules, fmt.Errorf("rules validation failed: %w", err)
	}
	return rules, nil
}

// ValidateRules checks the rule set for internal consistency.
func ValidateRules(rules domain.TaxRules) error {
	if err := validateRegime("new_regime", rules.NewRegime); err != nil {
		return err
	}
	if err := validateRegime("old_regime", rules.OldRegime); err != nil {
		return err
	}
	if rules.Section80C.IsNegative() {
		return fmt.Errorf("section 80C cap cannot be negative")
	}
	if !isRate(rules.CessRate) {
		return fmt.Errorf("cess rate must be between 0 and 1")
	}
	if rules.Audit.PANLength <= 0 {
		return fmt.Errorf("audit PAN length must be positive")
	}
	if !isRate(rules.Audit.DeductionRatio) {
		return fmt.Errorf("audit deduction ratio must be between 0 and 1")
	}
	if rules.Audit.RiskThreshold <= 0 || rules.Audit.FilingBlockScore <= 0 {
		return fmt.Errorf("audit thresholds must be positive")
	}
	if rules.Filing.AssessmentYear == "" || rules.Filing.SchemaVersion == "" {
		return fmt.Errorf("filing assessment year and schema version are required")
	}
	return nil
}

func validateRegime(name string, r domain.RegimeRules) error {
	if r.StandardDeduction.IsNegative() {
		return fmt.Errorf("%s: standard deduction cannot be negative", name)
	}
	if r.RebateLimit.IsNegative() {
		return fmt.Errorf("%s: rebate limit cannot be negative", name)
	}
	if len(r.Slabs) == 0 {
		return fmt.Errorf("%s: at least one slab is required", name)
	}
	for i, s := range r.Slabs {
		if !isRate(s.Rate) {
			return fmt.Errorf("%s: slab %d rate must be between 0 and 1", name, i)
		}
		if s.Max == nil {
			if i != len(r.Slabs)-1 {
				return fmt.Errorf("%s: only the last slab may be open-ended", name)
			}
			continue
		}
		if !s.Max.GreaterThan(s.Min) {
			return fmt.Errorf("%s: slab %d max must exceed min", name, i)
		}
		if i > 0 && r.Slabs[i-1].Max != nil && !s.Min.Equal(*r.Slabs[i-1].Max) {
			return fmt.Errorf("%s: slab %d must start where slab %d ends", name, i, i-1)
		}
	}
	return nil
}

func isRate(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(decimal.NewFromInt(1))
}
