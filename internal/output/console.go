package output

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rgehrsitz/itrgo/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	colorPrimary = lipgloss.Color("#2E86AB")
	colorSuccess = lipgloss.Color("#3BB273")
	colorWarning = lipgloss.Color("#F18F01")
	colorDanger  = lipgloss.Color("#C73E1D")
	colorMuted   = lipgloss.Color("#8D99AE")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	valueStyle   = lipgloss.NewStyle().Bold(true)
	boxStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorPrimary).Padding(0, 1)
)

func statusStyle(s domain.ComplianceStatus) lipgloss.Style {
	switch s {
	case domain.StatusPass:
		return lipgloss.NewStyle().Bold(true).Foreground(colorSuccess)
	case domain.StatusRisk:
		return lipgloss.NewStyle().Bold(true).Foreground(colorWarning)
	default:
		return lipgloss.NewStyle().Bold(true).Foreground(colorDanger)
	}
}

// ConsoleFormatter renders the full styled report.
type ConsoleFormatter struct{}

func (c ConsoleFormatter) Name() string { return "console" }

func (c ConsoleFormatter) Format(a *domain.Assessment) ([]byte, error) {
	var b strings.Builder

	b.WriteString(titleStyle.Render("INCOME TAX ASSESSMENT"))
	b.WriteString("\n\n")

	p := a.Profile
	b.WriteString(sectionStyle.Render("Taxpayer"))
	b.WriteString("\n")
	writeRow(&b, "Name", p.Name)
	writeRow(&b, "PAN", p.PAN)
	writeRow(&b, "Age", fmt.Sprint(p.Age))
	writeRow(&b, "Salary", FormatCurrency(p.SalaryIncome))
	writeRow(&b, "Interest", FormatCurrency(p.InterestIncome))
	writeRow(&b, "80C claimed", FormatCurrency(p.Section80C))
	writeRow(&b, "80D claimed", FormatCurrency(p.Section80D))
	b.WriteString("\n")

	b.WriteString(sectionStyle.Render("Regime comparison"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%-22s %18s %18s\n", "", "New", "Old")
	writeCompare(&b, "Deductions", a.NewRegime.Deductions, a.OldRegime.Deductions)
	writeCompare(&b, "Taxable income", a.NewRegime.TaxableIncome, a.OldRegime.TaxableIncome)
	writeCompare(&b, "Tax", a.NewRegime.Tax, a.OldRegime.Tax)
	b.WriteString("\n")

	s := a.Summary
	verdict := fmt.Sprintf("%s Regime selected, saving %s", s.SelectedRegime, FormatCurrency(s.Savings))
	lines := []string{
		valueStyle.Render(verdict),
		fmt.Sprintf("%s %s", labelStyle.Render("Final tax:  "), FormatCurrency(s.FinalTax)),
		fmt.Sprintf("%s %s", labelStyle.Render("Tax payable:"), FormatCurrency(s.TaxPayable)),
		fmt.Sprintf("%s %s", labelStyle.Render("Cess:       "), FormatCurrency(s.Cess)),
	}
	b.WriteString(boxStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")
	for _, note := range s.Notes {
		fmt.Fprintf(&b, "Note: %s\n", note)
	}
	b.WriteString("\n")

	r := a.Report
	b.WriteString(sectionStyle.Render("Compliance audit"))
	b.WriteString("\n")
	writeRow(&b, "Status", statusStyle(r.Status).Render(string(r.Status)))
	writeRow(&b, "Risk score", fmt.Sprint(r.RiskScore))
	for _, f := range r.Flags {
		fmt.Fprintf(&b, "  %s\n", f)
	}
	for _, rec := range r.Recommendations {
		fmt.Fprintf(&b, "  • %s\n", rec)
	}
	fmt.Fprintf(&b, "%s\n\n", r.Message)

	switch {
	case a.Blocked:
		b.WriteString(statusStyle(domain.StatusFail).Render("Filing blocked: fix the flagged issues first."))
	case a.Filing != nil:
		fmt.Fprintf(&b, "Filing payload ready (submission %s)", a.Filing.FilingMetadata.SubmissionID)
	case a.FilingError != "":
		b.WriteString(statusStyle(domain.StatusRisk).Render("Filing payload unavailable: " + a.FilingError))
	}
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("KEY ASSUMPTIONS:"))
	b.WriteString("\n")
	for _, line := range DefaultAssumptions {
		fmt.Fprintf(&b, "• %s\n", line)
	}
	return []byte(b.String()), nil
}

func writeRow(b *strings.Builder, label, value string) {
	fmt.Fprintf(b, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-14s", label+":")), value)
}

func writeCompare(b *strings.Builder, label string, newValue, oldValue decimal.Decimal) {
	fmt.Fprintf(b, "%-22s %18s %18s\n", label, FormatCurrency(newValue), FormatCurrency(oldValue))
}

// ConsoleLiteFormatter prints a few plain lines.
type ConsoleLiteFormatter struct{}

func (c ConsoleLiteFormatter) Name() string { return "console-lite" }

func (c ConsoleLiteFormatter) Format(a *domain.Assessment) ([]byte, error) {
	var b strings.Builder
	s := a.Summary
	fmt.Fprintln(&b, "TAX SUMMARY")
	fmt.Fprintf(&b, "New regime tax: %s\n", FormatCurrency(s.NewRegimeTax))
	fmt.Fprintf(&b, "Old regime tax: %s\n", FormatCurrency(s.OldRegimeTax))
	fmt.Fprintf(&b, "Selected: %s (Δ %s)\n", s.SelectedRegime, FormatCurrency(s.Savings))
	fmt.Fprintf(&b, "Audit: %s, risk %d\n", a.Report.Status, a.Report.RiskScore)
	return []byte(b.String()), nil
}
