package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/itrgo/internal/domain"
)

// HTMLFormatter renders an assessment as a printable page: both regimes side
// by side with the selected one highlighted, the tax split into payable and
// cess, the audit findings, and whether a filing payload was produced.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"pct":  FormatPercentage,
}).Parse(htmlTemplateSource))

// regimeRow is one line of the regime comparison table.
type regimeRow struct {
	domain.RegimeComputation
	Name     domain.Regime
	Selected bool
}

// assessmentPage is the data the report template sees.
type assessmentPage struct {
	*domain.Assessment
	Regimes     []regimeRow
	Selected    domain.RegimeComputation
	Assumptions []string
}

func newAssessmentPage(a *domain.Assessment) assessmentPage {
	page := assessmentPage{Assessment: a, Assumptions: DefaultAssumptions}
	for _, rc := range []struct {
		name domain.Regime
		comp domain.RegimeComputation
	}{
		{domain.RegimeNew, a.NewRegime},
		{domain.RegimeOld, a.OldRegime},
	} {
		selected := a.Summary.SelectedRegime == rc.name
		if selected {
			page.Selected = rc.comp
		}
		page.Regimes = append(page.Regimes, regimeRow{RegimeComputation: rc.comp, Name: rc.name, Selected: selected})
	}
	return page
}

func (h HTMLFormatter) Format(a *domain.Assessment) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, newAssessmentPage(a)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
