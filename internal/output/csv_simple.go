package output

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/rgehrsitz/itrgo/internal/domain"
)

// CSVSummarizer writes one row per regime plus the selection.
type CSVSummarizer struct{}

func (c CSVSummarizer) Name() string { return "csv" }

func (c CSVSummarizer) Format(a *domain.Assessment) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	header := []string{"Regime", "GrossIncome", "Deductions", "TaxableIncome", "Tax", "RebateApplied", "Selected"}
	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, comp := range []domain.RegimeComputation{a.NewRegime, a.OldRegime} {
		row := []string{
			string(comp.Regime),
			comp.GrossIncome.StringFixed(2),
			comp.Deductions.StringFixed(2),
			comp.TaxableIncome.StringFixed(2),
			comp.Tax.StringFixed(2),
			strconv.FormatBool(comp.RebateApplied),
			strconv.FormatBool(comp.Regime == a.Summary.SelectedRegime),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// RecordsCSV renders the filing history for export.
func RecordsCSV(records []domain.StoredRecord) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write([]string{"CreatedAt", "Name", "PAN", "Status", "Income", "Tax"}); err != nil {
		return nil, err
	}
	for _, r := range records {
		row := []string{
			r.CreatedAt.Format(time.RFC3339),
			r.Name,
			r.PAN,
			string(r.Status),
			fmt.Sprintf("%.2f", r.Income),
			fmt.Sprintf("%.2f", r.Tax),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}
