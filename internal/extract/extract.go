// Package extract pulls profile fields out of recognised document text
// (Form 16, salary slips). It does not perform OCR itself.
package extract

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/rgehrsitz/itrgo/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyDocument  = errors.New("document is empty")
	ErrBinaryDocument = errors.New("document is not readable text")
)

var (
	panRe    = regexp.MustCompile(`[A-Z]{5}[0-9]{4}[A-Z]`)
	nameRe   = regexp.MustCompile(`(?im)^\s*name\s*:\s*(.+?)\s*$`)
	numberRe = regexp.MustCompile(`\d+`)

	salaryKeywords = []string{"salary", "income", "gross", "net pay", "total"}
)

// Document is an uploaded file's recognised text.
type Document struct {
	Filename string `json:"filename"`
	Text     string `json:"text"`
}

// Extraction is a best-effort read of a document. Fields that could not be
// found stay blank or zero; Err is set when the document could not be read.
type Extraction struct {
	Name       string          `json:"name"`
	PAN        string          `json:"pan"`
	Salary     decimal.Decimal `json:"salary"`
	Section80C decimal.Decimal `json:"section_80c"`
	Text       string          `json:"text"`
	Err        string          `json:"error,omitempty"`
}

// Extractor reads profile fields from a document.
type Extractor interface {
	Extract(ctx context.Context, doc Document) Extraction
}

// TextExtractor matches fields with fixed patterns.
type TextExtractor struct {
	// MinSalary skips years and ids: only numbers above it count as salary.
	MinSalary decimal.Decimal
}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{MinSalary: decimal.NewFromInt(50000)}
}

func (x *TextExtractor) Extract(ctx context.Context, doc Document) Extraction {
	out := Extraction{Text: doc.Text}
	if err := ctx.Err(); err != nil {
		out.Err = err.Error()
		return out
	}
	switch {
	case strings.TrimSpace(doc.Text) == "":
		out.Err = ErrEmptyDocument.Error()
		return out
	case !utf8.ValidString(doc.Text) || strings.ContainsRune(doc.Text, 0):
		out.Err = ErrBinaryDocument.Error()
		out.Text = ""
		return out
	}

	out.PAN = panRe.FindString(doc.Text)
	if m := nameRe.FindStringSubmatch(doc.Text); m != nil {
		out.Name = m[1]
	}

	for _, line := range strings.Split(doc.Text, "\n") {
		clean := strings.ToLower(strings.ReplaceAll(line, ",", ""))

		// 80C lines often say "total" too; never read them as salary.
		if strings.Contains(clean, "80c") {
			if out.Section80C.IsZero() {
				if n, ok := firstNumber(strings.ReplaceAll(clean, "80c", ""), decimal.Zero); ok {
					out.Section80C = n
				}
			}
			continue
		}
		if out.Salary.IsZero() && containsAny(clean, salaryKeywords) {
			if n, ok := firstNumber(clean, x.MinSalary); ok {
				out.Salary = n
			}
		}
	}
	return out
}

// Prefill turns an extraction into form input. Missing values stay blank.
func (e Extraction) Prefill() domain.RawProfile {
	raw := domain.RawProfile{Name: e.Name, PAN: e.PAN}
	if e.Salary.IsPositive() {
		raw.SalaryIncome = e.Salary.String()
	}
	if e.Section80C.IsPositive() {
		raw.Section80C = e.Section80C.String()
	}
	return raw
}

func firstNumber(line string, above decimal.Decimal) (decimal.Decimal, bool) {
	for _, s := range numberRe.FindAllString(line, -1) {
		n, err := decimal.NewFromString(s)
		if err == nil && n.GreaterThan(above) {
			return n, true
		}
	}
	return decimal.Zero, false
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
