package output

import (
	"encoding/json"
	"errors"

	"github.com/rgehrsitz/itrgo/internal/domain"
	"github.com/rgehrsitz/itrgo/internal/filing"
)

// ErrNoFiling is returned when an assessment without a payload is asked for
// one, either because filing is blocked or because generation failed.
var ErrNoFiling = errors.New("assessment has no filing payload")

// JSONFormatter emits the whole assessment.
type JSONFormatter struct{}

func (j JSONFormatter) Name() string { return "json" }

func (j JSONFormatter) Format(a *domain.Assessment) ([]byte, error) {
	return json.MarshalIndent(a, "", "  ")
}

// FilingJSONFormatter emits only the government filing payload.
type FilingJSONFormatter struct{}

func (f FilingJSONFormatter) Name() string { return "filing-json" }

func (f FilingJSONFormatter) Format(a *domain.Assessment) ([]byte, error) {
	if a.Filing == nil {
		return nil, ErrNoFiling
	}
	return filing.Render(*a.Filing)
}
