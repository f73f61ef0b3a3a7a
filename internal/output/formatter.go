package output

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rgehrsitz/itrgo/internal/domain"
)

// Formatter renders an assessment in one output format.
type Formatter interface {
	Name() string
	Format(a *domain.Assessment) ([]byte, error)
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc struct {
	ID string
	F  func(a *domain.Assessment) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(a *domain.Assessment) ([]byte, error) { return f.F(a) }

var formatters = map[string]Formatter{}

var aliases = map[string]string{
	"verbose": "console",
	"text":    "console-lite",
	"itr":     "filing-json",
	"filing":  "filing-json",
	"payload": "filing-json",
}

func register(f Formatter) {
	formatters[f.Name()] = f
}

func init() {
	register(ConsoleFormatter{})
	register(ConsoleLiteFormatter{})
	register(JSONFormatter{})
	register(FilingJSONFormatter{})
	register(CSVSummarizer{})
	register(HTMLFormatter{})
}

// GetFormatterByName returns the formatter for a name or alias, or nil.
func GetFormatterByName(name string) Formatter {
	if target, ok := aliases[name]; ok {
		name = target
	}
	return formatters[name]
}

// AvailableFormatterNames lists registered formatter names, sorted.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists the accepted aliases, sorted.
func AvailableFormatAliases() []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted formats a and writes it to a timestamped file in the
// working directory, returning the file name.
func WriteFormatted(f Formatter, a *domain.Assessment, ext string) (string, error) {
	data, err := f.Format(a)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("itr_assessment_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}
