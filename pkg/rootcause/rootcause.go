// Package rootcause collects an Ishikawa (6M) analysis with five "why"
// answers per marked category and encodes it into a single string.
package rootcause

import (
	"errors"
	"fmt"
	"strings"
)

// Categories are the six fixed Ishikawa categories, in encoding order.
var Categories = []string{
	"Máquina",
	"Método",
	"Material",
	"Mano de obra",
	"Medio ambiente",
	"Medición",
}

// Whys is the number of answers collected per category.
const Whys = 5

const (
	categorySep = ";;"
	headerSep   = ":|"
	answerSep   = "||"
)

var (
	ErrUnknownCategory = errors.New("unknown root cause category")
	ErrTooManyAnswers  = errors.New("too many answers")
	ErrMalformed       = errors.New("malformed root cause encoding")
)

// Analysis maps a marked category to its answers. Unmarked categories are
// absent.
type Analysis map[string][]string

// Collector accumulates answers for marked categories.
type Collector struct {
	answers Analysis
}

// NewCollector returns an empty collector.
func NewCollector() *Collector {
	return &Collector{answers: Analysis{}}
}

// Mark records the answers of one category, replacing earlier ones. Answers
// are trimmed and padded with empty strings up to Whys.
func (c *Collector) Mark(category string, answers []string) error {
	if !IsCategory(category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	if len(answers) > Whys {
		return fmt.Errorf("%w: %d for %q", ErrTooManyAnswers, len(answers), category)
	}
	out := make([]string, Whys)
	for i, a := range answers {
		out[i] = strings.TrimSpace(a)
	}
	c.answers[category] = out
	return nil
}

// Unmark removes a category.
func (c *Collector) Unmark(category string) {
	delete(c.answers, category)
}

// Analysis returns a copy of the collected answers.
func (c *Collector) Analysis() Analysis {
	out := make(Analysis, len(c.answers))
	for k, v := range c.answers {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// Encode returns the serialized analysis.
func (c *Collector) Encode() string {
	return Encode(c.answers)
}

// FromAnalysis builds a collector from a category→answers map.
func FromAnalysis(a Analysis) (*Collector, error) {
	c := NewCollector()
	for category, answers := range a {
		if err := c.Mark(category, answers); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// IsCategory reports whether name is one of Categories.
func IsCategory(name string) bool {
	for _, c := range Categories {
		if c == name {
			return true
		}
	}
	return false
}

// Encode serializes marked categories in the fixed category order:
// "<category>:|a1||a2||a3||a4||a5", categories joined with ";;".
func Encode(a Analysis) string {
	parts := make([]string, 0, len(a))
	for _, category := range Categories {
		answers, ok := a[category]
		if !ok {
			continue
		}
		parts = append(parts, category+headerSep+strings.Join(answers, answerSep))
	}
	return strings.Join(parts, categorySep)
}

// Decode parses a string produced by Encode.
func Decode(s string) (Analysis, error) {
	out := Analysis{}
	if s == "" {
		return out, nil
	}
	for _, part := range strings.Split(s, categorySep) {
		category, rest, ok := strings.Cut(part, headerSep)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrMalformed, part)
		}
		if !IsCategory(category) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCategory, category)
		}
		out[category] = strings.Split(rest, answerSep)
	}
	return out, nil
}

// Format renders the analysis as the numbered summary shown to operators.
func Format(a Analysis) string {
	var b strings.Builder
	for _, category := range Categories {
		answers, ok := a[category]
		if !ok {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "--- %s ---", category)
		for i, answer := range answers {
			fmt.Fprintf(&b, "\n%d) %s", i+1, answer)
		}
	}
	return b.String()
}
