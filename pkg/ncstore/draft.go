package ncstore

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"p9e.in/ncac/models"
	"p9e.in/ncac/pkg/form"
)

// Draft is everything a form session hands over on save.
type Draft struct {
	// Values holds the text of every chain field, keyed by field name.
	Values       map[string]string
	Observations string
	RootCause    string
	Actions      []models.CorrectiveAction
	// Attachments are stored filenames of this session; every action row
	// carries the full list.
	Attachments []string
}

// ParseNumber validates the business key text.
func ParseNumber(text string) (int64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("%w: the NC number is required", ErrInvalidInput)
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: the NC number must be an integer, got %q", ErrInvalidInput, text)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%w: the NC number must be positive, got %d", ErrInvalidInput, n)
	}
	return n, nil
}

// Record parses the draft into a record. Date, ID and Actions are left for
// the store to fill.
func (d Draft) Record() (models.NonConformance, error) {
	var rec models.NonConformance
	n, err := ParseNumber(d.Values[form.FieldNumber])
	if err != nil {
		return rec, err
	}
	p := parser{values: d.Values}
	rec = models.NonConformance{
		Number:             n,
		MatrixResult:       p.float(form.FieldMatrixResult),
		OrderNumber:        p.int(form.FieldOrderNumber),
		QuantityInvolved:   p.float(form.FieldQuantityInvolved),
		ProductCode:        d.Values[form.FieldProductCode],
		ProductDescription: d.Values[form.FieldProductDescription],
		Client:             d.Values[form.FieldClient],
		ScrapQuantity:      p.float(form.FieldScrapQuantity),
		Cost:               p.float(form.FieldCost),
		RecoveredQuantity:  p.float(form.FieldRecoveredQuantity),
		Observations:       d.Observations,
		Failure:            d.Values[form.FieldFailure],
		RootCause:          d.RootCause,
	}
	if p.err != nil {
		return models.NonConformance{}, p.err
	}
	return rec, nil
}

// parser keeps the first conversion error.
type parser struct {
	values map[string]string
	err    error
}

func (p *parser) int(name string) int64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseInt(strings.TrimSpace(p.values[name]), 10, 64)
	if err != nil {
		p.err = fmt.Errorf("%w: %s must be an integer, got %q", ErrInvalidInput, name, p.values[name])
	}
	return v
}

func (p *parser) float(name string) float64 {
	if p.err != nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(p.values[name]), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.err = fmt.Errorf("%w: %s must be a number, got %q", ErrInvalidInput, name, p.values[name])
	}
	return v
}
