// Package form implements the guided NC entry form: a fixed chain of fields
// where each field becomes editable only after its predecessor validates.
package form

import (
	"math"
	"strconv"
	"strings"
)

// Kind selects the validator applied to a field.
type Kind int

const (
	// Integer accepts one or more ASCII digits.
	Integer Kind = iota
	// Decimal accepts a finite number strconv.ParseFloat accepts once trimmed.
	Decimal
	// Text accepts any non-blank value.
	Text
)

func (k Kind) String() string {
	switch k {
	case Integer:
		return "integer"
	case Decimal:
		return "decimal"
	case Text:
		return "text"
	}
	return "unknown"
}

// MarshalText renders the kind by name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Validate reports whether value is acceptable for the kind.
func (k Kind) Validate(value string) bool {
	switch k {
	case Integer:
		return isDigits(value)
	case Decimal:
		f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		return err == nil && !math.IsNaN(f) && !math.IsInf(f, 0)
	case Text:
		return strings.TrimSpace(value) != ""
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Field is one entry of the chain. Column is the storage column the field is
// persisted to and loaded from.
type Field struct {
	Name   string `json:"name"`
	Column string `json:"column"`
	Kind   Kind   `json:"kind"`
}

// Field names of the NC form.
const (
	FieldNumber             = "Nro NC"
	FieldMatrixResult       = "Resultado Matriz"
	FieldOrderNumber        = "OP"
	FieldQuantityInvolved   = "Cant. Invol."
	FieldProductCode        = "Cod. Producto"
	FieldProductDescription = "Desc. Producto"
	FieldClient             = "Cliente"
	FieldScrapQuantity      = "Cant. Scrap"
	FieldCost               = "Costo"
	FieldRecoveredQuantity  = "Cant. Recuperada"
	FieldFailure            = "Falla"
)

// Chain is an ordered list of fields.
type Chain []Field

// NCChain is the entry order of the NC form. observaciones and ishikawa are
// deliberately absent: they are filled outside the chain.
var NCChain = Chain{
	{Name: FieldNumber, Column: "nro_nc", Kind: Integer},
	{Name: FieldMatrixResult, Column: "resultado_matriz", Kind: Decimal},
	{Name: FieldOrderNumber, Column: "op", Kind: Integer},
	{Name: FieldQuantityInvolved, Column: "cant_invol", Kind: Decimal},
	{Name: FieldProductCode, Column: "cod_producto", Kind: Text},
	{Name: FieldProductDescription, Column: "desc_producto", Kind: Text},
	{Name: FieldClient, Column: "cliente", Kind: Text},
	{Name: FieldScrapQuantity, Column: "cant_scrap", Kind: Decimal},
	{Name: FieldCost, Column: "costo", Kind: Decimal},
	{Name: FieldRecoveredQuantity, Column: "cant_recuperada", Kind: Decimal},
	{Name: FieldFailure, Column: "falla", Kind: Text},
}

// Index returns the position of name in the chain, or -1.
func (c Chain) Index(name string) int {
	for i, f := range c {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Resolve accepts a field name or its storage column and returns the field
// name.
func (c Chain) Resolve(nameOrColumn string) (string, bool) {
	for _, f := range c {
		if f.Name == nameOrColumn || f.Column == nameOrColumn {
			return f.Name, true
		}
	}
	return "", false
}

// Key is the first field of the chain, the business key.
func (c Chain) Key() Field {
	return c[0]
}

// Columns maps every field after the key to its storage column.
func (c Chain) Columns() map[string]string {
	out := make(map[string]string, len(c))
	for _, f := range c[1:] {
		out[f.Name] = f.Column
	}
	return out
}
