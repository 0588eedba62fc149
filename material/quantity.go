// Package material models required-material lists and the quantity strings
// they carry.
package material

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrParse is returned when a quantity string does not start with a number.
var ErrParse = errors.New("quantity does not start with a number")

// quantityPattern matches a float literal prefix followed by the unit remainder.
var quantityPattern = regexp.MustCompile(`^([+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?)\s*(.*)$`)

// Quantity is a parsed quantity string.
type Quantity struct {
	Magnitude float64
	Unit      string
}

// Parse splits a raw quantity string such as "250 g" or "-2e1 kg" into its
// magnitude and unit. The unit is whatever follows the number, trimmed; an
// empty unit is valid.
func Parse(s string) (Quantity, error) {
	m := quantityPattern.FindStringSubmatch(s)
	if m == nil {
		return Quantity{}, fmt.Errorf("parse %q: %w", s, ErrParse)
	}
	v, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		v = 0
	}
	return Quantity{Magnitude: v, Unit: strings.TrimSpace(m[2])}, nil
}

// Format renders a magnitude with two decimals followed by the unit, if any.
func Format(v float64, unit string) string {
	if unit == "" {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	return strconv.FormatFloat(v, 'f', 2, 64) + " " + unit
}

// String renders q with two decimals.
func (q Quantity) String() string { return Format(q.Magnitude, q.Unit) }
