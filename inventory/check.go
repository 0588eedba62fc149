package inventory

import (
	"github.com/GoCodeAlone/timetable/material"
)

// Status classifies a material row checked against the inventory.
type Status string

const (
	StatusLeftover       Status = "leftover"
	StatusNotInInventory Status = "not_in_inventory"
	StatusParseError     Status = "parse_error"
	StatusUnitMismatch   Status = "unit_mismatch"
)

// Result is the outcome of checking one required material. Leftover and Unit
// are only meaningful when Status is StatusLeftover.
type Result struct {
	Status   Status  `json:"status"`
	Leftover float64 `json:"leftover"`
	Unit     string  `json:"unit,omitempty"`
}

// String renders the result the way it is shown next to a material row.
func (r Result) String() string {
	switch r.Status {
	case StatusLeftover:
		return material.Format(r.Leftover, r.Unit)
	case StatusNotInInventory:
		return "Not in Inventory"
	case StatusParseError:
		return "Parse Error"
	case StatusUnitMismatch:
		return "Unit Mismatch"
	default:
		return string(r.Status)
	}
}

// Evaluate checks a required quantity string for one material against the
// index and computes what would be left after consuming it.
//
// Only a missing item blocks a task from being submitted; parse errors and
// unit mismatches are advisory.
func Evaluate(name, required string, idx *Index) Result {
	item, ok := idx.Find(name)
	if !ok {
		return Result{Status: StatusNotInInventory}
	}
	q, err := material.Parse(required)
	if err != nil {
		return Result{Status: StatusParseError}
	}
	if q.Unit != item.Unit {
		return Result{Status: StatusUnitMismatch}
	}
	// Rounded only when displayed.
	return Result{
		Status:   StatusLeftover,
		Leftover: item.Quantity - q.Magnitude,
		Unit:     item.Unit,
	}
}

// Row is a checked material row.
type Row struct {
	Name        string `json:"name"`
	Quantity    string `json:"quantity"`
	InInventory bool   `json:"in_inventory"`
	Result      Result `json:"result"`
	Display     string `json:"display"`
}

// Check evaluates every entry of materials, in list order.
func Check(materials material.List, idx *Index) []Row {
	rows := make([]Row, 0, len(materials))
	for _, e := range materials {
		res := Evaluate(e.Name, e.Quantity, idx)
		rows = append(rows, Row{
			Name:        e.Name,
			Quantity:    e.Quantity,
			InInventory: res.Status != StatusNotInInventory,
			Result:      res,
			Display:     res.String(),
		})
	}
	return rows
}

// CanSubmit reports whether every material is present in the index.
func CanSubmit(materials material.List, idx *Index) bool {
	return idx.AllPresent(materials.Names())
}
