package preset

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Filter selects presets by case-insensitive substring match. Empty fields
// match everything.
type Filter struct {
	Operation string
	Material  string
}

// Match returns the operation names whose name contains f.Operation and whose
// preset has at least one material name containing f.Material, sorted.
func (f Filter) Match(presets map[string]Preset) []string {
	fold := cases.Fold()
	wantOp := fold.String(f.Operation)
	wantMat := fold.String(f.Material)

	var keys []string
	for op, p := range presets {
		if !strings.Contains(fold.String(op), wantOp) {
			continue
		}
		if wantMat != "" && !hasMaterialLike(p, wantMat, fold) {
			continue
		}
		keys = append(keys, op)
	}
	sort.Strings(keys)
	return keys
}

func hasMaterialLike(p Preset, want string, fold cases.Caser) bool {
	for _, e := range p.Materials {
		if strings.Contains(fold.String(e.Name), want) {
			return true
		}
	}
	return false
}
