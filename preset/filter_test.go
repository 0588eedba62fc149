package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Match(t *testing.T) {
	presets := map[string]Preset{
		"Sanding":  {Materials: mats(map[string]string{"Sandpaper": "4"})},
		"Painting": {Materials: mats(map[string]string{"Paint": "2 l", "Brush": "1"})},
		"Cutting":  {Materials: mats(map[string]string{"Wood": "3 kg"})},
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"empty matches all sorted", Filter{}, []string{"Cutting", "Painting", "Sanding"}},
		{"operation substring ignores case", Filter{Operation: "ING"}, []string{"Cutting", "Painting", "Sanding"}},
		{"operation narrows", Filter{Operation: "sand"}, []string{"Sanding"}},
		{"material substring", Filter{Material: "PAINT"}, []string{"Painting"}},
		{"both", Filter{Operation: "cut", Material: "wo"}, []string{"Cutting"}},
		{"no match", Filter{Material: "glue"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(presets))
		})
	}
}
