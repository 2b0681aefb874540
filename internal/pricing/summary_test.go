package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashendes/wigshop/internal/options"
)

func TestSummary(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *options.ConfigurationState)
		want   string
	}{
		{"all defaults", func(s *options.ConfigurationState) {}, ""},
		{"single color", func(s *options.ConfigurationState) { s.Color = "JET BLACK" }, "JET BLACK COLOR"},
		{"single length", func(s *options.ConfigurationState) { s.Length = `30"` }, `30" LENGTH`},
		{"single lagos peak", func(s *options.ConfigurationState) { s.Assign(options.Hairline, "LAGOS,PEAK") }, "LAGOS+PEAK HAIRLINE"},
		{"single add-ons", func(s *options.ConfigurationState) { s.Assign(options.AddOns, "PLUCK,BLEACH") }, "BLEACH + PLUCK ADD-ONS"},
		{"length and color", func(s *options.ConfigurationState) {
			s.Length = `30"`
			s.Color = "JET BLACK"
		}, `30", JET BLACK`},
		{"several", func(s *options.ConfigurationState) {
			s.CapSize = "S/M/L"
			s.Assign(options.Hairline, "PEAK,LAGOS")
			s.Assign(options.Styling, "CRIMPS,BANGS")
			s.Assign(options.AddOns, "BLEACH")
		}, "S/M/L, LAGOS+PEAK HAIRLINE, BANGS + CRIMPS, BLEACH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := options.Default()
			tt.mutate(&s)
			assert.Equal(t, tt.want, Summary(s))
		})
	}
}
