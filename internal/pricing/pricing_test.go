package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ashendes/wigshop/internal/options"
)

func withState(mutate func(s *options.ConfigurationState)) options.ConfigurationState {
	s := options.Default()
	mutate(&s)
	return s
}

func TestComputePrice_Defaults(t *testing.T) {
	q := ComputePrice(options.Default())

	assert.Equal(t, 740, q.Total)
	assert.Equal(t, 740, q.BasePrice)
	assert.Equal(t, Breakdown{}, q.Breakdown)
}

func TestComputePrice_FlexibleCapSize(t *testing.T) {
	for _, size := range []string{"XXS/XS/S", "S/M/L"} {
		q := ComputePrice(withState(func(s *options.ConfigurationState) { s.CapSize = size }))
		assert.Equal(t, 780, q.Total, size)
		assert.Equal(t, 40, q.Breakdown.CapSize, size)
		assert.Equal(t, q.Total, BaseFor(size)+q.Breakdown.Sum()-q.Breakdown.CapSize, size)
	}
	assert.Equal(t, 740, BaseFor("XL"))
}

func TestComputePrice_ColorAndLongLengthSurcharge(t *testing.T) {
	tests := []struct {
		name   string
		length string
		color  string
		want   int
	}{
		{"default color short", `24"`, options.OffBlack, 0},
		{"named color short", `24"`, "JET BLACK", 100},
		{"named color 28", `28"`, "HONEY BLONDE", 100},
		{"default color long", `30"`, options.OffBlack, 0},
		{"named color 30", `30"`, "ESPRESSO", 140},
		{"named color 40", `40"`, "613 BLONDE", 140},
		{"unknown color", `40"`, "NEON", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := ComputePrice(withState(func(s *options.ConfigurationState) {
				s.Length = tt.length
				s.Color = tt.color
			}))
			assert.Equal(t, tt.want, q.Breakdown.Color)
		})
	}
}

func TestComputePrice_ColorDeltaAgainstOffBlack(t *testing.T) {
	for _, length := range options.Values(options.Length) {
		base := ComputePrice(withState(func(s *options.ConfigurationState) { s.Length = length }))
		for _, color := range options.Values(options.Color)[1:] {
			q := ComputePrice(withState(func(s *options.ConfigurationState) {
				s.Length = length
				s.Color = color
			}))
			want := 100
			if options.IsLongLength(length) {
				want = 140
			}
			assert.Equal(t, want, q.Total-base.Total, "%s at %s", color, length)
		}
	}
}

func TestComputePrice_Hairline(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"NATURAL", 0},
		{"PEAK", 40},
		{"BABY HAIR,NATURAL", 40},
		{"LAGOS,PEAK", 60},
		{"LAGOS,PEAK,BABY HAIR", 100},
	}
	for _, tt := range tests {
		q := ComputePrice(withState(func(s *options.ConfigurationState) { s.Assign(options.Hairline, tt.text) }))
		assert.Equal(t, tt.want, q.Breakdown.Hairline, tt.text)
	}
}

func TestComputePrice_Styling(t *testing.T) {
	tests := []struct {
		text     string
		checkout int
		page     int
	}{
		{"NONE", 0, 0},
		{"BANGS", 40, 40},
		{"CRIMPS", 60, 140},
		{"FLAT IRON", 60, 100},
		{"LAYERS", 60, 180},
		{"BANGS,CRIMPS", 80, 160},
		{"BANGS,LAYERS", 80, 200},
		{"NONE,BANGS", 40, 40},
	}
	page := NewCalculator(OptionPage)
	for _, tt := range tests {
		s := withState(func(s *options.ConfigurationState) { s.Assign(options.Styling, tt.text) })
		assert.Equal(t, tt.checkout, ComputePrice(s).Breakdown.Styling, tt.text)
		assert.Equal(t, tt.page, page.Compute(s).Breakdown.Styling, tt.text)
	}
}

func TestComputePrice_LaceAndAddOns(t *testing.T) {
	lace := map[string]int{
		"13X6": 0, "13X4": -20, "2X6": -40, "4X4": -40, "5X5": -20,
		"6X6": 60, "7X7": 100, "9X6": 80, "FULL LACE": 240,
	}
	for v, want := range lace {
		q := ComputePrice(withState(func(s *options.ConfigurationState) { s.Lace = v }))
		assert.Equal(t, want, q.Breakdown.Lace, v)
		assert.Equal(t, 740+want, q.Total, v)
	}

	q := ComputePrice(withState(func(s *options.ConfigurationState) {
		s.Assign(options.AddOns, "BLEACH,PLUCK,BLUNT CUT")
	}))
	assert.Equal(t, 100, q.Breakdown.AddOns)
}

func TestComputePrice_TextureIsFree(t *testing.T) {
	for _, v := range options.Values(options.Texture) {
		q := ComputePrice(withState(func(s *options.ConfigurationState) { s.Texture = v }))
		assert.Zero(t, q.Breakdown.Texture, v)
	}
}

func TestComputePrice_DensityTablesStayIndependent(t *testing.T) {
	page := NewCalculator(OptionPage)
	tests := []struct {
		density  string
		checkout int
		page     int
	}{
		{"130%", -60, 0},
		{"150%", -40, 0},
		{"200%", 0, 0},
		{"250%", 80, 50},
		{"300%", 160, 100},
		{"400%", 320, 0},
	}
	for _, tt := range tests {
		s := withState(func(s *options.ConfigurationState) { s.Density = tt.density })
		assert.Equal(t, tt.checkout, ComputePrice(s).Breakdown.Density, tt.density)
		assert.Equal(t, tt.page, page.Compute(s).Breakdown.Density, tt.density)
	}
}

func TestComputePrice_EndToEnd(t *testing.T) {
	s := options.Default()
	assert.NoError(t, s.Apply(options.Length, `30"`))
	assert.NoError(t, s.Apply(options.Color, "JET BLACK"))

	q := ComputePrice(s)

	assert.Equal(t, 150, q.Breakdown.Length)
	assert.Equal(t, 140, q.Breakdown.Color)
	assert.Equal(t, 1030, q.Total)
}

func TestComputePrice_UnknownKeysPriceZero(t *testing.T) {
	s := options.ConfigurationState{
		CapSize:  "XXXL",
		Length:   `99"`,
		Density:  "1000%",
		Lace:     "1X1",
		Texture:  "WAVY",
		Color:    "NEON",
		Hairline: options.Set{"WIDOW"},
		Styling:  options.Set{"BRAIDS", options.Bangs},
		AddOns:   options.Set{"GLITTER"},
	}
	q := ComputePrice(s)
	assert.Equal(t, 740+40, q.Total, "only BANGS prices, at its standalone rate")
}

func TestComputePrice_Idempotent(t *testing.T) {
	s := withState(func(s *options.ConfigurationState) {
		s.CapSize = "S/M/L"
		s.Length = `36"`
		s.Color = "AUBURN"
		s.Assign(options.Hairline, "LAGOS,PEAK")
		s.Assign(options.Styling, "BANGS,FLAT IRON")
		s.Assign(options.AddOns, "PLUCK")
	})
	first := ComputePrice(s)
	second := ComputePrice(s)
	assert.Equal(t, first, second)
	assert.Equal(t, 740+40+300+140+60+80+40, first.Total)
}

func TestScheduleByName(t *testing.T) {
	s, ok := ScheduleByName("")
	assert.True(t, ok)
	assert.Same(t, Checkout, s)

	s, ok = ScheduleByName("OPTION_PAGE")
	assert.True(t, ok)
	assert.Same(t, OptionPage, s)

	_, ok = ScheduleByName("clearance")
	assert.False(t, ok)
}

func TestDimensionPrice_MatchesBreakdown(t *testing.T) {
	c := NewCalculator(nil)
	s := withState(func(s *options.ConfigurationState) {
		s.Length = `32"`
		s.Lace = "7X7"
	})
	q := c.Compute(s)
	for _, d := range options.Dimensions {
		assert.Equal(t, q.Breakdown.Get(d), c.DimensionPrice(d, s), string(d))
	}
}
