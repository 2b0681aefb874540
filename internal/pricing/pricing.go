package pricing

import "github.com/ashendes/wigshop/internal/options"

// BasePrice is the starting price of every build before option deltas
const BasePrice = 740

// Breakdown holds one whole-dollar delta per dimension
type Breakdown struct {
	CapSize  int `json:"capSizePrice"`
	Color    int `json:"colorPrice"`
	Length   int `json:"lengthPrice"`
	Density  int `json:"densityPrice"`
	Lace     int `json:"lacePrice"`
	Texture  int `json:"texturePrice"`
	Hairline int `json:"hairlinePrice"`
	Styling  int `json:"stylingPrice"`
	AddOns   int `json:"addOnsPrice"`
}

// Sum adds every delta
func (b Breakdown) Sum() int {
	return b.CapSize + b.Color + b.Length + b.Density + b.Lace + b.Texture + b.Hairline + b.Styling + b.AddOns
}

// Get returns the delta of one dimension
func (b Breakdown) Get(d options.Dimension) int {
	switch d {
	case options.CapSize:
		return b.CapSize
	case options.Length:
		return b.Length
	case options.Density:
		return b.Density
	case options.Lace:
		return b.Lace
	case options.Texture:
		return b.Texture
	case options.Color:
		return b.Color
	case options.Hairline:
		return b.Hairline
	case options.Styling:
		return b.Styling
	case options.AddOns:
		return b.AddOns
	}
	return 0
}

// Put sets the delta of one dimension
func (b *Breakdown) Put(d options.Dimension, price int) {
	switch d {
	case options.CapSize:
		b.CapSize = price
	case options.Length:
		b.Length = price
	case options.Density:
		b.Density = price
	case options.Lace:
		b.Lace = price
	case options.Texture:
		b.Texture = price
	case options.Color:
		b.Color = price
	case options.Hairline:
		b.Hairline = price
	case options.Styling:
		b.Styling = price
	case options.AddOns:
		b.AddOns = price
	}
}

// Quote is the result of pricing one configuration
type Quote struct {
	Breakdown Breakdown `json:"breakdown"`
	BasePrice int       `json:"basePrice"`
	Total     int       `json:"total"`
}

// Calculator prices configurations against a fixed schedule
type Calculator struct {
	schedule *Schedule
}

// NewCalculator creates a calculator; a nil schedule means Checkout
func NewCalculator(s *Schedule) *Calculator {
	if s == nil {
		s = Checkout
	}
	return &Calculator{schedule: s}
}

// Schedule returns the tables this calculator uses
func (c *Calculator) Schedule() *Schedule {
	return c.schedule
}

var defaultCalculator = NewCalculator(Checkout)

// ComputePrice prices a configuration with the Checkout schedule
func ComputePrice(state options.ConfigurationState) Quote {
	return defaultCalculator.Compute(state)
}

// BaseFor returns the effective base price for a cap size: 740, or 780 for flexible sizes
func BaseFor(capSize string) int {
	return BasePrice + Checkout.CapSize[capSize]
}

// Compute prices every dimension and totals them
func (c *Calculator) Compute(state options.ConfigurationState) Quote {
	var b Breakdown
	for _, d := range options.Dimensions {
		b.Put(d, c.DimensionPrice(d, state))
	}
	return Totals(b)
}

// Totals turns a breakdown into a quote
func Totals(b Breakdown) Quote {
	return Quote{
		Breakdown: b,
		BasePrice: BasePrice,
		Total:     BasePrice + b.Sum(),
	}
}

// DimensionPrice prices a single dimension of state
func (c *Calculator) DimensionPrice(d options.Dimension, state options.ConfigurationState) int {
	s := c.schedule
	switch d {
	case options.CapSize:
		return s.CapSize[state.CapSize]
	case options.Length:
		return s.Length[state.Length]
	case options.Density:
		return s.Density[state.Density]
	case options.Lace:
		return s.Lace[state.Lace]
	case options.Texture:
		return s.Texture[state.Texture]
	case options.Color:
		return c.colorPrice(state)
	case options.Hairline:
		return c.hairlinePrice(state.Hairline)
	case options.Styling:
		return c.stylingPrice(state.Styling)
	case options.AddOns:
		total := 0
		for _, v := range state.AddOns {
			total += s.AddOns[v]
		}
		return total
	}
	return 0
}

func (c *Calculator) colorPrice(state options.ConfigurationState) int {
	price := c.schedule.Color[state.Color]
	if price != 0 && options.IsLongLength(state.Length) {
		price += c.schedule.LongLengthColor
	}
	return price
}

func (c *Calculator) hairlinePrice(set options.Set) int {
	total := 0
	for _, v := range set {
		total += c.schedule.Hairline[v]
	}
	if set.Has(options.Lagos) && set.Has(options.Peak) {
		total += c.schedule.LagosPeak
	}
	return total
}

func (c *Calculator) stylingPrice(set options.Set) int {
	total, others := 0, 0
	bangs := false
	for _, v := range set {
		switch v {
		case options.None:
		case options.Bangs:
			bangs = true
		default:
			if p, ok := c.schedule.Styling[v]; ok {
				total += p
				others++
			}
		}
	}
	if bangs {
		if others == 0 {
			total += c.schedule.Styling[options.Bangs]
		} else {
			total += c.schedule.BangsCombined
		}
	}
	return total
}
