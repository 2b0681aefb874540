package currency

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTableHasFortyUniqueCurrencies(t *testing.T) {
	all := All()
	assert.Len(t, all, 40)

	seen := map[string]bool{}
	for _, c := range all {
		assert.False(t, seen[c.Code], c.Code)
		assert.Positive(t, c.Rate, c.Code)
		assert.NotEmpty(t, c.Symbol, c.Code)
		seen[c.Code] = true
	}
	assert.Equal(t, USD, all[0].Code)
}

func TestLookup(t *testing.T) {
	c, ok := Lookup(" eur ")
	assert.True(t, ok)
	assert.Equal(t, "€", c.Symbol)

	c, ok = Lookup("XYZ")
	assert.False(t, ok)
	assert.Equal(t, USD, c.Code)
}

func TestConvert(t *testing.T) {
	assert.InDelta(t, 1030.0, Convert(1030, "USD"), 1e-9)
	assert.InDelta(t, 154500.0, Convert(1030, "JPY"), 1e-9)
	assert.InDelta(t, 1030.0, Convert(1030, "unknown"), 1e-9)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "$1,030.00", Format(1030, "USD"))
	assert.Equal(t, "¥154,500", Format(1030, "JPY"))
	assert.Equal(t, "£585.39", Format(741, "GBP"))
	assert.Equal(t, "$740.00", Format(740, ""))
}
