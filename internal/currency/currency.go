// Package currency converts stored USD prices for display only.
package currency

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const USD = "USD"

// Currency is one display currency with a static rate relative to USD
type Currency struct {
	Code     string  `json:"code"`
	Symbol   string  `json:"symbol"`
	Rate     float64 `json:"rate"`
	Decimals int     `json:"decimals"`
}

var currencies = []Currency{
	{Code: "USD", Symbol: "$", Rate: 1, Decimals: 2},
	{Code: "EUR", Symbol: "€", Rate: 0.92, Decimals: 2},
	{Code: "GBP", Symbol: "£", Rate: 0.79, Decimals: 2},
	{Code: "CAD", Symbol: "CA$", Rate: 1.36, Decimals: 2},
	{Code: "AUD", Symbol: "A$", Rate: 1.52, Decimals: 2},
	{Code: "NZD", Symbol: "NZ$", Rate: 1.64, Decimals: 2},
	{Code: "JPY", Symbol: "¥", Rate: 150, Decimals: 0},
	{Code: "CNY", Symbol: "CN¥", Rate: 7.2, Decimals: 2},
	{Code: "HKD", Symbol: "HK$", Rate: 7.82, Decimals: 2},
	{Code: "SGD", Symbol: "S$", Rate: 1.34, Decimals: 2},
	{Code: "KRW", Symbol: "₩", Rate: 1330, Decimals: 0},
	{Code: "INR", Symbol: "₹", Rate: 83, Decimals: 2},
	{Code: "NGN", Symbol: "₦", Rate: 1500, Decimals: 2},
	{Code: "GHS", Symbol: "GH₵", Rate: 13.5, Decimals: 2},
	{Code: "KES", Symbol: "KSh", Rate: 130, Decimals: 2},
	{Code: "ZAR", Symbol: "R", Rate: 18.6, Decimals: 2},
	{Code: "EGP", Symbol: "E£", Rate: 48, Decimals: 2},
	{Code: "MAD", Symbol: "MAD ", Rate: 10, Decimals: 2},
	{Code: "AED", Symbol: "AED ", Rate: 3.67, Decimals: 2},
	{Code: "SAR", Symbol: "SAR ", Rate: 3.75, Decimals: 2},
	{Code: "QAR", Symbol: "QAR ", Rate: 3.64, Decimals: 2},
	{Code: "KWD", Symbol: "KD ", Rate: 0.31, Decimals: 3},
	{Code: "TRY", Symbol: "₺", Rate: 32, Decimals: 2},
	{Code: "ILS", Symbol: "₪", Rate: 3.7, Decimals: 2},
	{Code: "CHF", Symbol: "CHF ", Rate: 0.88, Decimals: 2},
	{Code: "SEK", Symbol: "kr ", Rate: 10.5, Decimals: 2},
	{Code: "NOK", Symbol: "kr ", Rate: 10.6, Decimals: 2},
	{Code: "DKK", Symbol: "kr. ", Rate: 6.9, Decimals: 2},
	{Code: "PLN", Symbol: "zł ", Rate: 4, Decimals: 2},
	{Code: "CZK", Symbol: "Kč ", Rate: 23, Decimals: 2},
	{Code: "HUF", Symbol: "Ft ", Rate: 360, Decimals: 0},
	{Code: "RON", Symbol: "lei ", Rate: 4.6, Decimals: 2},
	{Code: "BRL", Symbol: "R$", Rate: 5, Decimals: 2},
	{Code: "MXN", Symbol: "MX$", Rate: 17, Decimals: 2},
	{Code: "COP", Symbol: "COL$", Rate: 3900, Decimals: 0},
	{Code: "CLP", Symbol: "CLP$", Rate: 940, Decimals: 0},
	{Code: "ARS", Symbol: "AR$", Rate: 870, Decimals: 2},
	{Code: "PEN", Symbol: "S/ ", Rate: 3.7, Decimals: 2},
	{Code: "JMD", Symbol: "J$", Rate: 155, Decimals: 2},
	{Code: "TTD", Symbol: "TT$", Rate: 6.8, Decimals: 2},
}

var byCode = func() map[string]Currency {
	m := make(map[string]Currency, len(currencies))
	for _, c := range currencies {
		m[c.Code] = c
	}
	return m
}()

var printer = message.NewPrinter(language.English)

// All returns the table in display order
func All() []Currency {
	out := make([]Currency, len(currencies))
	copy(out, currencies)
	return out
}

// Lookup finds a currency by code; unknown codes fall back to USD
func Lookup(code string) (Currency, bool) {
	c, ok := byCode[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return byCode[USD], false
	}
	return c, true
}

// Convert turns whole US dollars into the display currency
func Convert(usd int, code string) float64 {
	c, _ := Lookup(code)
	return float64(usd) * c.Rate
}

// Format renders a USD amount in the display currency, e.g. "€947.60"
func Format(usd int, code string) string {
	c, _ := Lookup(code)
	amount := float64(usd) * c.Rate
	return c.Symbol + printer.Sprint(number.Decimal(amount, number.Scale(c.Decimals)))
}
