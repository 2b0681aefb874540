package models

import (
	"github.com/ashendes/wigshop/internal/currency"
	"github.com/ashendes/wigshop/internal/options"
	"github.com/ashendes/wigshop/internal/pricing"
)

// QuoteRequest prices a configuration; omitted dimensions keep their defaults
type QuoteRequest struct {
	State    options.ConfigurationState `json:"state"`
	Schedule string                     `json:"schedule,omitempty"`
	Currency string                     `json:"currency,omitempty"`
}

// QuoteResponse represents a priced configuration
type QuoteResponse struct {
	Breakdown    pricing.Breakdown `json:"breakdown"`
	BasePrice    int               `json:"base_price"`
	Total        int               `json:"total"`
	Summary      string            `json:"summary"`
	Schedule     string            `json:"schedule"`
	Currency     string            `json:"currency"`
	DisplayTotal string            `json:"display_total"`
}

// OptionPrice is one selectable value with its price delta
type OptionPrice struct {
	Value    string `json:"value"`
	Price    int    `json:"price"`
	Selected bool   `json:"selected"`
	Default  bool   `json:"default"`
}

// DimensionOptions lists the choices of one dimension
type DimensionOptions struct {
	Dimension options.Dimension `json:"dimension"`
	Label     string            `json:"label"`
	Multi     bool              `json:"multi"`
	Options   []OptionPrice     `json:"options"`
}

// OptionsResponse is the option catalogue priced against one session
type OptionsResponse struct {
	Mode       string             `json:"mode"`
	Schedule   string             `json:"schedule"`
	Dimensions []DimensionOptions `json:"dimensions"`
}

// CurrenciesResponse lists display currencies
type CurrenciesResponse struct {
	Currencies []currency.Currency `json:"currencies"`
	Default    string              `json:"default"`
}
