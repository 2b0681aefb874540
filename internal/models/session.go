package models

import (
	"github.com/ashendes/wigshop/internal/cart"
	"github.com/ashendes/wigshop/internal/catalog"
	"github.com/ashendes/wigshop/internal/options"
	"github.com/ashendes/wigshop/internal/selection"
)

// SelectRequest picks a value; multi-select dimensions toggle it
type SelectRequest struct {
	Value string `json:"value" binding:"required"`
}

// SessionResponse is a loaded or updated configuration session
type SessionResponse struct {
	Session selection.Session `json:"session"`
	Summary string            `json:"summary"`
	Path    string            `json:"path"`
	InCart  bool              `json:"in_cart"`
}

// StepRequest optionally carries the state shown on the base page so the step sees exactly that
type StepRequest struct {
	State *options.ConfigurationState `json:"state"`
}

// StepResponse tells the client where a step lives and where it returns to
type StepResponse struct {
	Path   string `json:"path"`
	Parent string `json:"parent"`
}

// CommitResponse reports what committing a session did to the cart
type CommitResponse struct {
	Action string    `json:"action"`
	Item   cart.Item `json:"item"`
	Count  int       `json:"count"`
	Total  int       `json:"total"`
}

// Commit actions
const (
	CommitAdded   = "added"
	CommitUpdated = "updated"
)

// PresetsResponse lists the customize-mode starting points
type PresetsResponse struct {
	Presets []PresetView `json:"presets"`
}

// PresetView is a preset with its current price
type PresetView struct {
	catalog.Preset
	Price   int    `json:"price"`
	Summary string `json:"summary"`
}
