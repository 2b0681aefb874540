package models

import (
	"github.com/ashendes/wigshop/internal/cart"
	"github.com/ashendes/wigshop/internal/options"
)

// AddItemRequest adds an explicit configuration at an explicit frozen price
type AddItemRequest struct {
	State    options.ConfigurationState `json:"state"`
	Price    *int                       `json:"price" binding:"required,gte=0"`
	PresetID string                     `json:"preset_id"`
}

// UpdateItemRequest changes an item in place. Omitted fields are kept.
type UpdateItemRequest struct {
	State    *options.ConfigurationState `json:"state"`
	Price    *int                        `json:"price" binding:"omitempty,gte=0"`
	Quantity *int                        `json:"quantity"`
}

// CartItemView is a cart item with its price in the display currency
type CartItemView struct {
	cart.Item
	DisplayPrice string `json:"display_price"`
}

// CartResponse represents the whole cart
type CartResponse struct {
	Items        []CartItemView `json:"items"`
	Count        int            `json:"count"`
	Total        int            `json:"total"`
	Currency     string         `json:"currency"`
	DisplayTotal string         `json:"display_total"`
}

// RemoveItemResponse reports whether anything was removed
type RemoveItemResponse struct {
	Removed bool `json:"removed"`
	Count   int  `json:"count"`
	Total   int  `json:"total"`
}
