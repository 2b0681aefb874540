package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/ashendes/wigshop/internal/cart"
	"github.com/ashendes/wigshop/internal/currency"
	"github.com/ashendes/wigshop/internal/models"
	"github.com/ashendes/wigshop/internal/options"
	"github.com/ashendes/wigshop/internal/patterns"
)

func (s *Server) cartResponse(c *gin.Context, code string) (models.CartResponse, error) {
	snap, err := s.Cart.Snapshot(c.Request.Context())
	if err != nil {
		return models.CartResponse{}, err
	}
	cur := s.currencyFor(code)

	resp := models.CartResponse{
		Items:        make([]models.CartItemView, 0, len(snap.Items)),
		Count:        snap.Count,
		Total:        snap.Total,
		Currency:     cur,
		DisplayTotal: currency.Format(snap.Total, cur),
	}
	for _, item := range snap.Items {
		resp.Items = append(resp.Items, models.CartItemView{
			Item:         item,
			DisplayPrice: currency.Format(item.Price, cur),
		})
	}
	return resp, nil
}

func (s *Server) getCart(c *gin.Context) {
	resp, err := s.cartResponse(c, c.Query("currency"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// addItem adds an explicit configuration at the price the client showed
func (s *Server) addItem(c *gin.Context) {
	req := models.AddItemRequest{State: options.Default()}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	req.State.Normalize()

	ctx := c.Request.Context()
	if err := patterns.Sleep(ctx, s.ProcessingDelay); err != nil {
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request cancelled"})
		return
	}

	var (
		item cart.Item
		err  error
	)
	if req.PresetID != "" {
		item, err = s.Cart.AddPreset(ctx, req.PresetID, req.State, *req.Price)
	} else {
		item, err = s.Cart.Add(ctx, req.State, *req.Price)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

// updateItem edits an item in place. A new state without a price is repriced
// at the checkout schedule; a quantity of zero or less removes the item.
func (s *Server) updateItem(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	item, err := s.Cart.Get(ctx, id)
	if err != nil {
		respondError(c, err)
		return
	}

	state := item.State.Clone()
	req := models.UpdateItemRequest{State: &state}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	if req.State == nil {
		req.State = &state
	}
	req.State.Normalize()

	changed := !req.State.Equal(item.State)
	if changed || req.Price != nil {
		price := item.Price
		switch {
		case req.Price != nil:
			price = *req.Price
		case changed:
			price = s.Calculator.Compute(*req.State).Total
		}
		if _, err := s.Cart.Update(ctx, id, *req.State, price); err != nil {
			respondError(c, err)
			return
		}
	}

	if req.Quantity != nil {
		if err := s.Cart.SetQuantity(ctx, id, *req.Quantity); err != nil {
			respondError(c, err)
			return
		}
	}

	resp, err := s.cartResponse(c, c.Query("currency"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) removeItem(c *gin.Context) {
	ctx := c.Request.Context()
	removed, err := s.Cart.Remove(ctx, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	snap, err := s.Cart.Snapshot(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.RemoveItemResponse{
		Removed: removed,
		Count:   snap.Count,
		Total:   snap.Total,
	})
}

// streamEvents relays bus events to the client as server-sent events until it disconnects
func (s *Server) streamEvents(c *gin.Context) {
	ch, cancel := s.Bus.Subscribe()
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-ch:
			if !ok {
				return
			}
			c.SSEvent(string(e.Topic), e)
			c.Writer.Flush()
		}
	}
}

func (s *Server) checkout(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	order, err := s.Cart.Checkout(c.Request.Context(), s.currencyFor(req.Currency))
	if errors.Is(err, cart.ErrEmptyCart) {
		c.JSON(http.StatusBadRequest, models.CheckoutResponse{
			Status:  models.OrderStatusRejected,
			Message: err.Error(),
		})
		return
	}
	if err != nil {
		log.WithError(err).Error("Checkout failed")
		c.JSON(http.StatusInternalServerError, models.CheckoutResponse{
			Status:  models.OrderStatusFailed,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.CheckoutResponse{
		OrderID:      order.ID,
		Status:       models.OrderStatusCompleted,
		Message:      "Order placed",
		Total:        order.TotalUSD,
		Currency:     order.Currency,
		DisplayTotal: order.DisplayTotal,
	})
}

func (s *Server) listOrders(c *gin.Context) {
	list, err := s.Orders.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.OrdersResponse{
		Orders: list,
		Count:  len(list),
	})
}
