package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/ashendes/wigshop/internal/catalog"
	"github.com/ashendes/wigshop/internal/models"
	"github.com/ashendes/wigshop/internal/options"
	"github.com/ashendes/wigshop/internal/patterns"
	"github.com/ashendes/wigshop/internal/pricing"
	"github.com/ashendes/wigshop/internal/routing"
	"github.com/ashendes/wigshop/internal/selection"
)

func modeParam(c *gin.Context) (routing.Mode, bool) {
	mode, err := routing.ParseMode(c.Param("mode"))
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return mode, true
}

func dimensionParam(c *gin.Context) (options.Dimension, bool) {
	d, ok := options.ParseDimension(c.Param("dimension"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown dimension %q", c.Param("dimension"))})
		return "", false
	}
	return d, true
}

func (s *Server) sessionResponse(ctx context.Context, session selection.Session) (models.SessionResponse, error) {
	inCart, err := s.Cart.Contains(ctx, session.State)
	if err != nil {
		return models.SessionResponse{}, err
	}
	return models.SessionResponse{
		Session: session,
		Summary: pricing.Summary(session.State),
		Path:    session.ParentPath(),
		InCart:  inCart,
	}, nil
}

func (s *Server) respondSession(c *gin.Context, status int, session selection.Session) {
	resp, err := s.sessionResponse(c.Request.Context(), session)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, resp)
}

func (s *Server) loadSession(c *gin.Context) {
	mode, ok := modeParam(c)
	if !ok {
		return
	}
	session, err := s.Sessions.Load(c.Request.Context(), mode)
	if err != nil {
		respondError(c, err)
		return
	}
	s.respondSession(c, http.StatusOK, session)
}

func (s *Server) resetSession(c *gin.Context) {
	mode, ok := modeParam(c)
	if !ok {
		return
	}
	if err := s.Sessions.Reset(c.Request.Context(), mode); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// selectOption picks a value for one dimension; multi-select dimensions toggle it
func (s *Server) selectOption(c *gin.Context) {
	mode, ok := modeParam(c)
	if !ok {
		return
	}
	d, ok := dimensionParam(c)
	if !ok {
		return
	}

	var req models.SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	session, err := s.Sessions.SetField(c.Request.Context(), mode, d, req.Value)
	if err != nil {
		respondError(c, err)
		return
	}
	s.respondSession(c, http.StatusOK, session)
}

// enterStep flushes the base page's state before the client navigates to the step
func (s *Server) enterStep(c *gin.Context) {
	mode, ok := modeParam(c)
	if !ok {
		return
	}
	d, ok := dimensionParam(c)
	if !ok {
		return
	}

	var req models.StepRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	session, err := s.Sessions.Load(ctx, mode)
	if err != nil {
		respondError(c, err)
		return
	}

	if req.State != nil {
		state := *req.State
		state.Normalize()
		if err := state.Validate(); err != nil {
			respondError(c, err)
			return
		}
		q := s.Calculator.Compute(state)
		session.State = state
		session.Breakdown = q.Breakdown
		session.Total = q.Total
	}

	path, err := s.Sessions.EnterStep(ctx, session, d)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.StepResponse{
		Path:   path,
		Parent: session.ParentPath(),
	})
}

// returnFromStep reloads the session; the base page never trusts what it held before the step
func (s *Server) returnFromStep(c *gin.Context) {
	mode, ok := modeParam(c)
	if !ok {
		return
	}
	session, err := s.Sessions.Return(c.Request.Context(), mode)
	if err != nil {
		respondError(c, err)
		return
	}
	s.respondSession(c, http.StatusOK, session)
}

// beginSession seeds edit mode from a cart item or customize mode from a preset
func (s *Server) beginSession(c *gin.Context) {
	mode, ok := modeParam(c)
	if !ok {
		return
	}
	ref := c.Param("ref")
	ctx := c.Request.Context()

	var (
		session selection.Session
		err     error
	)
	switch mode {
	case routing.Edit:
		item, gerr := s.Cart.Get(ctx, ref)
		if gerr != nil {
			respondError(c, gerr)
			return
		}
		session, err = s.Sessions.BeginEdit(ctx, item.ID, item.State)
	case routing.Customize:
		preset, gerr := catalog.Get(ref)
		if gerr != nil {
			respondError(c, gerr)
			return
		}
		session, err = s.Sessions.BeginCustomize(ctx, preset.ID, preset.State)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s mode has nothing to begin from", mode)})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	s.respondSession(c, http.StatusCreated, session)
}

// commitSession turns the session into a cart change and clears it
func (s *Server) commitSession(c *gin.Context) {
	mode, ok := modeParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	session, err := s.Sessions.Load(ctx, mode)
	if err != nil {
		respondError(c, err)
		return
	}
	if mode.NeedsRef() && session.Ref == "" {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("no %s session in progress", mode)})
		return
	}

	if err := patterns.Sleep(ctx, s.ProcessingDelay); err != nil {
		c.JSON(http.StatusRequestTimeout, gin.H{"error": "request cancelled"})
		return
	}

	resp := models.CommitResponse{Action: models.CommitAdded}
	switch mode {
	case routing.Edit:
		resp.Action = models.CommitUpdated
		resp.Item, err = s.Cart.Update(ctx, session.Ref, session.State, session.Total)
	case routing.Customize:
		resp.Item, err = s.Cart.AddPreset(ctx, session.Ref, session.State, session.Total)
	default:
		resp.Item, err = s.Cart.Add(ctx, session.State, session.Total)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	if err := s.Sessions.Reset(ctx, mode); err != nil {
		log.WithFields(log.Fields{
			"mode":  mode,
			"error": err.Error(),
		}).Warn("Failed to reset committed session")
	}

	snap, err := s.Cart.Snapshot(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.Count = snap.Count
	resp.Total = snap.Total

	status := http.StatusCreated
	if resp.Action == models.CommitUpdated {
		status = http.StatusOK
	}
	c.JSON(status, resp)
}
