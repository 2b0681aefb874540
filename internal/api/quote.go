package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ashendes/wigshop/internal/catalog"
	"github.com/ashendes/wigshop/internal/currency"
	"github.com/ashendes/wigshop/internal/metrics"
	"github.com/ashendes/wigshop/internal/models"
	"github.com/ashendes/wigshop/internal/options"
	"github.com/ashendes/wigshop/internal/pricing"
	"github.com/ashendes/wigshop/internal/routing"
)

// getOptions lists every dimension's options priced against the session of ?mode
func (s *Server) getOptions(c *gin.Context) {
	mode, err := routing.ParseMode(c.DefaultQuery("mode", string(routing.Build)))
	if err != nil {
		respondError(c, err)
		return
	}

	session, err := s.Sessions.Load(c.Request.Context(), mode)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := models.OptionsResponse{
		Mode:     string(mode),
		Schedule: s.StepCalculator.Schedule().Name,
	}
	for _, d := range options.Dimensions {
		resp.Dimensions = append(resp.Dimensions, s.dimensionOptions(d, session.State))
	}
	c.JSON(http.StatusOK, resp)
}

// dimensionOptions prices each value as if it were the only selection of d
func (s *Server) dimensionOptions(d options.Dimension, state options.ConfigurationState) models.DimensionOptions {
	out := models.DimensionOptions{
		Dimension: d,
		Label:     d.Label(),
		Multi:     d.Multi(),
	}
	defaults := options.ParseSet(d, options.DefaultValue(d))
	current := options.ParseSet(d, state.Get(d))

	for _, v := range options.Values(d) {
		probe := state.Clone()
		probe.Assign(d, v)
		out.Options = append(out.Options, models.OptionPrice{
			Value:    v,
			Price:    s.StepCalculator.DimensionPrice(d, probe),
			Selected: current.Has(v),
			Default:  defaults.Has(v),
		})
	}
	return out
}

func (s *Server) quote(c *gin.Context) {
	req := models.QuoteRequest{State: options.Default()}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}
	req.State.Normalize()
	if err := req.State.Validate(); err != nil {
		respondError(c, err)
		return
	}

	calc := s.Calculator
	if req.Schedule != "" {
		schedule, ok := pricing.ScheduleByName(req.Schedule)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown schedule %q", req.Schedule)})
			return
		}
		calc = pricing.NewCalculator(schedule)
	}

	q := calc.Compute(req.State)
	metrics.QuoteTotal.Observe(float64(q.Total))

	cur := s.currencyFor(req.Currency)
	c.JSON(http.StatusOK, models.QuoteResponse{
		Breakdown:    q.Breakdown,
		BasePrice:    q.BasePrice,
		Total:        q.Total,
		Summary:      pricing.Summary(req.State),
		Schedule:     calc.Schedule().Name,
		Currency:     cur,
		DisplayTotal: currency.Format(q.Total, cur),
	})
}

func (s *Server) listPresets(c *gin.Context) {
	var resp models.PresetsResponse
	for _, p := range catalog.List() {
		resp.Presets = append(resp.Presets, models.PresetView{
			Preset:  p,
			Price:   s.Calculator.Compute(p.State).Total,
			Summary: pricing.Summary(p.State),
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) listCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, models.CurrenciesResponse{
		Currencies: currency.All(),
		Default:    s.currencyFor(""),
	})
}

// currencyFor resolves a requested display currency, falling back to the configured default
func (s *Server) currencyFor(code string) string {
	if code == "" {
		code = s.DefaultCurrency
	}
	cur, _ := currency.Lookup(code)
	return cur.Code
}
