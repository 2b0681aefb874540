package pricing_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/cucumber/godog"

	"github.com/ashendes/wigshop/internal/options"
	"github.com/ashendes/wigshop/internal/pricing"
)

type pricingTestContext struct {
	state      options.ConfigurationState
	calculator *pricing.Calculator
	quote      pricing.Quote
}

func (c *pricingTestContext) reset() {
	c.state = options.Default()
	c.calculator = pricing.NewCalculator(pricing.Checkout)
	c.quote = pricing.Quote{}
}

var dimensionWords = map[string]options.Dimension{
	"cap size": options.CapSize,
	"length":   options.Length,
	"density":  options.Density,
	"lace":     options.Lace,
	"texture":  options.Texture,
	"color":    options.Color,
	"hairline": options.Hairline,
	"styling":  options.Styling,
	"add-ons":  options.AddOns,
}

func dimensionFor(word string) (options.Dimension, error) {
	d, ok := dimensionWords[word]
	if !ok {
		return "", fmt.Errorf("unknown dimension %q", word)
	}
	return d, nil
}

func (c *pricingTestContext) aDefaultConfiguration() error {
	c.state = options.Default()
	return nil
}

func (c *pricingTestContext) theScheduleIsUsed(name string) error {
	s, ok := pricing.ScheduleByName(name)
	if !ok {
		return fmt.Errorf("unknown schedule %q", name)
	}
	c.calculator = pricing.NewCalculator(s)
	return nil
}

func (c *pricingTestContext) theDimensionIsSetTo(word, value string) error {
	d, err := dimensionFor(word)
	if err != nil {
		return err
	}
	c.state.Assign(d, value)
	return c.state.Validate()
}

func (c *pricingTestContext) iComputeThePrice() error {
	c.quote = c.calculator.Compute(c.state)
	return nil
}

func (c *pricingTestContext) theTotalIs(total int) error {
	if c.quote.Total != total {
		return fmt.Errorf("expected total %d, got %d", total, c.quote.Total)
	}
	return nil
}

func (c *pricingTestContext) theDimensionPriceIs(word string, price int) error {
	d, err := dimensionFor(word)
	if err != nil {
		return err
	}
	if got := c.quote.Breakdown.Get(d); got != price {
		return fmt.Errorf("expected %s price %d, got %d", word, price, got)
	}
	return nil
}

func (c *pricingTestContext) everyDimensionPriceIs(price int) error {
	for _, d := range options.Dimensions {
		if got := c.quote.Breakdown.Get(d); got != price {
			return fmt.Errorf("expected %s price %d, got %d", d, price, got)
		}
	}
	return nil
}

func (c *pricingTestContext) theSummaryReads(summary string) error {
	if got := pricing.Summary(c.state); got != summary {
		return fmt.Errorf("expected summary %q, got %q", summary, got)
	}
	return nil
}

func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &pricingTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a default configuration$`, tc.aDefaultConfiguration)
	ctx.Step(`^the "([^"]*)" schedule is used$`, tc.theScheduleIsUsed)
	ctx.Step(`^the ([a-z -]+) is set to '([^']*)'$`, tc.theDimensionIsSetTo)

	// When steps
	ctx.Step(`^I compute the price$`, tc.iComputeThePrice)

	// Then steps
	ctx.Step(`^the total is (-?\d+)$`, tc.theTotalIs)
	ctx.Step(`^every dimension price is (-?\d+)$`, tc.everyDimensionPriceIs)
	ctx.Step(`^the ([a-z -]+) price is (-?\d+)$`, tc.theDimensionPriceIs)
	ctx.Step(`^the summary reads '([^']*)'$`, tc.theSummaryReads)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
