package config

import (
	"fmt"

	"mystic_market/internal/domain/service/pricing"
)

// Pricing configures the valuation policy. A negative DiscountCap disables
// the cap; a zero Seed seeds the dice from crypto/rand.
type Pricing struct {
	DiscountTable     string `env:"PRICING_DISCOUNT_TABLE" envDefault:"six-tier"`
	DiscountTableFile string `env:"PRICING_DISCOUNT_TABLE_FILE"`
	DiscountCap       int    `env:"PRICING_DISCOUNT_CAP" envDefault:"100"`
	FloorAtZero       bool   `env:"PRICING_FLOOR_AT_ZERO" envDefault:"true"`
	ManualDiscountMax int    `env:"PRICING_MANUAL_DISCOUNT_MAX" envDefault:"100"`
	RequireNames      bool   `env:"PRICING_REQUIRE_NAMES" envDefault:"false"`
	Seed              uint64 `env:"PRICING_SEED" envDefault:"0"`
}

// Policy builds the pricing policy. A table file wins over a table name.
func (p Pricing) Policy() (pricing.Policy, error) {
	var (
		table pricing.Table
		err   error
	)

	if p.DiscountTableFile != "" {
		table, err = pricing.LoadTable(p.DiscountTableFile)
	} else {
		table, err = pricing.TableByName(p.DiscountTable)
	}

	if err != nil {
		return pricing.Policy{}, fmt.Errorf("PRICING_DISCOUNT_TABLE: %w", err)
	}

	policy := pricing.Policy{
		Table:             table,
		DiscountCap:       p.DiscountCap,
		FloorAtZero:       p.FloorAtZero,
		ManualDiscountMax: p.ManualDiscountMax,
	}

	if policy.DiscountCap < 0 {
		policy.DiscountCap = pricing.Uncapped
	}

	if err := policy.Validate(); err != nil {
		return pricing.Policy{}, fmt.Errorf("pricing policy: %w", err)
	}

	return policy, nil
}
