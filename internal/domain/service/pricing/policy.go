package pricing

import (
	"errors"
	"fmt"

	"mystic_market/internal/domain/entity"
	"mystic_market/internal/domain/value"
)

const (
	MinPersuasionRoll = 1
	MaxPersuasionRoll = 40

	// Uncapped disables the total discount cap.
	Uncapped = -1
)

var (
	ErrManualDiscountOutOfRange = errors.New("manual discount out of range")
	ErrPersuasionRollOutOfRange = errors.New("persuasion roll out of range")
	ErrInvalidPolicy            = errors.New("invalid pricing policy")
)

// Policy decides how discounts combine. Negative DiscountCap means uncapped;
// with FloorAtZero unset and no cap a discount above 100% yields a negative
// price.
type Policy struct {
	Table             Table
	DiscountCap       int
	FloorAtZero       bool
	ManualDiscountMax int
}

func DefaultPolicy() Policy {
	return Policy{
		Table:             SixTierTable(),
		DiscountCap:       100, //nolint:mnd
		FloorAtZero:       true,
		ManualDiscountMax: 100, //nolint:mnd
	}
}

func (p Policy) Validate() error {
	if err := p.Table.Validate(); err != nil {
		return fmt.Errorf("table: %w", err)
	}

	if p.ManualDiscountMax < 0 || p.ManualDiscountMax > 100 {
		return fmt.Errorf("%w: manual discount max %d out of [0,100]", ErrInvalidPolicy, p.ManualDiscountMax)
	}

	return nil
}

func (p Policy) Capped() bool {
	return p.DiscountCap >= 0
}

func (p Policy) ValidateManualDiscount(percent int) error {
	if percent < 0 || percent > p.ManualDiscountMax {
		return fmt.Errorf("%w: %d not in [0,%d]", ErrManualDiscountOutOfRange, percent, p.ManualDiscountMax)
	}

	return nil
}

func (p Policy) ValidatePersuasionRoll(roll int) error {
	if roll < MinPersuasionRoll || roll > MaxPersuasionRoll {
		return fmt.Errorf("%w: %d not in [%d,%d]", ErrPersuasionRollOutOfRange, roll, MinPersuasionRoll, MaxPersuasionRoll)
	}

	return nil
}

// TotalDiscount adds the manual and persuasion discounts and applies the cap.
func (p Policy) TotalDiscount(manual, roll int) (persuasion, total int, capped bool) {
	persuasion = p.Table.Discount(roll)
	total = manual + persuasion

	if p.Capped() && total > p.DiscountCap {
		return persuasion, p.DiscountCap, true
	}

	return persuasion, total, false
}

// Evaluate is the single recompute function: same inputs, same valuation.
func (p Policy) Evaluate(rarity value.Rarity, base value.Gold, manual, roll int) entity.Valuation {
	persuasion, total, capped := p.TotalDiscount(manual, roll)

	final := FinalPrice(base, total)
	if p.FloorAtZero && final < 0 {
		final = 0
	}

	return entity.Valuation{
		Rarity:             rarity,
		BasePrice:          base,
		ManualDiscount:     manual,
		PersuasionRoll:     roll,
		PersuasionDiscount: persuasion,
		TotalDiscount:      total,
		Capped:             capped,
		FinalPrice:         final,
	}
}

// FinalPrice is floor(base * (1 - totalDiscount/100)) in integer arithmetic.
func FinalPrice(base value.Gold, totalDiscount int) value.Gold {
	return floorDiv(int64(base)*int64(100-totalDiscount), 100) //nolint:mnd
}

func floorDiv(a, b int64) value.Gold {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}

	return value.Gold(q)
}
