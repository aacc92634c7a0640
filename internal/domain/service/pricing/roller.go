package pricing

import (
	"mystic_market/internal/domain/value"
)

const (
	markupMin = 0.10
	markupMax = 0.15
)

// Uncommon items use a fixed markup menu, in percent.
//
//nolint:gochecknoglobals
var uncommonMarkups = [...]int{0, 10, 15}

// RollPrice draws a base price for the rarity. An unknown rarity is worth
// nothing rather than an error.
func RollPrice(rarity value.Rarity, rng RandomSource) value.Gold {
	switch rarity {
	case value.RarityCommon:
		return value.Gold((uniformInt(rng, 1, 6) + 1) * 10) //nolint:mnd
	case value.RarityUncommon:
		base := uniformInt(rng, 1, 6) * 100 //nolint:mnd
		markup := uncommonMarkups[rng.IntN(len(uncommonMarkups))]

		return value.Gold(base * (100 + markup) / 100) //nolint:mnd
	case value.RarityRare:
		base := (uniformInt(rng, 1, 10) + uniformInt(rng, 1, 10)) * 1000 //nolint:mnd

		return withMarkup(base, uniformReal(rng, markupMin, markupMax))
	case value.RarityVeryRare:
		base := (uniformInt(rng, 1, 4) + 1) * 10000 //nolint:mnd

		return withMarkup(base, uniformReal(rng, markupMin, markupMax))
	default:
		return 0
	}
}

// withMarkup truncates toward zero.
func withMarkup(base int, markup float64) value.Gold {
	return value.Gold(float64(base) * (1 + markup))
}

// Bounds is the closed range a rarity can roll.
type Bounds struct {
	Min value.Gold
	Max value.Gold
}

// PriceBounds reports the theoretical range of RollPrice. Rare and Very Rare
// never actually reach Max because the markup interval is half-open.
func PriceBounds(rarity value.Rarity) (Bounds, bool) {
	switch rarity {
	case value.RarityCommon:
		return Bounds{Min: 20, Max: 70}, true
	case value.RarityUncommon:
		return Bounds{Min: 100, Max: 690}, true
	case value.RarityRare:
		return Bounds{Min: 2200, Max: 23000}, true
	case value.RarityVeryRare:
		return Bounds{Min: 22000, Max: 57500}, true
	default:
		return Bounds{}, false
	}
}
