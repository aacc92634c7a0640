package value

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownRarity = errors.New("unknown rarity")

// Rarity selects the base price formula of an item.
type Rarity string

const (
	RarityCommon   Rarity = "common"
	RarityUncommon Rarity = "uncommon"
	RarityRare     Rarity = "rare"
	RarityVeryRare Rarity = "very_rare"
)

// Rarities lists the selectable tiers in display order.
func Rarities() []Rarity {
	return []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityVeryRare}
}

// ParseRarity accepts identifiers and display names alike: "very_rare",
// "Very Rare" and "very-rare" are the same tier.
func ParseRarity(s string) (Rarity, error) {
	normalized := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(s)))

	r := Rarity(normalized)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRarity, s)
	}

	return r, nil
}

func (r Rarity) Valid() bool {
	switch r {
	case RarityCommon, RarityUncommon, RarityRare, RarityVeryRare:
		return true
	default:
		return false
	}
}

func (r Rarity) String() string {
	return string(r)
}

func (r Rarity) DisplayName() string {
	switch r {
	case RarityCommon:
		return "Common"
	case RarityUncommon:
		return "Uncommon"
	case RarityRare:
		return "Rare"
	case RarityVeryRare:
		return "Very Rare"
	default:
		return string(r)
	}
}
