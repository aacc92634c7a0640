package entity

import (
	"time"

	"mystic_market/internal/domain/value"
)

// Valuation is derived from a Session and never stored.
type Valuation struct {
	Rarity             value.Rarity
	BasePrice          value.Gold
	ManualDiscount     int
	PersuasionRoll     int
	PersuasionDiscount int
	TotalDiscount      int
	// Capped is set when the discount cap lowered the total.
	Capped     bool
	FinalPrice value.Gold
}

// Transaction is a finalized valuation. A preview summarizes a roll instead
// and is never recorded as a sale.
type Transaction struct {
	ID            value.TransactionID
	SessionID     value.SessionID
	CharacterName string
	ArtifactName  string
	Valuation     Valuation
	FinalizedAt   time.Time
	Preview       bool
}
