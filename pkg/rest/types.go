package rest

import "time"

type Rarity struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	MinPrice        int64  `json:"minPrice"`
	MinPriceDisplay string `json:"minPriceDisplay"`
	MaxPrice        int64  `json:"maxPrice"`
	MaxPriceDisplay string `json:"maxPriceDisplay"`
}

type DiscountTier struct {
	MinRoll int `json:"minRoll"`
	Percent int `json:"percent"`
}

// PricingPolicy describes the active discount rules. Cap is null when the
// total discount is uncapped.
type PricingPolicy struct {
	Table             string         `json:"table"`
	Tiers             []DiscountTier `json:"tiers"`
	Cap               *int           `json:"cap"`
	FloorAtZero       bool           `json:"floorAtZero"`
	ManualDiscountMax int            `json:"manualDiscountMax"`
	PersuasionRollMin int            `json:"persuasionRollMin"`
	PersuasionRollMax int            `json:"persuasionRollMax"`
	RequireNames      bool           `json:"requireNames"`
}

type QuoteRequest struct {
	Rarity         string `json:"rarity" validate:"required"`
	ManualDiscount int    `json:"manualDiscount" validate:"min=0,max=100"`
	PersuasionRoll *int   `json:"persuasionRoll" validate:"omitempty,min=1,max=40"`
}

// SessionRequest creates or patches a session. Absent fields are left as
// they are.
type SessionRequest struct {
	Rarity         *string `json:"rarity"`
	ManualDiscount *int    `json:"manualDiscount" validate:"omitempty,min=0,max=100"`
	PersuasionRoll *int    `json:"persuasionRoll" validate:"omitempty,min=1,max=40"`
	CharacterName  *string `json:"characterName" validate:"omitempty,max=120"`
	ArtifactName   *string `json:"artifactName" validate:"omitempty,max=120"`
}

type Valuation struct {
	Rarity             string `json:"rarity"`
	RarityName         string `json:"rarityName"`
	BasePrice          int64  `json:"basePrice"`
	BasePriceDisplay   string `json:"basePriceDisplay"`
	ManualDiscount     int    `json:"manualDiscount"`
	PersuasionRoll     int    `json:"persuasionRoll"`
	PersuasionDiscount int    `json:"persuasionDiscount"`
	TotalDiscount      int    `json:"totalDiscount"`
	Capped             bool   `json:"capped"`
	FinalPrice         int64  `json:"finalPrice"`
	FinalPriceDisplay  string `json:"finalPriceDisplay"`
}

type Session struct {
	ID            string     `json:"id"`
	Rolled        bool       `json:"rolled"`
	CharacterName string     `json:"characterName"`
	ArtifactName  string     `json:"artifactName"`
	RolledAt      *time.Time `json:"rolledAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	Valuation     Valuation  `json:"valuation"`
	Warnings      []string   `json:"warnings,omitempty"`
}

type Transaction struct {
	ID            string    `json:"id"`
	SessionID     string    `json:"sessionId"`
	CharacterName string    `json:"characterName"`
	ArtifactName  string    `json:"artifactName"`
	Valuation     Valuation `json:"valuation"`
	FinalizedAt   time.Time `json:"finalizedAt"`
}

// Notification states reported by the finalize endpoint.
const (
	NotificationDisabled   = "disabled"
	NotificationDispatched = "dispatched"
	NotificationDelivered  = "delivered"
	NotificationFailed     = "failed"
)

type FinalizeResponse struct {
	Transaction  Transaction `json:"transaction"`
	Notification string      `json:"notification"`
}

type SalesResponse struct {
	Sales  []Transaction `json:"sales"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

type Error struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	SupportID string `json:"supportId"`
}
