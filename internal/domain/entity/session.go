package entity

import (
	"strings"
	"time"

	"mystic_market/internal/domain/value"
)

const DefaultPersuasionRoll = 10

// Session holds the inputs of one appraisal. BasePrice only changes on a roll;
// everything else is recomputed from it.
type Session struct {
	ID             value.SessionID `json:"id"`
	Rarity         value.Rarity    `json:"rarity"`
	BasePrice      value.Gold      `json:"base_price"`
	Rolled         bool            `json:"rolled"`
	ManualDiscount int             `json:"manual_discount"`
	PersuasionRoll int             `json:"persuasion_roll"`
	CharacterName  string          `json:"character_name,omitempty"`
	ArtifactName   string          `json:"artifact_name,omitempty"`
	RolledAt       time.Time       `json:"rolled_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

func (s Session) HasNames() bool {
	return strings.TrimSpace(s.CharacterName) != "" && strings.TrimSpace(s.ArtifactName) != ""
}

// SessionPatch changes some inputs of a session; nil fields stay as they
// are. Selecting a different rarity is a roll event.
type SessionPatch struct {
	Rarity         *value.Rarity
	ManualDiscount *int
	PersuasionRoll *int
	CharacterName  *string
	ArtifactName   *string
}

func (p SessionPatch) Empty() bool {
	return p.Rarity == nil && p.ManualDiscount == nil && p.PersuasionRoll == nil &&
		p.CharacterName == nil && p.ArtifactName == nil
}
