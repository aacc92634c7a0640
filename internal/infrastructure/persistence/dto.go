package persistence

import (
	"time"

	"mystic_market/internal/domain/entity"
	"mystic_market/internal/domain/value"
)

// saleSchema maps a row of the sales table.
type saleSchema struct {
	ID                 string    `db:"id"`
	SessionID          string    `db:"session_id"`
	CharacterName      string    `db:"character_name"`
	ArtifactName       string    `db:"artifact_name"`
	Rarity             string    `db:"rarity"`
	BasePrice          int64     `db:"base_price"`
	ManualDiscount     int       `db:"manual_discount"`
	PersuasionRoll     int       `db:"persuasion_roll"`
	PersuasionDiscount int       `db:"persuasion_discount"`
	TotalDiscount      int       `db:"total_discount"`
	Capped             bool      `db:"capped"`
	FinalPrice         int64     `db:"final_price"`
	FinalizedAt        time.Time `db:"finalized_at"`
}

func fromTransaction(tx entity.Transaction) saleSchema {
	return saleSchema{
		ID:                 tx.ID.String(),
		SessionID:          tx.SessionID.String(),
		CharacterName:      tx.CharacterName,
		ArtifactName:       tx.ArtifactName,
		Rarity:             tx.Valuation.Rarity.String(),
		BasePrice:          int64(tx.Valuation.BasePrice),
		ManualDiscount:     tx.Valuation.ManualDiscount,
		PersuasionRoll:     tx.Valuation.PersuasionRoll,
		PersuasionDiscount: tx.Valuation.PersuasionDiscount,
		TotalDiscount:      tx.Valuation.TotalDiscount,
		Capped:             tx.Valuation.Capped,
		FinalPrice:         int64(tx.Valuation.FinalPrice),
		FinalizedAt:        tx.FinalizedAt,
	}
}

func (s saleSchema) toDomain() entity.Transaction {
	return entity.Transaction{
		ID:            value.TransactionID(s.ID),
		SessionID:     value.SessionID(s.SessionID),
		CharacterName: s.CharacterName,
		ArtifactName:  s.ArtifactName,
		Valuation: entity.Valuation{
			Rarity:             value.Rarity(s.Rarity),
			BasePrice:          value.Gold(s.BasePrice),
			ManualDiscount:     s.ManualDiscount,
			PersuasionRoll:     s.PersuasionRoll,
			PersuasionDiscount: s.PersuasionDiscount,
			TotalDiscount:      s.TotalDiscount,
			Capped:             s.Capped,
			FinalPrice:         value.Gold(s.FinalPrice),
		},
		FinalizedAt: s.FinalizedAt,
	}
}
