package server

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"mystic_market/internal/domain/entity"
	service "mystic_market/internal/domain/service/appraisal"
	"mystic_market/internal/domain/service/pricing"
	"mystic_market/internal/domain/value"
	"mystic_market/pkg/errcodes"
	"mystic_market/pkg/rest"
)

const notRolled = "-"

func newRESTRarity(rarity value.Rarity) rest.Rarity {
	bounds, _ := pricing.PriceBounds(rarity)

	return rest.Rarity{
		ID:              rarity.String(),
		Name:            rarity.DisplayName(),
		MinPrice:        int64(bounds.Min),
		MinPriceDisplay: bounds.Min.String(),
		MaxPrice:        int64(bounds.Max),
		MaxPriceDisplay: bounds.Max.String(),
	}
}

func newRESTPricingPolicy(policy pricing.Policy, requireNames bool) rest.PricingPolicy {
	response := rest.PricingPolicy{
		Table: policy.Table.Name,
		Tiers: lo.Map(policy.Table.Tiers, func(t pricing.Tier, _ int) rest.DiscountTier {
			return rest.DiscountTier{MinRoll: t.MinRoll, Percent: t.Percent}
		}),
		FloorAtZero:       policy.FloorAtZero,
		ManualDiscountMax: policy.ManualDiscountMax,
		PersuasionRollMin: pricing.MinPersuasionRoll,
		PersuasionRollMax: pricing.MaxPersuasionRoll,
		RequireNames:      requireNames,
	}

	if policy.Capped() {
		capPercent := policy.DiscountCap
		response.Cap = &capPercent
	}

	return response
}

func newRESTValuation(v entity.Valuation, rolled bool) rest.Valuation {
	response := rest.Valuation{
		Rarity:             v.Rarity.String(),
		RarityName:         v.Rarity.DisplayName(),
		BasePrice:          int64(v.BasePrice),
		BasePriceDisplay:   v.BasePrice.String(),
		ManualDiscount:     v.ManualDiscount,
		PersuasionRoll:     v.PersuasionRoll,
		PersuasionDiscount: v.PersuasionDiscount,
		TotalDiscount:      v.TotalDiscount,
		Capped:             v.Capped,
		FinalPrice:         int64(v.FinalPrice),
		FinalPriceDisplay:  v.FinalPrice.String(),
	}

	if !rolled {
		response.BasePriceDisplay = notRolled
		response.FinalPriceDisplay = notRolled
	}

	return response
}

func newRESTSession(outcome service.Outcome) rest.Session {
	session := outcome.Session

	response := rest.Session{
		ID:            session.ID.String(),
		Rolled:        session.Rolled,
		CharacterName: session.CharacterName,
		ArtifactName:  session.ArtifactName,
		UpdatedAt:     session.UpdatedAt,
		Valuation:     newRESTValuation(outcome.Valuation, session.Rolled),
		Warnings:      outcome.Warnings,
	}

	if !session.RolledAt.IsZero() {
		rolledAt := session.RolledAt
		response.RolledAt = &rolledAt
	}

	return response
}

func newRESTTransaction(tx entity.Transaction) rest.Transaction {
	return rest.Transaction{
		ID:            tx.ID.String(),
		SessionID:     tx.SessionID.String(),
		CharacterName: tx.CharacterName,
		ArtifactName:  tx.ArtifactName,
		Valuation:     newRESTValuation(tx.Valuation, true),
		FinalizedAt:   tx.FinalizedAt,
	}
}

func newDomainSessionPatch(request rest.SessionRequest) (entity.SessionPatch, error) {
	patch := entity.SessionPatch{
		ManualDiscount: request.ManualDiscount,
		PersuasionRoll: request.PersuasionRoll,
	}

	if request.Rarity != nil {
		rarity, err := value.ParseRarity(*request.Rarity)
		if err != nil {
			return entity.SessionPatch{}, invalidArgument(errcodes.InvalidRarity, "Unknown rarity", fmt.Errorf("value.ParseRarity: %w", err))
		}

		patch.Rarity = &rarity
	}

	if request.CharacterName != nil {
		name := strings.TrimSpace(*request.CharacterName)
		patch.CharacterName = &name
	}

	if request.ArtifactName != nil {
		name := strings.TrimSpace(*request.ArtifactName)
		patch.ArtifactName = &name
	}

	return patch, nil
}
