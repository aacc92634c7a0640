package view_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"mystic_market/internal/domain"
	"mystic_market/internal/domain/entity"
	service "mystic_market/internal/domain/service/appraisal"
	"mystic_market/internal/domain/value"
	"mystic_market/internal/transport/bot/view"
	"mystic_market/pkg/errcodes"
)

func TestValuation(t *testing.T) {
	rq := require.New(t)

	v := entity.Valuation{
		Rarity:             value.RarityRare,
		BasePrice:          12100,
		ManualDiscount:     20,
		PersuasionRoll:     22,
		PersuasionDiscount: 15,
		TotalDiscount:      35,
		FinalPrice:         7865,
	}

	text := view.Valuation(v, true)
	rq.Contains(text, "<b>Rare</b>")
	rq.Contains(text, "Base price: 12,100 gp")
	rq.Contains(text, "20% manual + 15% persuasion (roll 22)")
	rq.Contains(text, "Final price: 7,865 gp")
	rq.NotContains(text, "capped")

	v.Capped = true
	rq.Contains(view.Valuation(v, true), "capped at 35%")

	unrolled := view.Valuation(entity.Valuation{PersuasionRoll: 10}, false)
	rq.Contains(unrolled, "No rarity")
	rq.Contains(unrolled, "Base price: -")
	rq.Contains(unrolled, "Final price: -")
}

func TestOutcomeEscapesNames(t *testing.T) {
	rq := require.New(t)

	text := view.Outcome(service.Outcome{
		Session: entity.Session{
			CharacterName: "<Lia>",
			Rolled:        true,
		},
		Warnings: []string{"names & rarity"},
	})

	rq.Contains(text, "&lt;Lia&gt; · -")
	rq.Contains(text, "⚠️ names &amp; rarity")
}

func TestReceipt(t *testing.T) {
	rq := require.New(t)

	receipt := service.Receipt{Transaction: entity.Transaction{
		ID:            "tx1",
		CharacterName: "Lia",
		ArtifactName:  "Cloak",
		Valuation:     entity.Valuation{FinalPrice: 42187},
	}}

	text := view.Receipt(receipt)
	rq.Contains(text, "Lia buys Cloak for <b>42,187 gp</b>")
	rq.Contains(text, "<code>tx1</code>")
	rq.NotContains(text, "Notification")

	receipt.Notification = make(chan bool)
	rq.Contains(view.Receipt(receipt), "Notification dispatched")
}

func TestError(t *testing.T) {
	rq := require.New(t)

	rq.Equal("❌ nothing to finalize", view.Error(domain.NewError(errcodes.SessionNotRolled, "nothing to finalize")))
	rq.NotContains(view.Error(errors.New("dial tcp: refused")), "dial")
	rq.NotContains(view.Error(domain.WrapError(errors.New("redis down"), errcodes.InternalServerError, "store")), "redis")
}
