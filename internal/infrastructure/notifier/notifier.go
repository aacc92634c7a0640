package notifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"mystic_market/internal/domain/entity"
	"mystic_market/internal/domain/value"
	"mystic_market/pkg/contextx"
	"mystic_market/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type Sender interface {
	Name() string
	Send(ctx context.Context, tx entity.Transaction) error
}

// Fanout sends to every sink and fails if any of them failed.
type Fanout []Sender

func (f Fanout) Name() string {
	return "fanout"
}

func (f Fanout) Send(ctx context.Context, tx entity.Transaction) error {
	var errs []error

	for _, sender := range f {
		if err := sender.Send(ctx, tx); err != nil {
			logger(ctx).Warn("notification not delivered",
				slog.String(logx.FieldSink, sender.Name()),
				slog.String(logx.FieldTransactionID, tx.ID.String()),
				logx.Error(err),
			)

			errs = append(errs, fmt.Errorf("%s: %w", sender.Name(), err))
		}
	}

	return errors.Join(errs...)
}

func title(tx entity.Transaction) string {
	if tx.Preview {
		return "Price rolled"
	}

	return "Sale finalized"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}

func description(tx entity.Transaction) string {
	return fmt.Sprintf("%s buys %s for %s",
		orDash(tx.CharacterName),
		orDash(tx.ArtifactName),
		tx.Valuation.FinalPrice,
	)
}

func discountLine(v entity.Valuation) string {
	line := fmt.Sprintf("%d%% manual + %d%% persuasion (roll %d) = %d%%",
		v.ManualDiscount, v.PersuasionDiscount, v.PersuasionRoll, v.TotalDiscount)
	if v.Capped {
		line += " (capped)"
	}

	return line
}

// rarityColor follows the usual item rarity palette.
func rarityColor(r value.Rarity) int {
	switch r {
	case value.RarityCommon:
		return 0x9d9d9d
	case value.RarityUncommon:
		return 0x1eff00
	case value.RarityRare:
		return 0x0070dd
	case value.RarityVeryRare:
		return 0xa335ee
	default:
		return 0
	}
}
