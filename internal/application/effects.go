package application

import (
	"context"
	"log/slog"
	"time"

	"mystic_market/internal/domain/entity"
	service "mystic_market/internal/domain/service/appraisal"
	"mystic_market/pkg/logx"
)

type saleRecorder interface {
	Create(ctx context.Context, tx entity.Transaction) error
}

// recordSales writes finalized transactions to the ledger off the request
// path. A failed write is logged and never fails the finalize.
func recordSales(repo saleRecorder, timeout time.Duration) service.Effect {
	return func(ctx context.Context, event service.Event) {
		if event.Transaction == nil {
			return
		}

		tx := *event.Transaction

		go func() {
			ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
			defer cancel()

			if err := repo.Create(ctx, tx); err != nil {
				logger(ctx).Error("sale not recorded",
					slog.String(logx.FieldTransactionID, tx.ID.String()),
					logx.Error(err),
				)
			}
		}()
	}
}

// notifyRolls sends a preview for every fresh roll.
func notifyRolls(dispatcher service.Dispatcher, now func() time.Time) service.Effect {
	return func(ctx context.Context, event service.Event) {
		tx := service.NewTransaction(event.Session, event.Valuation, now())
		tx.Preview = true

		dispatcher.Dispatch(ctx, tx)
	}
}
