package persistence

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"

	"mystic_market/internal/domain"
	"mystic_market/internal/domain/entity"
	"mystic_market/pkg/errcodes"
)

// SaleRepository is the ledger of finalized transactions.
type SaleRepository struct {
	db *sqlx.DB
}

func NewSaleRepository(db *sqlx.DB) *SaleRepository {
	return &SaleRepository{db: db}
}

// Create stores a finalized transaction. Storing the same transaction twice
// is a no-op.
func (r *SaleRepository) Create(ctx context.Context, tx entity.Transaction) error {
	query := `
		INSERT INTO sales (
			id, session_id, character_name, artifact_name, rarity, base_price,
			manual_discount, persuasion_roll, persuasion_discount, total_discount,
			capped, final_price, finalized_at
		)
		VALUES (
			:id, :session_id, :character_name, :artifact_name, :rarity, :base_price,
			:manual_discount, :persuasion_roll, :persuasion_discount, :total_discount,
			:capped, :final_price, :finalized_at
		)
		ON CONFLICT (id) DO NOTHING`

	if _, err := r.db.NamedExecContext(ctx, query, fromTransaction(tx)); err != nil {
		return domain.WrapError(err, errcodes.InternalServerError, "failed to insert sale")
	}

	return nil
}

// List returns transactions newest first.
func (r *SaleRepository) List(ctx context.Context, limit, offset int) ([]entity.Transaction, error) {
	query := `
		SELECT id, session_id, character_name, artifact_name, rarity, base_price,
		       manual_discount, persuasion_roll, persuasion_discount, total_discount,
		       capped, final_price, finalized_at
		FROM sales
		ORDER BY finalized_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	var schemas []saleSchema
	if err := r.db.SelectContext(ctx, &schemas, query, limit, offset); err != nil {
		return nil, domain.WrapError(err, errcodes.InternalServerError, "failed to list sales")
	}

	return lo.Map(schemas, func(s saleSchema, _ int) entity.Transaction {
		return s.toDomain()
	}), nil
}

func (r *SaleRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM sales`); err != nil {
		return 0, domain.WrapError(err, errcodes.InternalServerError, "failed to count sales")
	}

	return count, nil
}
