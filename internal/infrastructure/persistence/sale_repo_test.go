package persistence_test

import (
	"context"
	"os"
	"testing"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"mystic_market/internal/domain/entity"
	"mystic_market/internal/domain/value"
	"mystic_market/internal/infrastructure/persistence"
	"mystic_market/pkg/dbtest"
)

func TestSaleRepository(t *testing.T) {
	dsn := os.Getenv("PG_TEST_DSN")
	if dsn == "" {
		t.Skip("PG_TEST_DSN is not set")
	}

	rq := require.New(t)
	ctx := context.Background()

	db, err := sqlx.Connect("pgx", dsn)
	rq.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	rq.NoError(dbtest.Migrate(ctx, db, "../../../migrations"))

	_, err = db.Exec(`TRUNCATE sales`)
	rq.NoError(err)

	repo := persistence.NewSaleRepository(db)
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	older := entity.Transaction{
		ID:          value.NewTransactionID(),
		SessionID:   value.NewSessionID(),
		FinalizedAt: at,
		Valuation: entity.Valuation{
			Rarity:     value.RarityCommon,
			BasePrice:  40,
			FinalPrice: 40,
		},
	}
	newer := entity.Transaction{
		ID:            value.NewTransactionID(),
		SessionID:     value.NewSessionID(),
		CharacterName: "Vex",
		ArtifactName:  "Staff of Power",
		FinalizedAt:   at.Add(time.Minute),
		Valuation: entity.Valuation{
			Rarity:             value.RarityVeryRare,
			BasePrice:          56250,
			PersuasionRoll:     27,
			PersuasionDiscount: 25,
			TotalDiscount:      25,
			FinalPrice:         42187,
		},
	}

	rq.NoError(repo.Create(ctx, older))
	rq.NoError(repo.Create(ctx, newer))
	rq.NoError(repo.Create(ctx, newer))

	count, err := repo.Count(ctx)
	rq.NoError(err)
	rq.Equal(2, count)

	sales, err := repo.List(ctx, 10, 0)
	rq.NoError(err)
	rq.Len(sales, 2)
	rq.Equal(newer.ID, sales[0].ID)
	rq.Equal(newer.Valuation, sales[0].Valuation)
	rq.Equal(older.ID, sales[1].ID)

	sales, err = repo.List(ctx, 1, 1)
	rq.NoError(err)
	rq.Len(sales, 1)
	rq.Equal(older.ID, sales[0].ID)
}
