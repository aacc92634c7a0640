package server

import (
	"context"

	"mystic_market/internal/domain/entity"
	service "mystic_market/internal/domain/service/appraisal"
	"mystic_market/internal/domain/service/pricing"
	"mystic_market/internal/domain/value"
)

type appraisalService interface {
	Create(ctx context.Context, patch entity.SessionPatch) (service.Outcome, error)
	Get(ctx context.Context, id value.SessionID) (service.Outcome, error)
	Update(ctx context.Context, id value.SessionID, patch entity.SessionPatch) (service.Outcome, error)
	Reroll(ctx context.Context, id value.SessionID) (service.Outcome, error)
	Finalize(ctx context.Context, id value.SessionID) (service.Receipt, error)
	End(ctx context.Context, id value.SessionID) error
	Quote(ctx context.Context, rarity value.Rarity, manual, roll int) (entity.Valuation, error)
	Policy() pricing.Policy
	NamesRequired() bool
}

type saleRepository interface {
	List(ctx context.Context, limit, offset int) ([]entity.Transaction, error)
	Count(ctx context.Context) (int, error)
}

// Server groups the HTTP handlers by resource. SaleServer is optional.
type Server struct {
	CatalogServer
	SessionServer
	SaleServer *SaleServer
}

func NewServer(
	catalogServer CatalogServer,
	sessionServer SessionServer,
) Server {
	return Server{
		CatalogServer: catalogServer,
		SessionServer: sessionServer,
	}
}

func (s Server) WithSales(saleServer SaleServer) Server {
	s.SaleServer = &saleServer
	return s
}
