package server

import (
	"fmt"
	"net/http"

	"github.com/samber/lo"

	"mystic_market/internal/domain/entity"
	"mystic_market/internal/domain/value"
	"mystic_market/pkg/errcodes"
	"mystic_market/pkg/httpx/reply"
	"mystic_market/pkg/httpx/req"
	"mystic_market/pkg/rest"
)

// CatalogServer serves the static pricing rules and stateless quotes.
type CatalogServer struct {
	appraisalService appraisalService
}

func NewCatalogServer(appraisalService appraisalService) CatalogServer {
	return CatalogServer{
		appraisalService: appraisalService,
	}
}

func (s CatalogServer) getV1Rarities(w http.ResponseWriter, r *http.Request) error {
	reply.JSON(r.Context(), w, http.StatusOK, lo.Map(value.Rarities(), func(rarity value.Rarity, _ int) rest.Rarity { return newRESTRarity(rarity) }))

	return nil
}

func (s CatalogServer) getV1DiscountTable(w http.ResponseWriter, r *http.Request) error {
	policy := newRESTPricingPolicy(s.appraisalService.Policy(), s.appraisalService.NamesRequired())

	reply.JSON(r.Context(), w, http.StatusOK, policy)

	return nil
}

func (s CatalogServer) postV1Quotes(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.QuoteRequest

	if err := req.Read(w, r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	rarity, err := value.ParseRarity(request.Rarity)
	if err != nil {
		return invalidArgument(errcodes.InvalidRarity, "Unknown rarity", fmt.Errorf("value.ParseRarity: %w", err))
	}

	roll := entity.DefaultPersuasionRoll
	if request.PersuasionRoll != nil {
		roll = *request.PersuasionRoll
	}

	valuation, err := s.appraisalService.Quote(ctx, rarity, request.ManualDiscount, roll)
	if err != nil {
		return serviceError("appraisalService.Quote", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTValuation(valuation, true))

	return nil
}
