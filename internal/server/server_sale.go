package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/samber/lo"

	"mystic_market/internal/domain/entity"
	"mystic_market/pkg/errcodes"
	"mystic_market/pkg/httpx/reply"
	"mystic_market/pkg/rest"
)

const (
	defaultSalesLimit = 50
	maxSalesLimit     = 200
)

var errOutOfRange = errors.New("out of range")

type SaleServer struct {
	saleRepository saleRepository
}

func NewSaleServer(saleRepository saleRepository) SaleServer {
	return SaleServer{
		saleRepository: saleRepository,
	}
}

func (s SaleServer) getV1Sales(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	limit, err := queryInt(r, "limit", defaultSalesLimit)
	if err == nil && (limit < 1 || limit > maxSalesLimit) {
		err = errOutOfRange
	}

	if err != nil {
		return invalidArgument(errcodes.InvalidPaging, fmt.Sprintf("limit must be in [1,%d]", maxSalesLimit), fmt.Errorf("limit: %w", err))
	}

	offset, err := queryInt(r, "offset", 0)
	if err == nil && offset < 0 {
		err = errOutOfRange
	}

	if err != nil {
		return invalidArgument(errcodes.InvalidPaging, "offset must not be negative", fmt.Errorf("offset: %w", err))
	}

	sales, err := s.saleRepository.List(ctx, limit, offset)
	if err != nil {
		return serviceError("saleRepository.List", err)
	}

	total, err := s.saleRepository.Count(ctx)
	if err != nil {
		return serviceError("saleRepository.Count", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.SalesResponse{
		Sales:  lo.Map(sales, func(tx entity.Transaction, _ int) rest.Transaction { return newRESTTransaction(tx) }),
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})

	return nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("strconv.Atoi: %w", err)
	}

	return v, nil
}
