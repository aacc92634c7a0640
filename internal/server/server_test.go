package server_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"mystic_market/internal/domain/entity"
	service "mystic_market/internal/domain/service/appraisal"
	"mystic_market/internal/domain/service/pricing"
	"mystic_market/internal/domain/value"
	"mystic_market/internal/infrastructure/persistence"
	"mystic_market/internal/server"
	"mystic_market/pkg/errcodes"
	"mystic_market/pkg/rest"
	"mystic_market/pkg/tests"
)

type resultDispatcher struct {
	ok    bool
	calls int
}

func (d *resultDispatcher) Dispatch(context.Context, entity.Transaction) <-chan bool {
	d.calls++

	result := make(chan bool, 1)
	result <- d.ok

	return result
}

type fakeSales struct {
	sales []entity.Transaction
}

func (f fakeSales) List(_ context.Context, limit, offset int) ([]entity.Transaction, error) {
	if offset >= len(f.sales) {
		return nil, nil
	}

	return f.sales[offset:min(offset+limit, len(f.sales))], nil
}

func (f fakeSales) Count(context.Context) (int, error) {
	return len(f.sales), nil
}

type env struct {
	client tests.APIClient
	source *tests.ScriptedSource
}

func setup(t *testing.T, configure func(*service.AppraisalService, server.Server) server.Server) env {
	t.Helper()

	source := &tests.ScriptedSource{}
	store := persistence.NewMemorySessionStore(time.Hour, time.Hour)
	svc := service.NewAppraisalService(store, service.NewBus(), source, pricing.DefaultPolicy())

	srv := server.NewServer(
		server.NewCatalogServer(svc),
		server.NewSessionServer(svc, time.Second),
	)

	if configure != nil {
		srv = configure(svc, srv)
	}

	ts := httptest.NewServer(srv.Handler(0))
	t.Cleanup(ts.Close)

	return env{
		client: tests.NewAPIClient(ts.URL, ts.Client()),
		source: source,
	}
}

func TestGetV1Rarities(t *testing.T) {
	rq := require.New(t)
	e := setup(t, nil)

	var rarities []rest.Rarity

	resp, err := e.client.Get(context.Background(), "/v1/rarities", nil, &rarities, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(rarities, 4)
	rq.Equal("very_rare", rarities[3].ID)
	rq.Equal("Very Rare", rarities[3].Name)
	rq.Equal("57,500 gp", rarities[3].MaxPriceDisplay)
	rq.Equal(int64(20), rarities[0].MinPrice)
}

func TestGetV1DiscountTable(t *testing.T) {
	rq := require.New(t)
	e := setup(t, nil)

	var policy rest.PricingPolicy

	resp, err := e.client.Get(context.Background(), "/v1/discount-table", nil, &policy, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(pricing.TableSixTier, policy.Table)
	rq.Len(policy.Tiers, 6)
	rq.NotNil(policy.Cap)
	rq.Equal(100, *policy.Cap)
	rq.True(policy.FloorAtZero)
	rq.Equal(40, policy.PersuasionRollMax)
}

func TestPostV1Quotes(t *testing.T) {
	rq := require.New(t)
	e := setup(t, nil)
	ctx := context.Background()

	e.source.Ints = []int{4, 5}
	e.source.Floats = []float64{0}

	var valuation rest.Valuation

	resp, err := e.client.Post(ctx, "/v1/quotes", nil, rest.QuoteRequest{
		Rarity:         "Rare",
		ManualDiscount: 10,
		PersuasionRoll: lo.ToPtr(21),
	}, &valuation, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(int64(12100), valuation.BasePrice)
	rq.Equal("12,100 gp", valuation.BasePriceDisplay)
	rq.Equal(25, valuation.TotalDiscount)
	rq.Equal("9,075 gp", valuation.FinalPriceDisplay)

	testCases := []struct {
		name string
		body string
		code string
	}{
		{name: "Unknown rarity", body: `{"rarity":"legendary"}`, code: errcodes.InvalidRarity.String()},
		{name: "Roll out of range", body: `{"rarity":"rare","persuasionRoll":50}`, code: errcodes.ValidationError.String()},
		{name: "Missing rarity", body: `{}`, code: errcodes.ValidationError.String()},
		{name: "Broken JSON", body: `{"rarity":`, code: errcodes.ValidationError.String()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var apiErr rest.Error

			resp, err := e.client.PostJSON(ctx, "/v1/quotes", nil, tc.body, nil, &apiErr)
			require.NoError(t, err)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)
			require.Equal(t, tc.code, apiErr.Code)
			require.NotEmpty(t, apiErr.SupportID)
		})
	}
}

func TestSessionLifecycle(t *testing.T) {
	rq := require.New(t)

	dispatcher := &resultDispatcher{ok: true}
	e := setup(t, func(svc *service.AppraisalService, srv server.Server) server.Server {
		svc.WithDispatcher(dispatcher)
		return srv
	})
	ctx := context.Background()

	e.source.Ints = []int{4, 5}
	e.source.Floats = []float64{0}

	var session rest.Session

	resp, err := e.client.Post(ctx, "/v1/sessions", nil, rest.SessionRequest{Rarity: lo.ToPtr("rare")}, &session, nil)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.True(session.Rolled)
	rq.NotNil(session.RolledAt)
	rq.Equal(int64(12100), session.Valuation.BasePrice)
	rq.Equal(10, session.Valuation.PersuasionRoll)

	path := "/v1/sessions/" + session.ID

	resp, err = e.client.Patch(ctx, path, nil, rest.SessionRequest{
		ManualDiscount: lo.ToPtr(10),
		PersuasionRoll: lo.ToPtr(18),
	}, &session, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(int64(12100), session.Valuation.BasePrice)
	rq.Equal("9,680 gp", session.Valuation.FinalPriceDisplay)

	e.source.Ints = []int{0, 0}
	e.source.Floats = []float64{0.5}

	resp, err = e.client.Post(ctx, path+"/reroll", nil, nil, &session, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(int64(2250), session.Valuation.BasePrice)
	rq.Equal(int64(1800), session.Valuation.FinalPrice)

	var finalized rest.FinalizeResponse

	resp, err = e.client.Post(ctx, path+"/finalize?await=true", nil, nil, &finalized, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(rest.NotificationDelivered, finalized.Notification)
	rq.Equal(session.ID, finalized.Transaction.SessionID)
	rq.Equal(int64(1800), finalized.Transaction.Valuation.FinalPrice)
	rq.Equal(1, dispatcher.calls)

	resp, err = e.client.Post(ctx, path+"/finalize", nil, nil, &finalized, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(rest.NotificationDispatched, finalized.Notification)

	resp, err = e.client.Delete(ctx, path, nil, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusNoContent, resp.StatusCode)

	var apiErr rest.Error

	resp, err = e.client.Get(ctx, path, nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(errcodes.SessionNotFound.String(), apiErr.Code)
}

func TestSessionErrors(t *testing.T) {
	rq := require.New(t)
	e := setup(t, nil)
	ctx := context.Background()

	var apiErr rest.Error

	resp, err := e.client.Get(ctx, "/v1/sessions/not-an-id", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(errcodes.InvalidSessionID.String(), apiErr.Code)

	resp, err = e.client.Get(ctx, "/v1/sessions/"+value.NewSessionID().String(), nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)

	var session rest.Session

	resp, err = e.client.Post(ctx, "/v1/sessions", nil, rest.SessionRequest{}, &session, nil)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.False(session.Rolled)
	rq.Nil(session.RolledAt)
	rq.Equal("-", session.Valuation.FinalPriceDisplay)

	path := "/v1/sessions/" + session.ID

	resp, err = e.client.Post(ctx, path+"/finalize", nil, nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(errcodes.SessionNotRolled.String(), apiErr.Code)

	resp, err = e.client.Post(ctx, path+"/reroll", nil, nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(errcodes.RarityNotSelected.String(), apiErr.Code)

	resp, err = e.client.Patch(ctx, path, nil, rest.SessionRequest{ManualDiscount: lo.ToPtr(101)}, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)

	resp, err = e.client.Patch(ctx, path, nil, rest.SessionRequest{Rarity: lo.ToPtr("mythic")}, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
	rq.Equal(errcodes.InvalidRarity.String(), apiErr.Code)

	resp, err = e.client.Post(ctx, path+"/finalize?await=maybe", nil, nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
}

func TestSessionNameGate(t *testing.T) {
	rq := require.New(t)
	e := setup(t, func(svc *service.AppraisalService, srv server.Server) server.Server {
		svc.WithNameGate(true)
		return srv
	})
	ctx := context.Background()

	var session rest.Session

	resp, err := e.client.Post(ctx, "/v1/sessions", nil, rest.SessionRequest{
		Rarity:        lo.ToPtr("common"),
		CharacterName: lo.ToPtr("  "),
	}, &session, nil)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.False(session.Rolled)
	rq.Equal([]string{service.WarningNamesRequired}, session.Warnings)

	e.source.Ints = []int{3}

	sessionID := session.ID
	session = rest.Session{}
	resp, err = e.client.Patch(ctx, "/v1/sessions/"+sessionID, nil, rest.SessionRequest{
		Rarity:        lo.ToPtr("common"),
		CharacterName: lo.ToPtr("Vex"),
		ArtifactName:  lo.ToPtr("Lantern of Revealing"),
	}, &session, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.True(session.Rolled)
	rq.Empty(session.Warnings)
	rq.Equal(int64(50), session.Valuation.BasePrice)
}

func TestFinalizeNotificationStates(t *testing.T) {
	testCases := []struct {
		name       string
		dispatcher *resultDispatcher
		query      string
		expected   string
	}{
		{name: "Disabled", expected: rest.NotificationDisabled},
		{name: "Failed", dispatcher: &resultDispatcher{ok: false}, query: "?await=true", expected: rest.NotificationFailed},
		{name: "Not awaited", dispatcher: &resultDispatcher{ok: false}, expected: rest.NotificationDispatched},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)
			e := setup(t, func(svc *service.AppraisalService, srv server.Server) server.Server {
				if tc.dispatcher != nil {
					svc.WithDispatcher(tc.dispatcher)
				}

				return srv
			})
			ctx := context.Background()

			e.source.Ints = []int{0}

			var session rest.Session

			_, err := e.client.Post(ctx, "/v1/sessions", nil, rest.SessionRequest{Rarity: lo.ToPtr("common")}, &session, nil)
			rq.NoError(err)

			var finalized rest.FinalizeResponse

			resp, err := e.client.Post(ctx, "/v1/sessions/"+session.ID+"/finalize"+tc.query, nil, nil, &finalized, nil)
			rq.NoError(err)
			rq.Equal(http.StatusOK, resp.StatusCode)
			rq.Equal(tc.expected, finalized.Notification)
		})
	}
}

func TestGetV1Sales(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	withoutLedger := setup(t, nil)

	resp, err := withoutLedger.client.Get(ctx, "/v1/sales", nil, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)

	sales := fakeSales{sales: []entity.Transaction{
		{ID: value.NewTransactionID(), Valuation: entity.Valuation{Rarity: value.RarityRare, FinalPrice: 9075}},
		{ID: value.NewTransactionID(), Valuation: entity.Valuation{Rarity: value.RarityCommon, FinalPrice: 40}},
		{ID: value.NewTransactionID(), Valuation: entity.Valuation{Rarity: value.RarityUncommon, FinalPrice: 330}},
	}}

	e := setup(t, func(_ *service.AppraisalService, srv server.Server) server.Server {
		return srv.WithSales(server.NewSaleServer(sales))
	})

	var page rest.SalesResponse

	resp, err = e.client.Get(ctx, "/v1/sales?limit=2&offset=1", nil, &page, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(3, page.Total)
	rq.Len(page.Sales, 2)
	rq.Equal(sales.sales[1].ID.String(), page.Sales[0].ID)
	rq.Equal("40 gp", page.Sales[0].Valuation.FinalPriceDisplay)

	var apiErr rest.Error

	for _, query := range []string{"?limit=0", "?limit=500", "?limit=x", "?offset=-1"} {
		resp, err = e.client.Get(ctx, "/v1/sales"+query, nil, nil, &apiErr)
		rq.NoError(err)
		rq.Equal(http.StatusBadRequest, resp.StatusCode, query)
		rq.Equal(errcodes.InvalidPaging.String(), apiErr.Code)
	}
}
