package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"git.appkode.ru/pub/go/failure"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"

	"mystic_market/internal/domain"
	"mystic_market/internal/domain/entity"
	service "mystic_market/internal/domain/service/appraisal"
	"mystic_market/internal/domain/service/pricing"
	"mystic_market/internal/domain/value"
	"mystic_market/internal/infrastructure/persistence"
	"mystic_market/pkg/errcodes"
	"mystic_market/pkg/tests"
)

type recorder struct {
	mu     sync.Mutex
	events []service.Event
}

func (r *recorder) effect(_ context.Context, event service.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = append(r.events, event)
}

func (r *recorder) kinds() []service.EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()

	return lo.Map(r.events, func(e service.Event, _ int) service.EventKind { return e.Kind })
}

type countingDispatcher struct {
	mu  sync.Mutex
	txs []entity.Transaction
}

func (d *countingDispatcher) Dispatch(_ context.Context, tx entity.Transaction) <-chan bool {
	d.mu.Lock()
	d.txs = append(d.txs, tx)
	d.mu.Unlock()

	result := make(chan bool, 1)
	result <- true

	return result
}

func newService(source *tests.ScriptedSource) (*service.AppraisalService, *recorder) {
	bus := service.NewBus()
	rec := &recorder{}
	bus.Subscribe(rec.effect,
		service.EventRolled,
		service.EventRecomputed,
		service.EventRollRejected,
		service.EventFinalized,
		service.EventEnded,
	)

	store := persistence.NewMemorySessionStore(time.Hour, time.Hour)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	svc := service.NewAppraisalService(store, bus, source, pricing.DefaultPolicy()).
		WithClock(func() time.Time { return fixed })

	return svc, rec
}

func requireCode(t *testing.T, err error, code failure.ErrorCode) {
	t.Helper()

	got, ok := domain.GetCode(err)
	require.True(t, ok, "expected AppError, got %v", err)
	require.Equal(t, code, got)
}

func TestCreateRollsImmediately(t *testing.T) {
	rq := require.New(t)

	source := &tests.ScriptedSource{Ints: []int{4, 5}, Floats: []float64{0}}
	svc, rec := newService(source)

	out, err := svc.Create(context.Background(), entity.SessionPatch{Rarity: lo.ToPtr(value.RarityRare)})
	rq.NoError(err)
	rq.True(out.Session.Rolled)
	rq.Equal(value.Gold(12100), out.Session.BasePrice)
	rq.Equal(entity.DefaultPersuasionRoll, out.Session.PersuasionRoll)
	rq.Equal(value.Gold(12100), out.Valuation.FinalPrice)
	rq.Empty(out.Warnings)
	rq.True(source.Drained())
	rq.Equal([]service.EventKind{service.EventRolled}, rec.kinds())
}

func TestCreateWithoutRarity(t *testing.T) {
	rq := require.New(t)

	svc, rec := newService(&tests.ScriptedSource{})

	out, err := svc.Create(context.Background(), entity.SessionPatch{})
	rq.NoError(err)
	rq.False(out.Session.Rolled)
	rq.Equal(value.Gold(0), out.Valuation.FinalPrice)
	rq.Empty(rec.kinds())

	got, err := svc.Get(context.Background(), out.Session.ID)
	rq.NoError(err)
	rq.Equal(out.Session, got.Session)
}

func TestUpdateDiscountsKeepBasePrice(t *testing.T) {
	rq := require.New(t)

	source := &tests.ScriptedSource{Ints: []int{4, 5}, Floats: []float64{0}}
	svc, rec := newService(source)
	ctx := context.Background()

	created, err := svc.Create(ctx, entity.SessionPatch{Rarity: lo.ToPtr(value.RarityRare)})
	rq.NoError(err)

	// Any further draw would panic the scripted source.
	out, err := svc.Update(ctx, created.Session.ID, entity.SessionPatch{
		ManualDiscount: lo.ToPtr(10),
		PersuasionRoll: lo.ToPtr(18),
	})
	rq.NoError(err)
	rq.Equal(value.Gold(12100), out.Session.BasePrice)
	rq.Equal(10, out.Valuation.PersuasionDiscount)
	rq.Equal(20, out.Valuation.TotalDiscount)
	rq.Equal(value.Gold(9680), out.Valuation.FinalPrice)

	// Same rarity again is not a roll event.
	out, err = svc.Update(ctx, created.Session.ID, entity.SessionPatch{Rarity: lo.ToPtr(value.RarityRare)})
	rq.NoError(err)
	rq.Equal(value.Gold(12100), out.Session.BasePrice)

	rq.Equal([]service.EventKind{service.EventRolled, service.EventRecomputed}, rec.kinds())
}

func TestUpdateRarityRerolls(t *testing.T) {
	rq := require.New(t)

	source := &tests.ScriptedSource{Ints: []int{0}}
	svc, rec := newService(source)
	ctx := context.Background()

	created, err := svc.Create(ctx, entity.SessionPatch{
		Rarity:         lo.ToPtr(value.RarityCommon),
		ManualDiscount: lo.ToPtr(50),
	})
	rq.NoError(err)
	rq.Equal(value.Gold(20), created.Session.BasePrice)
	rq.Equal(value.Gold(10), created.Valuation.FinalPrice)

	source.Ints = []int{2, 1}

	out, err := svc.Update(ctx, created.Session.ID, entity.SessionPatch{Rarity: lo.ToPtr(value.RarityUncommon)})
	rq.NoError(err)
	rq.Equal(value.RarityUncommon, out.Session.Rarity)
	rq.Equal(value.Gold(330), out.Session.BasePrice)
	rq.Equal(50, out.Session.ManualDiscount)
	rq.Equal(value.Gold(165), out.Valuation.FinalPrice)
	rq.True(source.Drained())
	rq.Equal([]service.EventKind{service.EventRolled, service.EventRolled}, rec.kinds())
}

func TestDiscountCap(t *testing.T) {
	rq := require.New(t)

	svc, _ := newService(&tests.ScriptedSource{Ints: []int{5}})

	out, err := svc.Create(context.Background(), entity.SessionPatch{
		Rarity:         lo.ToPtr(value.RarityCommon),
		ManualDiscount: lo.ToPtr(90),
		PersuasionRoll: lo.ToPtr(30),
	})
	rq.NoError(err)
	rq.True(out.Valuation.Capped)
	rq.Equal(100, out.Valuation.TotalDiscount)
	rq.Equal(value.Gold(0), out.Valuation.FinalPrice)
}

func TestValidation(t *testing.T) {
	testCases := []struct {
		name  string
		patch entity.SessionPatch
		code  failure.ErrorCode
	}{
		{
			name:  "Unknown rarity",
			patch: entity.SessionPatch{Rarity: lo.ToPtr(value.Rarity("legendary"))},
			code:  errcodes.InvalidRarity,
		},
		{
			name:  "Negative manual discount",
			patch: entity.SessionPatch{ManualDiscount: lo.ToPtr(-1)},
			code:  errcodes.InvalidManualDiscount,
		},
		{
			name:  "Manual discount above max",
			patch: entity.SessionPatch{ManualDiscount: lo.ToPtr(101)},
			code:  errcodes.InvalidManualDiscount,
		},
		{
			name:  "Roll below range",
			patch: entity.SessionPatch{PersuasionRoll: lo.ToPtr(0)},
			code:  errcodes.InvalidPersuasionRoll,
		},
		{
			name:  "Roll above range",
			patch: entity.SessionPatch{PersuasionRoll: lo.ToPtr(41)},
			code:  errcodes.InvalidPersuasionRoll,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, rec := newService(&tests.ScriptedSource{})

			_, err := svc.Create(context.Background(), tc.patch)
			require.Error(t, err)
			requireCode(t, err, tc.code)
			require.Empty(t, rec.kinds())
		})
	}
}

func TestNameGate(t *testing.T) {
	rq := require.New(t)

	source := &tests.ScriptedSource{}
	svc, rec := newService(source)
	svc.WithNameGate(true)

	ctx := context.Background()

	out, err := svc.Create(ctx, entity.SessionPatch{
		Rarity:        lo.ToPtr(value.RarityCommon),
		CharacterName: lo.ToPtr("Vex"),
	})
	rq.NoError(err)
	rq.False(out.Session.Rolled)
	rq.Equal(value.RarityCommon, out.Session.Rarity)
	rq.Equal([]string{service.WarningNamesRequired}, out.Warnings)

	id := out.Session.ID

	out, err = svc.Update(ctx, id, entity.SessionPatch{ArtifactName: lo.ToPtr("   ")})
	rq.NoError(err)
	rq.False(out.Session.Rolled)

	_, err = svc.Finalize(ctx, id)
	requireCode(t, err, errcodes.SessionNotRolled)

	rejected, err := svc.Reroll(ctx, id)
	rq.NoError(err)
	rq.False(rejected.Session.Rolled)
	rq.NotEmpty(rejected.Warnings)

	out, err = svc.Update(ctx, id, entity.SessionPatch{ArtifactName: lo.ToPtr("Bag of Holding")})
	rq.NoError(err)
	rq.False(out.Session.Rolled)

	source.Ints = []int{1}

	out, err = svc.Reroll(ctx, id)
	rq.NoError(err)
	rq.True(out.Session.Rolled)
	rq.Equal(value.Gold(30), out.Session.BasePrice)

	rq.Equal([]service.EventKind{
		service.EventRollRejected,
		service.EventRecomputed,
		service.EventRecomputed,
		service.EventRollRejected,
		service.EventRecomputed,
		service.EventRolled,
	}, rec.kinds())
}

func TestNameGateKeepsRolledRarity(t *testing.T) {
	rq := require.New(t)

	source := &tests.ScriptedSource{Ints: []int{1}}
	svc, _ := newService(source)

	ctx := context.Background()

	out, err := svc.Create(ctx, entity.SessionPatch{
		Rarity:        lo.ToPtr(value.RarityCommon),
		CharacterName: lo.ToPtr("Vex"),
		ArtifactName:  lo.ToPtr("Lantern"),
	})
	rq.NoError(err)
	rq.True(out.Session.Rolled)

	svc.WithNameGate(true)

	out, err = svc.Update(ctx, out.Session.ID, entity.SessionPatch{
		Rarity:        lo.ToPtr(value.RarityVeryRare),
		ArtifactName:  lo.ToPtr(""),
		PersuasionRoll: lo.ToPtr(15),
	})
	rq.NoError(err)
	rq.NotEmpty(out.Warnings)
	rq.Equal(value.RarityCommon, out.Session.Rarity)
	rq.Equal(value.Gold(30), out.Session.BasePrice)
	rq.Equal(15, out.Session.PersuasionRoll)
	rq.Equal(5, out.Valuation.PersuasionDiscount)
}

func TestRerollWithoutRarity(t *testing.T) {
	rq := require.New(t)

	svc, _ := newService(&tests.ScriptedSource{})

	out, err := svc.Create(context.Background(), entity.SessionPatch{})
	rq.NoError(err)

	_, err = svc.Reroll(context.Background(), out.Session.ID)
	requireCode(t, err, errcodes.RarityNotSelected)
}

func TestFinalize(t *testing.T) {
	rq := require.New(t)

	source := &tests.ScriptedSource{Ints: []int{3}, Floats: []float64{0.5}}
	svc, rec := newService(source)

	dispatcher := &countingDispatcher{}
	svc.WithDispatcher(dispatcher)

	ctx := context.Background()

	out, err := svc.Create(ctx, entity.SessionPatch{
		Rarity:         lo.ToPtr(value.RarityVeryRare),
		PersuasionRoll: lo.ToPtr(27),
		CharacterName:  lo.ToPtr("Vex"),
		ArtifactName:   lo.ToPtr("Staff of Power"),
	})
	rq.NoError(err)
	rq.Equal(value.Gold(56250), out.Session.BasePrice)

	receipt, err := svc.Finalize(ctx, out.Session.ID)
	rq.NoError(err)
	rq.NotEmpty(receipt.Transaction.ID)
	rq.Equal(out.Session.ID, receipt.Transaction.SessionID)
	rq.Equal("Staff of Power", receipt.Transaction.ArtifactName)
	rq.Equal(25, receipt.Transaction.Valuation.TotalDiscount)
	rq.Equal(value.Gold(42187), receipt.Transaction.Valuation.FinalPrice)
	rq.NotNil(receipt.Notification)
	rq.True(<-receipt.Notification)

	rq.Len(dispatcher.txs, 1)
	rq.Equal(receipt.Transaction, dispatcher.txs[0])

	// The session survives finalization.
	got, err := svc.Get(ctx, out.Session.ID)
	rq.NoError(err)
	rq.Equal(out.Session, got.Session)

	rq.Equal([]service.EventKind{service.EventRolled, service.EventFinalized}, rec.kinds())
	rq.NotNil(rec.events[1].Transaction)
}

func TestFinalizeWithoutDispatcher(t *testing.T) {
	rq := require.New(t)

	svc, _ := newService(&tests.ScriptedSource{Ints: []int{0}})
	rq.False(svc.NotificationsEnabled())

	out, err := svc.Create(context.Background(), entity.SessionPatch{Rarity: lo.ToPtr(value.RarityCommon)})
	rq.NoError(err)

	receipt, err := svc.Finalize(context.Background(), out.Session.ID)
	rq.NoError(err)
	rq.Nil(receipt.Notification)
}

func TestEnd(t *testing.T) {
	rq := require.New(t)

	svc, rec := newService(&tests.ScriptedSource{Ints: []int{0}})
	ctx := context.Background()

	out, err := svc.Create(ctx, entity.SessionPatch{Rarity: lo.ToPtr(value.RarityCommon)})
	rq.NoError(err)

	rq.NoError(svc.End(ctx, out.Session.ID))

	_, err = svc.Get(ctx, out.Session.ID)
	rq.True(service.IsNotFound(err))

	err = svc.End(ctx, out.Session.ID)
	rq.True(service.IsNotFound(err))

	rq.Equal([]service.EventKind{service.EventRolled, service.EventEnded}, rec.kinds())
}

func TestQuote(t *testing.T) {
	rq := require.New(t)

	svc, rec := newService(&tests.ScriptedSource{Ints: []int{4, 5}, Floats: []float64{0}})

	valuation, err := svc.Quote(context.Background(), value.RarityRare, 10, 21)
	rq.NoError(err)
	rq.Equal(value.Gold(12100), valuation.BasePrice)
	rq.Equal(25, valuation.TotalDiscount)
	rq.Equal(value.Gold(9075), valuation.FinalPrice)
	rq.Empty(rec.kinds())

	_, err = svc.Quote(context.Background(), value.RarityRare, 0, 99)
	requireCode(t, err, errcodes.InvalidPersuasionRoll)
}

func TestConcurrentUpdatesOnOneSession(t *testing.T) {
	rq := require.New(t)

	bus := service.NewBus()
	store := persistence.NewMemorySessionStore(time.Hour, time.Hour)
	svc := service.NewAppraisalService(store, bus, pricing.NewRandomSource(7), pricing.DefaultPolicy())

	ctx := context.Background()

	out, err := svc.Create(ctx, entity.SessionPatch{Rarity: lo.ToPtr(value.RarityRare)})
	rq.NoError(err)

	base := out.Session.BasePrice

	var wg sync.WaitGroup

	for i := range 20 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, err := svc.Update(ctx, out.Session.ID, entity.SessionPatch{ManualDiscount: lo.ToPtr(i)})
			if err != nil {
				t.Error(err)
			}
		}()
	}

	wg.Wait()

	got, err := svc.Get(ctx, out.Session.ID)
	rq.NoError(err)
	rq.Equal(base, got.Session.BasePrice)
	rq.Equal(pricing.DefaultPolicy().Evaluate(value.RarityRare, base, got.Session.ManualDiscount, got.Session.PersuasionRoll),
		got.Valuation)
}
