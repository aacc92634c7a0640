package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"mystic_market/internal/domain"
	"mystic_market/internal/domain/entity"
	"mystic_market/internal/domain/service/pricing"
	"mystic_market/internal/domain/value"
	"mystic_market/pkg/errcodes"
	"mystic_market/pkg/logx"
)

const WarningNamesRequired = "character and artifact names are required before rolling"

type SessionStore interface {
	Get(ctx context.Context, id value.SessionID) (entity.Session, error)
	Save(ctx context.Context, session entity.Session) error
	Delete(ctx context.Context, id value.SessionID) error
}

// Dispatcher delivers a transaction summary in the background. The returned
// channel yields exactly one result and is never nil.
type Dispatcher interface {
	Dispatch(ctx context.Context, tx entity.Transaction) <-chan bool
}

// Outcome is the state of a session after an operation.
type Outcome struct {
	Session   entity.Session
	Valuation entity.Valuation
	Warnings  []string
}

type Receipt struct {
	Transaction entity.Transaction
	// Notification is nil when notifications are disabled.
	Notification <-chan bool
}

type AppraisalService struct {
	store        SessionStore
	bus          *Bus
	rng          pricing.RandomSource
	policy       pricing.Policy
	requireNames bool
	dispatcher   Dispatcher
	now          func() time.Time
	locks        sessionLocks
}

func NewAppraisalService(
	store SessionStore,
	bus *Bus,
	rng pricing.RandomSource,
	policy pricing.Policy,
) *AppraisalService {
	return &AppraisalService{
		store:  store,
		bus:    bus,
		rng:    rng,
		policy: policy,
		now:    time.Now,
	}
}

// WithNameGate makes every roll wait for non-blank character and artifact
// names.
func (s *AppraisalService) WithNameGate(required bool) *AppraisalService {
	s.requireNames = required
	return s
}

func (s *AppraisalService) WithDispatcher(dispatcher Dispatcher) *AppraisalService {
	s.dispatcher = dispatcher
	return s
}

func (s *AppraisalService) WithClock(now func() time.Time) *AppraisalService {
	s.now = now
	return s
}

func (s *AppraisalService) Policy() pricing.Policy {
	return s.policy
}

func (s *AppraisalService) NamesRequired() bool {
	return s.requireNames
}

func (s *AppraisalService) NotificationsEnabled() bool {
	return s.dispatcher != nil
}

// Create starts a session. With a rarity in the patch the first roll happens
// right away, subject to the name gate.
func (s *AppraisalService) Create(ctx context.Context, patch entity.SessionPatch) (Outcome, error) {
	session := entity.Session{
		ID:             value.NewSessionID(),
		PersuasionRoll: entity.DefaultPersuasionRoll,
		UpdatedAt:      s.now(),
	}

	unlock := s.locks.lock(session.ID)
	defer unlock()

	return s.apply(ctx, session, patch)
}

func (s *AppraisalService) Get(ctx context.Context, id value.SessionID) (Outcome, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return Outcome{}, fmt.Errorf("store.Get: %w", err)
	}

	return Outcome{Session: session, Valuation: s.evaluate(session)}, nil
}

// Update changes inputs. Discounts and names only recompute the final price;
// a different rarity rolls a new base price.
func (s *AppraisalService) Update(ctx context.Context, id value.SessionID, patch entity.SessionPatch) (Outcome, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return Outcome{}, fmt.Errorf("store.Get: %w", err)
	}

	return s.apply(ctx, session, patch)
}

// Reroll draws a new base price for the selected rarity.
func (s *AppraisalService) Reroll(ctx context.Context, id value.SessionID) (Outcome, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return Outcome{}, fmt.Errorf("store.Get: %w", err)
	}

	if session.Rarity == "" {
		return Outcome{}, domain.NewError(errcodes.RarityNotSelected, "select a rarity before rolling")
	}

	if warnings := s.gate(session); len(warnings) > 0 {
		return s.reject(ctx, session, warnings), nil
	}

	s.roll(&session)

	if err := s.store.Save(ctx, session); err != nil {
		return Outcome{}, fmt.Errorf("store.Save: %w", err)
	}

	outcome := Outcome{Session: session, Valuation: s.evaluate(session)}
	s.publish(ctx, EventRolled, outcome, nil)

	return outcome, nil
}

// Finalize turns the current valuation into a transaction and hands it to the
// dispatcher. Delivery never affects the result.
func (s *AppraisalService) Finalize(ctx context.Context, id value.SessionID) (Receipt, error) {
	unlock := s.locks.lock(id)
	defer unlock()

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return Receipt{}, fmt.Errorf("store.Get: %w", err)
	}

	if !session.Rolled {
		return Receipt{}, domain.NewError(errcodes.SessionNotRolled, "nothing to finalize: no price rolled yet")
	}

	if s.requireNames && !session.HasNames() {
		return Receipt{}, domain.NewError(errcodes.NamesRequired, WarningNamesRequired)
	}

	valuation := s.evaluate(session)
	tx := NewTransaction(session, valuation, s.now())

	s.publish(ctx, EventFinalized, Outcome{Session: session, Valuation: valuation}, &tx)

	receipt := Receipt{Transaction: tx}
	if s.dispatcher != nil {
		receipt.Notification = s.dispatcher.Dispatch(ctx, tx)
	}

	logger(ctx).Info("session finalized",
		slog.String(logx.FieldSessionID, session.ID.String()),
		slog.String(logx.FieldTransactionID, tx.ID.String()),
		slog.Int64(logx.FieldFinalPrice, int64(valuation.FinalPrice)),
	)

	return receipt, nil
}

// End drops the session and its cached base price.
func (s *AppraisalService) End(ctx context.Context, id value.SessionID) error {
	unlock := s.locks.lock(id)
	defer unlock()

	session, err := s.store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("store.Get: %w", err)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("store.Delete: %w", err)
	}

	s.publish(ctx, EventEnded, Outcome{Session: session, Valuation: s.evaluate(session)}, nil)

	return nil
}

// Quote rolls and evaluates once without a session.
func (s *AppraisalService) Quote(_ context.Context, rarity value.Rarity, manual, roll int) (entity.Valuation, error) {
	if err := s.validate(entity.SessionPatch{Rarity: &rarity, ManualDiscount: &manual, PersuasionRoll: &roll}); err != nil {
		return entity.Valuation{}, err
	}

	return s.policy.Evaluate(rarity, pricing.RollPrice(rarity, s.rng), manual, roll), nil
}

func (s *AppraisalService) apply(ctx context.Context, session entity.Session, patch entity.SessionPatch) (Outcome, error) {
	if err := s.validate(patch); err != nil {
		return Outcome{}, err
	}

	changed := false

	if patch.ManualDiscount != nil && *patch.ManualDiscount != session.ManualDiscount {
		session.ManualDiscount = *patch.ManualDiscount
		changed = true
	}

	if patch.PersuasionRoll != nil && *patch.PersuasionRoll != session.PersuasionRoll {
		session.PersuasionRoll = *patch.PersuasionRoll
		changed = true
	}

	if patch.CharacterName != nil && *patch.CharacterName != session.CharacterName {
		session.CharacterName = *patch.CharacterName
		changed = true
	}

	if patch.ArtifactName != nil && *patch.ArtifactName != session.ArtifactName {
		session.ArtifactName = *patch.ArtifactName
		changed = true
	}

	kind := EventRecomputed

	var warnings []string

	if patch.Rarity != nil && (*patch.Rarity != session.Rarity || !session.Rolled) {
		warnings = s.gate(session)

		switch {
		case len(warnings) == 0:
			session.Rarity = *patch.Rarity
			s.roll(&session)

			kind = EventRolled
			changed = true
		case !session.Rolled:
			// Nothing was priced yet, so keeping the selection cannot desync
			// rarity and base price.
			changed = changed || session.Rarity != *patch.Rarity
			session.Rarity = *patch.Rarity
		}
	}

	if changed {
		session.UpdatedAt = s.now()
	}

	if err := s.store.Save(ctx, session); err != nil {
		return Outcome{}, fmt.Errorf("store.Save: %w", err)
	}

	outcome := Outcome{Session: session, Valuation: s.evaluate(session), Warnings: warnings}

	if len(warnings) > 0 {
		s.publish(ctx, EventRollRejected, outcome, nil)
	}

	if changed {
		s.publish(ctx, kind, outcome, nil)
	}

	return outcome, nil
}

func (s *AppraisalService) validate(patch entity.SessionPatch) error {
	if patch.Rarity != nil && !patch.Rarity.Valid() {
		return domain.WrapError(value.ErrUnknownRarity, errcodes.InvalidRarity, "invalid rarity")
	}

	if patch.ManualDiscount != nil {
		if err := s.policy.ValidateManualDiscount(*patch.ManualDiscount); err != nil {
			return domain.WrapError(err, errcodes.InvalidManualDiscount, "invalid manual discount")
		}
	}

	if patch.PersuasionRoll != nil {
		if err := s.policy.ValidatePersuasionRoll(*patch.PersuasionRoll); err != nil {
			return domain.WrapError(err, errcodes.InvalidPersuasionRoll, "invalid persuasion roll")
		}
	}

	return nil
}

func (s *AppraisalService) gate(session entity.Session) []string {
	if s.requireNames && !session.HasNames() {
		return []string{WarningNamesRequired}
	}

	return nil
}

// reject reports a refused roll without touching the stored session.
func (s *AppraisalService) reject(ctx context.Context, session entity.Session, warnings []string) Outcome {
	outcome := Outcome{Session: session, Valuation: s.evaluate(session), Warnings: warnings}
	s.publish(ctx, EventRollRejected, outcome, nil)

	return outcome
}

func (s *AppraisalService) roll(session *entity.Session) {
	now := s.now()

	session.BasePrice = pricing.RollPrice(session.Rarity, s.rng)
	session.Rolled = true
	session.RolledAt = now
	session.UpdatedAt = now
}

func (s *AppraisalService) evaluate(session entity.Session) entity.Valuation {
	return s.policy.Evaluate(session.Rarity, session.BasePrice, session.ManualDiscount, session.PersuasionRoll)
}

func (s *AppraisalService) publish(ctx context.Context, kind EventKind, outcome Outcome, tx *entity.Transaction) {
	s.bus.Publish(ctx, Event{
		Kind:        kind,
		Session:     outcome.Session,
		Valuation:   outcome.Valuation,
		Transaction: tx,
		Warnings:    outcome.Warnings,
	})
}

// NewTransaction snapshots a valuation for notification and bookkeeping.
func NewTransaction(session entity.Session, valuation entity.Valuation, at time.Time) entity.Transaction {
	return entity.Transaction{
		ID:            value.NewTransactionID(),
		SessionID:     session.ID,
		CharacterName: session.CharacterName,
		ArtifactName:  session.ArtifactName,
		Valuation:     valuation,
		FinalizedAt:   at,
	}
}

// IsNotFound reports whether err means the session does not exist.
func IsNotFound(err error) bool {
	return domain.HasCode(err, errcodes.SessionNotFound)
}
