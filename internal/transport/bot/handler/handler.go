package handler

import (
	"context"
	"sync"

	"mystic_market/internal/domain/entity"
	service "mystic_market/internal/domain/service/appraisal"
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
}

const chatLockStripes = 64

type Handler struct {
	svc appraisalService

	mu       sync.Mutex
	sessions map[int64]value.SessionID

	// Serializes session creation per chat.
	chatLocks [chatLockStripes]sync.Mutex
}

func New(svc appraisalService) *Handler {
	return &Handler{
		svc:      svc,
		sessions: make(map[int64]value.SessionID),
	}
}

func (h *Handler) session(chatID int64) (value.SessionID, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id, ok := h.sessions[chatID]

	return id, ok
}

func (h *Handler) bind(chatID int64, id value.SessionID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.sessions[chatID] = id
}

// forget unbinds id from the chat. A newer binding is left alone.
func (h *Handler) forget(chatID int64, id value.SessionID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.sessions[chatID] == id {
		delete(h.sessions, chatID)
	}
}

func (h *Handler) chatLock(chatID int64) *sync.Mutex {
	return &h.chatLocks[uint64(chatID)%chatLockStripes] //nolint:gosec
}

// update patches the chat's session, starting one when there is none or the
// old one expired.
func (h *Handler) update(ctx context.Context, chatID int64, patch entity.SessionPatch) (service.Outcome, error) {
	lock := h.chatLock(chatID)
	lock.Lock()
	defer lock.Unlock()

	if id, ok := h.session(chatID); ok {
		outcome, err := h.svc.Update(ctx, id, patch)
		if !service.IsNotFound(err) {
			return outcome, err //nolint:wrapcheck
		}

		h.forget(chatID, id)
	}

	outcome, err := h.svc.Create(ctx, patch)
	if err != nil {
		return service.Outcome{}, err //nolint:wrapcheck
	}

	h.bind(chatID, outcome.Session.ID)

	return outcome, nil
}
