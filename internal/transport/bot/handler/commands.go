package handler

import (
	"errors"
	"html"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"mystic_market/internal/domain/entity"
	service "mystic_market/internal/domain/service/appraisal"
	"mystic_market/internal/domain/value"
	"mystic_market/internal/transport/bot/view"
)

const (
	callbackReroll   = "session:reroll"
	callbackFinalize = "session:finalize"
)

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage, nil)
}

func (h *Handler) OnQuote(ctx *th.Context, msg telego.Message) error {
	args, err := parseQuote(commandArgs(msg.Text))
	if err != nil {
		return h.sendArgError(ctx, msg.Chat.ID, err)
	}

	valuation, err := h.svc.Quote(ctx, args.rarity, args.manual, args.roll)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.Error(err), nil)
	}

	return h.sendHTML(ctx, msg.Chat.ID, view.Valuation(valuation, true), nil)
}

// OnRoll selects a rarity. Naming the rarity already rolled rolls it again.
func (h *Handler) OnRoll(ctx *th.Context, msg telego.Message) error {
	rarity, err := parseRarity(commandArgs(msg.Text))
	if err != nil {
		return h.sendArgError(ctx, msg.Chat.ID, err)
	}

	if id, ok := h.session(msg.Chat.ID); ok {
		current, err := h.svc.Get(ctx, id)
		if err == nil && current.Session.Rolled && current.Session.Rarity == rarity {
			outcome, err := h.reroll(ctx, msg.Chat.ID)

			return h.reply(ctx, msg.Chat.ID, outcome, err)
		}
	}

	return h.patch(ctx, msg.Chat.ID, entity.SessionPatch{Rarity: &rarity})
}

func (h *Handler) OnReroll(ctx *th.Context, msg telego.Message) error {
	outcome, err := h.reroll(ctx, msg.Chat.ID)

	return h.reply(ctx, msg.Chat.ID, outcome, err)
}

func (h *Handler) OnDiscount(ctx *th.Context, msg telego.Message) error {
	manual, err := parseSingleNumber(commandArgs(msg.Text), "percent")
	if err != nil {
		return h.sendArgError(ctx, msg.Chat.ID, err)
	}

	return h.patch(ctx, msg.Chat.ID, entity.SessionPatch{ManualDiscount: &manual})
}

func (h *Handler) OnPersuade(ctx *th.Context, msg telego.Message) error {
	roll, err := parseSingleNumber(commandArgs(msg.Text), "roll")
	if err != nil {
		return h.sendArgError(ctx, msg.Chat.ID, err)
	}

	return h.patch(ctx, msg.Chat.ID, entity.SessionPatch{PersuasionRoll: &roll})
}

func (h *Handler) OnNames(ctx *th.Context, msg telego.Message) error {
	character, artifact, err := parseNames(commandArgs(msg.Text))
	if err != nil {
		return h.sendArgError(ctx, msg.Chat.ID, err)
	}

	return h.patch(ctx, msg.Chat.ID, entity.SessionPatch{CharacterName: &character, ArtifactName: &artifact})
}

func (h *Handler) OnShow(ctx *th.Context, msg telego.Message) error {
	id, ok := h.session(msg.Chat.ID)
	if !ok {
		return h.sendHTML(ctx, msg.Chat.ID, view.NoSession, nil)
	}

	outcome, err := h.svc.Get(ctx, id)

	return h.reply(ctx, msg.Chat.ID, outcome, h.dropMissing(msg.Chat.ID, id, err))
}

func (h *Handler) OnFinalize(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, h.finalize(ctx, msg.Chat.ID), nil)
}

func (h *Handler) OnEnd(ctx *th.Context, msg telego.Message) error {
	id, ok := h.session(msg.Chat.ID)
	if !ok {
		return h.sendHTML(ctx, msg.Chat.ID, view.NoSession, nil)
	}

	h.forget(msg.Chat.ID, id)

	if err := h.svc.End(ctx, id); err != nil && !service.IsNotFound(err) {
		return h.sendHTML(ctx, msg.Chat.ID, view.Error(err), nil)
	}

	return h.sendHTML(ctx, msg.Chat.ID, view.SessionEnded, nil)
}

func (h *Handler) patch(ctx *th.Context, chatID int64, patch entity.SessionPatch) error {
	outcome, err := h.update(ctx, chatID, patch)

	return h.reply(ctx, chatID, outcome, err)
}

func (h *Handler) reroll(ctx *th.Context, chatID int64) (service.Outcome, error) {
	id, ok := h.session(chatID)
	if !ok {
		return service.Outcome{}, errNoSession
	}

	outcome, err := h.svc.Reroll(ctx, id)

	return outcome, h.dropMissing(chatID, id, err)
}

func (h *Handler) finalize(ctx *th.Context, chatID int64) string {
	id, ok := h.session(chatID)
	if !ok {
		return view.NoSession
	}

	receipt, err := h.svc.Finalize(ctx, id)
	if err != nil {
		if errors.Is(h.dropMissing(chatID, id, err), errNoSession) {
			return view.NoSession
		}

		return view.Error(err)
	}

	return view.Receipt(receipt)
}

// dropMissing forgets the chat's session once the store no longer has it.
func (h *Handler) dropMissing(chatID int64, id value.SessionID, err error) error {
	if service.IsNotFound(err) {
		h.forget(chatID, id)

		return errNoSession
	}

	return err
}

func (h *Handler) reply(ctx *th.Context, chatID int64, outcome service.Outcome, err error) error {
	switch {
	case errors.Is(err, errNoSession):
		return h.sendHTML(ctx, chatID, view.NoSession, nil)
	case err != nil:
		return h.sendHTML(ctx, chatID, view.Error(err), nil)
	}

	var keyboard *telego.InlineKeyboardMarkup
	if outcome.Session.Rolled {
		keyboard = sessionKeyboard()
	}

	return h.sendHTML(ctx, chatID, view.Outcome(outcome), keyboard)
}

func (h *Handler) sendArgError(ctx *th.Context, chatID int64, err error) error {
	return h.sendHTML(ctx, chatID, "❌ "+html.EscapeString(err.Error()), nil)
}

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string, keyboard *telego.InlineKeyboardMarkup) error {
	params := &telego.SendMessageParams{
		ChatID:    tu.ID(chatID),
		Text:      text,
		ParseMode: telego.ModeHTML,
	}

	if keyboard != nil {
		params.ReplyMarkup = keyboard
	}

	_, err := ctx.Bot().SendMessage(ctx, params)

	return err //nolint:wrapcheck
}

func sessionKeyboard() *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton("🎲 Reroll").WithCallbackData(callbackReroll),
			tu.InlineKeyboardButton("✅ Finalize").WithCallbackData(callbackFinalize),
		),
	)
}
