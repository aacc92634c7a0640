package handler

import (
	"errors"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"mystic_market/internal/transport/bot/view"
	"mystic_market/pkg/logx"
)

func (h *Handler) OnRerollCallback(ctx *th.Context, query telego.CallbackQuery) error {
	if query.Message == nil {
		return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID)) //nolint:wrapcheck
	}

	chatID := query.Message.GetChat().ID

	outcome, err := h.reroll(ctx, chatID)
	if err != nil {
		_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID).
			WithText(errorText(err)).WithShowAlert())

		return nil
	}

	_, err = ctx.Bot().EditMessageText(ctx, &telego.EditMessageTextParams{
		ChatID:      tu.ID(chatID),
		MessageID:   query.Message.GetMessageID(),
		Text:        view.Outcome(outcome),
		ParseMode:   telego.ModeHTML,
		ReplyMarkup: sessionKeyboard(),
	})
	if err != nil {
		logger(ctx).Warn("edit rerolled message", logx.Error(err))
	}

	return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID)) //nolint:wrapcheck
}

func (h *Handler) OnFinalizeCallback(ctx *th.Context, query telego.CallbackQuery) error {
	if query.Message == nil {
		return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID)) //nolint:wrapcheck
	}

	chatID := query.Message.GetChat().ID

	if err := h.sendHTML(ctx, chatID, h.finalize(ctx, chatID), nil); err != nil {
		return err
	}

	return ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID)) //nolint:wrapcheck
}

func errorText(err error) string {
	if errors.Is(err, errNoSession) {
		return "No active session"
	}

	return "Could not reroll: " + err.Error()
}
