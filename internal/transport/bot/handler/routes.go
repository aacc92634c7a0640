package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"mystic_market/internal/transport/bot/middleware"
)

// RegisterRoutes wires the commands. A zero chatID accepts every chat.
func (h *Handler) RegisterRoutes(bh *th.BotHandler, chatID int64) {
	messages := bh.Group(th.AnyMessage())
	callbacks := bh.Group(th.AnyCallbackQuery())

	if chatID != 0 {
		messages.Use(middleware.AllowedChat(chatID))
		callbacks.Use(middleware.AllowedChat(chatID))
	}

	messages.HandleMessage(h.OnStart, th.Or(th.CommandEqual("start"), th.CommandEqual("help")))
	messages.HandleMessage(h.OnQuote, th.CommandEqual("quote"))
	messages.HandleMessage(h.OnRoll, th.CommandEqual("roll"))
	messages.HandleMessage(h.OnReroll, th.CommandEqual("reroll"))
	messages.HandleMessage(h.OnDiscount, th.CommandEqual("discount"))
	messages.HandleMessage(h.OnPersuade, th.CommandEqual("persuade"))
	messages.HandleMessage(h.OnNames, th.CommandEqual("names"))
	messages.HandleMessage(h.OnShow, th.CommandEqual("show"))
	messages.HandleMessage(h.OnFinalize, th.CommandEqual("finalize"))
	messages.HandleMessage(h.OnEnd, th.CommandEqual("end"))

	callbacks.HandleCallbackQuery(h.OnRerollCallback, th.CallbackDataEqual(callbackReroll))
	callbacks.HandleCallbackQuery(h.OnFinalizeCallback, th.CallbackDataEqual(callbackFinalize))
}
