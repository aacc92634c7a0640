package middleware

import (
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
)

// AllowedChat drops updates from every chat except chatID.
func AllowedChat(chatID int64) th.Handler {
	return func(ctx *th.Context, update telego.Update) error {
		if UpdateChatID(update) == chatID {
			return ctx.Next(update)
		}

		return nil
	}
}

func UpdateChatID(update telego.Update) int64 {
	switch {
	case update.Message != nil:
		return update.Message.Chat.ID
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		return update.CallbackQuery.Message.GetChat().ID
	default:
		return 0
	}
}
