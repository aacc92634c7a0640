package notifier

import (
	"context"
	"fmt"
	"html"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"mystic_market/internal/domain/entity"
)

// TelegramBot posts transaction summaries to one chat.
type TelegramBot struct {
	bot    *telego.Bot
	chatID int64
}

func NewTelegramBot(token string, chatID int64, opts ...telego.BotOption) (*TelegramBot, error) {
	bot, err := telego.NewBot(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("telego.NewBot: %w", err)
	}

	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}, nil
}

func (b *TelegramBot) Name() string {
	return "telegram"
}

func (b *TelegramBot) Send(ctx context.Context, tx entity.Transaction) error {
	msg := tu.Message(
		tu.ID(b.chatID),
		telegramText(tx),
	).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendMessage(ctx, msg); err != nil {
		return fmt.Errorf("bot.SendMessage: %w", err)
	}

	return nil
}

func telegramText(tx entity.Transaction) string {
	v := tx.Valuation

	return fmt.Sprintf(
		"<b>%s</b>\n%s\n\n"+
			"<b>Rarity:</b> %s\n"+
			"<b>Base price:</b> %s\n"+
			"<b>Discount:</b> %s\n"+
			"<b>Final price:</b> %s\n\n"+
			"<i>%s</i>",
		title(tx),
		html.EscapeString(description(tx)),
		v.Rarity.DisplayName(),
		v.BasePrice,
		discountLine(v),
		v.FinalPrice,
		tx.ID,
	)
}
