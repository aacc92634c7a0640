package view

import (
	"errors"
	"fmt"
	"html"
	"strings"

	"mystic_market/internal/domain"
	"mystic_market/internal/domain/entity"
	service "mystic_market/internal/domain/service/appraisal"
	"mystic_market/pkg/errcodes"
)

const StartMessage = `🔮 <b>Mystic Market</b>

/quote &lt;rarity&gt; [discount] [roll] - one-off price
/roll &lt;rarity&gt; - roll a price for this chat's item
/reroll - roll the same rarity again
/discount &lt;percent&gt; - manual discount
/persuade &lt;roll&gt; - persuasion check result
/names &lt;character&gt; | &lt;artifact&gt; - who buys what
/show - current valuation
/finalize - close the sale
/end - drop the session

Rarities: common, uncommon, rare, very_rare`

const (
	NoSession     = "No active session. Start one with /roll &lt;rarity&gt;."
	SessionEnded  = "Session ended."
	internalError = "Something went wrong, try again later."
	notRolled     = "-"
)

// Valuation renders the price breakdown.
func Valuation(v entity.Valuation, rolled bool) string {
	base, final := notRolled, notRolled
	if rolled {
		base, final = v.BasePrice.String(), v.FinalPrice.String()
	}

	var sb strings.Builder

	fmt.Fprintf(&sb, "💎 <b>%s</b>\n", rarityName(v))
	fmt.Fprintf(&sb, "Base price: %s\n", base)
	fmt.Fprintf(&sb, "Discount: %d%% manual + %d%% persuasion (roll %d)", v.ManualDiscount, v.PersuasionDiscount, v.PersuasionRoll)

	if v.Capped {
		fmt.Fprintf(&sb, ", capped at %d%%", v.TotalDiscount)
	}

	fmt.Fprintf(&sb, "\n💰 <b>Final price: %s</b>", final)

	return sb.String()
}

// Outcome renders a session with its warnings.
func Outcome(outcome service.Outcome) string {
	var sb strings.Builder

	session := outcome.Session
	if session.CharacterName != "" || session.ArtifactName != "" {
		fmt.Fprintf(&sb, "🧙 %s · %s\n", orDash(session.CharacterName), orDash(session.ArtifactName))
	}

	sb.WriteString(Valuation(outcome.Valuation, session.Rolled))

	for _, w := range outcome.Warnings {
		fmt.Fprintf(&sb, "\n⚠️ %s", html.EscapeString(w))
	}

	return sb.String()
}

// Receipt renders a finalized sale.
func Receipt(receipt service.Receipt) string {
	tx := receipt.Transaction

	text := fmt.Sprintf("✅ <b>Sold</b>\n%s buys %s for <b>%s</b>\nTransaction <code>%s</code>",
		orDash(tx.CharacterName), orDash(tx.ArtifactName), tx.Valuation.FinalPrice, tx.ID)

	if receipt.Notification != nil {
		text += "\n📨 Notification dispatched"
	}

	return text
}

// Error renders a service error. Internal details never reach the chat.
func Error(err error) string {
	var appErr *domain.AppError
	if !errors.As(err, &appErr) || appErr.Code == errcodes.InternalServerError {
		return "❌ " + internalError
	}

	return "❌ " + html.EscapeString(appErr.Message)
}

func rarityName(v entity.Valuation) string {
	if v.Rarity == "" {
		return "No rarity"
	}

	return v.Rarity.DisplayName()
}

func orDash(s string) string {
	if s == "" {
		return notRolled
	}

	return html.EscapeString(s)
}
