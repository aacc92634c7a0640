package value

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//nolint:gochecknoglobals
var goldPrinter = message.NewPrinter(language.English)

// Gold is an amount in gold pieces.
type Gold int64

// String renders the amount thousands-grouped with the currency suffix,
// e.g. "12,650 gp".
func (g Gold) String() string {
	return goldPrinter.Sprintf("%d gp", int64(g))
}
