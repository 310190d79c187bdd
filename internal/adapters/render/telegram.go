package render

import (
	"html"
	"strings"
	"unicode/utf16"

	"github.com/bnema/expense-bot/internal/domain"
)

const (
	ParseModeHTML = "HTML"

	// TelegramMaxMessageLen is the Bot API text limit, counted in UTF-16
	// code units.
	TelegramMaxMessageLen = 4096

	truncatedMarker = "\n…(truncated)"
	preOpen         = "<pre>"
	preClose        = "</pre>"
)

// TelegramHTML returns the message text and parse mode for a reply. JSON
// replies go in a <pre> block; plain replies carry no parse mode so user
// supplied text is never interpreted as markup. Text longer than one message
// is cut and marked as truncated.
func TelegramHTML(reply domain.Reply) (string, string) {
	if reply.Kind != domain.ReplyJSON {
		return truncateTelegram(reply.Text, TelegramMaxMessageLen, func(r rune) string { return string(r) }), ""
	}

	budget := TelegramMaxMessageLen - textUnits(preOpen) - textUnits(preClose)
	body := truncateTelegram(reply.Text, budget, func(r rune) string { return html.EscapeString(string(r)) })
	return preOpen + body + preClose, ParseModeHTML
}

// truncateTelegram encodes text rune by rune and stops once the encoded form
// plus the marker would exceed limit. Escape sequences are never split.
func truncateTelegram(text string, limit int, encode func(rune) string) string {
	var out strings.Builder
	used := 0
	cut := -1
	markerUnits := textUnits(truncatedMarker)

	for _, r := range text {
		piece := encode(r)
		units := textUnits(piece)
		if cut < 0 && used+units > limit-markerUnits {
			cut = out.Len()
		}
		if used+units > limit {
			trimmed := out.String()[:cut]
			return trimmed + truncatedMarker
		}
		out.WriteString(piece)
		used += units
	}

	return out.String()
}

func textUnits(s string) int {
	units := 0
	for _, r := range s {
		if n := utf16.RuneLen(r); n > 0 {
			units += n
		} else {
			units++
		}
	}
	return units
}
