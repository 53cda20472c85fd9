// Package parser auto-detects and parses heterogeneous chat export
// formats into the engine's canonical message sequence.
package parser

import (
	"errors"
	"unicode/utf8"

	"github.com/chatpulse/cae/internal/cae/model"
)

// ErrBadEncoding is returned when the raw input is not valid UTF-8. It is
// the parser's only fatal error; every other anomaly becomes a diagnostic.
var ErrBadEncoding = errors.New("chat export is not valid UTF-8")

// Parse auto-detects (unless hint is non-nil) the export format of raw and
// returns the canonical message sequence. Parse is total on any valid UTF-8
// input: malformed or unrecognised lines become diagnostics, never errors.
func Parse(raw string, hint *model.Platform) (model.Platform, []model.Message, []model.Diagnostic, error) {
	if !utf8.ValidString(raw) {
		return "", nil, nil, ErrBadEncoding
	}

	nonEmpty := splitNonEmptyLines(raw)
	lines := allLines(raw)

	format := model.PlatformGeneric
	if hint != nil {
		format = *hint
	} else {
		format = detectFormat(raw, nonEmpty)
	}

	var messages []model.Message
	var diags []model.Diagnostic

	switch format {
	case model.PlatformWhatsApp:
		messages, diags = parseWhatsApp(lines)
	case model.PlatformTelegram:
		messages, diags = parseTelegram(raw, lines)
	case model.PlatformDiscord:
		messages, diags = parseDiscord(lines)
	case model.PlatformIMessage:
		messages, diags = parseIMessage(raw)
	default:
		messages, diags = parseGeneric(lines)
		format = model.PlatformGeneric
	}

	diags = append(diags, model.Diagnostic{
		Kind:    "timezone_assumption",
		Message: "naive timestamps with no explicit timezone were treated as UTC",
	})

	if messages == nil {
		messages = []model.Message{}
	}

	return format, messages, diags, nil
}
