package parser

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"

	"github.com/chatpulse/cae/internal/cae/model"
)

// telegramLineRegex matches the exported-text Telegram line shape, per
// spec §4.1: "DD.MM.YYYY HH:MM:SS - Name: text".
var telegramLineRegex = regexp.MustCompile(
	`^(\d{2})\.(\d{2})\.(\d{4}) (\d{2}):(\d{2}):(\d{2}) - ([^:]+): (.*)$`,
)

// telegramExport mirrors the Telegram Desktop JSON export shape.
type telegramExport struct {
	Name     string                  `json:"name"`
	Messages []telegramExportMessage `json:"messages"`
}

type telegramExportMessage struct {
	ID   int64           `json:"id"`
	Type string          `json:"type"`
	Date string          `json:"date"`
	From string          `json:"from"`
	Text json.RawMessage `json:"text"`
}

// looksLikeTelegramJSON reports whether raw is plausibly a Telegram export
// JSON document, without fully parsing it.
func looksLikeTelegramJSON(raw string) bool {
	trimmed := strings.TrimSpace(raw)
	return strings.HasPrefix(trimmed, "{") && strings.Contains(trimmed, `"messages"`)
}

func parseTelegram(raw string, lines []string) ([]model.Message, []model.Diagnostic) {
	if looksLikeTelegramJSON(raw) {
		return parseTelegramJSON(raw)
	}
	return parseTelegramText(lines)
}

func parseTelegramText(lines []string) ([]model.Message, []model.Diagnostic) {
	var messages []model.Message
	var diags []model.Diagnostic

	for _, line := range lines {
		m := telegramLineRegex.FindStringSubmatch(line)
		if m == nil {
			appendContinuation(&messages, line, &diags)
			continue
		}

		day := atoiDefault(m[1], 1)
		month := atoiDefault(m[2], 1)
		year := atoiDefault(m[3], 1970)
		hour := atoiDefault(m[4], 0)
		minute := atoiDefault(m[5], 0)
		second := atoiDefault(m[6], 0)
		ts := buildUTC(year, month, day, hour, minute, second)

		sender := strings.TrimSpace(m[7])
		text, isMedia := stripMediaPlaceholder(m[8])

		messages = append(messages, model.Message{
			Timestamp: &ts,
			Sender:    sender,
			Text:      text,
			Platform:  model.PlatformTelegram,
			IsMedia:   isMedia,
		})
	}

	return messages, diags
}

func parseTelegramJSON(raw string) ([]model.Message, []model.Diagnostic) {
	var export telegramExport
	var diags []model.Diagnostic

	if err := json.Unmarshal([]byte(raw), &export); err != nil {
		diags = append(diags, model.Diagnostic{
			Kind:    "parser_skip",
			Message: "failed to parse Telegram export JSON: " + err.Error(),
		})
		return nil, diags
	}

	messages := make([]model.Message, 0, len(export.Messages))
	for _, m := range export.Messages {
		if m.From == "" {
			continue
		}

		text := telegramTextToString(m.Text)
		cleanedText, isMedia := stripMediaPlaceholder(text)
		if text == "" && m.Type == "service" {
			continue
		}

		var tsPtr *time.Time
		if t, err := time.ParseInLocation("2006-01-02T15:04:05", m.Date, time.UTC); err == nil {
			tsPtr = &t
		} else {
			diags = append(diags, model.Diagnostic{
				Kind:    "parser_skip",
				Message: "unparseable Telegram JSON date: " + m.Date,
			})
		}

		messages = append(messages, model.Message{
			Timestamp: tsPtr,
			Sender:    strings.TrimSpace(m.From),
			Text:      cleanedText,
			Platform:  model.PlatformTelegram,
			IsMedia:   isMedia,
		})
	}

	return messages, diags
}

// telegramTextToString normalises Telegram's "text" field, which may be a
// plain string or an array of mixed strings/formatting-entity objects.
func telegramTextToString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}

	var asArray []json.RawMessage
	if err := json.Unmarshal(raw, &asArray); err == nil {
		var b strings.Builder
		for _, item := range asArray {
			var s string
			if err := json.Unmarshal(item, &s); err == nil {
				b.WriteString(s)
				continue
			}
			var obj map[string]interface{}
			if err := json.Unmarshal(item, &obj); err == nil {
				if t, ok := obj["text"].(string); ok {
					b.WriteString(t)
				}
			}
		}
		return b.String()
	}

	return ""
}
