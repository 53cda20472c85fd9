package parser

import (
	"regexp"
	"strings"

	"github.com/chatpulse/cae/internal/cae/model"
)

// whatsAppHeaderRegex matches a WhatsApp export header line, per spec §4.1.
var whatsAppHeaderRegex = regexp.MustCompile(
	`^\[?(\d{1,2})[./-](\d{1,2})[./-](\d{2,4})[,]? (\d{1,2}):(\d{2})(?::(\d{2}))?\s?([AP]M)?\]? [-–] ([^:]+): (.*)$`,
)

func parseWhatsApp(lines []string) ([]model.Message, []model.Diagnostic) {
	var messages []model.Message
	var diags []model.Diagnostic

	for _, line := range lines {
		m := whatsAppHeaderRegex.FindStringSubmatch(line)
		if m == nil {
			appendContinuation(&messages, line, &diags)
			continue
		}

		month := atoiDefault(m[1], 1)
		day := atoiDefault(m[2], 1)
		year := expandTwoDigitYear(atoiDefault(m[3], 1970))
		hour := to24Hour(atoiDefault(m[4], 0), m[7])
		minute := atoiDefault(m[5], 0)
		second := atoiDefault(m[6], 0)

		ts := buildUTC(year, month, day, hour, minute, second)
		sender := strings.TrimSpace(m[8])
		text := m[9]

		cleanedText, isMedia := stripMediaPlaceholder(text)

		messages = append(messages, model.Message{
			Timestamp: &ts,
			Sender:    sender,
			Text:      cleanedText,
			Platform:  model.PlatformWhatsApp,
			IsMedia:   isMedia,
		})
	}

	return messages, diags
}
