package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/chatpulse/cae/internal/cae/model"
)

// discordHeaderRegex matches a Discord export header line, per spec §4.1:
// "Name — DD/MM/YYYY HH:MM" followed by a body that continues until the
// next header line.
var discordHeaderRegex = regexp.MustCompile(
	`^(.+?) — (\d{1,2})/(\d{1,2})/(\d{2,4}) (\d{1,2}):(\d{2})$`,
)

func parseDiscord(lines []string) ([]model.Message, []model.Diagnostic) {
	var messages []model.Message
	var diags []model.Diagnostic

	for _, line := range lines {
		m := discordHeaderRegex.FindStringSubmatch(line)
		if m == nil {
			appendContinuation(&messages, line, &diags)
			continue
		}

		day := atoiDefault(m[2], 1)
		month := atoiDefault(m[3], 1)
		year := expandTwoDigitYear(atoiDefault(m[4], 1970))
		hour := atoiDefault(m[5], 0)
		minute := atoiDefault(m[6], 0)
		ts := buildUTC(year, month, day, hour, minute, 0)

		messages = append(messages, model.Message{
			Timestamp: &ts,
			Sender:    strings.TrimSpace(m[1]),
			Text:      "",
			Platform:  model.PlatformDiscord,
		})
	}

	return messages, diags
}

// ConvertDiscordMessage adapts a live discordgo.Message (e.g. captured by a
// host bot rather than exported to text) into the engine's canonical
// message shape, so a host can feed gateway traffic through the same
// aggregation pipeline as a text export.
func ConvertDiscordMessage(m *discordgo.Message, ts time.Time) model.Message {
	sender := ""
	if m.Author != nil {
		sender = m.Author.Username
		if m.Author.GlobalName != "" {
			sender = m.Author.GlobalName
		}
	}

	text, isMedia := stripMediaPlaceholder(m.Content)
	if strings.TrimSpace(m.Content) == "" {
		isMedia = true
		text = "<Media omitted>"
	}

	return model.Message{
		Timestamp: &ts,
		Sender:    strings.TrimSpace(sender),
		Text:      text,
		Platform:  model.PlatformDiscord,
		IsMedia:   isMedia,
	}
}
