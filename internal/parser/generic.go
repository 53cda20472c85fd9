package parser

import (
	"regexp"
	"strings"

	"github.com/chatpulse/cae/internal/cae/model"
)

// genericLineRegex matches a plain "Name: text" line with no timestamp.
var genericLineRegex = regexp.MustCompile(`^([^:\n]{1,64}): (.*)$`)

func parseGeneric(lines []string) ([]model.Message, []model.Diagnostic) {
	var messages []model.Message
	var diags []model.Diagnostic

	for _, line := range lines {
		m := genericLineRegex.FindStringSubmatch(line)
		if m == nil {
			appendContinuation(&messages, line, &diags)
			continue
		}

		sender := strings.TrimSpace(m[1])
		text, isMedia := stripMediaPlaceholder(m[2])

		messages = append(messages, model.Message{
			Timestamp: nil,
			Sender:    sender,
			Text:      text,
			Platform:  model.PlatformGeneric,
			IsMedia:   isMedia,
		})
	}

	return messages, diags
}
