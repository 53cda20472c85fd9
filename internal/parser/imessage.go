package parser

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/chatpulse/cae/internal/cae/model"
)

// iMessageDateRegex matches an iMessage export date header, per spec §4.1:
// "Month DD, YYYY HH:MM[:SS] (AM|PM)".
var iMessageDateRegex = regexp.MustCompile(
	`^([A-Za-z]+) (\d{1,2}), (\d{4}) (\d{1,2}):(\d{2})(?::(\d{2}))? (AM|PM)$`,
)

var iMessageFromRegex = regexp.MustCompile(`^From: (.+)$`)

var monthNames = map[string]int{
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11, "december": 12,
}

// looksLikeHTML sniffs for an HTML document wrapper around an exported log.
func looksLikeHTML(raw string) bool {
	lower := strings.ToLower(raw)
	return strings.Contains(lower, "<html") || strings.Contains(lower, "<body")
}

// htmlToPlainText strips tags from an HTML iMessage export using goquery,
// collapsing block elements onto their own lines so the textual line
// grammar below can run unmodified against the result.
func htmlToPlainText(raw string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", err
	}

	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithHtml("\n")
	})
	doc.Find("div, p, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	body := doc.Find("body")
	if body.Length() == 0 {
		return doc.Text(), nil
	}
	return body.Text(), nil
}

func parseIMessage(raw string) ([]model.Message, []model.Diagnostic) {
	var diags []model.Diagnostic

	text := raw
	if looksLikeHTML(raw) {
		plain, err := htmlToPlainText(raw)
		if err != nil {
			diags = append(diags, model.Diagnostic{
				Kind:    "parser_skip",
				Message: "failed to strip HTML from iMessage export: " + err.Error(),
			})
		} else {
			text = plain
		}
	}

	lines := allLines(text)
	var messages []model.Message

	i := 0
	for i < len(lines) {
		line := strings.TrimSpace(lines[i])
		dm := iMessageDateRegex.FindStringSubmatch(line)
		if dm == nil {
			if strings.TrimSpace(lines[i]) != "" {
				appendContinuation(&messages, lines[i], &diags)
			}
			i++
			continue
		}

		monthName := strings.ToLower(dm[1])
		month, ok := monthNames[monthName]
		if !ok {
			diags = append(diags, model.Diagnostic{
				Kind:    "parser_skip",
				Message: "unrecognised month name: " + dm[1],
			})
			i++
			continue
		}
		day := atoiDefault(dm[2], 1)
		year := atoiDefault(dm[3], 1970)
		hour := to24Hour(atoiDefault(dm[4], 0), dm[7])
		minute := atoiDefault(dm[5], 0)
		second := atoiDefault(dm[6], 0)
		ts := buildUTC(year, month, day, hour, minute, second)
		i++

		sender := ""
		if i < len(lines) {
			if fm := iMessageFromRegex.FindStringSubmatch(strings.TrimSpace(lines[i])); fm != nil {
				sender = strings.TrimSpace(fm[1])
				i++
			}
		}

		messages = append(messages, model.Message{
			Timestamp: &ts,
			Sender:    sender,
			Text:      "",
			Platform:  model.PlatformIMessage,
		})
	}

	for idx := range messages {
		messages[idx].Text = strings.TrimSpace(messages[idx].Text)
		cleaned, isMedia := stripMediaPlaceholder(messages[idx].Text)
		messages[idx].Text = cleaned
		messages[idx].IsMedia = isMedia
	}

	return messages, diags
}
