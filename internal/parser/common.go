package parser

import (
	"strings"

	"github.com/chatpulse/cae/internal/cae/model"
)

// appendContinuation attaches a header-less line to the previous message's
// text, or discards it (recording a diagnostic) if there is no previous
// message yet, per spec §4.1's continuation policy.
func appendContinuation(messages *[]model.Message, line string, diags *[]model.Diagnostic) {
	if line == "" {
		return
	}
	if len(*messages) == 0 {
		*diags = append(*diags, model.Diagnostic{
			Kind:    "parser_skip",
			Message: "discarded orphan continuation line before any message: " + truncate(line, 80),
		})
		return
	}
	last := &(*messages)[len(*messages)-1]
	if last.Text == "" {
		last.Text = line
	} else {
		last.Text += "\n" + line
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func splitNonEmptyLines(raw string) []string {
	rawLines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	var out []string
	for _, l := range rawLines {
		if strings.TrimSpace(l) != "" {
			out = append(out, l)
		}
	}
	return out
}

func allLines(raw string) []string {
	return strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
}
