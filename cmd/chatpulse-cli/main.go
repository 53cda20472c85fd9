// Command chatpulse-cli runs the chat analysis engine over a local export
// file and prints the resulting ChatAnalysis as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/chatpulse/cae/internal/cae/engine"
	"github.com/chatpulse/cae/internal/cae/model"
	"github.com/chatpulse/cae/internal/config"
)

func main() {
	file := flag.String("file", "", "path to a chat export file")
	format := flag.String("format", "", "force a format instead of auto-detecting: whatsapp|telegram|discord|imessage|generic")
	selfName := flag.String("self", "", "participant name to label as the caller (role=self)")
	configPath := flag.String("config", "config.yml", "path to a YAML config file")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: chatpulse-cli -file <export.txt> [-format whatsapp] [-self \"My Name\"]")
		os.Exit(2)
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read %s: %v", *file, err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	eng := engine.New(cfg, nil)

	var hint *model.Platform
	if *format != "" {
		p := model.Platform(*format)
		hint = &p
	}
	var self *string
	if *selfName != "" {
		self = selfName
	}

	analysis, diagnostics, err := eng.AnalyzeConversation(context.Background(), string(raw), hint, self, nil)
	if err != nil {
		log.Fatalf("analyze conversation: %v", err)
	}

	out := struct {
		model.ChatAnalysis
		Diagnostics []model.Diagnostic `json:"diagnostics"`
	}{ChatAnalysis: analysis, Diagnostics: diagnostics}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalf("encode output: %v", err)
	}
}
