package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"go.uber.org/zap"

	"fsfplink/internal"
	"fsfplink/internal/api"
	"fsfplink/internal/credential"
	"fsfplink/internal/overlay"
	"fsfplink/internal/page"
	"fsfplink/internal/plan"
	"fsfplink/internal/submit"
	"fsfplink/internal/utils"
)

// Headless container the CLI's single trigger lives in.
const containerID = "fsfpl-cli"

func main() {
	cmd := flag.String("cmd", "send", "Command: send|forget|show-pin")
	planPath := flag.String("plan", "-", "Flight plan JSON file (- for stdin)")
	secondaryPath := flag.String("secondary", "", "Optional secondary flight plan JSON file")
	serverFlag := flag.String("server", "", "Override desktop base URL (e.g. http://127.0.0.1:32030)")
	flag.Parse()

	cfg := internal.LoadConfig()
	if *serverFlag != "" {
		cfg.BaseURL = strings.TrimRight(*serverFlag, "/")
	}
	logger, err := cfg.Logger()
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	defer logger.Close()

	cell, err := credential.NewFileCell(utils.GetStateDir())
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	store := credential.NewStore(cell, cfg.CredentialName, credential.NewTerminalPrompter(), logger)

	switch *cmd {
	case "send":
		ok, err := send(cfg, store, logger, *planPath, *secondaryPath)
		if err != nil {
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		if !ok {
			os.Exit(1)
		}
	case "forget":
		store.Clear()
		fmt.Println("PIN forgotten.")
	case "show-pin":
		if _, ok := store.Get(false); ok {
			fmt.Println("A PIN is cached.")
		} else {
			fmt.Println("No PIN cached.")
		}
	default:
		fmt.Println("Unknown command")
		os.Exit(1)
	}
}

func send(cfg internal.Config, store *credential.Store, logger *utils.Logger, planPath, secondaryPath string) (bool, error) {
	record, err := readRecord(planPath)
	if err != nil {
		return false, fmt.Errorf("read plan: %w", err)
	}
	var opts plan.Options
	if secondaryPath != "" {
		if opts.Secondary, err = readRecord(secondaryPath); err != nil {
			return false, fmt.Errorf("read secondary plan: %w", err)
		}
	}

	doc := page.NewDocument()
	slot := doc.CreateElement("div")
	slot.SetAttribute("id", containerID)
	doc.Body().Append(slot)
	opts.Buttons = []plan.ButtonSpec{{To: containerID, Text: "Send to desktop"}}

	ov := overlay.New(doc, cfg.Namespace)
	client := api.NewClient(cfg.BaseURL, cfg.Username, logger)
	p, err := plan.New(record, opts, plan.Deps{
		Page:     doc,
		Overlay:  ov,
		Workflow: submit.New(store, ov, client, logger),
		Logger:   logger,
	})
	if err != nil {
		return false, err
	}
	defer p.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("sending flight plan", zap.String("server", client.BaseURL()))
	res := p.Send(ctx, plan.SendOptions{Caller: p.Buttons()[0]})
	if msg := ov.Message(); msg != "" {
		fmt.Println(strings.ReplaceAll(msg, "<br>", "\n"))
	}
	return res.OK(), nil
}

func readRecord(path string) (plan.Record, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var record plan.Record
	if err := json.NewDecoder(r).Decode(&record); err != nil {
		return nil, err
	}
	return record, nil
}
