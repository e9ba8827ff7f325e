package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"subseek/internal/agent"
	"subseek/internal/config"
	"subseek/internal/llm"
	"subseek/internal/lookup"
	"subseek/internal/thread"
	"subseek/internal/tools"
	"subseek/internal/ui"
)

func main() {
	configFlag := flag.String("config", "", "Config file path (default: XDG config dir)")
	timeFlag := flag.String("t", "", "Go to timestamp (e.g., 00:14:30,000)")
	threadFlag := flag.String("thread", "", "Conversation thread id (default: file name)")
	askFlag := flag.String("ask", "", "Ask one question and print the answer, no TUI")
	mockFlag := flag.Bool("mock", false, "Use the offline mock model")
	initConfigFlag := flag.Bool("init-config", false, "Write the default config file and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: subseek [-config path] [-t timestamp] [-thread id] [-ask question] [-mock] <file.srt>\n")
		fmt.Fprintf(os.Stderr, "  -config\tConfig file path\n")
		fmt.Fprintf(os.Stderr, "  -t\tGo to timestamp (e.g., 00:14:30,000)\n")
		fmt.Fprintf(os.Stderr, "  -thread\tConversation thread id\n")
		fmt.Fprintf(os.Stderr, "  -ask\tAsk one question and print the answer\n")
		fmt.Fprintf(os.Stderr, "  -mock\tUse the offline mock model\n")
		fmt.Fprintf(os.Stderr, "  -init-config\tWrite the default config file and exit\n")
	}
	flag.Parse()

	if *initConfigFlag {
		if err := config.Save(config.DefaultConfig()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", config.GetConfigPath())
		return
	}

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(1)
	}

	path := flag.Arg(0)

	cfg, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog := newLogger(cfg)
	defer closeLog()

	svc := lookup.NewService(lookup.Options{
		ContextWindow: cfg.Lookup.ContextWindow,
		InitWindow:    cfg.Lookup.InitWindow,
	})
	registry := tools.NewRegistry(svc, logger)

	client, err := newClient(cfg, *mockFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	store, err := newStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ag := agent.New(agent.Options{
		Client:    client,
		Registry:  registry,
		Store:     store,
		Path:      path,
		MaxRounds: cfg.LLM.MaxToolRounds,
		Logger:    logger,
	})

	threadID := *threadFlag
	if threadID == "" {
		base := filepath.Base(path)
		threadID = strings.TrimSuffix(base, filepath.Ext(base))
	}

	if *askFlag != "" {
		reply, err := ag.Ask(context.Background(), threadID, *askFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(reply.Text)
		if hl := reply.Highlight; hl != nil {
			fmt.Printf("(lines %d-%d)\n", hl.First, hl.Last)
		}
		return
	}

	model, err := ui.NewModelWithOptions(ui.ModelOptions{
		Path:     path,
		Config:   cfg,
		Agent:    ag,
		Service:  svc,
		ThreadID: threadID,
		Logger:   logger,
		GotoTime: *timeFlag,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newLogger opens the configured log file. Logging goes to a file because
// stderr belongs to the TUI
func newLogger(cfg *config.Config) (*slog.Logger, func()) {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	if cfg.Log.File == "" {
		return discard, func() {}
	}

	f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: cannot open log file: %v\n", err)
		return discard, func() {}
	}

	handler := slog.NewTextHandler(f, &slog.HandlerOptions{
		Level: parseLevel(cfg.Log.Level),
	})
	return slog.New(handler), func() { f.Close() }
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newClient(cfg *config.Config, mock bool) (llm.Client, error) {
	if mock {
		return llm.NewMock(), nil
	}

	return llm.NewOpenAI(llm.Options{
		BaseURL:           cfg.LLM.BaseURL,
		Model:             cfg.LLM.Model,
		APIKeyEnv:         cfg.LLM.APIKeyEnv,
		TimeoutSeconds:    cfg.LLM.TimeoutSeconds,
		Temperature:       cfg.LLM.Temperature,
		RequestsPerMinute: cfg.LLM.RequestsPerMinute,
	})
}

func newStore(cfg *config.Config) (thread.Store, error) {
	if cfg.Threads.InMemory {
		return thread.NewMemoryStore(), nil
	}
	return thread.NewFileStore(cfg.ThreadsDir())
}
