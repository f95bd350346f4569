// planwise TUI - A terminal interface for the planwise event-planning assistant.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/planwise-tui/internal/cart"
	"github.com/jeranaias/planwise-tui/internal/config"
	"github.com/jeranaias/planwise-tui/internal/orchestrator"
	"github.com/jeranaias/planwise-tui/internal/storage"
	"github.com/jeranaias/planwise-tui/internal/transport"
	"github.com/jeranaias/planwise-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	args := os.Args[1:]

	debug := false
	if len(args) > 0 && args[0] == "--debug" {
		debug = true
		args = args[1:]
	}

	if len(args) == 0 {
		runTUI(debug)
		return
	}

	switch args[0] {
	case "sessions":
		handleSessions(args[1:])
	case "export":
		handleExport(args[1:])
	case "config":
		handleConfig(args[1:])
	case "version", "--version", "-v":
		fmt.Printf("planwise %s (%s, built %s)\n", Version, GitCommit, BuildDate)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", args[0])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`planwise - event planning assistant

Usage:
  planwise                     Start the interactive TUI
  planwise --debug             Start the TUI with a debug log file
  planwise sessions            List saved conversations
  planwise sessions delete <n> Delete conversation number n
  planwise sessions clear      Delete all saved conversations
  planwise export <n> [file]   Export conversation n as Markdown
  planwise config get <key>    Show a config value
  planwise config set <key> <value>
  planwise config list         Show all config keys
  planwise version             Show version information

Environment:
  PLANWISE_BACKEND_URL      Override the backend base URL
  PLANWISE_CONVERSATION_ID  Pin the backend conversation ID
  PLANWISE_STORAGE_DIR      Override the conversation storage directory
`)
}

// =============================================================================
// TUI
// =============================================================================

func runTUI(debug bool) {
	if debug {
		f, err := tea.LogToFile("planwise-debug.log", "debug")
		if err != nil {
			fmt.Fprintf(os.Stderr, "debug log: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	config.SetGlobal(cfg)

	client := transport.NewClientWithConfig(&transport.ClientConfig{
		BaseURL:           cfg.Backend.BaseURL,
		Timeout:           time.Duration(cfg.Backend.TimeoutSecs) * time.Second,
		RequestsPerSecond: cfg.Backend.RequestsPerSecond,
		ConversationID:    cfg.Backend.ConversationID,
	})

	cartState := cart.NewState()
	ctrl := orchestrator.New(client, cartState)

	store, err := newStore(cfg)
	if err != nil {
		// Storage failures degrade to an unsaved session rather than
		// blocking the conversation.
		fmt.Fprintf(os.Stderr, "warning: conversation storage unavailable: %v\n", err)
		store = nil
	}

	m := chat.New(ctrl, cartState, store, cfg)
	program := tea.NewProgram(m, tea.WithAltScreen())

	// Reload config edits live while the TUI runs.
	watcher, err := config.NewWatcher(500*time.Millisecond, func(reloaded *config.Config) {
		program.Send(chat.ConfigReloadedMsg{Cfg: reloaded})
	})
	if err == nil {
		if err := watcher.Watch(); err == nil {
			defer watcher.Close()
		}
	}

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newStore(cfg *config.Config) (*storage.ConversationStore, error) {
	if cfg.Storage.Dir != "" {
		return storage.NewConversationStoreWithDir(cfg.Storage.Dir)
	}
	return storage.NewConversationStore()
}

// =============================================================================
// SESSIONS
// =============================================================================

func handleSessions(args []string) {
	store := mustStore()

	if len(args) == 0 || args[0] == "list" {
		sessions, err := store.List()
		if err != nil {
			fatal("list conversations: %v", err)
		}
		fmt.Print(storage.FormatSessionList(sessions))
		return
	}

	switch args[0] {
	case "delete":
		if len(args) < 2 {
			fatal("usage: planwise sessions delete <n>")
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			fatal("invalid conversation number: %s", args[1])
		}
		conv, err := store.LoadByIndex(n)
		if err != nil {
			fatal("load conversation %d: %v", n, err)
		}
		if err := store.Delete(conv.ID); err != nil {
			fatal("delete conversation: %v", err)
		}
		fmt.Printf("Deleted conversation %d (%s)\n", n, conv.Summary)

	case "clear":
		if err := store.Clear(); err != nil {
			fatal("clear conversations: %v", err)
		}
		fmt.Println("All conversations deleted")

	default:
		fatal("unknown sessions command: %s", args[0])
	}
}

func handleExport(args []string) {
	if len(args) == 0 {
		fatal("usage: planwise export <n> [file]")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		fatal("invalid conversation number: %s", args[0])
	}

	store := mustStore()
	conv, err := store.LoadByIndex(n)
	if err != nil {
		fatal("load conversation %d: %v", n, err)
	}

	markdown := conv.ExportMarkdown()
	if len(args) > 1 {
		if err := os.WriteFile(args[1], []byte(markdown), 0o644); err != nil {
			fatal("write %s: %v", args[1], err)
		}
		fmt.Printf("Exported conversation %d to %s\n", n, args[1])
		return
	}
	fmt.Print(markdown)
}

// =============================================================================
// CONFIG
// =============================================================================

func handleConfig(args []string) {
	if len(args) == 0 {
		fatal("usage: planwise config <get|set|list>")
	}

	cfg, err := config.Load()
	if err != nil {
		fatal("config error: %v", err)
	}

	switch args[0] {
	case "get":
		if len(args) < 2 {
			fatal("usage: planwise config get <key>")
		}
		value, err := cfg.Get(args[1])
		if err != nil {
			fatal("%v", err)
		}
		fmt.Printf("%v\n", value)

	case "set":
		if len(args) < 3 {
			fatal("usage: planwise config set <key> <value>")
		}
		if err := cfg.Set(args[1], args[2]); err != nil {
			fatal("%v", err)
		}
		if err := config.Save(cfg); err != nil {
			fatal("save config: %v", err)
		}
		fmt.Printf("%s = %s\n", args[1], args[2])

	case "list":
		for _, key := range config.GetAllKeys() {
			value, err := cfg.Get(key)
			if err != nil {
				continue
			}
			fmt.Printf("%-28s %v\n", key, value)
		}

	default:
		fatal("unknown config command: %s", args[0])
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func mustStore() *storage.ConversationStore {
	cfg, err := config.Load()
	if err != nil {
		fatal("config error: %v", err)
	}
	store, err := newStore(cfg)
	if err != nil {
		fatal("open conversation storage: %v", err)
	}
	return store
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
