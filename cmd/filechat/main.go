package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"filechat/pkg/config"
	"filechat/pkg/logger"
	"filechat/pkg/tui"
)

const version = "0.1.0"

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	showVersion := flag.Bool("version", false, "Show version")
	showHelp := flag.Bool("help", false, "Show help")
	flag.Parse()

	if *showHelp {
		printHelp()
		return
	}

	if *showVersion {
		fmt.Printf("filechat v%s\n", version)
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.APIKey == "" {
		fmt.Println("No API key configured.")
		fmt.Println("Set OPENAI_API_KEY, or add api_key to the config file.")
		fmt.Println("Run with -help for details.")
		os.Exit(1)
	}

	lg, err := logger.New(cfg.StorageDir)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer lg.Sync()

	// Context for graceful shutdown; cancelling forces bubbletea to exit.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// First SIGINT/SIGTERM cancels, a second one force-exits.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		select {
		case <-sigCh:
			os.Exit(1)
		case <-time.After(5 * time.Second):
			os.Exit(1)
		}
	}()

	lg.Info("filechat v%s starting, model=%s", version, cfg.Model)

	if err := tui.Run(ctx, cfg, lg); err != nil {
		// Context-cancelled errors are just the shutdown path.
		if ctx.Err() == nil {
			log.Fatalf("TUI error: %v", err)
		}
	}

	// Reset terminal state in case bubbletea didn't restore it.
	fmt.Print("\033[?25h")   // show cursor
	fmt.Print("\033[?1049l") // exit alt screen

	fmt.Println("Goodbye!")
}

func printHelp() {
	fmt.Printf("filechat v%s - terminal chat with background file commands\n\n", version)
	fmt.Println("Usage: filechat [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -config string")
	fmt.Println("        Path to configuration file")
	fmt.Println("  -version")
	fmt.Println("        Show version")
	fmt.Println("  -help")
	fmt.Println("        Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  OPENAI_API_KEY    API key (required)")
	fmt.Println("  OPENAI_API_BASE   Custom API base URL (optional)")
	fmt.Println("  OPENAI_MODEL      Model to use (optional, default: gpt-4o-mini)")
	fmt.Println()
	fmt.Println("In-chat commands (run in the background while you keep chatting):")
	fmt.Println("  :touch <path>")
	fmt.Println("  :rm <path>")
	fmt.Println("  :write <path> <content>")
	fmt.Println("  :find <pattern>")
	fmt.Println("  :edit-at <path> <line> <col> <content>")
	fmt.Println("  :move-content <src> <start> <end> <dst> <line>")
}
