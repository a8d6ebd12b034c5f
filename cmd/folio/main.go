package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Kush-Singh-26/folio/builder/config"
	"github.com/Kush-Singh-26/folio/internal/build"
	"github.com/Kush-Singh-26/folio/internal/clean"
	"github.com/Kush-Singh-26/folio/internal/new"
	"github.com/Kush-Singh-26/folio/internal/server"
	"github.com/Kush-Singh-26/folio/internal/version"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := newLogger()
	slog.SetDefault(logger)

	var err error
	switch command {
	case "build":
		var cfg *config.Config
		if cfg, err = config.Load(args); err == nil {
			err = build.Run(ctx, cfg, logger)
		}
	case "serve":
		var cfg *config.Config
		if cfg, err = config.Load(args); err == nil {
			err = server.Serve(ctx, cfg, logger)
		}
	case "new":
		var cfg *config.Config
		if cfg, err = config.Load(nil); err == nil {
			err = new.Run(cfg, args)
		}
	case "clean":
		var cfg *config.Config
		if cfg, err = config.Load(nil); err == nil {
			err = clean.Run(cfg, args)
		}
	case "version":
		fmt.Println(version.String())
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		stop()
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
}

// newLogger writes text logs to stderr; FOLIO_LOG=debug turns on debug output.
func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if strings.EqualFold(os.Getenv("FOLIO_LOG"), "debug") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func printUsage() {
	fmt.Println("Usage: folio <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  build                         Build the static site")
	fmt.Println("  serve                         Start the preview server with live reload")
	fmt.Println("  new <title> [-category C] [-mdx]")
	fmt.Println("                                Create a new blog post")
	fmt.Println("  clean [-cache]                Remove the output (and cache) directory")
	fmt.Println("  version                       Print version information")
	fmt.Println("  help                          Show this help message")
	fmt.Println("\nFlags for build and serve:")
	fmt.Println("  -config <file>   Config file (default folio.yaml, or $FOLIO_CONFIG)")
	fmt.Println("  -baseurl <url>   Override the site base URL")
	fmt.Println("  -content <dir>   Content directory")
	fmt.Println("  -output <dir>    Output directory")
	fmt.Println("  -host, -port     Preview server address")
	fmt.Println("  -workers <n>     Build workers")
	fmt.Println("  -compress        Minify HTML and compress images")
	fmt.Println("  -strict          Fail on malformed documents")
	fmt.Println("  -cache           Enable the persistent parse cache")
}
