// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command vitrinectl browses and prunes one entity kind of a vitrine server
// from the terminal through the admin JSON API.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olegiv/vitrine/internal/listing"
	"github.com/olegiv/vitrine/internal/listview"
	"github.com/olegiv/vitrine/internal/version"
)

// requestTimeout bounds every API call.
const requestTimeout = 15 * time.Second

func main() {
	server := flag.String("server", "http://localhost:8080", "vitrine server URL")
	token := flag.String("token", os.Getenv("VITRINE_API_TOKEN"), "API token (default $VITRINE_API_TOKEN)")
	kind := flag.String("kind", "products", "entity kind: products, blogs, recipes, tags, messages, ...")
	pageSize := flag.Int("page-size", listing.DefaultPageSize, "rows per page")
	debounce := flag.Duration("debounce", listview.DefaultDebounce, "delay between the last filter edit and the query")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "vitrinectl - terminal list client for vitrine\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Printf("vitrinectl %s\n", version.Get())
		os.Exit(0)
	}

	if *token == "" {
		slog.Error("an API token is required: pass -token or set VITRINE_API_TOKEN")
		os.Exit(2)
	}
	if *pageSize <= 0 || *pageSize > listing.MaxPageSize {
		slog.Error("invalid page size", "page_size", *pageSize, "max", listing.MaxPageSize)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := &console{
		kind:     *kind,
		client:   NewClient(*server, *token, requestTimeout),
		pageSize: *pageSize,
		debounce: *debounce,
		out:      os.Stdout,
	}
	if err := c.run(ctx, os.Stdin); err != nil {
		slog.Error("vitrinectl failed", "error", err)
		os.Exit(1)
	}
}
