// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/olegiv/vitrine/internal/action"
	"github.com/olegiv/vitrine/internal/confirm"
	"github.com/olegiv/vitrine/internal/listing"
	"github.com/olegiv/vitrine/internal/listview"
)

const help = `Commands:
  /text     filter (applied after a short pause; "/" alone clears)
  n, p      next / previous page
  g N       go to page N
  r         reload
  d ID      delete item ID (asks first)
  q         quit
`

// console is the interactive list screen of one entity kind.
type console struct {
	kind     string
	client   *Client
	pageSize int
	debounce time.Duration

	mu  sync.Mutex // serialises output
	out io.Writer
}

// run reads commands from in until q or end of input.
func (c *console) run(ctx context.Context, in io.Reader) error {
	prompter := confirm.NewLinePrompter(in, c)

	ctl := listview.New(func(ctx context.Context, req listing.Request) (listing.Page[Row], error) {
		return c.client.List(ctx, c.kind, req)
	}, listview.Options[Row]{
		PageSize: c.pageSize,
		Debounce: c.debounce,
		OnChange: c.show,
	})
	defer ctl.Close()

	if err := ctl.Load(); err != nil {
		return err
	}
	c.printf("%s", help)

	for {
		line, err := prompter.Ask(ctx, "")
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		quit, err := c.exec(ctx, ctl, prompter, strings.TrimSpace(line))
		if err != nil {
			c.printf("%v\n", err)
		}
		if quit {
			return nil
		}
	}
}

func (c *console) exec(ctx context.Context, ctl *listview.Controller[Row], p *confirm.LinePrompter, line string) (bool, error) {
	if text, ok := strings.CutPrefix(line, "/"); ok {
		return false, ctl.SetFilter(text)
	}

	cmd, arg, _ := strings.Cut(line, " ")
	switch cmd {
	case "":
		return false, nil
	case "q", "quit":
		return true, nil
	case "n", "next":
		return false, ctl.Next()
	case "p", "prev":
		return false, ctl.Prev()
	case "g":
		n, err := strconv.Atoi(strings.TrimSpace(arg))
		if err != nil {
			return false, fmt.Errorf("page must be a number")
		}
		return false, ctl.GoTo(n)
	case "r":
		return false, ctl.Refresh()
	case "d":
		id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
		if err != nil || id <= 0 {
			return false, fmt.Errorf("usage: d ID")
		}
		// Finish a pending filter edit so the reload shows the same rows.
		if err := ctl.FlushFilter(); err != nil {
			return false, err
		}
		out, err := confirm.Run(ctx, p, c.kind, id, func(ctx context.Context, id int64) (action.Outcome[action.None], error) {
			return c.client.Delete(ctx, c.kind, id)
		}, ctl.Refresh)
		if err != nil {
			return false, err
		}
		c.printf("%s\n", out.Message)
		return false, nil
	case "?", "h", "help":
		c.printf("%s", help)
		return false, nil
	}
	return false, fmt.Errorf("unknown command %q, ? for help", cmd)
}

// show renders a controller state.
func (c *console) show(s listview.State[Row]) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case s.Status == listview.StatusLoading && s.FilterText == s.Query:
		_, _ = fmt.Fprintln(c.out, "Loading...")
		return
	case s.Status == listview.StatusLoading:
		return
	case s.Status == listview.StatusFailed:
		_, _ = fmt.Fprintf(c.out, "Failed to load %s: %v\n", c.kind, s.Err)
		return
	case !s.Loaded || s.FilterText != s.Query:
		return
	}

	p := s.Result
	if p.Empty() {
		if s.Query != "" {
			_, _ = fmt.Fprintf(c.out, "No results for %q\n", s.Query)
		} else {
			_, _ = fmt.Fprintf(c.out, "No %s yet\n", c.kind)
		}
		return
	}
	for _, row := range p.Rows {
		_, _ = fmt.Fprintf(c.out, "%6d  %s\n", row.ID(), row.Label())
	}
	_, _ = fmt.Fprintf(c.out, "Showing %d-%d of %d (page %d/%d)\n", p.From, p.To, p.TotalCount, p.Page, p.TotalPages)
}

// Write lets prompts share the output lock with asynchronous redraws.
func (c *console) Write(b []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.out.Write(b)
}

func (c *console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c, format, args...)
}
