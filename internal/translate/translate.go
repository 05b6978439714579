// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package translate produces target-language shadows of content. Providers
// implement Translator; Bounded wraps one with a timeout and a silent
// fallback to the source text, and Runner executes translation jobs in the
// background so mutations never wait on the provider.
package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Provider names accepted by New.
const (
	ProviderLibreTranslate = "libretranslate"
	ProviderOpenAI         = "openai"
	ProviderNone           = "none"
)

// Translator translates plain text between two language codes.
type Translator interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// Options selects and configures a provider.
type Options struct {
	Provider    string
	URL         string
	APIKey      string
	OpenAIKey   string
	OpenAIModel string
	HTTPTimeout time.Duration
}

// New builds the Translator named by opts.Provider.
func New(opts Options) (Translator, error) {
	switch strings.ToLower(opts.Provider) {
	case "", ProviderLibreTranslate:
		if opts.URL == "" {
			return nil, errors.New("translate URL is required for libretranslate")
		}
		return NewLibreTranslate(opts.URL, opts.APIKey, opts.HTTPTimeout), nil
	case ProviderOpenAI:
		if opts.OpenAIKey == "" {
			return nil, errors.New("OpenAI API key is required for the openai provider")
		}
		return NewOpenAI(opts.OpenAIKey, opts.OpenAIModel, opts.URL), nil
	case ProviderNone:
		return Identity{}, nil
	default:
		return nil, fmt.Errorf("unknown translate provider %q", opts.Provider)
	}
}

// Identity returns text unchanged.
type Identity struct{}

// Translate implements Translator.
func (Identity) Translate(_ context.Context, text, _, _ string) (string, error) {
	return text, nil
}

// Bounded calls a Translator with a per-call timeout and never fails:
// on any error the source text is returned and a warning is logged.
type Bounded struct {
	Translator Translator
	Source     string
	Target     string
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Text translates one string. Blank input is returned as is without a call.
func (b *Bounded) Text(ctx context.Context, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	if b.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.Timeout)
		defer cancel()
	}

	out, err := b.Translator.Translate(ctx, text, b.Source, b.Target)
	if err != nil || strings.TrimSpace(out) == "" {
		if err == nil {
			err = errors.New("empty translation")
		}
		b.logger().Warn("translation failed, keeping source text",
			"category", "translation", "source", b.Source, "target", b.Target, "error", err)
		return text
	}
	return out
}

// fieldConcurrency is how many fields Texts translates at once.
const fieldConcurrency = 4

// Budget is the longest Texts can take for n fields: one timeout per
// round of fieldConcurrency calls. Zero means unbounded.
func (b *Bounded) Budget(n int) time.Duration {
	if b.Timeout <= 0 {
		return 0
	}
	rounds := max((n+fieldConcurrency-1)/fieldConcurrency, 1)
	return time.Duration(rounds) * b.Timeout
}

// Texts translates every input concurrently and returns results in order.
func (b *Bounded) Texts(ctx context.Context, texts ...string) []string {
	out := make([]string, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(fieldConcurrency)
	for i, t := range texts {
		g.Go(func() error {
			out[i] = b.Text(gctx, t)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (b *Bounded) logger() *slog.Logger {
	if b.Logger != nil {
		return b.Logger
	}
	return slog.Default()
}
