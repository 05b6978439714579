// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/vitrine/internal/translate"
)

const (
	defaultSourceLang       = "fr"
	defaultTargetLang       = "en"
	defaultTranslateTimeout = 5 * time.Second
)

// shadowWriteTimeout bounds the write that stores a finished translation.
const shadowWriteTimeout = 5 * time.Second

// translateJob translates a parent and returns the write that stores the
// result in its shadow. A nil write means there is nothing to store.
type translateJob func(ctx context.Context, tr *translate.Bounded) (write func(ctx context.Context) error, err error)

// shadows schedules the translation of a parent into its shadow row. The
// shadow itself is created with source text inside the parent's
// transaction; the job only overwrites rows still flagged is_auto.
//
// Jobs for the same parent may finish out of order. Each one carries a
// generation, and only the newest generation of a parent may write.
type shadows struct {
	bounded *translate.Bounded
	runner  *translate.Runner
	logger  *slog.Logger

	mu     sync.Mutex
	seq    uint64
	latest map[string]uint64
}

func newShadows(d Deps, logger *slog.Logger) *shadows {
	tr := d.Translator
	if tr == nil {
		tr = translate.Identity{}
	}
	source, target := d.SourceLang, d.TargetLang
	if source == "" {
		source = defaultSourceLang
	}
	if target == "" {
		target = defaultTargetLang
	}
	timeout := d.TranslateTimeout
	if timeout <= 0 {
		timeout = defaultTranslateTimeout
	}
	return &shadows{
		bounded: &translate.Bounded{Translator: tr, Source: source, Target: target, Timeout: timeout, Logger: logger},
		runner:  d.Runner,
		logger:  logger,
		latest:  make(map[string]uint64),
	}
}

// lang is the language of the shadow rows.
func (s *shadows) lang() string {
	return s.bounded.Target
}

// schedule runs job for the parent named name in the background runner,
// or inline when there is none. fields is the number of texts the job
// translates and sizes its deadline. It never reports failure to the
// caller: the parent write has already succeeded.
func (s *shadows) schedule(name string, fields int, job translateJob) {
	gen := s.begin(name)
	run := func(ctx context.Context) error {
		write, err := job(ctx, s.bounded)
		if err != nil || write == nil {
			return err
		}
		return s.commit(ctx, name, gen, write)
	}
	budget := s.bounded.Budget(fields)

	if s.runner != nil {
		err := s.runner.GoWithin(name, budget, run)
		if err == nil {
			return
		}
		if !errors.Is(err, translate.ErrRunnerClosed) {
			s.logger.Warn("scheduling translation failed", "category", "translation", "job", name, "error", err)
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), budget)
	defer cancel()
	if err := run(ctx); err != nil {
		s.logger.Warn("translation job failed", "category", "translation", "job", name, "error", err)
	}
}

// begin issues the generation of a new job for name.
func (s *shadows) begin(name string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.latest[name] = s.seq
	return s.seq
}

// commit runs write if gen is still the newest job of name. The write
// gets its own deadline: a translation that used up the job's time must
// still be stored.
func (s *shadows) commit(ctx context.Context, name string, gen uint64, write func(ctx context.Context) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest[name] != gen {
		s.logger.Debug("translation superseded by a newer edit", "job", name)
		return nil
	}
	delete(s.latest, name)

	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shadowWriteTimeout)
	defer cancel()
	return write(wctx)
}
