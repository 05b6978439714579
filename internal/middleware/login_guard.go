// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Sizes above which idle state is dropped.
const (
	guardSweepAt   = 1024
	guardMaxIPKeys = 10000
)

// LoginGuardConfig tunes the console sign-in protection.
type LoginGuardConfig struct {
	// PerIPRate and PerIPBurst throttle sign-in POSTs per client address.
	PerIPRate  rate.Limit
	PerIPBurst int
	// Threshold failures for one admin email inside Window lock it.
	Threshold int
	Window    time.Duration
	// Lockout is the first lock; each further lock doubles it up to MaxLockout.
	Lockout    time.Duration
	MaxLockout time.Duration
	// Clock defaults to time.Now.
	Clock func() time.Time
}

// DefaultLoginGuardConfig allows a sign-in every two seconds per address
// and locks an email for 15 minutes after 5 failures in 15 minutes.
func DefaultLoginGuardConfig() LoginGuardConfig {
	return LoginGuardConfig{
		PerIPRate:  0.5,
		PerIPBurst: 5,
		Threshold:  5,
		Window:     15 * time.Minute,
		Lockout:    15 * time.Minute,
		MaxLockout: 24 * time.Hour,
	}
}

// LoginStatus is what the sign-in form tells the user about an email.
type LoginStatus struct {
	Locked  bool
	RetryIn time.Duration
	// Remaining failures before the next lock.
	Remaining int
}

// strikes is the failure history of one admin email.
type strikes struct {
	failures    []time.Time
	lockedUntil time.Time
	lockouts    int
}

// LoginGuard throttles sign-in attempts per client address and locks admin
// emails that keep failing. Emails are compared trimmed and lowercased.
type LoginGuard struct {
	cfg LoginGuardConfig
	ips *limiterCache[string]
	now func() time.Time

	mu      sync.Mutex
	byEmail map[string]*strikes
}

// NewLoginGuard fills zero fields of cfg from DefaultLoginGuardConfig.
func NewLoginGuard(cfg LoginGuardConfig) *LoginGuard {
	def := DefaultLoginGuardConfig()
	if cfg.PerIPRate <= 0 {
		cfg.PerIPRate = def.PerIPRate
	}
	if cfg.PerIPBurst <= 0 {
		cfg.PerIPBurst = def.PerIPBurst
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	if cfg.Window <= 0 {
		cfg.Window = def.Window
	}
	if cfg.Lockout <= 0 {
		cfg.Lockout = def.Lockout
	}
	if cfg.MaxLockout < cfg.Lockout {
		cfg.MaxLockout = max(def.MaxLockout, cfg.Lockout)
	}
	now := cfg.Clock
	if now == nil {
		now = time.Now
	}
	return &LoginGuard{
		cfg:     cfg,
		ips:     newLimiterCache[string](float64(cfg.PerIPRate), cfg.PerIPBurst),
		now:     now,
		byEmail: make(map[string]*strikes),
	}
}

// Status reports whether email may try to sign in now.
func (g *LoginGuard) Status(email string) LoginStatus {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.statusLocked(g.byEmail[adminKey(email)], g.now())
}

// Fail records a rejected password for email. Failures while locked are
// not counted and do not extend the lock.
func (g *LoginGuard) Fail(email string) LoginStatus {
	key := adminKey(email)
	now := g.now()

	g.mu.Lock()
	defer g.mu.Unlock()

	if len(g.byEmail) >= guardSweepAt {
		g.sweepLocked(now)
	}

	s := g.byEmail[key]
	if s == nil {
		s = &strikes{}
		g.byEmail[key] = s
	}
	if now.Before(s.lockedUntil) {
		return g.statusLocked(s, now)
	}

	s.failures = append(g.recent(s.failures, now), now)
	if len(s.failures) >= g.cfg.Threshold {
		d := g.lockFor(s.lockouts)
		s.lockedUntil = now.Add(d)
		s.lockouts++
		s.failures = nil
		slog.Warn("admin sign-in locked",
			"category", "auth",
			"email", key,
			"lockouts", s.lockouts,
			"duration", d.String(),
		)
	}
	return g.statusLocked(s, now)
}

// Succeed forgets the failure history of email.
func (g *LoginGuard) Succeed(email string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.byEmail, adminKey(email))
}

// Throttle rejects sign-in POSTs from a client address that exceeds the
// per-address rate. Other methods pass through.
func (g *LoginGuard) Throttle(next http.Handler) http.Handler {
	retryAfter := strconv.Itoa(int(math.Ceil(1 / float64(g.cfg.PerIPRate))))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}
		if g.ips.clearIfExceeds(guardMaxIPKeys) {
			slog.Info("cleared sign-in rate limiters", "category", "auth")
		}
		ip := getClientIP(r)
		if !g.ips.get(ip).Allow() {
			slog.Warn("sign-in rate limit exceeded", "category", "auth", "ip", ip)
			w.Header().Set("Retry-After", retryAfter)
			http.Error(w, "Too many sign-in attempts. Please wait a moment and try again.", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *LoginGuard) statusLocked(s *strikes, now time.Time) LoginStatus {
	if s == nil {
		return LoginStatus{Remaining: g.cfg.Threshold}
	}
	if now.Before(s.lockedUntil) {
		return LoginStatus{Locked: true, RetryIn: s.lockedUntil.Sub(now)}
	}
	return LoginStatus{Remaining: max(g.cfg.Threshold-len(g.recent(s.failures, now)), 0)}
}

// recent drops failures that left the window. failures is in time order.
func (g *LoginGuard) recent(failures []time.Time, now time.Time) []time.Time {
	cutoff := now.Add(-g.cfg.Window)
	i := 0
	for i < len(failures) && !failures[i].After(cutoff) {
		i++
	}
	return failures[i:]
}

func (g *LoginGuard) lockFor(previous int) time.Duration {
	d := g.cfg.Lockout
	for range previous {
		if d >= g.cfg.MaxLockout/2 {
			return g.cfg.MaxLockout
		}
		d *= 2
	}
	return min(d, g.cfg.MaxLockout)
}

// sweepLocked drops emails that are neither locked nor failing recently.
func (g *LoginGuard) sweepLocked(now time.Time) {
	for key, s := range g.byEmail {
		if !now.Before(s.lockedUntil) && len(g.recent(s.failures, now)) == 0 {
			delete(g.byEmail, key)
		}
	}
}

func adminKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
