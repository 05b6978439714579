// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package confirm

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/vitrine/internal/action"
)

func newSession(t *testing.T, sm *scs.SessionManager) context.Context {
	t.Helper()
	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("loading session: %v", err)
	}
	return ctx
}

func TestGate(t *testing.T) {
	sm := scs.New()
	gate := NewGate(sm)
	ctx := newSession(t, sm)

	token := gate.Issue(ctx, "/admin/tags/3")
	if token == "" {
		t.Fatal("Issue returned an empty token")
	}
	if gate.Confirm(ctx, "/admin/tags/4", token) {
		t.Error("token accepted for another target")
	}
	if !gate.Confirm(ctx, "/admin/tags/3", token) {
		t.Error("issued token rejected")
	}
	if gate.Confirm(ctx, "/admin/tags/3", token) {
		t.Error("token accepted twice")
	}
}

func TestGate_WrongTokenConsumes(t *testing.T) {
	sm := scs.New()
	gate := NewGate(sm)
	ctx := newSession(t, sm)

	token := gate.Issue(ctx, "/admin/blogs/1")
	if gate.Confirm(ctx, "/admin/blogs/1", "guess") {
		t.Fatal("wrong token accepted")
	}
	if gate.Confirm(ctx, "/admin/blogs/1", token) {
		t.Error("token still valid after a failed attempt")
	}
}

func TestGate_OtherSession(t *testing.T) {
	sm := scs.New()
	gate := NewGate(sm)

	token := gate.Issue(newSession(t, sm), "/admin/users/2")
	if gate.Confirm(newSession(t, sm), "/admin/users/2", token) {
		t.Error("token accepted from another session")
	}
}

func TestGate_Empty(t *testing.T) {
	sm := scs.New()
	gate := NewGate(sm)
	ctx := newSession(t, sm)

	if gate.Confirm(ctx, "/admin/users/2", "") {
		t.Error("empty token accepted without an issued one")
	}
}

func TestLinePrompter(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"yes\n", true},
		{" YES \n", true},
		{"\n", false},
		{"n\n", false},
		{"no\n", false},
		{"sure\n", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			var out bytes.Buffer
			p := NewLinePrompter(strings.NewReader(tt.input), &out)

			got, err := p.Confirm(context.Background(), "Delete tag #3?")
			if err != nil {
				t.Fatalf("Confirm: %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm(%q) = %v, want %v", tt.input, got, tt.want)
			}
			if out.String() != "Delete tag #3? [y/N] " {
				t.Errorf("prompt = %q", out.String())
			}
		})
	}
}

func TestLinePrompter_Sequence(t *testing.T) {
	p := NewLinePrompter(strings.NewReader("n\ny\n"), &bytes.Buffer{})

	first, _ := p.Confirm(context.Background(), "a?")
	second, _ := p.Confirm(context.Background(), "b?")
	if first || !second {
		t.Errorf("answers = %v, %v; want false, true", first, second)
	}
}

func TestLinePrompter_Ask(t *testing.T) {
	var out bytes.Buffer
	p := NewLinePrompter(strings.NewReader("next\nd 4\ny\n"), &out)
	ctx := context.Background()

	cmd, err := p.Ask(ctx, "> ")
	if err != nil || cmd != "next" {
		t.Fatalf("Ask = %q, %v", cmd, err)
	}
	cmd, _ = p.Ask(ctx, "> ")
	if cmd != "d 4" {
		t.Fatalf("Ask = %q", cmd)
	}
	if ok, _ := p.Confirm(ctx, "Delete #4?"); !ok {
		t.Error("Confirm after Ask did not read the shared input")
	}
	if _, err := p.Ask(ctx, "> "); !errors.Is(err, io.EOF) {
		t.Errorf("Ask at end of input = %v, want io.EOF", err)
	}
	if out.String() != "> > Delete #4? [y/N] > " {
		t.Errorf("output = %q", out.String())
	}
}

type answer bool

func (a answer) Confirm(context.Context, string) (bool, error) { return bool(a), nil }

type recorder struct {
	deletes []int64
	reloads int
	outcome action.Outcome[action.None]
}

func (r *recorder) del(_ context.Context, id int64) (action.Outcome[action.None], error) {
	r.deletes = append(r.deletes, id)
	return r.outcome, nil
}

func (r *recorder) reload() error {
	r.reloads++
	return nil
}

func TestRun_Declined(t *testing.T) {
	r := &recorder{outcome: action.Done("Tag deleted")}

	out, err := Run(context.Background(), answer(false), "tag", 3, r.del, r.reload)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Success || out.Message != CancelledMessage {
		t.Errorf("outcome = %+v, want cancelled", out)
	}
	if len(r.deletes) != 0 || r.reloads != 0 {
		t.Errorf("deletes=%v reloads=%d after declining", r.deletes, r.reloads)
	}
}

func TestRun_Confirmed(t *testing.T) {
	r := &recorder{outcome: action.Done("Tag deleted")}

	out, err := Run(context.Background(), answer(true), "tag", 3, r.del, r.reload)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !out.Success || out.Message != "Tag deleted" {
		t.Errorf("outcome = %+v", out)
	}
	if len(r.deletes) != 1 || r.deletes[0] != 3 {
		t.Errorf("deletes = %v, want [3]", r.deletes)
	}
	if r.reloads != 1 {
		t.Errorf("reloads = %d, want 1", r.reloads)
	}
}

func TestRun_Refused(t *testing.T) {
	r := &recorder{outcome: action.Fail[action.None](action.KindForbidden, "You cannot delete your own account")}

	out, err := Run(context.Background(), answer(true), "user", 1, r.del, r.reload)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Success || out.Message != "You cannot delete your own account" {
		t.Errorf("outcome = %+v", out)
	}
	if r.reloads != 0 {
		t.Error("reloaded after a refused delete")
	}
}

func TestRun_TransportError(t *testing.T) {
	boom := errors.New("connection refused")
	del := func(context.Context, int64) (action.Outcome[action.None], error) {
		return action.Outcome[action.None]{}, boom
	}

	_, err := Run(context.Background(), answer(true), "tag", 3, del, nil)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
	if _, err := Run(context.Background(), nil, "tag", 3, del, nil); !errors.Is(err, ErrNoPrompter) {
		t.Errorf("err = %v, want ErrNoPrompter", err)
	}
}
