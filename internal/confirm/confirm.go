// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package confirm gates destructive actions behind an explicit second step.
//
// The HTML admin uses Gate: rendering a confirmation page issues a one-time
// token bound to the session and the target, and the delete handler only
// proceeds when that token comes back. The terminal client uses Run with a
// Prompter whose default answer is no.
package confirm

import (
	"bufio"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"

	"github.com/olegiv/vitrine/internal/action"
)

// CancelledMessage is the outcome message of a declined confirmation.
const CancelledMessage = "Deletion cancelled"

const keyPrefix = "confirm:"

// Gate issues and checks session-bound confirmation tokens.
type Gate struct {
	sessions *scs.SessionManager
}

// NewGate creates a Gate storing its tokens in sm.
func NewGate(sm *scs.SessionManager) *Gate {
	return &Gate{sessions: sm}
}

// Issue creates a token for target, usually the path of the resource to
// delete. Issuing again replaces the previous token for the same target.
func (g *Gate) Issue(ctx context.Context, target string) string {
	token := uuid.NewString()
	g.sessions.Put(ctx, keyPrefix+target, token)
	return token
}

// Confirm reports whether token is the one issued for target in this
// session. The token is consumed either way.
func (g *Gate) Confirm(ctx context.Context, target, token string) bool {
	want := g.sessions.PopString(ctx, keyPrefix+target)
	if want == "" || token == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(want), []byte(token)) == 1
}

// Prompter asks a yes/no question.
type Prompter interface {
	Confirm(ctx context.Context, question string) (bool, error)
}

// LinePrompter reads answers line by line. Only "y" and "yes" confirm;
// an empty line or end of input means no.
type LinePrompter struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewLinePrompter creates a prompter over in and out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewScanner(in), out: out}
}

// Ask prints prompt and returns the next line without its newline. End of
// input is io.EOF. Callers that also read commands use Ask so that prompts
// and commands share one buffered reader.
func (p *LinePrompter) Ask(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := fmt.Fprint(p.out, prompt); err != nil {
		return "", err
	}
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return p.in.Text(), nil
}

// Confirm prints question followed by " [y/N] " and reads one line.
func (p *LinePrompter) Confirm(ctx context.Context, question string) (bool, error) {
	line, err := p.Ask(ctx, question+" [y/N] ")
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// DeleteFunc performs the destructive action. A non-nil error means the
// action could not be attempted at all (transport failure); a refused
// delete is a failed outcome.
type DeleteFunc func(ctx context.Context, id int64) (action.Outcome[action.None], error)

// ErrNoPrompter is returned by Run without a Prompter.
var ErrNoPrompter = errors.New("confirm: no prompter")

// Run asks for confirmation and, only if given, calls del. onSuccess runs
// after a successful delete, typically to reload the current page. A
// declined prompt returns a failed outcome with CancelledMessage and
// leaves everything untouched.
func Run(ctx context.Context, p Prompter, subject string, id int64, del DeleteFunc, onSuccess func() error) (action.Outcome[action.None], error) {
	if p == nil {
		return action.Outcome[action.None]{}, ErrNoPrompter
	}
	ok, err := p.Confirm(ctx, fmt.Sprintf("Delete %s #%d?", subject, id))
	if err != nil {
		return action.Outcome[action.None]{}, fmt.Errorf("prompting: %w", err)
	}
	if !ok {
		return action.Fail[action.None](action.KindNone, CancelledMessage), nil
	}

	out, err := del(ctx, id)
	if err != nil {
		return out, err
	}
	if out.Success && onSuccess != nil {
		if err := onSuccess(); err != nil {
			return out, fmt.Errorf("after delete: %w", err)
		}
	}
	return out, nil
}
