// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/olegiv/vitrine/internal/listing"
)

const messageColumns = "id, name, email, subject, message, created_at"

func scanMessage(row rowScanner) (ContactMessage, error) {
	var m ContactMessage
	err := row.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.CreatedAt)
	return m, err
}

// MessageList searches name, email and subject. Messages are append-only,
// so the id alone gives a stable newest-first order.
var MessageList = ListSpec[ContactMessage]{
	From:    "contact_messages",
	Columns: messageColumns,
	Search:  []string{"name", "email", "subject"},
	OrderBy: "id DESC",
	Scan:    scanMessage,
}

// CreateMessageParams holds a submitted contact form.
type CreateMessageParams struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// CreateMessage stores a contact form submission.
func (q *Queries) CreateMessage(ctx context.Context, arg CreateMessageParams) (ContactMessage, error) {
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO contact_messages (name, email, subject, message, created_at) VALUES (?, ?, ?, ?, ?)",
		arg.Name, arg.Email, arg.Subject, arg.Message, now())
	if err != nil {
		return ContactMessage{}, classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return ContactMessage{}, err
	}
	return q.GetMessageByID(ctx, id)
}

// GetMessageByID returns one message.
func (q *Queries) GetMessageByID(ctx context.Context, id int64) (ContactMessage, error) {
	m, err := scanMessage(q.db.QueryRowContext(ctx, "SELECT "+messageColumns+" FROM contact_messages WHERE id = ?", id))
	return m, classify(err)
}

// ListMessages returns one page of messages.
func (q *Queries) ListMessages(ctx context.Context, req listing.Request) (listing.Page[ContactMessage], error) {
	return List(ctx, q.db, MessageList, req)
}

// DeleteMessage removes a message.
func (q *Queries) DeleteMessage(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM contact_messages WHERE id = ?", id)
	if err != nil {
		return classify(err)
	}
	return affected(res)
}

// CountMessages counts all messages.
func (q *Queries) CountMessages(ctx context.Context) (int64, error) {
	return q.count(ctx, "contact_messages")
}
