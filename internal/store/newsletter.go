// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"

	"github.com/olegiv/vitrine/internal/listing"
)

const newsletterColumns = "id, email, created_at"

func scanNewsletter(row rowScanner) (NewsletterEmail, error) {
	var n NewsletterEmail
	err := row.Scan(&n.ID, &n.Email, &n.CreatedAt)
	return n, err
}

// NewsletterList lists subscribers by email, newest first.
var NewsletterList = ListSpec[NewsletterEmail]{
	From:    "newsletter_emails",
	Columns: newsletterColumns,
	Search:  []string{"email"},
	OrderBy: "created_at DESC, id DESC",
	Scan:    scanNewsletter,
}

// Subscribe records email. It reports created=false when the address was
// already subscribed; the existing row is returned in both cases.
func (q *Queries) Subscribe(ctx context.Context, email string) (NewsletterEmail, bool, error) {
	res, err := q.db.ExecContext(ctx,
		"INSERT INTO newsletter_emails (email, created_at) VALUES (?, ?) ON CONFLICT(email) DO NOTHING",
		email, now())
	if err != nil {
		return NewsletterEmail{}, false, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return NewsletterEmail{}, false, err
	}

	sub, err := scanNewsletter(q.db.QueryRowContext(ctx,
		"SELECT "+newsletterColumns+" FROM newsletter_emails WHERE email = ?", email))
	if err != nil {
		return NewsletterEmail{}, false, classify(err)
	}
	return sub, n > 0, nil
}

// GetNewsletterByID returns one subscription.
func (q *Queries) GetNewsletterByID(ctx context.Context, id int64) (NewsletterEmail, error) {
	n, err := scanNewsletter(q.db.QueryRowContext(ctx,
		"SELECT "+newsletterColumns+" FROM newsletter_emails WHERE id = ?", id))
	return n, classify(err)
}

// ListNewsletters returns one page of subscriptions.
func (q *Queries) ListNewsletters(ctx context.Context, req listing.Request) (listing.Page[NewsletterEmail], error) {
	return List(ctx, q.db, NewsletterList, req)
}

// DeleteNewsletter removes a subscription.
func (q *Queries) DeleteNewsletter(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM newsletter_emails WHERE id = ?", id)
	if err != nil {
		return classify(err)
	}
	return affected(res)
}

// CountNewsletters counts all subscriptions.
func (q *Queries) CountNewsletters(ctx context.Context) (int64, error) {
	return q.count(ctx, "newsletter_emails")
}
