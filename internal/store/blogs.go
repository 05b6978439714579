// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"strings"

	"github.com/olegiv/vitrine/internal/listing"
)

const blogColumns = `id, title, slug, short_description, full_content, paragraph_1, paragraph_2,
	author_bio, image_url, single_image_xl, status, featured, category_id, created_at, updated_at`

func scanBlog(row rowScanner) (Blog, error) {
	var b Blog
	err := row.Scan(&b.ID, &b.Title, &b.Slug, &b.ShortDescription, &b.FullContent,
		&b.Paragraph1, &b.Paragraph2, &b.AuthorBio, &b.ImageURL, &b.SingleImageXL,
		&b.Status, &b.Featured, &b.CategoryID, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// BlogList lists blogs by title, newest first, with the category name and
// the comma-joined tag names.
var BlogList = ListSpec[BlogListRow]{
	From: "blogs b LEFT JOIN blog_categories c ON c.id = b.category_id",
	Columns: `b.id, b.title, b.slug, b.status, b.featured, c.name,
		COALESCE((SELECT group_concat(t.name, ', ') FROM blog_tags bt JOIN tags t ON t.id = bt.tag_id
		          WHERE bt.blog_id = b.id), ''),
		b.created_at`,
	Search:  []string{"b.title"},
	OrderBy: "b.created_at DESC, b.id DESC",
	Scan: func(row rowScanner) (BlogListRow, error) {
		var r BlogListRow
		err := row.Scan(&r.ID, &r.Title, &r.Slug, &r.Status, &r.Featured, &r.CategoryName, &r.TagNames, &r.CreatedAt)
		return r, err
	},
}

// BlogParams holds the writable columns of a blog.
type BlogParams struct {
	Title            string
	Slug             string
	ShortDescription string
	FullContent      string
	Paragraph1       string
	Paragraph2       string
	AuthorBio        string
	ImageURL         string
	SingleImageXL    string
	Status           string
	Featured         bool
	CategoryID       *int64
}

// CreateBlog inserts a blog. Tags are attached separately with ReplaceBlogTags.
func (q *Queries) CreateBlog(ctx context.Context, arg BlogParams) (Blog, error) {
	ts := now()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO blogs (title, slug, short_description, full_content, paragraph_1, paragraph_2,
		                    author_bio, image_url, single_image_xl, status, featured, category_id,
		                    created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Slug, arg.ShortDescription, arg.FullContent, arg.Paragraph1, arg.Paragraph2,
		arg.AuthorBio, arg.ImageURL, arg.SingleImageXL, arg.Status, arg.Featured, arg.CategoryID, ts, ts)
	if err != nil {
		return Blog{}, classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Blog{}, err
	}
	return q.GetBlogByID(ctx, id)
}

// GetBlogByID returns a blog with its tag ids.
func (q *Queries) GetBlogByID(ctx context.Context, id int64) (Blog, error) {
	b, err := scanBlog(q.db.QueryRowContext(ctx, "SELECT "+blogColumns+" FROM blogs WHERE id = ?", id))
	if err != nil {
		return Blog{}, classify(err)
	}
	if b.TagIDs, err = q.BlogTagIDs(ctx, id); err != nil {
		return Blog{}, err
	}
	return b, nil
}

// ListBlogs returns one page of blogs.
func (q *Queries) ListBlogs(ctx context.Context, req listing.Request) (listing.Page[BlogListRow], error) {
	return List(ctx, q.db, BlogList, req)
}

// UpdateBlog rewrites every writable column of a blog.
func (q *Queries) UpdateBlog(ctx context.Context, id int64, arg BlogParams) (Blog, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE blogs SET title = ?, slug = ?, short_description = ?, full_content = ?, paragraph_1 = ?,
		        paragraph_2 = ?, author_bio = ?, image_url = ?, single_image_xl = ?, status = ?,
		        featured = ?, category_id = ?, updated_at = ?
		 WHERE id = ?`,
		arg.Title, arg.Slug, arg.ShortDescription, arg.FullContent, arg.Paragraph1,
		arg.Paragraph2, arg.AuthorBio, arg.ImageURL, arg.SingleImageXL, arg.Status,
		arg.Featured, arg.CategoryID, now(), id)
	if err != nil {
		return Blog{}, classify(err)
	}
	if err := affected(res); err != nil {
		return Blog{}, err
	}
	return q.GetBlogByID(ctx, id)
}

// DeleteBlog removes a blog. Tag links and the shadow cascade.
func (q *Queries) DeleteBlog(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM blogs WHERE id = ?", id)
	if err != nil {
		return classify(err)
	}
	return affected(res)
}

// BlogTagIDs returns the tags attached to a blog, in id order.
func (q *Queries) BlogTagIDs(ctx context.Context, blogID int64) ([]int64, error) {
	rows, err := q.db.QueryContext(ctx, "SELECT tag_id FROM blog_tags WHERE blog_id = ? ORDER BY tag_id", blogID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ReplaceBlogTags drops every tag link of the blog, then inserts tagIDs.
// Concurrent edits are last-writer-wins. Run it inside the transaction of
// the blog write.
func (q *Queries) ReplaceBlogTags(ctx context.Context, blogID int64, tagIDs []int64) error {
	if _, err := q.db.ExecContext(ctx, "DELETE FROM blog_tags WHERE blog_id = ?", blogID); err != nil {
		return classify(err)
	}
	ids := uniqueIDs(tagIDs)
	if len(ids) == 0 {
		return nil
	}

	values := make([]string, len(ids))
	args := make([]any, 0, len(ids)*2)
	for i, id := range ids {
		values[i] = "(?, ?)"
		args = append(args, blogID, id)
	}
	_, err := q.db.ExecContext(ctx,
		"INSERT INTO blog_tags (blog_id, tag_id) VALUES "+strings.Join(values, ", "), args...)
	return classify(err)
}

// BlogSlugTaken reports whether another blog uses slug.
func (q *Queries) BlogSlugTaken(ctx context.Context, slug string, exceptID int64) (bool, error) {
	return q.slugTaken(ctx, "blogs", slug, exceptID)
}

// CountBlogs counts all blogs.
func (q *Queries) CountBlogs(ctx context.Context) (int64, error) {
	return q.count(ctx, "blogs")
}

const blogTranslationColumns = `id, blog_id, lang, title, slug, short_description, paragraph_1, paragraph_2,
	author_bio, is_auto, updated_at`

// GetBlogTranslation returns the shadow of a blog in lang.
func (q *Queries) GetBlogTranslation(ctx context.Context, blogID int64, lang string) (BlogTranslation, error) {
	var t BlogTranslation
	err := q.db.QueryRowContext(ctx,
		"SELECT "+blogTranslationColumns+" FROM blog_translations WHERE blog_id = ? AND lang = ?",
		blogID, lang).Scan(&t.ID, &t.BlogID, &t.Lang, &t.Title, &t.Slug, &t.ShortDescription,
		&t.Paragraph1, &t.Paragraph2, &t.AuthorBio, &t.IsAuto, &t.UpdatedAt)
	return t, classify(err)
}

// CreateBlogTranslation inserts the shadow of a blog. An existing shadow is left as is.
func (q *Queries) CreateBlogTranslation(ctx context.Context, t BlogTranslation) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO blog_translations (blog_id, lang, title, slug, short_description, paragraph_1,
		                                paragraph_2, author_bio, is_auto, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(blog_id, lang) DO NOTHING`,
		t.BlogID, t.Lang, t.Title, t.Slug, t.ShortDescription, t.Paragraph1,
		t.Paragraph2, t.AuthorBio, t.IsAuto, now())
	return classify(err)
}

// UpdateAutoBlogTranslation overwrites the shadow only while it is still
// automatic. It reports whether a row was written.
func (q *Queries) UpdateAutoBlogTranslation(ctx context.Context, t BlogTranslation) (bool, error) {
	res, err := q.db.ExecContext(ctx,
		`UPDATE blog_translations SET title = ?, slug = ?, short_description = ?, paragraph_1 = ?,
		        paragraph_2 = ?, author_bio = ?, updated_at = ?
		 WHERE blog_id = ? AND lang = ? AND is_auto = 1`,
		t.Title, t.Slug, t.ShortDescription, t.Paragraph1, t.Paragraph2, t.AuthorBio, now(), t.BlogID, t.Lang)
	if err != nil {
		return false, classify(err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// SetBlogTranslation stores a hand-written shadow and clears is_auto, so
// later automatic passes leave it alone. Passing isAuto=true hands the
// shadow back to automatic translation.
func (q *Queries) SetBlogTranslation(ctx context.Context, t BlogTranslation) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO blog_translations (blog_id, lang, title, slug, short_description, paragraph_1,
		                                paragraph_2, author_bio, is_auto, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(blog_id, lang) DO UPDATE SET
		     title = excluded.title, slug = excluded.slug, short_description = excluded.short_description,
		     paragraph_1 = excluded.paragraph_1, paragraph_2 = excluded.paragraph_2,
		     author_bio = excluded.author_bio, is_auto = excluded.is_auto, updated_at = excluded.updated_at`,
		t.BlogID, t.Lang, t.Title, t.Slug, t.ShortDescription, t.Paragraph1,
		t.Paragraph2, t.AuthorBio, t.IsAuto, now())
	return classify(err)
}
