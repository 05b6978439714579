// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"encoding/json"
	"fmt"
)

// Singleton rows always carry id 1. Writes are upserts so a missing seed
// row does not break the form.
const singletonID = 1

// GetSiteSettings returns the site configuration row.
func (q *Queries) GetSiteSettings(ctx context.Context) (SiteSettings, error) {
	var s SiteSettings
	err := q.db.QueryRowContext(ctx,
		`SELECT site_name, site_description, logo_path, favicon_path, slogan, url,
		        maintenance_mode, maintenance_message, newsletter_video, updated_at
		 FROM site_settings WHERE id = ?`, singletonID).
		Scan(&s.SiteName, &s.SiteDescription, &s.LogoPath, &s.FaviconPath, &s.Slogan, &s.URL,
			&s.MaintenanceMode, &s.MaintenanceMessage, &s.NewsletterVideo, &s.UpdatedAt)
	return s, classify(err)
}

// SaveSiteSettings upserts the site configuration row.
func (q *Queries) SaveSiteSettings(ctx context.Context, s SiteSettings) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO site_settings (id, site_name, site_description, logo_path, favicon_path, slogan, url,
		                            maintenance_mode, maintenance_message, newsletter_video, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     site_name = excluded.site_name, site_description = excluded.site_description,
		     logo_path = excluded.logo_path, favicon_path = excluded.favicon_path,
		     slogan = excluded.slogan, url = excluded.url,
		     maintenance_mode = excluded.maintenance_mode, maintenance_message = excluded.maintenance_message,
		     newsletter_video = excluded.newsletter_video, updated_at = excluded.updated_at`,
		singletonID, s.SiteName, s.SiteDescription, s.LogoPath, s.FaviconPath, s.Slogan, s.URL,
		s.MaintenanceMode, s.MaintenanceMessage, s.NewsletterVideo, now())
	return classify(err)
}

// GetAboutSection returns the about page content.
func (q *Queries) GetAboutSection(ctx context.Context) (AboutSection, error) {
	var a AboutSection
	err := q.db.QueryRowContext(ctx,
		`SELECT small_title, main_title, description, left_image, right_image, experience_years,
		        experience_text, satisfaction_rate, satisfaction_text, video_url, updated_at
		 FROM about_section WHERE id = ?`, singletonID).
		Scan(&a.SmallTitle, &a.MainTitle, &a.Description, &a.LeftImage, &a.RightImage, &a.ExperienceYears,
			&a.ExperienceText, &a.SatisfactionRate, &a.SatisfactionText, &a.VideoURL, &a.UpdatedAt)
	return a, classify(err)
}

// SaveAboutSection upserts the about page content.
func (q *Queries) SaveAboutSection(ctx context.Context, a AboutSection) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO about_section (id, small_title, main_title, description, left_image, right_image,
		                            experience_years, experience_text, satisfaction_rate, satisfaction_text,
		                            video_url, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     small_title = excluded.small_title, main_title = excluded.main_title,
		     description = excluded.description, left_image = excluded.left_image,
		     right_image = excluded.right_image, experience_years = excluded.experience_years,
		     experience_text = excluded.experience_text, satisfaction_rate = excluded.satisfaction_rate,
		     satisfaction_text = excluded.satisfaction_text, video_url = excluded.video_url,
		     updated_at = excluded.updated_at`,
		singletonID, a.SmallTitle, a.MainTitle, a.Description, a.LeftImage, a.RightImage,
		a.ExperienceYears, a.ExperienceText, a.SatisfactionRate, a.SatisfactionText, a.VideoURL, now())
	return classify(err)
}

// GetServicesSection returns the services page heading.
func (q *Queries) GetServicesSection(ctx context.Context) (ServicesSection, error) {
	var s ServicesSection
	err := q.db.QueryRowContext(ctx,
		"SELECT subtitle, title, description, image, updated_at FROM services_section WHERE id = ?", singletonID).
		Scan(&s.Subtitle, &s.Title, &s.Description, &s.Image, &s.UpdatedAt)
	return s, classify(err)
}

// SaveServicesSection upserts the services page heading.
func (q *Queries) SaveServicesSection(ctx context.Context, s ServicesSection) error {
	_, err := q.db.ExecContext(ctx,
		`INSERT INTO services_section (id, subtitle, title, description, image, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     subtitle = excluded.subtitle, title = excluded.title, description = excluded.description,
		     image = excluded.image, updated_at = excluded.updated_at`,
		singletonID, s.Subtitle, s.Title, s.Description, s.Image, now())
	return classify(err)
}

const benefitColumns = "id, title, description, position, active, created_at, updated_at"

func scanBenefit(row rowScanner) (ServiceBenefit, error) {
	var b ServiceBenefit
	err := row.Scan(&b.ID, &b.Title, &b.Description, &b.Position, &b.Active, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// ListBenefits returns every benefit in display order.
func (q *Queries) ListBenefits(ctx context.Context) ([]ServiceBenefit, error) {
	rows, err := q.db.QueryContext(ctx, "SELECT "+benefitColumns+" FROM services_benefits ORDER BY position, id")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := []ServiceBenefit{}
	for rows.Next() {
		b, err := scanBenefit(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, rows.Err()
}

// GetBenefitByID returns one benefit.
func (q *Queries) GetBenefitByID(ctx context.Context, id int64) (ServiceBenefit, error) {
	b, err := scanBenefit(q.db.QueryRowContext(ctx, "SELECT "+benefitColumns+" FROM services_benefits WHERE id = ?", id))
	return b, classify(err)
}

// BenefitParams holds the writable columns of a benefit.
type BenefitParams struct {
	Title       string
	Description string
	Position    int64
	Active      bool
}

// CreateBenefit inserts a benefit.
func (q *Queries) CreateBenefit(ctx context.Context, arg BenefitParams) (ServiceBenefit, error) {
	ts := now()
	res, err := q.db.ExecContext(ctx,
		`INSERT INTO services_benefits (title, description, position, active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		arg.Title, arg.Description, arg.Position, arg.Active, ts, ts)
	if err != nil {
		return ServiceBenefit{}, classify(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return ServiceBenefit{}, err
	}
	return q.GetBenefitByID(ctx, id)
}

// UpdateBenefit rewrites a benefit.
func (q *Queries) UpdateBenefit(ctx context.Context, id int64, arg BenefitParams) (ServiceBenefit, error) {
	res, err := q.db.ExecContext(ctx,
		"UPDATE services_benefits SET title = ?, description = ?, position = ?, active = ?, updated_at = ? WHERE id = ?",
		arg.Title, arg.Description, arg.Position, arg.Active, now(), id)
	if err != nil {
		return ServiceBenefit{}, classify(err)
	}
	if err := affected(res); err != nil {
		return ServiceBenefit{}, err
	}
	return q.GetBenefitByID(ctx, id)
}

// DeleteBenefit removes a benefit.
func (q *Queries) DeleteBenefit(ctx context.Context, id int64) error {
	res, err := q.db.ExecContext(ctx, "DELETE FROM services_benefits WHERE id = ?", id)
	if err != nil {
		return classify(err)
	}
	return affected(res)
}

// GetContactInfo returns the contact page coordinates.
func (q *Queries) GetContactInfo(ctx context.Context) (ContactInfo, error) {
	var (
		c              ContactInfo
		phones, emails string
	)
	err := q.db.QueryRowContext(ctx,
		"SELECT address_text, address_url, phone_numbers, emails, map_url, updated_at FROM contact_info WHERE id = ?",
		singletonID).Scan(&c.AddressText, &c.AddressURL, &phones, &emails, &c.MapURL, &c.UpdatedAt)
	if err != nil {
		return ContactInfo{}, classify(err)
	}
	if c.PhoneNumbers, err = decodeList(phones); err != nil {
		return ContactInfo{}, fmt.Errorf("decoding phone_numbers: %w", err)
	}
	if c.Emails, err = decodeList(emails); err != nil {
		return ContactInfo{}, fmt.Errorf("decoding emails: %w", err)
	}
	return c, nil
}

// SaveContactInfo upserts the contact page coordinates.
func (q *Queries) SaveContactInfo(ctx context.Context, c ContactInfo) error {
	phones, err := encodeList(c.PhoneNumbers)
	if err != nil {
		return err
	}
	emails, err := encodeList(c.Emails)
	if err != nil {
		return err
	}
	_, err = q.db.ExecContext(ctx,
		`INSERT INTO contact_info (id, address_text, address_url, phone_numbers, emails, map_url, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     address_text = excluded.address_text, address_url = excluded.address_url,
		     phone_numbers = excluded.phone_numbers, emails = excluded.emails,
		     map_url = excluded.map_url, updated_at = excluded.updated_at`,
		singletonID, c.AddressText, c.AddressURL, phones, emails, c.MapURL, now())
	return classify(err)
}

func decodeList(raw string) ([]string, error) {
	items := []string{}
	if raw == "" {
		return items, nil
	}
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func encodeList(items []string) (string, error) {
	if items == nil {
		items = []string{}
	}
	b, err := json.Marshal(items)
	return string(b), err
}
