// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"html/template"
	"strings"

	"github.com/olegiv/vitrine/internal/action"
	"github.com/olegiv/vitrine/internal/cache"
	"github.com/olegiv/vitrine/internal/content"
	"github.com/olegiv/vitrine/internal/store"
	"github.com/olegiv/vitrine/internal/validation"
)

// SiteSettingsInput is the form of the global site settings.
type SiteSettingsInput struct {
	SiteName           string `form:"site_name" json:"site_name" validate:"notblank,max=100" label:"Site name"`
	SiteDescription    string `form:"site_description" json:"site_description" validate:"max=500" label:"Description"`
	LogoPath           string `form:"logo_path" json:"logo_path" validate:"max=500" label:"Logo"`
	FaviconPath        string `form:"favicon_path" json:"favicon_path" validate:"max=500" label:"Favicon"`
	Slogan             string `form:"slogan" json:"slogan" validate:"max=200" label:"Slogan"`
	URL                string `form:"url" json:"url" validate:"omitempty,url,max=500" label:"Site URL"`
	MaintenanceMode    bool   `form:"maintenance_mode" json:"maintenance_mode"`
	MaintenanceMessage string `form:"maintenance_message" json:"maintenance_message" validate:"max=1000" label:"Maintenance message"`
	NewsletterVideo    string `form:"newsletter_video" json:"newsletter_video" validate:"max=500" label:"Newsletter video"`
}

// AboutInput is the form of the about page.
type AboutInput struct {
	SmallTitle       string `form:"small_title" json:"small_title" validate:"max=200" label:"Small title"`
	MainTitle        string `form:"main_title" json:"main_title" validate:"notblank,max=200" label:"Main title"`
	Description      string `form:"description" json:"description" validate:"max=20000" label:"Description"`
	LeftImage        string `form:"left_image" json:"left_image" validate:"max=500" label:"Left image"`
	RightImage       string `form:"right_image" json:"right_image" validate:"max=500" label:"Right image"`
	ExperienceYears  int64  `form:"experience_years" json:"experience_years" validate:"gte=0,lte=1000" label:"Years of experience"`
	ExperienceText   string `form:"experience_text" json:"experience_text" validate:"max=200" label:"Experience text"`
	SatisfactionRate int64  `form:"satisfaction_rate" json:"satisfaction_rate" validate:"gte=0,lte=100" label:"Satisfaction rate"`
	SatisfactionText string `form:"satisfaction_text" json:"satisfaction_text" validate:"max=200" label:"Satisfaction text"`
	VideoURL         string `form:"video_url" json:"video_url" validate:"max=500" label:"Video"`
}

// ServicesInput is the form of the services page heading.
type ServicesInput struct {
	Subtitle    string `form:"subtitle" json:"subtitle" validate:"max=200" label:"Subtitle"`
	Title       string `form:"title" json:"title" validate:"notblank,max=200" label:"Title"`
	Description string `form:"description" json:"description" validate:"max=5000" label:"Description"`
	Image       string `form:"image" json:"image" validate:"max=500" label:"Image"`
}

// BenefitInput is the form of one services page entry.
type BenefitInput struct {
	Title       string `form:"title" json:"title" validate:"notblank,max=200" label:"Title"`
	Description string `form:"description" json:"description" validate:"max=2000" label:"Description"`
	Position    int64  `form:"position" json:"position" validate:"gte=0,lte=1000" label:"Position"`
	Active      bool   `form:"active" json:"active"`
}

// ContactInfoInput is the form of the contact page coordinates.
type ContactInfoInput struct {
	AddressText  string   `form:"address_text" json:"address_text" validate:"max=500" label:"Address"`
	AddressURL   string   `form:"address_url" json:"address_url" validate:"omitempty,url,max=500" label:"Address link"`
	PhoneNumbers []string `form:"phone_numbers" json:"phone_numbers" validate:"max=10,dive,max=50" label:"Phone numbers"`
	Emails       []string `form:"emails" json:"emails" validate:"max=10,dive,email" label:"Emails"`
	MapURL       string   `form:"map_url" json:"map_url" validate:"omitempty,url,max=1000" label:"Map URL"`
}

// SettingsService manages the singleton rows: site settings, about,
// services with its benefits, and contact info.
type SettingsService struct {
	base
}

// NewSettingsService creates a SettingsService.
func NewSettingsService(d Deps) *SettingsService {
	return &SettingsService{base: newBase(d)}
}

// Snapshot returns the cached site snapshot, or reads it directly when no
// cache is configured.
func (s *SettingsService) Snapshot(ctx context.Context) (cache.SiteSnapshot, error) {
	if s.settings != nil {
		return s.settings.Get(ctx)
	}
	site, err := s.Site(ctx)
	if err != nil {
		return cache.SiteSnapshot{}, err
	}
	banners, err := s.queries.ActiveBanners(ctx)
	if err != nil {
		return cache.SiteSnapshot{}, err
	}
	contact, err := s.Contact(ctx)
	if err != nil {
		return cache.SiteSnapshot{}, err
	}
	return cache.SiteSnapshot{Settings: site, Banners: banners, Contact: contact}, nil
}

// Site returns the settings row; a missing row yields zero values.
func (s *SettingsService) Site(ctx context.Context) (store.SiteSettings, error) {
	return orZero(s.queries.GetSiteSettings(ctx))
}

// SaveSite writes the settings row and invalidates the settings cache.
func (s *SettingsService) SaveSite(ctx context.Context, in SiteSettingsInput) action.Outcome[store.SiteSettings] {
	if err := validation.Struct(in); err != nil {
		return action.FromError[store.SiteSettings](err, "Settings")
	}
	err := s.queries.SaveSiteSettings(ctx, store.SiteSettings{
		SiteName:           strings.TrimSpace(in.SiteName),
		SiteDescription:    in.SiteDescription,
		LogoPath:           in.LogoPath,
		FaviconPath:        in.FaviconPath,
		Slogan:             in.Slogan,
		URL:                strings.TrimSpace(in.URL),
		MaintenanceMode:    in.MaintenanceMode,
		MaintenanceMessage: in.MaintenanceMessage,
		NewsletterVideo:    in.NewsletterVideo,
	})
	if err != nil {
		return action.FromError[store.SiteSettings](err, "Settings")
	}
	s.invalidateSettings(ctx)
	s.logger.Info("site settings saved", "maintenance_mode", in.MaintenanceMode)

	site, err := s.Site(ctx)
	return outcome("Settings", "saved", site, err)
}

// About returns the about page content.
func (s *SettingsService) About(ctx context.Context) (store.AboutSection, error) {
	return orZero(s.queries.GetAboutSection(ctx))
}

// AboutPreview renders the Markdown description of the about page.
func (s *SettingsService) AboutPreview(ctx context.Context) (template.HTML, error) {
	a, err := s.About(ctx)
	if err != nil {
		return "", err
	}
	return content.Markdown(a.Description)
}

// SaveAbout writes the about page content.
func (s *SettingsService) SaveAbout(ctx context.Context, in AboutInput) action.Outcome[store.AboutSection] {
	if err := validation.Struct(in); err != nil {
		return action.FromError[store.AboutSection](err, "About page")
	}
	err := s.queries.SaveAboutSection(ctx, store.AboutSection{
		SmallTitle:       in.SmallTitle,
		MainTitle:        strings.TrimSpace(in.MainTitle),
		Description:      in.Description,
		LeftImage:        in.LeftImage,
		RightImage:       in.RightImage,
		ExperienceYears:  in.ExperienceYears,
		ExperienceText:   in.ExperienceText,
		SatisfactionRate: in.SatisfactionRate,
		SatisfactionText: in.SatisfactionText,
		VideoURL:         in.VideoURL,
	})
	if err != nil {
		return action.FromError[store.AboutSection](err, "About page")
	}
	a, err := s.About(ctx)
	return outcome("About page", "saved", a, err)
}

// Services returns the services page heading.
func (s *SettingsService) Services(ctx context.Context) (store.ServicesSection, error) {
	return orZero(s.queries.GetServicesSection(ctx))
}

// SaveServices writes the services page heading.
func (s *SettingsService) SaveServices(ctx context.Context, in ServicesInput) action.Outcome[store.ServicesSection] {
	if err := validation.Struct(in); err != nil {
		return action.FromError[store.ServicesSection](err, "Services page")
	}
	err := s.queries.SaveServicesSection(ctx, store.ServicesSection{
		Subtitle:    in.Subtitle,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Image:       in.Image,
	})
	if err != nil {
		return action.FromError[store.ServicesSection](err, "Services page")
	}
	sec, err := s.Services(ctx)
	return outcome("Services page", "saved", sec, err)
}

// Benefits returns the services page entries in display order.
func (s *SettingsService) Benefits(ctx context.Context) ([]store.ServiceBenefit, error) {
	return s.queries.ListBenefits(ctx)
}

// Benefit returns one entry.
func (s *SettingsService) Benefit(ctx context.Context, id int64) (store.ServiceBenefit, error) {
	return s.queries.GetBenefitByID(ctx, id)
}

// CreateBenefit validates in and adds an entry.
func (s *SettingsService) CreateBenefit(ctx context.Context, in BenefitInput) action.Outcome[store.ServiceBenefit] {
	if err := validation.Struct(in); err != nil {
		return action.FromError[store.ServiceBenefit](err, "Benefit")
	}
	b, err := s.queries.CreateBenefit(ctx, in.params())
	if err == nil {
		s.touched(ctx, PathBenefits)
	}
	return outcome("Benefit", "created", b, err)
}

// UpdateBenefit validates in and rewrites entry id.
func (s *SettingsService) UpdateBenefit(ctx context.Context, id int64, in BenefitInput) action.Outcome[store.ServiceBenefit] {
	if err := validation.Struct(in); err != nil {
		return action.FromError[store.ServiceBenefit](err, "Benefit")
	}
	b, err := s.queries.UpdateBenefit(ctx, id, in.params())
	if err == nil {
		s.touched(ctx, PathBenefits)
	}
	return outcome("Benefit", "updated", b, err)
}

// DeleteBenefit removes entry id.
func (s *SettingsService) DeleteBenefit(ctx context.Context, id int64) action.Outcome[action.None] {
	err := s.queries.DeleteBenefit(ctx, id)
	if err == nil {
		s.touched(ctx, PathBenefits)
	}
	return deleted("Benefit", err)
}

func (in BenefitInput) params() store.BenefitParams {
	return store.BenefitParams{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Position:    in.Position,
		Active:      in.Active,
	}
}

// Contact returns the contact page coordinates.
func (s *SettingsService) Contact(ctx context.Context) (store.ContactInfo, error) {
	c, err := orZero(s.queries.GetContactInfo(ctx))
	if c.PhoneNumbers == nil {
		c.PhoneNumbers = []string{}
	}
	if c.Emails == nil {
		c.Emails = []string{}
	}
	return c, err
}

// SaveContact writes the contact coordinates and invalidates the settings cache.
func (s *SettingsService) SaveContact(ctx context.Context, in ContactInfoInput) action.Outcome[store.ContactInfo] {
	in.PhoneNumbers = compact(in.PhoneNumbers)
	in.Emails = compact(in.Emails)
	if err := validation.Struct(in); err != nil {
		return action.FromError[store.ContactInfo](err, "Contact information")
	}
	err := s.queries.SaveContactInfo(ctx, store.ContactInfo{
		AddressText:  in.AddressText,
		AddressURL:   strings.TrimSpace(in.AddressURL),
		PhoneNumbers: in.PhoneNumbers,
		Emails:       in.Emails,
		MapURL:       strings.TrimSpace(in.MapURL),
	})
	if err != nil {
		return action.FromError[store.ContactInfo](err, "Contact information")
	}
	s.invalidateSettings(ctx)
	c, err := s.Contact(ctx)
	return outcome("Contact information", "saved", c, err)
}

// orZero turns a missing singleton row into its zero value.
func orZero[T any](v T, err error) (T, error) {
	if errors.Is(err, store.ErrNotFound) {
		var zero T
		return zero, nil
	}
	return v, err
}

// compact trims entries and drops blank ones.
func compact(items []string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out
}
