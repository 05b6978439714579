// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import "time"

// User roles.
const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// Blog statuses.
const (
	BlogStatusPublished = "published"
	BlogStatusDraft     = "draft"
	BlogStatusArchived  = "archived"
)

// Recipe statuses.
const (
	RecipeStatusDraft     = "draft"
	RecipeStatusPublished = "published"
)

// User is an account allowed to sign in.
type User struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         string     `json:"role"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsAdmin reports whether the user may use the admin console.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Event is an audit log entry.
type Event struct {
	ID        int64     `json:"id"`
	Level     string    `json:"level"`
	Category  string    `json:"category"`
	Message   string    `json:"message"`
	UserID    *int64    `json:"user_id,omitempty"`
	Metadata  string    `json:"metadata"`
	CreatedAt time.Time `json:"created_at"`
}

// Product is a catalogue item.
type Product struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	ImagePath      string    `json:"image_path"`
	Image2         string    `json:"image_2"`
	Image3         string    `json:"image_3"`
	Image4         string    `json:"image_4"`
	AdditionalInfo string    `json:"additional_info"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ProductCategory is one of the fixed choices for Product.Category.
type ProductCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Blog is an article written in the source language.
type Blog struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	ShortDescription string    `json:"short_description"`
	FullContent      string    `json:"full_content"`
	Paragraph1       string    `json:"paragraph_1"`
	Paragraph2       string    `json:"paragraph_2"`
	AuthorBio        string    `json:"author_bio"`
	ImageURL         string    `json:"image_url"`
	SingleImageXL    string    `json:"single_image_xl"`
	Status           string    `json:"status"`
	Featured         bool      `json:"featured"`
	CategoryID       *int64    `json:"category_id"`
	TagIDs           []int64   `json:"tag_ids"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BlogListRow is a blog as shown in the admin list, with joined display fields.
type BlogListRow struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Status       string    `json:"status"`
	Featured     bool      `json:"featured"`
	CategoryName *string   `json:"category_name"`
	TagNames     string    `json:"tag_names"`
	CreatedAt    time.Time `json:"created_at"`
}

// BlogTranslation is the target-language shadow of a blog.
type BlogTranslation struct {
	ID               int64     `json:"id"`
	BlogID           int64     `json:"blog_id"`
	Lang             string    `json:"lang"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	ShortDescription string    `json:"short_description"`
	Paragraph1       string    `json:"paragraph_1"`
	Paragraph2       string    `json:"paragraph_2"`
	AuthorBio        string    `json:"author_bio"`
	IsAuto           bool      `json:"is_auto"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Recipe is a cooking recipe.
type Recipe struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	ShortDescription string    `json:"short_description"`
	Image            string    `json:"image"`
	ImageURL         string    `json:"image_url"`
	Status           string    `json:"status"`
	IsActive         bool      `json:"is_active"`
	CategoryID       *int64    `json:"category_id"`
	Paragraph1       string    `json:"paragraph_1"`
	Paragraph2       string    `json:"paragraph_2"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// RecipeListRow is a recipe as shown in the admin list.
type RecipeListRow struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	Status       string    `json:"status"`
	IsActive     bool      `json:"is_active"`
	CategoryName *string   `json:"category_name"`
	CreatedAt    time.Time `json:"created_at"`
}

// RecipeTranslation is the target-language shadow of a recipe.
type RecipeTranslation struct {
	ID               int64     `json:"id"`
	RecipeID         int64     `json:"recipe_id"`
	Lang             string    `json:"lang"`
	Title            string    `json:"title"`
	Slug             string    `json:"slug"`
	ShortDescription string    `json:"short_description"`
	Paragraph1       string    `json:"paragraph_1"`
	Paragraph2       string    `json:"paragraph_2"`
	IsAuto           bool      `json:"is_auto"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Term is a category or a tag.
type Term struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	UsageCount int64     `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TermTranslation is the target-language shadow of a term.
type TermTranslation struct {
	ID        int64     `json:"id"`
	TermID    int64     `json:"term_id"`
	Lang      string    `json:"lang"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	IsAuto    bool      `json:"is_auto"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Banner is a home page carousel slide.
type Banner struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	Description string    `json:"description"`
	ImagePath   string    `json:"image_path"`
	Position    int64     `json:"position"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BannerTranslation is the target-language shadow of a banner.
type BannerTranslation struct {
	ID          int64     `json:"id"`
	BannerID    int64     `json:"banner_id"`
	Lang        string    `json:"lang"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle"`
	Description string    `json:"description"`
	IsAuto      bool      `json:"is_auto"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ContactMessage is a message sent through the public contact form.
type ContactMessage struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// NewsletterEmail is a newsletter subscription.
type NewsletterEmail struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// SiteSettings is the global site configuration row.
type SiteSettings struct {
	SiteName           string     `json:"site_name"`
	SiteDescription    string     `json:"site_description"`
	LogoPath           string     `json:"logo_path"`
	FaviconPath        string     `json:"favicon_path"`
	Slogan             string     `json:"slogan"`
	URL                string     `json:"url"`
	MaintenanceMode    bool       `json:"maintenance_mode"`
	MaintenanceMessage string     `json:"maintenance_message"`
	NewsletterVideo    string     `json:"newsletter_video"`
	UpdatedAt          *time.Time `json:"updated_at,omitempty"`
}

// AboutSection is the content of the "about us" page.
type AboutSection struct {
	SmallTitle       string     `json:"small_title"`
	MainTitle        string     `json:"main_title"`
	Description      string     `json:"description"`
	LeftImage        string     `json:"left_image"`
	RightImage       string     `json:"right_image"`
	ExperienceYears  int64      `json:"experience_years"`
	ExperienceText   string     `json:"experience_text"`
	SatisfactionRate int64      `json:"satisfaction_rate"`
	SatisfactionText string     `json:"satisfaction_text"`
	VideoURL         string     `json:"video_url"`
	UpdatedAt        *time.Time `json:"updated_at,omitempty"`
}

// ServicesSection is the heading of the services page.
type ServicesSection struct {
	Subtitle    string     `json:"subtitle"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Image       string     `json:"image"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// ServiceBenefit is one entry of the services page.
type ServiceBenefit struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Position    int64     `json:"position"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ContactInfo holds the coordinates shown on the contact page.
type ContactInfo struct {
	AddressText  string     `json:"address_text"`
	AddressURL   string     `json:"address_url"`
	PhoneNumbers []string   `json:"phone_numbers"`
	Emails       []string   `json:"emails"`
	MapURL       string     `json:"map_url"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}
