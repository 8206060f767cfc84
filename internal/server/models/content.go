package models

import (
	"encoding/json"
	"time"
)

// Page is an admin-managed public page.
type Page struct {
	ID        string
	Slug      string
	Title     string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SiteSection is a flexible content fragment keyed by (page_slug, section_key).
// Content is a jsonb bag; its shape varies by section key, so it stays raw
// here with typed accessors for the known variants.
type SiteSection struct {
	ID         string
	PageSlug   string
	SectionKey string
	Content    json.RawMessage
	IsActive   bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HeroContent is the payload shape of "hero" sections.
type HeroContent struct {
	Heading    string `json:"heading"`
	Subheading string `json:"subheading"`
	ImageURL   string `json:"image_url"`
	CTALabel   string `json:"cta_label"`
	CTALink    string `json:"cta_link"`
}

// TextContent is the payload shape of plain rich-text sections.
type TextContent struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

func (s *SiteSection) Hero() (*HeroContent, error) {
	var h HeroContent
	if err := json.Unmarshal(s.Content, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

func (s *SiteSection) Text() (*TextContent, error) {
	var t TextContent
	if err := json.Unmarshal(s.Content, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// BlogPostStatus is the publication state of a blog post.
type BlogPostStatus string

const (
	BlogPostDraft     BlogPostStatus = "draft"
	BlogPostPublished BlogPostStatus = "published"
)

// BlogPost is an admin-authored article. It is publicly visible once its
// status is published and PublishedAt is in the past.
type BlogPost struct {
	ID          string
	Slug        string
	Title       string
	Excerpt     string
	Body        string
	Status      BlogPostStatus
	PublishedAt *time.Time
	AuthorID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// PubliclyVisible reports whether an anonymous reader may see the post.
func (p *BlogPost) PubliclyVisible(now time.Time) bool {
	return p.Status == BlogPostPublished && p.PublishedAt != nil && !p.PublishedAt.After(now)
}
