package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/sistahology/backend/internal/common"
	"github.com/sistahology/backend/internal/server/authz"
	"github.com/sistahology/backend/internal/server/config"
	"github.com/sistahology/backend/internal/server/models"
	"github.com/sistahology/backend/internal/server/repositories/repomanager"
)

// ContentService manages the public site content: pages, site sections and
// blog posts. Reads are public for active/published rows and admin-wide
// otherwise; writes are admin-only.
type ContentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewContentService(db *sql.DB, m repomanager.RepositoryManager, _ *config.Config) *ContentService {
	return &ContentService{db: db, repomanager: m}
}

// publicOnly translates the principal into the read predicate: non-admin
// readers only see active/published rows.
func publicOnly(p authz.Principal) bool {
	return !p.IsAdmin()
}

func (s *ContentService) GetPage(ctx context.Context, p authz.Principal, slug string) (*models.Page, error) {
	return s.repomanager.Content(s.db).GetPage(ctx, slug, publicOnly(p))
}

func (s *ContentService) ListPages(ctx context.Context, p authz.Principal) ([]*models.Page, error) {
	return s.repomanager.Content(s.db).ListPages(ctx, publicOnly(p))
}

func (s *ContentService) SavePage(ctx context.Context, p authz.Principal, page *models.Page) error {
	if !authz.CanManageContent(p) {
		return common.ErrorForbidden
	}
	if strings.TrimSpace(page.Slug) == "" {
		return fmt.Errorf("%w: page slug must not be empty", common.ErrorValidation)
	}
	return s.repomanager.Content(s.db).UpsertPage(ctx, page)
}

func (s *ContentService) DeletePage(ctx context.Context, p authz.Principal, slug string) error {
	if !authz.CanManageContent(p) {
		return common.ErrorForbidden
	}
	return s.repomanager.Content(s.db).DeletePage(ctx, slug)
}

func (s *ContentService) GetSection(ctx context.Context, p authz.Principal, pageSlug, sectionKey string) (*models.SiteSection, error) {
	return s.repomanager.Content(s.db).GetSection(ctx, pageSlug, sectionKey, publicOnly(p))
}

func (s *ContentService) ListSections(ctx context.Context, p authz.Principal, pageSlug string) ([]*models.SiteSection, error) {
	return s.repomanager.Content(s.db).ListSections(ctx, pageSlug, publicOnly(p))
}

func (s *ContentService) SaveSection(ctx context.Context, p authz.Principal, section *models.SiteSection) error {
	if !authz.CanManageContent(p) {
		return common.ErrorForbidden
	}
	if strings.TrimSpace(section.PageSlug) == "" || strings.TrimSpace(section.SectionKey) == "" {
		return fmt.Errorf("%w: section requires page slug and section key", common.ErrorValidation)
	}
	if len(section.Content) == 0 {
		section.Content = []byte("{}")
	}
	return s.repomanager.Content(s.db).UpsertSection(ctx, section)
}

func (s *ContentService) DeleteSection(ctx context.Context, p authz.Principal, pageSlug, sectionKey string) error {
	if !authz.CanManageContent(p) {
		return common.ErrorForbidden
	}
	return s.repomanager.Content(s.db).DeleteSection(ctx, pageSlug, sectionKey)
}

func (s *ContentService) GetBlogPost(ctx context.Context, p authz.Principal, slug string) (*models.BlogPost, error) {
	return s.repomanager.Content(s.db).GetBlogPost(ctx, slug, publicOnly(p))
}

func (s *ContentService) ListBlogPosts(ctx context.Context, p authz.Principal) ([]*models.BlogPost, error) {
	return s.repomanager.Content(s.db).ListBlogPosts(ctx, publicOnly(p))
}

func (s *ContentService) SaveBlogPost(ctx context.Context, p authz.Principal, post *models.BlogPost) error {
	if !authz.CanManageContent(p) {
		return common.ErrorForbidden
	}
	if strings.TrimSpace(post.Slug) == "" {
		return fmt.Errorf("%w: post slug must not be empty", common.ErrorValidation)
	}
	if post.Status == "" {
		post.Status = models.BlogPostDraft
	}
	if post.Status != models.BlogPostDraft && post.Status != models.BlogPostPublished {
		return fmt.Errorf("%w: unknown status %q", common.ErrorValidation, post.Status)
	}
	// A published post with no timestamp would never satisfy the public
	// read predicate (published_at <= now()), and the upsert would null out
	// a timestamp set earlier. Stamp it on publish when the caller left it
	// unset.
	if post.Status == models.BlogPostPublished && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}
	if post.AuthorID == "" && p.Authenticated() {
		post.AuthorID = p.UserID
	}
	return s.repomanager.Content(s.db).UpsertBlogPost(ctx, post)
}

func (s *ContentService) DeleteBlogPost(ctx context.Context, p authz.Principal, slug string) error {
	if !authz.CanManageContent(p) {
		return common.ErrorForbidden
	}
	return s.repomanager.Content(s.db).DeleteBlogPost(ctx, slug)
}
