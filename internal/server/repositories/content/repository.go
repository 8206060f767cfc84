package content

import (
	"context"

	"github.com/sistahology/backend/internal/server/models"
)

// Repository covers the three admin-managed content tables. The publicOnly
// flag on list/get operations applies the active/published predicate for
// non-admin readers; admin readers pass false and see everything.
type Repository interface {
	GetPage(ctx context.Context, slug string, publicOnly bool) (*models.Page, error)
	ListPages(ctx context.Context, publicOnly bool) ([]*models.Page, error)
	UpsertPage(ctx context.Context, page *models.Page) error
	DeletePage(ctx context.Context, slug string) error

	GetSection(ctx context.Context, pageSlug, sectionKey string, publicOnly bool) (*models.SiteSection, error)
	ListSections(ctx context.Context, pageSlug string, publicOnly bool) ([]*models.SiteSection, error)
	UpsertSection(ctx context.Context, section *models.SiteSection) error
	DeleteSection(ctx context.Context, pageSlug, sectionKey string) error

	GetBlogPost(ctx context.Context, slug string, publicOnly bool) (*models.BlogPost, error)
	ListBlogPosts(ctx context.Context, publicOnly bool) ([]*models.BlogPost, error)
	UpsertBlogPost(ctx context.Context, post *models.BlogPost) error
	DeleteBlogPost(ctx context.Context, slug string) error
}
