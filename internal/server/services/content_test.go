package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sistahology/backend/internal/common"
	"github.com/sistahology/backend/internal/server/authz"
	"github.com/sistahology/backend/internal/server/models"
)

func TestContentReads_PublicOnlyPredicate(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewContentService(db, rm, testConfig())

	// anonymous and ordinary readers see only active/published rows
	if _, err := s.GetPage(context.Background(), authz.Anonymous(), "home"); err != nil {
		t.Fatalf("GetPage: %v", err)
	}
	if !rm.content.lastPublicOnly {
		t.Fatal("anonymous read did not restrict to public rows")
	}

	if _, err := s.ListSections(context.Background(), authz.UserActor("u1", "", false), "home"); err != nil {
		t.Fatalf("ListSections: %v", err)
	}
	if !rm.content.lastPublicOnly {
		t.Fatal("ordinary-user read did not restrict to public rows")
	}

	// admins see everything
	if _, err := s.ListBlogPosts(context.Background(), authz.UserActor("a1", "", true)); err != nil {
		t.Fatalf("ListBlogPosts: %v", err)
	}
	if rm.content.lastPublicOnly {
		t.Fatal("admin read restricted to public rows")
	}
}

func TestContentWrites_AdminOnly(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewContentService(db, rm, testConfig())

	user := authz.UserActor("u1", "", false)
	if err := s.SavePage(context.Background(), user, &models.Page{Slug: "home"}); !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("SavePage by user: want ErrorForbidden, got %v", err)
	}
	if err := s.DeleteBlogPost(context.Background(), authz.Anonymous(), "post"); !errors.Is(err, common.ErrorForbidden) {
		t.Fatalf("DeleteBlogPost anonymous: want ErrorForbidden, got %v", err)
	}
	if len(rm.calls) != 0 {
		t.Fatalf("repositories reached: %v", rm.calls)
	}

	admin := authz.UserActor("a1", "", true)
	if err := s.SavePage(context.Background(), admin, &models.Page{Slug: "home"}); err != nil {
		t.Fatalf("SavePage by admin: %v", err)
	}
	if err := s.SavePage(context.Background(), admin, &models.Page{Slug: "  "}); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("blank slug: want ErrorValidation, got %v", err)
	}
}

func TestSaveSection_DefaultsEmptyContent(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewContentService(db, rm, testConfig())
	admin := authz.UserActor("a1", "", true)

	section := &models.SiteSection{PageSlug: "home", SectionKey: "hero"}
	if err := s.SaveSection(context.Background(), admin, section); err != nil {
		t.Fatalf("SaveSection: %v", err)
	}
	if string(section.Content) != "{}" {
		t.Fatalf("content default: %q", section.Content)
	}
}

func TestSaveBlogPost_StatusAndAuthor(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewContentService(db, rm, testConfig())
	admin := authz.UserActor("a1", "", true)

	post := &models.BlogPost{Slug: "first"}
	if err := s.SaveBlogPost(context.Background(), admin, post); err != nil {
		t.Fatalf("SaveBlogPost: %v", err)
	}
	if rm.content.savedPost.Status != models.BlogPostDraft {
		t.Fatalf("status default: %q", rm.content.savedPost.Status)
	}
	if rm.content.savedPost.AuthorID != "a1" {
		t.Fatalf("author default: %q", rm.content.savedPost.AuthorID)
	}

	bad := &models.BlogPost{Slug: "x", Status: "scheduled"}
	if err := s.SaveBlogPost(context.Background(), admin, bad); !errors.Is(err, common.ErrorValidation) {
		t.Fatalf("unknown status: want ErrorValidation, got %v", err)
	}
}

func TestSaveBlogPost_PublishStampsTimestamp(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := newFakeRepoManager()
	s := NewContentService(db, rm, testConfig())
	admin := authz.UserActor("a1", "", true)

	// publishing without a timestamp stamps one, so the post actually
	// becomes publicly visible
	before := time.Now()
	post := &models.BlogPost{Slug: "launch", Status: models.BlogPostPublished}
	if err := s.SaveBlogPost(context.Background(), admin, post); err != nil {
		t.Fatalf("SaveBlogPost: %v", err)
	}
	saved := rm.content.savedPost
	if saved.PublishedAt == nil || saved.PublishedAt.Before(before) {
		t.Fatalf("published_at not stamped: %v", saved.PublishedAt)
	}
	if !saved.PubliclyVisible(time.Now()) {
		t.Fatal("published post not publicly visible")
	}

	// a caller-supplied timestamp survives the re-save untouched
	backdated := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	post = &models.BlogPost{Slug: "launch", Status: models.BlogPostPublished, PublishedAt: &backdated}
	if err := s.SaveBlogPost(context.Background(), admin, post); err != nil {
		t.Fatalf("SaveBlogPost: %v", err)
	}
	if got := rm.content.savedPost.PublishedAt; got == nil || !got.Equal(backdated) {
		t.Fatalf("published_at overwritten: %v", got)
	}

	// drafts stay unstamped
	post = &models.BlogPost{Slug: "wip"}
	if err := s.SaveBlogPost(context.Background(), admin, post); err != nil {
		t.Fatalf("SaveBlogPost: %v", err)
	}
	if rm.content.savedPost.PublishedAt != nil {
		t.Fatalf("draft got a publish timestamp: %v", rm.content.savedPost.PublishedAt)
	}
}
