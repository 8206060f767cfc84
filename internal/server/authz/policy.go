package authz

import (
	"time"

	"github.com/sistahology/backend/internal/server/models"
)

// OwnsJournal reports whether p owns the journal. Anonymous principals own
// nothing; service actors do not get blanket ownership (tenant isolation
// holds even for operators).
func OwnsJournal(p Principal, j *models.Journal) bool {
	return p.Authenticated() && j != nil && j.UserID == p.UserID
}

// OwnsEntry checks both ownership paths: the entry's own user reference and,
// when the parent journal is known, the journal owner. The entry's user_id is
// set server-side from the journal at create time, so the paths agree; both
// are still checked.
func OwnsEntry(p Principal, e *models.Entry, parent *models.Journal) bool {
	if !p.Authenticated() || e == nil {
		return false
	}
	if e.UserID == p.UserID {
		return true
	}
	return parent != nil && parent.UserID == p.UserID
}

// CanAccessProfile reports whether p may read or write the profile row with
// the given id. Profiles are strictly self-only for users; service actors
// may act on any profile.
func CanAccessProfile(p Principal, profileID string) bool {
	if p.IsService() {
		return true
	}
	return p.Authenticated() && p.UserID == profileID
}

// CanManageContent reports whether p may create, update or delete pages,
// site sections and blog posts.
func CanManageContent(p Principal) bool {
	return p.IsAdmin()
}

// CanReadPage reports whether p may see the page row.
func CanReadPage(p Principal, page *models.Page) bool {
	if page == nil {
		return false
	}
	if page.IsActive {
		return true
	}
	return p.IsAdmin()
}

// CanReadSection reports whether p may see the site section row.
func CanReadSection(p Principal, s *models.SiteSection) bool {
	if s == nil {
		return false
	}
	if s.IsActive {
		return true
	}
	return p.IsAdmin()
}

// CanReadBlogPost reports whether p may see the blog post row.
func CanReadBlogPost(p Principal, post *models.BlogPost, now time.Time) bool {
	if post == nil {
		return false
	}
	if post.PubliclyVisible(now) {
		return true
	}
	return p.IsAdmin()
}

// CanManageTokens reports whether p may issue, list or delete registration
// tokens. Consumption is not covered here: it goes exclusively through the
// token service's atomic consume operation.
func CanManageTokens(p Principal) bool {
	return p.IsAdmin()
}

// CanSubmitContact reports whether p may create a contact submission.
// Everyone may, including anonymous visitors.
func CanSubmitContact(Principal) bool {
	return true
}

// CanReadContact reports whether p may read or triage contact submissions.
func CanReadContact(p Principal) bool {
	return p.IsAdmin()
}
