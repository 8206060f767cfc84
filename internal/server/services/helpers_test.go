package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/sistahology/backend/internal/dbx"
	"github.com/sistahology/backend/internal/server/config"
	"github.com/sistahology/backend/internal/server/models"
	admintokensrepo "github.com/sistahology/backend/internal/server/repositories/admintokens"
	attachmentsrepo "github.com/sistahology/backend/internal/server/repositories/attachments"
	contactrepo "github.com/sistahology/backend/internal/server/repositories/contact"
	contentrepo "github.com/sistahology/backend/internal/server/repositories/content"
	entriesrepo "github.com/sistahology/backend/internal/server/repositories/entries"
	journalsrepo "github.com/sistahology/backend/internal/server/repositories/journals"
	profilesrepo "github.com/sistahology/backend/internal/server/repositories/profiles"
	refreshtokensrepo "github.com/sistahology/backend/internal/server/repositories/refreshtokens"
	"github.com/sistahology/backend/internal/server/repositories/repomanager"
	usersrepo "github.com/sistahology/backend/internal/server/repositories/users"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		RegistrationTokenTTL:         7 * 24 * time.Hour,
		TrashRetention:               30 * 24 * time.Hour,
	}
}

// --- fake repositories ---
//
// Each fake records the calls it receives in the shared calls slice of the
// fake manager, so tests can assert ordering across repositories (the
// consume-then-grant transaction in particular).

type fakeUsersRepo struct {
	m         *fakeRepoManager
	createOut *models.User
	createErr error
	getOut    *models.User
	getErr    error
	deleteErr error
	deletedID string
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	f.m.record("users.Create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	out := *u
	out.ID = "u-new"
	return &out, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.m.record("users.GetByEmail")
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) Delete(ctx context.Context, id string) error {
	f.m.record("users.Delete")
	f.deletedID = id
	return f.deleteErr
}

type fakeProfilesRepo struct {
	m *fakeRepoManager

	createErr error

	getOut *models.Profile
	getErr error

	updateNameErr error

	setAdminErr   error
	setAdminID    string
	setAdminValue bool
}

func (f *fakeProfilesRepo) Create(ctx context.Context, p *models.Profile) error {
	f.m.record("profiles.Create")
	return f.createErr
}

func (f *fakeProfilesRepo) Get(ctx context.Context, id string) (*models.Profile, error) {
	f.m.record("profiles.Get")
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeProfilesRepo) UpdateDisplayName(ctx context.Context, id, displayName string) error {
	f.m.record("profiles.UpdateDisplayName")
	return f.updateNameErr
}

func (f *fakeProfilesRepo) SetAdmin(ctx context.Context, id string, isAdmin bool) error {
	f.m.record("profiles.SetAdmin")
	f.setAdminID = id
	f.setAdminValue = isAdmin
	return f.setAdminErr
}

type fakeRefreshRepo struct {
	m         *fakeRepoManager
	createErr error
	findOut   *models.RefreshToken
	findErr   error
	delErr    error
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID string, token string, validity time.Duration) error {
	f.m.record("refreshtokens.Create")
	return f.createErr
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	f.m.record("refreshtokens.Find")
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	f.m.record("refreshtokens.Delete")
	return f.delErr
}

type fakeJournalsRepo struct {
	m *fakeRepoManager

	createErr error
	getOut    *models.Journal
	getErr    error
	listOut   []*models.Journal
	listErr   error
	updateErr error
	deleteErr error
}

func (f *fakeJournalsRepo) Create(ctx context.Context, j *models.Journal) (*models.Journal, error) {
	f.m.record("journals.Create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	out := *j
	out.ID = "j-new"
	return &out, nil
}

func (f *fakeJournalsRepo) Get(ctx context.Context, id, userID string) (*models.Journal, error) {
	f.m.record("journals.Get")
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeJournalsRepo) ListByOwner(ctx context.Context, userID string) ([]*models.Journal, error) {
	f.m.record("journals.ListByOwner")
	return f.listOut, f.listErr
}

func (f *fakeJournalsRepo) Update(ctx context.Context, j *models.Journal) error {
	f.m.record("journals.Update")
	return f.updateErr
}

func (f *fakeJournalsRepo) Delete(ctx context.Context, id, userID string) error {
	f.m.record("journals.Delete")
	return f.deleteErr
}

type fakeEntriesRepo struct {
	m *fakeRepoManager

	createOut *models.Entry
	createErr error

	getOut *models.Entry
	getErr error

	listActiveOut  []*models.Entry
	listTrashedOut []*models.Entry
	expiredOut     []*models.Entry
	expiredErr     error

	updateErr     error
	softDeleteErr error
	restoreErr    error

	purgeErr    error
	purgeErrByID map[string]error
	purgedIDs   []string
}

func (f *fakeEntriesRepo) Create(ctx context.Context, e *models.Entry) (*models.Entry, error) {
	f.m.record("entries.Create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	out := *e
	out.ID = "e-new"
	return &out, nil
}

func (f *fakeEntriesRepo) Get(ctx context.Context, id, userID string) (*models.Entry, error) {
	f.m.record("entries.Get")
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeEntriesRepo) ListActive(ctx context.Context, journalID, userID string) ([]*models.Entry, error) {
	f.m.record("entries.ListActive")
	return f.listActiveOut, nil
}

func (f *fakeEntriesRepo) ListTrashed(ctx context.Context, userID string) ([]*models.Entry, error) {
	f.m.record("entries.ListTrashed")
	return f.listTrashedOut, nil
}

func (f *fakeEntriesRepo) ListExpiredTrash(ctx context.Context, cutoff time.Time) ([]*models.Entry, error) {
	f.m.record("entries.ListExpiredTrash")
	return f.expiredOut, f.expiredErr
}

func (f *fakeEntriesRepo) Update(ctx context.Context, e *models.Entry) error {
	f.m.record("entries.Update")
	return f.updateErr
}

func (f *fakeEntriesRepo) SoftDelete(ctx context.Context, id, userID string) error {
	f.m.record("entries.SoftDelete")
	return f.softDeleteErr
}

func (f *fakeEntriesRepo) Restore(ctx context.Context, id, userID string) error {
	f.m.record("entries.Restore")
	return f.restoreErr
}

func (f *fakeEntriesRepo) Purge(ctx context.Context, id, userID string) error {
	f.m.record("entries.Purge")
	if err, ok := f.purgeErrByID[id]; ok {
		return err
	}
	if f.purgeErr != nil {
		return f.purgeErr
	}
	f.purgedIDs = append(f.purgedIDs, id)
	return nil
}

type fakeContentRepo struct {
	m *fakeRepoManager

	pageOut  *models.Page
	pagesOut []*models.Page

	sectionOut  *models.SiteSection
	sectionsOut []*models.SiteSection

	postOut  *models.BlogPost
	postsOut []*models.BlogPost

	err error

	lastPublicOnly bool
	savedPost      *models.BlogPost
}

func (f *fakeContentRepo) GetPage(ctx context.Context, slug string, publicOnly bool) (*models.Page, error) {
	f.m.record("content.GetPage")
	f.lastPublicOnly = publicOnly
	return f.pageOut, f.err
}

func (f *fakeContentRepo) ListPages(ctx context.Context, publicOnly bool) ([]*models.Page, error) {
	f.m.record("content.ListPages")
	f.lastPublicOnly = publicOnly
	return f.pagesOut, f.err
}

func (f *fakeContentRepo) UpsertPage(ctx context.Context, page *models.Page) error {
	f.m.record("content.UpsertPage")
	return f.err
}

func (f *fakeContentRepo) DeletePage(ctx context.Context, slug string) error {
	f.m.record("content.DeletePage")
	return f.err
}

func (f *fakeContentRepo) GetSection(ctx context.Context, pageSlug, sectionKey string, publicOnly bool) (*models.SiteSection, error) {
	f.m.record("content.GetSection")
	f.lastPublicOnly = publicOnly
	return f.sectionOut, f.err
}

func (f *fakeContentRepo) ListSections(ctx context.Context, pageSlug string, publicOnly bool) ([]*models.SiteSection, error) {
	f.m.record("content.ListSections")
	f.lastPublicOnly = publicOnly
	return f.sectionsOut, f.err
}

func (f *fakeContentRepo) UpsertSection(ctx context.Context, section *models.SiteSection) error {
	f.m.record("content.UpsertSection")
	return f.err
}

func (f *fakeContentRepo) DeleteSection(ctx context.Context, pageSlug, sectionKey string) error {
	f.m.record("content.DeleteSection")
	return f.err
}

func (f *fakeContentRepo) GetBlogPost(ctx context.Context, slug string, publicOnly bool) (*models.BlogPost, error) {
	f.m.record("content.GetBlogPost")
	f.lastPublicOnly = publicOnly
	return f.postOut, f.err
}

func (f *fakeContentRepo) ListBlogPosts(ctx context.Context, publicOnly bool) ([]*models.BlogPost, error) {
	f.m.record("content.ListBlogPosts")
	f.lastPublicOnly = publicOnly
	return f.postsOut, f.err
}

func (f *fakeContentRepo) UpsertBlogPost(ctx context.Context, post *models.BlogPost) error {
	f.m.record("content.UpsertBlogPost")
	f.savedPost = post
	return f.err
}

func (f *fakeContentRepo) DeleteBlogPost(ctx context.Context, slug string) error {
	f.m.record("content.DeleteBlogPost")
	return f.err
}

type fakeAdminTokensRepo struct {
	m *fakeRepoManager

	createOut *models.RegistrationToken
	createErr error

	findOut *models.RegistrationToken
	findErr error

	listOut []*models.RegistrationToken

	consumeErr   error
	consumedWith [3]string // token, userID, presentedEmail

	deleteErr error

	deleteExpiredOut int64
	deleteExpiredErr error
}

func (f *fakeAdminTokensRepo) Create(ctx context.Context, t *models.RegistrationToken) (*models.RegistrationToken, error) {
	f.m.record("admintokens.Create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	out := *t
	out.ID = "t-new"
	return &out, nil
}

func (f *fakeAdminTokensRepo) FindByToken(ctx context.Context, token string) (*models.RegistrationToken, error) {
	f.m.record("admintokens.FindByToken")
	if f.findErr != nil {
		return nil, f.findErr
	}
	return f.findOut, nil
}

func (f *fakeAdminTokensRepo) List(ctx context.Context) ([]*models.RegistrationToken, error) {
	f.m.record("admintokens.List")
	return f.listOut, nil
}

func (f *fakeAdminTokensRepo) Consume(ctx context.Context, token, userID, presentedEmail string) error {
	f.m.record("admintokens.Consume")
	f.consumedWith = [3]string{token, userID, presentedEmail}
	return f.consumeErr
}

func (f *fakeAdminTokensRepo) Delete(ctx context.Context, id string) error {
	f.m.record("admintokens.Delete")
	return f.deleteErr
}

func (f *fakeAdminTokensRepo) DeleteExpired(ctx context.Context) (int64, error) {
	f.m.record("admintokens.DeleteExpired")
	return f.deleteExpiredOut, f.deleteExpiredErr
}

type fakeContactRepo struct {
	m *fakeRepoManager

	createOut *models.ContactSubmission
	createErr error

	getOut *models.ContactSubmission
	getErr error

	listOut []*models.ContactSubmission

	updateStatusErr error
}

func (f *fakeContactRepo) Create(ctx context.Context, s *models.ContactSubmission) (*models.ContactSubmission, error) {
	f.m.record("contact.Create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	out := *s
	out.ID = "c-new"
	return &out, nil
}

func (f *fakeContactRepo) Get(ctx context.Context, id string) (*models.ContactSubmission, error) {
	f.m.record("contact.Get")
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeContactRepo) List(ctx context.Context) ([]*models.ContactSubmission, error) {
	f.m.record("contact.List")
	return f.listOut, nil
}

func (f *fakeContactRepo) UpdateStatus(ctx context.Context, id string, status models.ContactStatus) error {
	f.m.record("contact.UpdateStatus")
	return f.updateStatusErr
}

type fakeAttachmentsRepo struct {
	m *fakeRepoManager

	createOut *models.Attachment
	createErr error

	getOut *models.Attachment
	getErr error

	listOut []*models.Attachment

	markErr   error
	deleteErr error
}

func (f *fakeAttachmentsRepo) Create(ctx context.Context, a *models.Attachment) (*models.Attachment, error) {
	f.m.record("attachments.Create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	out := *a
	out.ID = "a-new"
	return &out, nil
}

func (f *fakeAttachmentsRepo) Get(ctx context.Context, id, userID string) (*models.Attachment, error) {
	f.m.record("attachments.Get")
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeAttachmentsRepo) ListByEntry(ctx context.Context, entryID, userID string) ([]*models.Attachment, error) {
	f.m.record("attachments.ListByEntry")
	return f.listOut, nil
}

func (f *fakeAttachmentsRepo) MarkUploaded(ctx context.Context, id, userID string) error {
	f.m.record("attachments.MarkUploaded")
	return f.markErr
}

func (f *fakeAttachmentsRepo) Delete(ctx context.Context, id, userID string) error {
	f.m.record("attachments.Delete")
	return f.deleteErr
}

// --- fake repository manager ---

type fakeRepoManager struct {
	users       *fakeUsersRepo
	profiles    *fakeProfilesRepo
	refresh     *fakeRefreshRepo
	journals    *fakeJournalsRepo
	entries     *fakeEntriesRepo
	content     *fakeContentRepo
	admintokens *fakeAdminTokensRepo
	contact     *fakeContactRepo
	attachments *fakeAttachmentsRepo

	calls []string
}

func newFakeRepoManager() *fakeRepoManager {
	m := &fakeRepoManager{}
	m.users = &fakeUsersRepo{m: m}
	m.profiles = &fakeProfilesRepo{m: m}
	m.refresh = &fakeRefreshRepo{m: m}
	m.journals = &fakeJournalsRepo{m: m}
	m.entries = &fakeEntriesRepo{m: m}
	m.content = &fakeContentRepo{m: m}
	m.admintokens = &fakeAdminTokensRepo{m: m}
	m.contact = &fakeContactRepo{m: m}
	m.attachments = &fakeAttachmentsRepo{m: m}
	return m
}

func (m *fakeRepoManager) record(call string) {
	m.calls = append(m.calls, call)
}

func (m *fakeRepoManager) called(call string) bool {
	for _, c := range m.calls {
		if c == call {
			return true
		}
	}
	return false
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }

func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository { return m.users }

func (m *fakeRepoManager) Profiles(db dbx.DBTX) profilesrepo.Repository { return m.profiles }

func (m *fakeRepoManager) RefreshTokens(db dbx.DBTX) refreshtokensrepo.Repository { return m.refresh }

func (m *fakeRepoManager) Journals(db dbx.DBTX) journalsrepo.Repository { return m.journals }

func (m *fakeRepoManager) Entries(db dbx.DBTX) entriesrepo.Repository { return m.entries }

func (m *fakeRepoManager) Content(db dbx.DBTX) contentrepo.Repository { return m.content }

func (m *fakeRepoManager) AdminTokens(db dbx.DBTX) admintokensrepo.Repository { return m.admintokens }

func (m *fakeRepoManager) Contact(db dbx.DBTX) contactrepo.Repository { return m.contact }

func (m *fakeRepoManager) Attachments(db dbx.DBTX) attachmentsrepo.Repository { return m.attachments }

var _ repomanager.RepositoryManager = (*fakeRepoManager)(nil)
