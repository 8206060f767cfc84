package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sistahology/backend/internal/common"
	"github.com/sistahology/backend/internal/server/authz"
	"github.com/sistahology/backend/internal/server/models"
)

func swapPresignStack(t *testing.T, putURL, getURL string, presignErr error) {
	t.Helper()

	origLoad := loadDefaultAWSConfig
	origNewS3 := newS3ClientFromConfig
	origNewPre := newS3PresignClient
	origPut := presignPutObject
	origGet := presignGetObject
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3ClientFromConfig = origNewS3
		newS3PresignClient = origNewPre
		presignPutObject = origPut
		presignGetObject = origGet
	})

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return &s3.Client{}
	}
	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return &s3.PresignClient{}
	}
	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if presignErr != nil {
			return nil, presignErr
		}
		return &v4.PresignedHTTPRequest{URL: putURL}, nil
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		if presignErr != nil {
			return nil, presignErr
		}
		return &v4.PresignedHTTPRequest{URL: getURL}, nil
	}
}

func TestCreateUpload(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	swapPresignStack(t, "https://bucket/put", "", nil)

	rm := newFakeRepoManager()
	rm.entries.getOut = &models.Entry{ID: "e1", UserID: "u1"}
	s := NewAttachmentService(db, rm, testConfig())

	p := authz.UserActor("u1", "", false)
	attachment, url, err := s.CreateUpload(context.Background(), p, "e1", "photo.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("CreateUpload error: %v", err)
	}
	if url != "https://bucket/put" {
		t.Fatalf("url: %q", url)
	}
	if attachment.UserID != "u1" || attachment.EntryID != "e1" {
		t.Fatalf("attachment: %+v", attachment)
	}
	if !strings.HasPrefix(attachment.StorageKey, "attachments/") {
		t.Fatalf("storage key: %q", attachment.StorageKey)
	}
	if attachment.UploadStatus != "pending" {
		t.Fatalf("upload status: %q", attachment.UploadStatus)
	}
}

func TestCreateUpload_ForeignEntry(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	swapPresignStack(t, "https://bucket/put", "", nil)

	rm := newFakeRepoManager()
	rm.entries.getErr = common.ErrorNotFound
	s := NewAttachmentService(db, rm, testConfig())

	_, _, err := s.CreateUpload(context.Background(), authz.UserActor("intruder", "", false), "e1", "f", "")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want ErrorNotFound, got %v", err)
	}
	if rm.called("attachments.Create") {
		t.Fatal("metadata persisted for a foreign entry")
	}
}

func TestCreateUpload_PresignError(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	swapPresignStack(t, "", "", errors.New("presign-fail"))

	rm := newFakeRepoManager()
	rm.entries.getOut = &models.Entry{ID: "e1", UserID: "u1"}
	s := NewAttachmentService(db, rm, testConfig())

	_, _, err := s.CreateUpload(context.Background(), authz.UserActor("u1", "", false), "e1", "f", "")
	if err == nil || !strings.Contains(err.Error(), "presign-fail") {
		t.Fatalf("expected presign error, got %v", err)
	}
	if rm.called("attachments.Create") {
		t.Fatal("metadata persisted without a usable upload URL")
	}
}

func TestDownloadURL(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()
	swapPresignStack(t, "", "https://bucket/get", nil)

	rm := newFakeRepoManager()
	rm.attachments.getOut = &models.Attachment{
		ID:           "a1",
		UserID:       "u1",
		StorageKey:   "attachments/2026/8/25/x",
		UploadStatus: "uploaded",
	}
	s := NewAttachmentService(db, rm, testConfig())

	url, err := s.DownloadURL(context.Background(), authz.UserActor("u1", "", false), "a1")
	if err != nil || url != "https://bucket/get" {
		t.Fatalf("got (%q, %v)", url, err)
	}

	if _, err := s.DownloadURL(context.Background(), authz.Anonymous(), "a1"); !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("anonymous download: want ErrorNotFound, got %v", err)
	}
}
