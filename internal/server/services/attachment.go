package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sistahology/backend/internal/common"
	"github.com/sistahology/backend/internal/server/authz"
	sc "github.com/sistahology/backend/internal/server/config"
	"github.com/sistahology/backend/internal/server/models"
	"github.com/sistahology/backend/internal/server/repositories/repomanager"
)

// Indirections for the AWS SDK, swapped out in tests.
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}
)

// AttachmentService stores entry attachments in S3-compatible object
// storage. Clients upload and download through presigned URLs; the backend
// only keeps metadata. Ownership is resolved through the entry.
type AttachmentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	config      *sc.Config
}

func NewAttachmentService(db *sql.DB, m repomanager.RepositoryManager, cfg *sc.Config) *AttachmentService {
	return &AttachmentService{db: db, repomanager: m, config: cfg}
}

func randomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("attachments/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *AttachmentService) getPresignClient() (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(context.Background(),
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
	})

	return newS3PresignClient(client), nil
}

func (s *AttachmentService) presignedPutURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket: &s.config.S3Bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

func (s *AttachmentService) presignedGetURL(ctx context.Context, key string) (string, error) {
	presignClient, err := s.getPresignClient()
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(presignClient, ctx, &s3.GetObjectInput{
		Bucket: &s.config.S3Bucket,
		Key:    &key,
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// CreateUpload registers attachment metadata for one of the principal's
// entries and returns the attachment plus a presigned PUT URL for the
// actual bytes.
func (s *AttachmentService) CreateUpload(ctx context.Context, p authz.Principal, entryID, fileName, contentType string) (*models.Attachment, string, error) {
	if !p.Authenticated() {
		return nil, "", common.ErrorForbidden
	}

	entry, err := s.repomanager.Entries(s.db).Get(ctx, entryID, p.UserID)
	if err != nil {
		return nil, "", err
	}

	key := randomStorageKey()
	url, err := s.presignedPutURL(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("error presigning upload: %w", err)
	}

	attachment := &models.Attachment{
		EntryID:      entry.ID,
		UserID:       entry.UserID,
		FileName:     fileName,
		ContentType:  contentType,
		StorageKey:   key,
		UploadStatus: "pending",
	}
	attachment, err = s.repomanager.Attachments(s.db).Create(ctx, attachment)
	if err != nil {
		return nil, "", err
	}

	return attachment, url, nil
}

// MarkUploaded records that the client finished the presigned PUT.
func (s *AttachmentService) MarkUploaded(ctx context.Context, p authz.Principal, id string) error {
	if !p.Authenticated() {
		return common.ErrorForbidden
	}
	return s.repomanager.Attachments(s.db).MarkUploaded(ctx, id, p.UserID)
}

// DownloadURL returns a presigned GET URL for one of the principal's
// attachments.
func (s *AttachmentService) DownloadURL(ctx context.Context, p authz.Principal, id string) (string, error) {
	if !p.Authenticated() {
		return "", common.ErrorNotFound
	}

	attachment, err := s.repomanager.Attachments(s.db).Get(ctx, id, p.UserID)
	if err != nil {
		return "", err
	}

	return s.presignedGetURL(ctx, attachment.StorageKey)
}

// List returns the attachments of one of the principal's entries.
func (s *AttachmentService) List(ctx context.Context, p authz.Principal, entryID string) ([]*models.Attachment, error) {
	if !p.Authenticated() {
		return nil, nil
	}
	return s.repomanager.Attachments(s.db).ListByEntry(ctx, entryID, p.UserID)
}

// Delete removes attachment metadata. The stored object is left for bucket
// lifecycle rules to reap.
func (s *AttachmentService) Delete(ctx context.Context, p authz.Principal, id string) error {
	if !p.Authenticated() {
		return common.ErrorForbidden
	}
	return s.repomanager.Attachments(s.db).Delete(ctx, id, p.UserID)
}
