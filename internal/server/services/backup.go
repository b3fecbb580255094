package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/gophsnap/internal/logging"
	"github.com/dmitrijs2005/gophsnap/internal/netx"
	"github.com/dmitrijs2005/gophsnap/internal/server/codec"
	sc "github.com/dmitrijs2005/gophsnap/internal/server/config"
	"github.com/dmitrijs2005/gophsnap/internal/server/models"
	"github.com/dmitrijs2005/gophsnap/internal/server/snapshot"
)

const presignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in, optFns...)
	}
	presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignGetObject(ctx, in, optFns...)
	}

	downloadObject = netx.DownloadFromPresignedURL
)

// BackupService copies encoded snapshots to and from an S3-compatible bucket.
type BackupService struct {
	store  *snapshot.Store
	config *sc.Config
	logger logging.Logger
	now    func() time.Time
}

func NewBackupService(store *snapshot.Store, config *sc.Config, logger logging.Logger) *BackupService {
	return &BackupService{
		store:  store,
		config: config,
		logger: logger.With("module", "backup"),
		now:    time.Now,
	}
}

// BackupKey returns a fresh object key under the snapshots/ prefix, grouped
// by day.
func BackupKey(d time.Time) string {
	d = d.UTC()
	return fmt.Sprintf("snapshots/%04d/%02d/%02d/%v.bin", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *BackupService) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	return newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		// MinIO serves buckets by path
		o.UsePathStyle = true
	}), nil
}

// Backup encodes the current graph and uploads it. It returns the object key.
func (s *BackupService) Backup(ctx context.Context) (string, error) {
	b, err := codec.Encode(s.store.Data())
	if err != nil {
		return "", err
	}

	client, err := s.getClient(ctx)
	if err != nil {
		s.logger.Error(ctx, "backup client failed", "error", err)
		return "", err
	}

	bucket := s.config.S3Bucket
	key := BackupKey(s.now())
	_, err = putObject(client, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        bytes.NewReader(b),
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		s.logger.Error(ctx, "backup upload failed", "bucket", bucket, "key", key, "error", err)
		return "", fmt.Errorf("error uploading backup: %w", err)
	}

	s.logger.Info(ctx, "backup uploaded", "bucket", bucket, "key", key, "bytes", len(b))
	return key, nil
}

// GetPresignedGetUrl returns a short-lived download URL for a backup.
func (s *BackupService) GetPresignedGetUrl(ctx context.Context, key string) (string, error) {
	client, err := s.getClient(ctx)
	if err != nil {
		return "", err
	}

	bucket := s.config.S3Bucket
	req, err := presignGetObject(newS3PresignClient(client), ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

// Restore downloads the backup stored under key and makes it the current
// graph. A backup that does not decode leaves the store untouched.
func (s *BackupService) Restore(ctx context.Context, key string) error {
	url, err := s.GetPresignedGetUrl(ctx, key)
	if err != nil {
		return fmt.Errorf("error presigning backup: %w", err)
	}

	b, err := downloadObject(ctx, url)
	if err != nil {
		s.logger.Error(ctx, "backup download failed", "key", key, "error", err)
		return fmt.Errorf("error downloading backup: %w", err)
	}

	restored, err := codec.Decode(b)
	if err != nil {
		return err
	}

	err = s.store.Update(ctx, func(g *models.Graph) error {
		*g = *restored
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "backup restored", "key", key, "users", len(restored.Users), "bytes", len(b))
	return nil
}
