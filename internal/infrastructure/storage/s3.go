package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const presignExpiry = 15 * time.Minute

// Config carries the S3 settings for document storage.
type Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// DocumentStorage issues pre-signed URLs for KYC document uploads and
// downloads. Clients upload directly to S3; the API only ever handles keys.
type DocumentStorage interface {
	PresignUpload(ctx context.Context, userID, inquiryID, filename, contentType string) (url, key string, err error)
	PresignDownload(ctx context.Context, key string) (string, error)
}

type s3Storage struct {
	bucket        string
	presignClient *s3.PresignClient
}

// NewS3Storage builds the document store from static credentials.
func NewS3Storage(ctx context.Context, cfg Config) (DocumentStorage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg)
	return &s3Storage{
		bucket:        cfg.Bucket,
		presignClient: s3.NewPresignClient(client),
	}, nil
}

// PresignUpload returns a PUT URL and the object key the document will live
// under. Keys are namespaced per user and inquiry.
func (s *s3Storage) PresignUpload(ctx context.Context, userID, inquiryID, filename, contentType string) (string, string, error) {
	key := fmt.Sprintf("documents/%s/%s/%s_%s", userID, inquiryID, uuid.NewString(), filename)

	req, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", "", fmt.Errorf("presign upload for %s: %w", key, err)
	}
	return req.URL, key, nil
}

// PresignDownload returns a short-lived GET URL for a stored document.
func (s *s3Storage) PresignDownload(ctx context.Context, key string) (string, error) {
	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(presignExpiry))
	if err != nil {
		return "", fmt.Errorf("presign download for %s: %w", key, err)
	}
	return req.URL, nil
}
