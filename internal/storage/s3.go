package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/anonto42/social-pod/backend/pkg/config"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3Storage implements the Storage interface for Amazon S3
type S3Storage struct {
	bucket     string
	baseURL    string
	s3Client   *s3.S3
	s3Uploader *s3manager.Uploader
}

// NewS3Storage creates a new S3Storage
func NewS3Storage(cfg *config.StorageConfig) (*S3Storage, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET not set")
	}

	awsCfg := &aws.Config{Region: aws.String(cfg.S3Region)}
	if cfg.S3AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.S3AccessKey, cfg.S3SecretKey, "")
	}
	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	baseURL := cfg.BaseURL
	if baseURL == "" || strings.Contains(baseURL, "localhost") {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
	}

	return &S3Storage{
		bucket:     cfg.S3Bucket,
		baseURL:    strings.TrimRight(baseURL, "/"),
		s3Client:   s3.New(sess),
		s3Uploader: s3manager.NewUploader(sess),
	}, nil
}

// Put uploads data with a public-read ACL
func (s *S3Storage) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.s3Uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}
	return s.baseURL + "/" + key, nil
}

func (s *S3Storage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	objects := make([]*s3.ObjectIdentifier, len(keys))
	for i, key := range keys {
		objects[i] = &s3.ObjectIdentifier{Key: aws.String(key)}
	}

	out, err := s.s3Client.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(s.bucket),
		Delete: &s3.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to delete objects from S3: %w", err)
	}
	if len(out.Errors) > 0 {
		first := out.Errors[0]
		return fmt.Errorf("failed to delete %d objects from S3, first %s: %s",
			len(out.Errors), aws.StringValue(first.Key), aws.StringValue(first.Message))
	}
	return nil
}
