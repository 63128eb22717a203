// Package blobstore stores feedback attachments in S3. The rest of the
// system only ever sees opaque object keys; download access goes through
// short-lived presigned URLs.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var ErrNotConfigured = errors.New("blobstore: S3_BUCKET not configured")

type Store struct {
	bucket  string
	client  *s3.Client
	presign *s3.PresignClient
}

// New builds an S3-backed store. With an empty bucket the store is disabled
// and every call returns ErrNotConfigured.
func New(ctx context.Context, bucket, region string) (*Store, error) {
	if bucket == "" {
		return &Store{}, nil
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	return &Store{
		bucket:  bucket,
		client:  client,
		presign: s3.NewPresignClient(client),
	}, nil
}

func (s *Store) Enabled() bool { return s.bucket != "" }

// Put uploads the body under a fresh random key and returns the key.
func (s *Store) Put(ctx context.Context, body io.Reader, contentType string) (string, error) {
	if !s.Enabled() {
		return "", ErrNotConfigured
	}
	key := "feedback-attachments/" + uuid.New().String()
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return key, nil
}

// PresignURL returns a time-limited download URL for an object key.
func (s *Store) PresignURL(ctx context.Context, key string) (string, error) {
	if !s.Enabled() {
		return "", ErrNotConfigured
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(1*time.Hour))
	if err != nil {
		return "", fmt.Errorf("presign object: %w", err)
	}
	return req.URL, nil
}
