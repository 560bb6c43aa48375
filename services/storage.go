package services

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Buckets used by the API. Logos are public, member documents are private and
// served through presigned URLs.
const (
	BucketLogos     = "logos"
	BucketDocuments = "member-documents"
)

// StorageService wraps an S3-compatible object store (AWS S3, MinIO, ...).
type StorageService struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	publicBase    string
}

func NewStorageService() (*StorageService, error) {
	accessKey := os.Getenv("STORAGE_ACCESS_KEY")
	secretKey := os.Getenv("STORAGE_SECRET_KEY")
	if accessKey == "" || secretKey == "" {
		return nil, fmt.Errorf("STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY are required")
	}

	endpoint := os.Getenv("STORAGE_ENDPOINT")
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}

	region := os.Getenv("STORAGE_REGION")
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String(endpoint)
	})

	publicBase := os.Getenv("STORAGE_PUBLIC_URL")
	if publicBase == "" {
		publicBase = endpoint
	}

	return &StorageService{
		client:        client,
		presignClient: s3.NewPresignClient(client),
		publicBase:    strings.TrimRight(publicBase, "/"),
	}, nil
}

// Upload writes a blob at bucket/key, replacing any previous object.
func (s *StorageService) Upload(ctx context.Context, bucket, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Delete removes an object. Missing objects are not an error.
func (s *StorageService) Delete(ctx context.Context, bucket, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

// PresignURL returns a short-lived download link for a private object.
func (s *StorageService) PresignURL(ctx context.Context, bucket, key string) (string, error) {
	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("failed to presign %s/%s: %w", bucket, key, err)
	}
	return req.URL, nil
}

// PublicURL builds the stable URL of a public object (logos bucket).
func (s *StorageService) PublicURL(bucket, key string) string {
	return fmt.Sprintf("%s/%s/%s", s.publicBase, bucket, key)
}
