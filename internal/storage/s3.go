package storage

import (
	"context"
	"log"
	"recipehub/meal-planner/internal/config"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsCfg "github.com/aws/aws-sdk-go-v2/config" // Alias config to avoid clash
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// s3Storage implements FileStorage on AWS S3 or any S3-compatible service.
type s3Storage struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucketName    string
}

// NewS3Storage creates a new S3 storage service instance. A non-empty
// cfg.Endpoint targets an S3-compatible server (MinIO, Spaces) with
// path-style addressing.
func NewS3Storage(ctx context.Context, cfg config.S3Config) (FileStorage, error) {
	opts := []func(*awsCfg.LoadOptions) error{awsCfg.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsCfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsSDKConfig, err := awsCfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		log.Printf("ERROR: Failed to load AWS SDK config for S3: %v", err)
		return nil, err
	}

	s3Client := s3.NewFromConfig(awsSDKConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Printf("INFO: S3 storage initialized for endpoint: %q, bucket: %s", cfg.Endpoint, cfg.BucketName)

	return &s3Storage{
		client:        s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucketName:    cfg.BucketName,
	}, nil
}

// GeneratePresignedUploadURL creates a temporary URL for uploading (PUT).
func (s *s3Storage) GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}

	req, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(objectKey),
		ContentType: aws.String(contentType), // the client must send the same header
	}, s3.WithPresignExpires(expires))
	if err != nil {
		log.Printf("ERROR: Failed to generate presigned PUT URL for key '%s': %v", objectKey, err)
		return "", err
	}
	return req.URL, nil
}

// GeneratePresignedDownloadURL creates a temporary URL for downloading (GET).
func (s *s3Storage) GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error) {
	if expires <= 0 {
		expires = DefaultPresignedURLExpiry
	}

	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		log.Printf("ERROR: Failed to generate presigned GET URL for key '%s': %v", objectKey, err)
		return "", err
	}
	return req.URL, nil
}

// DeleteObject removes an object from the bucket.
func (s *s3Storage) DeleteObject(ctx context.Context, objectKey string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		log.Printf("ERROR: Failed to delete object '%s' from bucket '%s': %v", objectKey, s.bucketName, err)
		return err
	}

	log.Printf("INFO: Deleted object '%s' from bucket '%s'", objectKey, s.bucketName)
	return nil
}
