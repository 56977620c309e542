package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/shopsphere/marketplace-api/internal/config"
)

// BlobStore is the object-storage contract the catalog consumes: upload
// bytes, get a durable public URL back, delete by URL (idempotent).
type BlobStore interface {
	Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, url string) error
	HealthCheck(ctx context.Context) error
}

type Client struct {
	s3     *awss3.Client
	bucket string
}

func NewClient(ctx context.Context, cfg *config.S3) (*Client, error) {

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return &Client{
		s3:     awss3.NewFromConfig(awsCfg),
		bucket: cfg.ImageBucket,
	}, nil
}

// Upload stores the object under a uuid-prefixed key and returns its public
// URL.
func (c *Client) Upload(ctx context.Context, fileName, contentType string, data []byte) (string, error) {

	key := uuid.NewString() + fileName

	_, err := c.s3.PutObject(ctx, &awss3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s: %w", key, err)
	}

	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", c.bucket, key), nil
}

// Delete removes the object behind a URL previously returned by Upload.
// Unknown URLs and already-deleted keys are not errors.
func (c *Client) Delete(ctx context.Context, url string) error {

	marker := c.bucket + ".s3.amazonaws.com/"

	_, key, found := strings.Cut(url, marker)
	if !found || key == "" {
		return nil
	}

	_, err := c.s3.DeleteObject(ctx, &awss3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}

	return nil
}

func (c *Client) HealthCheck(ctx context.Context) error {

	_, err := c.s3.HeadBucket(ctx, &awss3.HeadBucketInput{
		Bucket: aws.String(c.bucket),
	})
	if err != nil {
		return fmt.Errorf("bucket %s is not reachable: %w", c.bucket, err)
	}

	return nil
}
