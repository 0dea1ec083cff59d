package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"inkwell/config"
)

// S3Uploader stores featured images in an S3-compatible bucket and serves
// them from a public base URL (typically a CDN in front of the bucket).
type S3Uploader struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

// NewS3Uploader builds an uploader from the storage config. Credentials come
// from the default AWS chain, or from S3_ACCESS_KEY/S3_SECRET_KEY when set
// (MinIO and other S3-compatible providers).
func NewS3Uploader(ctx context.Context, cfg config.StorageConfig) (*S3Uploader, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is not configured")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	if ak, sk := os.Getenv("S3_ACCESS_KEY"), os.Getenv("S3_SECRET_KEY"); ak != "" && sk != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(ak, sk, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	base := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.amazonaws.com", cfg.Bucket)
	}

	return &S3Uploader{client: client, bucket: cfg.Bucket, publicBaseURL: base}, nil
}

// Upload stores the object under a date-partitioned random key and returns
// its public URL.
func (u *S3Uploader) Upload(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	key := fmt.Sprintf("blogs/%s/%s%s",
		time.Now().UTC().Format("2006/01"),
		uuid.NewString(),
		strings.ToLower(path.Ext(filename)),
	)

	input := &s3.PutObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
		Body:   r,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := u.client.PutObject(ctx, input); err != nil {
		return "", err
	}

	return u.publicBaseURL + "/" + key, nil
}

// Delete removes the object behind a previously returned URL. URLs outside
// the public base are ignored.
func (u *S3Uploader) Delete(ctx context.Context, url string) error {
	key, ok := strings.CutPrefix(url, u.publicBaseURL+"/")
	if !ok || key == "" {
		return nil
	}
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	return err
}
