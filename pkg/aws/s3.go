package aws

import (
	"fmt"
	"strings"
	"time"

	"storefront/pkg/config"

	"github.com/gofiber/storage/s3/v2"
)

// S3 stores product images in a single bucket.
type S3 struct {
	bucket  *s3.Storage
	baseURL string
}

func NewS3Bucket(cfg *config.AppConfig) *S3 {
	bucket := s3.New(s3.Config{
		Endpoint: cfg.AWSEndpoint,
		Bucket:   cfg.AWSBucket,
		Region:   cfg.AWSDefaultRegion,
		Credentials: s3.Credentials{
			AccessKey:       cfg.AWSAccessKey,
			SecretAccessKey: cfg.AWSSecretKey,
		},
		MaxAttempts:    3,
		RequestTimeout: time.Second * 10,
		Reset:          false,
	})

	return &S3{
		bucket:  bucket,
		baseURL: publicBaseURL(cfg.AWSEndpoint, cfg.AWSBucket, cfg.AWSDefaultRegion),
	}
}

// Upload stores data under key. Images never expire.
func (s *S3) Upload(key string, data []byte) error {
	return s.bucket.Set(key, data, 0)
}

func (s *S3) URL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

func (s *S3) Close() error {
	return s.bucket.Close()
}

// publicBaseURL uses path-style addressing for custom endpoints (MinIO,
// LocalStack) and virtual-hosted style for AWS.
func publicBaseURL(endpoint, bucket, region string) string {
	if endpoint != "" {
		return strings.TrimRight(endpoint, "/") + "/" + bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
}
