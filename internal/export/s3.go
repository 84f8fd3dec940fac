// Package export publishes report artifacts to S3-compatible object storage
// so CI pipelines can collect them.
package export

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config names the target bucket and credentials.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3ConfigFromEnv reads the VULNSIGHT_S3_* variables. Enabled only when an
// endpoint is set.
func S3ConfigFromEnv() (S3Config, bool) {
	endpoint := strings.TrimSpace(os.Getenv("VULNSIGHT_S3_ENDPOINT"))
	if endpoint == "" {
		return S3Config{}, false
	}
	useSSL := true
	if raw := strings.TrimSpace(os.Getenv("VULNSIGHT_S3_USE_SSL")); raw != "" {
		if v, err := strconv.ParseBool(raw); err == nil {
			useSSL = v
		}
	}
	return S3Config{
		Endpoint:  endpoint,
		Region:    firstNonEmpty(os.Getenv("VULNSIGHT_S3_REGION"), "us-east-1"),
		AccessKey: strings.TrimSpace(os.Getenv("VULNSIGHT_S3_ACCESS_KEY")),
		SecretKey: strings.TrimSpace(os.Getenv("VULNSIGHT_S3_SECRET_KEY")),
		Bucket:    firstNonEmpty(os.Getenv("VULNSIGHT_S3_BUCKET"), "vulnsight-reports"),
		UseSSL:    useSSL,
	}, true
}

// S3Uploader writes artifacts under <bucket>/<scanID>/<name>.
type S3Uploader struct {
	client   *minio.Client
	bucket   string
	region   string
	initOnce sync.Once
	initErr  error
}

// NewS3Uploader validates the config and builds the client.
func NewS3Uploader(cfg S3Config) (*S3Uploader, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}
	return &S3Uploader{client: client, bucket: bucket, region: region}, nil
}

func (u *S3Uploader) ensureBucket(ctx context.Context) error {
	u.initOnce.Do(func() {
		exists, err := u.client.BucketExists(ctx, u.bucket)
		if err != nil {
			u.initErr = err
			return
		}
		if exists {
			return
		}
		u.initErr = u.client.MakeBucket(ctx, u.bucket, minio.MakeBucketOptions{Region: u.region})
	})
	return u.initErr
}

// Upload stores one artifact for a scan.
func (u *S3Uploader) Upload(ctx context.Context, scanID, name string, content []byte, contentType string) error {
	if u == nil || u.client == nil {
		return fmt.Errorf("uploader is nil")
	}
	scanID = strings.TrimSpace(scanID)
	name = strings.TrimLeft(strings.TrimSpace(name), "/")
	if scanID == "" {
		return fmt.Errorf("scan id is required")
	}
	if name == "" {
		return fmt.Errorf("artifact name is required")
	}
	if err := u.ensureBucket(ctx); err != nil {
		return fmt.Errorf("ensure bucket: %w", err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := scanID + "/" + name
	_, err := u.client.PutObject(ctx, u.bucket, key, bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
