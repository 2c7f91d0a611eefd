package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"svgasset/sink"
)

const contentTypeSVG = "image/svg+xml"

type Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Prefix    string `yaml:"prefix"`
	UseSSL    bool   `yaml:"use_ssl"`
}

// objectStore is the subset of *minio.Client the driver needs.
type objectStore interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
}

type minioStore struct{ c *minio.Client }

func (m minioStore) BucketExists(ctx context.Context, bucket string) (bool, error) {
	return m.c.BucketExists(ctx, bucket)
}

func (m minioStore) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	return m.c.MakeBucket(ctx, bucket, opts)
}

func (m minioStore) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	return m.c.PutObject(ctx, bucket, key, r, size, opts)
}

// Driver uploads assets to an S3 compatible bucket.
type Driver struct {
	store  objectStore
	bucket string
	region string
	prefix string

	initOnce sync.Once
	initErr  error
}

func (d *Driver) Configure(raw any) error {
	cfg, ok := raw.(Config)
	if !ok {
		return fmt.Errorf("s3-sink: expected Config, got %T", raw)
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return fmt.Errorf("s3-sink: endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return fmt.Errorf("s3-sink: access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return fmt.Errorf("s3-sink: bucket is required")
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
		return fmt.Errorf("s3-sink: init client: %w", err)
	}
	d.store = minioStore{c: client}
	d.bucket = bucket
	d.region = region
	d.prefix = strings.Trim(strings.TrimSpace(cfg.Prefix), "/")
	return nil
}

func (d *Driver) ensureBucket(ctx context.Context) error {
	d.initOnce.Do(func() {
		exists, err := d.store.BucketExists(ctx, d.bucket)
		if err != nil {
			d.initErr = err
			return
		}
		if exists {
			return
		}
		d.initErr = d.store.MakeBucket(ctx, d.bucket, minio.MakeBucketOptions{Region: d.region})
	})
	return d.initErr
}

func (d *Driver) Put(ctx context.Context, name string, content []byte) error {
	if d.store == nil {
		return fmt.Errorf("s3-sink: not configured")
	}
	key := d.objectKey(name)
	if key == "" {
		return fmt.Errorf("s3-sink: name is required")
	}
	if err := d.ensureBucket(ctx); err != nil {
		return fmt.Errorf("s3-sink: ensure bucket: %w", err)
	}
	_, err := d.store.PutObject(ctx, d.bucket, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: contentTypeSVG,
	})
	return err
}

func (d *Driver) Close() error { return nil }

func (d *Driver) objectKey(name string) string {
	normalized := strings.TrimLeft(path.Clean("/"+strings.TrimSpace(name)), "/")
	if normalized == "" {
		return ""
	}
	if d.prefix == "" {
		return normalized
	}
	return d.prefix + "/" + normalized
}

func init() { sink.Register("s3", func() sink.Adapter { return &Driver{} }) }
