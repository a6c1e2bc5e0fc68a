package mediastore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const transcriptExtension = ".txt"

type MinioOpts func(c *minioConfig)

type minioConfig struct {
	endpoint         string
	bucket           string
	accessKey        string
	secretAccessKey  string
	transcriptPrefix string
	useSSL           bool
}

func newConfig(opts ...MinioOpts) *minioConfig {
	cfg := &minioConfig{
		useSSL:           true,
		transcriptPrefix: "ConvertedTextFile/",
	}

	for _, o := range opts {
		o(cfg)
	}
	return cfg
}

// MediaStore is the object storage collaborator: it stages interview media
// locally, writes transcripts back, and locates transcripts for scoring.
type MediaStore struct {
	cfg    *minioConfig
	client *minio.Client
}

func NewMediaStore(opts ...MinioOpts) (*MediaStore, error) {
	cfg := newConfig(opts...)

	minioClient, err := minio.New(cfg.endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.accessKey, cfg.secretAccessKey, ""),
		Secure: cfg.useSSL,
	})
	if err != nil {
		return nil, err
	}

	return &MediaStore{cfg: cfg, client: minioClient}, nil
}

// Download retrieves an object to localPath, invoking onProgress with
// (transferred, total) as bytes arrive.
func (s *MediaStore) Download(ctx context.Context, key string, localPath string, onProgress func(transferred, total int64)) error {
	object, err := s.client.GetObject(ctx, s.cfg.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return err
	}
	defer object.Close()

	objInfo, err := object.Stat()
	if err != nil {
		return err
	}

	dst, err := os.Create(localPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	pw := &progressWriter{w: dst, total: objInfo.Size, onProgress: onProgress}

	if _, err = io.Copy(pw, object); err != nil {
		return err
	}

	if pw.transferred != pw.total {
		return fmt.Errorf("failed to download the entire object. expected bytes %d received %d", pw.total, pw.transferred)
	}

	return nil
}

// UploadTranscript writes transcript text under the transcript prefix and
// returns the fully qualified object reference.
func (s *MediaStore) UploadTranscript(ctx context.Context, name string, text string) (string, error) {
	key := s.TranscriptKey(name)
	reader := strings.NewReader(text)

	_, err := s.client.PutObject(ctx, s.cfg.bucket, key, reader, int64(reader.Len()), minio.PutObjectOptions{
		ContentType: "text/plain",
	})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("s3://%s/%s", s.cfg.bucket, key), nil
}

// FindTranscript lists the bucket and returns the content of the first
// object whose key contains name and carries the transcript extension.
// An empty string with a nil error means no transcript matched; callers
// decide whether that is fatal.
func (s *MediaStore) FindTranscript(ctx context.Context, name string) (string, error) {
	for object := range s.client.ListObjects(ctx, s.cfg.bucket, minio.ListObjectsOptions{Recursive: true}) {
		if object.Err != nil {
			return "", object.Err
		}
		if !strings.Contains(object.Key, name) || !strings.HasSuffix(object.Key, transcriptExtension) {
			continue
		}

		obj, err := s.client.GetObject(ctx, s.cfg.bucket, object.Key, minio.GetObjectOptions{})
		if err != nil {
			return "", err
		}
		defer obj.Close()

		content, err := io.ReadAll(obj)
		if err != nil {
			return "", err
		}
		return string(content), nil
	}

	return "", nil
}

// TrimKey strips a fully qualified s3://bucket/ reference down to the
// object key. Keys without the prefix pass through unchanged.
func (s *MediaStore) TrimKey(key string) string {
	return strings.TrimPrefix(key, fmt.Sprintf("s3://%s/", s.cfg.bucket))
}

// TranscriptKey derives the transcript object key from a media object name.
func (s *MediaStore) TranscriptKey(name string) string {
	base := path.Base(name)
	if idx := strings.LastIndex(base, "."); idx > 0 {
		base = base[:idx]
	}
	return s.cfg.transcriptPrefix + base + transcriptExtension
}

// progressWriter counts bytes on their way to the destination and reports
// them to the progress callback.
type progressWriter struct {
	w           io.Writer
	transferred int64
	total       int64
	onProgress  func(transferred, total int64)
}

func (p *progressWriter) Write(b []byte) (n int, err error) {
	n, err = p.w.Write(b)
	if err == nil {
		p.transferred += int64(n)
		if p.onProgress != nil {
			p.onProgress(p.transferred, p.total)
		}
	}
	return
}

func WithEndpoint(endpoint string) MinioOpts {
	return func(c *minioConfig) {
		c.endpoint = endpoint
	}
}

func WithBucket(bucket string) MinioOpts {
	return func(c *minioConfig) {
		c.bucket = bucket
	}
}

func WithAccessKey(accessKey string) MinioOpts {
	return func(c *minioConfig) {
		c.accessKey = accessKey
	}
}

func WithSecretKey(secretAccessKey string) MinioOpts {
	return func(c *minioConfig) {
		c.secretAccessKey = secretAccessKey
	}
}

func WithTranscriptPrefix(prefix string) MinioOpts {
	return func(c *minioConfig) {
		c.transcriptPrefix = prefix
	}
}

func WithSSL(useSSL bool) MinioOpts {
	return func(c *minioConfig) {
		c.useSSL = useSSL
	}
}
