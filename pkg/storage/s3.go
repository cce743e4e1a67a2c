package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// S3Client abstracts the S3 API operations used by [S3Source].
// The [s3.Client] type satisfies this interface.
type S3Client interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

// S3Source implements Source over a bucket prefix on Amazon S3 or any
// S3-compatible object store (MinIO, R2, etc.).
type S3Source struct {
	client S3Client
	bucket string
	prefix string
}

// NewS3 creates an S3-backed Source. Prefix is prepended to all object
// keys; pass "" for the bucket root.
func NewS3(client S3Client, bucket, prefix string) *S3Source {
	return &S3Source{client: client, bucket: bucket, prefix: strings.Trim(prefix, "/")}
}

// S3Config configures NewS3Client.
type S3Config struct {
	Region string
	// Endpoint overrides the AWS endpoint for S3-compatible stores.
	Endpoint string
	// PathStyle addresses buckets as endpoint/bucket (MinIO needs this).
	PathStyle bool
	// AccessKeyID and SecretAccessKey fall back to AWS_ACCESS_KEY_ID and
	// AWS_SECRET_ACCESS_KEY when empty.
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// NewS3Client builds an s3.Client with static credentials.
func NewS3Client(cfg S3Config) (*s3.Client, error) {
	region := firstNonEmpty(cfg.Region, os.Getenv("AWS_REGION"), os.Getenv("AWS_DEFAULT_REGION"), "us-east-1")
	creds := aws.Credentials{
		AccessKeyID:     firstNonEmpty(cfg.AccessKeyID, os.Getenv("AWS_ACCESS_KEY_ID")),
		SecretAccessKey: firstNonEmpty(cfg.SecretAccessKey, os.Getenv("AWS_SECRET_ACCESS_KEY")),
		SessionToken:    firstNonEmpty(cfg.SessionToken, os.Getenv("AWS_SESSION_TOKEN")),
		Source:          "vecfiles",
	}
	if creds.AccessKeyID == "" || creds.SecretAccessKey == "" {
		return nil, errors.New("storage: S3 credentials not set (AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY)")
	}

	opts := s3.Options{
		Region: region,
		Credentials: aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
			return creds, nil
		}),
		UsePathStyle: cfg.PathStyle,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

// key builds the full S3 object key for the given source path.
func (s *S3Source) key(p string) string {
	p = strings.TrimLeft(p, "/")
	if s.prefix == "" {
		return p
	}
	return s.prefix + "/" + p
}

// rel strips the source prefix from an object key.
func (s *S3Source) rel(key string) string {
	if s.prefix == "" {
		return key
	}
	return strings.TrimPrefix(key, s.prefix+"/")
}

// Open fetches the named object via GetObject.
func (s *S3Source) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(p)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return nil, fmt.Errorf("storage: open %s: %w", p, os.ErrNotExist)
		}
		return nil, err
	}
	return out.Body, nil
}

// Stat describes the named object via HeadObject.
func (s *S3Source) Stat(ctx context.Context, p string) (Object, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(p)),
	})
	if err != nil {
		if isS3NotFound(err) {
			return Object{}, fmt.Errorf("storage: stat %s: %w", p, os.ErrNotExist)
		}
		return Object{}, err
	}
	obj := Object{Path: strings.TrimLeft(p, "/"), Size: aws.ToInt64(out.ContentLength)}
	if out.LastModified != nil {
		obj.ModTime = *out.LastModified
	}
	return obj, nil
}

// List pages through ListObjectsV2 under prefix. Keys ending in "/" are
// folder markers and are skipped.
func (s *S3Source) List(ctx context.Context, prefix string) ([]Object, error) {
	in := &s3.ListObjectsV2Input{Bucket: aws.String(s.bucket)}
	if p := s.key(strings.Trim(prefix, "/")); p != "" {
		in.Prefix = aws.String(p)
	}

	var out []Object
	pages := s3.NewListObjectsV2Paginator(s.client, in)
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("storage: list s3://%s/%s: %w", s.bucket, aws.ToString(in.Prefix), err)
		}
		for _, o := range page.Contents {
			key := aws.ToString(o.Key)
			if key == "" || strings.HasSuffix(key, "/") {
				continue
			}
			obj := Object{Path: s.rel(key), Size: aws.ToInt64(o.Size)}
			if o.LastModified != nil {
				obj.ModTime = *o.LastModified
			}
			out = append(out, obj)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

// isS3NotFound reports whether err indicates the S3 object does not exist.
func isS3NotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}

var _ Source = (*S3Source)(nil)
