package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config targets an S3-compatible bucket (MinIO in development).
type S3Config struct {
	AccessKey    string
	SecretKey    string
	Bucket       string
	Region       string
	BaseEndpoint string
}

// S3Store uses object ETags as content hashes and conditional PUTs
// (If-Match / If-None-Match) for optimistic concurrency. Buckets carry no
// commit history, so commit messages are dropped.
type S3Store struct {
	client *s3.Client
	bucket string
}

func NewS3Store(ctx context.Context, c S3Config) (*S3Store, error) {
	if c.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.AccessKey,
			c.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(c.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return NewS3StoreWithClient(client, c.Bucket), nil
}

func NewS3StoreWithClient(client *s3.Client, bucket string) *S3Store {
	return &S3Store{client: client, bucket: bucket}
}

// httpStatus extracts the HTTP status code of a failed S3 call, or 0.
func httpStatus(err error) int {
	var re *awshttp.ResponseError
	if errors.As(err, &re) {
		return re.HTTPStatusCode()
	}
	return 0
}

func (s *S3Store) classify(op, path string, err error) error {
	switch httpStatus(err) {
	case http.StatusNotFound:
		return notFound(op, path)
	case http.StatusPreconditionFailed, http.StatusConflict:
		return conflict(op, path)
	}
	return fmt.Errorf("%s %s: %w", op, path, err)
}

func (s *S3Store) Read(ctx context.Context, path string) (*File, error) {
	path = cleanPrefix(path)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return nil, s.classify("s3 read", path, err)
	}
	defer out.Body.Close()

	b, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("s3 read %s: %w", path, err)
	}

	return &File{Path: path, Content: string(b), Hash: aws.ToString(out.ETag)}, nil
}

func (s *S3Store) currentETag(ctx context.Context, path string) (string, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		if httpStatus(err) == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("s3 stat %s: %w", path, err)
	}
	return aws.ToString(out.ETag), nil
}

func (s *S3Store) Write(ctx context.Context, path, content, message string) error {
	path = cleanPrefix(path)

	etag, err := s.currentETag(ctx, path)
	if err != nil {
		return err
	}
	return s.WriteIfMatch(ctx, path, content, message, etag)
}

func (s *S3Store) WriteIfMatch(ctx context.Context, path, content, message, hash string) error {
	path = cleanPrefix(path)

	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(path),
		Body:        strings.NewReader(content),
		ContentType: aws.String("text/markdown; charset=utf-8"),
	}
	if hash == "" {
		in.IfNoneMatch = aws.String("*")
	} else {
		in.IfMatch = aws.String(hash)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return s.classify("s3 write", path, err)
	}
	return nil
}

func (s *S3Store) Remove(ctx context.Context, path, message string) error {
	path = cleanPrefix(path)

	etag, err := s.currentETag(ctx, path)
	if err != nil {
		return err
	}
	if etag == "" {
		return notFound("s3 remove", path)
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	}); err != nil {
		return s.classify("s3 remove", path, err)
	}
	return nil
}

func (s *S3Store) List(ctx context.Context, prefix string) ([]Entry, error) {
	prefix = cleanPrefix(prefix)
	lead := ""
	if prefix != "" {
		lead = prefix + "/"
	}

	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(lead),
		Delimiter: aws.String("/"),
	})

	entries := []Entry{}
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, s.classify("s3 list", prefix, err)
		}
		for _, cp := range page.CommonPrefixes {
			name := strings.TrimSuffix(strings.TrimPrefix(aws.ToString(cp.Prefix), lead), "/")
			if name == "" {
				continue
			}
			entries = append(entries, Entry{Name: name, Path: childPath(prefix, name), Kind: KindDir})
		}
		for _, obj := range page.Contents {
			name := strings.TrimPrefix(aws.ToString(obj.Key), lead)
			if name == "" {
				continue
			}
			entries = append(entries, Entry{Name: name, Path: childPath(prefix, name), Kind: KindFile})
		}
	}
	return entries, nil
}
