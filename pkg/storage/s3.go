package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sirupsen/logrus"
)

// s3API is the subset of the S3 client used by s3Storage.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type s3Storage struct {
	client    s3API
	bucket    string
	region    string
	publicURL string
}

// NewS3Storage creates an S3-backed ImageStorage. Static credentials are used
// when both keys are set, otherwise the default AWS credential chain applies.
func NewS3Storage(ctx context.Context, opts Options) (ImageStorage, error) {
	if opts.S3Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is not configured")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.S3Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.S3Region))
	}
	if opts.S3AccessKey != "" && opts.S3SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.S3AccessKey, opts.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"bucket": opts.S3Bucket,
		"region": awsCfg.Region,
	}).Info("s3 image storage configured")

	return newS3Storage(s3.NewFromConfig(awsCfg), opts.S3Bucket, awsCfg.Region, opts.S3PublicURL), nil
}

func newS3Storage(client s3API, bucket, region, publicURL string) *s3Storage {
	return &s3Storage{
		client:    client,
		bucket:    bucket,
		region:    region,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// UploadImage stores the image under folder and returns its public URL.
func (s *s3Storage) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	name := cleanFileName(fileName)
	key := fmt.Sprintf("%d-%s", time.Now().UnixNano(), name)
	if folder = strings.Trim(folder, "/"); folder != "" {
		key = path.Join(folder, key)
	}

	// PutObject needs a seekable body to compute the payload checksum.
	body, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read image: %w", err)
		}
		body = bytes.NewReader(data)
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to s3: %w", err)
	}

	return s.publicLink(key), nil
}

// DeleteImage removes the object behind fileURL.
func (s *s3Storage) DeleteImage(ctx context.Context, fileURL string) error {
	key := s.objectKeyFromURL(fileURL)
	if key == "" {
		return fmt.Errorf("could not extract object key from URL: %s", fileURL)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete image from s3: %w", err)
	}
	return nil
}

func (s *s3Storage) baseURL() string {
	if s.publicURL != "" {
		return s.publicURL
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", s.bucket, s.region)
}

func (s *s3Storage) publicLink(key string) string {
	return s.baseURL() + "/" + key
}

// objectKeyFromURL returns "" for URLs outside this bucket's public base.
func (s *s3Storage) objectKeyFromURL(fileURL string) string {
	base := s.baseURL() + "/"
	if !strings.HasPrefix(fileURL, base) {
		return ""
	}
	key, err := url.PathUnescape(strings.TrimPrefix(fileURL, base))
	if err != nil {
		return ""
	}
	return key
}
