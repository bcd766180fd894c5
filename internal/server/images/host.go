//go:generate go run go.uber.org/mock/mockgen -source=host.go -destination=../mocks/mock_image_host.go -package=mocks -exclude_interfaces=objectAPI

// Package images hosts user-supplied pictures (profile pictures and message
// attachments) in an S3-compatible bucket and hands back public URLs.
package images

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/gopherchat/internal/common"
	sc "github.com/dmitrijs2005/gopherchat/internal/server/config"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Host uploads and removes hosted images.
type Host interface {
	// Upload stores data, a base64 payload or a base64 data URL, and returns
	// its public URL and the storage key needed to delete it later.
	Upload(ctx context.Context, data string) (url string, key string, err error)
	Delete(ctx context.Context, key string) error
}

// objectAPI is the part of *s3.Client the host needs.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

type S3Host struct {
	client    objectAPI
	bucket    string
	publicURL string
	now       func() time.Time
}

func NewS3Host(ctx context.Context, c *sc.Config) (*S3Host, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(c.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			c.S3RootUser,
			c.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config error: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(c.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3Host(client, c.S3Bucket, c.PublicImageBaseURL()), nil
}

func newS3Host(client objectAPI, bucket, publicURL string) *S3Host {
	return &S3Host{client: client, bucket: bucket, publicURL: publicURL, now: time.Now}
}

func (h *S3Host) Upload(ctx context.Context, data string) (string, string, error) {
	raw, err := decode(data)
	if err != nil {
		return "", "", err
	}

	mt := mimetype.Detect(raw)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", "", common.NewValidationError("Unsupported image type")
	}

	key := h.storageKey(mt.Extension())
	_, err = h.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(h.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(raw),
		ContentType: aws.String(mt.String()),
	})
	if err != nil {
		return "", "", fmt.Errorf("put object: %w: %w", common.ErrUpstream, err)
	}

	u, err := url.JoinPath(h.publicURL, h.bucket, key)
	if err != nil {
		return "", "", fmt.Errorf("image url: %w", err)
	}

	return u, key, nil
}

func (h *S3Host) Delete(ctx context.Context, key string) error {
	_, err := h.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(h.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object: %w: %w", common.ErrUpstream, err)
	}
	return nil
}

func (h *S3Host) storageKey(ext string) string {
	d := h.now()
	return fmt.Sprintf("images/%d/%d/%d/%v%s", d.Year(), d.Month(), d.Day(), uuid.New(), ext)
}

// decode accepts "data:<mime>;base64,<payload>" or a bare base64 payload.
func decode(data string) ([]byte, error) {
	payload := data
	if rest, ok := strings.CutPrefix(data, "data:"); ok {
		header, body, found := strings.Cut(rest, ",")
		if !found || !strings.HasSuffix(header, ";base64") {
			return nil, common.NewValidationError("Invalid image data")
		}
		payload = body
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(payload)
	}
	if err != nil || len(raw) == 0 {
		return nil, common.NewValidationError("Invalid image data")
	}
	return raw, nil
}
