// Package media hands clients presigned upload URLs for an S3-compatible
// bucket. Media bytes never pass through the gateway; posts only carry the
// resulting public URL.
package media

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/DeBrosOfficial/social/pkg/config"
	"github.com/DeBrosOfficial/social/pkg/errors"
	"github.com/DeBrosOfficial/social/pkg/logging"
)

// Upload kinds, matching post media types.
const (
	KindImage = "image"
	KindVideo = "video"
)

var extensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/avif":      ".avif",
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"video/quicktime": ".mov",
}

// Ticket is what a client needs to PUT one object.
type Ticket struct {
	UploadURL string            `json:"upload_url"`
	PublicURL string            `json:"public_url"`
	Key       string            `json:"key"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// Presigner signs PUT requests against one bucket.
type Presigner struct {
	client     *s3.PresignClient
	bucket     string
	publicBase string
	ttl        time.Duration
	now        func() time.Time
	newID      func() string
	logger     *logging.ColoredLogger
}

// NewPresigner builds a Presigner from static credentials. Signing is
// local; no request reaches the provider until the client uploads.
func NewPresigner(cfg config.MediaConfig, logger *logging.ColoredLogger) (*Presigner, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("media bucket is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	ttl := cfg.UploadTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	awsCfg := aws.Config{
		Region:      region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.PathStyle
	})

	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		base = defaultPublicBase(cfg, region)
	}

	return &Presigner{
		client:     s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		publicBase: base,
		ttl:        ttl,
		now:        time.Now,
		newID:      uuid.NewString,
		logger:     logger,
	}, nil
}

func defaultPublicBase(cfg config.MediaConfig, region string) string {
	if cfg.Endpoint != "" {
		return strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
}

// PresignUpload returns a ticket for owner to upload one object of
// contentType. kind may be empty, in which case it follows the content type.
func (p *Presigner) PresignUpload(ctx context.Context, owner, contentType, kind string) (Ticket, error) {
	if owner == "" {
		return Ticket{}, errors.NewUnauthorizedError("")
	}
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	family, _, ok := strings.Cut(contentType, "/")
	if !ok || (family != KindImage && family != KindVideo) {
		return Ticket{}, errors.NewValidationError("content_type", errors.ReasonInvalidUpload, "content_type must be an image or video type")
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind == "" {
		kind = family
	}
	if kind != family {
		return Ticket{}, errors.NewValidationError("kind", errors.ReasonInvalidUpload, "kind does not match content_type")
	}

	key := fmt.Sprintf("%s/%s/%s%s", kind, owner, p.newID(), extensions[contentType])
	expires := p.now().Add(p.ttl)

	req, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(p.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(p.ttl))
	if err != nil {
		p.logger.ComponentError(logging.ComponentStorage, "Presign failed", zap.String("key", key), zap.Error(err))
		return Ticket{}, errors.NewStorageError("presign upload", err)
	}

	headers := map[string]string{"Content-Type": contentType}
	for name, values := range req.SignedHeader {
		if strings.EqualFold(name, "host") || len(values) == 0 {
			continue
		}
		headers[name] = values[0]
	}

	p.logger.ComponentDebug(logging.ComponentStorage, "Upload presigned",
		zap.String("owner", owner), zap.String("key", key))

	return Ticket{
		UploadURL: req.URL,
		PublicURL: p.publicBase + "/" + (&url.URL{Path: key}).EscapedPath(),
		Key:       key,
		Method:    req.Method,
		Headers:   headers,
		ExpiresAt: expires,
	}, nil
}
