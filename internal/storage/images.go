// Package storage uploads menu item photos to S3 and hands back a
// publicly resolvable URL. Operators who pick an emoji instead never
// touch this path.
package storage

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"juicepos/config"
)

// MaxImageSize caps uploads at 2 MiB.
const MaxImageSize = 2 << 20

var (
	ErrImageTooLarge = errors.New("image exceeds the 2 MiB limit")
	ErrNotAnImage    = errors.New("file is not an image")
)

// ValidateImage enforces the size cap and image MIME requirement.
func ValidateImage(size int64, contentType string) error {
	if size > MaxImageSize {
		return ErrImageTooLarge
	}
	if !strings.HasPrefix(contentType, "image/") {
		return ErrNotAnImage
	}
	return nil
}

type Uploader struct {
	client        *s3.Client
	bucket        string
	region        string
	publicBaseURL string
}

func NewUploader(ctx context.Context, cfg config.StorageConfig) (*Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &Uploader{
		client:        s3.NewFromConfig(awsCfg),
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// UploadMenuImage validates and stores one uploaded file, returning
// its public URL.
func (u *Uploader) UploadMenuImage(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	// Sniff the real content type instead of trusting the client header.
	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && n == 0 {
		return "", err
	}
	contentType := http.DetectContentType(head[:n])

	if err := ValidateImage(fileHeader.Size, contentType); err != nil {
		return "", err
	}

	if _, err := file.Seek(0, 0); err != nil {
		return "", err
	}

	key := "menu-items/" + uuid.NewString() + path.Ext(fileHeader.Filename)
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &u.bucket,
		Key:           &key,
		Body:          file,
		ContentType:   &contentType,
		ContentLength: &fileHeader.Size,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	return u.publicURL(key), nil
}

func (u *Uploader) publicURL(key string) string {
	if u.publicBaseURL != "" {
		return u.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key)
}
