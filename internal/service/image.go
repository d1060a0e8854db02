package service

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"github.com/tomiwa-code/recipe-share-api/internal/apperr"
	"github.com/tomiwa-code/recipe-share-api/internal/models"
)

// Optimization bounds: source images are fitted into 1200x900 without
// upscaling and re-encoded as JPEG at 80% quality.
const (
	optimizeMaxWidth  = 1200
	optimizeMaxHeight = 900
	optimizeQuality   = 80
)

// s3Client is the slice of the S3 API the image service uses.
type s3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// ImageService optimizes image payloads and stores them in S3.
type ImageService struct {
	client s3Client
	bucket string
	logger *slog.Logger
}

// NewImageService creates a new ImageService instance
func NewImageService(client s3Client, bucket string, logger *slog.Logger) *ImageService {
	return &ImageService{
		client: client,
		bucket: bucket,
		logger: logger,
	}
}

// Optimize decodes data, fits it within the delivery bounds without upscaling
// and re-encodes it as a compressed JPEG.
func (s *ImageService) Optimize(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, apperr.ImageProcessing(err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > optimizeMaxWidth || bounds.Dy() > optimizeMaxHeight {
		img = imaging.Fit(img, optimizeMaxWidth, optimizeMaxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: optimizeQuality}); err != nil {
		return nil, apperr.ImageProcessing(err)
	}
	return buf.Bytes(), nil
}

// Upload applies the requested transform, writes the object to S3 and returns
// its id and public URL.
func (s *ImageService) Upload(ctx context.Context, data []byte, opts UploadOptions) (models.Image, error) {
	if opts.MaxWidth > 0 && opts.MaxHeight > 0 {
		img, err := imaging.Decode(bytes.NewReader(data))
		if err != nil {
			return models.Image{}, apperr.Upload(err)
		}
		if b := img.Bounds(); b.Dx() > opts.MaxWidth || b.Dy() > opts.MaxHeight {
			img = imaging.Fit(img, opts.MaxWidth, opts.MaxHeight, imaging.Lanczos)
			var buf bytes.Buffer
			if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: optimizeQuality}); err != nil {
				return models.Image{}, apperr.Upload(err)
			}
			data = buf.Bytes()
		}
	}

	folder := opts.Folder
	if folder == "" {
		folder = "recipe-images"
	}
	key := fmt.Sprintf("%s/%s.jpg", folder, uuid.New().String())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return models.Image{}, apperr.Upload(err)
	}

	img := models.Image{
		ID:  key,
		URL: fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key),
	}
	s.logger.Debug("uploaded image", "key", key)
	return img, nil
}

// Delete removes a stored object. Callers treat failures as best-effort and
// only log them.
func (s *ImageService) Delete(ctx context.Context, id string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	return err
}
