package service

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"atelier/internal/config"
	"atelier/internal/domain"
	"atelier/internal/domain/services"
	"atelier/internal/metrics"

	"github.com/dustin/go-humanize"
)

// Key prefixes in the blob store
const (
	ProjectImagePrefix  = "project-images"
	PortfolioItemPrefix = "portfolio"
)

// ImageUploader validates, normalizes and stores admin image uploads.
type ImageUploader struct {
	processor services.ImageProcessor
	store     services.BlobStore
	logger    *slog.Logger
	now       func() time.Time
}

// NewImageUploader creates an uploader over a processor and a blob store
func NewImageUploader(processor services.ImageProcessor, store services.BlobStore, logger *slog.Logger) *ImageUploader {
	return &ImageUploader{
		processor: processor,
		store:     store,
		logger:    logger,
		now:       time.Now,
	}
}

// Upload stores file under prefix and returns its public URL.
// Bad input yields ErrValidation; a store failure yields *domain.UploadError.
func (u *ImageUploader) Upload(ctx context.Context, prefix string, file *services.UploadedFile) (string, error) {
	if err := checkUpload(file); err != nil {
		return "", err
	}

	processed, err := u.processor.Process(file)
	if err != nil {
		metrics.Uploads.WithLabelValues(metrics.ResultDenied).Inc()
		return "", fmt.Errorf("%w: invalid image: %v", domain.ErrValidation, err)
	}

	key := u.objectKey(prefix, file.Filename, processed.Extension)
	url, err := u.store.Put(ctx, key, processed.ContentType, processed.Data)
	if err != nil {
		metrics.Uploads.WithLabelValues(metrics.ResultError).Inc()
		u.logger.Error("upload failed", "key", key, "error", err)
		return "", &domain.UploadError{Key: key, Err: err}
	}

	metrics.Uploads.WithLabelValues(metrics.ResultOK).Inc()
	metrics.UploadBytes.Add(float64(len(processed.Data)))
	u.logger.Info("image uploaded",
		"key", key,
		"original", humanize.Bytes(uint64(len(file.Data))),
		"stored", humanize.Bytes(uint64(len(processed.Data))),
		"width", processed.Width,
		"height", processed.Height,
	)

	return url, nil
}

func (u *ImageUploader) objectKey(prefix, filename, ext string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	slug := Slugify(base)
	if slug == "" {
		slug = "image"
	}
	return fmt.Sprintf("%s/%d-%s%s", prefix, u.now().UnixMilli(), slug, ext)
}

func checkUpload(file *services.UploadedFile) error {
	if file == nil || len(file.Data) == 0 {
		return fmt.Errorf("%w: file is required", domain.ErrValidation)
	}
	if !strings.HasPrefix(file.ContentType, "image/") {
		return fmt.Errorf("%w: file must be an image", domain.ErrValidation)
	}
	if len(file.Data) > config.MaxUploadBytes {
		return fmt.Errorf("%w: file exceeds %s", domain.ErrValidation, humanize.IBytes(uint64(config.MaxUploadBytes)))
	}
	return nil
}

// Slugify lowercases s and joins runs of letters and digits with single dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if r < 128 && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
