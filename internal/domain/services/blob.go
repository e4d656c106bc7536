package services

import "context"

// BlobStore stores a named payload and returns its public URL.
type BlobStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// ProcessedImage is an upload after resizing and re-encoding.
type ProcessedImage struct {
	Data        []byte
	ContentType string
	Extension   string
	Width       int
	Height      int
}

// ImageProcessor normalizes uploaded images before storage.
type ImageProcessor interface {
	Process(file *UploadedFile) (*ProcessedImage, error)
}
