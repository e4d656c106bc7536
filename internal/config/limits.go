package config

const (
	// MaxProjectNameLength is the maximum length for project names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxProjectNameLength = 255

	// MaxTitleLength applies to image and portfolio item titles.
	MaxTitleLength = 255

	// MaxLocationLength is the maximum length for a project location.
	MaxLocationLength = 255

	// MaxDescriptionLength caps free-text descriptions.
	MaxDescriptionLength = 5000

	// MaxCategoryNameLength is the maximum length for category names.
	MaxCategoryNameLength = 100

	// MaxContactNameLength and MaxContactMessageLength bound public submissions.
	MaxContactNameLength    = 255
	MaxContactMessageLength = 5000

	// MaxUploadBytes is the largest accepted image upload (10MB).
	MaxUploadBytes = 10 << 20

	// DefaultImageMaxWidth is the width uploads are scaled down to.
	DefaultImageMaxWidth = 1920

	// DefaultJPEGQuality is used when re-encoding uploads.
	DefaultJPEGQuality = 85
)
