package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"atelier/internal/config"
	"atelier/internal/domain/services"
)

// maxJSONBody caps JSON request bodies
const maxJSONBody = 1 << 20

// ParseJSON decodes JSON from the request body into the given destination.
// It limits the request body size to prevent abuse and provides clear error messages.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	// Limit request body (requires w for proper 413 response)
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

// PathID parses a positive integer path value
func PathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return id, nil
}

// QueryID parses an optional positive integer query parameter.
// Returns nil when the parameter is absent.
func QueryID(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid %s: %q", name, raw)
	}
	return &id, nil
}

// ParseMultipart reads a multipart form limited to the upload size plus form overhead.
func ParseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes+maxJSONBody)
	if err := r.ParseMultipartForm(config.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("file exceeds %d bytes", config.MaxUploadBytes)
		}
		return fmt.Errorf("invalid multipart form: %w", err)
	}
	return nil
}

// FormFile returns the named upload, or nil when the field is absent.
// Call ParseMultipart first.
func FormFile(r *http.Request, field string) (*services.UploadedFile, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, config.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	if len(data) > config.MaxUploadBytes {
		return nil, fmt.Errorf("file exceeds %d bytes", config.MaxUploadBytes)
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return &services.UploadedFile{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

// FormText returns a form value and whether the field was sent at all
func FormText(r *http.Request, field string) (string, bool) {
	if r.MultipartForm != nil {
		if v, ok := r.MultipartForm.Value[field]; ok && len(v) > 0 {
			return v[0], true
		}
	}
	if v, ok := r.PostForm[field]; ok && len(v) > 0 {
		return v[0], true
	}
	return "", false
}

// FormOptional maps a form field to PATCH semantics.
// An absent field leaves the value alone; an empty one clears it.
func FormOptional(r *http.Request, field string) OptionalString {
	v, ok := FormText(r, field)
	if !ok {
		return OptionalString{}
	}
	if strings.TrimSpace(v) == "" {
		return OptionalString{Present: true}
	}
	return OptionalString{Present: true, Value: &v}
}

// FormStringPtr returns a pointer to the field value, or nil when absent
func FormStringPtr(r *http.Request, field string) *string {
	v, ok := FormText(r, field)
	if !ok {
		return nil
	}
	return &v
}
