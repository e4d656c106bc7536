// Package site loads the static business information shown on public pages.
package site

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"atelier/internal/domain/models"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

const defaultFile = "config/site.yaml"

// Registry holds the loaded site information
type Registry struct {
	info *models.SiteInfo
	mu   sync.RWMutex
}

// NewRegistry loads the embedded defaults, then overlays path when it is set
func NewRegistry(path string) (*Registry, error) {
	data, err := configFiles.ReadFile(defaultFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", defaultFile, err)
	}

	var info models.SiteInfo
	if err := yaml.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s: %w", defaultFile, err)
	}

	if path != "" {
		override, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		// Fields absent from the override keep their defaults.
		if err := yaml.Unmarshal(override, &info); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", path, err)
		}
	}

	if err := validate(&info); err != nil {
		return nil, err
	}
	info.Copyright = copyright(info.Copyright, time.Now().Year())

	return &Registry{info: &info}, nil
}

// Info returns a copy of the site information
func (r *Registry) Info() *models.SiteInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info := *r.info
	info.Marketing.AboutDescription = append([]string(nil), r.info.Marketing.AboutDescription...)
	return &info
}

func validate(info *models.SiteInfo) error {
	var missing []string
	if strings.TrimSpace(info.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(info.Contact.Email) == "" {
		missing = append(missing, "contact.email")
	}
	if len(missing) > 0 {
		return errors.New("site config missing " + strings.Join(missing, ", "))
	}
	return nil
}

func copyright(owner string, year int) string {
	if owner == "" {
		return ""
	}
	return fmt.Sprintf("© %d %s", year, owner)
}
