package services

import "atelier/internal/domain/models"

// SiteProvider exposes the static business information
type SiteProvider interface {
	Info() *models.SiteInfo
}
