package models

import "time"

// HomepageSettingsID is the fixed id of the singleton settings row.
const HomepageSettingsID = 1

// HomepageSlot names a featured image position on the home page.
type HomepageSlot string

const (
	SlotHero  HomepageSlot = "hero"
	SlotAbout HomepageSlot = "about"
)

// HomepageSettings is the singleton row holding the featured image selections.
// HeroImage and AboutImage are resolved from the ids on read.
type HomepageSettings struct {
	ID           int64         `json:"id" db:"id"`
	HeroImageID  *int64        `json:"hero_image_id" db:"hero_image_id"`
	AboutImageID *int64        `json:"about_image_id" db:"about_image_id"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
	HeroImage    *ProjectImage `json:"hero_image,omitempty" db:"-"`
	AboutImage   *ProjectImage `json:"about_image,omitempty" db:"-"`
}

// ImageID returns the image id stored for slot.
func (s *HomepageSettings) ImageID(slot HomepageSlot) *int64 {
	switch slot {
	case SlotHero:
		return s.HeroImageID
	case SlotAbout:
		return s.AboutImageID
	}
	return nil
}

// HomePage is the public home page payload.
type HomePage struct {
	Settings   *HomepageSettings `json:"settings"`
	HeroImage  *ProjectImage     `json:"hero_image"`
	AboutImage *ProjectImage     `json:"about_image"`
	Featured   []Project         `json:"featured"`
	Projects   []Project         `json:"projects"`
	Site       *SiteInfo         `json:"site"`
}
