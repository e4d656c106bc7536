package models

// SiteInfo is the static business information rendered on public pages.
type SiteInfo struct {
	Name         string        `json:"name" yaml:"name"`
	BusinessName string        `json:"business_name" yaml:"business_name"`
	Contact      SiteContact   `json:"contact" yaml:"contact"`
	SEO          SiteSEO       `json:"seo" yaml:"seo"`
	Marketing    SiteMarketing `json:"marketing" yaml:"marketing"`
	Social       SiteSocial    `json:"social" yaml:"social"`
	Copyright    string        `json:"copyright" yaml:"copyright"`
}

type SiteContact struct {
	Email string `json:"email" yaml:"email"`
	Phone string `json:"phone" yaml:"phone"`
}

type SiteSEO struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

type SiteMarketing struct {
	Tagline          string   `json:"tagline" yaml:"tagline"`
	SubTagline       string   `json:"sub_tagline" yaml:"sub_tagline"`
	AboutDescription []string `json:"about_description" yaml:"about_description"`
}

type SiteSocial struct {
	Instagram string `json:"instagram,omitempty" yaml:"instagram"`
	Facebook  string `json:"facebook,omitempty" yaml:"facebook"`
	LinkedIn  string `json:"linkedin,omitempty" yaml:"linkedin"`
	Houzz     string `json:"houzz,omitempty" yaml:"houzz"`
}
