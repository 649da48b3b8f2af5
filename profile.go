package harvest

import (
	"net/url"
	"strings"
)

// Site identifies a site profile.
type Site string

// Known site profiles.
const (
	SiteGeneric          Site = "generic"
	SiteInterviewingBlog Site = "interviewing-io-blog"
	SiteCompanyGuides    Site = "interviewing-io-topics"
	SiteInterviewGuides  Site = "interviewing-io-learn"
	SiteNilBlog          Site = "nilmamano"
	SiteQuillBlog        Site = "quill"
	SiteSubstack         Site = "substack"
)

// SiteProfile bundles the heuristics tailored to one target site: ordered
// CSS selector lists, URL-shape predicates, and per-site defaults. Profiles
// are plain values looked up from a Registry; there is no site-specific
// code outside of them.
type SiteProfile struct {
	ID Site

	// Hosts this profile applies to. A host matches exactly or as a
	// suffix preceded by a dot ("substack.com" matches any subdomain).
	Hosts []string

	// PathPrefix further narrows the match when several profiles share
	// a host (interviewing.io has three).
	PathPrefix string

	// LinkSelectors are tried in order against listing pages.
	LinkSelectors []string

	// URLMustContainAny, when non-empty, requires discovered URLs to
	// contain at least one of the substrings.
	URLMustContainAny []string

	// URLSkip extends the global non-article skip list.
	URLSkip []string

	// AllowedHosts whitelists cross-domain targets in addition to the
	// listing page's own host.
	AllowedHosts []string

	// PaginationSelector, when set, lets discovery follow listing
	// pagination. Total listing pages per site are capped regardless.
	PaginationSelector string
	MaxListingPages    int

	// FeedPath, when set, is resolved against the site URL and parsed
	// as RSS/Atom to seed discovery (e.g. "/feed" on Substack).
	FeedPath string

	// UseSitemap enables sitemap.xml discovery as a fallback when the
	// listing selectors find nothing.
	UseSitemap bool

	// Extraction selector lists, tried before the generic fallbacks.
	TitleSelectors   []string
	AuthorSelectors  []string
	ContentSelectors []string
	StripSelectors   []string

	// DefaultAuthor is applied when no byline is found.
	DefaultAuthor string

	// ContentType assigned to items from this site; empty means infer
	// from URL shape.
	ContentType ContentType
}

// Matches reports whether the profile covers the given URL.
func (p *SiteProfile) Matches(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range p.Hosts {
		if host != h && !strings.HasSuffix(host, "."+h) {
			continue
		}
		if p.PathPrefix == "" || strings.HasPrefix(u.Path, p.PathPrefix) {
			return true
		}
	}
	return false
}

// AllowsURL reports whether a discovered article URL passes the
// profile's URL predicates: same host as the listing page (or one of
// AllowedHosts), containing a required substring when URLMustContainAny
// is set, and free of URLSkip substrings. Every discovery source runs
// its candidates through this, so feed and sitemap entries obey the
// same rules as selector-discovered links.
func (p *SiteProfile) AllowsURL(rawURL, baseURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return false
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Hostname())
	if host != strings.ToLower(base.Hostname()) && !p.hostAllowed(host) {
		return false
	}

	if len(p.URLMustContainAny) > 0 {
		found := false
		for _, substr := range p.URLMustContainAny {
			if strings.Contains(rawURL, substr) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	for _, substr := range p.URLSkip {
		if strings.Contains(rawURL, substr) {
			return false
		}
	}
	return true
}

func (p *SiteProfile) hostAllowed(host string) bool {
	for _, h := range p.AllowedHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}

// ProfileResolver maps a URL to the site profile that should handle it.
type ProfileResolver interface {
	// ProfileFor returns the profile for a URL, falling back to a
	// generic profile when no site-specific one matches.
	ProfileFor(rawURL string) *SiteProfile
}

// Registry is a lookup table of site profiles with a generic fallback.
// First match wins, so more specific profiles must be registered before
// broader ones sharing a host.
type Registry struct {
	profiles []*SiteProfile
	fallback *SiteProfile
}

var _ ProfileResolver = (*Registry)(nil)

// NewRegistry creates a Registry with the given fallback profile.
func NewRegistry(fallback *SiteProfile, profiles ...*SiteProfile) *Registry {
	return &Registry{profiles: profiles, fallback: fallback}
}

// Register appends a profile to the lookup table.
func (r *Registry) Register(p *SiteProfile) {
	r.profiles = append(r.profiles, p)
}

// ProfileFor returns the first matching profile, or the fallback.
func (r *Registry) ProfileFor(rawURL string) *SiteProfile {
	for _, p := range r.profiles {
		if p.Matches(rawURL) {
			return p
		}
	}
	return r.fallback
}

// List returns the registered site identifiers, fallback excluded.
func (r *Registry) List() []Site {
	sites := make([]Site, 0, len(r.profiles))
	for _, p := range r.profiles {
		sites = append(sites, p.ID)
	}
	return sites
}
