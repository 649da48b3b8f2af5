// Package goquery provides CSS-selector based implementations of link
// discovery and article extraction, driven by per-site profiles.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/harvestlabs/harvest"
)

// defaultLinkSelectors are used when a profile declares none.
var defaultLinkSelectors = []string{
	"article a[href]",
	"h1 a[href], h2 a[href], h3 a[href]",
	".post a[href], .post-title a[href], .entry-title a[href]",
	"a[href]",
}

// skipPathParts mark URL shapes that are never articles.
var skipPathParts = []string{
	"/tag/", "/tags/", "/category/", "/categories/", "/author/",
	"/login", "/signin", "/signup", "/subscribe",
	"/privacy", "/terms", "/contact", "/about",
	"/api/", "/admin/", "/cdn-cgi/",
}

// skipExtensions mark binary or non-HTML targets.
var skipExtensions = []string{
	".pdf", ".zip", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".webp",
	".mp3", ".mp4", ".css", ".js", ".xml", ".ico",
}

// Ensure Discoverer implements harvest.LinkDiscoverer at compile time.
var _ harvest.LinkDiscoverer = (*Discoverer)(nil)

// Discoverer finds article URLs on listing pages using the profile's CSS
// selectors and URL predicates.
type Discoverer struct{}

// NewDiscoverer creates a new Discoverer.
func NewDiscoverer() *Discoverer {
	return &Discoverer{}
}

// Discover parses the listing HTML and returns absolute article URLs in
// first-occurrence order, deduplicated across overlapping selectors.
func (d *Discoverer) Discover(html string, baseURL string, profile *harvest.SiteProfile) ([]string, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "invalid base URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, harvest.Errorf(harvest.EINVALID, "failed to parse HTML: %v", err)
	}

	selectors := defaultLinkSelectors
	if profile != nil && len(profile.LinkSelectors) > 0 {
		selectors = profile.LinkSelectors
	}

	var urls []string
	seen := make(map[string]bool)

	collect := func(raw string) {
		resolved := d.normalize(base, raw)
		if resolved == "" || seen[resolved] {
			return
		}
		if !d.accept(base, resolved, profile) {
			return
		}
		seen[resolved] = true
		urls = append(urls, resolved)
	}

	for _, selector := range selectors {
		doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
			if href, ok := sel.Attr("href"); ok {
				collect(href)
			}
		})
	}

	// Some listings render cards with data-href instead of anchors.
	doc.Find("[data-href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("data-href"); ok {
			collect(href)
		}
	})

	return urls, nil
}

// PaginationURL returns the next listing page per the profile's pagination
// selector. The second result is false when the profile declares no
// selector or no next link is present.
func (d *Discoverer) PaginationURL(html string, baseURL string, profile *harvest.SiteProfile) (string, bool) {
	if profile == nil || profile.PaginationSelector == "" {
		return "", false
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return "", false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", false
	}

	var next string
	doc.Find(profile.PaginationSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok {
			return true
		}
		resolved := d.normalize(base, href)
		if resolved == "" || resolved == baseURL {
			return true
		}
		next = resolved
		return false
	})
	return next, next != ""
}

// normalize resolves href against base and strips fragments. Returns ""
// for non-navigable links.
func (d *Discoverer) normalize(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	lower := strings.ToLower(href)
	for _, scheme := range []string{"mailto:", "tel:", "javascript:", "data:"} {
		if strings.HasPrefix(lower, scheme) {
			return ""
		}
	}

	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	resolved.Fragment = ""
	return resolved.String()
}

// accept applies host and URL-shape predicates.
func (d *Discoverer) accept(base *url.URL, resolved string, profile *harvest.SiteProfile) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}

	if !sameHost(base, u) && !allowedHost(u, profile) {
		return false
	}

	path := strings.ToLower(u.Path)
	if path == "" || path == "/" {
		return false
	}
	for _, part := range skipPathParts {
		if strings.Contains(path, part) {
			return false
		}
	}
	for _, ext := range skipExtensions {
		if strings.HasSuffix(path, ext) {
			return false
		}
	}

	if profile != nil {
		for _, skip := range profile.URLSkip {
			if strings.Contains(resolved, skip) {
				return false
			}
		}
		if len(profile.URLMustContainAny) > 0 {
			found := false
			for _, part := range profile.URLMustContainAny {
				if strings.Contains(resolved, part) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}

	return true
}

func sameHost(base *url.URL, u *url.URL) bool {
	return strings.EqualFold(u.Hostname(), base.Hostname())
}

func allowedHost(u *url.URL, profile *harvest.SiteProfile) bool {
	if profile == nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, allowed := range profile.AllowedHosts {
		if host == allowed || strings.HasSuffix(host, "."+allowed) {
			return true
		}
	}
	return false
}
