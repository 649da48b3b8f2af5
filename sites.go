package harvest

// Builtin site profiles for the fixed scraping assignment. Selector lists
// are ordered most-specific first; discovery tries every selector and
// collapses overlapping matches into a set.

// GenericProfile covers any site without a dedicated profile.
func GenericProfile() *SiteProfile {
	return &SiteProfile{
		ID: SiteGeneric,
		LinkSelectors: []string{
			`a[href*="/blog/"]`,
			`a[href*="/post/"]`,
			`a[href*="/article/"]`,
			`.post-title a`,
			`.entry-title a`,
			`.article-title a`,
			`article a[href]`,
			`h2 a[href]`,
			`h3 a[href]`,
		},
		MaxListingPages: 1,
		UseSitemap:      true,
	}
}

// InterviewingBlogProfile covers interviewing.io/blog.
func InterviewingBlogProfile() *SiteProfile {
	return &SiteProfile{
		ID:         SiteInterviewingBlog,
		Hosts:      []string{"interviewing.io"},
		PathPrefix: "/blog",
		LinkSelectors: []string{
			`a[href*="/blog/"]`,
			`.post-title a`,
			`.entry-title a`,
			`h1 a[href]`, `h2 a[href]`, `h3 a[href]`,
			`.card a[href*="/blog/"]`,
			`article a[href*="/blog/"]`,
		},
		URLMustContainAny:  []string{"/blog/"},
		PaginationSelector: `a[rel="next"], .pagination a[href*="page"]`,
		MaxListingPages:    20,
		TitleSelectors:     []string{`h1.post-title`, `h1.entry-title`},
		AuthorSelectors:    []string{`.author-name`, `.byline-author`, `.post-author a`},
		ContentType:        ContentTypeBlog,
	}
}

// CompanyGuidesProfile covers interviewing.io/topics (company guides).
func CompanyGuidesProfile() *SiteProfile {
	return &SiteProfile{
		ID:         SiteCompanyGuides,
		Hosts:      []string{"interviewing.io"},
		PathPrefix: "/topics",
		LinkSelectors: []string{
			`a[href*="/guides/"]`,
			`a[href*="/topics/"]`,
			`a[href*="/companies/"]`,
			`a[href*="hiring-process"]`,
			`a[href*="interview-questions"]`,
			`.guide a[href]`,
			`.topic a[href]`,
		},
		URLMustContainAny: []string{"/guides/", "/topics/", "/companies/", "hiring-process", "interview-questions"},
		MaxListingPages:   1,
		ContentType:       ContentTypeGuide,
	}
}

// InterviewGuidesProfile covers interviewing.io/learn (interview guides).
func InterviewGuidesProfile() *SiteProfile {
	return &SiteProfile{
		ID:         SiteInterviewGuides,
		Hosts:      []string{"interviewing.io"},
		PathPrefix: "/learn",
		LinkSelectors: []string{
			`a[href*="/learn/"]`,
			`a[href*="/guides/"]`,
			`a[href*="interview"]`,
			`.interview-guide a[href]`,
			`.learn a[href]`,
		},
		URLMustContainAny: []string{"/learn/", "/guides/", "interview"},
		MaxListingPages:   1,
		ContentType:       ContentTypeInterviewGuide,
	}
}

// NilBlogProfile covers nilmamano.com/blog including category pages.
func NilBlogProfile() *SiteProfile {
	return &SiteProfile{
		ID:    SiteNilBlog,
		Hosts: []string{"nilmamano.com"},
		LinkSelectors: []string{
			`a[href*="/blog/"]`,
			`.post-title a`,
			`article a[href]`,
			`h2 a[href]`, `h3 a[href]`,
		},
		URLMustContainAny: []string{"/blog/"},
		URLSkip:           []string{"/blog/category/"},
		MaxListingPages:   5,
		DefaultAuthor:     "Nil Mamano",
		ContentType:       ContentTypeBlog,
	}
}

// QuillBlogProfile covers quill.co/blog. The site renders most of its
// listing client-side, so discovery often finds nothing and the runner
// falls back to extracting the listing page itself.
func QuillBlogProfile() *SiteProfile {
	return &SiteProfile{
		ID:    SiteQuillBlog,
		Hosts: []string{"quill.co"},
		LinkSelectors: []string{
			`a[href*="/blog/"]`,
			`[data-href*="/blog/"]`,
			`h2 a[href]`, `h3 a[href]`,
		},
		URLMustContainAny: []string{"/blog/"},
		MaxListingPages:   1,
		DefaultAuthor:     "Quill Team",
		ContentType:       ContentTypeBlog,
	}
}

// SubstackProfile covers any *.substack.com newsletter archive. Substack
// also exposes an RSS feed, which discovery merges with the selector
// results.
func SubstackProfile() *SiteProfile {
	return &SiteProfile{
		ID:    SiteSubstack,
		Hosts: []string{"substack.com"},
		LinkSelectors: []string{
			`a[href*="/p/"]`,
			`.post-preview-title a`,
			`.post-title a`,
			`.archive-item a[href]`,
			`h3 a[href]`, `h2 a[href]`,
			`[data-href*="/p/"]`,
		},
		URLMustContainAny:  []string{"/p/"},
		FeedPath:           "/feed",
		MaxListingPages:    3,
		PaginationSelector: `a[href*="/archive?"]`,
		TitleSelectors:     []string{`h1.post-title`, `h1[class*="headline"]`},
		AuthorSelectors:    []string{`.byline-names a`, `a[href*="/profile/"]`, `[class*="byline"]`},
		ContentSelectors:   []string{`.available-content`, `.body.markup`, `.post .body`},
		ContentType:        ContentTypeBlog,
	}
}

// DefaultRegistry returns a registry with all builtin profiles. Order
// matters for the three interviewing.io profiles, which disambiguate by
// path prefix.
func DefaultRegistry() *Registry {
	return NewRegistry(
		GenericProfile(),
		InterviewingBlogProfile(),
		CompanyGuidesProfile(),
		InterviewGuidesProfile(),
		NilBlogProfile(),
		QuillBlogProfile(),
		SubstackProfile(),
	)
}

// AssignmentSites lists the listing URLs of the fixed multi-site run.
func AssignmentSites() []string {
	return []string{
		"https://interviewing.io/blog",
		"https://interviewing.io/topics",
		"https://interviewing.io/learn",
		"https://nilmamano.com/blog",
		"https://quill.co/blog",
		"https://shreycation.substack.com/archive",
	}
}
