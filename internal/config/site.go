package config

// SiteConfig holds site-specific configuration for a single host.
// This allows customizing crawl behavior per site without touching the
// global settings, e.g. a stricter page budget for a huge catalog site or
// forcing browser rendering for a JavaScript-only storefront.
type SiteConfig struct {
	// Cookie is an HTTP cookie to send when crawling this site.
	// Format: "name=value" or "name1=value1; name2=value2"
	Cookie string `yaml:"cookie,omitempty"`

	// Headers are custom HTTP headers to include in requests to this site.
	Headers map[string]string `yaml:"headers,omitempty"`

	// MaxPages overrides the global page limit for this site.
	// If zero, the global MaxPages is used (a per-site unlimited budget
	// is not expressible; set the global limit to 0 instead).
	MaxPages int `yaml:"maxPages,omitempty"`

	// MaxDepth overrides the global depth limit for this site.
	// If zero, the global MaxDepth is used.
	MaxDepth int `yaml:"maxDepth,omitempty"`

	// Region overrides the phone-parsing region for this site.
	// Empty inherits the global hint (including "auto" detection).
	Region string `yaml:"region,omitempty"`

	// ForceDynamic renders every page of this site in the headless
	// browser. True here cannot be overridden back to static by the
	// global setting; merging is one-directional.
	ForceDynamic bool `yaml:"forceDynamic,omitempty"`

	// EmailThreshold overrides the global email early-stop threshold.
	// If zero, the global threshold applies.
	EmailThreshold int `yaml:"emailThreshold,omitempty"`

	// PhoneThreshold overrides the global phone early-stop threshold.
	// If zero, the global threshold applies.
	PhoneThreshold int `yaml:"phoneThreshold,omitempty"`
}

// File represents the structure of the .contactscan configuration file.
type File struct {
	// Sites maps hosts to their site-specific configurations.
	// Keys are bare hosts without a scheme (e.g. "www.example.it").
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults contains default site configuration applied to all sites
	// unless overridden in the site-specific configuration.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for a specific host.
// It merges the site-specific configuration with defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	// Start with defaults
	result := cf.Defaults

	// Override with site-specific configuration if present
	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.Cookie != "" {
			result.Cookie = siteConfig.Cookie
		}
		if len(siteConfig.Headers) > 0 {
			if result.Headers == nil {
				result.Headers = make(map[string]string)
			}
			for k, v := range siteConfig.Headers {
				result.Headers[k] = v
			}
		}
		if siteConfig.MaxPages != 0 {
			result.MaxPages = siteConfig.MaxPages
		}
		if siteConfig.MaxDepth != 0 {
			result.MaxDepth = siteConfig.MaxDepth
		}
		if siteConfig.Region != "" {
			result.Region = siteConfig.Region
		}
		if siteConfig.ForceDynamic {
			result.ForceDynamic = true
		}
		if siteConfig.EmailThreshold != 0 {
			result.EmailThreshold = siteConfig.EmailThreshold
		}
		if siteConfig.PhoneThreshold != 0 {
			result.PhoneThreshold = siteConfig.PhoneThreshold
		}
	}

	return result
}
