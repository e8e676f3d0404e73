// Package feeds fetches and normalizes RSS/Atom feeds from a configured
// registry of news sources.
package feeds

// Source describes one RSS/Atom feed in the registry.
type Source struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
	Limit    int    `yaml:"limit"`
	Enabled  bool   `yaml:"enabled"`
}

// defaultSources is the built-in feed registry.
var defaultSources = []Source{
	{Name: "TechCrunch", URL: "https://techcrunch.com/feed/", Category: "technology", Limit: 15, Enabled: true},
	{Name: "The Verge", URL: "https://www.theverge.com/rss/index.xml", Category: "technology", Limit: 15, Enabled: true},
	{Name: "Ars Technica", URL: "https://feeds.arstechnica.com/arstechnica/index", Category: "technology", Limit: 10, Enabled: true},
	{Name: "Wired", URL: "https://www.wired.com/feed/rss", Category: "technology", Limit: 10, Enabled: true},
	{Name: "Engadget", URL: "https://www.engadget.com/rss.xml", Category: "technology", Limit: 10, Enabled: true},
	{Name: "Hacker News", URL: "https://hnrss.org/frontpage", Category: "technology", Limit: 20, Enabled: true},
	{Name: "AI News (MIT)", URL: "http://news.mit.edu/topic/mitartificial-intelligence2-rss.xml", Category: "ai", Limit: 10, Enabled: true},
	{Name: "DeepMind Blog", URL: "https://deepmind.google/blog/rss.xml", Category: "ai", Limit: 5, Enabled: true},
	{Name: "CoinDesk", URL: "https://www.coindesk.com/arc/outboundfeeds/rss/", Category: "crypto", Limit: 10, Enabled: true},
	{Name: "Decrypt", URL: "https://decrypt.co/feed", Category: "crypto", Limit: 10, Enabled: true},
	{Name: "VentureBeat", URL: "https://venturebeat.com/feed/", Category: "business", Limit: 10, Enabled: true},
	{Name: "BBC News", URL: "http://feeds.bbci.co.uk/news/rss.xml", Category: "general", Limit: 10, Enabled: true},
}

// Registry holds the configured feed sources.
type Registry struct {
	sources []Source
}

// NewRegistry creates a registry from the given sources; with none given,
// the built-in defaults are used.
func NewRegistry(sources ...Source) *Registry {
	if len(sources) == 0 {
		sources = defaultSources
	}
	return &Registry{sources: sources}
}

// Enabled returns all enabled sources.
func (r *Registry) Enabled() []Source {
	out := make([]Source, 0, len(r.sources))
	for _, s := range r.sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// ByCategory returns all enabled sources in the given category.
func (r *Registry) ByCategory(category string) []Source {
	out := make([]Source, 0, len(r.sources))
	for _, s := range r.sources {
		if s.Enabled && s.Category == category {
			out = append(out, s)
		}
	}
	return out
}
