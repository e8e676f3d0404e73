// Package metrics exposes Prometheus counters for the newsgram pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the pipeline's Prometheus collectors.
type Metrics struct {
	ArticlesScraped    prometheus.Counter
	ArticlesExtracted  prometheus.Counter
	ArticlesClassified prometheus.Counter
	PostsGenerated     prometheus.Counter
	StageFailures      *prometheus.CounterVec
}

// New registers pipeline collectors on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ArticlesScraped: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsgram_articles_scraped_total",
			Help: "Number of new articles ingested from feeds.",
		}),
		ArticlesExtracted: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsgram_articles_extracted_total",
			Help: "Number of articles whose content came from full-page extraction.",
		}),
		ArticlesClassified: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsgram_articles_classified_total",
			Help: "Number of articles successfully classified.",
		}),
		PostsGenerated: factory.NewCounter(prometheus.CounterOpts{
			Name: "newsgram_posts_generated_total",
			Help: "Number of Instagram posts generated.",
		}),
		StageFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "newsgram_stage_failures_total",
			Help: "Number of per-item failures by pipeline stage.",
		}, []string{"stage"}),
	}
}
