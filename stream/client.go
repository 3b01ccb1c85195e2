package stream

import "encoding/json"

// EnrichedClient streams fully enriched articles (sentiment, companies,
// categories, countries) from the default stream endpoint, with
// duplicate suppression enabled (spec §4.9).
type EnrichedClient struct {
	engine *engine
}

// NewEnrichedClient constructs a client against wssUrl (no path suffix).
// apiKey must be supplied via WithAPIKey.
func NewEnrichedClient(sink func(Article), opts ...ClientOption) *EnrichedClient {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	variant := &variantConfig{
		label:        "enriched",
		pathSuffix:   "",
		dedupEnabled: true,
		deliver: func(data json.RawMessage, dedup *dedupSet, metrics metricsSink) error {
			article, err := TransformEnriched(data)
			if err != nil {
				return err
			}
			if dedup != nil && article.Link != "" && dedup.SeenOrAdd(article.Link) {
				metrics.articleSuppressed()
				return nil
			}
			metrics.articleDelivered()
			sink(article)
			return nil
		},
	}

	return &EnrichedClient{engine: newEngine(cfg, variant)}
}

// Start begins the supervised connection loop with the given
// subscription parameters. It returns immediately; delivery happens on
// a background goroutine until Stop is called.
func (c *EnrichedClient) Start(params map[string]any) {
	c.engine.Start(params)
}

// Stop is idempotent and safe to call from any goroutine (spec §4.1,
// §5).
func (c *EnrichedClient) Stop() {
	c.engine.Stop()
}

// Done is closed once the supervisor loop has exited for good, after
// Stop or a permanent-stop condition.
func (c *EnrichedClient) Done() <-chan struct{} {
	return c.engine.Done()
}

// RawClient streams articles without enrichment and without duplicate
// suppression, from the `/raw` endpoint (spec §4.9).
type RawClient struct {
	engine *engine
}

// NewRawClient constructs a client against wssUrl + "/raw".
func NewRawClient(sink func(RawArticle), opts ...ClientOption) *RawClient {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	variant := &variantConfig{
		label:        "raw",
		pathSuffix:   "/raw",
		dedupEnabled: false,
		deliver: func(data json.RawMessage, dedup *dedupSet, metrics metricsSink) error {
			article, err := TransformRaw(data)
			if err != nil {
				return err
			}
			metrics.articleDelivered()
			sink(article)
			return nil
		},
	}

	return &RawClient{engine: newEngine(cfg, variant)}
}

func (c *RawClient) Start(params map[string]any) {
	c.engine.Start(params)
}

func (c *RawClient) Stop() {
	c.engine.Stop()
}

func (c *RawClient) Done() <-chan struct{} {
	return c.engine.Done()
}
