// Package finlight is a Go client for the finlight financial-news
// platform: a real-time WebSocket article stream plus a REST facade and
// webhook verifier against the same data.
//
// # Overview
//
// finlight-go has three independent surfaces, each usable on its own:
//
//	┌─────────────────────────────────────┐
//	│         stream.EnrichedClient        │  Persistent WebSocket
//	│         stream.RawClient             │  wss://wss.finlight.me
//	└─────────────────────────────────────┘
//	┌─────────────────────────────────────┐
//	│              rest.Client             │  Request/response
//	│                                      │  https://api.finlight.me
//	└─────────────────────────────────────┘
//	┌─────────────────────────────────────┐
//	│           webhook.Verify             │  Inbound delivery
//	│                                      │  signature check
//	└─────────────────────────────────────┘
//
// # Streaming
//
// EnrichedClient and RawClient each own a single supervised WebSocket
// connection: dial, subscribe, and then a connect/run/close/backoff cycle
// that reconnects on any transient disconnect. Enriched articles are
// deduplicated across reconnects; raw articles are delivered without
// duplicate suppression.
//
//	client := stream.NewEnrichedClient(func(a stream.Article) {
//	    log.Println(a.Title)
//	}, stream.WithAPIKey(apiKey))
//	client.Start(map[string]any{})
//	defer client.Stop()
//	<-client.Done()
//
// The connection is rotated proactively before the server would otherwise
// close it, paced by a ping/pong heartbeat independent of the rotation
// timer, so a stalled peer is detected and replaced well before the next
// scheduled rotation would fire.
//
// # REST
//
//	articles, err := rest.NewClient(apiKey).GetArticles(ctx, url.Values{
//	    "query": {"federal reserve"},
//	})
//
// rest.Client decodes the same wire shape the streaming clients do, so
// both surfaces hand callers an identical stream.Article. Requests retry
// on 429, 500, 502, 503 and 504 with exponential backoff; any other
// non-2xx status fails immediately.
//
// # Webhooks
//
//	err := webhook.Verify(secret, body, r.Header.Get("X-Finlight-Signature"), &ts)
//
// Verify is a pure function: no network calls, no client construction,
// just the HMAC check a webhook receiver needs before trusting a payload.
//
// # Observability
//
// The stream clients and rest.Client accept WithMetrics(registry) to record connection
// status, message throughput, retry counts, and request latency to a
// shared Prometheus registry; none of it is required to use the client.
package finlight
