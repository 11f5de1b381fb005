package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/vehicle-catalog/pkg/catalog"
	"github.com/Sternrassler/vehicle-catalog/pkg/classify"
)

// SourceWebhook is the Source of webhook snapshots.
const SourceWebhook = "webhook"

// WebhookConfig configures a Webhook loader.
type WebhookConfig struct {
	// URL serves normal loads.
	URL string

	// DebugURL serves debug loads. Empty means URL.
	DebugURL string

	// Timeout bounds a single attempt.
	Timeout time.Duration

	// Retries is the number of retries after a failed attempt.
	Retries int

	// RetryWait is the initial backoff between attempts.
	RetryWait time.Duration

	// Classifier sorts rows into tables. Nil means classify.New().
	Classifier *classify.Classifier
}

// DefaultWebhookConfig returns the default retry and timeout settings.
func DefaultWebhookConfig() WebhookConfig {
	return WebhookConfig{
		Timeout:   30 * time.Second,
		Retries:   2,
		RetryWait: 500 * time.Millisecond,
	}
}

// Webhook loads untyped rows from an HTTP endpoint.
type Webhook struct {
	client     *resty.Client
	url        string
	debugURL   string
	classifier *classify.Classifier
	logger     zerolog.Logger
}

// NewWebhook creates a webhook loader. A zero Timeout or RetryWait takes the
// DefaultWebhookConfig value.
func NewWebhook(cfg WebhookConfig) *Webhook {
	def := DefaultWebhookConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = def.RetryWait
	}
	if cfg.DebugURL == "" {
		cfg.DebugURL = cfg.URL
	}
	if cfg.Classifier == nil {
		cfg.Classifier = classify.New()
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(cfg.RetryWait).
		SetRetryMaxWaitTime(10*cfg.RetryWait).
		SetHeader("Accept", "application/json").
		AddRetryCondition(retryCondition)

	return &Webhook{
		client:     client,
		url:        cfg.URL,
		debugURL:   cfg.DebugURL,
		classifier: cfg.Classifier,
		logger:     log.With().Str("component", "webhook-loader").Logger(),
	}
}

// Load implements Loader.
func (w *Webhook) Load(ctx context.Context, debug bool) (*catalog.Snapshot, error) {
	endpoint := w.url
	if debug {
		endpoint = w.debugURL
	}
	w.logger.Debug().Str("url", endpoint).Bool("debug", debug).Msg("Fetching catalog rows")

	start := time.Now()
	resp, err := w.client.R().SetContext(ctx).Get(endpoint)
	if err != nil {
		return nil, &UpstreamError{URL: endpoint, ErrorClass: ErrorClassNetwork, Err: err}
	}
	if resp.IsError() {
		uerr := &UpstreamError{
			URL:        endpoint,
			StatusCode: resp.StatusCode(),
			ErrorClass: classifyStatus(resp.StatusCode(), nil),
		}
		w.logger.Warn().
			Int("status", uerr.StatusCode).
			Str("error_class", string(uerr.ErrorClass)).
			Str("url", endpoint).
			Msg("Upstream responded with error status")
		return nil, uerr
	}

	var rows []classify.Row
	if err := json.Unmarshal(resp.Body(), &rows); err != nil {
		return nil, fmt.Errorf("decode upstream rows: %w", err)
	}

	tables, stats, err := w.classifier.Classify(rows)
	if err != nil {
		return nil, err
	}

	w.logger.Info().
		Int("rows", len(rows)).
		Int("skipped", stats.Skipped).
		Dur("duration", time.Since(start)).
		Msg("Catalog rows fetched")
	return catalog.NewSnapshot(SourceWebhook, tables), nil
}
