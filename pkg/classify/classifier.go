package classify

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/vehicle-catalog/pkg/catalog"
)

var rowsClassified = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "catalog_rows_classified_total",
	Help: "Upstream rows classified by table (\"skipped\" for unmatched rows)",
}, []string{"table"})

// ignoredFields are spreadsheet bookkeeping columns dropped before decoding.
var ignoredFields = []string{"row_number"}

// Stats summarizes one classification pass.
type Stats struct {
	Tables  map[string]int
	Skipped int
}

// Classifier applies an ordered rule list to untyped rows.
type Classifier struct {
	rules  []Rule
	logger zerolog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithProviderRule swaps the insurance/finance provider split of the default
// rules.
func WithProviderRule(rule ProviderRule) Option {
	return func(c *Classifier) {
		c.rules = DefaultRules(rule)
	}
}

// WithRules replaces the whole precedence list.
func WithRules(rules []Rule) Option {
	return func(c *Classifier) {
		c.rules = rules
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Classifier) {
		c.logger = logger
	}
}

// New creates a classifier with the default rules.
func New(opts ...Option) *Classifier {
	c := &Classifier{
		rules:  DefaultRules(nil),
		logger: log.With().Str("component", "classifier").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Table returns the table the first matching rule assigns to row, or "".
func (c *Classifier) Table(row Row) string {
	for _, rule := range c.rules {
		if rule.Match(row) {
			return rule.table(row)
		}
	}
	return ""
}

// Classify sorts rows into tables, preserving their relative order.
// Unmatched rows are skipped and counted; a row whose fields cannot be
// decoded fails the whole pass.
func (c *Classifier) Classify(rows []Row) (catalog.Tables, Stats, error) {
	var tables catalog.Tables
	stats := Stats{Tables: make(map[string]int)}

	for i, row := range rows {
		clean := make(Row, len(row))
		for k, v := range row {
			clean[k] = v
		}
		for _, k := range ignoredFields {
			delete(clean, k)
		}

		table := c.Table(clean)
		if table == "" {
			stats.Skipped++
			rowsClassified.WithLabelValues("skipped").Inc()
			c.logger.Debug().Int("row", i).Msg("Row matched no table")
			continue
		}
		if err := Decode(table, clean, &tables); err != nil {
			return catalog.Tables{}, stats, fmt.Errorf("row %d (%s): %w", i, table, err)
		}
		stats.Tables[table]++
		rowsClassified.WithLabelValues(table).Inc()
	}

	event := c.logger.Debug()
	if stats.Skipped > 0 {
		event = c.logger.Warn()
	}
	event.
		Int("rows", len(rows)).
		Int("skipped", stats.Skipped).
		Interface("tables", stats.Tables).
		Msg("Classified upstream rows")

	return tables, stats, nil
}
