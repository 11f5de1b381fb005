// Package loader fetches the catalog tables from an upstream source.
//
// Three sources are supported:
//
//   - Webhook: an HTTP endpoint returning a JSON array of untyped rows, sorted
//     into tables by the classify package. A separate debug endpoint serves
//     bypass loads.
//   - SQL: one database table per catalog table, read in parallel through gorm.
//   - Workbook: an .xlsx file. Sheets named after a table decode directly;
//     any other sheet is classified row by row.
//
// Wrap a source with Instrument to validate every snapshot it produces and
// record load durations:
//
//	src := loader.NewWebhook(loader.WebhookConfig{URL: url})
//	coord := cache.NewCoordinator(loader.Instrument("webhook", src))
package loader
