// Package catalog defines the vehicle catalog data model: the nine upstream
// table kinds, the immutable Snapshot that groups them, and the error kinds
// shared by the pricing, aggregation and cache packages.
//
// A Snapshot is never mutated once it has been handed to the cache. A refresh
// builds a new Snapshot that replaces the old one as a whole.
//
// # Tables
//
//   - models, variants, colors, components
//   - pricing (base rules without a pincode range, location rules with one)
//   - insurance_providers, insurance_plans
//   - finance_providers, finance_options
package catalog
