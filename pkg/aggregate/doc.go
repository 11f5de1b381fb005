// Package aggregate builds the user-facing catalog views (vehicles, pricing,
// insurance, financing) from a snapshot and request parameters.
//
// Every function here is pure: it reads the snapshot, performs no I/O and
// returns the same output for the same input. Failures are *catalog.Error
// values of kind InvalidInput or NotFound.
package aggregate
