// Package postal resolves Indian PIN codes to official post-office records.
// Lookups are served from an injectable Store first; only misses reach the
// upstream postal-code service, and every outcome (verified or not) is cached.
package postal
