// Package sink ingests callback deliveries from the enrichment service into
// a durable, append-only, concurrently-safe log.
//
// # Contract
//
// The Sink:
//  1. Accepts a raw delivery body (single result object or array of them)
//  2. Splits arrays into one CallbackRecord per element, skipping
//     unparseable elements without failing their siblings
//  3. Appends records under a single mutex; no record is ever lost,
//     duplicated, edited, or removed after ingestion
//  4. Persists each delivery to its own timestamped file (best-effort)
//  5. Hands out immutable Snapshot copies that never change under a reader
//
// There is no reliable foreign key from a callback back to the request that
// caused it. Records carry the correlation token lifted off the callback
// URL when the service echoes one; otherwise matching falls back to
// heuristic field comparison (see internal/match).
package sink
