// Package correlate associates asynchronously delivered enrichment results
// with the requests that caused them.
//
// # Contract
//
// The Waiter, one per dispatched query:
//  1. Dispatched → Polling immediately after the outbound request is sent
//  2. Polling → Resolved when a poll tick finds a matching record
//  3. Polling → Polling on no match with budget remaining (bounded sleep,
//     never busy-spinning)
//  4. Polling → TimedOut when the budget is spent; returns the not-found
//     sentinel, never an error
//
// Resolved and TimedOut are terminal. A caller abandoning its request
// cancels the context; the poll loop exits without leaking its timer.
//
// The enrichment service does not echo a request identifier in callback
// bodies, so deterministic joins are impossible from the payload alone. The
// Resolver compensates by embedding a caller-chosen token in the callback
// URL (exact-token correlation, primary) and falling back to heuristic
// comparison of normalized websites and company names (diagnostic path,
// inherently ambiguous under concurrent requests for similar companies).
package correlate
