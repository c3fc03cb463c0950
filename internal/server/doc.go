// Package server exposes the correlation engine over HTTP.
//
// # Endpoints
//
//	POST /callbacks   webhook ingress for the enrichment service; body is a
//	                  single result object or an array of them; 200 on any
//	                  structurally valid input, 400 on malformed JSON, 429
//	                  over the per-source rate limit
//	GET  /callbacks   full ordered sink contents as JSON
//	POST /resolve     dispatch an enrichment request and wait for the
//	                  matching callback; answers the candidate or the
//	                  not-found sentinel with its outcome
//	POST /dispatch    fire-and-forget dispatch; answers the correlation token
//	GET  /healthz     liveness
//
// The correlation token rides on the callback URL as the "token" query
// parameter; the ingress handler lifts it off the request and stamps every
// record ingested from that delivery.
package server
