// Package api implements the JSON HTTP boundary of the triage service.
//
// Routes (all JSON):
//
//	POST /api/v1/query            knowledge-base query, nothing persisted
//	POST /api/v1/tickets/agent    run a ticket through the triage pipeline
//	POST /api/v1/tickets/feedback record a human label on a ticket
//	GET  /api/v1/tickets          list processed tickets (skip/limit)
//	GET  /health                  liveness probe
//	GET  /ready                   readiness probe (database ping)
//
// The middleware stack, outermost first: recovery, request ID, logging, CORS,
// rate limiting. Health probes sit outside the stack so orchestrators are
// never rate limited or logged per-probe.
package api
