// Package api serves the locate engine and the map catalog over HTTP.
//
// Routes:
//
//	POST /v1/locate      locate hits on maps (JSON, or plain text with ?format=plain)
//	GET  /v1/maps        list the catalog
//	GET  /v1/maps/{id}   one map with its database group
//	GET  /healthz        liveness
//
// Requests are logged as structured JSON with zap and locate calls are
// throttled with a token bucket.
package api
