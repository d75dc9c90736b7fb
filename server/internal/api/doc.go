// Package api implements the HTTP REST API for dlc-server.
//
// New(store, opts) returns an http.Handler that serves:
//
//	GET    /api/v1/health                      match count and uptime
//	GET    /api/v1/categories                  categories with their G50
//	GET    /api/v1/resources?overs=&wickets=   resource percentage lookup
//	GET    /api/v1/matches                     all live matches
//	POST   /api/v1/matches                     create a match (201)
//	GET    /api/v1/matches/{id}                one match; 404 if unknown or stale
//	DELETE /api/v1/matches/{id}                remove a match (204)
//	POST   /api/v1/matches/{id}/interruptions  record a stoppage
//	POST   /api/v1/matches/{id}/target         set team 1's total, compute the target
//	POST   /api/v1/calculate                   stateless target from a match snapshot
//	GET    /api/v1/events                      recent target changes
//
// All endpoints respond with Content-Type: application/json. Errors carry
// {"error": message, "kind": kind}; calculation errors use the dls error
// kinds and map to 422, except out-of-range lookups and malformed requests
// which map to 400.
//
// JSON types are defined in types.go. No external HTTP framework is used.
package api
