// Package server provides the HTTP server: a Gin engine served over
// HTTP/1.1 and h2c on a single port.
//
// Handlers report failures with c.Error; the server hands them, along with
// recovered panics, to the responder installed with HandleErrors, normally
// RespondWithError:
//
//	{"success": false, "err": "..."}
//
// Built-in middleware lives in server/middleware and the /health, /info and
// /version endpoints in server/endpoint.
package server
