// Package api implements the HTTP surface of cortex-api.
//
// Routes are registered on a net/http ServeMux with method+path patterns
// and protected by composed middleware: the bootstrap gate wraps the whole
// mux, bearer authentication and role checks guard the management routes,
// and the public-key gate guards the machine endpoints.
//
// Every response is the envelope {isOk, status, message} plus payload
// fields; writeError maps domain errors onto it.
package api
