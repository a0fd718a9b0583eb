// Package api is the thin HTTP adapter between the session store and the HR
// backend. It owns request construction (bearer injection, request IDs,
// JSON bodies), response decoding, and the error taxonomy the flows depend
// on: an *Error carries an HTTP status and the server-supplied message,
// while any other failure is transport-level and therefore retryable.
//
// The adapter is stateless; the session supplies the credential on every
// call. It never persists anything and never interprets authorization —
// a 401 is reported, not acted on.
package api
