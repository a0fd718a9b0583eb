// Package jwt inspects bearer credentials without verifying them.
//
// The client never holds signing keys, so it cannot (and must not) validate
// a token cryptographically — that is the backend's job on every request.
// What the client can do is read the unverified expiry claim of a persisted
// token before hydrating, and skip the identity fetch entirely when the
// token is already dead. A token that fails to parse is treated the same as
// an expired one: the persisted slot is cleared and the session starts
// unauthenticated.
package jwt
