// Package tokenstore persists the session token in a single durable key/value slot.
package tokenstore

// Key is the slot the raw token string lives under.
const Key = "token"
