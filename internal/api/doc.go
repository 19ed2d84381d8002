// Package api exposes the vocabulary, review and deck operations over HTTP.
// Handlers decode and validate JSON bodies, call the services and map their
// errors to status codes with sanitized messages.
package api
