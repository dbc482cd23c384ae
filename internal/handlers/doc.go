// Package handlers exposes the media store's method surface over HTTP.
// Handlers stay thin: parameter parsing, store calls, and error-to-status
// mapping. All media semantics live in the media package.
package handlers
