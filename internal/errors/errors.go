// Package errors defines domain-level errors used throughout the application.
// These errors represent business logic failures and are mapped to appropriate HTTP status codes at the API boundary.
//
// NOTE: Important for developers
// When adding a new error here, you MUST consider how it should be handled when returned from API endpoints.
//
// Unmapped errors will default to HTTP 500 Internal Server Error.
package errors

import (
	"errors"
)

var (
	// ErrBadRequest indicates that the client provided invalid input or made a malformed request.
	// This typically results from validation failures or incorrect request parameters.
	// Recommended to map to HTTP 400 Bad Request.
	ErrBadRequest = errors.New("bad request")

	// ErrServerNotFound indicates that the requested server does not exist in the
	// installed-server store or the remote catalog.
	// Recommended to map to HTTP 404 Not Found.
	ErrServerNotFound = errors.New("server not found")

	// ErrNoRecommendations indicates that a recommendation request completed but
	// produced no matching servers.
	// Recommended to map to HTTP 404 Not Found.
	ErrNoRecommendations = errors.New("no servers found matching the search keywords")

	// ErrIndexerFailed indicates that the external code-indexing CLI reported a
	// structured application error in its JSON output.
	// Recommended to map to HTTP 502 Bad Gateway.
	ErrIndexerFailed = errors.New("indexer command failed")
)
