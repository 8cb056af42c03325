// Package client is a typed Go client for the ClassTrack API.
//
// A Client is created from a Config and authenticated by logging in or
// installing a previously saved Session. All operations take a
// context.Context and return typed results or one of three error
// kinds: *ValidationError for requests rejected before any network
// traffic, *NetworkError for transport failures, and *APIError for
// non-2xx API responses. Helpers like IsAuth, IsForbidden, IsNotFound
// and IsConflict classify API errors without inspecting status codes
// at call sites.
package client
