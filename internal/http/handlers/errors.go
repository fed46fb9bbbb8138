// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package). These codes provide
// clients with a stable, machine-readable error taxonomy that supplements
// human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless noted.
//   - Generic codes (bad_request, unauthorized, conflict) mirror common HTTP
//     status semantics to aid interoperability. Note that membership and
//     subscription conflicts are reported with HTTP 400 and code "conflict":
//     the status mirrors the upstream API contract, the code carries the
//     precise meaning.
//   - Domain-specific codes (validation_failed, empty_cart) are reserved for
//     business errors that cannot be conveyed by status alone.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "conflict",
//	  "message": "recipe already favorited"
//	}
package handlers

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeValidation       = "validation_failed"
	ErrCodeEmptyCart        = "empty_cart"
	ErrCodeCreateFailed     = "create_failed"
	ErrCodeListFailed       = "list_failed"
	ErrCodeMethodNotAllowed = "method_not_allowed"
)
