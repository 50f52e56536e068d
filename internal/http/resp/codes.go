// Package resp holds the stable machine-readable codes returned in error
// and status bodies.
package resp

const (
	CodeBadRequest    = "bad_request"
	CodeUnauthorized  = "unauthorized"
	CodeForbidden     = "forbidden"
	CodeInternalError = "internal_error"
	CodeQueued        = "queued"
)
