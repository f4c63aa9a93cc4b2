package errors

// Error codes carried in every error response body. They are stable and
// safe for clients to switch on.
const (
	CodeOK           = "OK"
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeInternal     = "INTERNAL"

	// CodeDatabaseError indicates a store operation failed.
	CodeDatabaseError = "DATABASE_ERROR"

	// CodeStorageError indicates the object storage provider failed.
	CodeStorageError = "STORAGE_ERROR"
)

// Validation reasons. A ValidationError carries one of these so clients can
// distinguish "which input was wrong" without parsing messages.
const (
	ReasonInvalidJSON      = "invalid_json"
	ReasonMissingFields    = "missing_fields"
	ReasonInvalidAddress   = "invalid_address"
	ReasonInvalidPostID    = "invalid_post_id"
	ReasonMediaURLRequired = "media_url_required"
	ReasonInvalidMediaType = "invalid_media_type"
	ReasonContentRequired  = "content_required"
	ReasonSelfFollow       = "self_follow"
	ReasonInvalidUpload    = "invalid_upload"
	ReasonFieldTooLong     = "field_too_long"
)
