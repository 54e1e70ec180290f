package apierror

// Error type URIs following the urn:adhere:error:* pattern.
// These are used as the "type" field in RFC 9457 Problem Details.
const (
	// TypeValidation indicates request validation failed (400)
	TypeValidation = "urn:adhere:error:validation"

	// TypeInvalidRange indicates a malformed or inverted date window (400)
	TypeInvalidRange = "urn:adhere:error:invalid_range"

	// TypeNotFound indicates the requested resource was not found (404)
	TypeNotFound = "urn:adhere:error:not_found"

	// TypeRateLimit indicates too many requests (429)
	TypeRateLimit = "urn:adhere:error:rate_limit"

	// TypeUnauthorized indicates missing or invalid authentication (401)
	TypeUnauthorized = "urn:adhere:error:unauthorized"

	// TypeInternal indicates an unexpected server error (500)
	TypeInternal = "urn:adhere:error:internal"

	// TypeUnavailable indicates a dependency is down (503)
	TypeUnavailable = "urn:adhere:error:unavailable"
)

// Titles for each error type - human-readable summaries
const (
	TitleValidation   = "Validation Error"
	TitleInvalidRange = "Invalid Date Range"
	TitleNotFound     = "Resource Not Found"
	TitleRateLimit    = "Rate Limit Exceeded"
	TitleUnauthorized = "Authentication Required"
	TitleInternal     = "Internal Server Error"
	TitleUnavailable  = "Service Unavailable"
)
