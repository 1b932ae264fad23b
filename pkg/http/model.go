package http

// ErrorBody is the JSON error envelope returned for classified failures.
type ErrorBody struct {
	Status  int    `json:"status" example:"404"`
	Message string `json:"message" example:"Model for 'AAPL' not found"`
}

// ValidationErrorBody wraps field-level validation errors.
type ValidationErrorBody struct {
	Status  int         `json:"status" example:"400"`
	Message string      `json:"message" example:"Bad Request"`
	Errors  interface{} `json:"errors,omitempty"`
}

// ValidationError represents a single field validation failure.
type ValidationError struct {
	Code    string `json:"code,omitempty" example:"ERR_REQUIRED"`
	Field   string `json:"field,omitempty" example:"ticker"`
	Message string `json:"message,omitempty" example:"ticker is required"`
}
