package model

// LogoRequest is a custom-logo quote request. The uploaded file is inspected but
// never stored.
type LogoRequest struct {
	Name           string `validate:"required,max=200"`
	Email          string `validate:"required,email"`
	Notes          string `validate:"max=2000"`
	SizePreference string `validate:"max=50"`
	FileName       string `validate:"required"`
	ContentType    string `validate:"required"`
	FileSize       int64  `validate:"gt=0"`
}

// LogoResponse acknowledges a custom-logo request.
type LogoResponse struct {
	Success   bool   `json:"success"`
	RequestID string `json:"requestId"`
	Message   string `json:"message"`
}
