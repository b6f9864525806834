package models

// ErrorMessageResponse is the body written for every failed request
type ErrorMessageResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
