package dto

// ErrorResponse is the envelope for error results
type ErrorResponse struct {
	Error string `json:"error" example:"error message"`
}

// StatusResponse is the envelope for simple status results
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}
