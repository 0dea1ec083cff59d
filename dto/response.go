package dto

// APIResponse is the envelope every successful endpoint returns.
type APIResponse struct {
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
	Success    bool   `json:"success"`
}

// APIErrorResponse is the envelope for failed requests.
type APIErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func NewAPIResponse(statusCode int, data any, message string) APIResponse {
	return APIResponse{
		StatusCode: statusCode,
		Data:       data,
		Message:    message,
		Success:    statusCode < 400,
	}
}

func NewAPIErrorResponse(statusCode int, message string) APIErrorResponse {
	return APIErrorResponse{
		StatusCode: statusCode,
		Message:    message,
		Success:    false,
		Errors:     []string{},
	}
}
