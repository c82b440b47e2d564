package types

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
