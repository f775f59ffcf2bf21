package dto

// PingResponse is the body of the health endpoint
type PingResponse struct {
	Message string `json:"message"`
	Status  string `json:"status"`
	Courses int    `json:"courses"`
}
