package server

// APIResponse is the JSON shape of the operational endpoints.
// Data is omitted when empty.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// HealthData reports the process state on /health
type HealthData struct {
	Status   string         `json:"status"`
	Env      string         `json:"env"`
	Upstream string         `json:"upstream"`
	Sessions map[string]int `json:"sessions"`
}
