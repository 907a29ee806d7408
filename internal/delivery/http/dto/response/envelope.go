package response

type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success            bool   `json:"success"`
	Message            string `json:"message"`
	Kind               string `json:"kind"`
	LastCompletedLevel *int   `json:"lastCompletedLevel,omitempty"`
	Step               string `json:"step,omitempty"`
}

type Pagination struct {
	TotalPages   int   `json:"totalPages"`
	CurrentPage  int   `json:"currentPage"`
	Total        int64 `json:"total"`
	ItemsPerPage int   `json:"itemsPerPage"`
}
