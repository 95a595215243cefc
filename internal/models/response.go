package models

type HealthResponse struct {
	Status     string `json:"status"`
	DraftStore string `json:"draft_store"`
	Drafts     string `json:"drafts"`
	Database   string `json:"database"`
}

type ReferenceListResponse struct {
	Kind  ReferenceKind     `json:"kind"`
	Items []EntityReference `json:"items"`
}

type UploadResponse struct {
	Success bool   `json:"success"`
	URL     string `json:"url,omitempty"`
	Error   string `json:"error,omitempty"`
	Name    string `json:"name"`
	Size    int64  `json:"size"`
}

type ContractResponse struct {
	ContractID string `json:"contract_id"`
	Status     string `json:"status"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
