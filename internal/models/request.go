package models

import "encoding/json"

// StepRequest carries the values a wizard step submits. Keys are draft field
// names; values are kept raw so each step form decodes its own types.
type StepRequest struct {
	Fields map[string]json.RawMessage `json:"fields"`
}

type CVImportRequest struct {
	SourceFileID string `json:"sourceFileId" binding:"required" example:"7c9e6679-7425-40de-944b-e07fc1f90ae7"`
}

type ExternalGigClickRequest struct {
	ClickSource string `json:"click_source" binding:"required,oneof=listing detail" example:"listing"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	// Fields maps a draft field path to what is wrong with it.
	Fields map[string]string `json:"fields,omitempty"`
	// RestartStep is set when the wizard must be restarted from this step.
	RestartStep string `json:"restart_step,omitempty"`
}
