package models

import "strings"

// SubmissionPayload is assembled once at submit time and sent to the store.
type SubmissionPayload struct {
	Branch       string      `json:"cabang" validate:"required"`
	LocationCode string      `json:"ulok" validate:"required"`
	WorkScope    string      `json:"lingkup" validate:"required"`
	File         EncodedFile `json:"file"`
}

// NewSubmissionPayload trims the selections and pairs them with the encoded file.
func NewSubmissionPayload(state FormState, file EncodedFile) SubmissionPayload {
	return SubmissionPayload{
		Branch:       strings.TrimSpace(state.Branch),
		LocationCode: strings.TrimSpace(state.LocationCode),
		WorkScope:    strings.TrimSpace(state.WorkScope),
		File:         file,
	}
}

// SubmissionResult is what the Document Store hands back on success.
type SubmissionResult = Document
