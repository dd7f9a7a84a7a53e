package models

// Attachment is a user-chosen file held in memory until submission.
type Attachment struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType"`
	Content  []byte `json:"-"`
}

// EncodedFile is the transport-safe form of an Attachment.
type EncodedFile struct {
	Name      string `json:"name" validate:"required"`
	MimeType  string `json:"mimeType" validate:"required"`
	Size      int64  `json:"size" validate:"gt=0"`
	Base64    string `json:"base64" validate:"required,base64"`
	Extension string `json:"extension"`
}

// Document is the record the store returns after persisting a submission.
type Document struct {
	ID           string `json:"id"`
	Branch       string `json:"branch"`
	LocationCode string `json:"locationCode"`
	WorkScope    string `json:"workScope"`
	FileName     string `json:"fileName"`
	MimeType     string `json:"mimeType"`
	Size         int64  `json:"size"`
	FileURL      string `json:"fileUrl,omitempty"`
	CreatedBy    string `json:"createdBy,omitempty"`
	CreatedAt    string `json:"createdAt"`
}
