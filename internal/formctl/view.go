package formctl

import "github.com/parisxmas/materai/internal/models"

type FieldView struct {
	State   FieldState `json:"state"`
	Options []string   `json:"options"`
	Value   string     `json:"value"`
}

type FileView struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MimeType string `json:"mimeType,omitempty"`
}

// View is a point-in-time copy of everything a form renders.
type View struct {
	Branch     FieldView                `json:"branch"`
	Location   FieldView                `json:"locationCode"`
	WorkScope  FieldView                `json:"workScope"`
	File       *FileView                `json:"file,omitempty"`
	Submitting bool                     `json:"submitting"`
	Error      string                   `json:"error,omitempty"`
	Saved      bool                     `json:"saved"`
	Message    string                   `json:"message,omitempty"`
	Result     *models.SubmissionResult `json:"result,omitempty"`
}

func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	v := View{
		Branch:     c.branch.view(),
		Location:   c.location.view(),
		WorkScope:  c.scope.view(),
		Submitting: c.submitting,
		Error:      c.errMsg,
	}
	if c.file != nil {
		v.File = &FileView{Name: c.file.Name, Size: c.file.Size, MimeType: c.file.MimeType}
	}
	if c.result != nil {
		r := *c.result
		v.Result = &r
		v.Saved = true
		v.Message = MsgSaved
	}
	return v
}
