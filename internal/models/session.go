package models

// Session is the read-only identity of the caller. Branch locks the branch
// field of every form opened in this session.
type Session struct {
	UserID string `json:"userId"`
	Email  string `json:"email,omitempty"`
	Branch string `json:"branch"`
	Role   string `json:"role,omitempty"`
}
