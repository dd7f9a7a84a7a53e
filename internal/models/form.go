package models

// FormState holds the three cascading selections of a document form.
// LocationCode is only meaningful when Branch is set, WorkScope only when
// LocationCode is set.
type FormState struct {
	Branch       string `json:"branch"`
	LocationCode string `json:"locationCode"`
	WorkScope    string `json:"workScope"`
}

func (s FormState) Complete() bool {
	return s.Branch != "" && s.LocationCode != "" && s.WorkScope != ""
}
