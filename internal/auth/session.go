package auth

import (
	"encoding/json"
	"fmt"
	"strings"
)

// SessionKey names the persisted user blob written by the login page.
const SessionKey = "MATERAI_USER"

// ReadSessionBranch extracts the branch from a persisted session blob such as
// {"email":"a@b.c","cabang":"JKT01"}. Missing or malformed data yields "".
func ReadSessionBranch(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	var blob map[string]any
	if err := json.Unmarshal([]byte(raw), &blob); err != nil {
		return ""
	}
	switch v := blob["cabang"].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strings.TrimSpace(fmt.Sprint(v))
	}
	return ""
}
