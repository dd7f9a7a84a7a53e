package formctl

import "fmt"

// FieldState is the lifecycle of one cascading field.
type FieldState int

const (
	StateEmpty FieldState = iota
	StateLoading
	StateReady
	StateError
	// StateLocked marks a field whose value comes from the session, not the user.
	StateLocked
)

var stateNames = [...]string{"empty", "loading", "ready", "error", "locked"}

func (s FieldState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("FieldState(%d)", int(s))
}

func (s FieldState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// field is driven by three events: upstreamChanged, fetchSucceeded and
// fetchFailed. Every fetch carries the generation current when it started;
// completions for an older generation are dropped.
type field struct {
	state   FieldState
	options []string
	value   string
	gen     uint64
}

// upstreamChanged empties the field and invalidates any fetch in flight.
func (f *field) upstreamChanged() {
	f.gen++
	f.state = StateEmpty
	f.options = nil
	f.value = ""
}

// invalidate drops in-flight fetches without touching what is shown.
func (f *field) invalidate() {
	f.gen++
}

func (f *field) startFetch() uint64 {
	f.gen++
	f.state = StateLoading
	return f.gen
}

func (f *field) current(gen uint64) bool {
	return f.gen == gen
}

func (f *field) fetchSucceeded(gen uint64, options []string) bool {
	if !f.current(gen) {
		return false
	}
	f.state = StateReady
	f.options = options
	f.value = ""
	return true
}

// fetchFailed keeps the previous options so the user can still see them.
func (f *field) fetchFailed(gen uint64) bool {
	if !f.current(gen) {
		return false
	}
	f.state = StateError
	return true
}

func (f *field) view() FieldView {
	opts := make([]string, len(f.options))
	copy(opts, f.options)
	return FieldView{State: f.state, Options: opts, Value: f.value}
}
