// Package backend holds the server-side Options Provider and Document Store.
//
// A Backend answers for every branch; ForSession narrows it to one caller so
// the form controller never sees another branch's data.
package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/parisxmas/materai/internal/formctl"
	"github.com/parisxmas/materai/internal/models"
)

var (
	// ErrNoBranch means the session has no branch the backend knows about.
	ErrNoBranch = errors.New(formctl.MsgBranchUnavailable)
	// ErrBranchMismatch rejects payloads for a branch other than the session's.
	ErrBranchMismatch = errors.New("cabang tidak sesuai dengan akun login")
)

type Backend interface {
	Branches(ctx context.Context) ([]string, error)
	Locations(ctx context.Context, branch string) ([]string, error)
	WorkScopes(ctx context.Context, branch, locationCode string) ([]string, error)
	CreateDocument(ctx context.Context, sess models.Session, payload models.SubmissionPayload) (*models.SubmissionResult, error)
}

// Scoped is a Backend bound to one session. It satisfies both
// formctl.OptionsProvider and formctl.DocumentStore.
type Scoped struct {
	backend Backend
	session models.Session
}

var (
	_ formctl.OptionsProvider = (*Scoped)(nil)
	_ formctl.DocumentStore   = (*Scoped)(nil)
)

func ForSession(b Backend, sess models.Session) *Scoped {
	return &Scoped{backend: b, session: sess}
}

func (s *Scoped) BranchOptions(ctx context.Context) ([]string, error) {
	want := strings.TrimSpace(s.session.Branch)
	if want == "" {
		return nil, ErrNoBranch
	}
	all, err := s.backend.Branches(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, 1)
	for _, b := range all {
		if strings.EqualFold(strings.TrimSpace(b), want) {
			out = append(out, b)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoBranch
	}
	return out, nil
}

func (s *Scoped) LocationOptions(ctx context.Context) ([]string, error) {
	return s.backend.Locations(ctx, s.session.Branch)
}

func (s *Scoped) WorkScopeOptions(ctx context.Context, locationCode string) ([]string, error) {
	return s.backend.WorkScopes(ctx, s.session.Branch, locationCode)
}

func (s *Scoped) CreateDocument(ctx context.Context, payload models.SubmissionPayload) (*models.SubmissionResult, error) {
	if !strings.EqualFold(strings.TrimSpace(payload.Branch), strings.TrimSpace(s.session.Branch)) {
		return nil, fmt.Errorf("%w: %s", ErrBranchMismatch, payload.Branch)
	}
	return s.backend.CreateDocument(ctx, s.session, payload)
}
