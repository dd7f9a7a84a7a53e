// Package formctl drives a document submission form: three cascading
// selections (branch, location code, work scope), one attached file and a
// single submit call.
//
// The branch is locked to the session. Changing an upstream field empties the
// fields below it and fetches fresh options for the next one. Fetches are
// tagged with a generation so a slow response for a value the user has
// already moved away from never overwrites a newer one.
package formctl

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/parisxmas/materai/internal/fileenc"
	"github.com/parisxmas/materai/internal/models"
)

// OptionsProvider supplies the values each field may take. Implementations are
// already scoped to the caller's session.
type OptionsProvider interface {
	BranchOptions(ctx context.Context) ([]string, error)
	LocationOptions(ctx context.Context) ([]string, error)
	WorkScopeOptions(ctx context.Context, locationCode string) ([]string, error)
}

// DocumentStore persists a finished submission.
type DocumentStore interface {
	CreateDocument(ctx context.Context, payload models.SubmissionPayload) (*models.SubmissionResult, error)
}

// Encoder converts an attachment into its transport form.
type Encoder func(models.Attachment) (models.EncodedFile, error)

type Option func(*Controller)

func WithEncoder(enc Encoder) Option {
	return func(c *Controller) { c.encode = enc }
}

func WithLogger(log *logrus.Entry) Option {
	return func(c *Controller) { c.log = log }
}

// WithDedupe drops repeated option values, keeping the first occurrence.
// Off by default: lists are shown exactly as the provider returns them.
func WithDedupe(on bool) Option {
	return func(c *Controller) { c.dedupe = on }
}

var validate = validator.New()

type Controller struct {
	session models.Session
	options OptionsProvider
	store   DocumentStore
	encode  Encoder
	log     *logrus.Entry
	dedupe  bool
	metrics *metrics

	mu         sync.Mutex
	branch     field
	location   field
	scope      field
	file       *models.Attachment
	submitting bool
	errMsg     string
	result     *models.SubmissionResult
}

func New(session models.Session, options OptionsProvider, store DocumentStore, opts ...Option) *Controller {
	c := &Controller{
		session: session,
		options: options,
		store:   store,
		encode:  fileenc.Encode,
		metrics: metricsSingleton(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logrus.NewEntry(logrus.StandardLogger())
	}
	c.log = c.log.WithField("component", "formctl")
	return c
}

// Mount loads the branch options and selects the session's branch, or the
// first option when the session branch is not among them. A failure leaves
// the branch empty; there is no automatic retry.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	gen := c.branch.startFetch()
	c.mu.Unlock()

	opts, err := c.options.BranchOptions(ctx)
	c.metrics.fetchTotal.WithLabelValues("branch", fetchResult(err)).Inc()

	c.mu.Lock()
	if err != nil {
		if c.branch.fetchFailed(gen) {
			c.branch.value = ""
			c.errMsg = message(err, MsgBranchUnavailable)
			c.log.WithError(err).Warn("branch options unavailable")
		}
		c.mu.Unlock()
		if cerr := c.branchChanged(ctx); cerr != nil {
			return cerr
		}
		return err
	}
	if !c.branch.fetchSucceeded(gen, c.normalize(opts)) {
		c.mu.Unlock()
		c.metrics.staleTotal.WithLabelValues("branch").Inc()
		return nil
	}
	c.branch.state = StateLocked
	c.branch.value = pickBranch(c.branch.options, c.session.Branch)
	c.mu.Unlock()

	return c.branchChanged(ctx)
}

// Reset starts the form over, as if the page had just been opened.
func (c *Controller) Reset(ctx context.Context) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return ErrBusy
	}
	c.errMsg = ""
	c.result = nil
	c.file = nil
	c.branch.upstreamChanged()
	c.clearBelowBranch()
	c.mu.Unlock()
	return c.Mount(ctx)
}

// branchChanged applies the branch cascade: an empty branch clears everything
// below it without a fetch; otherwise location options are reloaded and both
// lower selections cleared.
func (c *Controller) branchChanged(ctx context.Context) error {
	c.mu.Lock()
	if c.branch.value == "" {
		c.clearBelowBranch()
		c.mu.Unlock()
		return nil
	}
	gen := c.location.startFetch()
	c.scope.invalidate()
	c.mu.Unlock()

	opts, err := c.options.LocationOptions(ctx)
	c.metrics.fetchTotal.WithLabelValues("location", fetchResult(err)).Inc()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if c.location.fetchFailed(gen) {
			c.errMsg = message(err, MsgLocationsFailed)
			c.log.WithError(err).Warn("location options unavailable")
		} else {
			c.metrics.staleTotal.WithLabelValues("location").Inc()
		}
		return err
	}
	if !c.location.fetchSucceeded(gen, c.normalize(opts)) {
		c.metrics.staleTotal.WithLabelValues("location").Inc()
		return nil
	}
	c.scope.upstreamChanged()
	return nil
}

func (c *Controller) clearBelowBranch() {
	c.location.upstreamChanged()
	c.scope.upstreamChanged()
}

// SelectLocation sets the location code and reloads work-scope options for
// exactly that code. A different code empties the work scope before the fetch
// starts, so a scope chosen for the old code can never be submitted with the
// new one. Clearing the code clears the work scope without a fetch.
func (c *Controller) SelectLocation(ctx context.Context, code string) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return ErrBusy
	}
	if c.branch.value == "" {
		c.mu.Unlock()
		return ErrFieldDisabled
	}
	changed := c.location.value != code
	c.location.value = code
	if code == "" {
		c.scope.upstreamChanged()
		c.mu.Unlock()
		return nil
	}
	if changed {
		c.scope.upstreamChanged()
	}
	gen := c.scope.startFetch()
	c.mu.Unlock()

	opts, err := c.options.WorkScopeOptions(ctx, code)
	c.metrics.fetchTotal.WithLabelValues("work_scope", fetchResult(err)).Inc()

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		if c.scope.fetchFailed(gen) {
			c.errMsg = message(err, MsgWorkScopesFailed)
			c.log.WithError(err).WithField("location", code).Warn("work scope options unavailable")
		} else {
			c.metrics.staleTotal.WithLabelValues("work_scope").Inc()
		}
		return err
	}
	if !c.scope.fetchSucceeded(gen, c.normalize(opts)) {
		c.metrics.staleTotal.WithLabelValues("work_scope").Inc()
		c.log.WithField("location", code).Debug("dropped stale work scope options")
	}
	return nil
}

func (c *Controller) SelectWorkScope(scope string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return ErrBusy
	}
	if c.location.value == "" && scope != "" {
		return ErrFieldDisabled
	}
	c.scope.value = scope
	return nil
}

// AttachFile replaces the attached file.
func (c *Controller) AttachFile(att models.Attachment) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return ErrBusy
	}
	c.file = &att
	return nil
}

func (c *Controller) ClearFile() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return ErrBusy
	}
	c.file = nil
	return nil
}

// Submit validates the form, encodes the file and hands the payload to the
// store. On success the form and file are cleared; on failure both are kept
// so the user can correct and try again.
func (c *Controller) Submit(ctx context.Context) (*models.SubmissionResult, error) {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		c.metrics.submitTotal.WithLabelValues("busy").Inc()
		return nil, ErrBusy
	}
	c.errMsg = ""
	c.result = nil
	state := c.formState()
	if !state.Complete() || c.file == nil {
		c.errMsg = MsgIncomplete
		c.mu.Unlock()
		c.metrics.submitTotal.WithLabelValues("invalid").Inc()
		return nil, ErrIncomplete
	}
	file := *c.file
	c.submitting = true
	c.mu.Unlock()

	start := time.Now()
	result, err := c.send(ctx, state, file)

	outcome := "ok"
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		outcome = "failed"
		c.errMsg = message(err, MsgSaveFailed)
		if errors.Is(err, ErrIncomplete) {
			outcome = "invalid"
			c.errMsg = MsgIncomplete
		}
		c.log.WithError(err).WithFields(logrus.Fields{
			"branch":   state.Branch,
			"location": state.LocationCode,
		}).Error("document submission failed")
	} else {
		c.result = result
		c.file = nil
		c.branch.value = ""
		c.clearBelowBranch()
		c.log.WithFields(logrus.Fields{
			"branch":   state.Branch,
			"location": state.LocationCode,
			"scope":    state.WorkScope,
			"file":     file.Name,
		}).Info("document saved")
	}
	c.metrics.submitTotal.WithLabelValues(outcome).Inc()
	c.metrics.submitDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Controller) send(ctx context.Context, state models.FormState, file models.Attachment) (*models.SubmissionResult, error) {
	encoded, err := c.encode(file)
	if err != nil {
		return nil, err
	}
	payload := models.NewSubmissionPayload(state, encoded)
	if err := validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("%w (%v)", ErrIncomplete, err)
	}
	result, err := c.store.CreateDocument(ctx, payload)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, errNoRecord
	}
	return result, nil
}

func (c *Controller) formState() models.FormState {
	return models.FormState{
		Branch:       c.branch.value,
		LocationCode: c.location.value,
		WorkScope:    c.scope.value,
	}
}

// State returns the current selections.
func (c *Controller) State() models.FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.formState()
}

func (c *Controller) normalize(opts []string) []string {
	out := make([]string, 0, len(opts))
	if !c.dedupe {
		return append(out, opts...)
	}
	seen := make(map[string]struct{}, len(opts))
	for _, o := range opts {
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		out = append(out, o)
	}
	return out
}

func pickBranch(options []string, sessionBranch string) string {
	want := strings.TrimSpace(sessionBranch)
	for _, o := range options {
		if want != "" && strings.EqualFold(strings.TrimSpace(o), want) {
			return o
		}
	}
	if len(options) > 0 {
		return options[0]
	}
	return ""
}
