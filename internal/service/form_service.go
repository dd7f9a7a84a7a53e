package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/parisxmas/materai/internal/backend"
	"github.com/parisxmas/materai/internal/formctl"
	"github.com/parisxmas/materai/internal/models"
)

var (
	ErrFormNotFound  = errors.New("form not found")
	ErrUnknownOption = errors.New("value is not one of the available options")
)

type FormOptions struct {
	Encoder formctl.Encoder
	Dedupe  bool
	TTL     time.Duration
}

type formEntry struct {
	ctl     *formctl.Controller
	owner   string
	touched time.Time
}

// FormService keeps one controller per open form, owned by the user who
// opened it. Forms idle longer than the TTL are dropped by Sweep.
type FormService struct {
	backend backend.Backend
	opts    FormOptions
	log     *logrus.Entry
	now     func() time.Time

	mu    sync.Mutex
	forms map[string]*formEntry
}

func NewFormService(b backend.Backend, opts FormOptions, log *logrus.Entry) *FormService {
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &FormService{
		backend: b,
		opts:    opts,
		log:     log.WithField("component", "forms"),
		now:     time.Now,
		forms:   make(map[string]*formEntry),
	}
}

func (s *FormService) newController(sess models.Session) *formctl.Controller {
	opts := []formctl.Option{
		formctl.WithLogger(s.log.WithField("user", sess.UserID)),
		formctl.WithDedupe(s.opts.Dedupe),
	}
	if s.opts.Encoder != nil {
		opts = append(opts, formctl.WithEncoder(s.opts.Encoder))
	}
	scoped := backend.ForSession(s.backend, sess)
	return formctl.New(sess, scoped, scoped, opts...)
}

// Open creates and mounts a form. Option load failures are reported in the
// returned view, the form is still usable after a Reset.
func (s *FormService) Open(ctx context.Context, sess models.Session) (string, formctl.View) {
	ctl := s.newController(sess)
	if err := ctl.Mount(ctx); err != nil {
		s.log.WithError(err).WithField("user", sess.UserID).Debug("form mounted with errors")
	}
	id := uuid.NewString()

	s.mu.Lock()
	s.forms[id] = &formEntry{ctl: ctl, owner: sess.UserID, touched: s.now()}
	s.mu.Unlock()
	return id, ctl.Snapshot()
}

func (s *FormService) get(sess models.Session, id string) (*formctl.Controller, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.forms[id]
	if !ok || e.owner != sess.UserID {
		return nil, ErrFormNotFound
	}
	e.touched = s.now()
	return e.ctl, nil
}

func (s *FormService) View(sess models.Session, id string) (formctl.View, error) {
	ctl, err := s.get(sess, id)
	if err != nil {
		return formctl.View{}, err
	}
	return ctl.Snapshot(), nil
}

func (s *FormService) Close(sess models.Session, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.forms[id]
	if !ok || e.owner != sess.UserID {
		return ErrFormNotFound
	}
	delete(s.forms, id)
	return nil
}

// SelectLocation accepts an empty value (clearing the field) or one of the
// loaded location options.
func (s *FormService) SelectLocation(ctx context.Context, sess models.Session, id, value string) (formctl.View, error) {
	ctl, err := s.get(sess, id)
	if err != nil {
		return formctl.View{}, err
	}
	return selectLocation(ctx, ctl, value)
}

func (s *FormService) SelectWorkScope(sess models.Session, id, value string) (formctl.View, error) {
	ctl, err := s.get(sess, id)
	if err != nil {
		return formctl.View{}, err
	}
	return selectWorkScope(ctl, value)
}

func (s *FormService) AttachFile(sess models.Session, id string, att models.Attachment) (formctl.View, error) {
	ctl, err := s.get(sess, id)
	if err != nil {
		return formctl.View{}, err
	}
	if err := ctl.AttachFile(att); err != nil {
		return ctl.Snapshot(), err
	}
	return ctl.Snapshot(), nil
}

func (s *FormService) ClearFile(sess models.Session, id string) (formctl.View, error) {
	ctl, err := s.get(sess, id)
	if err != nil {
		return formctl.View{}, err
	}
	if err := ctl.ClearFile(); err != nil {
		return ctl.Snapshot(), err
	}
	return ctl.Snapshot(), nil
}

func (s *FormService) Submit(ctx context.Context, sess models.Session, id string) (formctl.View, error) {
	ctl, err := s.get(sess, id)
	if err != nil {
		return formctl.View{}, err
	}
	_, err = ctl.Submit(ctx)
	return ctl.Snapshot(), err
}

func (s *FormService) Reset(ctx context.Context, sess models.Session, id string) (formctl.View, error) {
	ctl, err := s.get(sess, id)
	if err != nil {
		return formctl.View{}, err
	}
	err = ctl.Reset(ctx)
	return ctl.Snapshot(), err
}

// SubmitOnce runs a whole form in one call: mount, choose both selections,
// attach and submit. Nothing is kept afterwards.
func (s *FormService) SubmitOnce(ctx context.Context, sess models.Session, location, workScope string, att models.Attachment) (formctl.View, error) {
	ctl := s.newController(sess)
	if err := ctl.Mount(ctx); err != nil {
		return ctl.Snapshot(), err
	}
	if v, err := selectLocation(ctx, ctl, location); err != nil {
		return v, err
	}
	if v, err := selectWorkScope(ctl, workScope); err != nil {
		return v, err
	}
	if err := ctl.AttachFile(att); err != nil {
		return ctl.Snapshot(), err
	}
	_, err := ctl.Submit(ctx)
	return ctl.Snapshot(), err
}

func selectLocation(ctx context.Context, ctl *formctl.Controller, value string) (formctl.View, error) {
	if value != "" && !contains(ctl.Snapshot().Location.Options, value) {
		return ctl.Snapshot(), ErrUnknownOption
	}
	err := ctl.SelectLocation(ctx, value)
	return ctl.Snapshot(), err
}

func selectWorkScope(ctl *formctl.Controller, value string) (formctl.View, error) {
	if value != "" && !contains(ctl.Snapshot().WorkScope.Options, value) {
		return ctl.Snapshot(), ErrUnknownOption
	}
	err := ctl.SelectWorkScope(value)
	return ctl.Snapshot(), err
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

// Sweep drops forms idle for longer than the TTL and returns how many were
// removed. Forms in the middle of a submit are kept.
func (s *FormService) Sweep() int {
	cutoff := s.now().Add(-s.opts.TTL)
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, e := range s.forms {
		if e.touched.Before(cutoff) && !e.ctl.Snapshot().Submitting {
			delete(s.forms, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (s *FormService) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.sweepAndLog()
		}
	}
}

func (s *FormService) sweepAndLog() {
	expired := s.Sweep()
	s.log.WithFields(logrus.Fields{
		"expired": expired,
		"open":    s.open(),
	}).Debug("swept idle forms")
}

func (s *FormService) open() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.forms)
}
