// Package session holds the in-progress state of NC entry forms between
// requests: the field gate, pending actions, attachments and root cause.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"p9e.in/ncac/models"
	"p9e.in/ncac/pkg/attachments"
	"p9e.in/ncac/pkg/form"
	"p9e.in/ncac/pkg/ncstore"
	"p9e.in/ncac/pkg/rootcause"
)

var (
	ErrActionLocked = errors.New("complete every field before using this action")
	ErrNoSuchAction = errors.New("no pending action at this position")
)

// Records is the part of the store a session needs.
type Records interface {
	LookupFields(ctx context.Context, number int64, chain form.Chain) (map[string]string, error)
	Save(ctx context.Context, d ncstore.Draft, confirm ncstore.ConfirmFunc) (*ncstore.SaveResult, error)
}

// Upload is one file handed to Attach.
type Upload struct {
	Name   string
	Reader io.Reader
}

// AttachResult reports the outcome of one upload.
type AttachResult struct {
	Name   string `json:"name"`
	Stored string `json:"stored,omitempty"`
	Error  string `json:"error,omitempty"`
}

// Session is one NC being entered or edited. All methods are safe for
// concurrent use.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu           sync.Mutex
	chain        form.Chain
	gate         *form.Gate
	rootCause    *rootcause.Collector
	observations string
	actions      []models.CorrectiveAction
	attachments  []string

	records Records
	files   attachments.Store
	now     func() time.Time
}

func newSession(chain form.Chain, records Records, files attachments.Store, now func() time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		CreatedAt: now(),
		chain:     chain,
		gate:      form.NewGate(chain),
		rootCause: rootcause.NewCollector(),
		records:   records,
		files:     files,
		now:       now,
	}
}

// reset returns to the state of a fresh session. Caller holds mu.
func (s *Session) reset() {
	s.gate.Reset()
	s.rootCause = rootcause.NewCollector()
	s.observations = ""
	s.actions = nil
	s.attachments = nil
}

func (s *Session) requireUnlocked() error {
	if !s.gate.ActionsUnlocked() {
		return ErrActionLocked
	}
	return nil
}

// SetField edits one enabled field and reports whether its value is valid.
func (s *Session) SetField(name, value string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gate.Set(name, value)
}

// SetObservations replaces the free-text observations.
func (s *Session) SetObservations(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observations = text
}

// SetRootCause replaces the whole analysis and returns its encoding.
func (s *Session) SetRootCause(a rootcause.Analysis) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireUnlocked(); err != nil {
		return "", err
	}
	c, err := rootcause.FromAnalysis(a)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ncstore.ErrInvalidInput, err)
	}
	s.rootCause = c
	encoded := c.Encode()
	slog.Info("root cause analysis completed", "session", s.ID, "categories", len(a), "length", len(encoded))
	return encoded, nil
}

// AddAction validates and appends a pending corrective action.
func (s *Session) AddAction(in ActionInput) (models.CorrectiveAction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireUnlocked(); err != nil {
		return models.CorrectiveAction{}, err
	}
	a, err := in.action(s.now())
	if err != nil {
		return models.CorrectiveAction{}, err
	}
	s.actions = append(s.actions, a)
	slog.Info("action added", "session", s.ID, "task", truncate(a.Task, 50), "pending", len(s.actions))
	return a, nil
}

// RemoveAction drops the pending action at index.
func (s *Session) RemoveAction(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.actions) {
		return fmt.Errorf("%w: %d", ErrNoSuchAction, index)
	}
	s.actions = append(s.actions[:index], s.actions[index+1:]...)
	return nil
}

// Actions returns a copy of the pending actions.
func (s *Session) Actions() []models.CorrectiveAction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.CorrectiveAction(nil), s.actions...)
}

// Attach copies each upload into the attachment store. A failing file is
// reported in its result and does not stop the others.
func (s *Session) Attach(ctx context.Context, uploads []Upload) ([]AttachResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireUnlocked(); err != nil {
		return nil, err
	}
	results := make([]AttachResult, len(uploads))
	for i, u := range uploads {
		results[i].Name = u.Name
		stored, err := s.files.Put(ctx, u.Name, u.Reader)
		if err != nil {
			slog.Error("failed to copy attachment", "session", s.ID, "file", u.Name, "err", err)
			results[i].Error = err.Error()
			continue
		}
		s.attachments = append(s.attachments, stored)
		results[i].Stored = stored
		slog.Info("file attached", "session", s.ID, "file", u.Name, "stored", stored)
	}
	return results, nil
}

// Load fills every field but the key from the stored record with that
// number. When no such record exists the session is left untouched.
func (s *Session) Load(ctx context.Context, number int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	values, err := s.records.LookupFields(ctx, number, s.chain)
	if err != nil {
		return err
	}
	for _, f := range s.chain[1:] {
		v, ok := values[f.Name]
		if !ok {
			continue
		}
		if _, err := s.gate.Populate(f.Name, v); err != nil {
			return err
		}
	}
	slog.Info("NC loaded for edit", "session", s.ID, "number", number)
	return nil
}

// Save hands the session content to the store. On success the session is
// cleared for the next entry; on any error it is kept as is.
func (s *Session) Save(ctx context.Context, confirm ncstore.ConfirmFunc) (*ncstore.SaveResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.requireUnlocked(); err != nil {
		return nil, err
	}
	d := ncstore.Draft{
		Values:       s.gate.Values(),
		Observations: s.observations,
		RootCause:    s.rootCause.Encode(),
		Actions:      append([]models.CorrectiveAction(nil), s.actions...),
		Attachments:  append([]string(nil), s.attachments...),
	}
	res, err := s.records.Save(ctx, d, confirm)
	if err != nil {
		return nil, err
	}
	s.reset()
	return res, nil
}

// View is the externally visible state of a session.
type View struct {
	ID           uuid.UUID                 `json:"id"`
	CreatedAt    time.Time                 `json:"createdAt"`
	Form         form.State                `json:"form"`
	Observations string                    `json:"observations"`
	RootCause    rootcause.Analysis        `json:"rootCause"`
	Actions      []models.CorrectiveAction `json:"actions"`
	Attachments  []string                  `json:"attachments"`
}

// State returns a snapshot of the session.
func (s *Session) State() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	actions := append([]models.CorrectiveAction{}, s.actions...)
	return View{
		ID:           s.ID,
		CreatedAt:    s.CreatedAt,
		Form:         s.gate.Snapshot(),
		Observations: s.observations,
		RootCause:    s.rootCause.Analysis(),
		Actions:      actions,
		Attachments:  append([]string{}, s.attachments...),
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
