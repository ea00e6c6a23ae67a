// Package store keeps the durable collections of the application: form
// documents, submitted responses and presentation settings.
//
// Each collection is loaded once when the store is opened and every mutation
// rewrites the whole collection into its blob. Concurrent writers sharing one
// backend follow last-writer-wins on the whole collection.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/mbolis/quick-form/log"
	"github.com/mbolis/quick-form/model"
	"github.com/mbolis/quick-form/storage"
)

const (
	formsKey     = "forms"
	responsesKey = "responses"
	settingsKey  = "settings"
)

var (
	ErrFormNotFound  = errors.New("form not found")
	ErrResponseLimit = errors.New("response limit reached")
)

// Repository is the document-level view of the store.
type Repository interface {
	Get(ctx context.Context, id string) (model.Document, error)
	Upsert(ctx context.Context, doc model.Document) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]model.Document, error)
}

// DefaultSettings mirrors the presentation preferences of a fresh install.
func DefaultSettings() map[string]any {
	return map[string]any{
		"theme":              "light",
		"enable3D":           true,
		"enableAnimations":   true,
		"enableParticles":    true,
		"emailNotifications": true,
		"localStorage":       true,
		"primaryColor":       "#6a11cb",
		"secondaryColor":     "#2575fc",
	}
}

type Store struct {
	blobs storage.Blobs

	mu        sync.RWMutex
	forms     []model.Document
	responses []model.Response
	settings  map[string]any
}

var _ Repository = (*Store)(nil)

// Open loads all collections from blobs. Missing blobs start empty (settings
// start from DefaultSettings); unreadable blobs are an error.
func Open(ctx context.Context, blobs storage.Blobs) (*Store, error) {
	s := &Store{blobs: blobs}

	if err := load(ctx, blobs, formsKey, &s.forms); err != nil {
		return nil, err
	}
	if err := load(ctx, blobs, responsesKey, &s.responses); err != nil {
		return nil, err
	}
	s.settings = DefaultSettings()
	if err := load(ctx, blobs, settingsKey, &s.settings); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"forms":     len(s.forms),
		"responses": len(s.responses),
	}).Debug("store loaded")
	return s, nil
}

func load(ctx context.Context, blobs storage.Blobs, key string, into any) error {
	data, err := blobs.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, into); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *Store) persist(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.blobs.Put(ctx, key, data); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	log.Debugf("store: %s rewritten (%d bytes)", key, len(data))
	return nil
}

func (s *Store) Close() error {
	return s.blobs.Close()
}

func (s *Store) List(_ context.Context) ([]model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]model.Document, len(s.forms))
	for i, d := range s.forms {
		docs[i] = d.Clone()
	}
	return docs, nil
}

func (s *Store) Get(_ context.Context, id string) (model.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.forms {
		if d.ID == id {
			return d.Clone(), nil
		}
	}
	return model.Document{}, fmt.Errorf("%w: %s", ErrFormNotFound, id)
}

// Upsert replaces the document with the same id, or appends it.
func (s *Store) Upsert(ctx context.Context, doc model.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	forms := slices.Clone(s.forms)
	i := slices.IndexFunc(forms, func(d model.Document) bool { return d.ID == doc.ID })
	if i >= 0 {
		forms[i] = doc.Clone()
	} else {
		forms = append(forms, doc.Clone())
	}

	if err := s.persist(ctx, formsKey, forms); err != nil {
		return err
	}
	s.forms = forms
	return nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.forms, func(d model.Document) bool { return d.ID == id })
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrFormNotFound, id)
	}
	forms := slices.Delete(slices.Clone(s.forms), i, i+1)

	if err := s.persist(ctx, formsKey, forms); err != nil {
		return err
	}
	s.forms = forms
	return nil
}

// Responses returns the responses submitted to formID, or all of them when
// formID is empty, in submission order.
func (s *Store) Responses(_ context.Context, formID string) ([]model.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Response{}
	for _, r := range s.responses {
		if formID == "" || r.FormID == formID {
			out = append(out, cloneResponse(r))
		}
	}
	return out, nil
}

func (s *Store) AppendResponse(ctx context.Context, resp model.Response) error {
	return s.AppendLimited(ctx, resp, 0)
}

// AppendLimited appends resp unless its form already holds limit responses.
// A limit of 0 means no limit. Counting and appending happen under one lock.
func (s *Store) AppendLimited(ctx context.Context, resp model.Response, limit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit > 0 {
		n := 0
		for _, r := range s.responses {
			if r.FormID == resp.FormID {
				n++
			}
		}
		if n >= limit {
			return fmt.Errorf("%w: %d", ErrResponseLimit, limit)
		}
	}

	responses := append(slices.Clip(s.responses), cloneResponse(resp))
	if err := s.persist(ctx, responsesKey, responses); err != nil {
		return err
	}
	s.responses = responses
	return nil
}

func (s *Store) ClearResponses(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(ctx, responsesKey, []model.Response{}); err != nil {
		return err
	}
	s.responses = nil
	return nil
}

func (s *Store) Settings(_ context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.settings)
}

func (s *Store) UpdateSetting(ctx context.Context, key string, value any) error {
	return s.UpdateSettings(ctx, map[string]any{key: value})
}

// UpdateSettings merges values into the settings with a single write.
func (s *Store) UpdateSettings(ctx context.Context, values map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	settings := maps.Clone(s.settings)
	if settings == nil {
		settings = make(map[string]any, len(values))
	}
	maps.Copy(settings, values)
	if err := s.persist(ctx, settingsKey, settings); err != nil {
		return err
	}
	s.settings = settings
	return nil
}

func cloneResponse(r model.Response) model.Response {
	c := r
	if r.Answers != nil {
		c.Answers = make(map[string]model.Answer, len(r.Answers))
		for k, v := range r.Answers {
			c.Answers[k] = slices.Clone(v)
		}
	}
	return c
}
