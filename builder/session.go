// Package builder holds the editing side of the application: the element
// factory, the in-memory draft of the form being authored and the command
// objects clients send to change it.
package builder

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/mbolis/quick-form/model"
)

var (
	ErrNoDocument         = errors.New("no active document")
	ErrNoSelection        = errors.New("no element selected")
	ErrElementNotFound    = errors.New("element not found")
	ErrUnknownElementType = errors.New("unknown element type")
	ErrUnknownField       = errors.New("unknown field")
	ErrFieldValue         = errors.New("invalid field value")
	ErrNoOptions          = errors.New("element has no options")
	ErrUnknownTemplate    = errors.New("unknown template")
	ErrUnknownCommand     = errors.New("unknown command")
)

// Field names accepted by UpdateElementField.
const (
	FieldTitle        = "title"
	FieldRequired     = "required"
	FieldPlaceholder  = "placeholder"
	FieldOptions      = "options"
	FieldAllowOther   = "allowOther"
	FieldAllowedTypes = "allowedTypes"
	FieldMaxSize      = "maxSize"
	FieldMin          = "min"
	FieldMax          = "max"
	FieldMinLabel     = "minLabel"
	FieldMaxLabel     = "maxLabel"
	FieldDescription  = "description"
)

// Saver receives committed documents. *store.Store satisfies it.
type Saver interface {
	Upsert(ctx context.Context, doc model.Document) error
}

// Session is the draft one client is editing. It is not safe for concurrent
// use; Registry serializes access per session.
type Session struct {
	repo Saver
	now  func() time.Time

	doc      *model.Document
	selected string
}

func NewSession(repo Saver) *Session {
	return &Session{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Document returns a copy of the draft.
func (s *Session) Document() (model.Document, bool) {
	if s.doc == nil {
		return model.Document{}, false
	}
	return s.doc.Clone(), true
}

func (s *Session) SelectedID() string {
	return s.selected
}

// Selected returns a copy of the selected element.
func (s *Session) Selected() (model.Element, bool) {
	el, err := s.selectedElement()
	if err != nil {
		return model.Element{}, false
	}
	return el.Clone(), true
}

func (s *Session) selectedElement() (*model.Element, error) {
	if s.doc == nil {
		return nil, ErrNoDocument
	}
	if s.selected == "" {
		return nil, ErrNoSelection
	}
	el := s.doc.Element(s.selected)
	if el == nil {
		return nil, ErrNoSelection
	}
	return el, nil
}

func (s *Session) blankDocument() *model.Document {
	now := s.now()
	return &model.Document{
		ID:          newID(),
		Title:       "Untitled Form",
		Description: "Form description",
		Theme:       "default",
		Elements:    []model.Element{},
		Created:     now,
		Modified:    now,
	}
}

// StartNewDocument replaces the draft with a fresh document holding a single
// "name" question, which becomes the selection.
func (s *Session) StartNewDocument() model.Document {
	s.doc = s.blankDocument()
	s.selected = ""

	title, placeholder, required := "What is your name?", "Enter your name", true
	if _, err := s.AddElement(model.TypeText, ElementConfig{
		Title:       &title,
		Placeholder: &placeholder,
		Required:    &required,
	}); err != nil {
		panic(err)
	}
	return s.doc.Clone()
}

// LoadDocument starts editing a copy of doc.
func (s *Session) LoadDocument(doc model.Document) {
	c := doc.Clone()
	s.doc = &c
	s.selected = ""
}

// AddElement appends a new element to the draft and selects it.
func (s *Session) AddElement(t model.ElementType, cfg ElementConfig) (model.Element, error) {
	if s.doc == nil {
		return model.Element{}, ErrNoDocument
	}
	el, err := NewElement(t, cfg)
	if err != nil {
		return model.Element{}, err
	}
	s.doc.Elements = append(s.doc.Elements, el)
	s.selected = el.ID
	return el.Clone(), nil
}

// SelectElement selects id when it belongs to the draft, otherwise clears the selection.
func (s *Session) SelectElement(id string) bool {
	if s.doc == nil || s.doc.IndexOf(id) < 0 {
		s.selected = ""
		return false
	}
	s.selected = id
	return true
}

// UpdateElementField sets one field of the selected element. Values must
// already have the field's Go type (string, bool, int or []string).
func (s *Session) UpdateElementField(field string, value any) error {
	el, err := s.selectedElement()
	if err != nil {
		return err
	}

	switch field {
	case FieldTitle:
		return set(&el.Title, field, value)
	case FieldRequired:
		if el.Type.IsQuestion() {
			return set(&el.Required, field, value)
		}
	}

	switch p := el.Props.(type) {
	case *model.TextProps:
		if field == FieldPlaceholder {
			return set(&p.Placeholder, field, value)
		}
	case *model.ChoiceProps:
		switch {
		case field == FieldOptions:
			return setSlice(&p.Options, field, value)
		case field == FieldAllowOther && el.Type.SupportsOther():
			return set(&p.AllowOther, field, value)
		}
	case *model.FileProps:
		switch field {
		case FieldAllowedTypes:
			return setSlice(&p.AllowedTypes, field, value)
		case FieldMaxSize:
			return set(&p.MaxSize, field, value)
		}
	case *model.ScaleProps:
		switch field {
		case FieldMin:
			return set(&p.Min, field, value)
		case FieldMax:
			return set(&p.Max, field, value)
		case FieldMinLabel:
			return set(&p.MinLabel, field, value)
		case FieldMaxLabel:
			return set(&p.MaxLabel, field, value)
		}
	case *model.SectionProps:
		if field == FieldDescription {
			return set(&p.Description, field, value)
		}
	}
	return fmt.Errorf("%w: %s has no %q", ErrUnknownField, el.Type, field)
}

func set[T any](dst *T, field string, value any) error {
	v, ok := value.(T)
	if !ok {
		return fmt.Errorf("%w: %s wants %T, got %T", ErrFieldValue, field, *dst, value)
	}
	*dst = v
	return nil
}

func setSlice(dst *[]string, field string, value any) error {
	v, ok := value.([]string)
	if !ok {
		return fmt.Errorf("%w: %s wants []string, got %T", ErrFieldValue, field, value)
	}
	*dst = slices.Clone(v)
	return nil
}

func (s *Session) options() (*model.ChoiceProps, error) {
	el, err := s.selectedElement()
	if err != nil {
		return nil, err
	}
	p, ok := el.Choice()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoOptions, el.Type)
	}
	return p, nil
}

// AddOption appends "Option N" to the selected element.
func (s *Session) AddOption() error {
	p, err := s.options()
	if err != nil {
		return err
	}
	p.Options = append(p.Options, fmt.Sprintf("Option %d", len(p.Options)+1))
	return nil
}

// UpdateOption renames option i. Out of range indexes are ignored.
func (s *Session) UpdateOption(i int, value string) error {
	p, err := s.options()
	if err != nil {
		return err
	}
	if i >= 0 && i < len(p.Options) {
		p.Options[i] = value
	}
	return nil
}

// RemoveOption drops option i. Out of range indexes are ignored.
func (s *Session) RemoveOption(i int) error {
	p, err := s.options()
	if err != nil {
		return err
	}
	if i >= 0 && i < len(p.Options) {
		p.Options = slices.Delete(p.Options, i, i+1)
	}
	return nil
}

// MoveOption moves option from to position to. Out of range indexes are ignored.
func (s *Session) MoveOption(from, to int) error {
	p, err := s.options()
	if err != nil {
		return err
	}
	n := len(p.Options)
	if from < 0 || from >= n || to < 0 || to >= n || from == to {
		return nil
	}
	opt := p.Options[from]
	p.Options = slices.Insert(slices.Delete(p.Options, from, from+1), to, opt)
	return nil
}

// DuplicateElement inserts a deep copy of id right after it. The selection is
// left where it was.
func (s *Session) DuplicateElement(id string) (model.Element, error) {
	if s.doc == nil {
		return model.Element{}, ErrNoDocument
	}
	i := s.doc.IndexOf(id)
	if i < 0 {
		return model.Element{}, fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}

	dup := s.doc.Elements[i].Clone()
	dup.ID = newID()
	s.doc.Elements = slices.Insert(s.doc.Elements, i+1, dup)
	return dup.Clone(), nil
}

func (s *Session) DeleteElement(id string) error {
	if s.doc == nil {
		return ErrNoDocument
	}
	i := s.doc.IndexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}

	s.doc.Elements = slices.Delete(s.doc.Elements, i, i+1)
	if s.selected == id {
		s.selected = ""
	}
	return nil
}

func (s *Session) SetTitle(title string) error {
	if s.doc == nil {
		return ErrNoDocument
	}
	s.doc.Title = title
	return nil
}

func (s *Session) SetDescription(description string) error {
	if s.doc == nil {
		return ErrNoDocument
	}
	s.doc.Description = description
	return nil
}

func (s *Session) UpdateSettings(settings model.FormSettings) error {
	if s.doc == nil {
		return ErrNoDocument
	}
	s.doc.Settings = settings
	return nil
}

// Save commits a copy of the draft: it is validated, stamped with the current
// time and upserted by id. The draft and the saved copy stay independent.
func (s *Session) Save(ctx context.Context) (model.Document, error) {
	if s.doc == nil {
		return model.Document{}, ErrNoDocument
	}

	saved := s.doc.Clone()
	saved.Modified = s.now()
	if err := model.Validate(&saved); err != nil {
		return model.Document{}, err
	}
	if err := s.repo.Upsert(ctx, saved); err != nil {
		return model.Document{}, fmt.Errorf("save %s: %w", saved.ID, err)
	}

	s.doc.Modified = saved.Modified
	return saved, nil
}
