package model

import (
	"encoding/json"
	"fmt"
	"slices"
)

type ElementType string

const (
	TypeText           ElementType = "text"
	TypeParagraph      ElementType = "paragraph"
	TypeMultipleChoice ElementType = "multiple-choice"
	TypeCheckbox       ElementType = "checkbox"
	TypeDropdown       ElementType = "dropdown"
	TypeFile           ElementType = "file"
	TypeLinearScale    ElementType = "linear-scale"
	TypeDate           ElementType = "date"
	TypeTime           ElementType = "time"
	TypeSection        ElementType = "section"
)

// ElementTypes lists every supported kind, in palette order.
var ElementTypes = []ElementType{
	TypeText,
	TypeParagraph,
	TypeMultipleChoice,
	TypeCheckbox,
	TypeDropdown,
	TypeFile,
	TypeLinearScale,
	TypeDate,
	TypeTime,
	TypeSection,
}

func (t ElementType) Valid() bool {
	return slices.Contains(ElementTypes, t)
}

// IsChoice reports whether elements of this type carry an option list.
func (t ElementType) IsChoice() bool {
	return t == TypeMultipleChoice || t == TypeCheckbox || t == TypeDropdown
}

// SupportsOther reports whether the "Other..." free answer can be enabled.
func (t ElementType) SupportsOther() bool {
	return t == TypeMultipleChoice || t == TypeCheckbox
}

// IsQuestion is false for layout-only elements, which cannot be required or answered.
func (t ElementType) IsQuestion() bool {
	return t != TypeSection
}

// Props holds the type-specific part of an Element.
// The set of implementations is closed to this package.
type Props interface {
	clone() Props
}

type TextProps struct {
	Placeholder string `json:"placeholder"`
}

type ChoiceProps struct {
	Options    []string `json:"options" validate:"min=1"`
	AllowOther bool     `json:"allowOther"`
}

type FileProps struct {
	AllowedTypes []string `json:"allowedTypes"`
	// MaxSize is expressed in megabytes.
	MaxSize int `json:"maxSize" validate:"gte=0"`
}

// MaxScalePoints is the widest scale a form can offer, bounds included.
const MaxScalePoints = 101

type ScaleProps struct {
	Min      int    `json:"min"`
	Max      int    `json:"max" validate:"gtefield=Min"`
	MinLabel string `json:"minLabel"`
	MaxLabel string `json:"maxLabel"`
}

// Points is the number of selectable values between the bounds, Max >= Min.
// The difference is taken unsigned so extreme bounds cannot wrap around.
func (p *ScaleProps) Points() uint64 {
	return uint64(p.Max-p.Min) + 1
}

type DateTimeProps struct{}

type SectionProps struct {
	Description string `json:"description"`
}

func (p *TextProps) clone() Props {
	c := *p
	return &c
}

func (p *ChoiceProps) clone() Props {
	c := *p
	c.Options = slices.Clone(p.Options)
	return &c
}

func (p *FileProps) clone() Props {
	c := *p
	c.AllowedTypes = slices.Clone(p.AllowedTypes)
	return &c
}

func (p *ScaleProps) clone() Props {
	c := *p
	return &c
}

func (p *DateTimeProps) clone() Props {
	return &DateTimeProps{}
}

func (p *SectionProps) clone() Props {
	c := *p
	return &c
}

// NewProps returns zero-valued props of the right variant for t.
func NewProps(t ElementType) (Props, error) {
	switch t {
	case TypeText, TypeParagraph:
		return &TextProps{}, nil
	case TypeMultipleChoice, TypeCheckbox, TypeDropdown:
		return &ChoiceProps{}, nil
	case TypeFile:
		return &FileProps{}, nil
	case TypeLinearScale:
		return &ScaleProps{}, nil
	case TypeDate, TypeTime:
		return &DateTimeProps{}, nil
	case TypeSection:
		return &SectionProps{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownType, t)
}

// Element is one question (or layout block) in a form.
type Element struct {
	ID       string      `validate:"required"`
	Type     ElementType `validate:"required"`
	Title    string
	Required bool
	Props    Props `validate:"-"`
}

func (e Element) Clone() Element {
	c := e
	if e.Props != nil {
		c.Props = e.Props.clone()
	}
	return c
}

func (e *Element) Text() (*TextProps, bool) {
	p, ok := e.Props.(*TextProps)
	return p, ok
}

func (e *Element) Choice() (*ChoiceProps, bool) {
	p, ok := e.Props.(*ChoiceProps)
	return p, ok
}

func (e *Element) File() (*FileProps, bool) {
	p, ok := e.Props.(*FileProps)
	return p, ok
}

func (e *Element) Scale() (*ScaleProps, bool) {
	p, ok := e.Props.(*ScaleProps)
	return p, ok
}

func (e *Element) Section() (*SectionProps, bool) {
	p, ok := e.Props.(*SectionProps)
	return p, ok
}

type elementHeader struct {
	ID       string      `json:"id"`
	Type     ElementType `json:"type"`
	Title    string      `json:"title"`
	Required bool        `json:"required"`
}

// MarshalJSON flattens header and props into one object, matching the stored layout:
// {"id":"…","type":"dropdown","title":"…","required":false,"options":[…],"allowOther":false}
func (e Element) MarshalJSON() ([]byte, error) {
	h := elementHeader{e.ID, e.Type, e.Title, e.Required}

	props := e.Props
	if props == nil {
		var err error
		props, err = NewProps(e.Type)
		if err != nil {
			return nil, err
		}
	}

	switch p := props.(type) {
	case *TextProps:
		return json.Marshal(struct {
			elementHeader
			*TextProps
		}{h, p})
	case *ChoiceProps:
		if p.Options == nil {
			p = &ChoiceProps{Options: []string{}, AllowOther: p.AllowOther}
		}
		return json.Marshal(struct {
			elementHeader
			*ChoiceProps
		}{h, p})
	case *FileProps:
		if p.AllowedTypes == nil {
			p = &FileProps{AllowedTypes: []string{}, MaxSize: p.MaxSize}
		}
		return json.Marshal(struct {
			elementHeader
			*FileProps
		}{h, p})
	case *ScaleProps:
		return json.Marshal(struct {
			elementHeader
			*ScaleProps
		}{h, p})
	case *SectionProps:
		return json.Marshal(struct {
			elementHeader
			*SectionProps
		}{h, p})
	case *DateTimeProps:
		return json.Marshal(h)
	}
	return nil, fmt.Errorf("element %s: unexpected props %T", e.ID, props)
}

func (e *Element) UnmarshalJSON(data []byte) error {
	var h elementHeader
	if err := json.Unmarshal(data, &h); err != nil {
		return err
	}

	props, err := NewProps(h.Type)
	if err != nil {
		return err
	}
	if _, empty := props.(*DateTimeProps); !empty {
		if err := json.Unmarshal(data, props); err != nil {
			return fmt.Errorf("element %s: %w", h.ID, err)
		}
	}

	*e = Element{
		ID:       h.ID,
		Type:     h.Type,
		Title:    h.Title,
		Required: h.Required,
		Props:    props,
	}
	return nil
}
