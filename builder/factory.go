package builder

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/mbolis/quick-form/model"
)

var newID = uuid.NewString

// ElementConfig carries caller overrides merged on top of a type's defaults.
// Nil fields keep the default; fields that do not apply to the type are ignored.
type ElementConfig struct {
	Title        *string  `json:"title,omitempty"`
	Required     *bool    `json:"required,omitempty"`
	Placeholder  *string  `json:"placeholder,omitempty"`
	Options      []string `json:"options,omitempty"`
	AllowOther   *bool    `json:"allowOther,omitempty"`
	AllowedTypes []string `json:"allowedTypes,omitempty"`
	MaxSize      *int     `json:"maxSize,omitempty"`
	Min          *int     `json:"min,omitempty"`
	Max          *int     `json:"max,omitempty"`
	MinLabel     *string  `json:"minLabel,omitempty"`
	MaxLabel     *string  `json:"maxLabel,omitempty"`
	Description  *string  `json:"description,omitempty"`
}

func defaultOptions() []string {
	return []string{"Option 1", "Option 2", "Option 3"}
}

// defaults returns the palette template for t, without id.
func defaults(t model.ElementType) (model.Element, error) {
	el := model.Element{Type: t}
	switch t {
	case model.TypeText:
		el.Title = "Short Answer"
		el.Props = &model.TextProps{Placeholder: "Enter your answer"}
	case model.TypeParagraph:
		el.Title = "Long Answer"
		el.Props = &model.TextProps{Placeholder: "Enter your answer here..."}
	case model.TypeMultipleChoice:
		el.Title = "Multiple Choice"
		el.Props = &model.ChoiceProps{Options: defaultOptions()}
	case model.TypeCheckbox:
		el.Title = "Checkboxes"
		el.Props = &model.ChoiceProps{Options: defaultOptions()}
	case model.TypeDropdown:
		el.Title = "Dropdown"
		el.Props = &model.ChoiceProps{Options: defaultOptions()}
	case model.TypeFile:
		el.Title = "File Upload"
		el.Props = &model.FileProps{AllowedTypes: []string{"image/*", ".pdf", ".doc", ".docx"}, MaxSize: 5}
	case model.TypeLinearScale:
		el.Title = "Linear Scale"
		el.Props = &model.ScaleProps{Min: 1, Max: 5, MinLabel: "Poor", MaxLabel: "Excellent"}
	case model.TypeDate:
		el.Title = "Date"
		el.Props = &model.DateTimeProps{}
	case model.TypeTime:
		el.Title = "Time"
		el.Props = &model.DateTimeProps{}
	case model.TypeSection:
		el.Title = "Section Title"
		el.Props = &model.SectionProps{Description: "Section description"}
	default:
		return model.Element{}, fmt.Errorf("%w: %q", ErrUnknownElementType, t)
	}
	return el, nil
}

// NewElement builds an element of type t from its defaults and cfg, with a fresh id.
// Nothing is appended anywhere: callers decide what to do with the value.
func NewElement(t model.ElementType, cfg ElementConfig) (model.Element, error) {
	el, err := defaults(t)
	if err != nil {
		return model.Element{}, err
	}
	el.ID = newID()

	if cfg.Title != nil {
		el.Title = *cfg.Title
	}
	if cfg.Required != nil && t.IsQuestion() {
		el.Required = *cfg.Required
	}

	switch p := el.Props.(type) {
	case *model.TextProps:
		if cfg.Placeholder != nil {
			p.Placeholder = *cfg.Placeholder
		}
	case *model.ChoiceProps:
		if cfg.Options != nil {
			p.Options = slices.Clone(cfg.Options)
		}
		if cfg.AllowOther != nil && t.SupportsOther() {
			p.AllowOther = *cfg.AllowOther
		}
	case *model.FileProps:
		if cfg.AllowedTypes != nil {
			p.AllowedTypes = slices.Clone(cfg.AllowedTypes)
		}
		if cfg.MaxSize != nil {
			p.MaxSize = *cfg.MaxSize
		}
	case *model.ScaleProps:
		if cfg.Min != nil {
			p.Min = *cfg.Min
		}
		if cfg.Max != nil {
			p.Max = *cfg.Max
		}
		if cfg.MinLabel != nil {
			p.MinLabel = *cfg.MinLabel
		}
		if cfg.MaxLabel != nil {
			p.MaxLabel = *cfg.MaxLabel
		}
	case *model.SectionProps:
		if cfg.Description != nil {
			p.Description = *cfg.Description
		}
	}
	return el, nil
}
