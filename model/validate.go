package model

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	ErrUnknownType     = errors.New("unknown element type")
	ErrInvalidDocument = errors.New("invalid document")
	ErrInvalidResponse = errors.New("invalid response")
	ErrMissingAnswers  = errors.New("required questions not answered")
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the invariants a document must satisfy before it is stored:
// known element types, props matching the type, non-empty option lists for
// choice elements and ordered scale bounds no wider than MaxScalePoints.
func Validate(doc *Document) error {
	v := validatorInstance()
	if err := v.Struct(doc); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	for i := range doc.Elements {
		e := &doc.Elements[i]
		if !e.Type.Valid() {
			return fmt.Errorf("%w: element %s: %w", ErrInvalidDocument, e.ID, ErrUnknownType)
		}
		want, _ := NewProps(e.Type)
		if reflect.TypeOf(e.Props) != reflect.TypeOf(want) {
			return fmt.Errorf("%w: element %s: props %T do not match type %s", ErrInvalidDocument, e.ID, e.Props, e.Type)
		}
		if _, empty := e.Props.(*DateTimeProps); empty {
			continue
		}
		if err := v.Struct(e.Props); err != nil {
			return fmt.Errorf("%w: element %s (%s): %v", ErrInvalidDocument, e.ID, e.Type, err)
		}
		if scale, ok := e.Props.(*ScaleProps); ok && scale.Points() > MaxScalePoints {
			return fmt.Errorf("%w: element %s: scale spans %d points, at most %d allowed", ErrInvalidDocument, e.ID, scale.Points(), MaxScalePoints)
		}
	}
	return nil
}

func ValidateResponse(resp *Response) error {
	if err := validatorInstance().Struct(resp); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

// CheckAnswers returns the titles of the required questions of doc that have no
// answer, wrapped in ErrMissingAnswers. Answers are keyed by question title.
func CheckAnswers(doc *Document, answers map[string]Answer) error {
	var missing []string
	for _, e := range doc.Elements {
		if !e.Required || !e.Type.IsQuestion() {
			continue
		}
		if answers[e.Title].Empty() {
			missing = append(missing, e.Title)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %q", ErrMissingAnswers, missing)
	}
	return nil
}
