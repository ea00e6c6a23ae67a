package builder

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/mbolis/quick-form/model"
)

type Op string

const (
	OpStartNew       Op = "start-new"
	OpApplyTemplate  Op = "apply-template"
	OpAddElement     Op = "add-element"
	OpSelect         Op = "select"
	OpUpdateField    Op = "update-field"
	OpAddOption      Op = "add-option"
	OpUpdateOption   Op = "update-option"
	OpRemoveOption   Op = "remove-option"
	OpMoveOption     Op = "move-option"
	OpDuplicate      Op = "duplicate"
	OpDelete         Op = "delete"
	OpSetTitle       Op = "set-title"
	OpSetDescription Op = "set-description"
	OpUpdateSettings Op = "update-settings"
)

// Command is one editing intent. Rendered controls carry a Command without
// Value; the client fills Value from the control before sending it back.
type Command struct {
	Op          Op                `json:"op"`
	ElementID   string            `json:"elementId,omitempty"`
	ElementType model.ElementType `json:"elementType,omitempty"`
	Config      *ElementConfig    `json:"config,omitempty"`
	Field       string            `json:"field,omitempty"`
	Index       int               `json:"index,omitempty"`
	To          int               `json:"to,omitempty"`
	Value       json.RawMessage   `json:"value,omitempty"`
}

func (c Command) String() string {
	data, err := json.Marshal(c)
	if err != nil {
		return string(c.Op)
	}
	return string(data)
}

// Apply runs cmd against the session. Raw values are coerced to the Go type
// the target field expects.
func (s *Session) Apply(cmd Command) error {
	switch cmd.Op {
	case OpStartNew:
		s.StartNewDocument()
		return nil
	case OpApplyTemplate:
		name, err := decodeString(cmd.Value)
		if err != nil {
			return err
		}
		_, err = s.ApplyTemplate(name)
		return err
	case OpAddElement:
		cfg := ElementConfig{}
		if cmd.Config != nil {
			cfg = *cmd.Config
		}
		_, err := s.AddElement(cmd.ElementType, cfg)
		return err
	case OpSelect:
		if !s.SelectElement(cmd.ElementID) {
			return fmt.Errorf("%w: %s", ErrElementNotFound, cmd.ElementID)
		}
		return nil
	case OpUpdateField:
		v, err := decodeField(cmd.Field, cmd.Value)
		if err != nil {
			return err
		}
		return s.UpdateElementField(cmd.Field, v)
	case OpAddOption:
		return s.AddOption()
	case OpUpdateOption:
		v, err := decodeString(cmd.Value)
		if err != nil {
			return err
		}
		return s.UpdateOption(cmd.Index, v)
	case OpRemoveOption:
		return s.RemoveOption(cmd.Index)
	case OpMoveOption:
		return s.MoveOption(cmd.Index, cmd.To)
	case OpDuplicate:
		_, err := s.DuplicateElement(cmd.ElementID)
		return err
	case OpDelete:
		return s.DeleteElement(cmd.ElementID)
	case OpSetTitle:
		v, err := decodeString(cmd.Value)
		if err != nil {
			return err
		}
		return s.SetTitle(v)
	case OpSetDescription:
		v, err := decodeString(cmd.Value)
		if err != nil {
			return err
		}
		return s.SetDescription(v)
	case OpUpdateSettings:
		var settings model.FormSettings
		if err := json.Unmarshal(cmd.Value, &settings); err != nil {
			return fmt.Errorf("%w: settings: %v", ErrFieldValue, err)
		}
		return s.UpdateSettings(settings)
	}
	return fmt.Errorf("%w %q", ErrUnknownCommand, cmd.Op)
}

func decodeField(field string, raw json.RawMessage) (any, error) {
	switch field {
	case FieldTitle, FieldPlaceholder, FieldMinLabel, FieldMaxLabel, FieldDescription:
		return decodeString(raw)
	case FieldRequired, FieldAllowOther:
		return decodeBool(raw)
	case FieldMin, FieldMax, FieldMaxSize:
		return decodeInt(raw)
	case FieldOptions, FieldAllowedTypes:
		var v []string
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrFieldValue, field, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
}

func decodeString(raw json.RawMessage) (string, error) {
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", fmt.Errorf("%w: %v", ErrFieldValue, err)
	}
	return v, nil
}

// decodeBool accepts JSON booleans and the string forms checkboxes post ("on", "true", "0"...).
func decodeBool(raw json.RawMessage) (bool, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, fmt.Errorf("%w: %v", ErrFieldValue, err)
	}
	switch v := v.(type) {
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "on":
			return true, nil
		case "off", "":
			return false, nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, fmt.Errorf("%w: %q", ErrFieldValue, v)
		}
		return b, nil
	}
	return false, fmt.Errorf("%w: %s", ErrFieldValue, raw)
}

// decodeInt accepts JSON integers and numeric strings from number inputs.
func decodeInt(raw json.RawMessage) (int, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrFieldValue, err)
	}
	switch v := v.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %v is not an integer", ErrFieldValue, v)
		}
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrFieldValue, v)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: %s", ErrFieldValue, raw)
}
