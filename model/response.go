package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Answer is the submitted value of one question. Most questions produce a single
// value; checkboxes produce one value per ticked option.
type Answer []string

func (a Answer) String() string {
	return strings.Join(a, ", ")
}

func (a Answer) Empty() bool {
	for _, v := range a {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (a Answer) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("null"), nil
	}
	if len(a) == 1 {
		return json.Marshal(a[0])
	}
	return json.Marshal([]string(a))
}

// UnmarshalJSON accepts a string, a number, a boolean or an array of those.
func (a *Answer) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case nil:
		*a = nil
	case []any:
		out := make(Answer, 0, len(v))
		for _, item := range v {
			s, err := scalar(item)
			if err != nil {
				return err
			}
			out = append(out, s)
		}
		*a = out
	default:
		s, err := scalar(v)
		if err != nil {
			return err
		}
		*a = Answer{s}
	}
	return nil
}

func scalar(v any) (string, error) {
	switch v := v.(type) {
	case string:
		return v, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case bool:
		return strconv.FormatBool(v), nil
	}
	return "", fmt.Errorf("unsupported answer value %T", v)
}

// Response is one submitted answer set.
type Response struct {
	FormID     string    `json:"formId,omitempty"`
	Timestamp  time.Time `json:"timestamp" validate:"required"`
	Respondent string    `json:"respondent,omitempty"`
	Email      string    `json:"email,omitempty" validate:"omitempty,email"`
	// Duration is the time spent filling the form, in seconds.
	Duration int               `json:"duration" validate:"gte=0"`
	Answers  map[string]Answer `json:"answers"`
}
