package model

import (
	"time"
)

type FormSettings struct {
	RequireLogin  bool `json:"requireLogin"`
	Captcha       bool `json:"captcha"`
	ResponseLimit int  `json:"responseLimit" validate:"gte=0"`
	// TimeLimit is in minutes, 0 means unlimited.
	TimeLimit int `json:"timeLimit" validate:"gte=0"`
}

// Document is the full definition of one form.
type Document struct {
	ID          string       `json:"id" validate:"required"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Theme       string       `json:"theme,omitempty"`
	Elements    []Element    `json:"elements" validate:"dive"`
	Created     time.Time    `json:"created"`
	Modified    time.Time    `json:"modified"`
	Settings    FormSettings `json:"settings"`
}

func (d Document) Clone() Document {
	c := d
	c.Elements = make([]Element, len(d.Elements))
	for i, e := range d.Elements {
		c.Elements[i] = e.Clone()
	}
	return c
}

// IndexOf returns the position of the element with the given id, or -1.
func (d *Document) IndexOf(id string) int {
	for i := range d.Elements {
		if d.Elements[i].ID == id {
			return i
		}
	}
	return -1
}

func (d *Document) Element(id string) *Element {
	i := d.IndexOf(id)
	if i < 0 {
		return nil
	}
	return &d.Elements[i]
}

// Questions counts the answerable elements (sections excluded).
func (d *Document) Questions() int {
	n := 0
	for _, e := range d.Elements {
		if e.Type.IsQuestion() {
			n++
		}
	}
	return n
}
