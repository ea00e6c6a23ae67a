package builder

import (
	"fmt"
	"slices"

	"github.com/mbolis/quick-form/model"
)

type Template struct {
	Name        string          `json:"name"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Elements    []model.Element `json:"elements"`
}

// Element ids inside templates are placeholders, replaced on every use.
var templates = map[string]Template{
	"contact": {
		Name:        "contact",
		Title:       "Contact Form",
		Description: "Please fill out this contact form and we will get back to you soon.",
		Elements: []model.Element{
			{ID: "contact-name", Type: model.TypeText, Title: "Full Name", Required: true,
				Props: &model.TextProps{Placeholder: "Enter your full name"}},
			{ID: "contact-email", Type: model.TypeText, Title: "Email Address", Required: true,
				Props: &model.TextProps{Placeholder: "your.email@example.com"}},
			{ID: "contact-phone", Type: model.TypeText, Title: "Phone Number",
				Props: &model.TextProps{Placeholder: "+1 (555) 123-4567"}},
			{ID: "contact-topic", Type: model.TypeMultipleChoice, Title: "How can we help you?", Required: true,
				Props: &model.ChoiceProps{Options: []string{"General Inquiry", "Support", "Sales", "Feedback", "Other"}}},
			{ID: "contact-message", Type: model.TypeParagraph, Title: "Message", Required: true,
				Props: &model.TextProps{Placeholder: "Please provide details about your inquiry..."}},
		},
	},
	"survey": {
		Name:        "survey",
		Title:       "Customer Satisfaction Survey",
		Description: "Help us improve our services by providing your valuable feedback.",
		Elements: []model.Element{
			{ID: "survey-satisfaction", Type: model.TypeLinearScale, Title: "How satisfied are you with our service?", Required: true,
				Props: &model.ScaleProps{Min: 1, Max: 5, MinLabel: "Very Dissatisfied", MaxLabel: "Very Satisfied"}},
			{ID: "survey-source", Type: model.TypeMultipleChoice, Title: "How did you hear about us?",
				Props: &model.ChoiceProps{Options: []string{"Social Media", "Search Engine", "Friend/Colleague", "Advertisement", "Other"}}},
			{ID: "survey-features", Type: model.TypeCheckbox, Title: "What features do you value the most?",
				Props: &model.ChoiceProps{Options: []string{"User Interface", "Performance", "Customer Support", "Price", "Features"}}},
			{ID: "survey-comments", Type: model.TypeParagraph, Title: "Any additional comments or suggestions?",
				Props: &model.TextProps{Placeholder: "Your feedback is valuable to us..."}},
		},
	},
}

// Templates lists the available templates sorted by name.
func Templates() []Template {
	names := make([]string, 0, len(templates))
	for name := range templates {
		names = append(names, name)
	}
	slices.Sort(names)

	out := make([]Template, len(names))
	for i, name := range names {
		out[i] = templates[name]
	}
	return out
}

// ApplyTemplate replaces the draft with a new document built from the named
// template. Every element gets a fresh id and nothing is selected.
func (s *Session) ApplyTemplate(name string) (model.Document, error) {
	tpl, ok := templates[name]
	if !ok {
		return model.Document{}, fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}

	doc := s.blankDocument()
	doc.Title = tpl.Title
	doc.Description = tpl.Description
	doc.Elements = make([]model.Element, len(tpl.Elements))
	for i, el := range tpl.Elements {
		c := el.Clone()
		c.ID = newID()
		doc.Elements[i] = c
	}

	s.doc = doc
	s.selected = ""
	return doc.Clone(), nil
}
