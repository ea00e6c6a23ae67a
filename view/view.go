// Package view renders forms and the builder property panel as HTML.
// Rendering never mutates its input: every editing control carries the
// builder command it stands for in a data-command attribute.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"io"
	"net/url"
	"strings"

	"github.com/mbolis/quick-form/builder"
	"github.com/mbolis/quick-form/model"
)

//go:embed templates/*.html
var templateFS embed.FS

// Localizer resolves label ids. *i18n.Localizer satisfies it.
type Localizer interface {
	Message(id string, data map[string]any) string
	Plural(id string, count int) string
}

type Renderer struct {
	tpl *template.Template
}

func NewRenderer(loc Localizer) (*Renderer, error) {
	funcs := template.FuncMap{
		"t": func(id string, kv ...any) (string, error) {
			if len(kv)%2 != 0 {
				return "", fmt.Errorf("t %s: odd argument count", id)
			}
			var data map[string]any
			if len(kv) > 0 {
				data = make(map[string]any, len(kv)/2)
				for i := 0; i < len(kv); i += 2 {
					data[fmt.Sprint(kv[i])] = kv[i+1]
				}
			}
			return loc.Message(id, data), nil
		},
		"plural":  loc.Plural,
		"command": command,
		"join":    strings.Join,
	}

	tpl, err := template.New("view").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tpl: tpl}, nil
}

// command encodes a builder command from key/value pairs (id, field, index, to, type).
func command(op string, kv ...any) (string, error) {
	if len(kv)%2 != 0 {
		return "", fmt.Errorf("command %s: odd argument count", op)
	}

	cmd := builder.Command{Op: builder.Op(op)}
	for i := 0; i < len(kv); i += 2 {
		key, value := kv[i], kv[i+1]
		var ok bool
		switch key {
		case "id":
			cmd.ElementID, ok = value.(string)
		case "field":
			cmd.Field, ok = value.(string)
		case "index":
			cmd.Index, ok = value.(int)
		case "to":
			cmd.To, ok = value.(int)
		case "type":
			cmd.ElementType, ok = value.(model.ElementType)
		}
		if !ok {
			return "", fmt.Errorf("command %s: bad argument %v=%v", op, key, value)
		}
	}
	return cmd.String(), nil
}

// control is what the per-type templates see.
type control struct {
	ID        string
	Type      model.ElementType
	Title     string
	Required  bool
	IsSection bool

	Text    *model.TextProps
	Choice  *model.ChoiceProps
	File    *model.FileProps
	Scale   *model.ScaleProps
	Section *model.SectionProps

	InputType     string
	SupportsOther bool
	Points        []int
}

func newControl(el *model.Element) control {
	c := control{
		ID:            el.ID,
		Type:          el.Type,
		Title:         el.Title,
		Required:      el.Required && el.Type.IsQuestion(),
		IsSection:     el.Type == model.TypeSection,
		SupportsOther: el.Type.SupportsOther(),
	}
	c.Text, _ = el.Text()
	c.Choice, _ = el.Choice()
	c.File, _ = el.File()
	c.Scale, _ = el.Scale()
	c.Section, _ = el.Section()

	if el.Type == model.TypeCheckbox {
		c.InputType = "checkbox"
	} else {
		c.InputType = "radio"
	}
	if c.Scale != nil {
		for p := c.Scale.Min; p <= c.Scale.Max && len(c.Points) < model.MaxScalePoints; p++ {
			c.Points = append(c.Points, p)
		}
	}
	return c
}

func controlTemplate(t model.ElementType) (string, error) {
	switch t {
	case model.TypeText:
		return "text", nil
	case model.TypeParagraph:
		return "paragraph", nil
	case model.TypeMultipleChoice, model.TypeCheckbox:
		return "choice", nil
	case model.TypeDropdown:
		return "dropdown", nil
	case model.TypeFile:
		return "file", nil
	case model.TypeLinearScale:
		return "scale", nil
	case model.TypeDate:
		return "date", nil
	case model.TypeTime:
		return "time", nil
	case model.TypeSection:
		return "section", nil
	}
	return "", fmt.Errorf("%w: %q", model.ErrUnknownType, t)
}

type elementView struct {
	control
	Selected bool
	Editable bool
	Control  template.HTML
}

func (r *Renderer) elementView(el *model.Element, selected, editable bool) (elementView, error) {
	c := newControl(el)
	name, err := controlTemplate(el.Type)
	if err != nil {
		return elementView{}, err
	}

	var buf bytes.Buffer
	if err := r.tpl.ExecuteTemplate(&buf, name, c); err != nil {
		return elementView{}, fmt.Errorf("render %s: %w", el.ID, err)
	}
	return elementView{
		control:  c,
		Selected: selected,
		Editable: editable,
		Control:  template.HTML(buf.String()),
	}, nil
}

type documentView struct {
	ID          string
	Title       string
	Description string
	Questions   int
	Elements    []elementView
}

func (r *Renderer) document(w io.Writer, doc *model.Document, selectedID string, editable bool) error {
	v := documentView{
		ID:          doc.ID,
		Title:       doc.Title,
		Description: doc.Description,
		Questions:   doc.Questions(),
	}
	for i := range doc.Elements {
		el := &doc.Elements[i]
		ev, err := r.elementView(el, editable && el.ID == selectedID, editable)
		if err != nil {
			return err
		}
		v.Elements = append(v.Elements, ev)
	}
	return r.tpl.ExecuteTemplate(w, "document", v)
}

// Document renders the builder canvas: every element with its editing
// actions, selectedID highlighted.
func (r *Renderer) Document(w io.Writer, doc model.Document, selectedID string) error {
	return r.document(w, &doc, selectedID, true)
}

// Preview renders doc the way respondents see it.
func (r *Renderer) Preview(w io.Writer, doc model.Document) error {
	return r.document(w, &doc, "", false)
}

func (r *Renderer) Element(w io.Writer, el model.Element, selected bool) error {
	ev, err := r.elementView(&el, selected, true)
	if err != nil {
		return err
	}
	return r.tpl.ExecuteTemplate(w, "element", ev)
}

// Properties renders the property panel for el, or the "no selection" hint when el is nil.
func (r *Renderer) Properties(w io.Writer, el *model.Element) error {
	if el == nil {
		return r.tpl.ExecuteTemplate(w, "properties", (*control)(nil))
	}
	c := newControl(el)
	return r.tpl.ExecuteTemplate(w, "properties", &c)
}

// Palette renders one add-element button per element type.
func (r *Renderer) Palette(w io.Writer) error {
	return r.tpl.ExecuteTemplate(w, "palette", model.ElementTypes)
}

// ShareLink returns the public address of form id and an iframe snippet embedding it.
func ShareLink(baseURL, id string) (link, snippet string) {
	link = strings.TrimRight(baseURL, "/") + "/api/forms/" + url.PathEscape(id) + "/view"
	snippet = fmt.Sprintf(`<iframe src="%s" width="100%%" height="600" frameborder="0"></iframe>`, html.EscapeString(link))
	return link, snippet
}
