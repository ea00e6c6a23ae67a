// Package i18n loads the embedded message catalogs used for rendered labels.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"github.com/BurntSushi/toml"
	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/mbolis/quick-form/log"
)

//go:embed locales/*.toml
var locales embed.FS

type Localizer struct {
	lang      string
	localizer *goi18n.Localizer
}

func newBundle() (*goi18n.Bundle, error) {
	bundle := goi18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	files, err := fs.Glob(locales, "locales/active.*.toml")
	if err != nil {
		return nil, fmt.Errorf("error reading locales: %w", err)
	}
	for _, file := range files {
		data, err := locales.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("error reading locale file %s: %w", file, err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, path.Base(file)); err != nil {
			return nil, fmt.Errorf("error loading locale file %s: %w", file, err)
		}
	}
	return bundle, nil
}

// Languages lists the languages with an embedded catalog.
func Languages() ([]string, error) {
	bundle, err := newBundle()
	if err != nil {
		return nil, err
	}
	tags := bundle.LanguageTags()
	langs := make([]string, len(tags))
	for i, tag := range tags {
		langs[i] = tag.String()
	}
	return langs, nil
}

// New returns a Localizer for lang. Messages missing from lang fall back to English.
func New(lang string) (*Localizer, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return nil, fmt.Errorf("language %q: %w", lang, err)
	}

	bundle, err := newBundle()
	if err != nil {
		return nil, err
	}
	supported := false
	for _, t := range bundle.LanguageTags() {
		if t == tag {
			supported = true
			break
		}
	}
	if !supported {
		return nil, fmt.Errorf("language '%s' not supported", lang)
	}

	return &Localizer{
		lang:      tag.String(),
		localizer: goi18n.NewLocalizer(bundle, tag.String()),
	}, nil
}

func (l *Localizer) Lang() string {
	return l.lang
}

// Message localizes id. A missing id yields the id itself so pages never render blank labels.
func (l *Localizer) Message(id string, data map[string]any) string {
	msg, err := l.localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		TemplateData: data,
	})
	if err != nil {
		log.Warnf("i18n: %s: %v", id, err)
		return id
	}
	return msg
}

func (l *Localizer) Plural(id string, count int) string {
	msg, err := l.localizer.Localize(&goi18n.LocalizeConfig{
		MessageID:    id,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
	if err != nil {
		log.Warnf("i18n: %s: %v", id, err)
		return id
	}
	return msg
}
