package terminal

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

// DefaultLang is the language used when none is configured.
const DefaultLang = "fr"

// Catalog resolves player-facing messages in one language.
type Catalog struct {
	lang      string
	localizer *i18n.Localizer
}

// NewCatalog loads the embedded message files and selects lang, falling back to French for
// messages the language does not define.
func NewCatalog(lang string) (*Catalog, error) {
	if lang == "" {
		lang = DefaultLang
	}
	if _, err := language.Parse(lang); err != nil {
		return nil, fmt.Errorf("parse language %q: %w", lang, err)
	}

	bundle := i18n.NewBundle(language.French)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("read locale file %s: %w", e.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return nil, fmt.Errorf("parse locale file %s: %w", e.Name(), err)
		}
	}

	return &Catalog{lang: lang, localizer: i18n.NewLocalizer(bundle, lang)}, nil
}

func (c *Catalog) Lang() string {
	return c.lang
}

// T translates a message by ID.
func (c *Catalog) T(msgID string) string {
	return c.localize(&i18n.LocalizeConfig{MessageID: msgID})
}

// Td translates a message by ID with template data.
func (c *Catalog) Td(msgID string, data map[string]any) string {
	return c.localize(&i18n.LocalizeConfig{MessageID: msgID, TemplateData: data})
}

// Tp translates a pluralized message by ID.
func (c *Catalog) Tp(msgID string, count int, data map[string]any) string {
	td := map[string]any{"Count": count}
	for k, v := range data {
		td[k] = v
	}
	return c.localize(&i18n.LocalizeConfig{MessageID: msgID, PluralCount: count, TemplateData: td})
}

func (c *Catalog) localize(cfg *i18n.LocalizeConfig) string {
	s, err := c.localizer.Localize(cfg)
	if err != nil {
		slog.Warn("missing translation", "id", cfg.MessageID, "lang", c.lang, "error", err)
		// go-i18n still returns the default-language text when only the requested one is missing.
		if s == "" {
			return cfg.MessageID
		}
	}
	return s
}
