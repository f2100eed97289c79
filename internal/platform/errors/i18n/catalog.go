// Package i18n provides internationalization support for error messages.
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	"golang.org/x/text/language"
)

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

// ReasonKey is the metadata key that selects a reason-specific message.
// A message registered under "<CODE>.<reason>" wins over the bare code.
const ReasonKey = "reason"

// BaseLocale is the catalog used when negotiation finds no better match.
const BaseLocale = "en-US"

// Catalog maps error codes to message templates for a specific locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

var (
	catalogsMu sync.RWMutex
	// catalogs holds the registered catalogs by canonical locale.
	catalogs = map[string]*Catalog{
		enUSCatalog.locale: enUSCatalog,
		ptBRCatalog.locale: ptBRCatalog,
	}
)

// GetCatalog returns the catalog that best matches an Accept-Language style
// locale list. Falls back to en-US if nothing matches.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if requested == "" {
		requested = BaseLocale
	}

	if c, ok := lookupCatalog(requested); ok {
		return c
	}

	resolved := negotiate(requested)
	if c, ok := lookupCatalog(resolved); ok {
		return c
	}
	c, _ := lookupCatalog(BaseLocale)
	return c
}

// Locale returns the locale of this catalog.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders the message template with the given metadata.
// Falls back to the error code itself if no template is found.
// Templates are always executed even with nil/empty metadata to ensure
// consistent output (template variables without metadata render as empty).
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.lookup(code, metadata)
	if !ok {
		return code
	}

	if metadata == nil {
		metadata = map[string]string{}
	}

	t, err := template.New("msg").Parse(tmpl)
	if err != nil {
		return tmpl
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}

func (c *Catalog) lookup(code Code, metadata map[string]string) (string, bool) {
	if reason := metadata[ReasonKey]; reason != "" {
		if tmpl, ok := c.messages[code+"."+reason]; ok {
			return tmpl, true
		}
	}
	tmpl, ok := c.messages[code]
	return tmpl, ok
}

// RegisterCatalog registers a new catalog for the given locale.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[locale] = cat
}

// NewCatalog creates a new catalog with the given locale and messages.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cloned := make(map[Code]string, len(messages))
	for key, value := range messages {
		cloned[key] = value
	}
	return &Catalog{
		locale:   locale,
		messages: cloned,
	}
}

// negotiate resolves an Accept-Language value against the registered locales.
func negotiate(requested string) string {
	desired, _, err := language.ParseAcceptLanguage(requested)
	if err != nil || len(desired) == 0 {
		return BaseLocale
	}

	catalogsMu.RLock()
	supported := make([]language.Tag, 0, len(catalogs)+1)
	names := make([]string, 0, len(catalogs)+1)
	// The base locale goes first so the matcher falls back to it.
	supported = append(supported, language.MustParse(BaseLocale))
	names = append(names, BaseLocale)
	for name := range catalogs {
		if name == BaseLocale {
			continue
		}
		tag, err := language.Parse(name)
		if err != nil {
			continue
		}
		supported = append(supported, tag)
		names = append(names, name)
	}
	catalogsMu.RUnlock()

	_, index, confidence := language.NewMatcher(supported).Match(desired...)
	if confidence == language.No {
		return BaseLocale
	}
	return names[index]
}

func lookupCatalog(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	cat, ok := catalogs[locale]
	return cat, ok
}
