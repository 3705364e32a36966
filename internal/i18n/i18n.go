// Package i18n provides translation catalogs for API-facing messages.
// Catalogs are flat JSON files embedded at build time; the request
// language is negotiated from the Accept-Language header.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localesFS embed.FS

type Translator struct {
	catalogs map[string]map[string]string
	tags     []language.Tag
	matcher  language.Matcher
	fallback string
}

// New loads every embedded locale catalog. The fallback language is
// used when negotiation fails or a key is missing from the catalog.
func New(fallback string) (*Translator, error) {
	t := &Translator{
		catalogs: make(map[string]map[string]string),
		fallback: fallback,
	}

	entries, err := fs.ReadDir(localesFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("failed to read locales: %w", err)
	}

	for _, entry := range entries {
		code := strings.TrimSuffix(entry.Name(), path.Ext(entry.Name()))

		data, err := localesFS.ReadFile(path.Join("locales", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read locale %s: %w", code, err)
		}

		catalog := make(map[string]string)
		err = json.Unmarshal(data, &catalog)
		if err != nil {
			return nil, fmt.Errorf("failed to parse locale %s: %w", code, err)
		}

		tag, err := language.Parse(code)
		if err != nil {
			slog.Warn("skipping locale with invalid language code", "code", code)
			continue
		}

		t.catalogs[code] = catalog
		t.tags = append(t.tags, tag)
	}

	if _, ok := t.catalogs[fallback]; !ok {
		return nil, fmt.Errorf("fallback locale %q has no catalog", fallback)
	}

	t.matcher = language.NewMatcher(t.tags)
	return t, nil
}

// Languages returns the codes of all loaded catalogs.
func (t *Translator) Languages() []string {
	codes := make([]string, 0, len(t.catalogs))
	for code := range t.catalogs {
		codes = append(codes, code)
	}
	return codes
}

// Negotiate picks the best supported language for an Accept-Language header.
func (t *Translator) Negotiate(acceptLanguage string) string {
	if acceptLanguage == "" {
		return t.fallback
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return t.fallback
	}

	_, idx, conf := t.matcher.Match(tags...)
	if conf == language.No {
		return t.fallback
	}

	base, _ := t.tags[idx].Base()
	return base.String()
}

// T resolves a message key for a locale, substituting {placeholder}
// arguments. Missing keys fall back to the default catalog, then to
// the key itself so a gap never hides an error message.
func (t *Translator) T(locale, key string, args map[string]string) string {
	msg, ok := t.catalogs[locale][key]
	if !ok {
		msg, ok = t.catalogs[t.fallback][key]
	}
	if !ok {
		return key
	}

	for name, value := range args {
		msg = strings.ReplaceAll(msg, "{"+name+"}", value)
	}
	return msg
}
