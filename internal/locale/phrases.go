package locale

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"claimrelay/internal/types"
)

// DefaultLocale is used when a reseller has no explicit locale mapping or
// when a phrase is missing from the reseller's locale.
const DefaultLocale = "en"

// DefaultPhrases returns the built-in phrase catalog. Keys follow the
// notify package's phrase constants; values are text/template sources with
// the template placeholder keys as parameters.
func DefaultPhrases() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			"diff.new_position":   "A new return position was added to the complaint",
			"diff.status_changed": "Status changed from {{.FROM}} to {{.TO}}",
			"email.subject":       "Goods return complaint {{.COMPLAINT_NUMBER}}",
			"email.body": "Complaint {{.COMPLAINT_NUMBER}} (agreement {{.AGREEMENT_NUMBER}}) was updated on {{.DATE}}.\n" +
				"Client: {{.CLIENT_NAME}}\n" +
				"Created by: {{.CREATOR_NAME}}, expert: {{.EXPERT_NAME}}\n" +
				"Consumption: {{.CONSUMPTION_NUMBER}}\n" +
				"{{.DIFFERENCES}}",
			"sms.body": "Complaint {{.COMPLAINT_NUMBER}}: {{.DIFFERENCES}}",
		},
		"de": {
			"diff.new_position":   "Der Reklamation wurde eine neue Rueckgabeposition hinzugefuegt",
			"diff.status_changed": "Status geaendert von {{.FROM}} auf {{.TO}}",
			"email.subject":       "Warenruecksendung Reklamation {{.COMPLAINT_NUMBER}}",
		},
	}
}

// Catalog implements types.PhraseRenderer over a parsed phrase catalog.
// Lookup order: reseller locale, then DefaultLocale. A phrase missing from
// both is an error; callers treat missing phrases as a configuration bug,
// not a soft default.
type Catalog struct {
	templates       map[string]map[string]*template.Template
	resellerLocales map[int64]string
	logger          types.Logger
}

// CatalogConfig holds the inputs for building a Catalog.
type CatalogConfig struct {
	// Phrases maps locale -> phrase key -> template source. When nil,
	// DefaultPhrases() is used.
	Phrases map[string]map[string]string
	// ResellerLocales maps reseller id -> locale. Unmapped resellers use
	// DefaultLocale.
	ResellerLocales map[int64]string
	Logger          types.Logger
}

// NewCatalog parses the phrase sources and returns a Catalog. Returns an
// error if any phrase fails to parse.
func NewCatalog(cfg CatalogConfig) (*Catalog, error) {
	sources := cfg.Phrases
	if sources == nil {
		sources = DefaultPhrases()
	}

	parsed := make(map[string]map[string]*template.Template, len(sources))
	for loc, phrases := range sources {
		parsed[loc] = make(map[string]*template.Template, len(phrases))
		for key, src := range phrases {
			tmpl, err := template.New(key).Option("missingkey=zero").Parse(src)
			if err != nil {
				return nil, fmt.Errorf("locale: parse phrase %s/%s: %w", loc, key, err)
			}
			parsed[loc][key] = tmpl
		}
	}

	if _, ok := parsed[DefaultLocale]; !ok {
		return nil, fmt.Errorf("locale: catalog has no %q locale", DefaultLocale)
	}

	return &Catalog{
		templates:       parsed,
		resellerLocales: cfg.ResellerLocales,
		logger:          cfg.Logger,
	}, nil
}

// Render executes the phrase template for the reseller's locale with the
// given parameters.
func (c *Catalog) Render(ctx context.Context, key string, params map[string]string, resellerID int64) (string, error) {
	tmpl := c.phrase(key, c.localeFor(resellerID))
	if tmpl == nil {
		return "", fmt.Errorf("locale: phrase %q not found", key)
	}

	if params == nil {
		params = map[string]string{}
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, params); err != nil {
		return "", fmt.Errorf("locale: render phrase %q: %w", key, err)
	}
	return buf.String(), nil
}

// phrase finds the template for key, falling back from the reseller locale
// to the default locale.
func (c *Catalog) phrase(key, loc string) *template.Template {
	if phrases, ok := c.templates[loc]; ok {
		if tmpl, ok := phrases[key]; ok {
			return tmpl
		}
	}
	if loc == DefaultLocale {
		return nil
	}
	return c.templates[DefaultLocale][key]
}

func (c *Catalog) localeFor(resellerID int64) string {
	if loc, ok := c.resellerLocales[resellerID]; ok {
		return loc
	}
	return DefaultLocale
}

// Compile-time assertion that Catalog implements types.PhraseRenderer.
var _ types.PhraseRenderer = (*Catalog)(nil)
