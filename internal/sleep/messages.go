package sleep

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/sleeplog/apiserver/types"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// DefaultLanguage is used when no requested language is supported.
const DefaultLanguage = "en"

//go:embed messages.yaml
var defaultCatalogYAML []byte

type catalogLanguage struct {
	Tips     []string          `yaml:"tips"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog renders advice codes into localized text.
type Catalog struct {
	languages map[string]catalogLanguage
	fallback  string
	matcher   language.Matcher
	tags      []string
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
)

// DefaultCatalog returns the catalog embedded in the binary.
func DefaultCatalog() *Catalog {
	defaultCatalogOnce.Do(func() {
		c, err := LoadCatalog(defaultCatalogYAML, DefaultLanguage)
		if err != nil {
			panic(fmt.Sprintf("embedded message catalog: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// LoadCatalog parses a YAML catalog keyed by language. fallback must be
// one of the languages present.
func LoadCatalog(data []byte, fallback string) (*Catalog, error) {
	languages := map[string]catalogLanguage{}
	if err := yaml.Unmarshal(data, &languages); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if _, ok := languages[fallback]; !ok {
		return nil, fmt.Errorf("fallback language %q missing from catalog", fallback)
	}

	// The fallback goes first so the matcher prefers it on no match.
	names := []string{fallback}
	for name := range languages {
		if name != fallback {
			names = append(names, name)
		}
	}
	sort.Strings(names[1:])

	tags := make([]language.Tag, 0, len(names))
	for _, name := range names {
		tag, err := language.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("invalid language %q: %w", name, err)
		}
		tags = append(tags, tag)
	}

	return &Catalog{
		languages: languages,
		fallback:  fallback,
		matcher:   language.NewMatcher(tags),
		tags:      names,
	}, nil
}

// Languages lists the supported languages, fallback first.
func (c *Catalog) Languages() []string {
	return append([]string(nil), c.tags...)
}

// Resolve picks the supported language best matching the given
// preferences, which may be plain tags ("es") or Accept-Language values.
func (c *Catalog) Resolve(preferences ...string) string {
	for _, pref := range preferences {
		if strings.TrimSpace(pref) == "" {
			continue
		}
		_, index, confidence := c.matcher.Match(parseAccept(pref)...)
		if confidence != language.No {
			return c.tags[index]
		}
	}
	return c.fallback
}

func parseAccept(value string) []language.Tag {
	tags, _, err := language.ParseAcceptLanguage(value)
	if err != nil {
		return nil
	}
	return tags
}

// Render produces the localized recommendation for a. Unknown languages use
// the fallback; unknown codes render as the code itself.
func (c *Catalog) Render(a Advice, lang string) types.Recommendation {
	template, ok := c.lookup(lang).Messages[a.Code]
	if !ok {
		template, ok = c.languages[c.fallback].Messages[a.Code]
	}
	if !ok {
		template = a.Code
	}

	if len(a.Params) > 0 {
		pairs := make([]string, 0, 2*len(a.Params))
		for k, v := range a.Params {
			pairs = append(pairs, "{"+k+"}", v)
		}
		template = strings.NewReplacer(pairs...).Replace(template)
	}

	return types.Recommendation{
		Code:     a.Code,
		Severity: a.Severity,
		Message:  template,
	}
}

// RenderAll renders every advice in order.
func (c *Catalog) RenderAll(advice []Advice, lang string) []types.Recommendation {
	out := make([]types.Recommendation, 0, len(advice))
	for _, a := range advice {
		out = append(out, c.Render(a, lang))
	}
	return out
}

// Tips returns the general sleep-hygiene tips for lang.
func (c *Catalog) Tips(lang string) []string {
	return append([]string(nil), c.lookup(lang).Tips...)
}

func (c *Catalog) lookup(lang string) catalogLanguage {
	if l, ok := c.languages[lang]; ok {
		return l
	}
	return c.languages[c.fallback]
}
