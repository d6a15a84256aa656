// Package roles produces role-labelled summaries: the extractive summary of a
// text prefixed with the perspective of a reader role.
package roles

import (
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

const (
	SUMMARY_WORDS       = 60
	GENERIC_EXPLANATION = "Summarizes the content from this reader's point of view."
)

//go:embed roles.yaml
var defaultRoles []byte

// Summarizer is the extractive summarizer a Catalog delegates to.
type Summarizer interface {
	Summarize(text string, maxWords int) string
}

type Role struct {
	Name        string `yaml:"name" json:"name"`
	Explanation string `yaml:"explanation" json:"explanation"`
}

type roleFile struct {
	Roles []Role `yaml:"roles"`
}

type Catalog struct {
	summarizer Summarizer
	roles      []Role
	byName     map[string]Role
}

// NewCatalog loads the built-in roles.
func NewCatalog(summarizer Summarizer) (*Catalog, error) {
	return NewCatalogFromYAML(summarizer, defaultRoles)
}

func NewCatalogFromYAML(summarizer Summarizer, data []byte) (*Catalog, error) {
	var file roleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("[Roles] failed to parse role catalog: %w", err)
	}

	c := &Catalog{
		summarizer: summarizer,
		byName:     make(map[string]Role, len(file.Roles)),
	}

	for _, r := range file.Roles {
		key := normalize(r.Name)
		if key == "" {
			return nil, fmt.Errorf("[Roles] role without a name")
		}
		if _, dup := c.byName[key]; dup {
			return nil, fmt.Errorf("[Roles] duplicate role %q", r.Name)
		}
		r.Name = key
		c.byName[key] = r
		c.roles = append(c.roles, r)
	}

	slog.Debug("[Roles] Loaded role catalog", slog.Int("roles", len(c.roles)))
	return c, nil
}

// Roles returns the catalog in file order.
func (c *Catalog) Roles() []Role {
	return append([]Role(nil), c.roles...)
}

func (c *Catalog) Has(role string) bool {
	_, ok := c.byName[normalize(role)]
	return ok
}

// Summary returns "[<Role> Perspective] " followed by a 60 word extractive
// summary of content. Unknown roles are labelled the same way.
func (c *Catalog) Summary(role, content string) string {
	return c.Label(role) + " " + c.summarizer.Summarize(content, SUMMARY_WORDS)
}

// Label returns the bracketed perspective prefix for role.
func (c *Catalog) Label(role string) string {
	// Casers carry state, so each call gets its own.
	return "[" + cases.Title(language.English).String(normalize(role)) + " Perspective]"
}

func (c *Catalog) Explanation(role string) string {
	if r, ok := c.byName[normalize(role)]; ok && r.Explanation != "" {
		return r.Explanation
	}
	return GENERIC_EXPLANATION
}

func normalize(role string) string {
	return strings.ToLower(strings.Join(strings.Fields(role), " "))
}
