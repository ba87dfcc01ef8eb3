package models

import "strings"

// Param is a single named calculator input.
type Param struct {
	Name  string `json:"name" toml:"name"`
	Value string `json:"value" toml:"value"`
}

// Params is an ordered name to value mapping passed through to a calculator.
type Params []Param

// Get returns the value of the first param called name.
func (p Params) Get(name string) (string, bool) {
	for _, param := range p {
		if param.Name == name {
			return param.Value, true
		}
	}
	return "", false
}

// Names returns param names in declaration order.
func (p Params) Names() []string {
	names := make([]string, len(p))
	for i, param := range p {
		names[i] = param.Name
	}
	return names
}

// GuideExample is a worked example that pre-fills an external calculator.
type GuideExample struct {
	Label          string `json:"label" toml:"label"`
	CalculatorSlug string `json:"calculator_slug" toml:"calculator_slug"`
	Params         Params `json:"params,omitempty" toml:"params,omitempty"`
	Note           string `json:"note,omitempty" toml:"note,omitempty"`
}

// Guide is a long-form explainer authored directly as blocks.
type Guide struct {
	Slug                   string         `json:"slug" toml:"slug"`
	Title                  string         `json:"title" toml:"title"`
	Description            string         `json:"description" toml:"description"`
	Category               Category       `json:"category" toml:"category"`
	UpdatedAt              string         `json:"updated_at" toml:"updated_at"`
	Sections               []Block        `json:"sections" toml:"sections"`
	RelatedCalculatorSlugs []string       `json:"related_calculator_slugs" toml:"related_calculator_slugs"`
	RelatedGlossarySlugs   []string       `json:"related_glossary_slugs,omitempty" toml:"related_glossary_slugs,omitempty"`
	FAQs                   []FAQ          `json:"faqs,omitempty" toml:"faqs,omitempty"`
	Examples               []GuideExample `json:"examples,omitempty" toml:"examples,omitempty"`
}

// Validate reports the first missing required field.
func (g Guide) Validate() error {
	switch {
	case strings.TrimSpace(g.Slug) == "":
		return &Defect{Kind: ErrMissingField, Source: g.Title, Field: "slug", Message: "guide has no slug"}
	case strings.TrimSpace(g.Title) == "":
		return &Defect{Kind: ErrMissingField, Source: g.Slug, Field: "title", Message: "guide has no title"}
	case len(g.Sections) == 0:
		return &Defect{Kind: ErrMissingField, Source: g.Slug, Field: "sections", Message: "guide has no sections"}
	}
	return nil
}

// GuideCollection is one authored file of guides.
type GuideCollection struct {
	Name   string  `json:"name" toml:"name"`
	Guides []Guide `json:"guides" toml:"guides"`
}
